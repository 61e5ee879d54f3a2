package policy

import (
	"fmt"
	"sort"
)

// SpecError reports an invalid dependency-policy spec: an unknown strategy
// name or parameters that do not satisfy the strategy's schema. It is
// raised at construction time, before any module executes.
type SpecError struct {
	Policy string
	Detail string
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("invalid dependency policy spec %q: %s", e.Policy, e.Detail)
}

// Factory constructs policy strategies from workflow-declared specs. Every
// spec is validated against the schema catalog first; an invalid spec
// yields a *SpecError and no strategy.
type Factory struct {
	store   StoreIndex
	schemas map[string]Schema
}

// NewFactory creates a factory whose store-fallback strategies probe the
// given store index.
func NewFactory(store StoreIndex) *Factory {
	return &Factory{
		store:   store,
		schemas: Catalog(),
	}
}

// Names lists the strategies the factory can build, sorted.
func (f *Factory) Names() []string {
	names := make([]string, 0, len(f.schemas))
	for name := range f.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateSpec checks a spec against the schema catalog without
// constructing the strategy. Discovery uses it to reject bad definitions
// up front.
func (f *Factory) ValidateSpec(spec Spec) error {
	_, err := f.resolveParams(spec)
	return err
}

// Build validates a spec and constructs the requested strategy.
func (f *Factory) Build(spec Spec) (Policy, error) {
	params, err := f.resolveParams(spec)
	if err != nil {
		return nil, err
	}

	switch spec.Name {
	case PolicyStrict:
		return NewStrictPolicy(), nil
	case PolicyFlexible:
		return NewFlexiblePolicy(
			params.stringList("requiredDeps"),
			params.intval("maxAgeDays"),
			f.store,
		), nil
	case PolicyHybrid:
		return NewHybridPolicy(
			params.boolean("preferWorkflow"),
			params.intval("maxAgeDays"),
			f.store,
		), nil
	}

	// Unreachable: resolveParams already rejected unknown names.
	return nil, &SpecError{Policy: spec.Name, Detail: "unknown policy"}
}

// resolvedParams holds schema-validated parameter values with defaults
// applied.
type resolvedParams map[string]interface{}

func (p resolvedParams) boolean(key string) bool {
	v, ok := p[key].(bool)
	return ok && v
}

func (p resolvedParams) intval(key string) int {
	v, ok := p[key].(int)
	if !ok {
		return 0
	}
	return v
}

// stringList returns nil when the parameter was not provided, preserving
// the provided-but-empty distinction that FlexiblePolicy relies on.
func (p resolvedParams) stringList(key string) []string {
	v, ok := p[key].([]string)
	if !ok {
		return nil
	}
	return v
}

func (f *Factory) resolveParams(spec Spec) (resolvedParams, error) {
	if spec.Name == "" {
		return nil, &SpecError{Policy: spec.Name, Detail: "policy name is empty"}
	}

	schema, ok := f.schemas[spec.Name]
	if !ok {
		return nil, &SpecError{
			Policy: spec.Name,
			Detail: fmt.Sprintf("unknown policy, expected one of %v", f.Names()),
		}
	}

	resolved := make(resolvedParams)

	// Reject parameters the schema does not declare.
	for _, key := range sortedParamKeys(spec.Params) {
		paramSpec, declared := schema.Param(key)
		if !declared {
			return nil, &SpecError{
				Policy: spec.Name,
				Detail: fmt.Sprintf("unknown parameter %q", key),
			}
		}

		value, err := coerceParam(paramSpec, spec.Params[key])
		if err != nil {
			return nil, &SpecError{Policy: spec.Name, Detail: err.Error()}
		}
		resolved[key] = value
	}

	// Apply defaults and enforce required parameters.
	for _, paramSpec := range schema.Params {
		if _, ok := resolved[paramSpec.Key]; ok {
			continue
		}
		if paramSpec.Required {
			return nil, &SpecError{
				Policy: spec.Name,
				Detail: fmt.Sprintf("missing required parameter %q", paramSpec.Key),
			}
		}
		if paramSpec.Default != nil {
			resolved[paramSpec.Key] = paramSpec.Default
		}
	}

	return resolved, nil
}

// coerceParam converts a raw YAML-decoded value into the schema's declared
// type.
func coerceParam(spec ParamSpec, raw interface{}) (interface{}, error) {
	switch spec.Type {
	case ParamTypeBool:
		v, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("parameter %q must be a boolean, got %T", spec.Key, raw)
		}
		return v, nil

	case ParamTypeInt:
		switch v := raw.(type) {
		case int:
			if v < 0 {
				return nil, fmt.Errorf("parameter %q must not be negative", spec.Key)
			}
			return v, nil
		case int64:
			if v < 0 {
				return nil, fmt.Errorf("parameter %q must not be negative", spec.Key)
			}
			return int(v), nil
		default:
			return nil, fmt.Errorf("parameter %q must be an integer, got %T", spec.Key, raw)
		}

	case ParamTypeStringList:
		items, ok := raw.([]interface{})
		if !ok {
			return nil, fmt.Errorf("parameter %q must be a list of strings, got %T", spec.Key, raw)
		}
		list := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("parameter %q must contain only strings, got %T", spec.Key, item)
			}
			list = append(list, s)
		}
		return list, nil
	}

	return nil, fmt.Errorf("parameter %q has unsupported schema type %q", spec.Key, spec.Type)
}

func sortedParamKeys(params map[string]interface{}) []string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
