package workflow

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/policy"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/registry"
)

// Definition is a declarative workflow: a named, ordered list of module
// steps. Step order is fixed by declaration; execution never reorders or
// parallelizes.
type Definition struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Modules     []ModuleStep `yaml:"modules"`
}

// ModuleStep is one entry in a workflow definition.
type ModuleStep struct {
	Module           string      `yaml:"module"`
	ConfigFile       string      `yaml:"config_file"`
	DependencyPolicy policy.Spec `yaml:"dependency_policy,omitempty"`
	Required         bool        `yaml:"required,omitempty"`
}

// moduleNameRe constrains module references to the snake_case names the
// catalog uses.
var moduleNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// LoadDefinition reads and parses one workflow definition from a YAML
// file. Defaults are applied here, once: a step without a dependency
// policy gets strict, and required defaults to false.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse workflow YAML: %w", err)
	}

	def.applyDefaults()

	return &def, nil
}

func (d *Definition) applyDefaults() {
	for i := range d.Modules {
		if d.Modules[i].DependencyPolicy.IsZero() {
			d.Modules[i].DependencyPolicy = policy.Spec{Name: policy.PolicyStrict}
		}
	}
}

// Validate checks the definition's schema: a declared name, at least one
// step, and per step a well-formed module reference known to the catalog,
// a config path, and a policy spec the factory recognizes.
func (d *Definition) Validate(reg *registry.Registry, factory *policy.Factory) error {
	if d.Name == "" {
		return fmt.Errorf("workflow name is required")
	}

	if len(d.Modules) == 0 {
		return fmt.Errorf("at least one module step is required")
	}

	for i, step := range d.Modules {
		if step.Module == "" {
			return fmt.Errorf("step %d: module name is required", i+1)
		}
		if !moduleNameRe.MatchString(step.Module) {
			return fmt.Errorf("step %d: malformed module name %q", i+1, step.Module)
		}
		if _, err := reg.GetInfo(step.Module); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		if step.ConfigFile == "" {
			return fmt.Errorf("step %d (%s): config_file is required", i+1, step.Module)
		}
		if err := factory.ValidateSpec(step.DependencyPolicy); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Module, err)
		}
	}

	return nil
}
