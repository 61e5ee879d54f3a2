package policy

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Spec is a dependency policy reference as written in a workflow
// definition: either a bare strategy name or a mapping carrying a name and
// a parameter map.
//
//	dependency_policy: strict
//
//	dependency_policy:
//	  name: flexible
//	  params:
//	    maxAgeDays: 30
type Spec struct {
	Name   string                 `yaml:"name"`
	Params map[string]interface{} `yaml:"params"`
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (s *Spec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&s.Name)

	case yaml.MappingNode:
		var raw struct {
			Name   string                 `yaml:"name"`
			Params map[string]interface{} `yaml:"params"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		s.Name = raw.Name
		s.Params = raw.Params
		return nil

	default:
		return fmt.Errorf("dependency_policy must be a policy name or a mapping with name and params")
	}
}

// IsZero reports whether the spec was absent from the step declaration.
func (s Spec) IsZero() bool {
	return s.Name == "" && len(s.Params) == 0
}
