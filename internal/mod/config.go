package mod

import (
	"fmt"
	"os"
	"reflect"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a module's YAML configuration file into a
// module-specific struct. The orchestration core never inspects the
// contents; each module defines its own config shape.
func LoadConfig(path string, target interface{}) error {
	if path == "" {
		return fmt.Errorf("config path cannot be empty")
	}
	if target == nil {
		return fmt.Errorf("target cannot be nil")
	}

	// Validate that target is a pointer to a struct
	if reflect.ValueOf(target).Kind() != reflect.Ptr {
		return fmt.Errorf("target must be a pointer to a struct")
	}
	if reflect.ValueOf(target).Elem().Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to a struct")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}
