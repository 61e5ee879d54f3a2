// Package registry binds module names to their implementations and their
// configuration sources. The implementation catalog is assembled explicitly
// at startup and injected here, so multiple registries with different
// tables can coexist.
package registry

import (
	"fmt"
	"sort"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/mod"
)

// Factory constructs a module instance from a resolved config path. An
// empty path means the module runs without a declared configuration file.
type Factory func(configPath string) (mod.Module, error)

// Catalog maps module names to their factories.
type Catalog map[string]Factory

// NotFoundError reports a module name absent from the implementation
// catalog. It is fatal: a workflow step referenced a module this build
// does not carry.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("module %q is not in the catalog", e.Name)
}

// Registry resolves module names to constructed instances, combining the
// implementation catalog with the registry table's per-module settings.
type Registry struct {
	catalog Catalog
	entries map[string]Entry
}

// New creates a registry. entries may be nil when no registry table is
// configured; every cataloged module is then enabled with no declared
// config path.
func New(catalog Catalog, entries map[string]Entry) *Registry {
	if entries == nil {
		entries = make(map[string]Entry)
	}
	return &Registry{
		catalog: catalog,
		entries: entries,
	}
}

// GetInstance constructs the named module. The config path is resolved
// with precedence override > registry-declared > none.
func (r *Registry) GetInstance(name, overrideConfigPath string) (mod.Module, error) {
	factory, ok := r.catalog[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}

	configPath := overrideConfigPath
	if configPath == "" {
		configPath = r.entries[name].ConfigPath
	}

	instance, err := factory(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to construct module %q: %w", name, err)
	}

	return instance, nil
}

// ListNames enumerates cataloged module names, sorted. With enabledOnly
// set, modules whose registry entry disables them are omitted; a missing
// entry implies enabled.
func (r *Registry) ListNames(enabledOnly bool) []string {
	names := make([]string, 0, len(r.catalog))
	for name := range r.catalog {
		if enabledOnly && !r.entries[name].IsEnabled() {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetInfo returns the registry table entry for a cataloged module. Modules
// without a declared entry get an empty one; names unknown to the catalog
// fail.
func (r *Registry) GetInfo(name string) (Entry, error) {
	if _, ok := r.catalog[name]; !ok {
		return Entry{}, &NotFoundError{Name: name}
	}
	return r.entries[name], nil
}
