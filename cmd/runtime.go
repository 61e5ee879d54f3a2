package cmd

import (
	"fmt"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/modules"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/orchestrator"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/policy"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/registry"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/store"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/utils"
)

// runtime bundles the long-lived components a command needs: the dataset
// store, the module registry, and the orchestrator built on top of them.
type runtime struct {
	store        *store.Store
	registry     *registry.Registry
	orchestrator *orchestrator.Orchestrator
}

// newRuntime validates the resolved configuration and assembles the
// store, registry, and orchestrator. Callers must Close the runtime.
func newRuntime() (*runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset store: %w", err)
	}

	var entries map[string]registry.Entry
	if cfg.RegistryFile != "" {
		entries, err = registry.LoadEntries(cfg.RegistryFile)
		if err != nil {
			closeStore(st)
			return nil, fmt.Errorf("failed to load registry table: %w", err)
		}
	}

	reg := registry.New(modules.BuiltinCatalog(st), entries)

	orch, err := orchestrator.New(cfg.WorkflowsDir, reg, policy.NewFactory(st))
	if err != nil {
		closeStore(st)
		return nil, err
	}

	return &runtime{
		store:        st,
		registry:     reg,
		orchestrator: orch,
	}, nil
}

// Close releases the dataset store.
func (r *runtime) Close() {
	closeStore(r.store)
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		utils.LogWarning("Failed to close dataset store: %v", err)
	}
}
