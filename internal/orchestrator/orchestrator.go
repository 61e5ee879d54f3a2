package orchestrator

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/policy"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/registry"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/utils"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/workflow"
)

// DefinitionError records one workflow file that failed discovery, either
// unreadable, unparseable, or schema-invalid. The file is excluded; other
// definitions are unaffected.
type DefinitionError struct {
	Path string
	Err  error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("workflow definition %s: %v", e.Path, e.Err)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// Orchestrator owns the discovered workflow definitions and lazily holds
// exactly one executor per workflow name, so repeated executions of the
// same workflow share one memoization cache.
type Orchestrator struct {
	registry  *registry.Registry
	factory   *policy.Factory
	workflows map[string]*workflow.Definition
	executors map[string]*workflow.Executor
	rejected  []DefinitionError
}

// New scans dir recursively for workflow YAML files, validates each
// definition, and registers the valid ones under their declared names. A
// bad definition is logged and excluded without blocking the others; only
// an unreadable directory fails construction.
func New(dir string, reg *registry.Registry, factory *policy.Factory) (*Orchestrator, error) {
	o := &Orchestrator{
		registry:  reg,
		factory:   factory,
		workflows: make(map[string]*workflow.Definition),
		executors: make(map[string]*workflow.Executor),
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isWorkflowFile(path) {
			return nil
		}

		def, defErr := loadAndValidate(path, reg, factory)
		if defErr != nil {
			utils.LogWarning("Skipping workflow file %s: %v", path, defErr.Err)
			o.rejected = append(o.rejected, *defErr)
			return nil
		}

		if existing, ok := o.workflows[def.Name]; ok {
			utils.LogWarning("Duplicate workflow name %q in %s, keeping the earlier definition (%d modules)",
				def.Name, path, len(existing.Modules))
			o.rejected = append(o.rejected, DefinitionError{
				Path: path,
				Err:  fmt.Errorf("duplicate workflow name %q", def.Name),
			})
			return nil
		}

		o.workflows[def.Name] = def
		utils.LogVerbose("Discovered workflow %s (%d modules) from %s", def.Name, len(def.Modules), path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan workflows directory %s: %w", dir, err)
	}

	utils.LogInfo("Discovered %d workflow(s) in %s", len(o.workflows), dir)

	return o, nil
}

func isWorkflowFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func loadAndValidate(path string, reg *registry.Registry, factory *policy.Factory) (*workflow.Definition, *DefinitionError) {
	def, err := workflow.LoadDefinition(path)
	if err != nil {
		return nil, &DefinitionError{Path: path, Err: err}
	}
	if err := def.Validate(reg, factory); err != nil {
		return nil, &DefinitionError{Path: path, Err: err}
	}
	return def, nil
}

// ListWorkflows returns the registered workflow names, sorted.
func (o *Orchestrator) ListWorkflows() []string {
	names := make([]string, 0, len(o.workflows))
	for name := range o.workflows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definition returns the registered definition for a workflow name.
func (o *Orchestrator) Definition(name string) (*workflow.Definition, error) {
	def, ok := o.workflows[name]
	if !ok {
		return nil, fmt.Errorf("workflow %q is not registered", name)
	}
	return def, nil
}

// Rejected returns the definitions excluded during discovery.
func (o *Orchestrator) Rejected() []DefinitionError {
	return o.rejected
}

// Execute runs one workflow by name. The workflow's executor is created on
// first use and kept, so its cache carries over to later calls; clearCache
// drops that cache before this run.
func (o *Orchestrator) Execute(ctx context.Context, name string, clearCache bool) (*workflow.RunResult, error) {
	exec, err := o.executorFor(name)
	if err != nil {
		return nil, err
	}

	if clearCache {
		utils.LogInfo("Clearing cached results for workflow %s", name)
		exec.ClearCache()
	}

	return exec.Run(ctx), nil
}

// ExecuteChain runs workflows sequentially in the given order and returns
// a result per executed workflow. With stopOnFailure, a failed workflow
// ends the chain: later workflows are never invoked and their executors
// never constructed.
func (o *Orchestrator) ExecuteChain(ctx context.Context, names []string, stopOnFailure bool) (map[string]*workflow.RunResult, error) {
	// Unknown names fail the whole chain before any workflow runs.
	for _, name := range names {
		if _, ok := o.workflows[name]; !ok {
			return nil, fmt.Errorf("workflow %q is not registered", name)
		}
	}

	results := make(map[string]*workflow.RunResult, len(names))

	for i, name := range names {
		utils.LogInfo("Chain %d/%d: %s", i+1, len(names), name)

		result, err := o.Execute(ctx, name, false)
		if err != nil {
			return results, err
		}
		results[name] = result

		if result.Failed() && stopOnFailure {
			utils.LogError("Chain stopped: workflow %s failed", name)
			break
		}
	}

	return results, nil
}

// ClearAllCaches drops the memoized results of every executor constructed
// so far.
func (o *Orchestrator) ClearAllCaches() {
	for name, exec := range o.executors {
		exec.ClearCache()
		utils.LogVerbose("Cleared cache for workflow %s", name)
	}
}

func (o *Orchestrator) executorFor(name string) (*workflow.Executor, error) {
	if exec, ok := o.executors[name]; ok {
		return exec, nil
	}

	def, ok := o.workflows[name]
	if !ok {
		return nil, fmt.Errorf("workflow %q is not registered", name)
	}

	exec := workflow.NewExecutor(def, o.registry, o.factory)
	o.executors[name] = exec
	return exec, nil
}
