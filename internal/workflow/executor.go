package workflow

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/mod"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/policy"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/registry"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/utils"
)

// Failure phases recorded on aborted runs.
const (
	PhaseInstantiate = "instantiate"
	PhasePolicy      = "policy"
	PhaseValidation  = "validation"
	PhaseExecution   = "execution"
)

// Executor runs one workflow definition's steps in declared order. Results
// are memoized in a per-executor cache that survives across runs until
// explicitly cleared, so re-running the workflow reuses prior outcomes
// instead of re-executing modules.
//
// The cache is single-owner and only mutated during sequential processing;
// no locking is needed.
type Executor struct {
	definition *Definition
	registry   *registry.Registry
	factory    *policy.Factory
	cache      *gocache.Cache
}

// NewExecutor creates an executor for a definition with an empty cache.
func NewExecutor(def *Definition, reg *registry.Registry, factory *policy.Factory) *Executor {
	return &Executor{
		definition: def,
		registry:   reg,
		factory:    factory,
		cache:      gocache.New(gocache.NoExpiration, 0),
	}
}

// Definition returns the definition this executor runs.
func (e *Executor) Definition() *Definition {
	return e.definition
}

// ClearCache drops every memoized module result.
func (e *Executor) ClearCache() {
	e.cache.Flush()
}

// CachedModules returns the module names currently memoized, sorted.
func (e *Executor) CachedModules() []string {
	items := e.cache.Items()
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes the workflow's steps in declared order and returns a
// structured result. Failures never escape as faults; required-step
// failures abort the run with the offending module and phase recorded.
func (e *Executor) Run(ctx context.Context) *RunResult {
	run := &RunResult{
		RunID:     uuid.New().String(),
		Workflow:  e.definition.Name,
		Status:    RunSuccess,
		StartedAt: time.Now(),
		Steps:     make(map[string]StepResult),
	}
	defer func() {
		run.FinishedAt = time.Now()
	}()

	abort := func(step ModuleStep, phase string, stepResult StepResult, errs []string) *RunResult {
		run.Steps[step.Module] = stepResult
		run.Status = RunFailed
		run.FailedModule = step.Module
		run.FailedPhase = phase
		run.Errors = errs
		utils.LogError("Workflow %s aborted at module %s during %s", e.definition.Name, step.Module, phase)
		return run
	}

	// Module names counted as workflow-produced: everything memoized so
	// far, including results carried over from earlier runs on this
	// executor.
	produced := make(map[string]bool)
	for name := range e.cache.Items() {
		produced[name] = true
	}

	utils.LogInfo("Starting workflow: %s (run %s)", e.definition.Name, run.RunID)

	for i, step := range e.definition.Modules {
		utils.LogInfo("Step %d/%d: %s", i+1, len(e.definition.Modules), step.Module)

		// Cache hit: reuse without re-validating or re-executing.
		if cached, found := e.cache.Get(step.Module); found {
			if execution, ok := cached.(mod.ExecutionResult); ok {
				utils.LogInfo("Reusing cached result for %s", step.Module)
				if _, exists := run.Steps[step.Module]; !exists {
					run.Steps[step.Module] = StepResult{State: StepReused, Execution: &execution}
				}
				continue
			}
			utils.LogWarning("Cache entry for %s has unexpected type, re-executing", step.Module)
		}

		// Instantiate via the registry; the step's config file overrides
		// the registry-declared path.
		instance, err := e.registry.GetInstance(step.Module, step.ConfigFile)
		if err != nil {
			return abort(step, PhaseInstantiate, StepResult{State: StepFailed}, []string{err.Error()})
		}

		// Build the step's dependency policy. A bad spec aborts before
		// anything executes.
		pol, err := e.factory.Build(step.DependencyPolicy)
		if err != nil {
			return abort(step, PhasePolicy, StepResult{State: StepFailed}, []string{err.Error()})
		}

		// Validate dependencies against what the run holds so far.
		validation := pol.Validate(instance.Dependencies(), produced)
		logValidationIssues(step.Module, validation)

		if !validation.Valid() {
			stepResult := StepResult{State: StepFailed, Policy: pol.Name(), Validation: &validation}
			if step.Required {
				return abort(step, PhaseValidation, stepResult, issueMessages(validation.Errors))
			}
			utils.LogWarning("Skipping optional module %s: unsatisfied dependencies", step.Module)
			stepResult.State = StepSkipped
			run.Steps[step.Module] = stepResult
			continue
		}

		// Execute through the panic-safe wrapper.
		execution := mod.SafeExecute(ctx, instance)

		if execution.Failed() && step.Required {
			stepResult := StepResult{State: StepFailed, Policy: pol.Name(), Execution: &execution, Validation: &validation}
			return abort(step, PhaseExecution, stepResult, execution.Errors)
		}

		// Success, or failed-but-optional: memoize and move on.
		e.cache.Set(step.Module, execution, gocache.NoExpiration)
		produced[step.Module] = true

		state := StepSuccess
		if execution.Failed() {
			state = StepFailed
			utils.LogWarning("Optional module %s failed, continuing: %s", step.Module, execution.Message)
		} else {
			utils.LogSuccess("Completed %s", step.Module)
		}
		run.Steps[step.Module] = StepResult{State: state, Policy: pol.Name(), Execution: &execution, Validation: &validation}
	}

	utils.LogSuccess("Workflow completed: %s", e.definition.Name)

	return run
}

func issueMessages(issues []policy.Issue) []string {
	msgs := make([]string, 0, len(issues))
	for _, issue := range issues {
		msgs = append(msgs, issue.Message)
	}
	return msgs
}

func logValidationIssues(module string, result policy.Result) {
	for _, warning := range result.Warnings {
		utils.LogWarning("%s: %s", module, warning.Message)
	}
	for _, issue := range result.Errors {
		utils.LogError("%s: %s", module, issue.Message)
	}
}
