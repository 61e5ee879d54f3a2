package policy

import (
	"fmt"
	"time"
)

// HybridPolicy resolves dependencies from the current run first and falls
// back to the shared store with the same age ceiling as FlexiblePolicy,
// but every declared dependency must resolve. With preferWorkflow set,
// each store-sourced resolution additionally emits a warning so masked
// staleness stays visible.
type HybridPolicy struct {
	store          StoreIndex
	preferWorkflow bool
	maxAgeDays     int
	now            func() time.Time
}

// NewHybridPolicy creates the hybrid strategy. maxAgeDays of zero disables
// the staleness ceiling.
func NewHybridPolicy(preferWorkflow bool, maxAgeDays int, store StoreIndex) *HybridPolicy {
	return &HybridPolicy{
		store:          store,
		preferWorkflow: preferWorkflow,
		maxAgeDays:     maxAgeDays,
		now:            time.Now,
	}
}

// Name returns the strategy's registered name.
func (p *HybridPolicy) Name() string {
	return PolicyHybrid
}

// Validate resolves each dependency from the run, then the store. Unresolved
// or stale dependencies always block.
func (p *HybridPolicy) Validate(deps map[string]string, workflowModules map[string]bool) Result {
	result := newResult()

	for _, name := range sortedDeps(deps) {
		if workflowModules[name] {
			result.Resolved[name] = Resolution{Source: SourceWorkflow, Value: deps[name]}
			continue
		}

		probe := probeStore(p.store, name, p.maxAgeDays, p.now())

		if probe.found && !probe.stale {
			result.Resolved[name] = Resolution{Source: SourceDatabase, Value: deps[name]}
			if p.preferWorkflow {
				result.Warnings = append(result.Warnings, Issue{
					Dependency: name,
					Reason:     ReasonNone,
					Message:    fmt.Sprintf("dataset %q resolved from store; this workflow does not produce it", name),
				})
			}
			continue
		}

		result.Resolved[name] = Resolution{Source: SourceNone, Value: deps[name]}

		if probe.found && probe.stale {
			result.Errors = append(result.Errors, Issue{
				Dependency: name,
				Reason:     ReasonTooOld,
				Message:    probe.staleMessage(name, p.maxAgeDays),
			})
			continue
		}

		result.Errors = append(result.Errors, Issue{
			Dependency: name,
			Reason:     ReasonNotFound,
			Message:    probe.missingMessage(name),
		})
	}

	return result
}
