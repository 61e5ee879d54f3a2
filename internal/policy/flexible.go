package policy

import (
	"fmt"
	"time"
)

// FlexiblePolicy resolves dependencies from the current run first and falls
// back to the shared store. Only the configured required dependencies block
// the step; everything else degrades to warnings. Store-sourced data older
// than the configured ceiling always blocks.
type FlexiblePolicy struct {
	store      StoreIndex
	requireAll bool
	required   map[string]bool
	maxAgeDays int
	now        func() time.Time
}

// NewFlexiblePolicy creates the flexible strategy. A nil requiredDeps means
// every declared dependency is required; an empty non-nil slice means none
// are. maxAgeDays of zero disables the staleness ceiling.
func NewFlexiblePolicy(requiredDeps []string, maxAgeDays int, store StoreIndex) *FlexiblePolicy {
	p := &FlexiblePolicy{
		store:      store,
		requireAll: requiredDeps == nil,
		required:   make(map[string]bool, len(requiredDeps)),
		maxAgeDays: maxAgeDays,
		now:        time.Now,
	}
	for _, name := range requiredDeps {
		p.required[name] = true
	}
	return p
}

// Name returns the strategy's registered name.
func (p *FlexiblePolicy) Name() string {
	return PolicyFlexible
}

// Validate resolves each dependency from the run, then the store. Required
// dependencies that stay unresolved are blocking; non-required ones only
// warn.
func (p *FlexiblePolicy) Validate(deps map[string]string, workflowModules map[string]bool) Result {
	result := newResult()

	for _, name := range sortedDeps(deps) {
		if workflowModules[name] {
			result.Resolved[name] = Resolution{Source: SourceWorkflow, Value: deps[name]}
			continue
		}

		probe := probeStore(p.store, name, p.maxAgeDays, p.now())

		if probe.found && !probe.stale {
			result.Resolved[name] = Resolution{Source: SourceDatabase, Value: deps[name]}
			continue
		}

		result.Resolved[name] = Resolution{Source: SourceNone, Value: deps[name]}

		if probe.found && probe.stale {
			// Stale store data blocks regardless of the required set.
			result.Errors = append(result.Errors, Issue{
				Dependency: name,
				Reason:     ReasonTooOld,
				Message:    probe.staleMessage(name, p.maxAgeDays),
			})
			continue
		}

		issue := Issue{
			Dependency: name,
			Reason:     ReasonNotFound,
			Message:    probe.missingMessage(name),
		}
		if p.isRequired(name) {
			result.Errors = append(result.Errors, issue)
		} else {
			result.Warnings = append(result.Warnings, issue)
		}
	}

	return result
}

func (p *FlexiblePolicy) isRequired(name string) bool {
	if p.requireAll {
		return true
	}
	return p.required[name]
}

// probeResult captures one store lookup for a dependency.
type probeResult struct {
	found bool
	stale bool
	age   time.Duration
	err   error
}

// probeStore checks the shared store for a dataset and evaluates its age
// against the ceiling. Store read failures are reported as not-found with
// the error preserved for the message.
func probeStore(store StoreIndex, name string, maxAgeDays int, now time.Time) probeResult {
	if store == nil {
		return probeResult{}
	}

	found, updatedAt, err := store.HasDataset(name)
	if err != nil {
		return probeResult{err: err}
	}
	if !found {
		return probeResult{}
	}

	age := now.Sub(updatedAt)
	stale := maxAgeDays > 0 && age > time.Duration(maxAgeDays)*24*time.Hour

	return probeResult{found: true, stale: stale, age: age}
}

func (r probeResult) staleMessage(name string, maxAgeDays int) string {
	return fmt.Sprintf("dataset %q in store is %.1f days old, exceeding the %d day limit",
		name, r.age.Hours()/24, maxAgeDays)
}

func (r probeResult) missingMessage(name string) string {
	if r.err != nil {
		return fmt.Sprintf("dataset %q could not be read from store: %v", name, r.err)
	}
	return fmt.Sprintf("dataset %q not produced in this workflow and absent from store", name)
}
