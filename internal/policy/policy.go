// Package policy implements the dependency-resolution strategies that decide
// whether a module's declared data dependencies are satisfiable before it
// runs. Three strategies exist: strict, flexible and hybrid. All of them are
// pure with respect to the run: validation never mutates the workflow or the
// store.
package policy

import (
	"sort"
	"time"
)

// Built-in policy names accepted in workflow definitions.
const (
	PolicyStrict   = "strict"
	PolicyFlexible = "flexible"
	PolicyHybrid   = "hybrid"
)

// Source identifies where a dependency was satisfied from.
type Source string

const (
	// SourceWorkflow means the dependency was produced by a module earlier
	// in the current run.
	SourceWorkflow Source = "workflow"
	// SourceDatabase means the dependency was found in the shared store.
	SourceDatabase Source = "database"
	// SourceWorkflowDatabase is reserved for strategies that combine both
	// origins. None of the built-in strategies emit it.
	SourceWorkflowDatabase Source = "workflow+database"
	// SourceNone marks a dependency that could not be satisfied.
	SourceNone Source = "none"
)

// Reason classifies a dependency failure.
type Reason string

const (
	ReasonNone              Reason = "none"
	ReasonNotFound          Reason = "not_found"
	ReasonTooOld            Reason = "too_old"
	ReasonWorkflowViolation Reason = "workflow_violation"
)

// Resolution records where one dependency was satisfied from. Value carries
// the declared resource locator.
type Resolution struct {
	Source Source `yaml:"source"`
	Value  string `yaml:"value"`
}

// Issue is one blocking error or non-blocking warning raised during
// validation.
type Issue struct {
	Dependency string `yaml:"dependency"`
	Reason     Reason `yaml:"reason"`
	Message    string `yaml:"message"`
}

// Result aggregates per-dependency outcomes of one validation pass. Every
// declared dependency appears in Resolved; unsatisfied ones carry
// SourceNone.
type Result struct {
	Resolved map[string]Resolution `yaml:"resolved"`
	Errors   []Issue               `yaml:"errors,omitempty"`
	Warnings []Issue               `yaml:"warnings,omitempty"`
}

// Valid reports whether validation found no blocking errors.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

func newResult() Result {
	return Result{Resolved: make(map[string]Resolution)}
}

// Policy decides whether a module's declared dependencies are satisfiable.
// Per-dependency outcomes are independent of each other, so evaluation
// order never changes the aggregate result.
type Policy interface {
	// Name returns the strategy's registered name.
	Name() string

	// Validate checks declared dependencies (dataset name -> locator)
	// against the module names already produced or declared in the current
	// run. Strategies with store fallback additionally probe the shared
	// store.
	Validate(deps map[string]string, workflowModules map[string]bool) Result
}

// StoreIndex is the minimal view of the shared store that fallback
// strategies need.
type StoreIndex interface {
	HasDataset(name string) (bool, time.Time, error)
}

// sortedDeps returns dependency names in stable order so messages and
// issue lists are deterministic.
func sortedDeps(deps map[string]string) []string {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
