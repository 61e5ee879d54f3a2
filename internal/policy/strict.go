package policy

import "fmt"

// StrictPolicy resolves dependencies only from modules that already ran or
// are declared earlier in the current workflow. The shared store is never
// consulted; anything not produced in-run is a blocking workflow violation.
type StrictPolicy struct{}

// NewStrictPolicy creates the strict strategy. It takes no parameters.
func NewStrictPolicy() *StrictPolicy {
	return &StrictPolicy{}
}

// Name returns the strategy's registered name.
func (p *StrictPolicy) Name() string {
	return PolicyStrict
}

// Validate resolves every dependency from the current run or fails it.
func (p *StrictPolicy) Validate(deps map[string]string, workflowModules map[string]bool) Result {
	result := newResult()

	for _, name := range sortedDeps(deps) {
		if workflowModules[name] {
			result.Resolved[name] = Resolution{Source: SourceWorkflow, Value: deps[name]}
			continue
		}

		result.Resolved[name] = Resolution{Source: SourceNone, Value: deps[name]}
		result.Errors = append(result.Errors, Issue{
			Dependency: name,
			Reason:     ReasonWorkflowViolation,
			Message:    fmt.Sprintf("dependency %q must be produced by the current workflow", name),
		})
	}

	return result
}
