// Package mod provides the core module contract for the planning workflow system
package mod

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/utils"
)

// Module defines the interface that all planning modules must implement
type Module interface {
	// Name returns the module's stable identifier, immutable for the
	// module's lifetime
	Name() string

	// Dependencies returns the module's declared data dependencies as a
	// mapping of dataset name to expected resource locator. This is a
	// declaration only; resolution happens in the dependency policies.
	Dependencies() map[string]string

	// Execute runs the module's domain logic. Full output payloads go to
	// the shared store; the returned result carries status and summary
	// metadata only.
	Execute(ctx context.Context) (ExecutionResult, error)
}

// SafeExecute invokes a module's Execute and guarantees that no module
// failure escapes as an unhandled fault: returned errors and panics are
// both converted into a failed ExecutionResult.
func SafeExecute(ctx context.Context, m Module) (result ExecutionResult) {
	defer func() {
		if r := recover(); r != nil {
			utils.LogError("Module %s panicked: %v", m.Name(), r)
			utils.LogDebug("Panic stack for module %s:\n%s", m.Name(), debug.Stack())
			result = ExecutionResult{
				Status:  StatusFailed,
				Message: fmt.Sprintf("module %s panicked", m.Name()),
				Errors:  []string{fmt.Sprintf("panic: %v", r)},
			}
		}
	}()

	res, err := m.Execute(ctx)
	if err != nil {
		return ExecutionResult{
			Status:  StatusFailed,
			Message: fmt.Sprintf("module %s failed", m.Name()),
			Summary: res.Summary,
			Errors:  append(res.Errors, err.Error()),
		}
	}

	if res.Status == "" {
		res.Status = StatusSuccess
	}
	return res
}
