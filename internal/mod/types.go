package mod

// Status is the terminal outcome of a module execution
type Status string

const (
	// StatusSuccess indicates the module completed its work
	StatusSuccess Status = "success"
	// StatusFailed indicates the module reported or raised a failure
	StatusFailed Status = "failed"
)

// ExecutionResult contains the outcome of a module execution. It carries
// status and summary metadata only; the module's full output data lives in
// the shared store.
type ExecutionResult struct {
	Status  Status                 `yaml:"status"`
	Message string                 `yaml:"message,omitempty"`
	Summary map[string]interface{} `yaml:"summary,omitempty"`
	Errors  []string               `yaml:"errors,omitempty"`
}

// Failed reports whether the execution ended in failure
func (r ExecutionResult) Failed() bool {
	return r.Status == StatusFailed
}

// NewSuccessResult builds a success result with a human message
func NewSuccessResult(message string) ExecutionResult {
	return ExecutionResult{
		Status:  StatusSuccess,
		Message: message,
	}
}

// NewFailedResult builds a failed result carrying the given errors
func NewFailedResult(message string, errs ...string) ExecutionResult {
	return ExecutionResult{
		Status:  StatusFailed,
		Message: message,
		Errors:  errs,
	}
}
