package workflow

import (
	"fmt"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/mod"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/policy"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/utils"
)

// StepState is the terminal state of one processed step.
type StepState string

const (
	// StepReused means the run's cache already held a result for the module.
	StepReused StepState = "reused"
	// StepSuccess means dependency validation passed and execution succeeded.
	StepSuccess StepState = "success"
	// StepFailed means validation or execution failed.
	StepFailed StepState = "failed"
	// StepSkipped means an optional step was dropped after failing
	// dependency validation.
	StepSkipped StepState = "skipped"
)

// StepResult records how one step ended, including the dependency
// validation outcome and, when the module ran, its execution result.
type StepResult struct {
	State      StepState            `yaml:"state"`
	Policy     string               `yaml:"policy,omitempty"`
	Execution  *mod.ExecutionResult `yaml:"execution,omitempty"`
	Validation *policy.Result       `yaml:"validation,omitempty"`
}

// RunStatus is the overall outcome of a workflow run.
type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunFailed  RunStatus = "failed"
)

// RunResult is the structured outcome of one workflow run. Run-time
// problems never escape as faults; they are always folded into this
// result.
type RunResult struct {
	RunID        string                `yaml:"run_id"`
	Workflow     string                `yaml:"workflow"`
	Status       RunStatus             `yaml:"status"`
	StartedAt    time.Time             `yaml:"started_at"`
	FinishedAt   time.Time             `yaml:"finished_at"`
	Steps        map[string]StepResult `yaml:"steps"`
	FailedModule string                `yaml:"failed_module,omitempty"`
	FailedPhase  string                `yaml:"failed_phase,omitempty"`
	Errors       []string              `yaml:"errors,omitempty"`
}

// Failed reports whether the run aborted.
func (r *RunResult) Failed() bool {
	return r.Status == RunFailed
}

// WriteSummary serializes the run result as YAML into dir and returns the
// written path.
func (r *RunResult) WriteSummary(dir string) (string, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to serialize run summary: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-%s.summary.yaml", r.Workflow, r.RunID))
	if err := utils.WriteTextFile(path, string(data)); err != nil {
		return "", err
	}

	return path, nil
}
