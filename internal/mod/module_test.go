package mod

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubModule is a minimal module implementation for exercising SafeExecute.
type stubModule struct {
	name    string
	deps    map[string]string
	result  ExecutionResult
	err     error
	panicit bool
	calls   int
}

func (m *stubModule) Name() string                    { return m.name }
func (m *stubModule) Dependencies() map[string]string { return m.deps }

func (m *stubModule) Execute(ctx context.Context) (ExecutionResult, error) {
	m.calls++
	if m.panicit {
		panic("boom")
	}
	return m.result, m.err
}

func TestSafeExecute(t *testing.T) {
	tests := []struct {
		name       string
		module     *stubModule
		wantStatus Status
		wantErrors int
	}{
		{
			name: "successful execution passes through",
			module: &stubModule{
				name:   "good",
				result: NewSuccessResult("done"),
			},
			wantStatus: StatusSuccess,
		},
		{
			name: "returned error becomes failed result",
			module: &stubModule{
				name: "bad",
				err:  errors.New("disk full"),
			},
			wantStatus: StatusFailed,
			wantErrors: 1,
		},
		{
			name: "panic becomes failed result",
			module: &stubModule{
				name:    "explosive",
				panicit: true,
			},
			wantStatus: StatusFailed,
			wantErrors: 1,
		},
		{
			name: "failed status without error is preserved",
			module: &stubModule{
				name:   "softfail",
				result: NewFailedResult("quality gate", "threshold exceeded"),
			},
			wantStatus: StatusFailed,
			wantErrors: 1,
		},
		{
			name: "empty status defaults to success",
			module: &stubModule{
				name:   "lazy",
				result: ExecutionResult{Message: "forgot the status"},
			},
			wantStatus: StatusSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SafeExecute(context.Background(), tt.module)

			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Len(t, result.Errors, tt.wantErrors)
			assert.Equal(t, 1, tt.module.calls)
		})
	}
}

func TestSafeExecutePanicDetail(t *testing.T) {
	m := &stubModule{name: "explosive", panicit: true}

	result := SafeExecute(context.Background(), m)

	assert.True(t, result.Failed())
	assert.Contains(t, result.Message, "explosive")
	assert.Contains(t, result.Errors[0], "boom")
}

func TestSafeExecuteCombinesResultErrorsWithReturnedError(t *testing.T) {
	m := &stubModule{
		name:   "partial",
		result: ExecutionResult{Errors: []string{"row 7 unparseable"}},
		err:    errors.New("ingest aborted"),
	}

	result := SafeExecute(context.Background(), m)

	assert.True(t, result.Failed())
	assert.Equal(t, []string{"row 7 unparseable", "ingest aborted"}, result.Errors)
}

func TestExecutionResultFailed(t *testing.T) {
	assert.False(t, NewSuccessResult("ok").Failed())
	assert.True(t, NewFailedResult("nope").Failed())
	assert.False(t, ExecutionResult{}.Failed())
}
