package bulkerr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"plain", errors.New("boom"), KindUnknown},
		{"configuration", Configuration("Commit", ErrNoEntity), KindConfiguration},
		{"identity", &IdentityConflictError{BatchID: "b", Err: errors.New("544")}, KindIdentityConflict},
		{"execution", &ExecutionError{BatchID: "b", Stage: "exec", Err: context.DeadlineExceeded}, KindExecution},
		{"wrapped", fmt.Errorf("outer: %w", Configuration("Where", ErrUnknownProperty)), KindConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	err := Configurationf("RemoveColumn", ErrColumnNotFound, "column %q", "Name")

	assert.True(t, errors.Is(err, ErrColumnNotFound))
	assert.True(t, IsConfiguration(err))
	assert.Contains(t, err.Error(), `RemoveColumn: column not in column set: column "Name"`)
}

func TestExecutionErrorUnwrapsDriverError(t *testing.T) {
	err := &ExecutionError{BatchID: "01H", Stage: "exec", Err: context.DeadlineExceeded}

	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.True(t, IsExecution(err))
	assert.False(t, IsIdentityConflict(err))
	assert.Equal(t, "execution", KindOf(err).String())
	assert.Equal(t, KindExecution, err.Kind())
}
