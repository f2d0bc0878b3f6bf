package acceptor

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/feature-infra/gherkin-acceptor/exitcodes"
)

func TestRuntimeError(t *testing.T) {
	base := errors.New("bad config")
	err := NewRuntimeError(base)

	assert.ErrorContains(t, err, "runtime error: bad config")
	assert.True(t, IsRuntimeError(err))
	assert.True(t, errors.Is(err, base))
	assert.Equal(t, exitcodes.RuntimeErr, err.ExitCode())

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsRuntimeError(wrapped))

	assert.False(t, IsRuntimeError(nil))
	assert.False(t, IsRuntimeError(errors.New("plain")))
}

func TestBatchFailureError(t *testing.T) {
	err := NewBatchFailureError("2 targets failed")

	assert.ErrorContains(t, err, "batch failure: 2 targets failed")
	assert.True(t, IsBatchFailureError(err))
	assert.False(t, IsRuntimeError(err))
	assert.Equal(t, exitcodes.BatchFailure, err.ExitCode())

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsBatchFailureError(wrapped))
	assert.False(t, IsBatchFailureError(errors.New("plain")))
}
