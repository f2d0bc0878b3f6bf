package acceptor

import (
	"errors"
	"fmt"

	"github.com/feature-infra/gherkin-acceptor/exitcodes"
)

// RuntimeError marks faults in the machinery around a batch: bad
// configuration, an unreadable plan, a runner that cannot be launched.
// It carries exit code 2 so CI can tell broken tooling from failing
// scenarios.
type RuntimeError struct {
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %v", e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// ExitCode implements cli.ExitCoder.
func (e *RuntimeError) ExitCode() int {
	return exitcodes.RuntimeErr
}

func NewRuntimeError(err error) *RuntimeError {
	return &RuntimeError{Err: err}
}

// IsRuntimeError reports whether err wraps a RuntimeError anywhere in its
// chain.
func IsRuntimeError(err error) bool {
	var target *RuntimeError
	return errors.As(err, &target)
}

// BatchFailureError marks a batch whose scenarios failed. The tooling
// worked; the features did not. It carries exit code 1.
type BatchFailureError struct {
	Message string
}

func (e *BatchFailureError) Error() string {
	return fmt.Sprintf("batch failure: %s", e.Message)
}

// ExitCode implements cli.ExitCoder.
func (e *BatchFailureError) ExitCode() int {
	return exitcodes.BatchFailure
}

func NewBatchFailureError(message string) *BatchFailureError {
	return &BatchFailureError{Message: message}
}

// IsBatchFailureError reports whether err wraps a BatchFailureError
// anywhere in its chain.
func IsBatchFailureError(err error) bool {
	var target *BatchFailureError
	return errors.As(err, &target)
}
