package ml

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrConfiguration is matched by every sample or parameter validation failure.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotTrained is returned when parameters are read before Train produced them.
	ErrNotTrained = errors.New("perceptron is not trained")
	// ErrCanceled is matched by an EarlyStopError.
	ErrCanceled = errors.New("training canceled")
)

// ConfigError describes invalid input. Nothing is mutated when it is returned.
type ConfigError struct {
	Reason string
}

func configErrorf(format string, args ...interface{}) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	return ErrConfiguration.Error() + ": " + e.Reason
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// EarlyStopError reports a Train call interrupted between epochs.
// Updates from the completed epochs are kept.
type EarlyStopError struct {
	Completed int
	Requested int
	Cause     error
}

func (e *EarlyStopError) Error() string {
	return fmt.Sprintf("training stopped after %d of %d epochs: %v", e.Completed, e.Requested, e.Cause)
}

func (e *EarlyStopError) Is(target error) bool {
	return target == ErrCanceled
}

func (e *EarlyStopError) Unwrap() error {
	return e.Cause
}

func notTrained(what string) error {
	return errors.WithMessage(ErrNotTrained, "Train must be called before "+what)
}
