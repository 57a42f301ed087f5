package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidIndex indicates a particle or spring index outside its collection.
	// It always signals a caller bug.
	ErrInvalidIndex = errors.New("clothsim: index out of range")

	// ErrInvalidConfig indicates parameters that cannot produce a valid mesh or step.
	ErrInvalidConfig = errors.New("clothsim: invalid configuration")

	// ErrUnstable indicates the simulation produced NaN or Inf positions.
	ErrUnstable = errors.New("clothsim: simulation unstable (state diverged)")
)

// IndexError carries the offending index for ErrInvalidIndex.
type IndexError struct {
	Kind  string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: %s index %d not in [0, %d)", ErrInvalidIndex, e.Kind, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrInvalidIndex
}

// ConfigError wraps ErrInvalidConfig with the field that failed validation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidConfig, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
