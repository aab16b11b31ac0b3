package analyzer

import (
	"errors"
	"fmt"
)

// Structural "no solution under these constraints" outcomes. They are returned
// as values so batch callers can skip the entry and keep processing.
var (
	// ErrNoFeasibleLevel is returned when the level ladder is empty.
	ErrNoFeasibleLevel = errors.New("no feasible level")
	// ErrNoFeasibleBuild is returned when no IV/level combination fits the cap.
	ErrNoFeasibleBuild = errors.New("no feasible build under cap")
	// ErrNoFeasibleRotation is returned when no supplied charge move can ever
	// be funded; the accompanying result still carries the fast-only rotation.
	ErrNoFeasibleRotation = errors.New("no feasible charge rotation")
)

// InvalidInputError rejects malformed inputs at the boundary, before any
// search runs. Values are never silently clamped.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

func invalidInput(field, format string, args ...any) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ConfigurationError marks defective long-lived configuration (level table,
// tunables file, reference population). Surfaced at construction time.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Reason, e.Err)
	}
	return "configuration: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func configErr(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}
