// Package xerrors provides the error types used across the backtesting
// engine and its ambient stack.
package xerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for rule-set schema/semantic violations (spec §4.1) and
// engine data-range conditions (spec §4.8).
var (
	ErrEmptyEntryConditions   = errors.New("standard mode requires at least one entry condition")
	ErrDCAConditionsNotEmpty  = errors.New("dca mode forbids entry/exit conditions")
	ErrCrossRequiresIndicator = errors.New("crosses_above/crosses_below require indicator operands on both sides")
	ErrPositionScopeInvalid   = errors.New("position-scope condition requires a position-scope indicator operand")
	ErrInvalidSizingPercent   = errors.New("percent_equity sizing must be within [1, 100]")
	ErrInvalidSizingAmount    = errors.New("fixed_amount sizing must be positive")
	ErrInvalidDCAInterval     = errors.New("dca interval_days must be >= 1")
	ErrInvalidDCAAmount       = errors.New("dca amount_usd must be > 0")
	ErrInvalidInitialCapital  = errors.New("initial_capital must be positive")

	ErrWarmupExceedsRange = errors.New("warmup exceeds data range")
	ErrEmptyCandleRange    = errors.New("no candles in the requested date range")
)

// ValidationError is a single structural or semantic rule-set violation.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%v): %s: %v", e.Field, e.Value, e.Message, e.Err)
	}
	return fmt.Sprintf("%s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message, Err: err}
}

// ValidationErrors collects every violation found while validating a rule
// set — spec §4.1 requires returning the whole list, not failing fast.
type ValidationErrors []error

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// RuleSetError wraps a sentinel or validation error with the offending
// rule-set id and the operation that failed.
type RuleSetError struct {
	RuleSetID string
	Op        string
	Err       error
}

func (e *RuleSetError) Error() string {
	return fmt.Sprintf("ruleset %q: %s: %v", e.RuleSetID, e.Op, e.Err)
}

func (e *RuleSetError) Unwrap() error { return e.Err }

// NewRuleSetError creates a new RuleSetError.
func NewRuleSetError(ruleSetID, op string, err error) *RuleSetError {
	return &RuleSetError{RuleSetID: ruleSetID, Op: op, Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool { return errors.As(err, target) }
