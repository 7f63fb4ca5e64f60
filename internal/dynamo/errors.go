package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidParameter indicates a parameter value is outside its valid range.
	ErrInvalidParameter = errors.New("dynamo: invalid parameter")

	// ErrNumericalInstability indicates the step size exceeds the stability
	// bound of the explicit scheme. It is advisory: runs still complete.
	ErrNumericalInstability = errors.New("dynamo: step size beyond stability limit")

	// ErrDimensionMismatch indicates mismatched state/control dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// ParameterError reports which parameter was rejected and why.
type ParameterError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s %s=%g: %s", ErrInvalidParameter, e.Name, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// InvalidParam is shorthand for building a *ParameterError.
func InvalidParam(name string, value float64, reason string) error {
	return &ParameterError{Name: name, Value: value, Reason: reason}
}

// InstabilityError carries the step size and the bound it violates.
type InstabilityError struct {
	Step  float64
	Limit float64
}

func (e *InstabilityError) Error() string {
	return fmt.Sprintf("%s: h=%g >= %g", ErrNumericalInstability, e.Step, e.Limit)
}

func (e *InstabilityError) Unwrap() error {
	return ErrNumericalInstability
}
