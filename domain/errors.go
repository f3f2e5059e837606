package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedJurisdiction = errors.New("unsupported jurisdiction")
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrInvalidInput            = errors.New("invalid input")
	ErrUnsupportedMode         = errors.New("unsupported mode")
)

type JurisdictionError struct {
	Code Jurisdiction
}

func (e *JurisdictionError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnsupportedJurisdiction, string(e.Code))
}

func (e *JurisdictionError) Unwrap() error { return ErrUnsupportedJurisdiction }

// AmountError reports a base or deduction that is negative, non-finite or too large.
type AmountError struct {
	Field string
	Value float64
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("%v: %s=%v", ErrInvalidAmount, e.Field, e.Value)
}

func (e *AmountError) Unwrap() error { return ErrInvalidAmount }

type InputError struct {
	Field string
	Value string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%v: %s=%q", ErrInvalidInput, e.Field, e.Value)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

type ModeError struct {
	Mode Mode
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnsupportedMode, string(e.Mode))
}

func (e *ModeError) Unwrap() error { return ErrUnsupportedMode }
