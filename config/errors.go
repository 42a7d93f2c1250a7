package config

import (
	"errors"
	"fmt"
)

// Errors.
var (
	ErrUnknownOption   = errors.New("unknown option")
	ErrUnsupportedType = errors.New("unsupported value type")
	ErrInvalidJSON     = errors.New("invalid json object")
	ErrInvalidOption   = errors.New("invalid option")
	ErrInvalidValue    = errors.New("invalid value")
)

// InvalidOptionError is returned by Register for options that cannot be
// registered. It matches ErrInvalidOption.
type InvalidOptionError struct {
	Msg string
	Err error
}

func newInvalidOptionError(msg string, err error) *InvalidOptionError {
	return &InvalidOptionError{
		Msg: msg,
		Err: err,
	}
}

func (e *InvalidOptionError) Error() string {
	if e.Err == nil {
		return "config: invalid option: " + e.Msg
	}
	return fmt.Sprintf("config: invalid option: %s: %s", e.Msg, e.Err)
}

// Unwrap returns the underlying error, if any.
func (e *InvalidOptionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvalidOption.
func (e *InvalidOptionError) Is(target error) bool {
	return target == ErrInvalidOption
}

// InvalidValueError is returned when a value does not fit its option. It
// matches ErrInvalidValue.
type InvalidValueError struct {
	Key    string
	Value  interface{}
	Reason string
}

func newInvalidValueError(key string, value interface{}, reason string) *InvalidValueError {
	return &InvalidValueError{
		Key:    key,
		Value:  value,
		Reason: reason,
	}
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("config: invalid value %+v for %s: %s", e.Value, e.Key, e.Reason)
}

// Is reports whether target is ErrInvalidValue.
func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}
