package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("protocol: invalid argument")
	ErrInvalidRange    = errors.New("protocol: parent range does not contain child range")
)

// InvalidArgumentError reports a required field supplied as absent.
type InvalidArgumentError struct {
	Field string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("protocol: property must not be null: %s", e.Field)
}

func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func missing(field string) error {
	return &InvalidArgumentError{Field: field}
}
