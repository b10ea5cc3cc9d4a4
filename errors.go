package union

import "errors"

var (
	// ErrInvariantViolation is returned when a union would hold zero or two values.
	ErrInvariantViolation = errors.New("union must hold exactly one value")

	// ErrInvalidState is returned by accessors of the alternative which is not set.
	ErrInvalidState = errors.New("invalid union state")

	// ErrTypeMismatch is returned when a dynamic value matches neither alternative.
	ErrTypeMismatch = errors.New("value matches neither alternative")
)
