package cruncher

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument is returned by New for a negative maxlen.
	ErrInvalidArgument = errors.New("maxlen must be non-negative")
	// ErrUnexpectedResponse is returned by Crunch when the requester's result
	// carries no usable number.
	ErrUnexpectedResponse = errors.New("Unexpected error")
)
