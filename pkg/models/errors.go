package models

import "errors"

var (
	// ErrMissingSource means a required input file does not exist.
	ErrMissingSource = errors.New("missing source")
	// ErrMalformedSource means an input could not be parsed or had an unexpected shape.
	ErrMalformedSource = errors.New("malformed source")
	// ErrPersistence means writing a report, library batch or history row failed.
	ErrPersistence = errors.New("persistence failure")
)
