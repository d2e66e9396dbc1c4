package model

import "errors"

var (
	ErrMissingField     = errors.New("missing required field")
	ErrInvalidPrice     = errors.New("unrecognized price format")
	ErrMissingColumn    = errors.New("missing required column")
	ErrNotFound         = errors.New("garment not found")
	ErrInvalidTolerance = errors.New("tolerance must be a finite non-negative number")
)
