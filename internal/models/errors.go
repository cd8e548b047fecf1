package models

import "errors"

// Custom errors
var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateKey        = errors.New("duplicate key violation")
	ErrInvalidID           = errors.New("invalid ID format")
	ErrMissingPrerequisite = errors.New("results not available for scoring")
	ErrDuplicateUser       = errors.New("duplicate user in totals")
	ErrUnknownContextKind  = errors.New("unknown context kind")
)
