package types

import "errors"

// Domain errors for type validation
var (
	ErrEmptyContent = errors.New("chunk content cannot be empty")
	ErrInvalidSpan  = errors.New("chunk span must satisfy 0 <= start < end")
)
