package types

import "errors"

// Domain errors for type validation
var (
	ErrEmptyQuery       = errors.New("query cannot be empty")
	ErrEmptyContent     = errors.New("content cannot be empty")
	ErrUnknownStrategy  = errors.New("unknown chunking strategy")
	ErrEmptyChunk       = errors.New("chunk cannot be empty")
	ErrInvalidLineRange = errors.New("chunk line range is invalid")
)
