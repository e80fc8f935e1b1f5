package exercise

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid exercise config")
	ErrUnknownKind   = errors.New("unknown exercise kind")
	// ErrFinished is returned by a stopped runner.
	ErrFinished = errors.New("exercise finished")
)
