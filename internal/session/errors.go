package session

import "errors"

var (
	ErrNotFound        = errors.New("session not found")
	ErrTooManySessions = errors.New("too many live sessions")
	ErrInvalidPlan     = errors.New("invalid plan")
	ErrSessionFinished = errors.New("session has no exercise left")
	ErrClosed          = errors.New("session closed")
)
