package health

import "errors"

var (
	// ErrCheckFailed is returned when a check detects an unhealthy dependency.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout wraps check errors that happened after the run deadline.
	ErrCheckTimeout = errors.New("health: check timeout")
)
