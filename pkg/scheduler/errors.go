package scheduler

import "errors"

// ErrInvalidSchedule is returned by Parse for malformed cron expressions.
var ErrInvalidSchedule = errors.New("scheduler: invalid schedule")
