package scheduler

import (
	"errors"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultInterval is used by Every when given a non-positive duration.
const DefaultInterval = time.Minute

// Schedule reports the next activation after a given time.
// A zero time means the schedule never fires again.
type Schedule interface {
	Next(time.Time) time.Time
}

type interval time.Duration

func (i interval) Next(t time.Time) time.Time {
	return t.Add(time.Duration(i))
}

// Every returns a fixed-interval schedule. Unlike cron.Every, sub-second
// intervals are kept as-is.
func Every(d time.Duration) Schedule {
	if d <= 0 {
		d = DefaultInterval
	}
	return interval(d)
}

var parser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Parse parses a standard 5-field cron expression or a descriptor such as
// "@hourly" or "@every 30s".
func Parse(expr string) (Schedule, error) {
	s, err := parser.Parse(expr)
	if err != nil {
		return nil, errors.Join(ErrInvalidSchedule, err)
	}
	return s, nil
}
