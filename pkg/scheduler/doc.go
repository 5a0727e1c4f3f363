// Package scheduler runs a periodic task in a cancellable goroutine.
//
// Each cache instance owns one Scheduler for its cleanup sweep. Schedules are
// either a fixed interval ([Every]) or a cron expression ([Parse], backed by
// github.com/robfig/cron/v3). [Scheduler.Stop] is idempotent and waits for the
// goroutine to exit, so a stopped cache never sweeps again.
package scheduler
