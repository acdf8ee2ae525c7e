package scheduler

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps a cron runner for the daily batch jobs. Jobs are
// registered with wall-clock times ("HH:MM") and run in the server's
// local timezone.
type Scheduler struct {
	cron *cron.Cron
}

// New creates a stopped Scheduler.
func New() *Scheduler {
	return &Scheduler{cron: cron.New(cron.WithSeconds())}
}

// ScheduleDaily registers fn to run every day at the given "HH:MM".
func (s *Scheduler) ScheduleDaily(name, at string, fn func()) error {
	hour, minute, err := parseClock(at)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}

	spec := fmt.Sprintf("0 %d %d * * *", minute, hour)
	_, err = s.cron.AddFunc(spec, func() {
		log.Printf("running scheduled job: %s", name)
		fn()
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the runner and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// parseClock parses "HH:MM" into hour and minute.
func parseClock(at string) (int, int, error) {
	parts := strings.SplitN(at, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, want HH:MM", at)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", at)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", at)
	}
	return hour, minute, nil
}
