package synthesis

import (
	"context"
	"log/slog"
	"time"

	"github.com/papercomputeco/recall/pkg/memory"
)

// Due reports whether synthesis should run: it never ran, or interval has
// elapsed since the last run.
func Due(now time.Time, state *State, interval time.Duration) bool {
	last, ok := state.Last()
	if !ok {
		return true
	}
	return !now.Before(last.Add(interval))
}

// NextRun is when synthesis next becomes due. It reports false when
// synthesis has never run.
func NextRun(state *State, interval time.Duration) (time.Time, bool) {
	last, ok := state.Last()
	if !ok {
		return time.Time{}, false
	}
	return last.Add(interval), true
}

// LaunchFunc starts a synthesis run without waiting for it.
type LaunchFunc func(ctx context.Context) error

// Decision is the outcome of a schedule check.
type Decision struct {
	Enabled bool
	Due     bool
	Pending int

	// Triggered is set when a run was launched.
	Triggered bool
}

// ShouldTrigger combines the schedule inputs: a run is launched only when
// collection is enabled, synthesis is due and records are waiting.
func (d Decision) ShouldTrigger() bool {
	return d.Enabled && d.Due && d.Pending > 0
}

// Scheduler checks the synthesis schedule and launches detached runs.
type Scheduler struct {
	store     memory.Store
	statePath string
	interval  time.Duration
	enabled   bool
	launch    LaunchFunc
	logger    *slog.Logger
	now       func() time.Time
}

// NewScheduler creates a Scheduler.
func NewScheduler(store memory.Store, statePath string, interval time.Duration, enabled bool, launch LaunchFunc, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{
		store:     store,
		statePath: statePath,
		interval:  interval,
		enabled:   enabled,
		launch:    launch,
		logger:    logger,
		now:       time.Now,
	}
}

// Check evaluates the schedule and, when warranted, launches synthesis. It
// never fails: state and store problems are logged and treated as "nothing
// to do" or "never synthesized", and launch errors are swallowed.
func (s *Scheduler) Check(ctx context.Context) Decision {
	d := Decision{Enabled: s.enabled}
	if !s.enabled {
		return d
	}

	state, err := LoadState(s.statePath)
	if err != nil {
		s.logger.Warn("unreadable synthesis state, treating as never synthesized", "error", err)
		state = nil
	}

	d.Due = Due(s.now(), state, s.interval)
	if !d.Due {
		return d
	}

	pending, err := s.store.Pending(ctx)
	if err != nil {
		s.logger.Warn("counting pending session records", "error", err)
		return d
	}
	d.Pending = pending

	if !d.ShouldTrigger() || s.launch == nil {
		return d
	}

	if err := s.launch(ctx); err != nil {
		s.logger.Warn("failed to launch synthesis", "error", err)
		return d
	}

	d.Triggered = true
	s.logger.Info("launched background synthesis", "pending", pending)
	return d
}
