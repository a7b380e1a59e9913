package delay

import (
	"context"
	"time"

	"k8s.io/utils/clock"
)

// Sleeper suspends the caller for a duration.
type Sleeper interface {
	// Sleep blocks for d or until ctx is done, in which case it returns the context's cause.
	Sleep(ctx context.Context, d time.Duration) error
}

// ClockSleeper waits on timers created from Clock.
type ClockSleeper struct {
	Clock clock.Clock
}

// New returns a ClockSleeper backed by the real clock.
func New() *ClockSleeper {
	return &ClockSleeper{Clock: clock.RealClock{}}
}

func (s *ClockSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return context.Cause(ctx)
	}

	timer := s.Clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return context.Cause(ctx)
	case <-timer.C():
		return nil
	}
}

// SleeperFunc adapts a function to the Sleeper interface.
type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}
