package lockstep

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
)

// Loop drives a fixed-rate tick function from an external frame callback.
// Advance computes how many logical ticks became due since the last call and
// runs them synchronously in order, so the simulation never outruns real time
// and catches up after a stall instead of silently dropping ticks.
type Loop struct {
	clk      clock.Clock
	interval time.Duration
	tick     func()

	started bool
	next    time.Time
}

// NewLoop builds a loop ticking at hz. The clock is injectable so tests can
// drive the loop with a mock.
func NewLoop(clk clock.Clock, hz float64, tick func()) *Loop {
	if hz <= 0 {
		hz = DefaultTickHz
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Loop{
		clk:      clk,
		interval: time.Duration(float64(time.Second) / hz),
		tick:     tick,
	}
}

// Interval returns the fixed tick duration.
func (l *Loop) Interval() time.Duration { return l.interval }

// Advance runs every tick due at now and returns how many ran. The first call
// anchors the schedule and runs a single tick.
func (l *Loop) Advance(now time.Time) int {
	if !l.started {
		l.started = true
		l.next = now.Add(l.interval)
		l.tick()
		return 1
	}
	ran := 0
	for !now.Before(l.next) {
		l.tick()
		l.next = l.next.Add(l.interval)
		ran++
	}
	return ran
}

// Run drives Advance from the loop's own clock at frameHz until the context
// is cancelled. This is the self-driven mode used when no windowing system
// supplies frame callbacks.
func (l *Loop) Run(ctx context.Context, frameHz float64) error {
	if frameHz <= 0 {
		frameHz = DefaultFrameHz
	}
	ticker := l.clk.Ticker(time.Duration(float64(time.Second) / frameHz))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			l.Advance(now)
		}
	}
}
