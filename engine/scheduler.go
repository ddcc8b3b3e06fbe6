// Package engine contains the cooperative tick scheduler that drives the
// stream actors and the frame refresh from a single loop.
package engine

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/averykhoo/matrix-screen/render"
	"github.com/averykhoo/matrix-screen/stream"
)

// maxIdle caps how long the run loop sleeps between polls so input
// checks stay responsive.
const maxIdle = time.Millisecond

// ExitPoller reports, without blocking, whether an exit was requested.
type ExitPoller interface {
	ExitRequested() bool
}

// Options are the scheduler tunables.
type Options struct {
	// FPSMax caps the refresh rate; the refresh interval is 1/FPSMax.
	FPSMax int
	// MinCharsPerSecond and MaxCharsPerSecond bound the per-actor
	// emission rate, drawn uniformly per actor at construction.
	MinCharsPerSecond int
	MaxCharsPerSecond int
	// WarmUp bounds the random jitter added to each actor's first
	// deadline so streams do not start in lockstep.
	WarmUp time.Duration
	// Rng is the shared seedable random source.
	Rng *rand.Rand
}

// Scheduler simulates concurrency with one deadline per actor plus one
// for the frame refresh, all compared against a single clock inside one
// loop. Execution is strictly sequential: actors run in identifier
// order, and the refresh never interleaves mid-actor, which is why the
// grid needs no locking.
type Scheduler struct {
	clock  Clock
	grid   *render.Grid
	actors []*stream.Actor

	refreshInterval time.Duration
	refreshDeadline time.Time

	actorIntervals []time.Duration
	actorDeadlines []time.Time

	frames uint64
}

// New builds a scheduler over actors, assigning each its emission
// interval and jittered first deadline. Configuration problems are
// rejected here, before the loop ever starts.
func New(clock Clock, grid *render.Grid, actors []*stream.Actor, opt Options) (*Scheduler, error) {
	switch {
	case len(actors) == 0:
		return nil, fmt.Errorf("engine: no actors configured")
	case opt.FPSMax <= 0:
		return nil, fmt.Errorf("engine: fps ceiling must be positive, got %d", opt.FPSMax)
	case opt.MinCharsPerSecond <= 0:
		return nil, fmt.Errorf("engine: chars-per-second floor must be positive, got %d", opt.MinCharsPerSecond)
	case opt.MaxCharsPerSecond < opt.MinCharsPerSecond:
		return nil, fmt.Errorf("engine: chars-per-second range inverted: %d > %d",
			opt.MinCharsPerSecond, opt.MaxCharsPerSecond)
	case opt.WarmUp < 0:
		return nil, fmt.Errorf("engine: warm-up duration must not be negative")
	case opt.Rng == nil:
		return nil, fmt.Errorf("engine: random source is required")
	}

	s := &Scheduler{
		clock:           clock,
		grid:            grid,
		actors:          actors,
		refreshInterval: time.Second / time.Duration(opt.FPSMax),
		actorIntervals:  make([]time.Duration, len(actors)),
		actorDeadlines:  make([]time.Time, len(actors)),
	}

	now := clock.Now()
	s.refreshDeadline = now.Add(s.refreshInterval)
	for i := range actors {
		cps := opt.MinCharsPerSecond + opt.Rng.IntN(opt.MaxCharsPerSecond-opt.MinCharsPerSecond+1)
		s.actorIntervals[i] = time.Second / time.Duration(cps)

		var jitter time.Duration
		if opt.WarmUp > 0 {
			jitter = time.Duration(opt.Rng.Int64N(int64(opt.WarmUp)))
		}
		s.actorDeadlines[i] = now.Add(s.actorIntervals[i] + jitter)
	}

	return s, nil
}

// Poll runs everything that has come due: the frame refresh first, then
// each overdue actor in identifier order. Deadlines advance by their own
// fixed interval rather than resetting to now+interval, so the cadence
// never accumulates drift.
func (s *Scheduler) Poll() error {
	now := s.clock.Now()

	if now.After(s.refreshDeadline) {
		s.refreshDeadline = s.refreshDeadline.Add(s.refreshInterval)
		if err := s.grid.Refresh(); err != nil {
			return err
		}
		s.frames++
	}

	for i, actor := range s.actors {
		if now.After(s.actorDeadlines[i]) {
			s.actorDeadlines[i] = s.actorDeadlines[i].Add(s.actorIntervals[i])
			if err := actor.Step(s.grid); err != nil {
				return err
			}
		}
	}

	return nil
}

// BeginShutdown retires every actor. From here on no stream respawns;
// each poll only sheds occupied cells.
func (s *Scheduler) BeginShutdown() {
	for _, actor := range s.actors {
		actor.Retire()
	}
}

// Drained reports whether the screen is fully shed and ready for the
// final refresh.
func (s *Scheduler) Drained() bool {
	return s.grid.Drained()
}

// Frames returns the number of refreshes performed so far.
func (s *Scheduler) Frames() uint64 {
	return s.frames
}

// Run polls until input requests an exit, then drains every stream off
// the screen over as many ticks as the retirement rate needs, performing
// one final refresh before returning. Any surface error aborts the loop
// immediately.
func (s *Scheduler) Run(input ExitPoller) error {
	for {
		if err := s.Poll(); err != nil {
			return err
		}
		if input.ExitRequested() {
			break
		}
		s.idle()
	}

	s.BeginShutdown()
	for !s.grid.Drained() {
		if err := s.Poll(); err != nil {
			return err
		}
		s.idle()
	}
	return s.grid.Refresh()
}

// idle sleeps until the nearest deadline, capped at maxIdle. Nothing can
// come due inside the sleep, so scheduling behavior is identical to a
// hot poll without pinning a core.
func (s *Scheduler) idle() {
	next := s.refreshDeadline
	for _, d := range s.actorDeadlines {
		if d.Before(next) {
			next = d
		}
	}

	wait := next.Sub(s.clock.Now())
	if wait > maxIdle {
		wait = maxIdle
	}
	if wait > 0 {
		time.Sleep(wait)
	}
}
