// Package clock implements per-side time accounting for a single game.
package clock

import (
	"fmt"
	"time"
)

// Side is a player color.
type Side int

const (
	White Side = iota
	Black
)

func (s Side) Other() Side {
	if s == White {
		return Black
	}
	return White
}

func (s Side) String() string {
	if s == White {
		return "white"
	}
	return "black"
}

// Mode selects how a Clock accounts time for a game.
type Mode int

const (
	Standard Mode = iota
	Infinite
	Depth
	MoveTime
)

func (m Mode) String() string {
	switch m {
	case Infinite:
		return "infinite"
	case Depth:
		return "depth"
	case MoveTime:
		return "movetime"
	case Standard:
		return "standard"
	default:
		return "?"
	}
}

// Clock tracks each side's remaining time under a single time control mode.
// A GameDriver owns exactly one Clock; the Scheduler hands out a Clone of a
// per-tournament template Clock to each new game.
type Clock struct {
	Mode            Mode
	MovesPerControl int
	Base            float64 // seconds added per control, or the per-move limit for MoveTime
	Increment       float64
	Margin          float64 // grace period absorbing scheduler/IPC jitter, see spec "Why margin"
	DepthLimit      int

	timeLeft  [2]float64
	moveStart time.Time
	nowFunc   func() time.Time
}

// Setup validates and installs the time control parameters. It rejects any
// negative value.
func (c *Clock) Setup(mode Mode, movesPerControl int, base, increment, margin float64) error {
	if movesPerControl < 0 {
		return fmt.Errorf("clock.Setup: negative moves per control %v", movesPerControl)
	}
	if base < 0 {
		return fmt.Errorf("clock.Setup: negative base time %v", base)
	}
	if increment < 0 {
		return fmt.Errorf("clock.Setup: negative increment %v", increment)
	}
	if margin < 0 {
		return fmt.Errorf("clock.Setup: negative margin %v", margin)
	}

	c.Mode = mode
	c.MovesPerControl = movesPerControl
	c.Base = base
	c.Increment = increment
	c.Margin = margin
	c.timeLeft[White] = base
	c.timeLeft[Black] = base

	return nil
}

// Clone returns an independent copy, used to give every new game its own
// time budget starting from a shared tournament-level template.
func (c Clock) Clone() Clock {
	c.nowFunc = nil
	return c
}

func (c *Clock) now() time.Time {
	if c.nowFunc != nil {
		return c.nowFunc()
	}
	return time.Now()
}

// SetNowFunc overrides the wall-clock source, for deterministic tests.
func (c *Clock) SetNowFunc(f func() time.Time) {
	c.nowFunc = f
}

// BeginMove is called at the start of each side-to-move's thinking. In
// standard mode, if this ply crosses a moves-per-control boundary, the base
// time is added to that side's budget. It also starts the live elapsed
// timer used by Elapsed/IsTimeOver.
func (c *Clock) BeginMove(side Side, ply int) {
	c.moveStart = c.now()

	if c.Mode != Standard || c.MovesPerControl == 0 {
		return
	}
	if ply%(2*c.MovesPerControl) == 0 {
		c.timeLeft[side] += c.Base
	}
}

// Elapsed returns the time in seconds consumed thinking on the current move
// so far, measured from the most recent BeginMove.
func (c *Clock) Elapsed() float64 {
	return c.now().Sub(c.moveStart).Seconds()
}

// EndMove subtracts the time the side actually spent thinking, then adds the
// increment. The next control's base budget is added by BeginMove, not here;
// ply is accepted for symmetry with BeginMove and is not used.
func (c *Clock) EndMove(side Side, consumedSec float64, ply int) {
	c.timeLeft[side] -= consumedSec
	c.timeLeft[side] += c.Increment
}

// IsTimeOver reports whether side has exceeded its budget, based on time
// elapsed since the last BeginMove. Infinite and Depth modes never time
// out; MoveTime mode times out once the current move's elapsed time exceeds
// Base; Standard mode times out once elapsed time would drive time_left
// below -Margin.
func (c *Clock) IsTimeOver(side Side) bool {
	switch c.Mode {
	case Infinite, Depth:
		return false
	case MoveTime:
		return c.Elapsed() > c.Base
	case Standard:
		return c.timeLeft[side]-c.Elapsed() < -c.Margin
	default:
		return false
	}
}

// TimeLeft returns the side's remaining time budget in seconds.
func (c *Clock) TimeLeft(side Side) float64 {
	return c.timeLeft[side]
}

// String renders the PGN TimeControl tag value for this time control.
func (c Clock) String() string {
	switch c.Mode {
	case Infinite:
		return "infinite"
	case Depth:
		return fmt.Sprintf("depth:%d", c.DepthLimit)
	case MoveTime:
		return fmt.Sprintf("movetime:%.1f", c.Base)
	default:
		if c.MovesPerControl > 0 {
			return fmt.Sprintf("%d/%.1f+%.1f", c.MovesPerControl, c.Base, c.Increment)
		}
		return fmt.Sprintf("%.1f+%.1f", c.Base, c.Increment)
	}
}
