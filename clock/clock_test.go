package clock

import (
	"testing"
	"time"
)

func TestSetupRejectsNegative(t *testing.T) {
	var c Clock
	cases := []struct {
		moves           int
		base, inc, marg float64
	}{
		{-1, 1, 0, 0},
		{0, -1, 0, 0},
		{0, 1, -1, 0},
		{0, 1, 0, -1},
	}
	for _, tc := range cases {
		if err := c.Setup(Standard, tc.moves, tc.base, tc.inc, tc.marg); err == nil {
			t.Errorf("Setup(%+v) = nil error, want error", tc)
		}
	}
}

func TestIsTimeOverMarginBoundary(t *testing.T) {
	const base = 10.0
	const margin = 0.2

	newClock := func() *Clock {
		c := &Clock{}
		if err := c.Setup(Standard, 0, base, 0, margin); err != nil {
			t.Fatalf("Setup: %v", err)
		}
		return c
	}

	t.Run("under margin does not time out", func(t *testing.T) {
		c := newClock()
		start := time.Now()
		elapsed := base + 0.5*margin
		c.SetNowFunc(func() time.Time { return start })
		c.BeginMove(White, 0)
		c.SetNowFunc(func() time.Time { return start.Add(time.Duration(elapsed * float64(time.Second))) })
		if c.IsTimeOver(White) {
			t.Errorf("IsTimeOver() = true, want false for consumed=%v", elapsed)
		}
	})

	t.Run("over margin times out", func(t *testing.T) {
		c := newClock()
		start := time.Now()
		elapsed := base + 2*margin
		c.SetNowFunc(func() time.Time { return start })
		c.BeginMove(White, 0)
		c.SetNowFunc(func() time.Time { return start.Add(time.Duration(elapsed * float64(time.Second))) })
		if !c.IsTimeOver(White) {
			t.Errorf("IsTimeOver() = false, want true for consumed=%v", elapsed)
		}
	})
}

func TestInfiniteAndDepthNeverTimeOut(t *testing.T) {
	for _, m := range []Mode{Infinite, Depth} {
		c := &Clock{}
		if err := c.Setup(m, 0, 0, 0, 0); err != nil {
			t.Fatalf("Setup(%v): %v", m, err)
		}
		start := time.Now()
		c.SetNowFunc(func() time.Time { return start })
		c.BeginMove(White, 0)
		c.SetNowFunc(func() time.Time { return start.Add(time.Hour) })
		if c.IsTimeOver(White) {
			t.Errorf("mode %v: IsTimeOver() = true, want false", m)
		}
	}
}

func TestBeginMoveAddsBaseOnControlBoundary(t *testing.T) {
	c := &Clock{}
	if err := c.Setup(Standard, 2, 10, 0, 0); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	// ply 0 is the boundary for the first control.
	c.BeginMove(White, 0)
	if got := c.TimeLeft(White); got != 20 {
		t.Errorf("TimeLeft after ply0 BeginMove = %v, want 20", got)
	}
	c.EndMove(White, 5, 0)
	c.BeginMove(White, 1)
	if got := c.TimeLeft(White); got != 15 {
		t.Errorf("TimeLeft after non-boundary BeginMove = %v, want 15", got)
	}
}

func TestEndMoveAppliesIncrementAndConsumption(t *testing.T) {
	c := &Clock{}
	if err := c.Setup(Standard, 0, 10, 2, 1); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	c.EndMove(White, 3, 0)
	want := 10.0 - 3 + 2
	if got := c.TimeLeft(White); got != want {
		t.Errorf("TimeLeft = %v, want %v", got, want)
	}
}

func TestClone(t *testing.T) {
	tmpl := Clock{}
	if err := tmpl.Setup(Standard, 40, 60, 1, 0.8); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	a := tmpl.Clone()
	b := tmpl.Clone()
	a.EndMove(White, 5, 0)
	if b.TimeLeft(White) != 60 {
		t.Errorf("clone b mutated by clone a's EndMove: %v", b.TimeLeft(White))
	}
}
