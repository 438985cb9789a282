// Package schedule implements the tournament scheduler: the
// bounded-concurrency tick loop that dispatches MatchRecords to GameDrivers,
// persists progress, and drives a tournament to completion. Grounded on
// cmd/pairings/main.go's errgroup.Group+SetLimit concurrency pattern and
// cmd/discordbot/main.go's long-running-loop shape.
package schedule

import (
	"math/rand"
	"time"

	"github.com/openchessrunner/core/clock"
	"github.com/openchessrunner/core/engine"
	"github.com/openchessrunner/core/match"
)

// Format names the tournament pairing strategy.
type Format int

const (
	RoundRobinFormat Format = iota
	KnockoutFormat
)

// SinkConfig is one of the three file sinks: PGN, result log, engine log.
// Each sink has its own serializing mutex.
type SinkConfig struct {
	Enabled  bool
	Path     string
	ShowTime bool // engine log only
}

// Config is the tournament base config subset relevant to the core, plus
// the schedule-file path used for persistence.
type Config struct {
	Format         Format
	GamesPerPair   int
	Ponder         bool
	ShufflePlayers bool
	Resumable      bool
	Event          string
	Site           string
	Concurrency    int

	// ReadyTimeoutTicks is forwarded to every Driver; zero uses the driver
	// package's own default of 5.
	ReadyTimeoutTicks int

	TimeControl clock.Clock
	Game        match.GameConfig

	PGN       SinkConfig
	Result    SinkConfig
	EngineLog SinkConfig

	SchedulePath string

	// DateOverride fixes the PGN "Date" tag (e.g. a CLI --date flag) instead
	// of stamping each game with time.Now() at completion.
	DateOverride time.Time

	// Rand seeds the color coin-flip and lucky-bye PRNG pairing.Options
	// uses. Tests supply a seeded generator for determinism; nil makes New
	// time-seed one itself so production tournaments actually randomize.
	Rand *rand.Rand
}

func (c Config) concurrency() int {
	if c.Concurrency < 1 {
		return 1
	}
	return c.Concurrency
}

// BoardFactory creates a fresh Board for a new game; a GameDriver uniquely
// owns the Board it returns. A real implementation constructs whatever
// concrete chess-rules engine the tournament was configured with; that
// engine is out of scope for this module.
type BoardFactory func() engine.Board

// EloFunc resolves a player's rating for knockout seeding; 0 means
// unknown/unrated.
type EloFunc func(name string) int
