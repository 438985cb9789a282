// Package match defines the persistable per-game schedule entry
// (MatchRecord) and per-game configuration (GameConfig).
package match

import "github.com/openchessrunner/core/engine"

// State is the MatchRecord lifecycle: the subset of the game state machine
// that a MatchRecord itself tracks.
type State int

const (
	StateNone State = iota
	StatePlaying
	StateCompleted
	StateError
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateCompleted:
		return "completed"
	case StateError:
		return "error"
	default:
		return "none"
	}
}

// Record is a persistable descriptor of one scheduled game. The Scheduler
// uniquely owns the list of Records; it is the only mutator.
type Record struct {
	PairID     int64
	GameIdx    int
	Round      int
	PlayerW    string
	PlayerB    string
	StartFEN   string // empty means standard start
	StartMoves []engine.Move
	State      State
	ResultKind engine.ResultKind
	Reason     engine.Reason
}

// Valid checks the invariant: State == StateCompleted iff ResultKind != NoResult.
func (r Record) Valid() bool {
	return (r.State == StateCompleted) == (r.ResultKind != engine.NoResult)
}

// Players returns the record's two player names as [white, black]. For the
// "same pair_id implies same player set" invariant, compare the results
// ignoring order, since colors may differ between records of one pair.
func (r Record) Players() [2]string {
	return [2]string{r.PlayerW, r.PlayerB}
}

// IsBye reports whether this is a synthetic bye record (one side's name is
// empty), used by Standings and Pairing alike.
func (r Record) IsBye() bool {
	return r.PlayerW == "" || r.PlayerB == ""
}

// AdjudicationConfig holds the adjudication knobs used by the driver's
// terminal-condition handling.
type AdjudicationConfig struct {
	Enabled       bool
	MaxGameLength int // 0 means unset
	EGTBEnabled   bool
	EGTBMaxPieces int
}

// GameConfig is per-game configuration handed to a GameDriver.
type GameConfig struct {
	Ponder       bool
	Adjudication AdjudicationConfig
}
