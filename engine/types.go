// Package engine defines the consumed interfaces and shared value types for
// the external collaborators the tournament core drives but does not
// implement: the engine/player adapter and the board/rules module. Only
// the interfaces and small value types live here; a real PlayerPool that
// launches UCI/WinBoard subprocesses is out of scope.
package engine

import "github.com/openchessrunner/core/clock"

// Side re-exports clock.Side so callers of this package don't need to import
// clock just to name a color.
type Side = clock.Side

const (
	White = clock.White
	Black = clock.Black
)

// PieceKind identifies a promotion piece. The zero value means "no
// promotion"; the core treats these as opaque beyond equality.
type PieceKind int

const (
	NoPromotion PieceKind = iota
	Knight
	Bishop
	Rook
	Queen
)

// Square is an opaque 0..63 board index, opaque to the core beyond equality
// and packing.
type Square int

// Move is opaque to the core beyond equality and the packed 24-bit encoding
// used in persistence.
type Move struct {
	From      Square
	To        Square
	Promotion PieceKind
}

// Pack encodes a Move as to | from<<8 | promotion<<16, the exact persisted
// form kept for forward/backward compatibility with existing schedule files.
func (m Move) Pack() int {
	return int(m.To) | int(m.From)<<8 | int(m.Promotion)<<16
}

// Unpack decodes a packed move produced by Pack.
func Unpack(packed int) Move {
	return Move{
		To:        Square(packed & 0xff),
		From:      Square((packed >> 8) & 0xff),
		Promotion: PieceKind((packed >> 16) & 0xff),
	}
}

// ResultKind is the canonical outcome of a game; Reason is informational
// only.
type ResultKind int

const (
	NoResult ResultKind = iota
	WhiteWins
	BlackWins
	Draw
)

// String renders the PGN-style result token used both in playing.json and
// in the scheduler's one-line match-completed log.
func (k ResultKind) String() string {
	switch k {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// ParseResultKind parses the PGN-style result token.
func ParseResultKind(s string) ResultKind {
	switch s {
	case "1-0":
		return WhiteWins
	case "0-1":
		return BlackWins
	case "1/2-1/2":
		return Draw
	default:
		return NoResult
	}
}

type Reason int

const (
	ReasonNormal Reason = iota
	ReasonResign
	ReasonTimeout
	ReasonIllegalMove
	ReasonCrash
	ReasonAdjudication
	ReasonMate
	ReasonStalemate
	ReasonRepetition
	ReasonFiftyMove
	ReasonInsufficientMaterial
	ReasonTablebase
)

func (r Reason) String() string {
	switch r {
	case ReasonResign:
		return "resign"
	case ReasonTimeout:
		return "timeout"
	case ReasonIllegalMove:
		return "illegal-move"
	case ReasonCrash:
		return "crash"
	case ReasonAdjudication:
		return "adjudication"
	case ReasonMate:
		return "mate"
	case ReasonStalemate:
		return "stalemate"
	case ReasonRepetition:
		return "repetition"
	case ReasonFiftyMove:
		return "fifty-move"
	case ReasonInsufficientMaterial:
		return "insufficient-material"
	case ReasonTablebase:
		return "tablebase"
	default:
		return "normal"
	}
}

// Result is the outcome of a terminated (or in-progress) game.
type Result struct {
	Kind   ResultKind
	Reason Reason
}

// Winner returns the winning side for a WhiteWins/BlackWins kind, or
// ok=false for Draw/NoResult.
func (r Result) Winner() (Side, bool) {
	switch r.Kind {
	case WhiteWins:
		return White, true
	case BlackWins:
		return Black, true
	default:
		return White, false
	}
}

// ResultForWinner builds a Result for side winning with the given reason.
func ResultForWinner(side Side, reason Reason) Result {
	if side == White {
		return Result{Kind: WhiteWins, Reason: reason}
	}
	return Result{Kind: BlackWins, Reason: reason}
}
