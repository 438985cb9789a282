// Package driver implements the per-game state machine that brings two
// attached engine Players from handshake to a terminated game.
package driver

// State is the GameDriver lifecycle.
type State int

const (
	StateNone State = iota
	StateBegin
	StateReady
	StatePlaying
	StateStopped
	StateEnding
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateBegin:
		return "begin"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StateStopped:
		return "stopped"
	case StateEnding:
		return "ending"
	case StateEnded:
		return "ended"
	default:
		return "none"
	}
}

// LogKind distinguishes an engine-process log capture invocation point
// from ordinary system diagnostics.
type LogKind int

const (
	LogSystem LogKind = iota
	LogEngine
)

// MessageLogger is the driver's sole logging collaborator; the Scheduler
// wires it to a per-sink mutex-guarded file writer. A nil MessageLogger is
// valid and silently drops messages.
type MessageLogger func(appName, msg string, kind LogKind)
