// Package notify posts round- and tournament-completion messages to an
// external channel. Strictly optional (spec SPEC_FULL.md Non-goals);
// disabled by default reproduces spec.md's scope exactly.
package notify

// Sink receives tournament progress events. Implementations must not block
// the scheduler's tick thread for long; a slow sink should hand off to its
// own goroutine internally.
type Sink interface {
	RoundCompleted(round int, standingsTable string)
	TournamentFinished(winner string, standingsTable string, elapsed int)
}

// NoopSink discards every event; it is the default when no notification
// destination is configured.
type NoopSink struct{}

func (NoopSink) RoundCompleted(int, string)        {}
func (NoopSink) TournamentFinished(string, string, int) {}
