package notify

import (
	"strings"
	"testing"
)

func TestNoopSinkSatisfiesInterface(t *testing.T) {
	var s Sink = NoopSink{}
	s.RoundCompleted(1, "table")
	s.TournamentFinished("winner", "table", 10)
}

func TestRoundMessageContainsRoundAndTable(t *testing.T) {
	msg := roundMessage(3, "1. Alice 2.0")
	if !strings.Contains(msg, "Round 3 complete.") {
		t.Errorf("roundMessage = %q, want to contain 'Round 3 complete.'", msg)
	}
	if !strings.Contains(msg, "1. Alice 2.0") {
		t.Errorf("roundMessage = %q, want to contain standings table", msg)
	}
}

func TestFinishMessageOmitsWinnerWhenEmpty(t *testing.T) {
	msg := finishMessage("", "table", 42)
	if strings.Contains(msg, "Winner:") {
		t.Errorf("finishMessage with no winner should omit 'Winner:', got %q", msg)
	}
}

func TestFinishMessageIncludesWinner(t *testing.T) {
	msg := finishMessage("Alice", "table", 42)
	if !strings.Contains(msg, "Winner: Alice") {
		t.Errorf("finishMessage = %q, want to contain 'Winner: Alice'", msg)
	}
}
