package match

import (
	"encoding/json"
	"testing"

	"github.com/openchessrunner/core/engine"
)

func TestValidInvariant(t *testing.T) {
	cases := []struct {
		name string
		r    Record
		want bool
	}{
		{"none/noresult", Record{State: StateNone, ResultKind: engine.NoResult}, true},
		{"completed/result", Record{State: StateCompleted, ResultKind: engine.WhiteWins}, true},
		{"completed/noresult", Record{State: StateCompleted, ResultKind: engine.NoResult}, false},
		{"none/result", Record{State: StateNone, ResultKind: engine.Draw}, false},
		{"playing/noresult", Record{State: StatePlaying, ResultKind: engine.NoResult}, true},
		{"error/noresult", Record{State: StateError, ResultKind: engine.NoResult}, true},
	}
	for _, c := range cases {
		if got := c.r.Valid(); got != c.want {
			t.Errorf("%s: Valid() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestIsBye(t *testing.T) {
	if !(Record{PlayerW: "A", PlayerB: ""}).IsBye() {
		t.Fatal("empty black should be a bye")
	}
	if (Record{PlayerW: "A", PlayerB: "B"}).IsBye() {
		t.Fatal("two named players should not be a bye")
	}
}

func TestRecordJSONRoundTrip(t *testing.T) {
	r := Record{
		PairID:   42,
		GameIdx:  3,
		Round:    1,
		PlayerW:  "Stockfish",
		PlayerB:  "Leela",
		StartFEN: "",
		StartMoves: []engine.Move{
			{From: 12, To: 28, Promotion: engine.NoPromotion},
			{From: 52, To: 36, Promotion: engine.Queen},
		},
		State:      StateCompleted,
		ResultKind: engine.WhiteWins,
		Reason:     engine.ReasonMate,
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal to map: %v", err)
	}
	for _, key := range []string{"players", "result", "gameIdx", "round", "pairId"} {
		if _, ok := got[key]; !ok {
			t.Errorf("wire shape missing key %q", key)
		}
	}
	if got["result"] != "1-0" {
		t.Errorf("result = %v, want 1-0", got["result"])
	}

	var back Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal to Record: %v", err)
	}
	if back.PlayerW != r.PlayerW || back.PlayerB != r.PlayerB {
		t.Errorf("players mismatch: got %+v", back)
	}
	if back.State != StateCompleted || back.ResultKind != engine.WhiteWins {
		t.Errorf("state/result mismatch: got %+v", back)
	}
	if len(back.StartMoves) != 2 || back.StartMoves[1].Promotion != engine.Queen {
		t.Errorf("start moves mismatch: got %+v", back.StartMoves)
	}
}

func TestRecordJSONPendingRoundTrip(t *testing.T) {
	r := Record{PlayerW: "A", PlayerB: "B", State: StateNone, ResultKind: engine.NoResult}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.State != StateNone {
		t.Errorf("pending record should reload as StateNone, got %v", back.State)
	}
}

func TestMovePackUnpackRoundTrip(t *testing.T) {
	moves := []engine.Move{
		{From: 0, To: 0, Promotion: engine.NoPromotion},
		{From: 255, To: 255, Promotion: engine.Queen},
		{From: 12, To: 28, Promotion: engine.Knight},
	}
	for _, m := range moves {
		packed := m.Pack()
		if got := engine.Unpack(packed); got != m {
			t.Errorf("pack/unpack round trip: %+v -> %d -> %+v", m, packed, got)
		}
	}
}
