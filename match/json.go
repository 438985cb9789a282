package match

import (
	"encoding/json"
	"fmt"

	"github.com/openchessrunner/core/engine"
)

// recordWire is the exact on-disk shape of one recordList entry.
type recordWire struct {
	Players    [2]string `json:"players"`
	StartFEN   string    `json:"startFen,omitempty"`
	StartMoves []int     `json:"startMoves,omitempty"`
	Result     string    `json:"result"`
	GameIdx    int       `json:"gameIdx"`
	Round      int       `json:"round"`
	PairID     int64     `json:"pairId"`
}

// MarshalJSON renders a Record in the exact playing.json shape. State and
// Reason are schedule-runtime-only and are not part of the wire format;
// State is reconstructed on load from Result as part of the resume rule.
func (r Record) MarshalJSON() ([]byte, error) {
	w := recordWire{
		Players:  [2]string{r.PlayerW, r.PlayerB},
		StartFEN: r.StartFEN,
		Result:   r.ResultKind.String(),
		GameIdx:  r.GameIdx,
		Round:    r.Round,
		PairID:   r.PairID,
	}
	for _, m := range r.StartMoves {
		w.StartMoves = append(w.StartMoves, m.Pack())
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses one recordList entry. A record whose result is "*"
// loads with State == StateNone; any other result loads as StateCompleted.
// The wire format has no playing state of its own, only
// "*"/"1-0"/"0-1"/"1/2-1/2", so a record saved while "playing" carries "*"
// and comes back as StateNone without any further demotion step.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w recordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("match.Record unmarshal: %w", err)
	}

	r.PlayerW = w.Players[0]
	r.PlayerB = w.Players[1]
	r.StartFEN = w.StartFEN
	r.GameIdx = w.GameIdx
	r.Round = w.Round
	r.PairID = w.PairID
	r.StartMoves = nil
	for _, packed := range w.StartMoves {
		r.StartMoves = append(r.StartMoves, engine.Unpack(packed))
	}

	r.ResultKind = engine.ParseResultKind(w.Result)
	if r.ResultKind == engine.NoResult {
		r.State = StateNone
	} else {
		r.State = StateCompleted
	}
	if r.ResultKind == engine.Draw {
		r.Reason = engine.ReasonNormal
	}

	return nil
}
