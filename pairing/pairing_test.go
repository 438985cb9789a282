package pairing

import (
	"math/rand"
	"testing"

	"github.com/openchessrunner/core/engine"
	"github.com/openchessrunner/core/match"
)

func zeroElo(string) int { return 0 }

func pairKey(r match.Record) [2]string {
	if r.PlayerW < r.PlayerB {
		return [2]string{r.PlayerW, r.PlayerB}
	}
	return [2]string{r.PlayerB, r.PlayerW}
}

func TestRoundRobinOneGamePerPairCount(t *testing.T) {
	players := []string{"P1", "P2", "P3", "P4", "P5"}
	opts := Options{GamesPerPair: 1, Rand: rand.New(rand.NewSource(7))}
	records := RoundRobin(players, opts)

	n := len(players)
	want := n * (n - 1) / 2
	if len(records) != want {
		t.Fatalf("len(records) = %d, want %d", len(records), want)
	}
}

func TestRoundRobinShapeAndAlternatingColors(t *testing.T) {
	players := []string{"P1", "P2", "P3", "P4"}
	opts := Options{GamesPerPair: 2, Rand: rand.New(rand.NewSource(1))}
	records := RoundRobin(players, opts)

	if len(records) != 12 {
		t.Fatalf("len(records) = %d, want 12", len(records))
	}

	byPair := make(map[[2]string][]match.Record)
	for _, r := range records {
		if r.Round != 1 {
			t.Errorf("record round = %d, want 1", r.Round)
		}
		byPair[pairKey(r)] = append(byPair[pairKey(r)], r)
	}

	if len(byPair) != 6 {
		t.Fatalf("distinct pairs = %d, want 6", len(byPair))
	}
	for key, recs := range byPair {
		if len(recs) != 2 {
			t.Errorf("pair %v has %d records, want 2", key, len(recs))
		}
		if recs[0].PairID != recs[1].PairID {
			t.Errorf("pair %v records do not share a pair_id", key)
		}
		if recs[0].PlayerW == recs[1].PlayerW {
			t.Errorf("pair %v colors did not alternate: %+v", key, recs)
		}
	}
}

func TestKnockoutOddSeedHasOneLuckyBye(t *testing.T) {
	players := []string{"A", "B", "C", "D", "E"}
	opts := Options{GamesPerPair: 1, Rand: rand.New(rand.NewSource(3))}
	records := Seed(players, 0, zeroElo, nil, opts)

	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}

	var byes, real int
	for _, r := range records {
		if r.PlayerB == "" {
			byes++
			if r.State != match.StateCompleted || r.ResultKind != engine.WhiteWins {
				t.Errorf("bye record not auto-completed: %+v", r)
			}
		} else {
			real++
		}
	}
	if byes != 1 {
		t.Errorf("lucky byes = %d, want 1", byes)
	}
	if real != 2 {
		t.Errorf("real pairings = %d, want 2", real)
	}
}

func TestKnockoutAdvanceProducesNextRound(t *testing.T) {
	players := []string{"A", "B", "C", "D", "E"}
	opts := Options{GamesPerPair: 1, Rand: rand.New(rand.NewSource(5))}
	round0 := Seed(players, 0, zeroElo, nil, opts)

	// Resolve both real pairs: White always wins.
	for i := range round0 {
		if round0[i].PlayerB == "" {
			continue
		}
		round0[i].State = match.StateCompleted
		round0[i].ResultKind = engine.WhiteWins
	}

	next, winner, done := Advance(round0, 1, zeroElo, nil, opts)
	if done {
		t.Fatalf("done = true after round 0 with 3 winners, want false; winner=%q", winner)
	}
	// 3 winners advance; odd, so round 1 is one lucky bye plus one real pairing.
	if len(next) != 2 {
		t.Fatalf("next round has %d records, want 2", len(next))
	}
	if next[0].Round != 1 {
		t.Errorf("next round records stamped round %d, want 1", next[0].Round)
	}
}

func TestKnockoutTieExtension(t *testing.T) {
	records := []match.Record{
		{PairID: 99, GameIdx: 0, Round: 1, PlayerW: "X", PlayerB: "Y", State: match.StateCompleted, ResultKind: engine.WhiteWins},
		{PairID: 99, GameIdx: 1, Round: 1, PlayerW: "Y", PlayerB: "X", State: match.StateCompleted, ResultKind: engine.WhiteWins},
	}

	ext, tied := CheckExtend(records, 1)
	if !tied || ext == nil {
		t.Fatalf("expected a tie extension, got tied=%v ext=%v", tied, ext)
	}
	if ext.PlayerW != "X" || ext.PlayerB != "Y" {
		t.Errorf("extension players = %s/%s, want X/Y (first record's colors)", ext.PlayerW, ext.PlayerB)
	}
	if ext.State != match.StateNone || ext.ResultKind != engine.NoResult {
		t.Errorf("extension should be pending: %+v", ext)
	}

	msg := TiedMessage(*ext)
	if msg != "Tied! Add one more game for X vs Y" {
		t.Errorf("TiedMessage = %q", msg)
	}
}

func TestCheckExtendNoTieWhenDecisive(t *testing.T) {
	records := []match.Record{
		{PairID: 1, GameIdx: 0, Round: 1, PlayerW: "X", PlayerB: "Y", State: match.StateCompleted, ResultKind: engine.WhiteWins},
		{PairID: 1, GameIdx: 1, Round: 1, PlayerW: "Y", PlayerB: "X", State: match.StateCompleted, ResultKind: engine.BlackWins},
	}
	// X won both games (game 2: Y is white and loses, X is black and wins).
	if _, tied := CheckExtend(records, 1); tied {
		t.Fatal("expected no extension when one player won both games")
	}
}
