package pairing

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/openchessrunner/core/engine"
	"github.com/openchessrunner/core/match"
)

// Seed builds one knockout round's pairings. round is the round number to
// stamp on every produced record (0 for the initial seed round).
// alreadyLucky, if non-nil, tracks players who have already received a
// lucky bye across prior rounds of this tournament and is updated in
// place; pass nil if the caller doesn't care to enforce that constraint.
//
// GameIdx on the returned records is 0-based within this batch only; the
// caller must reassign it to the record's true position once appended to
// the full schedule, since game_idx must equal the record's index in the
// schedule at creation time.
func Seed(players []string, round int, eloOf func(name string) int, alreadyLucky map[string]bool, opts Options) []match.Record {
	list := players
	rng := opts.rng()
	if opts.ShufflePlayers {
		list = shuffled(players, rng)
	}

	remaining := make([]string, len(list))
	copy(remaining, list)

	var records []match.Record
	gameIdx := 0

	if len(remaining)%2 == 1 {
		bye, idx := pickLuckyBye(remaining, alreadyLucky, rng)
		remaining = append(remaining[:idx], remaining[idx+1:]...)
		if alreadyLucky != nil {
			alreadyLucky[bye] = true
		}
		records = append(records, match.Record{
			PairID:     nextPairID(rng),
			GameIdx:    gameIdx,
			Round:      round,
			PlayerW:    bye,
			PlayerB:    "",
			State:      match.StateCompleted,
			ResultKind: engine.WhiteWins,
		})
		gameIdx++
	}

	sort.SliceStable(remaining, func(i, j int) bool {
		return eloOf(remaining[i]) > eloOf(remaining[j])
	})

	n := len(remaining) / 2
	gamesPerPair := opts.gamesPerPair()
	for i := 0; i < n; i++ {
		pairID := nextPairID(rng)
		white, black := remaining[i], remaining[i+n]
		for g := 0; g < gamesPerPair; g++ {
			records = append(records, match.Record{
				PairID:  pairID,
				GameIdx: gameIdx,
				Round:   round,
				PlayerW: white,
				PlayerB: black,
			})
			gameIdx++
			white, black = black, white
		}
	}

	return records
}

// pickLuckyBye picks uniformly at random from players who have not
// previously been lucky, up to 10 attempts; else falls back to the first
// player in the list.
func pickLuckyBye(players []string, alreadyLucky map[string]bool, rng *rand.Rand) (name string, idx int) {
	for attempt := 0; attempt < 10; attempt++ {
		i := rng.Intn(len(players))
		if alreadyLucky == nil || !alreadyLucky[players[i]] {
			return players[i], i
		}
	}
	return players[0], 0
}

// Advance computes the winners of the last-played round and seeds the next
// one. It assumes every pair in the last
// round is already tie-resolved (ties are extended during tick via
// CheckExtend, never here). If exactly one winner remains, done is true and
// winner names the tournament champion; if no records are passed, done is
// also true with an empty winner.
func Advance(records []match.Record, nextRound int, eloOf func(name string) int, alreadyLucky map[string]bool, opts Options) (next []match.Record, winner string, done bool) {
	lastRound := -1
	for _, r := range records {
		if r.Round > lastRound {
			lastRound = r.Round
		}
	}
	if lastRound < 0 {
		return nil, "", true
	}

	type tally struct {
		players    []string
		wins       map[string]int
		whiteGames map[string]int
	}
	groups := make(map[int64]*tally)
	var order []int64

	for _, r := range records {
		if r.Round != lastRound {
			continue
		}
		g, ok := groups[r.PairID]
		if !ok {
			g = &tally{wins: make(map[string]int), whiteGames: make(map[string]int)}
			groups[r.PairID] = g
			order = append(order, r.PairID)
		}
		if !containsString(g.players, r.PlayerW) {
			g.players = append(g.players, r.PlayerW)
		}
		if r.PlayerB != "" && !containsString(g.players, r.PlayerB) {
			g.players = append(g.players, r.PlayerB)
		}
		g.whiteGames[r.PlayerW]++
		switch r.ResultKind {
		case engine.WhiteWins:
			g.wins[r.PlayerW]++
		case engine.BlackWins:
			g.wins[r.PlayerB]++
		}
	}

	var winners []string
	for _, pid := range order {
		g := groups[pid]
		if len(g.players) == 1 {
			winners = append(winners, g.players[0]) // lucky-bye pair
			continue
		}
		a, b := g.players[0], g.players[1]
		switch {
		case g.wins[a] > g.wins[b]:
			winners = append(winners, a)
		case g.wins[b] > g.wins[a]:
			winners = append(winners, b)
		case g.whiteGames[a] < g.whiteGames[b]:
			winners = append(winners, a)
		default:
			winners = append(winners, b)
		}
	}

	if len(winners) <= 1 {
		if len(winners) == 1 {
			return nil, winners[0], true
		}
		return nil, "", true
	}

	return Seed(winners, nextRound, eloOf, alreadyLucky, opts), "", false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// CheckExtend is invoked when a record transitions to completed.
// completedIdx is that record's index in
// records. If every record sharing its pair_id is now completed and both
// players have equal wins and equal White-game counts, it returns an
// extension record (same colors as the pair's first game, state none,
// round unchanged) for the caller to append; tied reports whether an
// extension was produced.
func CheckExtend(records []match.Record, completedIdx int) (extension *match.Record, tied bool) {
	if completedIdx < 0 || completedIdx >= len(records) {
		return nil, false
	}
	pairID := records[completedIdx].PairID

	var group []match.Record
	for _, r := range records {
		if r.PairID == pairID {
			group = append(group, r)
		}
	}
	if len(group) == 0 {
		return nil, false
	}
	sort.Slice(group, func(i, j int) bool { return group[i].GameIdx < group[j].GameIdx })

	first := group[0]
	if first.PlayerB == "" {
		return nil, false // lucky-bye pair, nothing to extend
	}
	for _, r := range group {
		if r.State != match.StateCompleted {
			return nil, false
		}
	}

	wins := make(map[string]int)
	whiteGames := make(map[string]int)
	for _, r := range group {
		whiteGames[r.PlayerW]++
		switch r.ResultKind {
		case engine.WhiteWins:
			wins[r.PlayerW]++
		case engine.BlackWins:
			wins[r.PlayerB]++
		}
	}

	a, b := first.PlayerW, first.PlayerB
	if wins[a] != wins[b] || whiteGames[a] != whiteGames[b] {
		return nil, false
	}

	ext := first
	ext.State = match.StateNone
	ext.ResultKind = engine.NoResult
	ext.Reason = engine.ReasonNormal
	return &ext, true
}

// TiedMessage renders the knockout tie-extension log line matching the
// original's operator-facing wording.
func TiedMessage(ext match.Record) string {
	return fmt.Sprintf("Tied! Add one more game for %v vs %v", ext.PlayerW, ext.PlayerB)
}
