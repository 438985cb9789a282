package pairing

import "github.com/openchessrunner/core/match"

// RoundRobin builds the all-play-all schedule. For every
// unordered pair it creates GamesPerPair records sharing one pair_id,
// colors alternating starting from a random coin flip. All records have
// Round == 1.
func RoundRobin(players []string, opts Options) []match.Record {
	list := players
	rng := opts.rng()
	if opts.ShufflePlayers {
		list = shuffled(players, rng)
	}
	gamesPerPair := opts.gamesPerPair()

	var records []match.Record
	gameIdx := 0
	for i := 0; i < len(list); i++ {
		for j := i + 1; j < len(list); j++ {
			pairID := nextPairID(rng)
			white, black := list[i], list[j]
			if rng.Intn(2) == 1 {
				white, black = black, white
			}
			for g := 0; g < gamesPerPair; g++ {
				records = append(records, match.Record{
					PairID:  pairID,
					GameIdx: gameIdx,
					Round:   1,
					PlayerW: white,
					PlayerB: black,
				})
				gameIdx++
				white, black = black, white
			}
		}
	}
	return records
}
