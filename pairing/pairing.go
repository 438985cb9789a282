// Package pairing generates MatchRecords for a tournament format: the
// round-robin schedule for all-play-all events, and the knockout seed round
// plus round-advancement/tie-extension for single-elimination events.
// Grounded on bcc/round1pairings.go's sorted split-half pairing
// algorithm, generalized from "by USCF rating within a section" to "by Elo
// across the full seed list, 0 if unknown".
package pairing

import (
	"math/rand"
	"time"
)

// Options controls pairing generation common to both formats.
type Options struct {
	GamesPerPair   int  // must be >= 1
	ShufflePlayers bool // shuffle the player list before pairing

	// Rand is the PRNG used for the color coin flip and for lucky-bye
	// selection. Tests supply a seeded generator for determinism; nil uses
	// a package-default source seeded non-deterministically.
	Rand *rand.Rand
}

func (o Options) rng() *rand.Rand {
	if o.Rand != nil {
		return o.Rand
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (o Options) gamesPerPair() int {
	if o.GamesPerPair < 1 {
		return 1
	}
	return o.GamesPerPair
}

func shuffled(players []string, rng *rand.Rand) []string {
	out := make([]string, len(players))
	copy(out, players)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// nextPairID returns a fresh random pair identifier, shared by every
// record of one pairing.
func nextPairID(rng *rand.Rand) int64 {
	return rng.Int63()
}
