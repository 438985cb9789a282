// Package standings aggregates completed MatchRecords into per-player
// win/draw/loss counts and renders the ranked table emitted on finish.
// Grounded on bcc/standings.go's BuildStandingsOutput:
// computed column widths, one strings.Builder, one row per player.
package standings

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/openchessrunner/core/engine"
	"github.com/openchessrunner/core/match"
)

// Row is one player's aggregated record.
type Row struct {
	Name   string
	Games  int
	Wins   int
	Draws  int
	Losses int
}

// Score is the conventional wins + draws/2 tally, shown alongside the
// standings table but NOT used to order it (see Less).
func (r Row) Score() float64 {
	return float64(r.Wins) + float64(r.Draws)/2
}

func pct(n, games int) float64 {
	if games == 0 {
		return 0
	}
	return 100 * float64(n) / float64(games)
}

func (r Row) WinPct() float64  { return pct(r.Wins, r.Games) }
func (r Row) DrawPct() float64 { return pct(r.Draws, r.Games) }
func (r Row) LossPct() float64 { return pct(r.Losses, r.Games) }

// Less implements the exact strict-weak order: descending by wins;
// ties broken by fewer losses, then more draws. This is intentionally NOT
// equivalent to sorting by Score in all cases (see DESIGN.md Open Question
// decision 2).
func Less(a, b Row) bool {
	if a.Wins != b.Wins {
		return a.Wins > b.Wins
	}
	if a.Losses != b.Losses {
		return a.Losses < b.Losses
	}
	return a.Draws > b.Draws
}

// Aggregate walks completed records and accumulates each side's games,
// wins, draws and losses. Bye records (empty player name) are
// skipped. A player not yet seen is created with all counters zero on
// first encounter. The returned rows are sorted per Less.
func Aggregate(records []match.Record) []Row {
	byName := make(map[string]*Row)
	var order []string

	get := func(name string) *Row {
		row, ok := byName[name]
		if !ok {
			row = &Row{Name: name}
			byName[name] = row
			order = append(order, name)
		}
		return row
	}

	for _, r := range records {
		if r.State != match.StateCompleted || r.IsBye() {
			continue
		}

		w := get(r.PlayerW)
		b := get(r.PlayerB)
		w.Games++
		b.Games++

		switch r.ResultKind {
		case engine.WhiteWins:
			w.Wins++
			b.Losses++
		case engine.BlackWins:
			b.Wins++
			w.Losses++
		case engine.Draw:
			w.Draws++
			b.Draws++
		}
	}

	rows := make([]Row, 0, len(order))
	for _, name := range order {
		rows = append(rows, *byName[name])
	}

	sort.SliceStable(rows, func(i, j int) bool { return Less(rows[i], rows[j]) })
	return rows
}

// FormatTable renders the rank/name/games/win%/draw%/loss%/score table
// emitted on tournament finish, column-aligned the way
// bcc.BuildStandingsOutput aligns its own rank/name/score columns.
func FormatTable(rows []Row) string {
	type line struct{ rank, name, games, winPct, drawPct, lossPct, score string }

	lines := make([]line, 0, len(rows))
	for i, r := range rows {
		lines = append(lines, line{
			rank:    fmt.Sprintf("%d.", i+1),
			name:    r.Name,
			games:   strconv.Itoa(r.Games),
			winPct:  fmt.Sprintf("%.1f", r.WinPct()),
			drawPct: fmt.Sprintf("%.1f", r.DrawPct()),
			lossPct: fmt.Sprintf("%.1f", r.LossPct()),
			score:   fmt.Sprintf("%.1f", r.Score()),
		})
	}

	maxRank, maxName, maxGames := len("Rank"), len("Name"), len("Games")
	maxWin, maxDraw, maxLoss, maxScore := len("Win%"), len("Draw%"), len("Loss%"), len("Score")
	for _, l := range lines {
		if n := len(l.rank); n > maxRank {
			maxRank = n
		}
		if n := len(l.name); n > maxName {
			maxName = n
		}
		if n := len(l.games); n > maxGames {
			maxGames = n
		}
		if n := len(l.winPct); n > maxWin {
			maxWin = n
		}
		if n := len(l.drawPct); n > maxDraw {
			maxDraw = n
		}
		if n := len(l.lossPct); n > maxLoss {
			maxLoss = n
		}
		if n := len(l.score); n > maxScore {
			maxScore = n
		}
	}

	var sb strings.Builder
	row := func(rank, name, games, winPct, drawPct, lossPct, score string) {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s  %-*s  %-*s\n",
			maxRank, rank, maxName, name, maxGames, games,
			maxWin, winPct, maxDraw, drawPct, maxLoss, lossPct, maxScore, score))
	}

	row("Rank", "Name", "Games", "Win%", "Draw%", "Loss%", "Score")
	for _, l := range lines {
		row(l.rank, l.name, l.games, l.winPct, l.drawPct, l.lossPct, l.score)
	}

	return sb.String()
}
