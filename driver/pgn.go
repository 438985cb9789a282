package driver

import (
	"strconv"
	"strings"

	"github.com/openchessrunner/core/engine"
)

// PGNInfo carries the tournament-level fields the driver itself has no way
// to know (event/site name, formatted date/time of day); the rest of the
// seven-tag roster plus extensions is derived from driver/board state.
type PGNInfo struct {
	Event string
	Site  string
	Date  string // e.g. "2026.08.06"
	Time  string // e.g. "14:03:21"
	Rich  bool    // movetext wrap width: 4 plies/line if true, 8 otherwise
}

// TagOrder is the emission order for the tag roster.
var TagOrder = []string{
	"Event", "Site", "Date", "Round", "White", "Black", "Result",
	"TimeControl", "Time", "Board", "Termination", "FEN", "SetUp",
	"ECO", "Opening", "Variation",
}

// BuildPGNTags assembles the tag map for this (ended) game. The driver
// only assembles tags; PGN text emission itself is delegated to the Board
// collaborator. Callers render `[Tag "value"]` lines in
// TagOrder, skipping any tag absent from the map, followed by
// Board.ToMoveListString's movetext and the result token.
func (d *Driver) BuildPGNTags(info PGNInfo) map[string]string {
	tags := make(map[string]string, len(TagOrder))
	set := func(k, v string) {
		if v != "" {
			tags[k] = v
		}
	}

	set("Event", info.Event)
	set("Site", info.Site)
	set("Date", info.Date)
	if d.round >= 0 {
		set("Round", strconv.Itoa(d.round))
	}
	if w := d.players[engine.White]; w != nil {
		set("White", w.Name())
	}
	if b := d.players[engine.Black]; b != nil {
		set("Black", b.Name())
	}
	set("Result", d.result.Kind.String())
	set("TimeControl", d.clock.String())
	set("Time", info.Time)
	set("Board", strconv.Itoa(d.gameIdx+1))
	if term := d.result.Reason.String(); term != "normal" {
		set("Termination", term)
	}

	if !d.board.FromOriginPosition() {
		set("FEN", d.board.GetStartingFEN())
		set("SetUp", "1")
	}

	eco := d.board.CommentECOString()
	if len(eco) > 0 {
		set("ECO", eco[0])
	}
	if len(eco) > 1 {
		set("Opening", eco[1])
	}
	if len(eco) > 2 {
		set("Variation", eco[2])
	}

	return tags
}

// RenderPGN produces the full PGN text for this (ended) game: the tag
// roster in TagOrder followed by the movetext and result token.
func (d *Driver) RenderPGN(info PGNInfo) string {
	tags := d.BuildPGNTags(info)

	var b strings.Builder
	for _, k := range TagOrder {
		if v, ok := tags[k]; ok {
			b.WriteString("[")
			b.WriteString(k)
			b.WriteString(" \"")
			b.WriteString(v)
			b.WriteString("\"]\n")
		}
	}

	wrap := 8
	if info.Rich {
		wrap = 4
	}
	b.WriteString("\n")
	b.WriteString(d.board.ToMoveListString("san", wrap, true, info.Rich))

	if d.result.Kind != engine.NoResult {
		b.WriteString(" ")
		b.WriteString(d.result.Kind.String())
	}
	b.WriteString("\n\n")

	return b.String()
}
