// Package persist owns the schedule file: the durable
// record of every MatchRecord in a tournament, saved after every state
// transition so a killed process can resume. Grounded on
// bcc/event_detail.go's custom-UnmarshalJSON-plus-ParseDateOrZero idiom for
// the top-level document, generalized to round-robin/knockout tournaments.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openchessrunner/core/clock"
	"github.com/openchessrunner/core/match"
)

// Format names the tournament type stored in the schedule file's "type"
// field: "roundrobin" or "knockout".
type Format string

const (
	RoundRobin Format = "roundrobin"
	Knockout   Format = "knockout"
)

// TimeControl is the persisted subset of a clock.Clock: the schedule
// file's "timeControl" object (mode, moves, time, increment, margin).
type TimeControl struct {
	Mode      clock.Mode
	Moves     int
	Time      float64
	Increment float64
	Margin    float64
}

func TimeControlOf(c clock.Clock) TimeControl {
	return TimeControl{
		Mode:      c.Mode,
		Moves:     c.MovesPerControl,
		Time:      c.Base,
		Increment: c.Increment,
		Margin:    c.Margin,
	}
}

func (tc TimeControl) Clock() clock.Clock {
	var c clock.Clock
	c.Setup(tc.Mode, tc.Moves, tc.Time, tc.Increment, tc.Margin)
	return c
}

// Document is the schedule file's full in-memory shape.
type Document struct {
	Type        Format
	TimeControl TimeControl
	Elapsed     int // seconds accumulated so far
	RecordList  []match.Record
}

type documentWire struct {
	Type        Format          `json:"type"`
	TimeControl timeControlWire `json:"timeControl"`
	Elapsed     int             `json:"elapsed"`
	RecordList  []match.Record  `json:"recordList"`
}

type timeControlWire struct {
	Mode      string  `json:"mode"`
	Moves     int     `json:"moves"`
	Time      float64 `json:"time"`
	Increment float64 `json:"increment"`
	Margin    float64 `json:"margin"`
}

func modeString(m clock.Mode) string {
	switch m {
	case clock.Infinite:
		return "infinite"
	case clock.Depth:
		return "depth"
	case clock.MoveTime:
		return "movetime"
	default:
		return "standard"
	}
}

func parseMode(s string) clock.Mode {
	switch s {
	case "infinite":
		return clock.Infinite
	case "depth":
		return clock.Depth
	case "movetime":
		return clock.MoveTime
	default:
		return clock.Standard
	}
}

func (d Document) toWire() documentWire {
	return documentWire{
		Type: d.Type,
		TimeControl: timeControlWire{
			Mode:      modeString(d.TimeControl.Mode),
			Moves:     d.TimeControl.Moves,
			Time:      d.TimeControl.Time,
			Increment: d.TimeControl.Increment,
			Margin:    d.TimeControl.Margin,
		},
		Elapsed:    d.Elapsed,
		RecordList: d.RecordList,
	}
}

func (w documentWire) toDocument() Document {
	return Document{
		Type: w.Type,
		TimeControl: TimeControl{
			Mode:      parseMode(w.TimeControl.Mode),
			Moves:     w.TimeControl.Moves,
			Time:      w.TimeControl.Time,
			Increment: w.TimeControl.Increment,
			Margin:    w.TimeControl.Margin,
		},
		Elapsed:    w.Elapsed,
		RecordList: w.RecordList,
	}
}

// Save writes the schedule file via write-temp-then-rename so a crash
// mid-write never corrupts the prior good file.
func Save(path string, doc Document) error {
	data, err := json.MarshalIndent(doc.toWire(), "", "  ")
	if err != nil {
		return fmt.Errorf("persist.Save: marshal: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".playing-*.json.tmp")
	if err != nil {
		return fmt.Errorf("persist.Save: create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("persist.Save: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("persist.Save: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("persist.Save: rename: %w", err)
	}
	return nil
}

// Load reads the schedule file. A record that was StatePlaying at save time
// carries no result on the wire (same as an unstarted record), and
// match.Record.UnmarshalJSON resolves both cases to StateNone, so after Load
// no record is ever observed stuck in StatePlaying. A missing or corrupt
// file is reported via err; the caller decides what to do with it (the
// usual choice: resume silently declines and starts fresh).
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("persist.Load: read: %w", err)
	}

	var w documentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Document{}, fmt.Errorf("persist.Load: unmarshal: %w", err)
	}

	return w.toDocument(), nil
}

// Exists reports whether a schedule file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Delete removes the schedule file; a missing file is not an error.
func Delete(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("persist.Delete: %w", err)
	}
	return nil
}

// UncompletedCount reports how many of the document's records are not yet
// StateCompleted, for the resume prompt's "N (of M) uncompleted" text.
func UncompletedCount(doc Document) (uncompleted, total int) {
	total = len(doc.RecordList)
	for _, r := range doc.RecordList {
		if r.State != match.StateCompleted {
			uncompleted++
		}
	}
	return uncompleted, total
}
