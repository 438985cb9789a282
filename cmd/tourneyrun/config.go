package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/openchessrunner/core/clock"
	"github.com/openchessrunner/core/match"
	"github.com/openchessrunner/core/schedule"
)

// tourneyConfig is the on-disk shape of tourney.json, decoded with plain
// encoding/json the way playing.json itself is (no config library; this
// binary's only flags are plain flag.FlagSet).
type tourneyConfig struct {
	Format         string   `json:"format"` // "roundrobin" | "knockout"
	Players        []string `json:"players"`
	GamesPerPair   int      `json:"gamesPerPair"`
	Ponder         bool     `json:"ponder"`
	ShufflePlayers bool     `json:"shufflePlayers"`
	Resumable      bool     `json:"resumable"`
	Event          string   `json:"event"`
	Site           string   `json:"site"`
	Concurrency    int      `json:"concurrency"`

	ReadyTimeoutTicks int `json:"readyTimeoutTicks"`

	TimeControl struct {
		Mode            string  `json:"mode"` // "standard" | "infinite" | "depth" | "movetime"
		MovesPerControl int     `json:"movesPerControl"`
		Base            float64 `json:"base"`
		Increment       float64 `json:"increment"`
		Margin          float64 `json:"margin"`
	} `json:"timeControl"`

	Adjudication struct {
		Enabled       bool `json:"enabled"`
		MaxGameLength int  `json:"maxGameLength"`
		EGTBEnabled   bool `json:"egtbEnabled"`
		EGTBMaxPieces int  `json:"egtbMaxPieces"`
	} `json:"adjudication"`

	PGN       sinkJSON `json:"pgn"`
	ResultLog sinkJSON `json:"resultLog"`
	EngineLog sinkJSON `json:"engineLog"`

	SchedulePath string `json:"schedulePath"`

	BookURL string `json:"bookUrl"`

	Discord *struct {
		WebhookID string `json:"webhookId"`
		Token     string `json:"token"`
	} `json:"discordWebhook"`

	S3 *struct {
		Bucket string `json:"bucket"`
		Prefix string `json:"prefix"`
		Gzip   bool   `json:"gzip"`
	} `json:"s3"`
}

type sinkJSON struct {
	Enabled  bool   `json:"enabled"`
	Path     string `json:"path"`
	ShowTime bool   `json:"showTime"`
}

func loadConfig(path string) (tourneyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tourneyConfig{}, fmt.Errorf("tourneyrun: read config: %w", err)
	}
	var c tourneyConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return tourneyConfig{}, fmt.Errorf("tourneyrun: parse config: %w", err)
	}
	if len(c.Players) < 2 {
		return tourneyConfig{}, fmt.Errorf("tourneyrun: config needs at least 2 players, got %d", len(c.Players))
	}
	return c, nil
}

func clockMode(s string) clock.Mode {
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

func clockFromConfig(c tourneyConfig) clock.Clock {
	var clk clock.Clock
	tc := c.TimeControl
	if err := clk.Setup(clockMode(tc.Mode), tc.MovesPerControl, tc.Base, tc.Increment, tc.Margin); err != nil {
		log.Printf("tourneyrun: invalid timeControl, falling back to defaults: %v", err)
	}
	return clk
}

func (c tourneyConfig) scheduleFormat() schedule.Format {
	if c.Format == "knockout" {
		return schedule.KnockoutFormat
	}
	return schedule.RoundRobinFormat
}

func (c tourneyConfig) toScheduleConfig() schedule.Config {
	clk := clockFromConfig(c)

	return schedule.Config{
		Format:            c.scheduleFormat(),
		GamesPerPair:      c.GamesPerPair,
		Ponder:            c.Ponder,
		ShufflePlayers:    c.ShufflePlayers,
		Resumable:         c.Resumable,
		Event:             c.Event,
		Site:              c.Site,
		Concurrency:       c.Concurrency,
		ReadyTimeoutTicks: c.ReadyTimeoutTicks,
		TimeControl:       clk,
		Game: match.GameConfig{
			Ponder: c.Ponder,
			Adjudication: match.AdjudicationConfig{
				Enabled:       c.Adjudication.Enabled,
				MaxGameLength: c.Adjudication.MaxGameLength,
				EGTBEnabled:   c.Adjudication.EGTBEnabled,
				EGTBMaxPieces: c.Adjudication.EGTBMaxPieces,
			},
		},
		PGN:          schedule.SinkConfig{Enabled: c.PGN.Enabled, Path: c.PGN.Path},
		Result:       schedule.SinkConfig{Enabled: c.ResultLog.Enabled, Path: c.ResultLog.Path},
		EngineLog:    schedule.SinkConfig{Enabled: c.EngineLog.Enabled, Path: c.EngineLog.Path, ShowTime: c.EngineLog.ShowTime},
		SchedulePath: c.SchedulePath,
	}
}
