package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/openchessrunner/core/archive"
	"github.com/openchessrunner/core/bookfetch"
	"github.com/openchessrunner/core/engine"
	"github.com/openchessrunner/core/internal"
	"github.com/openchessrunner/core/notify"
	"github.com/openchessrunner/core/persist"
	"github.com/openchessrunner/core/schedule"
)

//go:embed help.txt
var helpText string

type cmdHandler func(ctx context.Context, args []string)

var commands = map[string]cmdHandler{
	"help": handleHelp,
	"run":  handleRun,
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if handler, ok := commands[cmd]; ok {
		handler(ctx, os.Args[2:])
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(helpText)
}

func handleHelp(ctx context.Context, args []string) {
	usage()
}

// newPlayerPool and newBoardFactory are this core's explicit external
// boundary: no chess rules and no engine protocol are implemented here.
// This entrypoint wires the full tournament scheduler around them; a
// deployment that wants to actually play games
// supplies its own engine.PlayerPool (launching real UCI/WinBoard
// subprocesses) and schedule.BoardFactory (a concrete rules engine) by
// calling schedule.New directly rather than running this binary, or by
// forking this file. With no factory configured, every Borrow fails and
// createMatch degrades every record to match.StateError (see
// schedule.Scheduler.createMatch), so the tournament still runs end to end
// -- it just can't play a move without a real engine/board behind it.
func newPlayerPool() engine.PlayerPool {
	return engine.NewMemPool(nil)
}

func newBoardFactory() schedule.BoardFactory {
	return func() engine.Board {
		panic("tourneyrun: no board adapter configured; wire schedule.New directly with a real engine.Board implementation")
	}
}

func handleRun(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "tourney.json", "tournament config file (JSON)")
	autoYes := fs.Bool("y", false, "answer yes to the resume prompt non-interactively")
	dateOverride := fs.String("date", "", "override the PGN Date tag (any common date format)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("tourneyrun: %v", err)
	}

	schedCfg := cfg.toScheduleConfig()
	if *dateOverride != "" {
		t, err := internal.ParseDateOrZero(*dateOverride)
		if err != nil {
			log.Fatalf("tourneyrun: --date %q: %v", *dateOverride, err)
		}
		schedCfg.DateOverride = t
	}

	s := schedule.New(schedCfg, newPlayerPool(), newBoardFactory(), nil)

	if cfg.Discord != nil && cfg.Discord.WebhookID != "" {
		sink, err := notify.NewDiscordSink(cfg.Discord.WebhookID, cfg.Discord.Token)
		if err != nil {
			log.Printf("tourneyrun: discord notify disabled: %v", err)
		} else {
			s.Notify = sink
		}
	}

	if cfg.S3 != nil && cfg.S3.Bucket != "" {
		mirror := archive.NewS3Mirror(cfg.S3.Bucket, cfg.S3.Prefix, cfg.S3.Gzip)
		if err := mirror.Init(ctx); err != nil {
			log.Printf("tourneyrun: S3 archive mirror disabled: %v", err)
		} else {
			s.Archive = mirror
		}
	}

	if err := loadOrSeed(s, cfg, *autoYes); err != nil {
		log.Fatalf("tourneyrun: %v", err)
	}

	if cfg.BookURL != "" {
		fetcher := bookfetch.NewFetcher(time.Hour)
		if err := s.ApplyOpeningBook(func() (string, error) {
			return fetcher.FetchFEN(ctx, cfg.BookURL)
		}); err != nil {
			log.Fatalf("tourneyrun: opening book: %v", err)
		}
	}

	if err := s.Run(ctx); err != nil {
		log.Fatalf("tourneyrun: %v", err)
	}
}

// loadOrSeed implements the resume-or-fresh-start decision: if a resumable
// schedule file exists with uncompleted matches, the operator is prompted;
// otherwise (or on decline, or on a corrupt file) a fresh schedule is
// generated.
func loadOrSeed(s *schedule.Scheduler, cfg tourneyConfig, autoYes bool) error {
	path := cfg.toScheduleConfig().SchedulePath
	if !cfg.Resumable || path == "" || !persist.Exists(path) {
		seedFresh(s, cfg)
		return nil
	}

	doc, err := persist.Load(path)
	if err != nil {
		log.Printf("tourneyrun: schedule file corrupt, starting fresh: %v", err)
		seedFresh(s, cfg)
		return nil
	}

	uncompleted, total := persist.UncompletedCount(doc)
	if uncompleted == 0 {
		seedFresh(s, cfg)
		return nil
	}

	if info, statErr := os.Stat(path); statErr == nil {
		if saved := persist.LastSavedText(info.ModTime().Format(time.RFC3339)); saved != "" {
			fmt.Printf("(%s)\n", saved)
		}
	}

	resume, err := persist.PromptResume(os.Stdin, os.Stdout, uncompleted, total, autoYes)
	if err != nil {
		return err
	}
	if !resume {
		seedFresh(s, cfg)
		return nil
	}

	round := 0
	for _, r := range doc.RecordList {
		if r.Round > round {
			round = r.Round
		}
	}
	s.LoadRecords(doc.RecordList, round)
	return nil
}

func seedFresh(s *schedule.Scheduler, cfg tourneyConfig) {
	if cfg.Format == "knockout" {
		s.SeedKnockout(cfg.Players)
	} else {
		s.SeedRoundRobin(cfg.Players)
	}
}
