package schedule

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/openchessrunner/core/archive"
	"github.com/openchessrunner/core/driver"
	"github.com/openchessrunner/core/engine"
	"github.com/openchessrunner/core/match"
	"github.com/openchessrunner/core/notify"
	"github.com/openchessrunner/core/pairing"
	"github.com/openchessrunner/core/persist"
	"github.com/openchessrunner/core/standings"
)

// liveGame bundles one in-flight GameDriver with the collaborators the
// Scheduler borrowed to build it.
type liveGame struct {
	driver       *driver.Driver
	board        engine.Board
	white, black engine.Player
	// done is closed once the tick thread has reaped this game, releasing
	// the errgroup slot its lifecycle goroutine is holding.
	done chan struct{}
}

// Scheduler drives every scheduled game to completion. It owns the
// MatchRecord list exclusively; nothing outside the tick thread mutates it.
type Scheduler struct {
	cfg          Config
	pool         engine.PlayerPool
	boardFactory BoardFactory
	eloOf        EloFunc
	rand         *rand.Rand

	Notify  notify.Sink
	Archive archive.Mirror

	records   []match.Record
	games     map[int]*liveGame
	luckyBye  map[string]bool
	round     int
	tournDone bool

	startedAt time.Time

	g *errgroup.Group

	// Each file sink is serialized by its own mutex. PGN and result appends
	// happen on the tick thread via matchCompleted; engine-log appends can
	// also arrive from players' callback goroutines through each driver's
	// logger.
	pgnMu, resultMu, engineMu sync.Mutex
}

// New builds a Scheduler with an empty schedule; call SeedRoundRobin,
// SeedKnockout or LoadRecords before Run.
func New(cfg Config, pool engine.PlayerPool, boardFactory BoardFactory, eloOf EloFunc) *Scheduler {
	s := &Scheduler{
		cfg:          cfg,
		pool:         pool,
		boardFactory: boardFactory,
		eloOf:        eloOf,
		rand:         cfg.Rand,
		games:        make(map[int]*liveGame),
		luckyBye:     make(map[string]bool),
		Notify:       notify.NoopSink{},
		Archive:      archive.NoopMirror{},
	}
	if eloOf == nil {
		s.eloOf = func(string) int { return 0 }
	}
	if s.rand == nil {
		s.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.g = &errgroup.Group{}
	s.g.SetLimit(cfg.concurrency())
	return s
}

// SeedRoundRobin generates the all-play-all schedule and installs it as
// this Scheduler's record list.
func (s *Scheduler) SeedRoundRobin(players []string) {
	s.records = pairing.RoundRobin(players, s.pairingOptions())
	s.renumber()
	s.round = 1
}

// SeedKnockout generates the initial knockout round and installs it as
// this Scheduler's record list.
func (s *Scheduler) SeedKnockout(players []string) {
	s.records = pairing.Seed(players, 0, s.eloOf, s.luckyBye, s.pairingOptions())
	s.renumber()
	s.round = 0
}

// LoadRecords installs an already-built record list (e.g. from persist.Load
// on resume) directly, skipping generation.
func (s *Scheduler) LoadRecords(records []match.Record, round int) {
	s.records = records
	s.round = round
}

// ApplyOpeningBook assigns a fresh start position to every not-yet-started
// record lacking one, for tournaments configured with a book instead of
// the default start position. fen is called once per
// record; a caller wiring bookfetch.Fetcher.FetchFEN would pass
// `func() (string, error) { return fetcher.FetchFEN(ctx, url) }`.
func (s *Scheduler) ApplyOpeningBook(fen func() (string, error)) error {
	for i := range s.records {
		if s.records[i].State != match.StateNone || s.records[i].StartFEN != "" {
			continue
		}
		f, err := fen()
		if err != nil {
			return fmt.Errorf("schedule: opening book: %w", err)
		}
		s.records[i].StartFEN = f
	}
	return nil
}

func (s *Scheduler) pairingOptions() pairing.Options {
	return pairing.Options{
		GamesPerPair:   s.cfg.GamesPerPair,
		ShufflePlayers: s.cfg.ShufflePlayers,
		Rand:           s.rand,
	}
}

// renumber reassigns GameIdx to each record's position in the full
// schedule; pairing.Seed/RoundRobin only number within their own batch.
func (s *Scheduler) renumber() {
	for i := range s.records {
		s.records[i].GameIdx = i
	}
}

// Run starts the 500ms tick loop and blocks until the tournament finishes
// or ctx is cancelled. On finish it returns nil rather than terminating
// the process, leaving that decision to the caller.
func (s *Scheduler) Run(ctx context.Context) error {
	s.startedAt = time.Now()
	s.g, ctx = errgroup.WithContext(ctx)
	s.g.SetLimit(s.cfg.concurrency())

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.tick()
			if s.tournDone {
				return nil
			}
		}
	}
}

// tick implements the scheduler's periodic work, run once per tick.
func (s *Scheduler) tick() {
	s.pool.Tick()

	var reap []int
	for idx, lg := range s.games {
		lg.driver.Tick()
		switch lg.driver.State() {
		case driver.StateStopped:
			lg.driver.BeginEnding()
			s.matchCompleted(idx)
		case driver.StateEnded:
			reap = append(reap, idx)
		}
	}

	for _, idx := range reap {
		lg := s.games[idx]
		s.pool.Return(lg.white)
		s.pool.Return(lg.black)
		close(lg.done)
		delete(s.games, idx)
	}

	if !s.tournDone {
		s.playMatches()
	}
}

// playMatches implements the dispatch loop.
func (s *Scheduler) playMatches() {
	if s.tryFinishOrAdvance() {
		return
	}

	for {
		idx := s.nextNoneIndex()
		if idx < 0 {
			break
		}
		if !s.createMatch(idx) {
			break
		}
	}

	s.tryFinishOrAdvance()
}

// tryFinishOrAdvance handles both the idle-entry check and the
// post-dispatch exhaustion check: if nothing is pending and nothing is
// live, it tries to seed the next knockout round; if that adds nothing, it
// finishes. Returns true if it took a terminal action this call (advanced
// or finished).
func (s *Scheduler) tryFinishOrAdvance() bool {
	if s.nextNoneIndex() >= 0 || len(s.games) > 0 {
		return false
	}

	if s.cfg.Format == KnockoutFormat {
		next, winner, done := pairing.Advance(s.records, s.round+1, s.eloOf, s.luckyBye, s.pairingOptions())
		if !done {
			s.round++
			s.records = append(s.records, next...)
			s.renumber()
			s.persist()
			s.Notify.RoundCompleted(s.round, standings.FormatTable(standings.Aggregate(s.records)))
			return true
		}
		s.finish(winner)
		return true
	}

	s.finish("")
	return true
}

func (s *Scheduler) nextNoneIndex() int {
	for i := range s.records {
		if s.records[i].State == match.StateNone {
			return i
		}
	}
	return -1
}

// createMatch borrows players and boards for one record and starts its
// driver. It returns false if the concurrency limit (never spawn more than
// concurrency drivers at once) is currently exhausted, signalling the
// caller to stop dispatching this tick.
func (s *Scheduler) createMatch(idx int) bool {
	rec := &s.records[idx]

	done := make(chan struct{})
	if !s.g.TryGo(func() error {
		<-done
		return nil
	}) {
		return false
	}

	white, err := s.pool.Borrow(rec.PlayerW)
	if err != nil {
		log.Printf("schedule: unknown engine %q (game %d): %v", rec.PlayerW, rec.GameIdx, err)
		rec.State = match.StateError
		close(done)
		return true
	}
	black, err := s.pool.Borrow(rec.PlayerB)
	if err != nil {
		log.Printf("schedule: unknown engine %q (game %d): %v", rec.PlayerB, rec.GameIdx, err)
		s.pool.Return(white)
		rec.State = match.StateError
		close(done)
		return true
	}

	board := s.boardFactory()
	clk := s.cfg.TimeControl.Clone()
	d := driver.New(white, black, board, clk, s.cfg.Game, rec.GameIdx, rec.Round, rec.StartFEN, rec.StartMoves)
	d.ReadyTimeoutTicks = s.cfg.ReadyTimeoutTicks
	d.AppName = fmt.Sprintf("game%d", rec.GameIdx)
	d.Logger = s.logEngineMessage

	s.games[rec.GameIdx] = &liveGame{driver: d, board: board, white: white, black: black, done: done}

	d.KickStart()
	rec.State = match.StatePlaying
	s.persist()
	return true
}

// matchCompleted records a finished game's result, writes any enabled
// sinks, and, in a knockout, checks whether its pair needs a tie-break
// extension.
func (s *Scheduler) matchCompleted(gameIdx int) {
	lg := s.games[gameIdx]
	idx := s.recordIndex(gameIdx)
	if idx < 0 {
		return
	}
	rec := &s.records[idx]

	result := lg.driver.Result()
	rec.State = match.StateCompleted
	rec.ResultKind = result.Kind
	rec.Reason = result.Reason

	if s.cfg.PGN.Enabled {
		now := time.Now()
		date := now.Format("2006.01.02")
		if !s.cfg.DateOverride.IsZero() {
			date = s.cfg.DateOverride.Format("2006.01.02")
		}
		pgn := lg.driver.RenderPGN(driver.PGNInfo{
			Event: s.cfg.Event,
			Site:  s.cfg.Site,
			Date:  date,
			Time:  now.Format("15:04:05"),
		})
		s.appendSink(&s.pgnMu, s.cfg.PGN.Path, pgn)
		s.mirror(s.cfg.PGN.Path)
	}

	if s.cfg.Result.Enabled {
		white, black := lg.driver.Players()
		line := fmt.Sprintf("%d) %s vs %s, #%d, %s\n", gameIdx, white.Name(), black.Name(), len(lg.board.HistList()), result.Kind.String())
		s.appendSink(&s.resultMu, s.cfg.Result.Path, line)
	}

	if ext, tied := pairing.CheckExtend(s.records, idx); tied && s.cfg.Format == KnockoutFormat {
		s.records = append(s.records, *ext)
		s.renumber()
		log.Print(pairing.TiedMessage(*ext))
	}

	s.persist()
}

func (s *Scheduler) recordIndex(gameIdx int) int {
	for i := range s.records {
		if s.records[i].GameIdx == gameIdx {
			return i
		}
	}
	return -1
}

// finish prints final standings, notifies, and cleans up the schedule file.
func (s *Scheduler) finish(winner string) {
	rows := standings.Aggregate(s.records)
	table := standings.FormatTable(rows)
	elapsed := int(time.Since(s.startedAt).Seconds())

	fmt.Print(table)
	fmt.Printf("Elapsed: %ds\n", elapsed)

	s.Notify.TournamentFinished(winner, table, elapsed)

	if s.cfg.Resumable {
		persist.Delete(s.cfg.SchedulePath)
	}
	s.pool.Shutdown()
	s.tournDone = true
}

func (s *Scheduler) persist() {
	if !s.cfg.Resumable || s.cfg.SchedulePath == "" {
		return
	}

	doc := persist.Document{
		Type:        s.formatName(),
		TimeControl: persist.TimeControlOf(s.cfg.TimeControl),
		Elapsed:     int(time.Since(s.startedAt).Seconds()),
		RecordList:  s.records,
	}
	if err := persist.Save(s.cfg.SchedulePath, doc); err != nil {
		log.Printf("schedule: persist failed: %v", err)
		return
	}
	s.mirror(s.cfg.SchedulePath)
}

func (s *Scheduler) formatName() persist.Format {
	if s.cfg.Format == KnockoutFormat {
		return persist.Knockout
	}
	return persist.RoundRobin
}

func (s *Scheduler) mirror(path string) {
	if path == "" {
		return
	}
	data, err := sinkContents(path)
	if err != nil {
		return
	}
	if err := s.Archive.Upload(context.Background(), path, data); err != nil {
		log.Printf("schedule: archive mirror of %s failed: %v", path, err)
	}
}
