package driver

import (
	"fmt"
	"sync"

	"github.com/openchessrunner/core/clock"
	"github.com/openchessrunner/core/engine"
	"github.com/openchessrunner/core/match"
)

// Driver is one game's state machine. It uniquely owns a Board and a Clock
// and borrows (does not own) two Players for its lifetime.
type Driver struct {
	// ReadyTimeoutTicks is the ready->playing fallback threshold, exposed as
	// a knob rather than a hardcoded constant. Zero means "use the default
	// of 5".
	ReadyTimeoutTicks int

	// AppName and Logger identify and receive this game's diagnostic
	// messages; AppName is passed to Logger with every message as its
	// source name.
	AppName string
	Logger  MessageLogger

	mu sync.Mutex

	state     State
	stateTick int

	players [2]engine.Player
	board   engine.Board
	clock   clock.Clock
	config  match.GameConfig

	gameIdx    int
	round      int
	startFEN   string
	startMoves []engine.Move

	result engine.Result
}

// New constructs a Driver for one scheduled record. clk is a Clock value
// already configured by the caller (typically a Clone of a per-tournament
// template) for this game alone.
func New(white, black engine.Player, board engine.Board, clk clock.Clock, config match.GameConfig, gameIdx, round int, startFEN string, startMoves []engine.Move) *Driver {
	d := &Driver{
		board:      board,
		clock:      clk,
		config:     config,
		gameIdx:    gameIdx,
		round:      round,
		startFEN:   startFEN,
		startMoves: startMoves,
	}
	d.players[engine.White] = white
	d.players[engine.Black] = black
	return d
}

func (d *Driver) readyTimeoutTicks() int {
	if d.ReadyTimeoutTicks > 0 {
		return d.ReadyTimeoutTicks
	}
	return 5
}

// State returns the current lifecycle state.
func (d *Driver) State() State {
	return d.state
}

// TicksInState returns how many ticks the driver has spent in its current
// state, for callers that want to build their own handshake timeout; the
// driver itself enforces no default timeout.
func (d *Driver) TicksInState() int {
	return d.stateTick
}

// Result returns the terminal result once the driver has reached
// StateStopped or later. Before that it is the zero Result (NoResult).
func (d *Driver) Result() engine.Result {
	return d.result
}

// GameIdx and Round are this game's schedule position, used by PGN tag
// assembly and by the Scheduler's one-line match-completed log.
func (d *Driver) GameIdx() int { return d.gameIdx }
func (d *Driver) Round() int   { return d.round }

func (d *Driver) logf(kind LogKind, format string, args ...any) {
	if d.Logger == nil {
		return
	}
	d.Logger(d.AppName, fmt.Sprintf(format, args...), kind)
}

func (d *Driver) setState(s State) {
	d.state = s
	d.stateTick = 0
}

func (d *Driver) ply() int {
	return len(d.board.HistList())
}

// KickStart attaches both players and begins the handshake, moving the
// driver from none to begin.
func (d *Driver) KickStart() {
	d.players[engine.White].Attach(d.board, &d.clock, d.makeOnMove(engine.White), d.makeOnResign(engine.White))
	d.players[engine.Black].Attach(d.board, &d.clock, d.makeOnMove(engine.Black), d.makeOnResign(engine.Black))
	d.players[engine.White].SetPonderMode(d.config.Ponder)
	d.players[engine.Black].SetPonderMode(d.config.Ponder)
	d.players[engine.White].KickStart()
	d.players[engine.Black].KickStart()
	d.setState(StateBegin)
}

// Tick advances the driver one scheduler tick. It is called from the
// scheduler's single tick thread and must never block on engine I/O.
func (d *Driver) Tick() {
	d.stateTick++

	switch d.state {
	case StateBegin, StateReady:
		d.tickHandshake()
	case StatePlaying:
		d.tickPlaying()
	case StateEnding:
		d.tickEnding()
	}
}

func (d *Driver) tickHandshake() {
	okCnt, stoppedCnt := 0, 0
	for _, p := range d.players {
		if p == nil {
			continue
		}
		st := p.State()
		ok := false
		switch {
		case d.state == StateBegin && st == engine.PlayerReady:
			ok = true
		case d.state == StateReady && (st == engine.PlayerPlaying || (st == engine.PlayerReady && p.TickState() > d.readyTimeoutTicks())):
			ok = true
		}
		if ok {
			okCnt++
		} else if st == engine.PlayerStopped {
			stoppedCnt++
		}
	}

	if okCnt+stoppedCnt < 2 {
		return
	}

	if okCnt == 2 {
		if d.state == StateBegin {
			d.setState(StateReady)
			d.newGame()
		} else {
			d.setState(StatePlaying)
			d.startThinking(engine.Move{})
		}
		return
	}

	// One or both engines crashed during handshake.
	var result engine.Result
	switch {
	case stoppedCnt == 2:
		result = engine.Result{Kind: engine.Draw, Reason: engine.ReasonCrash}
	case d.players[engine.White].State() == engine.PlayerStopped:
		result = engine.Result{Kind: engine.BlackWins, Reason: engine.ReasonCrash}
	default:
		result = engine.Result{Kind: engine.WhiteWins, Reason: engine.ReasonCrash}
	}
	d.gameOver(result)
}

func (d *Driver) newGame() {
	d.board.NewGame(d.startFEN)

	appliedAny := false
	for _, m := range d.startMoves {
		if !d.board.CheckMake(m.From, m.To, m.Promotion) {
			break
		}
		appliedAny = true
	}
	if appliedAny {
		d.board.StampLast(0, 0, 0, 0, "end of opening")
	}

	for _, p := range d.players {
		if p != nil {
			p.NewGame()
		}
	}
}

// startThinking issues go/go_ponder to the side to move and its opponent,
// beginning the next move.
func (d *Driver) startThinking(ponderMove engine.Move) {
	side := d.board.SideToMove()
	other := side.Other()

	d.clock.BeginMove(side, d.ply())

	if d.config.Ponder {
		d.players[other].GoPonder(ponderMove)
	} else {
		d.players[other].StopThinking()
	}
	d.players[side].Go()
}

func (d *Driver) tickPlaying() {
	side := d.board.SideToMove()
	if d.players[side] == nil {
		return
	}
	if !d.mu.TryLock() {
		return
	}
	defer d.mu.Unlock()

	if d.state != StatePlaying {
		return
	}
	d.checkTimeOver()
}

func (d *Driver) checkTimeOver() bool {
	side := d.board.SideToMove()
	if !d.clock.IsTimeOver(side) {
		return false
	}

	d.logf(LogSystem, "time left for %s: %.2f, for %s: %.2f, used: %.2f",
		d.players[engine.White].Name(), d.clock.TimeLeft(engine.White),
		d.players[engine.Black].Name(), d.clock.TimeLeft(engine.Black),
		d.clock.Elapsed())

	d.gameOver(engine.ResultForWinner(side.Other(), engine.ReasonTimeout))
	return true
}

func (d *Driver) makeOnMove(side engine.Side) engine.OnMoveFn {
	return func(move engine.Move, moveString string, ponderMove engine.Move, timeConsumed float64, prevState engine.PlayerState) {
		d.mu.Lock()
		defer d.mu.Unlock()

		if d.state != StatePlaying || d.board.SideToMove() != side {
			return
		}
		if d.checkTimeOver() {
			return
		}
		if d.board.SideToMove() != side {
			return
		}

		switch prevState {
		case engine.PlayerThinking:
			if d.applyMove(side, move, moveString, timeConsumed) {
				d.clock.EndMove(side, timeConsumed, d.ply())
				var ponder engine.Move
				if d.config.Ponder {
					ponder = ponderMove
				}
				d.startThinking(ponder)
			}
		case engine.PlayerPondering:
			// Missed ponderhit: the driver's stop_thinking landed before the
			// opponent's move arrived. Re-issue go for the real position.
			d.players[side].Go()
		}
	}
}

// applyMove attempts the move and handles terminal detection/adjudication.
// It returns true iff the game continues (the caller should end the clock
// and start the next move).
func (d *Driver) applyMove(side engine.Side, move engine.Move, moveString string, timeConsumed float64) bool {
	if !d.board.CheckMake(move.From, move.To, move.Promotion) {
		d.logf(LogSystem, "Illegal move %s from %s", moveString, d.players[side].Name())
		d.gameOver(engine.ResultForWinner(side.Other(), engine.ReasonIllegalMove))
		return false
	}

	if result := d.board.Rule(); result.Kind != engine.NoResult {
		d.gameOver(result)
		return false
	}

	adj := d.config.Adjudication
	if adj.Enabled {
		if adj.MaxGameLength > 0 && d.ply() >= adj.MaxGameLength {
			d.gameOver(engine.Result{Kind: engine.Draw, Reason: engine.ReasonAdjudication})
			return false
		}
		if adj.EGTBEnabled {
			result, probeErr := d.board.ProbeSyzygy(adj.EGTBMaxPieces)
			if result.Kind != engine.NoResult {
				d.gameOver(result)
				return false
			}
			if probeErr && d.board.LastMoveWasCapture() {
				d.logf(LogSystem, "unable to probe tablebase, position invalid, illegal or not in tablebase")
			}
		}
	}

	mover := d.players[side]
	d.board.StampLast(timeConsumed, mover.Score(), mover.Depth(), mover.Nodes(), "")
	d.players[side.Other()].OppositeMadeMove(move, moveString)
	return true
}

func (d *Driver) makeOnResign(side engine.Side) engine.OnResignFn {
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()

		if d.state != StatePlaying {
			return
		}
		d.gameOver(engine.ResultForWinner(side.Other(), engine.ReasonResign))
	}
}

func (d *Driver) gameOver(result engine.Result) {
	for _, p := range d.players {
		if p != nil {
			p.StopThinking()
		}
	}
	d.result = result
	d.setState(StateStopped)
}

// BeginEnding is called by the Scheduler once it has consumed the result,
// driving the transition from stopped to ending.
func (d *Driver) BeginEnding() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateStopped {
		d.setState(StateEnding)
	}
}

func (d *Driver) tickEnding() {
	d.mu.Lock()
	defer d.mu.Unlock()

	pending := 0
	for _, p := range d.players {
		if p != nil && !p.IsSafeToDetach() {
			pending++
			p.PrepareToDetach()
		}
	}
	if pending == 0 {
		d.setState(StateEnded)
	}
}

// Players returns the two borrowed Player handles, for the Scheduler to
// detach and return to the pool once the driver reaches StateEnded.
func (d *Driver) Players() (white, black engine.Player) {
	return d.players[engine.White], d.players[engine.Black]
}
