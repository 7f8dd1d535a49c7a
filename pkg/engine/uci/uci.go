// Package uci contains a driver for using the engine under the UCI protocol.
//
// See: http://wbec-ridderkerk.nl/html/UCIProtocol.html
package uci

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/corvuschess/corvus/pkg/board"
	"github.com/corvuschess/corvus/pkg/board/fen"
	"github.com/corvuschess/corvus/pkg/engine"
	"github.com/corvuschess/corvus/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"
)

const ProtocolName = "uci"

// watchdogMultiple is the hard-timeout watchdog's multiple of the allocated budget:
// it force-aborts a search that has run this many times its own time budget, which
// should itself already have self-aborted well before that.
const watchdogMultiple = 2

// watchdogGrace is how long the watchdog waits for the search to unwind cooperatively
// after forcing an abort, before falling back to the first legal move.
const watchdogGrace = 2 * time.Second

// Driver implements a UCI driver for an engine. It is activated once "uci" has been
// read from the input stream.
type Driver struct {
	e *engine.Engine

	out chan<- string

	active       atomic.Bool
	lastPosition string

	quit   chan struct{}
	closed atomic.Bool
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:    e,
		out:  out,
		quit: make(chan struct{}),
	}
	go d.process(ctx, in)
	return d, out
}

func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "UCI protocol initialized")

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())
	d.out <- "option name OwnBook type check default false"
	d.out <- "option name Hash type spin default 0 min 0 max 4096"
	d.out <- "uciok"

	for line := range in {
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "isready":
			d.out <- "readyok"

		case "debug", "register", "ponderhit":
			// Accepted, no behavior change.

		case "setoption":
			d.setOption(args)

		case "ucinewgame":
			d.ensureInactive(ctx)
			d.lastPosition = ""

		case "position":
			d.handlePosition(ctx, line, args)

		case "go":
			d.handleGo(ctx, args, line)

		case "stop":
			d.e.Halt(ctx)

		case "quit":
			d.ensureInactive(ctx)
			return

		default:
			logw.Errorf(ctx, "Unknown UCI command %q", line)
		}
	}
	logw.Infof(ctx, "Input stream closed")
}

func (d *Driver) setOption(args []string) {
	var name, value string
	if len(args) > 1 {
		name = args[1]
	}
	if len(args) > 3 {
		value = args[3]
	}
	switch name {
	case "Hash":
		if n, err := strconv.Atoi(value); err == nil {
			d.e.SetHash(uint(n))
		}
	}
}

func (d *Driver) handlePosition(ctx context.Context, line string, args []string) {
	d.ensureInactive(ctx)

	if d.lastPosition != "" && strings.HasPrefix(line, d.lastPosition) {
		moves := strings.TrimSpace(strings.TrimPrefix(line, d.lastPosition))
		for _, arg := range strings.Fields(moves) {
			if arg == "moves" {
				continue
			}
			if err := d.e.Move(ctx, arg); err != nil {
				logw.Errorf(ctx, "Invalid position move %q: %v", arg, err)
				return
			}
		}
		d.lastPosition = line
		return
	}

	position := fen.Initial
	if len(args) >= 7 && args[0] == "fen" {
		position = strings.Join(args[1:7], " ")
	}
	if err := d.e.Reset(ctx, position); err != nil {
		logw.Errorf(ctx, "Invalid position %q: %v", line, err)
		return
	}

	apply := false
	for _, arg := range args {
		if arg == "moves" {
			apply = true
			continue
		}
		if !apply {
			continue
		}
		if err := d.e.Move(ctx, arg); err != nil {
			logw.Errorf(ctx, "Invalid position move %q: %v", arg, err)
			return
		}
	}
	d.lastPosition = line
}

func (d *Driver) handleGo(ctx context.Context, args []string, line string) {
	d.ensureInactive(ctx)

	var opt engine.SearchOptions
	var wtime, btime, winc, binc time.Duration
	movetime := time.Duration(0)

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "wtime", "btime", "winc", "binc", "movetime", "depth", "movestogo":
			i++
			if i >= len(args) {
				logw.Errorf(ctx, "Missing argument for %v: %v", args[i-1], line)
				return
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				logw.Errorf(ctx, "Invalid argument in %q: %v", line, err)
				return
			}
			switch args[i-1] {
			case "wtime":
				wtime = time.Duration(n) * time.Millisecond
			case "btime":
				btime = time.Duration(n) * time.Millisecond
			case "winc":
				winc = time.Duration(n) * time.Millisecond
			case "binc":
				binc = time.Duration(n) * time.Millisecond
			case "movetime":
				movetime = time.Duration(n) * time.Millisecond
			case "depth":
				opt.DepthLimit = lang.Some(n)
			}
		default:
			// searchmoves/ponder/infinite/nodes/mate: not supported; ignored.
		}
	}

	switch {
	case movetime > 0:
		opt.TimeBudget = lang.Some(movetime)
	case wtime > 0 || btime > 0:
		b := d.e.Board()
		remaining, inc := wtime, winc
		if b.Turn() == board.Black {
			remaining, inc = btime, binc
		}
		opt.TimeBudget = lang.Some(d.e.AllocateTime(remaining, inc, b.FullMoves()))
	}

	budget, hasBudget := opt.TimeBudget.V()

	d.active.Store(true)
	done := make(chan search.PV, 1)
	go func() {
		pv, err := d.e.GetBestMove(ctx, opt)
		if err != nil {
			logw.Errorf(ctx, "Search failed: %v", err)
			pv = search.PV{}
		}
		done <- pv
	}()

	go func() {
		if !hasBudget {
			d.searchCompleted(ctx, <-done)
			return
		}

		timer := time.AfterFunc(time.Duration(watchdogMultiple)*budget, func() {
			d.e.Halt(ctx)
		})
		defer timer.Stop()

		select {
		case pv := <-done:
			d.searchCompleted(ctx, pv)
		case <-time.After(time.Duration(watchdogMultiple)*budget + watchdogGrace):
			logw.Errorf(ctx, "Search did not unwind after hard timeout; falling back to first legal move")
			d.searchCompleted(ctx, firstLegalMovePV(d.e.Board()))
		}
	}()
}

func firstLegalMovePV(b *board.Board) search.PV {
	for _, m := range b.Position().PseudoLegalMoves(b.Turn()) {
		if b.PushMove(m) {
			return search.PV{Move: m, HasMove: true}
		}
	}
	return search.PV{}
}

func (d *Driver) ensureInactive(ctx context.Context) {
	if d.active.CAS(true, false) {
		d.e.Halt(ctx)
	}
}

func (d *Driver) searchCompleted(ctx context.Context, pv search.PV) {
	if !d.active.CAS(true, false) {
		return // stale or duplicate result
	}
	if !pv.HasMove {
		logw.Warningf(ctx, "Search returned no move; substituting first legal move")
		pv = firstLegalMovePV(d.e.Board())
	}
	if pv.HasMove {
		d.out <- printInfo(pv)
		d.out <- fmt.Sprintf("bestmove %v", pv.Move)
	} else {
		d.out <- "bestmove 0000" // terminal position: no legal moves at all
	}
}

func printInfo(pv search.PV) string {
	parts := []string{"info", fmt.Sprintf("depth %v", pv.Depth)}
	if pv.Score.IsMate() {
		sign := 1
		if pv.Score < 0 {
			sign = -1
		}
		parts = append(parts, fmt.Sprintf("score mate %v", sign))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %v", int(pv.Score*100)))
	}
	if pv.Nodes > 0 {
		parts = append(parts, fmt.Sprintf("nodes %v", pv.Nodes))
	}
	if pv.Elapsed > 0 {
		parts = append(parts, fmt.Sprintf("time %v", pv.Elapsed.Milliseconds()))
		if pv.Nodes > 0 {
			parts = append(parts, fmt.Sprintf("nps %v", uint64(time.Second)*pv.Nodes/uint64(pv.Elapsed)))
		}
	}
	if pv.HasMove {
		parts = append(parts, "pv", pv.Move.String())
	}
	return strings.Join(parts, " ")
}
