// Package console contains a simple line-oriented driver for manual testing, modeled
// on the UCI driver but without protocol ceremony.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/corvuschess/corvus/pkg/board"
	"github.com/corvuschess/corvus/pkg/board/fen"
	"github.com/corvuschess/corvus/pkg/engine"
	"github.com/corvuschess/corvus/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"
)

const ProtocolName = "console"

// Driver implements a console driver for debugging.
type Driver struct {
	e *engine.Engine

	out chan<- string

	active atomic.Bool
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

	logw.Infof(ctx, "Console protocol initialized")

	d.out <- fmt.Sprintf("engine %v (%v)", d.e.Name(), d.e.Author())
	d.printBoard()

	for line := range in {
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "reset", "r":
			d.ensureInactive(ctx)

			pos := fen.Initial
			if len(args) > 0 && args[0] != "moves" {
				pos = strings.Join(args[0:6], " ")
			}
			if err := d.e.Reset(ctx, pos); err != nil {
				d.out <- fmt.Sprintf("invalid position: %v", err)
				break
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
					d.out <- fmt.Sprintf("invalid move %q: %v", arg, err)
					break
				}
			}
			d.printBoard()

		case "undo", "u":
			d.ensureInactive(ctx)
			_ = d.e.TakeBack(ctx)
			d.printBoard()

		case "print", "p":
			d.printBoard()

		case "go", "analyze", "a":
			d.ensureInactive(ctx)

			var opt engine.SearchOptions
			if len(args) > 0 {
				if depth, err := strconv.Atoi(args[0]); err == nil {
					opt.DepthLimit = lang.Some(depth)
				}
			}

			d.active.Store(true)
			go func() {
				pv, err := d.e.GetBestMove(ctx, opt)
				if err != nil {
					logw.Errorf(ctx, "Search failed: %v", err)
				}
				d.searchCompleted(pv)
			}()

		case "depth", "d":
			if len(args) > 0 {
				if depth, err := strconv.Atoi(args[0]); err == nil {
					d.e.SetDepth(uint(depth))
				}
			}

		case "hash":
			if len(args) > 0 {
				if hash, err := strconv.Atoi(args[0]); err == nil {
					d.e.SetHash(uint(hash))
				}
			}

		case "nohash":
			d.e.SetHash(0)

		case "halt", "stop":
			d.ensureInactive(ctx)

		case "quit", "exit", "q":
			d.ensureInactive(ctx)
			return

		default:
			// Assume a move if not a recognized command.
			d.ensureInactive(ctx)
			if err := d.e.Move(ctx, cmd); err != nil {
				d.out <- fmt.Sprintf("invalid move: %q", cmd)
			} else {
				d.printBoard()
			}
		}
	}
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	d.e.Halt(ctx)
}

func (d *Driver) searchCompleted(pv search.PV) {
	if !d.active.CAS(true, false) {
		return
	}
	if pv.HasMove {
		d.out <- fmt.Sprintf("bestmove %v (score %v, depth %v, nodes %v)", pv.Move, pv.Score, pv.Depth, pv.Nodes)
	} else {
		d.out <- "bestmove none (no legal move)"
	}
}

const (
	files      = "    a   b   c   d   e   f   g   h"
	horizontal = "  ---------------------------------"
	vertical   = " | "
)

func (d *Driver) printBoard() {
	b := d.e.Board()
	p := b.Position()

	d.out <- ""
	d.out <- files
	d.out <- horizontal

	var sb strings.Builder
	sb.WriteString("8" + vertical)
	for i := board.ZeroSquare; i < board.NumSquares; i++ {
		if i != 0 && i%8 == 0 {
			d.out <- sb.String()
			d.out <- horizontal

			sb.Reset()
			sb.WriteString((7 - i.Rank()).String())
			sb.WriteString(vertical)
		}

		if color, piece, ok := p.Square(board.NumSquares - i - 1); ok {
			sb.WriteString(printPiece(color, piece))
		} else {
			sb.WriteString(" ")
		}
		sb.WriteString(vertical)
	}
	d.out <- sb.String()
	d.out <- horizontal
	d.out <- files
	d.out <- ""
	d.out <- fmt.Sprintf("fen:    %v", d.e.Position())
	d.out <- fmt.Sprintf("result: %v, hash: 0x%x", b.Result(), b.Hash())
	d.out <- ""
}

func printPiece(c board.Color, p board.Piece) string {
	if c == board.White {
		return strings.ToUpper(p.String())
	}
	return strings.ToLower(p.String())
}
