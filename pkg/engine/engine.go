// Package engine encapsulates game-playing logic: the board owned across moves, the
// transposition table and move-ordering heuristics that persist across searches, the
// opening book, and the synchronous search entry point the UCI/console shells call.
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/corvuschess/corvus/pkg/board"
	"github.com/corvuschess/corvus/pkg/board/fen"
	"github.com/corvuschess/corvus/pkg/search"
	"github.com/corvuschess/corvus/pkg/search/searchctl"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

// Options are engine creation/runtime options.
type Options struct {
	// Depth is the fixed-depth fallback used when a search request carries neither an
	// explicit depth nor a time budget. Zero means search.DefaultDepth.
	Depth uint
	// Hash is the transposition table size in MB. Zero uses search.DefaultTTEntries.
	Hash uint
	// UseBook enables the named-line opening book before every search. The search
	// driver's own move-one shortcut (a random first move or reply) applies either way.
	UseBook bool
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%vMB, book=%v}", o.Depth, o.Hash, o.UseBook)
}

// SearchOptions are the parameters of a single get-best-move call: exactly one of
// DepthLimit or TimeBudget should be set; both unset falls back to Options.Depth (or
// search.DefaultDepth if that is also zero).
type SearchOptions struct {
	DepthLimit lang.Optional[int]
	TimeBudget lang.Optional[time.Duration]
}

// Engine encapsulates game-playing logic, search and evaluation. The transposition
// table, killer/history heuristics and abort flag are singletons owned by this value
// (not module-level globals), with exactly one search active at a time.
type Engine struct {
	name, author string

	zt   *board.ZobristTable
	seed int64
	opts Options
	book Book
	rng  *rand.Rand

	mu     sync.Mutex
	b      *board.Board
	h      *search.Heuristics
	active *search.Context // set only while a search is running; nil otherwise
}

// Option is an engine creation option.
type Option func(*Engine)

// WithOptions sets default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// WithBook configures the engine's opening book. Defaults to NoBook.
func WithBook(book Book) Option {
	return func(e *Engine) { e.book = book }
}

// WithZobrist configures the engine to use the given random seed for Zobrist hashing
// and the opening book's random choice, instead of the default seed of zero.
func WithZobrist(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// New creates an engine at the standard starting position.
func New(ctx context.Context, name, author string, opts ...Option) *Engine {
	e := &Engine{
		name:   name,
		author: author,
		book:   NoBook,
	}
	for _, fn := range opts {
		fn(e)
	}
	e.zt = board.NewZobristTable(e.seed)
	e.rng = rand.New(rand.NewSource(e.seed))

	if err := e.Reset(ctx, fen.Initial); err != nil {
		logw.Exitf(ctx, "Failed to initialize engine: %v", err)
	}

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Depth = depth
}

func (e *Engine) SetHash(mb uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Hash = mb
	e.h.TT.Reset()
}

// Board returns a forked copy of the current board.
func (e *Engine) Board() *board.Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.b.Fork()
}

// Position returns the current position in FEN format.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fen.Encode(e.b.Position(), e.b.Turn(), e.b.NoProgress(), e.b.FullMoves())
}

// Reset resets the engine to the given FEN position. The transposition table,
// killers and history are fresh; the TT otherwise persists across a match, but a
// position reset means a new game/analysis context entirely.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltActiveLocked()

	pos, turn, noprogress, fullmoves, err := fen.Decode(position)
	if err != nil {
		return fmt.Errorf("invalid position %q: %w", position, err)
	}
	e.b = board.NewBoard(e.zt, pos, turn, noprogress, fullmoves)

	n := search.DefaultTTEntries
	if e.opts.Hash > 0 {
		n = int(e.opts.Hash) << 20 / 32 // approx entries for the requested MB, entry ~32B
	}
	e.h = &search.Heuristics{
		TT:      search.NewTranspositionTable(n),
		Killers: search.NewKillerTable(),
		History: search.NewHistoryTable(),
	}

	logw.Infof(ctx, "Reset %v, depth=%v, hash=%vMB", position, e.opts.Depth, e.opts.Hash)
	return nil
}

// Move applies a move, usually the opponent's, in pure algebraic notation.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	candidate, err := board.ParseMove(move)
	if err != nil {
		return fmt.Errorf("invalid move %q: %w", move, err)
	}

	e.haltActiveLocked()

	for _, m := range e.b.Position().PseudoLegalMoves(e.b.Turn()) {
		if !candidate.Equals(m) {
			continue
		}
		if !e.b.PushMove(m) {
			return fmt.Errorf("illegal move: %v", m)
		}
		logw.Infof(ctx, "Move %v: %v", m, e.b)
		return nil
	}
	return fmt.Errorf("invalid move: %v", candidate)
}

// TakeBack undoes the latest move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltActiveLocked()

	m, ok := e.b.PopMove()
	if !ok {
		return fmt.Errorf("no move to take back")
	}
	logw.Infof(ctx, "Takeback %v", m)
	return nil
}

// AllocateTime converts a game clock into a per-move wall-clock budget.
func (e *Engine) AllocateTime(remaining, increment time.Duration, fullmoveNumber int) time.Duration {
	return searchctl.Allocate(remaining, increment, fullmoveNumber)
}

// GetBestMove runs the iterative-deepening driver on the current position to
// completion (or until aborted) and returns the selected move. It blocks the calling
// goroutine for the duration of the search; Halt can be called concurrently by another
// goroutine (a UCI "stop" or the hard-timeout watchdog) to abort it early.
//
// Exactly one of opt.DepthLimit / opt.TimeBudget should be set; if neither is, the
// engine's configured Options.Depth is used (search.DefaultDepth if that is zero too).
func (e *Engine) GetBestMove(ctx context.Context, opt SearchOptions) (search.PV, error) {
	e.mu.Lock()
	if e.active != nil {
		e.mu.Unlock()
		return search.PV{}, fmt.Errorf("search already active")
	}

	depthLimit := 0
	if d, ok := opt.DepthLimit.V(); ok {
		depthLimit = d
	} else if _, timed := opt.TimeBudget.V(); !timed && e.opts.Depth > 0 {
		depthLimit = int(e.opts.Depth)
	}

	var budget time.Duration
	if d, ok := opt.TimeBudget.V(); ok {
		budget = d
	}

	b := e.b.Fork()
	h := e.h
	rng := e.rng
	useBook := e.opts.UseBook
	book := e.book
	position := fen.Encode(b.Position(), b.Turn(), b.NoProgress(), b.FullMoves())

	sctx := search.NewContext(budget)
	e.active = sctx
	e.mu.Unlock()

	logw.Infof(ctx, "Search %v, depth=%v, budget=%v", b, depthLimit, budget)

	if useBook {
		if moves := book.Find(position); len(moves) > 0 {
			winner := moves[rng.Intn(len(moves))]
			e.mu.Lock()
			e.active = nil
			e.mu.Unlock()
			return search.PV{Move: winner, HasMove: true, FromBook: true}, nil
		}
	}

	pv := search.GetBestMove(sctx, h, b, depthLimit, rng)

	e.mu.Lock()
	e.active = nil
	e.mu.Unlock()

	logw.Infof(ctx, "Search complete: %+v", pv)
	return pv, nil
}

// Halt aborts the active search, if any. Idempotent; safe to call from another
// goroutine while GetBestMove is running.
func (e *Engine) Halt(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.haltActiveLocked()
}

func (e *Engine) haltActiveLocked() {
	if e.active != nil {
		e.active.Abort()
	}
}
