package search

import (
	"math/rand"
	"time"

	"github.com/corvuschess/corvus/pkg/board"
	"github.com/corvuschess/corvus/pkg/eval"
)

// DefaultDepth is the fixed-depth fallback when neither a depth nor a time budget is
// given to the iterative-deepening driver.
const DefaultDepth = 7

// MaxDepth is the absolute iterative-deepening ceiling, independent of any requested
// depth or time budget.
const MaxDepth = 30

// aspirationHalfWidth is the half-width of the aspiration window placed around the
// previous iteration's score, for depths beyond the first two.
const aspirationHalfWidth eval.Score = 0.5

// timeAdaptiveStopFraction: in time mode, a new depth is not started once this
// fraction of the budget has elapsed, unless the completed depth is still below
// minDepth(budget).
const timeAdaptiveStopFraction = 0.4

// reSearchTimeFraction: if an aspiration re-search would be needed but this fraction of
// the budget has already elapsed, the narrow-window result is accepted instead.
const reSearchTimeFraction = 0.5

// PV is the result of a root search: the best move found, its score, and bookkeeping
// for the caller (UCI `info` lines, logging).
type PV struct {
	Move     board.Move
	HasMove  bool
	Score    eval.Score
	Depth    int
	Nodes    uint64
	Elapsed  time.Duration
	FromBook bool
}

// bookE2E4 and bookD2D4 are the two White first moves the opening book chooses between.
var bookE2E4 = board.Move{Type: board.Jump, Piece: board.Pawn, From: board.E2, To: board.E4}
var bookD2D4 = board.Move{Type: board.Jump, Piece: board.Pawn, From: board.D2, To: board.D4}
var bookE7E5 = board.Move{Type: board.Jump, Piece: board.Pawn, From: board.E7, To: board.E5}
var bookD7D5 = board.Move{Type: board.Jump, Piece: board.Pawn, From: board.D7, To: board.D5}

// openingBookMove is the tiny built-in opening shortcut: a random choice of
// e2e4/d2d4 as White on move 1, mirrored as e7e5/d7d5 if Black's move 1 reply faces
// one of those two. Every other position falls through to search. rng may be nil, in
// which case the shortcut never fires (used by callers that want deterministic
// search).
func openingBookMove(b *board.Board, rng *rand.Rand) (board.Move, bool) {
	if rng == nil || b.FullMoves() != 1 {
		return board.Move{}, false
	}

	switch b.Turn() {
	case board.White:
		if _, ok := b.LastMove(); ok {
			return board.Move{}, false
		}
		if rng.Intn(2) == 0 {
			return bookE2E4, true
		}
		return bookD2D4, true

	case board.Black:
		last, ok := b.LastMove()
		if !ok {
			return board.Move{}, false
		}
		switch {
		case last.Equals(bookE2E4):
			return bookE7E5, true
		case last.Equals(bookD2D4):
			return bookD7D5, true
		default:
			return board.Move{}, false
		}
	}
	return board.Move{}, false
}

// minDepthForBudget is the time-adaptive early-stop floor: the driver never breaks
// before reaching this depth, however little time is left.
func minDepthForBudget(budget time.Duration) int {
	switch {
	case budget < 2*time.Second:
		return 3
	case budget < 5*time.Second:
		return 4
	default:
		return 5
	}
}

// GetBestMove runs the full iterative-deepening driver: the opening-book shortcut,
// then depth-by-depth negamax with aspiration windows, the endgame depth extension,
// root PVS ordering, aspiration-failure handling and the mate early exit.
//
// Exactly one of maxDepth (> 0) or budget (> 0) should be set by the caller; if both
// are zero, DefaultDepth is used with no time limit, and with only a budget the
// deepening runs up to MaxDepth until the time manager stops it. rng drives the opening book's
// random choice between equally good first moves; pass nil to disable the book (e.g.
// when resuming an already-started game from a non-opening position, which the book
// logic itself also detects and no-ops on).
func GetBestMove(ctx *Context, h *Heuristics, b *board.Board, maxDepth int, rng *rand.Rand) PV {
	h.Killers.Clear()
	h.History.Clear()

	if m, ok := openingBookMove(b, rng); ok {
		return PV{Move: m, HasMove: true, Score: eval.Zero, Depth: 0, FromBook: true}
	}

	depthLimit := maxDepth
	if depthLimit <= 0 {
		depthLimit = DefaultDepth
		if ctx.Budget > 0 {
			depthLimit = MaxDepth
		}
	}
	if depthLimit > MaxDepth {
		depthLimit = MaxDepth
	}

	var best PV
	var prevScore eval.Score
	haveScore := false

	minDepth := 0
	if ctx.Budget > 0 {
		minDepth = minDepthForBudget(ctx.Budget)
	}

	for d := 1; d <= depthLimit; d++ {
		if ctx.Budget > 0 && d > minDepth {
			if ctx.Elapsed() > time.Duration(float64(ctx.Budget)*timeAdaptiveStopFraction) {
				break
			}
		}

		ctx.resetAborted()

		alpha, beta := eval.NegInf, eval.Inf
		if d > 2 && haveScore {
			alpha = prevScore - aspirationHalfWidth
			beta = prevScore + aspirationHalfWidth
		}

		pv, ok := searchRoot(ctx, h, b, d, alpha, beta)

		if ok && d > 2 && haveScore && (pv.Score <= prevScore-aspirationHalfWidth || pv.Score >= prevScore+aspirationHalfWidth) {
			if ctx.Budget > 0 && ctx.Elapsed() > time.Duration(float64(ctx.Budget)*reSearchTimeFraction) {
				// Accept the narrow-window result rather than risk a time loss.
			} else {
				pv, ok = searchRoot(ctx, h, b, d, eval.NegInf, eval.Inf)
			}
		}

		if !ok {
			break // this depth's partial result is discarded; best already holds the last committed depth
		}

		best = pv
		best.Depth = d
		prevScore = pv.Score
		haveScore = true

		if best.Score.IsMate() {
			break
		}
	}

	best.Nodes = ctx.Nodes
	best.Elapsed = ctx.Elapsed()
	return best
}

// searchRoot runs one depth iteration at the root: PVS over the ordered legal moves,
// with the endgame depth extension folded into the depth passed to Negamax. Returns
// ok=false if the iteration was aborted partway, in which case its partial result must
// be discarded. An immediate checkmate behind any root move short-circuits the
// iteration, returning that move without searching the rest.
func searchRoot(ctx *Context, h *Heuristics, b *board.Board, d int, alpha, beta eval.Score) (PV, bool) {
	turn := b.Turn()
	phase := eval.Phase(b.Position())

	depth := d
	if phase < nullMovePhaseThreshold {
		depth = d + 1
	}

	var ttMove board.Move
	hasTTMove := false
	if e, ok := h.TT.Probe(b.Hash()); ok {
		ttMove = e.Best
		hasTTMove = true
	}

	moves := Order(b.Position().PseudoLegalMoves(turn), turn, ttMove, hasTTMove, nil, h.History)

	bestScore := eval.NegInf
	var bestMove board.Move
	haveMove := false
	legalSeen := 0

	for _, m := range moves {
		if !b.PushMove(m) {
			continue
		}

		if isCheckmate(b) {
			b.PopMove()
			return PV{Move: m, HasMove: true, Score: eval.Mate}, true
		}

		var score eval.Score
		if legalSeen == 0 {
			score = Negamax(ctx, h, b, depth-1, beta.Negate(), alpha.Negate(), phase, true, 1).Negate()
		} else {
			score = Negamax(ctx, h, b, depth-1, alpha.Negate()-nullWindow, alpha.Negate(), phase, true, 1).Negate()
			if !ctx.Aborted() && score > alpha {
				score = Negamax(ctx, h, b, depth-1, beta.Negate(), alpha.Negate(), phase, true, 1).Negate()
			}
		}
		b.PopMove()
		legalSeen++

		if ctx.Aborted() {
			break
		}

		if !haveMove || score > bestScore {
			bestScore = score
			bestMove = m
			haveMove = true
		}
		if score > alpha {
			alpha = score
		}
		if bestScore >= eval.Mate {
			// A forced mate was found under this move: no other root move can do better.
			break
		}
	}

	if ctx.Aborted() {
		return PV{}, false
	}
	if legalSeen == 0 {
		return PV{}, false
	}

	// No TT store at the root: with aspiration windows, bestScore may be a fail-low or
	// fail-high bound rather than an exact score, and the root result is committed
	// through the driver, not re-read through the table.
	return PV{Move: bestMove, HasMove: true, Score: bestScore}, true
}

// isCheckmate reports whether the side to move on b's current (already-pushed) position
// has no legal moves while in check -- i.e. the move just pushed by the caller is an
// immediate mate, which the root search must return without searching any further.
func isCheckmate(b *board.Board) bool {
	turn := b.Turn()
	if !b.Position().IsChecked(turn) {
		return false
	}
	for _, m := range b.Position().PseudoLegalMoves(turn) {
		if b.PushMove(m) {
			b.PopMove()
			return false
		}
	}
	return true
}

// resetAborted clears the abort flag between depth iterations; a fresh Context is used
// per root call, but within GetBestMove's own loop each depth iteration must start
// unaborted unless the overall time budget has actually been exceeded.
func (c *Context) resetAborted() {
	if c.Budget <= 0 {
		return
	}
	if time.Since(c.Start) > time.Duration(float64(c.Budget)*AbortFraction) {
		return // budget genuinely exhausted; leave aborted set so this depth bails immediately
	}
	c.aborted.Store(false)
}
