package search

import (
	"github.com/corvuschess/corvus/pkg/board"
	"github.com/corvuschess/corvus/pkg/eval"
)

// deltaMargin is quiescence's "even winning a queen can't help" delta-pruning margin,
// in pawns.
const deltaMargin eval.Score = 9

// maxQuiescenceExtension bounds the capture-chain recursion: once extDepth drops to or
// below this, quiescence returns the stand-pat score rather than recursing further.
const maxQuiescenceExtension = -3

// Quiescence explores only captures and promotions from the board's current position,
// fail-hard alpha-beta, until the position is quiet or the extension budget (extDepth)
// is exhausted. On abort it returns 0 immediately without touching any table.
func Quiescence(ctx *Context, b *board.Board, alpha, beta eval.Score, phase float64, extDepth int) eval.Score {
	if ctx.Poll() {
		return eval.Zero
	}

	standPat := eval.Evaluate(b.Position(), b.Turn())
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}
	if extDepth <= maxQuiescenceExtension {
		return standPat
	}
	if standPat+deltaMargin < alpha {
		return alpha
	}

	moves := orderCaptures(captureAndPromotionMoves(b))
	for _, m := range moves {
		if !b.PushMove(m) {
			continue
		}
		score := Quiescence(ctx, b, beta.Negate(), alpha.Negate(), phase, extDepth-1).Negate()
		b.PopMove()

		if ctx.Aborted() {
			return eval.Zero
		}
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

// captureAndPromotionMoves returns the pseudo-legal captures and promotions available
// to the side to move; legality is filtered by Board.PushMove at push time.
func captureAndPromotionMoves(b *board.Board) []board.Move {
	all := b.Position().PseudoLegalMoves(b.Turn())
	ret := make([]board.Move, 0, len(all))
	for _, m := range all {
		if isCapture(m) || isPromotion(m) {
			ret = append(ret, m)
		}
	}
	return ret
}
