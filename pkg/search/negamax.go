package search

import (
	"github.com/corvuschess/corvus/pkg/board"
	"github.com/corvuschess/corvus/pkg/eval"
)

// MaxPly is the absolute recursion-depth ceiling for the main search; quiescence
// extends up to maxQuiescenceExtension plies further, and check extension adds at most
// one ply per node, gated below this so it can never itself push ply past the ceiling.
const MaxPly = 40

// nullMoveMinDepth is the least remaining depth at which null-move pruning is attempted.
const nullMoveMinDepth = 3

// nullMoveReduction is the depth reduction applied to the null-move verification search.
const nullMoveReduction = 3

// nullMovePhaseThreshold disables null-move pruning once the position is this far into
// the endgame, to avoid zugzwang blindness.
const nullMovePhaseThreshold = 0.3

// futilityMinAlpha bounds futility pruning away from mate-score windows, where a pawns-
// denominated margin is meaningless.
const futilityMinAlpha eval.Score = 9000

// futilityMargin[d] is the margin added to the static eval at remaining depth d (1 or 2)
// for the futility-pruning flag; index 0 is never consulted.
var futilityMargin = [3]eval.Score{0, 1.5, 3.5}

// lmrMinDepth and lmrMinMoveIndex gate late-move reductions.
const (
	lmrMinDepth     = 3
	lmrMinMoveIndex = 3
)

// nullWindow is the null-window half-width used by both null-move pruning and PVS's
// null-window re-search, in the same pawn-valued score unit as everything else.
const nullWindow eval.Score = 1

// Heuristics bundles the cross-call search state owned by the engine: the transposition
// table persists across root calls, killers and history are cleared per root call.
type Heuristics struct {
	TT      *TranspositionTable
	Killers *KillerTable
	History *HistoryTable
}

// Negamax implements the main search: alpha-beta with TT probe/store, null-move
// pruning, futility pruning, late-move reductions, principal-variation search and check
// extensions. Returns the score of b's current position from the side-to-move's
// perspective. phase is the game phase at the root, threaded down unchanged: the
// evaluator recomputes it per-position, while search-level gating uses the root's
// phase, computed once per root call.
func Negamax(ctx *Context, h *Heuristics, b *board.Board, depth int, alpha, beta eval.Score, phase float64, nullOK bool, ply int) eval.Score {
	// (1) Abort / node counting.
	if ctx.Poll() {
		return eval.Zero
	}

	// (2) Repetition.
	if b.IsRepetition(2) {
		return eval.Zero
	}

	// 50-move rule: a position at or past the no-progress limit is a draw, same as a
	// repetition.
	if b.NoProgress() >= 100 {
		return eval.Zero
	}

	turn := b.Turn()
	inCheck := b.Position().IsChecked(turn)

	// (3) Check extension: must precede the leaf check.
	if inCheck && ply < MaxPly-5 {
		depth++
	}

	// (4) Leaf.
	if depth <= 0 || ply >= MaxPly {
		return Quiescence(ctx, b, alpha, beta, phase, 0)
	}

	alphaOrig := alpha

	// (5) TT probe.
	var ttMove board.Move
	hasTTMove := false
	if e, ok := h.TT.Probe(b.Hash()); ok {
		ttMove = e.Best
		hasTTMove = true
		if e.Depth >= depth {
			switch e.Bound {
			case BoundExact:
				return e.Score
			case BoundLower:
				alpha = eval.Max(alpha, e.Score)
			case BoundUpper:
				beta = eval.Min(beta, e.Score)
			}
			if alpha >= beta {
				return e.Score
			}
		}
	}

	// (6) Null-move pruning.
	if nullOK && !inCheck && phase >= nullMovePhaseThreshold && depth >= nullMoveMinDepth {
		b.PushNullMove()
		score := Negamax(ctx, h, b, depth-nullMoveReduction, beta.Negate(), beta.Negate()+nullWindow, phase, false, ply+1).Negate()
		b.PopNullMove()

		if !ctx.Aborted() && score >= beta {
			return beta
		}
	}

	// (7) Futility flag.
	futile := false
	if depth <= 2 && !inCheck && alpha > -futilityMinAlpha && alpha < futilityMinAlpha {
		if eval.Evaluate(b.Position(), turn)+futilityMargin[depth] <= alpha {
			futile = true
		}
	}

	// (8) Move enumeration.
	moves := Order(b.Position().PseudoLegalMoves(turn), turn, ttMove, hasTTMove, h.Killers.Moves(depth), h.History)

	bestScore := eval.NegInf
	var bestMove board.Move
	legalSeen := 0

	// (9) Iterate moves.
	for _, m := range moves {
		if futile && legalSeen > 0 && !isCapture(m) && !isPromotion(m) {
			continue
		}
		if !b.PushMove(m) {
			continue
		}

		r := 0
		quiet := !isCapture(m) && !isPromotion(m)
		if legalSeen >= lmrMinMoveIndex && depth >= lmrMinDepth && !inCheck && !isCapture(m) {
			gives := b.Position().IsChecked(b.Turn())
			if !gives {
				r = LMRReduction(depth, clamp63(legalSeen))
				if max := depth - 2; r > max {
					r = max
				}
				if r < 0 {
					r = 0
				}
			}
		}

		var score eval.Score
		if legalSeen == 0 {
			score = Negamax(ctx, h, b, depth-1, beta.Negate(), alpha.Negate(), phase, true, ply+1).Negate()
		} else {
			score = Negamax(ctx, h, b, depth-1-r, alpha.Negate()-nullWindow, alpha.Negate(), phase, true, ply+1).Negate()
			if !ctx.Aborted() && score > alpha && (r > 0 || score < beta) {
				score = Negamax(ctx, h, b, depth-1, beta.Negate(), alpha.Negate(), phase, true, ply+1).Negate()
			}
		}
		b.PopMove()
		legalSeen++

		if ctx.Aborted() {
			break
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			if quiet {
				h.Killers.Add(depth, m)
				h.History.Add(turn, m.From, m.To, depth)
			}
			break
		}
	}

	if legalSeen == 0 {
		if inCheck {
			return -eval.Mate
		}
		return eval.Zero
	}

	// (10) TT store.
	if !ctx.Aborted() && bestScore > eval.NegInf {
		bound := BoundExact
		switch {
		case bestScore <= alphaOrig:
			bound = BoundUpper
		case bestScore >= beta:
			bound = BoundLower
		}
		h.TT.Store(b.Hash(), Entry{Depth: depth, Score: bestScore, Bound: bound, Best: bestMove})
	}

	// (11)
	return bestScore
}
