package search

import (
	"sort"

	"github.com/corvuschess/corvus/pkg/board"
	"github.com/corvuschess/corvus/pkg/eval"
)

// tier is the coarse move-ordering band: higher sorts first. Within a tier,
// moves are ordered by a tier-specific key, stably preserving input order on ties.
type tier int

const (
	tierQuiet tier = iota
	tierKiller1
	tierKiller0
	tierCapture
	tierTTMove
)

// Order sorts moves in place: the TT move first, then captures by MVV/LVA,
// then killers for this remaining depth (most-recent first), then quiet moves by
// history descending. Promotions that are also captures are ordered as captures;
// other promotions fall through to the quiet tier. Returns the same (reordered) slice.
func Order(moves []board.Move, turn board.Color, ttMove board.Move, hasTT bool, killers []board.Move, hist *HistoryTable) []board.Move {
	tiers := make([]tier, len(moves))
	keys := make([]float64, len(moves))

	for i, m := range moves {
		switch {
		case hasTT && m.Equals(ttMove):
			tiers[i] = tierTTMove
		case isCapture(m):
			tiers[i] = tierCapture
			keys[i] = mvvlva(m)
		case len(killers) > 0 && m.Equals(killers[0]):
			tiers[i] = tierKiller0
		case len(killers) > 1 && m.Equals(killers[1]):
			tiers[i] = tierKiller1
		default:
			tiers[i] = tierQuiet
			if hist != nil {
				keys[i] = float64(hist.Get(turn, m.From, m.To))
			}
		}
	}

	sort.SliceStable(moves, func(a, b int) bool {
		if tiers[a] != tiers[b] {
			return tiers[a] > tiers[b]
		}
		return keys[a] > keys[b]
	})
	return moves
}

// isCapture reports whether m captures a piece, including en passant.
func isCapture(m board.Move) bool {
	return m.Type == board.Capture || m.Type == board.EnPassant || m.Type == board.CapturePromotion
}

// isPromotion reports whether m promotes a pawn, capture or not.
func isPromotion(m board.Move) bool {
	return m.Type == board.Promotion || m.Type == board.CapturePromotion
}

// mvvlva is the MVV/LVA capture-ordering key: value(victim) - value(attacker)/10. En
// passant scores a flat 1.0 (pawn takes pawn).
func mvvlva(m board.Move) float64 {
	if m.Type == board.EnPassant {
		return 1.0
	}
	return float64(eval.NominalValue(m.Capture)) - float64(eval.NominalValue(m.Piece))/10
}

// orderCaptures sorts quiescence's capture/promotion-only move list by MVV/LVA, with
// non-capturing promotions (scored zero) falling to the back. Quiescence has no
// killer/history context, so it does not go through Order.
func orderCaptures(moves []board.Move) []board.Move {
	keys := make([]float64, len(moves))
	for i, m := range moves {
		if isCapture(m) {
			keys[i] = mvvlva(m)
		}
	}
	sort.SliceStable(moves, func(a, b int) bool { return keys[a] > keys[b] })
	return moves
}
