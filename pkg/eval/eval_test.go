package eval_test

import (
	"testing"

	"github.com/corvuschess/corvus/pkg/board/fen"
	"github.com/corvuschess/corvus/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluate(t *testing.T, position string) eval.Score {
	t.Helper()
	pos, turn, _, _, err := fen.Decode(position)
	require.NoError(t, err)
	return eval.Evaluate(pos, turn)
}

func TestEvaluate_StartposIsZero(t *testing.T) {
	assert.Equal(t, eval.Zero, evaluate(t, fen.Initial))
}

func TestEvaluate_InsufficientMaterialIsZero(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"K vs K", "4k3/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"K+N vs K", "4k3/8/8/8/8/8/8/4KN2 w - - 0 1"},
		{"K+B vs K", "4k3/8/8/8/8/8/8/2B1K3 w - - 0 1"},
		{"K vs K+N", "1n2k3/8/8/8/8/8/8/4K3 w - - 0 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, eval.Zero, evaluate(t, tt.fen))
		})
	}
}

func TestEvaluate_RookEndingIsNotZero(t *testing.T) {
	score := evaluate(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	assert.Greater(t, float64(score), 1.0)
}

func TestEvaluate_QueenRaisesScoreByAtLeastEight(t *testing.T) {
	base := evaluate(t, "4k3/pppp4/8/8/8/8/PPPP4/4K3 w - - 0 1")
	withQueen := evaluate(t, "4k3/pppp4/8/8/8/8/PPPP4/3QK3 w - - 0 1")

	assert.GreaterOrEqual(t, float64(withQueen-base), 8.0)
}

func TestEvaluate_BishopPairBonus(t *testing.T) {
	pair := evaluate(t, "4k3/8/8/8/8/8/8/2B1KB2 w - - 0 1")
	single := evaluate(t, "4k3/8/8/8/8/8/8/2B1KN2 w - - 0 1")

	assert.GreaterOrEqual(t, float64(pair-single), 0.3)
}

func TestEvaluate_PassedPawnBeatsBlockedPawn(t *testing.T) {
	passed := evaluate(t, "4k3/8/8/8/4P3/8/8/4K3 w - - 0 1")
	blocked := evaluate(t, "4k3/4p3/8/8/4P3/8/8/4K3 w - - 0 1")

	assert.Greater(t, float64(passed), float64(blocked))
}

func TestEvaluate_DoubledPawnsPenalized(t *testing.T) {
	doubled := evaluate(t, "4k3/8/8/8/4P3/4P3/8/4K3 w - - 0 1")
	spread := evaluate(t, "4k3/8/8/8/4P3/3P4/8/4K3 w - - 0 1")

	assert.Less(t, float64(doubled), float64(spread))
}

func TestEvaluate_CastlingRightsRewarded(t *testing.T) {
	withRights := evaluate(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	stripped := evaluate(t, "r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1")

	assert.Greater(t, float64(withRights), float64(stripped))
}

func TestEvaluate_CastledKingRewarded(t *testing.T) {
	castled := evaluate(t, "r3k2r/8/8/8/8/8/8/R4RK1 w - - 0 1")
	uncastled := evaluate(t, "r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1")

	assert.Greater(t, float64(castled), float64(uncastled))
}

func TestEvaluate_CastledCornerKingRewarded(t *testing.T) {
	// The castled bonus also applies when the king has shuffled one file further into
	// the corner (H1) or sits on B1 after castling queenside, with all rights gone.
	uncastled := evaluate(t, "r3k2r/8/8/8/8/8/8/R3KR2 w - - 0 1")
	corner := evaluate(t, "r3k2r/8/8/8/8/8/8/R4R1K w - - 0 1")
	queenside := evaluate(t, "r3k2r/8/8/8/8/8/8/RK3R2 w - - 0 1")

	assert.Greater(t, float64(corner), float64(uncastled))
	assert.Greater(t, float64(queenside), float64(uncastled))
}

func TestEvaluate_EndgameKingCentralization(t *testing.T) {
	central := evaluate(t, "4k3/8/8/8/4K3/8/7P/8 w - - 0 1")
	corner := evaluate(t, "4k3/8/8/8/8/8/7P/7K w - - 0 1")

	assert.Greater(t, float64(central), float64(corner))
}

func TestEvaluate_NegamaxSignConvention(t *testing.T) {
	// White up a rook: positive for White to move, negative for Black to move.
	white := evaluate(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	black := evaluate(t, "4k3/8/8/8/8/8/8/R3K3 b - - 0 1")

	assert.Greater(t, float64(white), 0.0)
	assert.Less(t, float64(black), 0.0)
}

func TestPhase_Bounds(t *testing.T) {
	pos, _, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	assert.Equal(t, 1.0, eval.Phase(pos))

	bare, _, _, _, err := fen.Decode("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, eval.Phase(bare))
}

func TestEvaluate_MirroredPositionIsSymmetric(t *testing.T) {
	// The same pawn structure mirrored top-to-bottom with the turn flipped must score
	// identically for the side to move.
	white := evaluate(t, "4k3/8/8/8/4P3/8/8/4K3 w - - 0 1")
	black := evaluate(t, "4k3/8/8/4p3/8/8/8/4K3 b - - 0 1")

	assert.InDelta(t, float64(white), float64(black), 1e-9)
}

func TestEvaluate_FiniteForComplexMiddlegame(t *testing.T) {
	score := evaluate(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	assert.False(t, score.IsMate())
}
