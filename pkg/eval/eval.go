// Package eval implements the static positional evaluator: material, phase-blended
// piece-square tables, pawn structure, bishop pair, mobility, king safety/activity and
// castling terms.
package eval

import (
	"math"

	"github.com/corvuschess/corvus/pkg/board"
)

// castledSquares is the mask of squares a color's king occupies after castling (or after
// shuffling one file further into the corner), used by the "has castled" bonus.
var castledSquares = [board.NumColors]board.Bitboard{
	board.White: board.BitMask(board.G1) | board.BitMask(board.H1) | board.BitMask(board.C1) | board.BitMask(board.B1),
	board.Black: board.BitMask(board.G8) | board.BitMask(board.H8) | board.BitMask(board.C8) | board.BitMask(board.B8),
}

// Evaluate returns the static evaluation of pos from turn's perspective (negamax
// convention), in pawns. Insufficient-material positions are exactly zero. turn is the
// side to move, tracked by the caller (board.Board) rather than Position itself.
func Evaluate(pos *board.Position, turn board.Color) Score {
	if pos.HasInsufficientMaterial() {
		return Zero
	}

	p := phase(pos)
	endGame := p < 0.3

	white := evaluateSide(pos, board.White, p, endGame)
	black := evaluateSide(pos, board.Black, p, endGame)

	return (white - black) * Score(turn.Sign())
}

func evaluateSide(pos *board.Position, c board.Color, p float64, endGame bool) Score {
	var score Score

	score += materialAndPST(pos, c, p)
	score += mobility(pos, c)
	score += pawnStructure(pos, c, endGame)
	score += bishopPair(pos, c)
	score += castlingTerms(pos, c)
	score += kingTerms(pos, c, endGame)

	return score
}

func materialAndPST(pos *board.Position, c board.Color, p float64) Score {
	var score Score
	for t := board.Pawn; t <= board.King; t++ {
		bb := pos.Pieces(c, t)
		n := bb.PopCount()
		if n == 0 {
			continue
		}
		score += NominalValue(t) * Score(n)

		for rem := bb; rem != 0; {
			sq := rem.LastPopSquare()
			rem ^= board.BitMask(sq)
			mg := pstMG[c][t][sq]
			eg := pstEG[c][t][sq]
			score += Score(p)*mg + Score(1-p)*eg
		}
	}
	return score
}

// mobility adds a 0.2*sqrt(popcount(attacks)) bonus per bishop/rook/queen.
func mobility(pos *board.Position, c board.Color) Score {
	var score Score
	rotated := pos.Rotated()
	for _, t := range [3]board.Piece{board.Bishop, board.Rook, board.Queen} {
		for bb := pos.Pieces(c, t); bb != 0; {
			sq := bb.LastPopSquare()
			bb ^= board.BitMask(sq)
			att := board.Attackboard(rotated, sq, t)
			score += Score(0.2 * math.Sqrt(float64(att.PopCount())))
		}
	}
	return score
}

func pawnStructure(pos *board.Position, c board.Color, endGame bool) Score {
	var score Score
	pawns := pos.Pieces(c, board.Pawn)
	enemyPawns := pos.Pieces(c.Opponent(), board.Pawn)

	var perFile [8]int
	for bb := pawns; bb != 0; {
		sq := bb.LastPopSquare()
		bb ^= board.BitMask(sq)
		perFile[sq.File()]++
	}

	for f := board.ZeroFile; f < board.NumFiles; f++ {
		if k := perFile[f]; k >= 2 {
			score -= Score(0.3 * float64(k-1))
		}
	}

	for bb := pawns; bb != 0; {
		sq := bb.LastPopSquare()
		bb ^= board.BitMask(sq)

		f := sq.File()
		isolated := true
		if f > board.ZeroFile && perFile[f-1] > 0 {
			isolated = false
		}
		if f < board.FileA && perFile[f+1] > 0 {
			isolated = false
		}
		if isolated {
			score -= 0.2
		}

		if enemyPawns&passedMask[c][sq] == 0 {
			advancement := float64(sq.Rank())
			if c == board.Black {
				advancement = float64(board.Rank8 - sq.Rank())
			}
			mult := 0.5
			if endGame {
				mult = 1.0
			}
			score += Score(mult * advancement / 6)
		}
	}

	return score
}

func bishopPair(pos *board.Position, c board.Color) Score {
	if pos.Pieces(c, board.Bishop).PopCount() >= 2 {
		return 0.3
	}
	return 0
}

func castlingTerms(pos *board.Position, c board.Color) Score {
	var kingSide, queenSide board.Castling
	if c == board.White {
		kingSide, queenSide = board.WhiteKingSideCastle, board.WhiteQueenSideCastle
	} else {
		kingSide, queenSide = board.BlackKingSideCastle, board.BlackQueenSideCastle
	}

	var score Score
	rights := pos.Castling()
	if rights.IsAllowed(kingSide) {
		score += 0.1
	}
	if rights.IsAllowed(queenSide) {
		score += 0.1
	}

	if !rights.IsAllowed(kingSide) && !rights.IsAllowed(queenSide) {
		if pos.Pieces(c, board.King)&castledSquares[c] != 0 {
			score += 0.4
		}
	}
	return score
}

func kingTerms(pos *board.Position, c board.Color, endGame bool) Score {
	kingSq := pos.Pieces(c, board.King).LastPopSquare()

	if !endGame {
		ring := board.KingAttackboard(kingSq)
		shield := (ring & pos.Pieces(c, board.Pawn)).PopCount()
		return Score(0.15 * float64(shield))
	}

	centerDist := chebyshev(kingSq, 3.5, 3.5)
	enemyKingSq := pos.Pieces(c.Opponent(), board.King).LastPopSquare()
	proximity := chebyshevSquares(kingSq, enemyKingSq)
	return Score(-0.1*centerDist - 0.05*proximity)
}

func chebyshev(sq board.Square, centerFile, centerRank float64) float64 {
	df := math.Abs(float64(sq.File()) - centerFile)
	dr := math.Abs(float64(sq.Rank()) - centerRank)
	return math.Max(df, dr)
}

func chebyshevSquares(a, b board.Square) float64 {
	df := math.Abs(float64(a.File()) - float64(b.File()))
	dr := math.Abs(float64(a.Rank()) - float64(b.Rank()))
	return math.Max(df, dr)
}
