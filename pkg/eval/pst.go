package eval

import "github.com/corvuschess/corvus/pkg/board"

// pst holds a piece-square table, one value per square, authored from White's perspective.
type pst [64]Score

// buildPST constructs a White-perspective pst from a table written rank8-down-to-rank1,
// file-a-to-file-h per row (the conventional way piece-square tables are published),
// converting centipawns to pawns.
func buildPST(rowsRank8ToRank1 [8][8]float64) pst {
	var out pst
	for rowIdx := 0; rowIdx < 8; rowIdx++ {
		rank := board.Rank(7 - rowIdx)
		for colIdx := 0; colIdx < 8; colIdx++ {
			file := board.File(7 - colIdx) // colIdx 0 == file A == board.FileA (7)
			sq := board.NewSquare(file, rank)
			out[sq] = Score(rowsRank8ToRank1[rowIdx][colIdx] / 100)
		}
	}
	return out
}

// mirror returns the Black-perspective table for a White-authored one: square XOR 56
// flips the rank while leaving the file untouched, regardless of file numbering direction.
func (t pst) mirror() pst {
	var out pst
	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		out[sq] = t[sq^56]
	}
	return out
}

// pstMG/pstEG[color][piece][square], populated for Pawn..King (index NoPiece unused).
var (
	pstMG [board.NumColors][board.NumPieces]pst
	pstEG [board.NumColors][board.NumPieces]pst
)

func init() {
	white := map[board.Piece]pst{
		board.Pawn:   buildPST(pawnMG),
		board.Knight: buildPST(knightMG),
		board.Bishop: buildPST(bishopMG),
		board.Rook:   buildPST(rookMG),
		board.Queen:  buildPST(queenMG),
		board.King:   buildPST(kingMG),
	}
	whiteEG := map[board.Piece]pst{
		board.Pawn:   buildPST(pawnEG),
		board.Knight: buildPST(knightMG), // knights don't vary much MG/EG; reuse
		board.Bishop: buildPST(bishopMG),
		board.Rook:   buildPST(rookMG),
		board.Queen:  buildPST(queenMG),
		board.King:   buildPST(kingEG),
	}

	for p, t := range white {
		pstMG[board.White][p] = t
		pstMG[board.Black][p] = t.mirror()
	}
	for p, t := range whiteEG {
		pstEG[board.White][p] = t
		pstEG[board.Black][p] = t.mirror()
	}
}

// Values below are conventional simplified piece-square tables (centipawns), rank8 row
// first, file a..h per row.

var pawnMG = [8][8]float64{
	{0, 0, 0, 0, 0, 0, 0, 0},
	{50, 50, 50, 50, 50, 50, 50, 50},
	{10, 10, 20, 30, 30, 20, 10, 10},
	{5, 5, 10, 25, 25, 10, 5, 5},
	{0, 0, 0, 20, 20, 0, 0, 0},
	{5, -5, -10, 0, 0, -10, -5, 5},
	{5, 10, 10, -20, -20, 10, 10, 5},
	{0, 0, 0, 0, 0, 0, 0, 0},
}

var pawnEG = [8][8]float64{
	{0, 0, 0, 0, 0, 0, 0, 0},
	{80, 80, 80, 80, 80, 80, 80, 80},
	{50, 50, 50, 50, 50, 50, 50, 50},
	{30, 30, 30, 30, 30, 30, 30, 30},
	{20, 20, 20, 20, 20, 20, 20, 20},
	{10, 10, 10, 10, 10, 10, 10, 10},
	{10, 10, 10, 10, 10, 10, 10, 10},
	{0, 0, 0, 0, 0, 0, 0, 0},
}

var knightMG = [8][8]float64{
	{-50, -40, -30, -30, -30, -30, -40, -50},
	{-40, -20, 0, 0, 0, 0, -20, -40},
	{-30, 0, 10, 15, 15, 10, 0, -30},
	{-30, 5, 15, 20, 20, 15, 5, -30},
	{-30, 0, 15, 20, 20, 15, 0, -30},
	{-30, 5, 10, 15, 15, 10, 5, -30},
	{-40, -20, 0, 5, 5, 0, -20, -40},
	{-50, -40, -30, -30, -30, -30, -40, -50},
}

var bishopMG = [8][8]float64{
	{-20, -10, -10, -10, -10, -10, -10, -20},
	{-10, 0, 0, 0, 0, 0, 0, -10},
	{-10, 0, 5, 10, 10, 5, 0, -10},
	{-10, 5, 5, 10, 10, 5, 5, -10},
	{-10, 0, 10, 10, 10, 10, 0, -10},
	{-10, 10, 10, 10, 10, 10, 10, -10},
	{-10, 5, 0, 0, 0, 0, 5, -10},
	{-20, -10, -10, -10, -10, -10, -10, -20},
}

var rookMG = [8][8]float64{
	{0, 0, 0, 0, 0, 0, 0, 0},
	{5, 10, 10, 10, 10, 10, 10, 5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{0, 0, 0, 5, 5, 0, 0, 0},
}

var queenMG = [8][8]float64{
	{-20, -10, -10, -5, -5, -10, -10, -20},
	{-10, 0, 0, 0, 0, 0, 0, -10},
	{-10, 0, 5, 5, 5, 5, 0, -10},
	{-5, 0, 5, 5, 5, 5, 0, -5},
	{0, 0, 5, 5, 5, 5, 0, -5},
	{-10, 5, 5, 5, 5, 5, 0, -10},
	{-10, 0, 5, 0, 0, 0, 0, -10},
	{-20, -10, -10, -5, -5, -10, -10, -20},
}

var kingMG = [8][8]float64{
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-20, -30, -30, -40, -40, -30, -30, -20},
	{-10, -20, -20, -20, -20, -20, -20, -10},
	{20, 20, 0, 0, 0, 0, 20, 20},
	{20, 30, 10, 0, 0, 10, 30, 20},
}

var kingEG = [8][8]float64{
	{-50, -40, -30, -20, -20, -30, -40, -50},
	{-30, -20, -10, 0, 0, -10, -20, -30},
	{-30, -10, 20, 30, 30, 20, -10, -30},
	{-30, -10, 30, 40, 40, 30, -10, -30},
	{-30, -10, 30, 40, 40, 30, -10, -30},
	{-30, -10, 20, 30, 30, 20, -10, -30},
	{-30, -30, 0, 0, 0, 0, -30, -30},
	{-50, -30, -30, -30, -30, -30, -30, -50},
}
