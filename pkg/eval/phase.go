package eval

import "github.com/corvuschess/corvus/pkg/board"

// phaseWeight is each piece type's contribution to "non-pawn material" phase; total 24.
var phaseWeight = [board.NumPieces]int{
	board.NoPiece: 0,
	board.Pawn:    0,
	board.Knight:  1,
	board.Bishop:  1,
	board.Rook:    2,
	board.Queen:   4,
	board.King:    0,
}

const totalPhaseWeight = 24

// Phase computes the game phase in [0, 1]: 1 is opening, 0 is endgame. Exported for the
// search package, which uses it to gate null-move pruning and the endgame depth extension.
func Phase(pos *board.Position) float64 {
	return phase(pos)
}

// phase computes the game phase in [0, 1]: 1 is opening, 0 is endgame.
func phase(pos *board.Position) float64 {
	sum := 0
	for c := board.ZeroColor; c < board.NumColors; c++ {
		for p := board.ZeroPiece; p < board.NumPieces; p++ {
			sum += phaseWeight[p] * pos.Pieces(c, p).PopCount()
		}
	}
	if sum > totalPhaseWeight {
		sum = totalPhaseWeight
	}
	if sum < 0 {
		sum = 0
	}
	return float64(sum) / totalPhaseWeight
}

// passedMask[color][square] is the union of squares on files {file-1, file, file+1} strictly
// ahead of square from color's perspective. A pawn is passed iff passedMask[c][s] AND the
// enemy pawn bitboard is zero.
var passedMask [board.NumColors][64]board.Bitboard

func init() {
	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		files := fileBand(sq.File())
		for r := sq.Rank() + 1; r <= board.Rank8; r++ {
			passedMask[board.White][sq] |= files & board.BitRank(r)
		}
		for r := int(sq.Rank()) - 1; r >= int(board.Rank1); r-- {
			passedMask[board.Black][sq] |= files & board.BitRank(board.Rank(r))
		}
	}
}

func fileBand(f board.File) board.Bitboard {
	band := board.BitFile(f)
	if f > board.ZeroFile {
		band |= board.BitFile(f - 1)
	}
	if f < board.FileA {
		band |= board.BitFile(f + 1)
	}
	return band
}
