package search

import "math"

// lmrTable[depth][moveIndex] precomputes floor(1 + ln(depth)*ln(moveIndex)/2.5) for
// depth, moveIndex in [1,63]; row/column 0 stay zero. Immutable, built once at init.
var lmrTable [64][64]int

func init() {
	for d := 1; d < len(lmrTable); d++ {
		for i := 1; i < len(lmrTable[d]); i++ {
			lmrTable[d][i] = int(1 + math.Log(float64(d))*math.Log(float64(i))/2.5)
		}
	}
}

// LMRReduction returns the precomputed late-move reduction for the given remaining
// depth and move index, clamping both to the table's [0,63] domain.
func LMRReduction(depth, moveIndex int) int {
	return lmrTable[clamp63(depth)][clamp63(moveIndex)]
}

func clamp63(v int) int {
	if v < 0 {
		return 0
	}
	if v > 63 {
		return 63
	}
	return v
}
