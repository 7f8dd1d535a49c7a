package search_test

import (
	"testing"

	"github.com/corvuschess/corvus/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestLMRReduction_ZeroOnEdges(t *testing.T) {
	assert.Equal(t, 0, search.LMRReduction(0, 5))
	assert.Equal(t, 0, search.LMRReduction(5, 0))
}

func TestLMRReduction_MonotonicInMoveIndex(t *testing.T) {
	a := search.LMRReduction(10, 5)
	b := search.LMRReduction(10, 20)
	assert.LessOrEqual(t, a, b)
}

func TestLMRReduction_ClampsOutOfRangeInputs(t *testing.T) {
	assert.Equal(t, search.LMRReduction(63, 63), search.LMRReduction(200, 200))
}
