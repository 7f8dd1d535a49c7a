package searchctl_test

import (
	"testing"
	"time"

	"github.com/corvuschess/corvus/pkg/search/searchctl"
	"github.com/stretchr/testify/assert"
)

func TestAllocate_MovesLeftBuckets(t *testing.T) {
	a := searchctl.Allocate(100*time.Second, 0, 5)
	b := searchctl.Allocate(100*time.Second, 0, 15)
	c := searchctl.Allocate(100*time.Second, 0, 35)

	assert.Less(t, a, b)
	assert.Less(t, b, c)
}

func TestAllocate_ClampsToMaxTime(t *testing.T) {
	got := searchctl.Allocate(10*time.Second, 20*time.Second, 5)
	assert.Equal(t, 2*time.Second, got) // 0.2 * 10s
}

func TestAllocate_ClampsToMinTime(t *testing.T) {
	got := searchctl.Allocate(1*time.Second, 0, 5)
	assert.Equal(t, 50*time.Millisecond, got) // min(0.5s, 0.05*1s) = 0.05s
}

func TestAllocate_IncrementContributes(t *testing.T) {
	withoutInc := searchctl.Allocate(60*time.Second, 0, 5)
	withInc := searchctl.Allocate(60*time.Second, 2*time.Second, 5)
	assert.Greater(t, withInc, withoutInc)
}
