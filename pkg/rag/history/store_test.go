package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeWindowNewestPageIsFirst(t *testing.T) {
	// 20 messages, page size 5: page 1 covers positions 15..19.
	w := ComputeWindow(20, 1, 5)

	assert.Equal(t, 15, w.Start)
	assert.Equal(t, 20, w.End)
	assert.Equal(t, 1, w.Page)
	assert.Equal(t, 4, w.TotalPages)
	assert.False(t, w.HasNewer)
	assert.True(t, w.HasOlder)
}

func TestComputeWindowOldestPageIsLast(t *testing.T) {
	w := ComputeWindow(20, 4, 5)

	assert.Equal(t, 0, w.Start)
	assert.Equal(t, 5, w.End)
	assert.True(t, w.HasNewer)
	assert.False(t, w.HasOlder)
}

func TestComputeWindowShortOldestWindow(t *testing.T) {
	// 12 messages, page size 5: the oldest page holds the 2 leftover
	// messages at positions 0..1.
	w := ComputeWindow(12, 3, 5)

	assert.Equal(t, 0, w.Start)
	assert.Equal(t, 2, w.End)
	assert.Equal(t, 3, w.TotalPages)
	assert.True(t, w.HasNewer)
	assert.False(t, w.HasOlder)
}

func TestComputeWindowClampsOutOfRange(t *testing.T) {
	cases := []struct {
		name     string
		page     int
		wantPage int
	}{
		{"below range", 0, 1},
		{"negative", -3, 1},
		{"beyond last", 99, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ComputeWindow(20, tc.page, 5)
			assert.Equal(t, tc.wantPage, w.Page)
		})
	}
}

func TestComputeWindowEmptyHistory(t *testing.T) {
	w := ComputeWindow(0, 1, 5)

	assert.Equal(t, 0, w.Start)
	assert.Equal(t, 0, w.End)
	assert.Equal(t, 1, w.Page)
	assert.Equal(t, 0, w.TotalPages)
	assert.False(t, w.HasNewer)
	assert.False(t, w.HasOlder)
}

func TestComputeWindowSinglePartialPage(t *testing.T) {
	w := ComputeWindow(3, 1, 5)

	assert.Equal(t, 0, w.Start)
	assert.Equal(t, 3, w.End)
	assert.Equal(t, 1, w.TotalPages)
	assert.False(t, w.HasNewer)
	assert.False(t, w.HasOlder)
}

func TestComputeWindowWalksWholeHistory(t *testing.T) {
	// Every position appears in exactly one window.
	total, pageSize := 17, 5
	covered := make(map[int]int)

	w1 := ComputeWindow(total, 1, pageSize)
	for page := 1; page <= w1.TotalPages; page++ {
		w := ComputeWindow(total, page, pageSize)
		for pos := w.Start; pos < w.End; pos++ {
			covered[pos]++
		}
	}

	assert.Len(t, covered, total)
	for pos, n := range covered {
		assert.Equalf(t, 1, n, "position %d covered %d times", pos, n)
	}
}
