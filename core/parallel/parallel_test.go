package parallel

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelizeN_CoversEveryItemOnce(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 8, 64} {
		const items = 37
		var seen [items]int32
		ParallelizeN(items, workers, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, n := range seen {
			assert.Equalf(t, int32(1), n, "workers=%d item %d visited %d times", workers, i, n)
		}
	}
}

func TestParallelize_ZeroItems(t *testing.T) {
	called := false
	Parallelize(0, func(start, end int) { called = true })
	ParallelizeWithThreshold(0, 10, func(start, end int) { called = true })
	assert.False(t, called)
}

func TestParallelizeWithThreshold(t *testing.T) {
	var (
		mu     sync.Mutex
		ranges [][2]int
	)
	record := func(start, end int) {
		mu.Lock()
		defer mu.Unlock()
		ranges = append(ranges, [2]int{start, end})
	}

	ParallelizeWithThreshold(100, 1000, record)
	assert.Equal(t, [][2]int{{0, 100}}, ranges, "below threshold runs sequentially")

	ranges = nil
	ParallelizeWithThreshold(2000, 1000, record)
	total := 0
	for _, r := range ranges {
		total += r[1] - r[0]
	}
	assert.Equal(t, 2000, total)
}
