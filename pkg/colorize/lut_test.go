package colorize_test

import (
	"sync"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/tauraamui/dragoneye/pkg/colorize"
)

func TestLookupTableBuildsEveryEntryOnce(t *testing.T) {
	is := is.New(t)

	var calls []int
	lut := colorize.NewLookupTable(5, func(index, size int) int {
		is.Equal(size, 5)
		calls = append(calls, index)
		return index * 10
	})

	is.Equal(lut.Size(), 5)
	is.Equal(calls, []int{0, 1, 2, 3, 4})

	lut.GetValue(0.5)
	is.Equal(len(calls), 5)
}

func TestLookupTableRoundsToNearestEntry(t *testing.T) {
	lut := colorize.NewLookupTable(5, func(index, size int) int { return index * 10 })

	assert.Equal(t, 0, lut.GetValue(0))
	assert.Equal(t, 40, lut.GetValue(1))
	assert.Equal(t, 10, lut.GetValue(0.3))
	assert.Equal(t, 20, lut.GetValue(0.375))
	assert.Equal(t, 20, lut.GetValue(0.5))
	assert.Equal(t, 0, lut.GetValue(-1))
	assert.Equal(t, 40, lut.GetValue(2))
}

func TestLookupTableIsDeterministicUnderConcurrentReads(t *testing.T) {
	lut := colorize.NewLookupTable(1024, func(index, size int) colorize.ColorBGRA {
		return colorize.ColorRampInterpolation(float32(index) / float32(size))
	})
	want := lut.GetValue(0.42)

	wg := sync.WaitGroup{}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if got := lut.GetValue(0.42); got != want {
					t.Errorf("lookup drifted: %v != %v", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}
