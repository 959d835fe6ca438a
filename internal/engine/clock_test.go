package engine

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClock_Start(t *testing.T) {
	assert.Equal(t, int64(0), NewClock().Current())

	c := NewClockAt(100)
	assert.Equal(t, int64(100), c.Current())
	assert.Equal(t, int64(101), c.Next())
}

func TestClock_Next(t *testing.T) {
	c := NewClock()
	got := []int64{c.Next(), c.Next(), c.Next()}
	assert.Equal(t, []int64{1, 2, 3}, got)
	assert.Equal(t, int64(3), c.Current())
}

// Simulators sharing a clock must never hand out the same number twice.
func TestClock_Shared(t *testing.T) {
	c := NewClock()
	const workers, each = 8, 500

	var (
		mu  sync.Mutex
		all []int64
		wg  sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, 0, each)
			for j := 0; j < each; j++ {
				local = append(local, c.Next())
			}
			mu.Lock()
			all = append(all, local...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	slices.Sort(all)
	assert.Len(t, slices.Compact(all), workers*each)
	assert.Equal(t, int64(workers*each), all[len(all)-1])
}
