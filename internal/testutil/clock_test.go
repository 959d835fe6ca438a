package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceClock(t *testing.T) {
	c := NewTraceClock()
	assert.Equal(t, int64(0), c.Current())

	c.Next()
	c.Next()
	assert.Equal(t, int64(2), c.Current())

	// After warm-up the harness rewinds so recorded pulses start at 1.
	c.Reset()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
}
