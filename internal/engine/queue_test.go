package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulsenet/internal/circuit"
)

func TestPulseQueue_FIFO(t *testing.T) {
	q := newPulseQueue()
	for i := 1; i <= 3; i++ {
		q.Enqueue(pulse{seq: int64(i), edge: circuit.Edge{Target: i}})
	}
	assert.Equal(t, 3, q.Len())

	for i := 1; i <= 3; i++ {
		p, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, int64(i), p.seq)
	}

	_, ok := q.TryDequeue()
	assert.False(t, ok)
	assert.Equal(t, 0, q.Len())
}

func TestPulseQueue_InterleavedReuse(t *testing.T) {
	q := newPulseQueue()
	q.Enqueue(pulse{seq: 1})
	q.Enqueue(pulse{seq: 2})

	p, _ := q.TryDequeue()
	assert.Equal(t, int64(1), p.seq)
	q.Enqueue(pulse{seq: 3})

	p, _ = q.TryDequeue()
	assert.Equal(t, int64(2), p.seq)
	p, _ = q.TryDequeue()
	assert.Equal(t, int64(3), p.seq)

	// Drained: the backing array is rewound.
	assert.Equal(t, 0, q.head)
	assert.Empty(t, q.pulses)
}
