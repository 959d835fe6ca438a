package engine

import "github.com/roach88/pulsenet/internal/circuit"

// ButtonID is the sender id used for the pulse injected by a press.
const ButtonID = -2

// pulse is one level in flight along an edge.
type pulse struct {
	seq   int64
	from  int
	level circuit.Level
	edge  circuit.Edge
}

// pulseQueue is the FIFO a press drains. It is owned by one Simulator
// and is not safe for concurrent use.
type pulseQueue struct {
	pulses []pulse
	head   int
}

func newPulseQueue() *pulseQueue {
	return &pulseQueue{pulses: make([]pulse, 0, 64)}
}

// Enqueue appends p to the back of the queue.
func (q *pulseQueue) Enqueue(p pulse) {
	q.pulses = append(q.pulses, p)
}

// TryDequeue removes and returns the front pulse, or false when empty.
func (q *pulseQueue) TryDequeue() (pulse, bool) {
	if q.head >= len(q.pulses) {
		return pulse{}, false
	}
	p := q.pulses[q.head]
	q.pulses[q.head] = pulse{}
	q.head++

	// Drained: reuse the backing array for the next press.
	if q.head == len(q.pulses) {
		q.pulses = q.pulses[:0]
		q.head = 0
	}
	return p, true
}

// Len returns the number of pulses waiting.
func (q *pulseQueue) Len() int {
	return len(q.pulses) - q.head
}
