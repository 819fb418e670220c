package lockstep

// delayQueue holds pending input batches so local input reaches the
// simulation exactly delay ticks after issuance. With delay D it keeps D+1
// batches: new input lands in the newest, each tick dequeues the oldest and
// appends a fresh empty one. Delay zero degenerates to pass-through and the
// queue holds no batches at all.
type delayQueue struct {
	batches [][]InputMessage
	delay   int
}

func newDelayQueue(delay int) *delayQueue {
	if delay < 0 {
		delay = 0
	}
	q := &delayQueue{delay: delay}
	if delay > 0 {
		q.batches = make([][]InputMessage, delay+1)
	}
	return q
}

// passthrough reports whether input should be applied at issuance time.
func (q *delayQueue) passthrough() bool {
	return q.delay == 0
}

// push appends an input to the newest pending batch. Issuance order within a
// tick is preserved.
func (q *delayQueue) push(msg InputMessage) {
	if q.passthrough() {
		return
	}
	last := len(q.batches) - 1
	q.batches[last] = append(q.batches[last], msg)
}

// takeDue removes and returns the oldest batch and appends a fresh empty one,
// keeping the depth constant. Returns nil in pass-through mode.
func (q *delayQueue) takeDue() []InputMessage {
	if q.passthrough() {
		return nil
	}
	due := q.batches[0]
	copy(q.batches, q.batches[1:])
	q.batches[len(q.batches)-1] = nil
	return due
}

// pendingCount reports how many inputs are waiting across all batches.
func (q *delayQueue) pendingCount() int {
	n := 0
	for _, b := range q.batches {
		n += len(b)
	}
	return n
}
