package lockstep

import "sync"

// outboundQueue collects issued InputMessages for transmission. Every issued
// input lands here regardless of its local-apply delay. The per-tick drain
// swaps the slice out under the lock so issuances arriving mid-drain go to
// the next tick's queue, never lost and never sent twice.
type outboundQueue struct {
	mu      sync.Mutex
	pending []InputMessage
}

func (q *outboundQueue) append(msg InputMessage) {
	q.mu.Lock()
	q.pending = append(q.pending, msg)
	q.mu.Unlock()
}

// drain returns all queued messages in issuance order and resets the queue.
func (q *outboundQueue) drain() []InputMessage {
	q.mu.Lock()
	msgs := q.pending
	q.pending = nil
	q.mu.Unlock()
	return msgs
}

func (q *outboundQueue) depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
