package transport

import (
	"net/netip"
	"sync"
)

// Reply is one decrypted discovery reply.
type Reply struct {
	// Seq is the arrival order within the round, starting at 1
	Seq int

	// Source is the address the reply came from
	Source netip.AddrPort

	// Payload is the decrypted JSON document
	Payload []byte
}

// Round is the lazy, finite sequence of replies produced by one probe.
type Round struct {
	replies chan Reply
	done    chan struct{}

	closeOnce  sync.Once
	finishOnce sync.Once
	onClose    func()

	mu  sync.Mutex
	err error
}

func newRound(onClose func()) *Round {
	return &Round{
		replies: make(chan Reply, 16),
		done:    make(chan struct{}),
		onClose: onClose,
	}
}

// NewStaticRound returns an already-finished round that yields replies in
// order and then reports err. It backs replay and test probers.
func NewStaticRound(replies []Reply, err error) *Round {
	r := &Round{
		replies: make(chan Reply, len(replies)),
		done:    make(chan struct{}),
	}
	for i, reply := range replies {
		if reply.Seq == 0 {
			reply.Seq = i + 1
		}
		r.replies <- reply
	}
	r.finish(err)
	return r
}

// NewPendingRound returns a round with no replies that only ends when it
// is closed. It stands in for a probe that overruns its deadline.
func NewPendingRound() *Round {
	r := newRound(nil)
	r.onClose = func() { r.finish(nil) }
	return r
}

// Replies returns the channel of replies. It is closed when the round ends.
func (r *Round) Replies() <-chan Reply {
	return r.replies
}

// Err returns the socket error that ended the round, if any.
// Only meaningful after Replies has been drained.
func (r *Round) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Close abandons the round early and releases its socket.
// Safe to call more than once and after the round has finished.
func (r *Round) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
		if r.onClose != nil {
			r.onClose()
		}
	})
}

// emit delivers a reply unless the consumer closed the round.
func (r *Round) emit(reply Reply) bool {
	select {
	case r.replies <- reply:
		return true
	case <-r.done:
		return false
	}
}

// finish records the terminal error and closes the reply channel.
func (r *Round) finish(err error) {
	r.finishOnce.Do(func() {
		r.mu.Lock()
		r.err = err
		r.mu.Unlock()
		close(r.replies)
	})
}
