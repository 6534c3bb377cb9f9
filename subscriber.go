package chassis

import (
	"context"
	"sync"
)

// subscriber delivers snapshots to one observer. Snapshots are queued
// without bound under the chassis write lock and forwarded by a goroutine,
// so a slow reader delays only itself and never loses a snapshot.
type subscriber[M any] struct {
	id     string
	out    chan M
	wake   chan struct{}
	mu     sync.Mutex
	queue  []M
	closed bool
}

func newSubscriber[M any](id string) *subscriber[M] {
	return &subscriber[M]{
		id:   id,
		out:  make(chan M),
		wake: make(chan struct{}, 1),
	}
}

// push queues a snapshot. It never blocks.
func (s *subscriber[M]) push(m M) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, m)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// next pops the oldest queued snapshot.
func (s *subscriber[M]) next() (M, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		var zero M
		return zero, false
	}
	m := s.queue[0]
	var zero M
	s.queue[0] = zero
	s.queue = s.queue[1:]
	return m, true
}

// run forwards queued snapshots until ctx is done, then closes out.
func (s *subscriber[M]) run(ctx context.Context, done func()) {
	defer func() {
		s.mu.Lock()
		s.closed = true
		s.queue = nil
		s.mu.Unlock()
		done()
		close(s.out)
	}()

	for {
		m, ok := s.next()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-s.wake:
				continue
			}
		}

		select {
		case s.out <- m:
		case <-ctx.Done():
			return
		}
	}
}
