package runtime

import "sync"

// scheduler is a single-goroutine cooperative task queue. Deferring each
// downstream firing to the queue instead of recursing keeps the call stack
// bounded on deep graphs and lets other pending work interleave between
// hops. No two tasks ever run in parallel.
type scheduler struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
	idle   *sync.Cond
	busy   bool
}

func newScheduler() *scheduler {
	s := &scheduler{
		wake: make(chan struct{}, 1),
	}
	s.idle = sync.NewCond(&s.mu)
	go s.loop()
	return s
}

// Schedule enqueues a task for the next tick. Tasks scheduled before Close
// run to completion; tasks scheduled after are dropped.
func (s *scheduler) Schedule(task func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, task)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Wait blocks until the queue has fully drained. Test helper; a quiescent
// scheduler is the only reliable observation point for firing counts.
func (s *scheduler) Wait() {
	s.mu.Lock()
	for len(s.queue) > 0 || s.busy {
		s.idle.Wait()
	}
	s.mu.Unlock()
}

// Close stops the loop after the current task. Pending tasks are discarded.
func (s *scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.queue = nil
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *scheduler) loop() {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 {
			if s.closed {
				s.idle.Broadcast()
				s.mu.Unlock()
				return
			}
			s.idle.Broadcast()
			s.mu.Unlock()
			<-s.wake
			s.mu.Lock()
		}
		task := s.queue[0]
		s.queue = s.queue[1:]
		s.busy = true
		s.mu.Unlock()

		task()

		s.mu.Lock()
		s.busy = false
		if len(s.queue) == 0 {
			s.idle.Broadcast()
		}
		s.mu.Unlock()
	}
}
