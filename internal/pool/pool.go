// Package pool provides a fixed-size worker pool for running independent
// tasks off the calling goroutine. The table engine does not depend on
// it; persistence uses it to serialize tables concurrently and callers
// may drive their own work through it.
package pool

import (
	"errors"
	"sync"
)

// ErrShutdown is returned by Submit after Shutdown has been called.
var ErrShutdown = errors.New("pool: shut down")

// Task is a unit of work. A non-nil result is reported through the handle.
type Task func() error

// Handle lets the submitter wait for one task's completion.
type Handle struct {
	done chan struct{}
	err  error
}

// Wait blocks until the task finishes and returns its error.
func (h *Handle) Wait() error {
	<-h.done
	return h.err
}

// Pool runs tasks on a fixed set of worker goroutines.
type Pool struct {
	tasks chan submission
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

type submission struct {
	task   Task
	handle *Handle
}

// New starts a pool with n workers. n below 1 is raised to 1.
func New(n int) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{tasks: make(chan submission, n)}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for s := range p.tasks {
		s.handle.err = s.task()
		close(s.handle.done)
	}
}

// Submit enqueues a task and returns a handle to wait on. Submitting to a
// shut-down pool fails. The send stays under the mutex so Shutdown can
// never close the channel out from under it.
func (p *Pool) Submit(task Task) (*Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrShutdown
	}
	h := &Handle{done: make(chan struct{})}
	p.tasks <- submission{task: task, handle: h}
	return h, nil
}

// Shutdown stops accepting work and waits for in-flight tasks to drain.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()
	p.wg.Wait()
}
