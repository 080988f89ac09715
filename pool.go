// Package taskpool implements a fixed-size worker pool: a bounded set of
// long-lived goroutines that pull tasks from a shared FIFO and run them to
// completion, with a shutdown protocol supporting two drain modes.
//
// The synchronization contract is the entire point of this package: task
// admission, the worker wake-up discipline, and the two Destroy drain
// variants must agree on when the queue is empty, when tasks are running,
// and when workers have exited, without missing a wakeup or double-counting
// a task. See the package-level tests for the invariants this enforces.
package taskpool

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/riftforge/taskpool/internal/queue"
)

// ErrRejected is returned by Submit once Destroy has begun.
var ErrRejected = errors.New("taskpool: rejected, pool is being destroyed")

// task wraps the closure a worker executes. Wrapping it (rather than storing
// bare funcs in the queue) leaves room for the queue to hold any future
// per-task bookkeeping without changing Submit's signature.
type task struct {
	fn func()
}

// Pool is a fixed-size worker pool. The zero value is not usable; construct
// one with New.
type Pool struct {
	size int

	queueMu     sync.Mutex
	queueCond   *sync.Cond // L == &queueMu; non-empty-or-finish
	pendingCond *sync.Cond // L == &queueMu; queue became empty
	queue       *queue.Queue[*task]

	lifecycleMu sync.Mutex
	finTaskCond *sync.Cond // L == &lifecycleMu; running reached zero
	destroyed   bool

	running atomic.Int64
	finish  atomic.Bool

	wg sync.WaitGroup
}

// New constructs a pool of size workers and starts them immediately. size
// must be a positive integer; New panics otherwise, since an invalid worker
// count is a programmer error, not a runtime condition to recover from.
func New(size int) *Pool {
	if size < 1 {
		panic("taskpool: size must be a positive integer")
	}

	p := &Pool{
		size:  size,
		queue: queue.New[*task](),
	}
	p.queueCond = sync.NewCond(&p.queueMu)
	p.pendingCond = sync.NewCond(&p.queueMu)
	p.finTaskCond = sync.NewCond(&p.lifecycleMu)

	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}

	return p
}

// Submit enqueues fn for execution by one of the pool's workers. fn is
// called exactly once, outside of any lock the pool holds. fn may itself
// call Submit.
//
// Submit returns ErrRejected once Destroy has been called; it never blocks
// otherwise, beyond briefly contending on the queue lock.
func (p *Pool) Submit(fn func()) error {
	p.lifecycleMu.Lock()
	destroyed := p.destroyed
	p.lifecycleMu.Unlock()
	if destroyed {
		return ErrRejected
	}

	t := &task{fn: fn}

	p.queueMu.Lock()
	p.queue.Enqueue(t)
	p.queueMu.Unlock()

	p.queueCond.Signal()
	return nil
}

// worker is the body every pool goroutine runs until the pool tells it to
// exit.
func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		t, ok := p.fetch()
		if !ok {
			return
		}

		t.fn()

		p.completeTask()
	}
}

// fetch blocks until a task is available or the pool is finishing. ok is
// false when the worker should exit.
func (p *Pool) fetch() (*task, bool) {
	p.queueMu.Lock()
	defer p.queueMu.Unlock()

	for !p.finish.Load() && p.queue.IsEmpty() {
		p.queueCond.Wait()
	}

	if p.finish.Load() {
		return nil, false
	}

	t, _ := p.queue.Dequeue()

	// Counting this task as running before releasing the queue lock closes
	// the window where it is neither queued nor yet accounted for; see
	// SPEC_FULL.md §9. This is a lock-free atomic add, not a second mutex
	// acquisition, so the single-lock-at-a-time discipline still holds.
	p.running.Add(1)

	return t, true
}

// completeTask runs after a task's closure has returned. It checks the queue
// for emptiness only now, not at dequeue time, so any tasks the closure
// submitted (reentrant Submit) are already in the queue when a waiting
// Destroy(true) is woken to re-check it. Reentrant Submit calls made after
// Destroy has begun are rejected like any other.
func (p *Pool) completeTask() {
	p.queueMu.Lock()
	if p.queue.IsEmpty() {
		p.pendingCond.Broadcast()
	}
	p.queueMu.Unlock()

	if p.running.Add(-1) == 0 {
		p.lifecycleMu.Lock()
		p.finTaskCond.Broadcast()
		p.lifecycleMu.Unlock()
	}
}

// Destroy shuts the pool down. It is idempotent: only the first call (from
// any goroutine) performs the shutdown protocol; later calls return
// immediately, without waiting for the first to complete.
//
// If drainPending is true, every task already queued at the moment Destroy
// is called is executed before shutdown proceeds; tasks submitted
// concurrently with the Destroy call may or may not be drained. If
// drainPending is false, queued-but-not-started tasks are discarded. Under
// neither mode is a running task interrupted.
func (p *Pool) Destroy(drainPending bool) {
	p.lifecycleMu.Lock()
	if p.destroyed {
		p.lifecycleMu.Unlock()
		return
	}
	p.destroyed = true
	p.lifecycleMu.Unlock()

	if drainPending {
		p.queueMu.Lock()
		for !p.queue.IsEmpty() {
			p.pendingCond.Wait()
		}
		p.queueMu.Unlock()
	}

	p.signalFinish()

	p.lifecycleMu.Lock()
	for p.running.Load() > 0 {
		p.finTaskCond.Wait()
	}
	p.lifecycleMu.Unlock()

	p.wg.Wait()

	p.queueMu.Lock()
	p.queue.Destroy()
	p.queueMu.Unlock()
}

// signalFinish sets finish and wakes every worker sleeping on the queue
// condition. The queue lock is acquired purely to perform the broadcast —
// the same lock workers hold while checking finish in their wait loop — so
// no wakeup can be lost regardless of when the atomic store is observed
// relative to the lock acquisition.
func (p *Pool) signalFinish() {
	p.finish.Store(true)
	p.queueMu.Lock()
	p.queueCond.Broadcast()
	p.queueMu.Unlock()
}

// Stats is a point-in-time snapshot of pool state, useful for metrics and
// diagnostics. It never mutates the pool.
type Stats struct {
	Size      int
	Running   int
	Queued    int
	Destroyed bool
	Finished  bool
}

// Stats returns a snapshot of the pool's current state. It is safe to call
// concurrently with Submit, Destroy, and from within a task.
func (p *Pool) Stats() Stats {
	p.queueMu.Lock()
	queued := p.queue.Len()
	p.queueMu.Unlock()

	p.lifecycleMu.Lock()
	destroyed := p.destroyed
	p.lifecycleMu.Unlock()

	return Stats{
		Size:      p.size,
		Running:   int(p.running.Load()),
		Queued:    queued,
		Destroyed: destroyed,
		Finished:  p.finish.Load(),
	}
}
