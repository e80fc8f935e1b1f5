// Package scheduler runs closures one at a time on a dedicated goroutine and
// feeds timer firings into the same queue, so the state they touch has a single writer.
package scheduler

import (
	"errors"
	"runtime/debug"
	"sync"

	log "github.com/sirupsen/logrus"
)

var ErrStopped = errors.New("executor stopped")

const DefaultQueueSize = 256

type Executor struct {
	queue    chan func()
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewExecutor(queueSize int) *Executor {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	e := &Executor{
		queue: make(chan func(), queueSize),
		done:  make(chan struct{}),
	}

	e.wg.Add(1)
	go e.loop()

	return e
}

func (e *Executor) loop() {
	defer e.wg.Done()
	for {
		select {
		case <-e.done:
			return
		case fn := <-e.queue:
			e.run(fn)
		}
	}
}

func (e *Executor) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("executor: recovered from panic: %v\n%s", r, debug.Stack())
		}
	}()
	fn()
}

// Submit enqueues fn and returns without waiting for it to run.
// It blocks while the queue is full.
func (e *Executor) Submit(fn func()) error {
	select {
	case <-e.done:
		return ErrStopped
	default:
	}

	select {
	case e.queue <- fn:
		return nil
	case <-e.done:
		return ErrStopped
	}
}

// Call runs fn on the executor and waits for it to return.
// It must not be called from the executor goroutine itself.
func (e *Executor) Call(fn func()) error {
	finished := make(chan struct{})
	if err := e.Submit(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-e.done:
		// fn may still have run if it was picked up before the stop
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	}
}

// Stop discards queued work and waits for the running closure to return.
func (e *Executor) Stop() {
	e.stopOnce.Do(func() {
		close(e.done)
	})
	e.wg.Wait()
}

func (e *Executor) Stopped() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}
