package scheduler

import (
	"sync"
	"time"
)

// Timers are keyed wall clock timers whose firings run on an Executor.
// Start and Cancel must be called from the executor goroutine. A firing that
// was already queued when its timer got cancelled or replaced is dropped.
type Timers struct {
	exec   *Executor
	active map[string]*timer
	wg     sync.WaitGroup
}

type timer struct {
	stop chan struct{}
}

func NewTimers(exec *Executor) *Timers {
	return &Timers{
		exec:   exec,
		active: make(map[string]*timer),
	}
}

// Start arms the timer under key, replacing any running one.
func (t *Timers) Start(key string, interval time.Duration, repeat bool, fire func()) {
	t.Cancel(key)

	tm := &timer{stop: make(chan struct{})}
	t.active[key] = tm

	t.wg.Add(1)
	go t.run(key, tm, interval, repeat, fire)
}

func (t *Timers) run(key string, tm *timer, interval time.Duration, repeat bool, fire func()) {
	defer t.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-tm.stop:
			return
		case <-ticker.C:
			err := t.exec.Submit(func() {
				if t.active[key] != tm {
					return
				}
				if !repeat {
					delete(t.active, key)
				}
				fire()
			})
			if err != nil || !repeat {
				return
			}
		}
	}
}

func (t *Timers) Cancel(key string) {
	tm, ok := t.active[key]
	if !ok {
		return
	}
	delete(t.active, key)
	close(tm.stop)
}

func (t *Timers) CancelAll() {
	for key := range t.active {
		t.Cancel(key)
	}
}

func (t *Timers) Active(key string) bool {
	_, ok := t.active[key]
	return ok
}

// Wait blocks until every timer goroutine has exited.
// Call it after CancelAll or after the executor stopped.
func (t *Timers) Wait() {
	t.wg.Wait()
}
