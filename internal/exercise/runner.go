package exercise

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/2beens/physiotrack/internal/pose"
	"github.com/2beens/physiotrack/internal/scheduler"
	"github.com/2beens/physiotrack/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

// Listener receives repetition events on the runner goroutine.
// It must return quickly and must not call back into the runner.
type Listener interface {
	OnRepetition(ev RepetitionEvent)
}

type ListenerFunc func(ev RepetitionEvent)

func (f ListenerFunc) OnRepetition(ev RepetitionEvent) {
	f(ev)
}

type Status struct {
	Exercise          Kind      `json:"exercise"`
	State             State     `json:"state"`
	Side              pose.Side `json:"side"`
	InstructionsShown bool      `json:"instructions_shown"`
	Completed         bool      `json:"completed"`
	Tracking          Tracking  `json:"tracking"`
}

type RunnerOption func(r *Runner)

func WithMetrics(m *metrics.Manager) RunnerOption {
	return func(r *Runner) {
		r.metrics = m
	}
}

func WithListener(l Listener) RunnerOption {
	return func(r *Runner) {
		r.listeners = append(r.listeners, l)
	}
}

func WithQueueSize(size int) RunnerOption {
	return func(r *Runner) {
		r.queueSize = size
	}
}

// Runner owns one Machine and serializes everything that touches it:
// observations, control calls and timer firings all run on one executor goroutine.
type Runner struct {
	machine   *Machine
	exec      *scheduler.Executor
	timers    *scheduler.Timers
	metrics   *metrics.Manager
	listeners []Listener
	queueSize int

	ended    chan struct{}
	endOnce  sync.Once
	stopOnce sync.Once
	stopped  atomic.Bool

	mu          sync.Mutex
	finalStatus Status
	finalSum    Summary
}

func NewRunner(cfg Config, opts ...RunnerOption) (*Runner, error) {
	r := &Runner{
		ended:     make(chan struct{}),
		queueSize: scheduler.DefaultQueueSize,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.exec = scheduler.NewExecutor(r.queueSize)
	r.timers = scheduler.NewTimers(r.exec)

	machine, err := NewMachine(cfg, r.timers, WithObserver(runnerObserver{r: r}))
	if err != nil {
		r.exec.Stop()
		return nil, err
	}
	r.machine = machine

	if r.metrics != nil {
		r.metrics.GaugeLiveExercises.Inc()
	}

	return r, nil
}

func (r *Runner) Kind() Kind {
	return r.machine.cfg.Kind
}

// Ended is closed when the exercise reaches ExerciseEnd.
func (r *Runner) Ended() <-chan struct{} {
	return r.ended
}

// Observe queues obs for processing and returns without waiting.
func (r *Runner) Observe(obs pose.Observation) error {
	err := r.exec.Submit(func() {
		r.machine.Process(obs)
		if r.metrics != nil {
			r.metrics.CounterObservations.WithLabelValues(r.Kind().String()).Inc()
		}
	})
	if err != nil {
		if r.metrics != nil {
			r.metrics.CounterDroppedObservations.Inc()
		}
		return r.finished(err)
	}
	return nil
}

func (r *Runner) ShowInstructions() (bool, error) {
	var ok bool
	if err := r.exec.Call(func() { ok = r.machine.ShowInstructions() }); err != nil {
		return false, r.finished(err)
	}
	return ok, nil
}

func (r *Runner) Enter(state State) (bool, error) {
	var ok bool
	if err := r.exec.Call(func() { ok = r.machine.Enter(state) }); err != nil {
		return false, r.finished(err)
	}
	return ok, nil
}

func (r *Runner) Reset() (bool, error) {
	var ok bool
	if err := r.exec.Call(func() { ok = r.machine.Reset() }); err != nil {
		return false, r.finished(err)
	}
	return ok, nil
}

// Status returns a snapshot, the final one once the runner stopped.
func (r *Runner) Status() Status {
	if r.stopped.Load() {
		return r.final().status
	}
	var st Status
	if err := r.exec.Call(func() { st = r.machine.Status() }); err != nil {
		return r.final().status
	}
	return st
}

func (r *Runner) Summary() Summary {
	if r.stopped.Load() {
		return r.final().summary
	}
	var s Summary
	if err := r.exec.Call(func() { s = r.machine.Summary() }); err != nil {
		return r.final().summary
	}
	return s
}

// Stop abandons the exercise unless it already ended, cancels every timer
// and stops the executor. It is idempotent and returns the final summary.
func (r *Runner) Stop() Summary {
	r.stopOnce.Do(func() {
		err := r.exec.Call(func() {
			r.machine.Abandon()
			r.mu.Lock()
			r.finalStatus = r.machine.Status()
			r.finalSum = r.machine.Summary()
			r.mu.Unlock()
		})
		if err != nil {
			log.Errorf("exercise runner [%s]: stop: %s", r.Kind(), err)
		}
		r.exec.Stop()
		r.timers.Wait()
		r.stopped.Store(true)

		if r.metrics != nil {
			r.metrics.GaugeLiveExercises.Dec()
		}
	})
	return r.final().summary
}

type finalSnapshot struct {
	status  Status
	summary Summary
}

func (r *Runner) final() finalSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return finalSnapshot{status: r.finalStatus, summary: r.finalSum}
}

func (r *Runner) finished(err error) error {
	if errors.Is(err, scheduler.ErrStopped) {
		return ErrFinished
	}
	return err
}

type runnerObserver struct {
	r *Runner
}

func (o runnerObserver) OnTransition(kind Kind, from, to State) {
	if m := o.r.metrics; m != nil {
		m.CounterTransitions.WithLabelValues(kind.String(), from.String(), to.String()).Inc()
	}
	if to == StateExerciseEnd {
		o.r.endOnce.Do(func() { close(o.r.ended) })
	}
}

func (o runnerObserver) OnRejectedTransition(kind Kind, from, to State) {
	if m := o.r.metrics; m != nil {
		m.CounterRejectedTransitions.WithLabelValues(kind.String(), from.String(), to.String()).Inc()
	}
}

func (o runnerObserver) OnRepetition(ev RepetitionEvent) {
	if m := o.r.metrics; m != nil {
		outcome := "good"
		switch {
		case ev.GiveUp:
			outcome = "give_up"
		case !ev.Good:
			outcome = "bad"
		}
		m.CounterRepetitions.WithLabelValues(ev.Exercise.String(), ev.Side.String(), outcome).Inc()
		m.HistogramRepetitionDuration.WithLabelValues(ev.Exercise.String()).Observe(ev.Duration.Seconds())
	}
	for _, l := range o.r.listeners {
		l.OnRepetition(ev)
	}
}
