package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/physiotrack/internal/exercise"
	"github.com/2beens/physiotrack/internal/pose"
	"github.com/2beens/physiotrack/internal/scheduler"
	"github.com/2beens/physiotrack/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// ReplayResult is the outcome of a replay with every repetition it produced.
type ReplayResult struct {
	Report      Report                     `json:"report"`
	Repetitions []exercise.RepetitionEvent `json:"repetitions"`
}

// Replay runs a recorded observation stream through a plan on virtual time:
// timers fire according to the frame timestamps, not the wall clock.
// Instructions are acknowledged automatically at the start of each exercise
// and the rest after the last repetition is allowed to run out.
func Replay(ctx context.Context, plan Plan, defaults exercise.Timing, frames []pose.Observation) (_ ReplayResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.session.replay")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("replay.frames", len(frames)),
		attribute.Int("replay.exercises", len(plan.Exercises)),
	)

	start := time.Now()
	if len(frames) > 0 {
		start = frames[0].Timestamp
	}
	clock := scheduler.NewVirtual(start)

	var result ReplayResult
	collect := exercise.ListenerFunc(func(ev exercise.RepetitionEvent) {
		result.Repetitions = append(result.Repetitions, ev)
	})

	sess, err := New("replay", plan.WithDefaults(defaults), start, VirtualFactory(clock, collect))
	if err != nil {
		return ReplayResult{}, err
	}

	for i, obs := range frames {
		if i%500 == 0 {
			if err := ctx.Err(); err != nil {
				sess.Close()
				return ReplayResult{}, err
			}
		}
		if err := replayFrame(sess, obs); err != nil {
			if errors.Is(err, ErrSessionFinished) {
				log.Debugf("replay: plan finished after %d of %d frames", i, len(frames))
				break
			}
			sess.Close()
			return ReplayResult{}, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	settle(sess, clock)

	result.Report = sess.Close()
	return result, nil
}

func replayFrame(sess *Session, obs pose.Observation) error {
	if _, err := sess.ShowInstructions(); err != nil {
		return err
	}
	return sess.Observe(obs)
}

// settle lets a pending rest run out so the last repetition closes its set.
func settle(sess *Session, clock *scheduler.Virtual) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.current == nil {
		return
	}
	st := sess.current.Status()
	if st.State != exercise.StateRepetitionCompleted {
		return
	}
	cfg := sess.plan.Exercises[sess.index]
	clock.Advance(cfg.SetCompletedInterval + cfg.BufferInterval + cfg.TickInterval)
}

// VirtualFactory runs exercises synchronously on a shared virtual clock.
func VirtualFactory(clock *scheduler.Virtual, listeners ...exercise.Listener) InstanceFactory {
	return func(cfg exercise.Config) (Instance, error) {
		inst := &virtualInstance{
			clock:     clock,
			ended:     make(chan struct{}),
			listeners: listeners,
		}
		m, err := exercise.NewMachine(cfg, clock,
			exercise.WithObserver(inst),
			exercise.WithClock(clock.Now),
		)
		if err != nil {
			return nil, err
		}
		inst.machine = m
		return inst, nil
	}
}

// virtualInstance drives a Machine directly. Observations move the clock
// to their timestamp first, firing every timer due on the way.
type virtualInstance struct {
	clock     *scheduler.Virtual
	machine   *exercise.Machine
	listeners []exercise.Listener
	ended     chan struct{}
	endOnce   sync.Once
}

func (v *virtualInstance) Kind() exercise.Kind {
	return v.machine.Config().Kind
}

func (v *virtualInstance) Observe(obs pose.Observation) error {
	if v.machine.Completed() {
		return exercise.ErrFinished
	}
	v.clock.AdvanceTo(obs.Timestamp)
	v.machine.Process(obs)
	return nil
}

func (v *virtualInstance) ShowInstructions() (bool, error) {
	if v.machine.InstructionsShown() {
		return false, nil
	}
	return v.machine.ShowInstructions(), nil
}

func (v *virtualInstance) Enter(state exercise.State) (bool, error) {
	return v.machine.Enter(state), nil
}

func (v *virtualInstance) Reset() (bool, error) {
	return v.machine.Reset(), nil
}

func (v *virtualInstance) Status() exercise.Status {
	return v.machine.Status()
}

func (v *virtualInstance) Summary() exercise.Summary {
	return v.machine.Summary()
}

func (v *virtualInstance) Ended() <-chan struct{} {
	return v.ended
}

func (v *virtualInstance) Stop() exercise.Summary {
	v.machine.Abandon()
	return v.machine.Summary()
}

func (v *virtualInstance) OnTransition(_ exercise.Kind, _, to exercise.State) {
	if to == exercise.StateExerciseEnd {
		v.endOnce.Do(func() { close(v.ended) })
	}
}

func (v *virtualInstance) OnRejectedTransition(exercise.Kind, exercise.State, exercise.State) {}

func (v *virtualInstance) OnRepetition(ev exercise.RepetitionEvent) {
	for _, l := range v.listeners {
		l.OnRepetition(ev)
	}
}
