package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/2beens/physiotrack/internal/exercise"
	"github.com/2beens/physiotrack/internal/pose"

	log "github.com/sirupsen/logrus"
)

// State is what a client polls while a session runs.
type State struct {
	SessionID     string           `json:"session_id"`
	Plan          string           `json:"plan"`
	ExerciseIndex int              `json:"exercise_index"`
	Exercises     int              `json:"exercises"`
	Current       *exercise.Status `json:"current,omitempty"`
	FinishedReps  int              `json:"finished_reps"`
	TotalReps     int              `json:"total_reps"`
	Finished      bool             `json:"finished"`
	Closed        bool             `json:"closed"`
}

// Report aggregates every exercise of a session. FinishedReps and TotalReps
// only count exercises that are over.
type Report struct {
	SessionID    string             `json:"session_id"`
	Plan         string             `json:"plan"`
	StartedAt    time.Time          `json:"started_at"`
	Exercises    []exercise.Summary `json:"exercises"`
	FinishedReps int                `json:"finished_reps"`
	TotalReps    int                `json:"total_reps"`
	Finished     bool               `json:"finished"`
}

// Session runs the exercises of a plan one after another. The next exercise
// starts once the current one reaches ExerciseEnd or is skipped.
type Session struct {
	id          string
	plan        Plan
	startedAt   time.Time
	newInstance InstanceFactory

	mu           sync.Mutex
	index        int
	current      Instance
	done         []exercise.Summary
	finishedReps int
	totalReps    int
	closed       bool
}

func New(id string, plan Plan, startedAt time.Time, newInstance InstanceFactory) (*Session, error) {
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}

	s := &Session{
		id:          id,
		plan:        plan,
		startedAt:   startedAt,
		newInstance: newInstance,
	}
	if err := s.start(0); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Plan() Plan {
	return s.plan
}

func (s *Session) Observe(obs pose.Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, err := s.live()
	if err != nil {
		return err
	}
	return inst.Observe(obs)
}

func (s *Session) ShowInstructions() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, err := s.live()
	if err != nil {
		return false, err
	}
	return inst.ShowInstructions()
}

func (s *Session) Enter(state exercise.State) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, err := s.live()
	if err != nil {
		return false, err
	}
	return inst.Enter(state)
}

func (s *Session) Reset() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, err := s.live()
	if err != nil {
		return false, err
	}
	return inst.Reset()
}

// Skip abandons the current exercise and moves on to the next one.
func (s *Session) Skip() (exercise.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.live(); err != nil {
		return exercise.Summary{}, err
	}
	sum := s.finish()
	log.Debugf("session [%s]: skipped %s with %d reps", s.id, sum.Exercise, sum.FinishedReps)
	return sum, s.start(s.index + 1)
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		if err := s.advance(); err != nil {
			log.Errorf("session [%s]: advance: %s", s.id, err)
		}
	}

	st := State{
		SessionID:     s.id,
		Plan:          s.plan.Name,
		ExerciseIndex: s.index,
		Exercises:     len(s.plan.Exercises),
		FinishedReps:  s.finishedReps,
		TotalReps:     s.totalReps,
		Finished:      s.index >= len(s.plan.Exercises),
		Closed:        s.closed,
	}
	if s.current != nil {
		status := s.current.Status()
		st.Current = &status
	}
	return st
}

// Report includes the running exercise with its live figures.
func (s *Session) Report() Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		if err := s.advance(); err != nil {
			log.Errorf("session [%s]: advance: %s", s.id, err)
		}
	}

	r := s.report()
	if s.current != nil {
		r.Exercises = append(r.Exercises, s.current.Summary())
	}
	return r
}

// Close stops the running exercise and returns the final report.
// Calling it again returns the same report.
func (s *Session) Close() Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		if err := s.advance(); err != nil {
			log.Errorf("session [%s]: advance: %s", s.id, err)
		}
		if s.current != nil {
			s.finish()
		}
		s.closed = true
	}
	return s.report()
}

func (s *Session) report() Report {
	return Report{
		SessionID:    s.id,
		Plan:         s.plan.Name,
		StartedAt:    s.startedAt,
		Exercises:    append([]exercise.Summary(nil), s.done...),
		FinishedReps: s.finishedReps,
		TotalReps:    s.totalReps,
		Finished:     s.index >= len(s.plan.Exercises),
	}
}

// live returns the running exercise, first moving past one that ended.
func (s *Session) live() (Instance, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if err := s.advance(); err != nil {
		return nil, err
	}
	if s.current == nil {
		return nil, ErrSessionFinished
	}
	return s.current, nil
}

func (s *Session) advance() error {
	if s.current == nil {
		return nil
	}
	select {
	case <-s.current.Ended():
	default:
		return nil
	}
	sum := s.finish()
	log.Debugf("session [%s]: %s finished with %d/%d reps", s.id, sum.Exercise, sum.FinishedReps, sum.PlannedReps)
	return s.start(s.index + 1)
}

// finish stops the current exercise and folds its summary into the session counters.
func (s *Session) finish() exercise.Summary {
	sum := s.current.Stop()
	s.current = nil
	s.done = append(s.done, sum)
	s.finishedReps += sum.FinishedReps
	s.totalReps += sum.PlannedReps
	return sum
}

func (s *Session) start(i int) error {
	s.index = i
	if i >= len(s.plan.Exercises) {
		log.Debugf("session [%s]: plan %q done", s.id, s.plan.Name)
		return nil
	}

	cfg := s.plan.Exercises[i]
	inst, err := s.newInstance(cfg)
	if err != nil {
		// nothing left to run, the session reads as finished
		s.index = len(s.plan.Exercises)
		return fmt.Errorf("start exercise %d (%s): %w", i, cfg.Kind, err)
	}
	s.current = inst
	return nil
}
