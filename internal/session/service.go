package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/physiotrack/internal/exercise"
	"github.com/2beens/physiotrack/internal/pose"
	"github.com/2beens/physiotrack/internal/telemetry/metrics"
	"github.com/2beens/physiotrack/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// ExerciseInfo describes a catalog entry to clients.
type ExerciseInfo struct {
	Kind        exercise.Kind       `json:"kind"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Sides       []pose.Side         `json:"sides"`
	Direction   string              `json:"direction"`
	Thresholds  exercise.Thresholds `json:"thresholds"`
}

type ServiceParams struct {
	MaxSessions int
	Defaults    exercise.Timing
	NewInstance InstanceFactory
	Cache       *SummaryCache
	Metrics     *metrics.Manager
	Now         func() time.Time
}

// Service is the registry of live sessions.
type Service struct {
	maxSessions int
	defaults    exercise.Timing
	newInstance InstanceFactory
	cache       *SummaryCache
	metrics     *metrics.Manager
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewService(params ServiceParams) *Service {
	s := &Service{
		maxSessions: params.MaxSessions,
		defaults:    params.Defaults,
		newInstance: params.NewInstance,
		cache:       params.Cache,
		metrics:     params.Metrics,
		now:         params.Now,
		sessions:    make(map[string]*Session),
	}
	if s.newInstance == nil {
		s.newInstance = RunnerFactory(params.Metrics)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Service) Exercises(ctx context.Context) []ExerciseInfo {
	_, span := tracing.GlobalTracer.Start(ctx, "service.session.exercises")
	defer span.End()

	catalog := exercise.Catalog()
	infos := make([]ExerciseInfo, 0, len(catalog))
	for _, def := range catalog {
		infos = append(infos, ExerciseInfo{
			Kind:        def.Kind,
			Name:        def.Name,
			Description: def.Description,
			Sides:       def.Sides,
			Direction:   def.Direction.String(),
			Thresholds:  def.Thresholds,
		})
	}
	return infos
}

func (s *Service) Create(ctx context.Context, plan Plan) (_ State, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "service.session.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		return State{}, fmt.Errorf("%w: limit %d", ErrTooManySessions, s.maxSessions)
	}

	id := uuid.NewString()
	span.SetAttributes(
		attribute.String("session.id", id),
		attribute.Int("session.exercises", len(plan.Exercises)),
	)

	sess, err := New(id, plan.WithDefaults(s.defaults), s.now(), s.newInstance)
	if err != nil {
		return State{}, fmt.Errorf("new session: %w", err)
	}
	s.sessions[id] = sess

	if s.metrics != nil {
		s.metrics.CounterSessions.Inc()
		s.metrics.GaugeLiveSessions.Inc()
	}
	log.Infof("session [%s]: started plan %q with %d exercises", id, plan.Name, len(plan.Exercises))

	return sess.State(), nil
}

func (s *Service) Get(ctx context.Context, id string) (_ *Session, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "service.session.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", id))

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

func (s *Service) State(ctx context.Context, id string) (State, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return State{}, err
	}
	return sess.State(), nil
}

func (s *Service) Observe(ctx context.Context, id string, frames []pose.Observation) (_ State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.session.observe")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.frames", len(frames)))

	sess, err := s.Get(ctx, id)
	if err != nil {
		return State{}, err
	}
	for i, obs := range frames {
		if err := sess.Observe(obs); err != nil {
			return State{}, fmt.Errorf("observe frame %d: %w", i, err)
		}
	}
	return sess.State(), nil
}

func (s *Service) ShowInstructions(ctx context.Context, id string) (bool, State, error) {
	return s.control(ctx, "instructions", id, (*Session).ShowInstructions)
}

func (s *Service) Enter(ctx context.Context, id string, state exercise.State) (bool, State, error) {
	return s.control(ctx, "enter."+state.String(), id, func(sess *Session) (bool, error) {
		return sess.Enter(state)
	})
}

func (s *Service) Reset(ctx context.Context, id string) (bool, State, error) {
	return s.control(ctx, "reset", id, (*Session).Reset)
}

// Skip abandons the running exercise and returns its summary.
func (s *Service) Skip(ctx context.Context, id string) (_ exercise.Summary, _ State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.session.skip")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sess, err := s.Get(ctx, id)
	if err != nil {
		return exercise.Summary{}, State{}, err
	}
	sum, err := sess.Skip()
	if err != nil {
		return exercise.Summary{}, State{}, err
	}
	return sum, sess.State(), nil
}

func (s *Service) control(ctx context.Context, name, id string, op func(*Session) (bool, error)) (_ bool, _ State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.session.control."+name)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sess, err := s.Get(ctx, id)
	if err != nil {
		return false, State{}, err
	}
	ok, err := op(sess)
	if err != nil {
		return false, State{}, err
	}
	span.SetAttributes(attribute.Bool("session.accepted", ok))
	return ok, sess.State(), nil
}

// Report serves live sessions first, then closed ones from the cache.
func (s *Service) Report(ctx context.Context, id string) (_ Report, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.session.report")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sess, err := s.Get(ctx, id)
	if err == nil {
		return sess.Report(), nil
	}
	if s.cache == nil {
		return Report{}, ErrNotFound
	}
	return s.cache.Get(id)
}

// Close stops a session, removes it from the registry and caches its report.
func (s *Service) Close(ctx context.Context, id string) (_ Report, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "service.session.close")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", id))

	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return Report{}, ErrNotFound
	}

	return s.close(sess), nil
}

// Shutdown closes every live session.
func (s *Service) Shutdown() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, sess := range sessions {
		s.close(sess)
	}
	log.Debugf("session service: closed %d sessions", len(sessions))
}

func (s *Service) Live() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Service) close(sess *Session) Report {
	report := sess.Close()
	if s.metrics != nil {
		s.metrics.GaugeLiveSessions.Dec()
	}
	if s.cache != nil {
		if err := s.cache.Set(report); err != nil {
			log.Errorf("session [%s]: %s", sess.ID(), err)
		}
	}
	log.Infof("session [%s]: closed with %d/%d reps", sess.ID(), report.FinishedReps, report.TotalReps)
	return report
}
