package exercise

import (
	"fmt"
	"time"

	"github.com/2beens/physiotrack/internal/pose"

	log "github.com/sirupsen/logrus"
)

// TimerKind names the wall clock timers a machine runs.
type TimerKind int

const (
	// TimerCountdown moves InPosition to Repetition once.
	TimerCountdown TimerKind = iota + 1
	// TimerGiveUp ticks while a repetition is pending.
	TimerGiveUp
	// TimerBuffer ticks during the rest between repetitions.
	TimerBuffer
)

func (k TimerKind) String() string {
	switch k {
	case TimerCountdown:
		return "countdown"
	case TimerGiveUp:
		return "give_up"
	case TimerBuffer:
		return "buffer"
	default:
		return fmt.Sprintf("timer(%d)", int(k))
	}
}

var timerKinds = []TimerKind{TimerCountdown, TimerGiveUp, TimerBuffer}

// TimerBackend arms and cancels keyed timers. scheduler.Timers and
// scheduler.Virtual both satisfy it.
type TimerBackend interface {
	Start(key string, interval time.Duration, repeat bool, fire func())
	Cancel(key string)
}

// Observer is notified synchronously from inside the machine.
// Implementations must not call back into the machine.
type Observer interface {
	OnTransition(kind Kind, from, to State)
	OnRejectedTransition(kind Kind, from, to State)
	OnRepetition(ev RepetitionEvent)
}

type Option func(*Machine)

func WithObserver(o Observer) Option {
	return func(m *Machine) {
		m.observers = append(m.observers, o)
	}
}

// WithClock sets the time source used to measure repetitions.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// Machine drives one exercise instance through its states. It is not safe
// for concurrent use: observations, timer firings and control calls must be
// serialized by the owner, see Runner.
type Machine struct {
	def    *Definition
	cfg    Config
	th     Thresholds
	timers TimerBackend

	state    State
	tracking Tracking

	instructionsShown bool
	abandoned         bool
	repStartedAt      time.Time

	// current set
	setReps    int
	setGiveUps int
	setBad     int

	sets      []SetRecord
	giveUps   int
	badReps   int
	observers []Observer
	now       func() time.Time
}

func NewMachine(cfg Config, timers TimerBackend, opts ...Option) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	def, err := Lookup(cfg.Kind)
	if err != nil {
		return nil, err
	}

	th := def.Thresholds
	if cfg.Thresholds != nil {
		th = *cfg.Thresholds
	}

	m := &Machine{
		def:      def,
		cfg:      cfg,
		th:       th,
		timers:   timers,
		state:    StateInitial,
		tracking: newTracking(cfg),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) Tracking() Tracking {
	return m.tracking
}

func (m *Machine) Config() Config {
	return m.cfg
}

func (m *Machine) Definition() *Definition {
	return m.def
}

func (m *Machine) InstructionsShown() bool {
	return m.instructionsShown
}

// Status is a display snapshot of the machine.
func (m *Machine) Status() Status {
	return Status{
		Exercise:          m.cfg.Kind,
		State:             m.state,
		Side:              m.tracking.CurrentSide,
		InstructionsShown: m.instructionsShown,
		Completed:         m.Completed(),
		Tracking:          m.tracking,
	}
}

// Completed is true once the exercise ended or was abandoned.
func (m *Machine) Completed() bool {
	return m.state == StateExerciseEnd || m.abandoned
}

func (m *Machine) Abandoned() bool {
	return m.abandoned
}

// ShowInstructions records that the user saw the instructions and starts calibration.
func (m *Machine) ShowInstructions() bool {
	if m.abandoned || m.state != StateInitial {
		return false
	}
	m.instructionsShown = true
	return m.Enter(StateCalibration)
}

// Enter requests a transition. It is a no-op returning false unless the
// current state is a declared source of target.
func (m *Machine) Enter(target State) bool {
	from := m.state
	if m.abandoned || !CanEnter(from, target) {
		log.Tracef("exercise [%s]: rejected %s -> %s", m.cfg.Kind, from, target)
		for _, o := range m.observers {
			o.OnRejectedTransition(m.cfg.Kind, from, target)
		}
		return false
	}

	m.leave(from)
	m.state = target
	log.Debugf("exercise [%s/%s]: %s -> %s", m.cfg.Kind, m.tracking.CurrentSide, from, target)
	for _, o := range m.observers {
		o.OnTransition(m.cfg.Kind, from, target)
	}
	m.arrive(target)

	return true
}

func (m *Machine) leave(from State) {
	switch from {
	case StateInPosition:
		m.cancel(TimerCountdown)
	case StateRepetitionInProgress:
		m.cancel(TimerGiveUp)
		m.finishRepetition()
	case StateRepetitionCompleted:
		m.cancel(TimerBuffer)
		m.closeRepetition()
	}
}

func (m *Machine) arrive(state State) {
	tr := &m.tracking
	switch state {
	case StateCalibration:
		tr.CalibrationFrames = 0
	case StateInPosition:
		m.schedule(TimerCountdown, m.cfg.StartCountdown, false)
	case StateRepetition:
		m.nextRepetition()
	case StateRepetitionInitial:
		tr.RepetitionIsGood = true
		tr.IsGiveUp = false
		tr.CurrentAngleFrames = 0
		tr.GiveUpTimeRemaining = m.cfg.GiveUpAfter
		m.repStartedAt = m.now()
		m.schedule(TimerGiveUp, m.cfg.TickInterval, true)
	case StateRepetitionCompleted:
		m.schedule(TimerBuffer, m.cfg.TickInterval, true)
	case StateExerciseEnd:
		m.cancelAll()
		log.Debugf("exercise [%s]: finished, %d reps in %d sets", m.cfg.Kind, tr.CompletedReps, tr.CompletedSets)
	}
}

// nextRepetition is the decision node: switch sides, end the exercise or go on.
func (m *Machine) nextRepetition() {
	tr := &m.tracking
	switch {
	case tr.RemainingSets <= 0 && m.cfg.Side == pose.SideBoth && tr.CurrentSide == pose.SideRight:
		tr.switchSide(m.cfg)
		m.Enter(StateStart)
	case tr.RemainingSets <= 0:
		m.Enter(StateExerciseEnd)
	case tr.FirstRepetition:
		m.Enter(StateRepetitionInitial)
	default:
		m.Enter(StateStart)
	}
}

// finishRepetition books a repetition on its way to RepetitionCompleted.
func (m *Machine) finishRepetition() {
	tr := &m.tracking
	tr.CurrentAngleFrames = 0
	tr.RemainingReps--
	tr.CompletedReps++

	m.setReps++
	if tr.IsGiveUp {
		m.setGiveUps++
		m.giveUps++
	}
	if !tr.RepetitionIsGood {
		m.setBad++
		m.badReps++
	}

	if tr.RemainingReps <= 0 {
		tr.SetCompleted = true
		tr.BufferTimeRemaining = m.cfg.SetCompletedInterval
	} else {
		tr.BufferTimeRemaining = m.cfg.BufferInterval
	}

	ev := RepetitionEvent{
		Exercise: m.cfg.Kind,
		Side:     tr.CurrentSide,
		Set:      m.setsOnSide(tr.CurrentSide) + 1,
		Rep:      m.setReps,
		Good:     tr.RepetitionIsGood,
		GiveUp:   tr.IsGiveUp,
		Duration: m.now().Sub(m.repStartedAt),
	}
	for _, o := range m.observers {
		o.OnRepetition(ev)
	}
}

// closeRepetition runs when the rest after a repetition is over.
func (m *Machine) closeRepetition() {
	tr := &m.tracking
	if tr.SetCompleted {
		m.sets = append(m.sets, SetRecord{
			Side:          tr.CurrentSide,
			Number:        m.setsOnSide(tr.CurrentSide) + 1,
			CompletedReps: m.setReps,
			TotalReps:     m.cfg.TotalRepsPerSet,
			GiveUps:       m.setGiveUps,
			BadReps:       m.setBad,
		})
		m.setReps, m.setGiveUps, m.setBad = 0, 0, 0

		tr.RemainingSets--
		tr.CompletedSets++
		tr.RemainingReps = m.cfg.TotalRepsPerSet
		tr.SetCompleted = false
	}
	tr.FirstRepetition = false
	if tr.CurrentSide == pose.SideLeft {
		tr.FirstLeftRepetition = false
	}
	tr.IsGiveUp = false
}

// Process feeds one observation to the classifier of the current state.
// States without a classifier ignore it.
func (m *Machine) Process(obs pose.Observation) State {
	if m.Completed() {
		return m.state
	}

	env := &Env{Config: &m.cfg, Thresholds: &m.th, Tracking: &m.tracking}
	c := m.def.Classifiers

	switch m.state {
	case StateCalibration:
		if c.Start.Check(obs, env) {
			m.Enter(StateStart)
		}
	case StateStart:
		if c.InPosition.Check(obs, env) {
			if m.tracking.FirstRepetition {
				m.Enter(StateInPosition)
			} else {
				m.Enter(StateRepetitionInitial)
			}
		}
	case StateRepetitionInitial:
		if c.Repetition.Check(obs, env) {
			m.Enter(StateRepetitionInProgress)
		}
	case StateRepetitionInProgress:
		if c.RepetitionInProgress.Check(obs, env) {
			m.Enter(StateRepetitionCompleted)
		}
	}

	return m.state
}

// HandleTimer applies one firing of kind. Firings that no longer match the
// current state are ignored and cancel their timer.
func (m *Machine) HandleTimer(kind TimerKind) {
	tr := &m.tracking
	switch kind {
	case TimerCountdown:
		if m.Completed() || m.state != StateInPosition {
			return
		}
		m.Enter(StateRepetition)

	case TimerGiveUp:
		if m.Completed() || (m.state != StateRepetitionInitial && m.state != StateRepetitionInProgress) {
			m.cancel(TimerGiveUp)
			return
		}
		tr.GiveUpTimeRemaining -= m.cfg.TickInterval
		if tr.GiveUpTimeRemaining > 0 {
			return
		}
		tr.GiveUpTimeRemaining = 0
		tr.IsGiveUp = true
		log.Debugf("exercise [%s/%s]: repetition given up", m.cfg.Kind, tr.CurrentSide)
		if m.state == StateRepetitionInitial {
			m.Enter(StateRepetitionInProgress)
		}
		m.Enter(StateRepetitionCompleted)

	case TimerBuffer:
		if m.Completed() || m.state != StateRepetitionCompleted {
			m.cancel(TimerBuffer)
			return
		}
		tr.BufferTimeRemaining -= m.cfg.TickInterval
		if tr.BufferTimeRemaining > 0 {
			return
		}
		tr.BufferTimeRemaining = 0
		m.Enter(StateRepetition)
	}
}

// Reset starts a fresh attempt from Initial. An abandoned machine stays frozen.
func (m *Machine) Reset() bool {
	if m.abandoned {
		return false
	}
	m.cancelAll()

	from := m.state
	m.state = StateInitial
	m.tracking = newTracking(m.cfg)
	m.instructionsShown = false
	m.sets = nil
	m.setReps, m.setGiveUps, m.setBad = 0, 0, 0
	m.giveUps, m.badReps = 0, 0

	log.Debugf("exercise [%s]: reset from %s", m.cfg.Kind, from)
	return true
}

// Abandon cancels all timers and freezes the machine.
func (m *Machine) Abandon() {
	if m.abandoned {
		return
	}
	m.cancelAll()
	m.abandoned = true
}

func (m *Machine) setsOnSide(side pose.Side) int {
	n := 0
	for _, s := range m.sets {
		if s.Side == side {
			n++
		}
	}
	return n
}

func (m *Machine) schedule(kind TimerKind, interval time.Duration, repeat bool) {
	m.timers.Start(kind.String(), interval, repeat, func() {
		m.HandleTimer(kind)
	})
}

func (m *Machine) cancel(kind TimerKind) {
	m.timers.Cancel(kind.String())
}

func (m *Machine) cancelAll() {
	for _, k := range timerKinds {
		m.cancel(k)
	}
}
