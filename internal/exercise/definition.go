package exercise

import (
	"slices"

	"github.com/2beens/physiotrack/internal/pose"
)

type Kind string

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	_, ok := catalog[k]
	return ok
}

// Env is what a classifier sees on every call: the instance configuration
// and the tracking state it is allowed to update.
type Env struct {
	Config     *Config
	Thresholds *Thresholds
	Tracking   *Tracking
}

func (e *Env) Side() pose.Side {
	return e.Tracking.CurrentSide
}

// Classifier decides whether one observation satisfies a phase of the exercise.
// Implementations may update the tracking state as a side effect.
type Classifier interface {
	Check(obs pose.Observation, env *Env) bool
}

type ClassifierFunc func(obs pose.Observation, env *Env) bool

func (f ClassifierFunc) Check(obs pose.Observation, env *Env) bool {
	return f(obs, env)
}

// Classifiers is the table of checks an exercise plugs into the machine.
type Classifiers struct {
	// Start runs during calibration.
	Start                Classifier
	InPosition           Classifier
	Repetition           Classifier
	RepetitionInProgress Classifier
}

// Measure extracts the tracked scalar from confident joint positions.
type Measure func(points pose.Points, side pose.Side) (float64, bool)

// Posture is an ordering rule on joint positions.
type Posture func(points pose.Points, side pose.Side) bool

// Definition describes one exercise of the catalog.
type Definition struct {
	Kind        Kind
	Name        string
	Description string
	Sides       []pose.Side
	Direction   Direction
	Thresholds  Thresholds

	Joints  func(side pose.Side) []pose.Joint
	Measure Measure
	// StartPosture and HoldPosture are optional.
	StartPosture Posture
	HoldPosture  Posture

	// Classifiers entries left nil fall back to the generic checks built from the fields above.
	Classifiers Classifiers
}

func (d *Definition) Supports(side pose.Side) bool {
	return slices.Contains(d.Sides, side)
}

// sample reads the tracked value for the current side, ok is false when
// any required joint is missing or the geometry is degenerate.
func (d *Definition) sample(obs pose.Observation, env *Env) (pose.Points, float64, bool) {
	side := env.Side()
	points, ok := obs.Require(env.Config.ConfidenceThreshold, d.Joints(side)...)
	if !ok {
		return nil, 0, false
	}
	v, ok := d.Measure(points, side)
	if !ok {
		return nil, 0, false
	}
	return points, v, true
}

func checkPosture(p Posture, points pose.Points, side pose.Side) bool {
	return p == nil || p(points, side)
}
