package exercise

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Direction is the sense in which the tracked value moves during the effort phase.
type Direction int

const (
	Increasing Direction = iota + 1
	Decreasing
)

func (d Direction) String() string {
	if d == Decreasing {
		return "decreasing"
	}
	return "increasing"
}

// progress is positive when moving from -> to goes the right way.
func (d Direction) progress(from, to float64) float64 {
	if d == Decreasing {
		return from - to
	}
	return to - from
}

// Range is a closed interval.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Stability counts consecutive qualifying frames.
type Stability struct {
	Target int
}

// Observe folds one frame into counter and reports whether Target
// consecutive qualifying frames have been seen. A failing frame resets it.
func (s Stability) Observe(qualifies bool, counter *int) bool {
	if !qualifies {
		*counter = 0
		return false
	}
	*counter++
	return *counter >= s.Target
}

// Progress is the onset check of a repetition.
type Progress struct {
	Direction Direction
	MinDelta  float64
}

func (p Progress) Moved(last, current float64) bool {
	return p.Direction.progress(last, current) >= p.MinDelta
}

// Leeway is the hysteresis band used while the end position is held.
type Leeway struct {
	// Band is the tolerated deviation from the last accepted value, either way.
	Band float64 `json:"band" yaml:"band"`
	// Widened replaces Band once WidenAfter of the hold target is reached.
	Widened    float64 `json:"widened" yaml:"widened"`
	WidenAfter float64 `json:"widen_after" yaml:"widen_after"`
	// Regression is how far against Direction the value may fall before the rep is marked bad.
	Regression float64 `json:"regression" yaml:"regression"`
}

type HoldResult int

const (
	HoldSteady HoldResult = iota
	HoldMoved
	HoldRegressed
)

func (l Leeway) band(frames, target int) float64 {
	if l.Widened > l.Band && l.WidenAfter > 0 && float64(frames) >= l.WidenAfter*float64(target) {
		return l.Widened
	}
	return l.Band
}

// Hold classifies current against the last accepted value.
func (l Leeway) Hold(dir Direction, last, current float64, frames, target int) HoldResult {
	band := l.band(frames, target)
	if current >= last-band && current <= last+band {
		return HoldSteady
	}
	if l.Regressed(dir, last, current) {
		return HoldRegressed
	}
	return HoldMoved
}

func (l Leeway) Regressed(dir Direction, last, current float64) bool {
	return dir.progress(last, current) < -l.Regression
}

// Thresholds are the exercise specific constants the classifiers compare against.
type Thresholds struct {
	Start    Range   `json:"start" yaml:"start"`
	Target   Range   `json:"target" yaml:"target"`
	MinDelta float64 `json:"min_delta" yaml:"min_delta"`
	// HoldFrames is the stability frame target of the held end position.
	HoldFrames int    `json:"hold_frames" yaml:"hold_frames"`
	Leeway     Leeway `json:"leeway" yaml:"leeway"`
}

func (t *Thresholds) validate() error {
	var errs error
	if t.Start.Min > t.Start.Max {
		errs = multierr.Append(errs, errors.New("start range is empty"))
	}
	if t.Target.Min > t.Target.Max {
		errs = multierr.Append(errs, errors.New("target range is empty"))
	}
	if t.MinDelta <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("min_delta must be positive, got %v", t.MinDelta))
	}
	if t.HoldFrames <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("hold_frames must be positive, got %d", t.HoldFrames))
	}
	if t.Leeway.Band < 0 || t.Leeway.Regression < 0 {
		errs = multierr.Append(errs, errors.New("leeway band and regression must not be negative"))
	}
	return errs
}
