package session

import (
	"errors"
	"fmt"

	"github.com/2beens/physiotrack/internal/exercise"
	"github.com/2beens/physiotrack/internal/pose"

	"go.uber.org/multierr"
)

var ErrEmptyPlan = errors.New("plan has no exercises")

// Plan is the ordered list of exercises a session runs through.
type Plan struct {
	Name      string            `json:"name" yaml:"name"`
	Exercises []exercise.Config `json:"exercises" yaml:"exercises"`
}

// WithDefaults returns a copy of p with unset timing fields taken from t.
func (p Plan) WithDefaults(t exercise.Timing) Plan {
	out := Plan{
		Name:      p.Name,
		Exercises: make([]exercise.Config, len(p.Exercises)),
	}
	for i, cfg := range p.Exercises {
		cfg.ApplyDefaults(t)
		out.Exercises[i] = cfg
	}
	return out
}

// Validate reports every invalid exercise at once.
func (p Plan) Validate() error {
	if len(p.Exercises) == 0 {
		return ErrEmptyPlan
	}
	var errs error
	for i, cfg := range p.Exercises {
		if err := cfg.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("exercise %d (%s): %w", i, cfg.Kind, err))
		}
	}
	return errs
}

// PlannedReps sums the repetitions of every exercise, counting both sides
// of alternating ones.
func (p Plan) PlannedReps() int {
	total := 0
	for _, cfg := range p.Exercises {
		sides := 1
		if cfg.Side == pose.SideBoth {
			sides = 2
		}
		total += cfg.TotalSets * cfg.TotalRepsPerSet * sides
	}
	return total
}
