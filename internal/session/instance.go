package session

import (
	"github.com/2beens/physiotrack/internal/exercise"
	"github.com/2beens/physiotrack/internal/pose"
	"github.com/2beens/physiotrack/internal/telemetry/metrics"
)

// Instance is one running exercise as the session sees it.
// exercise.Runner is the live implementation.
type Instance interface {
	Kind() exercise.Kind
	Observe(obs pose.Observation) error
	ShowInstructions() (bool, error)
	Enter(state exercise.State) (bool, error)
	Reset() (bool, error)
	Status() exercise.Status
	Summary() exercise.Summary
	// Ended is closed once the exercise reaches ExerciseEnd.
	Ended() <-chan struct{}
	// Stop abandons the exercise unless it ended and returns the final summary.
	Stop() exercise.Summary
}

type InstanceFactory func(cfg exercise.Config) (Instance, error)

// RunnerFactory starts every exercise on its own exercise.Runner.
func RunnerFactory(metricsManager *metrics.Manager, listeners ...exercise.Listener) InstanceFactory {
	return func(cfg exercise.Config) (Instance, error) {
		opts := []exercise.RunnerOption{exercise.WithMetrics(metricsManager)}
		for _, l := range listeners {
			opts = append(opts, exercise.WithListener(l))
		}
		runner, err := exercise.NewRunner(cfg, opts...)
		if err != nil {
			return nil, err
		}
		return runner, nil
	}
}
