package exercise

import (
	"fmt"
	"time"

	"github.com/2beens/physiotrack/internal/pose"

	"go.uber.org/multierr"
)

const (
	DefaultBufferInterval       = 3 * time.Second
	DefaultSetCompletedInterval = 10 * time.Second
	DefaultGiveUpAfter          = 15 * time.Second
	DefaultStartCountdown       = time.Second
	DefaultTickInterval         = 100 * time.Millisecond
	DefaultCalibrationFrames    = 10
	DefaultConfidenceThreshold  = 0.5
)

// Timing holds the engine wide knobs shared by every exercise of a session.
type Timing struct {
	BufferInterval       time.Duration `json:"buffer_interval" yaml:"buffer_interval"`
	SetCompletedInterval time.Duration `json:"set_completed_interval" yaml:"set_completed_interval"`
	GiveUpAfter          time.Duration `json:"give_up_after" yaml:"give_up_after"`
	StartCountdown       time.Duration `json:"start_countdown" yaml:"start_countdown"`
	TickInterval         time.Duration `json:"tick_interval" yaml:"tick_interval"`
	CalibrationFrames    int           `json:"calibration_frames" yaml:"calibration_frames"`
	ConfidenceThreshold  float64       `json:"confidence_threshold" yaml:"confidence_threshold"`
}

func DefaultTiming() Timing {
	return Timing{
		BufferInterval:       DefaultBufferInterval,
		SetCompletedInterval: DefaultSetCompletedInterval,
		GiveUpAfter:          DefaultGiveUpAfter,
		StartCountdown:       DefaultStartCountdown,
		TickInterval:         DefaultTickInterval,
		CalibrationFrames:    DefaultCalibrationFrames,
		ConfidenceThreshold:  DefaultConfidenceThreshold,
	}
}

// Config parameterizes one exercise instance.
type Config struct {
	Kind            Kind      `json:"kind" yaml:"kind"`
	Side            pose.Side `json:"side" yaml:"side"`
	TotalSets       int       `json:"sets" yaml:"sets"`
	TotalRepsPerSet int       `json:"reps" yaml:"reps"`

	Timing `yaml:",inline"`

	// Thresholds overrides the catalog values for this instance when set.
	Thresholds *Thresholds `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
}

func DefaultConfig(kind Kind, side pose.Side, sets, reps int) Config {
	return Config{
		Kind:            kind,
		Side:            side,
		TotalSets:       sets,
		TotalRepsPerSet: reps,
		Timing:          DefaultTiming(),
	}
}

// ApplyDefaults fills every zero timing field from t.
func (c *Config) ApplyDefaults(t Timing) {
	if c.BufferInterval == 0 {
		c.BufferInterval = t.BufferInterval
	}
	if c.SetCompletedInterval == 0 {
		c.SetCompletedInterval = t.SetCompletedInterval
	}
	if c.GiveUpAfter == 0 {
		c.GiveUpAfter = t.GiveUpAfter
	}
	if c.StartCountdown == 0 {
		c.StartCountdown = t.StartCountdown
	}
	if c.TickInterval == 0 {
		c.TickInterval = t.TickInterval
	}
	if c.CalibrationFrames == 0 {
		c.CalibrationFrames = t.CalibrationFrames
	}
	if c.ConfidenceThreshold == 0 {
		c.ConfidenceThreshold = t.ConfidenceThreshold
	}
}

// Validate reports every problem with c at once, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	var errs error

	def, known := catalog[c.Kind]
	if !known {
		errs = multierr.Append(errs, fmt.Errorf("%w: %q", ErrUnknownKind, c.Kind))
	}
	if !c.Side.IsValid() {
		errs = multierr.Append(errs, fmt.Errorf("side must be left, right or both"))
	} else if known && !def.Supports(c.Side) {
		errs = multierr.Append(errs, fmt.Errorf("%s does not support side %s", c.Kind, c.Side))
	}

	if c.TotalSets <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("sets must be positive, got %d", c.TotalSets))
	}
	if c.TotalRepsPerSet <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("reps must be positive, got %d", c.TotalRepsPerSet))
	}

	durations := []struct {
		name string
		d    time.Duration
	}{
		{"buffer_interval", c.BufferInterval},
		{"set_completed_interval", c.SetCompletedInterval},
		{"give_up_after", c.GiveUpAfter},
		{"start_countdown", c.StartCountdown},
		{"tick_interval", c.TickInterval},
	}
	for _, d := range durations {
		if d.d <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("%s must be positive, got %s", d.name, d.d))
		}
	}

	if c.CalibrationFrames <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("calibration_frames must be positive, got %d", c.CalibrationFrames))
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold >= 1 {
		errs = multierr.Append(errs, fmt.Errorf("confidence_threshold must be in [0, 1), got %v", c.ConfidenceThreshold))
	}
	if c.Thresholds != nil {
		errs = multierr.Append(errs, c.Thresholds.validate())
	}

	if errs != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errs)
	}
	return nil
}
