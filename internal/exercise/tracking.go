package exercise

import (
	"time"

	"github.com/2beens/physiotrack/internal/pose"
)

// Tracking is the mutable bookkeeping of one exercise instance.
// Only the owning machine writes it, callers get copies.
type Tracking struct {
	RemainingSets int `json:"remaining_sets"`
	RemainingReps int `json:"remaining_reps"`
	// CompletedSets and CompletedReps accumulate over both sides.
	CompletedSets int `json:"completed_sets"`
	CompletedReps int `json:"completed_reps"`

	CurrentAngleFrames int     `json:"current_angle_frames"`
	LastAngle          float64 `json:"last_angle"`
	CalibrationFrames  int     `json:"calibration_frames"`

	FirstRepetition     bool `json:"first_repetition"`
	FirstLeftRepetition bool `json:"first_left_repetition"`
	RepetitionIsGood    bool `json:"repetition_is_good"`
	IsGiveUp            bool `json:"is_give_up"`
	SetCompleted        bool `json:"set_completed"`

	BufferTimeRemaining time.Duration `json:"buffer_time_remaining"`
	GiveUpTimeRemaining time.Duration `json:"give_up_time_remaining"`

	CurrentSide pose.Side `json:"current_side"`
}

func newTracking(c Config) Tracking {
	return Tracking{
		RemainingSets:       c.TotalSets,
		RemainingReps:       c.TotalRepsPerSet,
		FirstRepetition:     true,
		FirstLeftRepetition: true,
		RepetitionIsGood:    true,
		CurrentSide:         c.Side.First(),
	}
}

// switchSide starts the left side of an alternating exercise.
// Cumulative completion counts survive, everything else starts over.
func (t *Tracking) switchSide(c Config) {
	completedSets, completedReps := t.CompletedSets, t.CompletedReps
	*t = newTracking(c)
	t.CompletedSets = completedSets
	t.CompletedReps = completedReps
	t.CurrentSide = pose.SideLeft
}
