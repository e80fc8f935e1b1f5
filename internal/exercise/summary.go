package exercise

import (
	"time"

	"github.com/2beens/physiotrack/internal/pose"
)

// RepetitionEvent is emitted each time a repetition completes, given up or not.
type RepetitionEvent struct {
	Exercise Kind          `json:"exercise"`
	Side     pose.Side     `json:"side"`
	Set      int           `json:"set"`
	Rep      int           `json:"rep"`
	Good     bool          `json:"good"`
	GiveUp   bool          `json:"give_up"`
	Duration time.Duration `json:"duration"`
}

type SetRecord struct {
	Side          pose.Side `json:"side"`
	Number        int       `json:"number"`
	CompletedReps int       `json:"completed_reps"`
	TotalReps     int       `json:"total_reps"`
	GiveUps       int       `json:"give_ups"`
	BadReps       int       `json:"bad_reps"`
}

type SideSummary struct {
	Side          pose.Side `json:"side"`
	TotalReps     int       `json:"total_reps"`
	CompletedReps int       `json:"completed_reps"`
	TotalSets     int       `json:"total_sets"`
	CompletedSets int       `json:"completed_sets"`
}

// Summary describes the outcome of one exercise instance.
// TotalReps is per set. CompletedReps counts the set in progress, or the last
// finished set when none is in progress. For alternating exercises the top level
// figures belong to the side attempted last, Sides has both.
type Summary struct {
	Exercise      Kind      `json:"exercise"`
	Side          pose.Side `json:"side"`
	TotalReps     int       `json:"total_reps"`
	CompletedReps int       `json:"completed_reps"`
	TotalSets     int       `json:"total_sets"`
	CompletedSets int       `json:"completed_sets"`

	// FinishedReps and PlannedReps count over every set and side.
	FinishedReps int `json:"finished_reps"`
	PlannedReps  int `json:"planned_reps"`
	GiveUps      int `json:"give_ups"`
	BadReps      int `json:"bad_reps"`

	Finished  bool          `json:"finished"`
	Abandoned bool          `json:"abandoned"`
	Sides     []SideSummary `json:"sides"`
	Sets      []SetRecord   `json:"sets"`
}

func (m *Machine) Summary() Summary {
	sides := []pose.Side{m.cfg.Side}
	if m.cfg.Side == pose.SideBoth {
		sides = []pose.Side{pose.SideRight, pose.SideLeft}
	}

	finished := m.state == StateExerciseEnd
	s := Summary{
		Exercise:     m.cfg.Kind,
		Side:         m.cfg.Side,
		FinishedReps: m.tracking.CompletedReps,
		PlannedReps:  m.cfg.TotalSets * m.cfg.TotalRepsPerSet * len(sides),
		GiveUps:      m.giveUps,
		BadReps:      m.badReps,
		Finished:     finished,
		Abandoned:    m.abandoned && !finished,
		Sets:         append([]SetRecord(nil), m.sets...),
	}

	for _, side := range sides {
		s.Sides = append(s.Sides, m.sideSummary(side))
	}
	last := m.sideSummary(m.tracking.CurrentSide)
	s.TotalReps = last.TotalReps
	s.CompletedReps = last.CompletedReps
	s.TotalSets = last.TotalSets
	s.CompletedSets = last.CompletedSets

	return s
}

func (m *Machine) sideSummary(side pose.Side) SideSummary {
	ss := SideSummary{
		Side:      side,
		TotalReps: m.cfg.TotalRepsPerSet,
		TotalSets: m.cfg.TotalSets,
	}
	for _, rec := range m.sets {
		if rec.Side != side {
			continue
		}
		ss.CompletedSets++
		ss.CompletedReps = rec.CompletedReps
	}
	if side == m.tracking.CurrentSide && m.setReps > 0 {
		ss.CompletedReps = m.setReps
	}
	return ss
}
