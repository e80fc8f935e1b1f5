package exercise

import (
	"github.com/2beens/physiotrack/internal/pose"
)

// calibrationCheck needs the start position held for CalibrationFrames
// consecutive frames. Any failing frame, including a missing joint, restarts the count.
func calibrationCheck(d *Definition) Classifier {
	return ClassifierFunc(func(obs pose.Observation, env *Env) bool {
		points, v, ok := d.sample(obs, env)
		qualifies := ok &&
			env.Thresholds.Start.Contains(v) &&
			checkPosture(d.StartPosture, points, env.Side())

		stability := Stability{Target: env.Config.CalibrationFrames}
		stable := stability.Observe(qualifies, &env.Tracking.CalibrationFrames)
		if qualifies {
			env.Tracking.LastAngle = v
		}
		return stable
	})
}

func inPositionCheck(d *Definition) Classifier {
	return ClassifierFunc(func(obs pose.Observation, env *Env) bool {
		points, v, ok := d.sample(obs, env)
		if !ok {
			return false
		}
		if !env.Thresholds.Start.Contains(v) || !checkPosture(d.StartPosture, points, env.Side()) {
			return false
		}
		env.Tracking.LastAngle = v
		return true
	})
}

// repetitionCheck detects the onset of the effort phase.
func repetitionCheck(d *Definition) Classifier {
	return ClassifierFunc(func(obs pose.Observation, env *Env) bool {
		_, v, ok := d.sample(obs, env)
		if !ok {
			return false
		}
		progress := Progress{Direction: d.Direction, MinDelta: env.Thresholds.MinDelta}
		if !progress.Moved(env.Tracking.LastAngle, v) {
			return false
		}
		env.Tracking.LastAngle = v
		return true
	})
}

// holdCheck requires the end position held for HoldFrames frames inside the
// leeway band. Values still on their way to the target move the anchor forward,
// a fall past the regression tolerance marks the repetition bad.
func holdCheck(d *Definition) Classifier {
	return ClassifierFunc(func(obs pose.Observation, env *Env) bool {
		points, v, ok := d.sample(obs, env)
		if !ok {
			return false
		}
		th := env.Thresholds
		tr := env.Tracking

		inTarget := th.Target.Contains(v) && checkPosture(d.HoldPosture, points, env.Side())
		if !inTarget {
			switch {
			case th.Leeway.Regressed(d.Direction, tr.LastAngle, v):
				tr.RepetitionIsGood = false
				tr.CurrentAngleFrames = 0
				tr.LastAngle = v
			case d.Direction.progress(tr.LastAngle, v) > 0:
				tr.LastAngle = v
			}
			return false
		}

		switch th.Leeway.Hold(d.Direction, tr.LastAngle, v, tr.CurrentAngleFrames, th.HoldFrames) {
		case HoldSteady:
			tr.CurrentAngleFrames++
		case HoldRegressed:
			tr.RepetitionIsGood = false
			tr.CurrentAngleFrames = 0
		case HoldMoved:
			tr.CurrentAngleFrames = 0
		}
		tr.LastAngle = v

		return tr.CurrentAngleFrames >= th.HoldFrames
	})
}

func (d *Definition) withDefaultClassifiers() *Definition {
	if d.Classifiers.Start == nil {
		d.Classifiers.Start = calibrationCheck(d)
	}
	if d.Classifiers.InPosition == nil {
		d.Classifiers.InPosition = inPositionCheck(d)
	}
	if d.Classifiers.Repetition == nil {
		d.Classifiers.Repetition = repetitionCheck(d)
	}
	if d.Classifiers.RepetitionInProgress == nil {
		d.Classifiers.RepetitionInProgress = holdCheck(d)
	}
	return d
}
