package exercise_test

import (
	"testing"

	"github.com/2beens/physiotrack/internal/exercise"
	"github.com/2beens/physiotrack/internal/pose"
	"github.com/2beens/physiotrack/internal/pose/posetest"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFor(t *testing.T, kind exercise.Kind, side pose.Side) (*exercise.Definition, *exercise.Env) {
	t.Helper()
	def, err := exercise.Lookup(kind)
	require.NoError(t, err)

	cfg := exercise.DefaultConfig(kind, side, 1, 1)
	cfg.CalibrationFrames = 3
	th := def.Thresholds
	tr := exercise.Tracking{
		CurrentSide:      side,
		RepetitionIsGood: true,
		FirstRepetition:  true,
	}
	return def, &exercise.Env{Config: &cfg, Thresholds: &th, Tracking: &tr}
}

func randomTracking(side pose.Side) exercise.Tracking {
	return exercise.Tracking{
		RemainingSets:      gofakeit.IntRange(1, 5),
		RemainingReps:      gofakeit.IntRange(1, 15),
		CompletedReps:      gofakeit.IntRange(0, 30),
		CurrentAngleFrames: gofakeit.IntRange(1, 10),
		LastAngle:          gofakeit.Float64Range(0, 180),
		RepetitionIsGood:   gofakeit.Bool(),
		FirstRepetition:    gofakeit.Bool(),
		CurrentSide:        side,
	}
}

func TestClassifiers_MissingJointsChangeNothing(t *testing.T) {
	for _, def := range exercise.Catalog() {
		for _, side := range []pose.Side{pose.SideLeft, pose.SideRight} {
			_, env := envFor(t, def.Kind, side)
			classifiers := map[string]exercise.Classifier{
				"in_position":            def.Classifiers.InPosition,
				"repetition":             def.Classifiers.Repetition,
				"repetition_in_progress": def.Classifiers.RepetitionInProgress,
			}
			for name, c := range classifiers {
				*env.Tracking = randomTracking(side)
				before := *env.Tracking

				empty := pose.NewObservation(posetest.Epoch, nil)
				assert.False(t, c.Check(empty, env), "%s/%s/%s", def.Kind, side, name)
				assert.Equal(t, before, *env.Tracking, "%s/%s/%s", def.Kind, side, name)
			}

			// calibration may only reset its own counter
			*env.Tracking = randomTracking(side)
			env.Tracking.CalibrationFrames = 2
			want := *env.Tracking
			want.CalibrationFrames = 0
			assert.False(t, def.Classifiers.Start.Check(pose.NewObservation(posetest.Epoch, nil), env))
			assert.Equal(t, want, *env.Tracking)
		}
	}
}

func TestClassifiers_LowConfidenceCountsAsMissing(t *testing.T) {
	def, env := envFor(t, exercise.KindKneeExtension, pose.SideRight)
	env.Tracking.LastAngle = restAngle

	obs := posetest.KneeAngle(posetest.Epoch, onsetAngle)
	weak := posetest.WithConfidence(obs, env.Config.ConfidenceThreshold, pose.RightKnee)
	assert.False(t, def.Classifiers.Repetition.Check(weak, env))
	assert.Equal(t, float64(restAngle), env.Tracking.LastAngle)

	missing := posetest.Without(obs, pose.RightAnkle)
	assert.False(t, def.Classifiers.Repetition.Check(missing, env))

	// the other leg is not required
	otherSide := posetest.Without(obs, pose.LeftKnee, pose.LeftAnkle, pose.LeftHip)
	assert.True(t, def.Classifiers.Repetition.Check(otherSide, env))
	assert.InDelta(t, onsetAngle, env.Tracking.LastAngle, 1e-6)
}

func TestClassifiers_DegenerateGeometryFailsClosed(t *testing.T) {
	def, env := envFor(t, exercise.KindKneeExtension, pose.SideRight)
	obs := pose.NewObservation(posetest.Epoch, map[pose.Joint]pose.Keypoint{
		pose.RightHip:   {X: 0.5, Y: 0.6, Confidence: 1},
		pose.RightKnee:  {X: 0.5, Y: 0.6, Confidence: 1},
		pose.RightAnkle: {X: 0.5, Y: 0.8, Confidence: 1},
	})
	assert.False(t, def.Classifiers.InPosition.Check(obs, env))
}

func TestShoulderAbduction(t *testing.T) {
	for _, side := range []pose.Side{pose.SideLeft, pose.SideRight} {
		def, env := envFor(t, exercise.KindShoulderAbduction, side)

		for i := 0; i < 2; i++ {
			assert.False(t, def.Classifiers.Start.Check(posetest.ArmAbduction(posetest.Epoch, 20), env))
		}
		assert.True(t, def.Classifiers.Start.Check(posetest.ArmAbduction(posetest.Epoch, 20), env), side)
		assert.InDelta(t, 20, env.Tracking.LastAngle, 1e-6)

		assert.False(t, def.Classifiers.Repetition.Check(posetest.ArmAbduction(posetest.Epoch, 25), env))
		assert.True(t, def.Classifiers.Repetition.Check(posetest.ArmAbduction(posetest.Epoch, 40), env))

		hold := def.Classifiers.RepetitionInProgress
		done := false
		for i := 0; i <= def.Thresholds.HoldFrames && !done; i++ {
			done = hold.Check(posetest.ArmAbduction(posetest.Epoch, 95), env)
		}
		assert.True(t, done, side)
		assert.True(t, env.Tracking.RepetitionIsGood)
	}
}

func TestShoulderAbduction_ArmMustPointOutward(t *testing.T) {
	def, env := envFor(t, exercise.KindShoulderAbduction, pose.SideRight)
	env.Tracking.LastAngle = 95

	obs := posetest.ArmAbduction(posetest.Epoch, 95)
	crossed := pose.NewObservation(obs.Timestamp, obs.Joints)
	wrist := crossed.Joints[pose.RightWrist]
	wrist.X = 0.52
	crossed.Joints[pose.RightWrist] = wrist

	for i := 0; i < 20; i++ {
		assert.False(t, def.Classifiers.RepetitionInProgress.Check(crossed, env))
	}
	assert.Zero(t, env.Tracking.CurrentAngleFrames)
}

func TestElbowFlexion_DecreasingDirection(t *testing.T) {
	def, env := envFor(t, exercise.KindElbowFlexion, pose.SideLeft)

	require.True(t, def.Classifiers.InPosition.Check(posetest.ElbowAngle(posetest.Epoch, 170), env))
	// extending further is not an onset
	assert.False(t, def.Classifiers.Repetition.Check(posetest.ElbowAngle(posetest.Epoch, 178), env))
	assert.True(t, def.Classifiers.Repetition.Check(posetest.ElbowAngle(posetest.Epoch, 150), env))

	hold := def.Classifiers.RepetitionInProgress
	assert.False(t, hold.Check(posetest.ElbowAngle(posetest.Epoch, 100), env))
	assert.InDelta(t, 100, env.Tracking.LastAngle, 1e-6)

	// dropping back toward straight past the tolerance marks the rep bad
	assert.False(t, hold.Check(posetest.ElbowAngle(posetest.Epoch, 130), env))
	assert.False(t, env.Tracking.RepetitionIsGood)

	done := false
	for i := 0; i <= def.Thresholds.HoldFrames && !done; i++ {
		done = hold.Check(posetest.ElbowAngle(posetest.Epoch, 45), env)
	}
	assert.True(t, done)
}

func TestHipAbduction_SpreadRatio(t *testing.T) {
	for _, side := range []pose.Side{pose.SideLeft, pose.SideRight} {
		def, env := envFor(t, exercise.KindHipAbduction, side)

		require.True(t, def.Classifiers.InPosition.Check(posetest.HipSpread(posetest.Epoch, side, 1.0), env), side)
		assert.InDelta(t, 1.0, env.Tracking.LastAngle, 1e-6)

		assert.False(t, def.Classifiers.Repetition.Check(posetest.HipSpread(posetest.Epoch, side, 1.1), env))
		assert.True(t, def.Classifiers.Repetition.Check(posetest.HipSpread(posetest.Epoch, side, 1.5), env))

		hold := def.Classifiers.RepetitionInProgress
		done := false
		frames := 0
		for i := 0; i < 30 && !done; i++ {
			ratio := 2.6
			if i%2 == 1 {
				ratio = 2.65
			}
			done = hold.Check(posetest.HipSpread(posetest.Epoch, side, ratio), env)
			frames++
		}
		assert.True(t, done, side)
		assert.Equal(t, def.Thresholds.HoldFrames+1, frames)
	}
}

func TestHipAbduction_ZeroHipWidth(t *testing.T) {
	def, env := envFor(t, exercise.KindHipAbduction, pose.SideRight)
	obs := posetest.HipSpread(posetest.Epoch, pose.SideRight, 1.0)
	collapsed := pose.NewObservation(obs.Timestamp, obs.Joints)
	collapsed.Joints[pose.RightHip] = collapsed.Joints[pose.LeftHip]
	assert.False(t, def.Classifiers.InPosition.Check(collapsed, env))
}

func TestCatalog(t *testing.T) {
	defs := exercise.Catalog()
	require.Len(t, defs, 5)
	for i := 1; i < len(defs); i++ {
		assert.Less(t, string(defs[i-1].Kind), string(defs[i].Kind))
	}
	for _, d := range defs {
		assert.NotEmpty(t, d.Name)
		assert.NotNil(t, d.Classifiers.Start)
		assert.NotNil(t, d.Classifiers.InPosition)
		assert.NotNil(t, d.Classifiers.Repetition)
		assert.NotNil(t, d.Classifiers.RepetitionInProgress)
		assert.True(t, d.Kind.IsValid())
	}

	_, err := exercise.Lookup("jumping_jacks")
	assert.ErrorIs(t, err, exercise.ErrUnknownKind)

	squat, err := exercise.Lookup(exercise.KindMiniSquat)
	require.NoError(t, err)
	assert.False(t, squat.Supports(pose.SideBoth))
}
