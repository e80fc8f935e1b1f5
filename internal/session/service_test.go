package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/2beens/physiotrack/internal/exercise"
	"github.com/2beens/physiotrack/internal/pose"
	"github.com/2beens/physiotrack/internal/pose/posetest"
	"github.com/2beens/physiotrack/internal/session"
	"github.com/2beens/physiotrack/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, f *fakeFactory, maxSessions int) (*session.Service, *metrics.Manager) {
	t.Helper()
	metricsManager := metrics.NewTestManager()
	svc := session.NewService(session.ServiceParams{
		MaxSessions: maxSessions,
		Defaults:    exercise.DefaultTiming(),
		NewInstance: f.new,
		Cache:       session.NewSummaryCache(1, time.Hour, metricsManager),
		Metrics:     metricsManager,
		Now:         func() time.Time { return posetest.Epoch },
	})
	return svc, metricsManager
}

func TestService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	f := &fakeFactory{}
	svc, metricsManager := newTestService(t, f, 0)

	st, err := svc.Create(ctx, twoExercisePlan())
	require.NoError(t, err)
	require.NotEmpty(t, st.SessionID)
	assert.Equal(t, "knee rehab", st.Plan)
	assert.Equal(t, 1, svc.Live())
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterSessions))
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.GaugeLiveSessions))

	ok, st, err := svc.ShowInstructions(ctx, st.SessionID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, st.Current.InstructionsShown)

	ok, _, err = svc.Enter(ctx, st.SessionID, exercise.StateExerciseEnd)
	require.NoError(t, err)
	assert.False(t, ok)

	frames := []pose.Observation{
		posetest.KneeAngle(posetest.Epoch, 90),
		posetest.KneeAngle(posetest.Epoch.Add(time.Second), 95),
	}
	_, err = svc.Observe(ctx, st.SessionID, frames)
	require.NoError(t, err)
	assert.Equal(t, 2, f.created[0].observed)

	f.created[0].reps = 3
	skipped, st, err := svc.Skip(ctx, st.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 3, skipped.FinishedReps)
	assert.Equal(t, 1, st.ExerciseIndex)

	live, err := svc.Report(ctx, st.SessionID)
	require.NoError(t, err)
	assert.Len(t, live.Exercises, 2)
	assert.Equal(t, posetest.Epoch, live.StartedAt)

	closed, err := svc.Close(ctx, st.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 3, closed.FinishedReps)
	assert.Equal(t, 6+5, closed.TotalReps)
	assert.Zero(t, svc.Live())
	assert.Equal(t, float64(0), testutil.ToFloat64(metricsManager.GaugeLiveSessions))

	_, err = svc.State(ctx, st.SessionID)
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = svc.Close(ctx, st.SessionID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	// closed sessions are served from the summary cache
	cached, err := svc.Report(ctx, st.SessionID)
	require.NoError(t, err)
	assert.Equal(t, closed.SessionID, cached.SessionID)
	assert.Equal(t, closed.FinishedReps, cached.FinishedReps)
	require.Len(t, cached.Exercises, 2)
	assert.Equal(t, exercise.KindHipAbduction, cached.Exercises[1].Exercise)
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterSummaryCacheLookups.WithLabelValues("hit")))

	_, err = svc.Report(ctx, "unknown")
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterSummaryCacheLookups.WithLabelValues("miss")))
}

func TestService_MaxSessions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &fakeFactory{}, 2)

	for range 2 {
		_, err := svc.Create(ctx, twoExercisePlan())
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, twoExercisePlan())
	assert.ErrorIs(t, err, session.ErrTooManySessions)

	svc.Shutdown()
	assert.Zero(t, svc.Live())
	_, err = svc.Create(ctx, twoExercisePlan())
	assert.NoError(t, err)
}

func TestService_InvalidPlan(t *testing.T) {
	svc, metricsManager := newTestService(t, &fakeFactory{}, 0)

	_, err := svc.Create(context.Background(), session.Plan{Name: "nothing"})
	assert.ErrorIs(t, err, session.ErrInvalidPlan)
	assert.Zero(t, svc.Live())
	assert.Equal(t, float64(0), testutil.ToFloat64(metricsManager.CounterSessions))
}

func TestService_Exercises(t *testing.T) {
	svc, _ := newTestService(t, &fakeFactory{}, 0)

	infos := svc.Exercises(context.Background())
	require.Len(t, infos, len(exercise.Catalog()))
	for _, info := range infos {
		assert.NotEmpty(t, info.Name)
		assert.NotEmpty(t, info.Sides)
		assert.NotEmpty(t, info.Direction)
	}
}

func TestService_WithRunners(t *testing.T) {
	ctx := context.Background()
	metricsManager := metrics.NewTestManager()
	svc := session.NewService(session.ServiceParams{
		Defaults: exercise.DefaultTiming(),
		Metrics:  metricsManager,
	})

	st, err := svc.Create(ctx, twoExercisePlan())
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.GaugeLiveExercises))

	ok, st, err := svc.ShowInstructions(ctx, st.SessionID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, exercise.StateCalibration, st.Current.State)

	ok, _, err = svc.Reset(ctx, st.SessionID)
	require.NoError(t, err)
	assert.True(t, ok)

	svc.Shutdown()
	assert.Equal(t, float64(0), testutil.ToFloat64(metricsManager.GaugeLiveExercises))
	assert.Equal(t, float64(0), testutil.ToFloat64(metricsManager.GaugeLiveSessions))
}

func TestSummaryCache(t *testing.T) {
	cache := session.NewSummaryCache(1, time.Hour, nil)

	_, err := cache.Get("missing")
	assert.ErrorIs(t, err, session.ErrNotFound)

	report := session.Report{
		SessionID:    "abc",
		Plan:         "shoulder",
		StartedAt:    posetest.Epoch,
		FinishedReps: 4,
		TotalReps:    6,
		Exercises: []exercise.Summary{{
			Exercise: exercise.KindShoulderAbduction,
			Side:     pose.SideBoth,
			Sides: []exercise.SideSummary{
				{Side: pose.SideRight, CompletedReps: 3, TotalReps: 3},
				{Side: pose.SideLeft, CompletedReps: 1, TotalReps: 3},
			},
		}},
	}
	require.NoError(t, cache.Set(report))
	assert.Equal(t, int64(1), cache.Len())

	got, err := cache.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, report.Plan, got.Plan)
	assert.True(t, report.StartedAt.Equal(got.StartedAt))
	require.Len(t, got.Exercises, 1)
	assert.Equal(t, pose.SideBoth, got.Exercises[0].Side)
	assert.Equal(t, report.Exercises[0].Sides, got.Exercises[0].Sides)
}
