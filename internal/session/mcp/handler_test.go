package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/2beens/physiotrack/internal/exercise"
	"github.com/2beens/physiotrack/internal/pose"
	"github.com/2beens/physiotrack/internal/session"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// mockSessionService implements sessionService for tests.
type mockSessionService struct {
	exercises []session.ExerciseInfo
	state     session.State
	stateErr  error
	report    session.Report
	reportErr error
	lastID    string
}

func (m *mockSessionService) Exercises(ctx context.Context) []session.ExerciseInfo {
	return m.exercises
}

func (m *mockSessionService) State(ctx context.Context, id string) (session.State, error) {
	m.lastID = id
	return m.state, m.stateErr
}

func (m *mockSessionService) Report(ctx context.Context, id string) (session.Report, error) {
	m.lastID = id
	return m.report, m.reportErr
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want *mcp.TextContent", res.Content[0])
	}
	return tc.Text
}

func TestHandler_ListExercisesTool(t *testing.T) {
	svc := &mockSessionService{exercises: []session.ExerciseInfo{
		{Kind: exercise.KindKneeExtension, Name: "Seated knee extension", Sides: []pose.Side{pose.SideLeft, pose.SideRight}},
	}}
	fn := NewHandler(svc).ListExercisesTool()

	res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected IsError")
	}

	var got []session.ExerciseInfo
	if err := json.Unmarshal([]byte(textOf(t, res)), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 1 || got[0].Kind != exercise.KindKneeExtension || len(got[0].Sides) != 2 {
		t.Fatalf("unexpected exercises: %+v", got)
	}
}

func TestHandler_GetSessionStateTool(t *testing.T) {
	t.Run("returns_state", func(t *testing.T) {
		svc := &mockSessionService{state: session.State{
			SessionID:    "s1",
			FinishedReps: 4,
			Current:      &exercise.Status{State: exercise.StateRepetitionInProgress},
		}}
		fn := NewHandler(svc).GetSessionStateTool()

		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, SessionInput{SessionID: "s1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.IsError {
			t.Fatalf("unexpected IsError")
		}
		if svc.lastID != "s1" {
			t.Fatalf("service called with %q", svc.lastID)
		}
		text := textOf(t, res)
		if !strings.Contains(text, `"repetition_in_progress"`) || !strings.Contains(text, `"finished_reps": 4`) {
			t.Fatalf("unexpected content: %s", text)
		}
	})

	t.Run("requires_session_id", func(t *testing.T) {
		fn := NewHandler(&mockSessionService{}).GetSessionStateTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, SessionInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
		if text := textOf(t, res); text != "session_id is required" {
			t.Fatalf("content text = %q", text)
		}
	})

	t.Run("unknown_session", func(t *testing.T) {
		svc := &mockSessionService{stateErr: session.ErrNotFound}
		fn := NewHandler(svc).GetSessionStateTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, SessionInput{SessionID: "gone"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
		if text := textOf(t, res); text != "No session with id gone" {
			t.Fatalf("content text = %q", text)
		}
	})
}

func TestHandler_GetSessionSummaryTool(t *testing.T) {
	t.Run("returns_report", func(t *testing.T) {
		svc := &mockSessionService{report: session.Report{SessionID: "s1", FinishedReps: 6, TotalReps: 6, Finished: true}}
		fn := NewHandler(svc).GetSessionSummaryTool()

		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, SessionInput{SessionID: "s1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var got session.Report
		if err := json.Unmarshal([]byte(textOf(t, res)), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !got.Finished || got.FinishedReps != 6 {
			t.Fatalf("unexpected report: %+v", got)
		}
	})

	t.Run("service_error", func(t *testing.T) {
		svc := &mockSessionService{reportErr: errors.New("cache broken")}
		fn := NewHandler(svc).GetSessionSummaryTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, SessionInput{SessionID: "s1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
		if text := textOf(t, res); text != "Error reading session: cache broken" {
			t.Fatalf("content text = %q", text)
		}
	})
}

func TestNewServer(t *testing.T) {
	s := NewServer(&mockSessionService{})
	if s == nil {
		t.Fatalf("expected server")
	}
	if NewHTTPHandler(s) == nil {
		t.Fatalf("expected http handler")
	}
}
