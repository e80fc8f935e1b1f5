package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/2beens/physiotrack/internal/session"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// sessionService is the part of session.Service the tools read from.
type sessionService interface {
	Exercises(ctx context.Context) []session.ExerciseInfo
	State(ctx context.Context, id string) (session.State, error)
	Report(ctx context.Context, id string) (session.Report, error)
}

// Handler turns tool calls into session service reads and formats the results.
type Handler struct {
	service sessionService
}

func NewHandler(service sessionService) *Handler {
	return &Handler{
		service: service,
	}
}

// SessionInput is the input of the per session tools.
type SessionInput struct {
	SessionID string `json:"session_id" jsonschema:"Session id as returned by POST /sessions"`
}

// ListExercisesTool returns the MCP tool handler for list_exercises.
func (h *Handler) ListExercisesTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		return jsonResult(h.service.Exercises(ctx))
	}
}

// GetSessionStateTool returns the MCP tool handler for get_session_state.
func (h *Handler) GetSessionStateTool() func(context.Context, *mcp.CallToolRequest, SessionInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in SessionInput) (*mcp.CallToolResult, any, error) {
		if in.SessionID == "" {
			return errorResult("session_id is required"), nil, nil
		}
		state, err := h.service.State(ctx, in.SessionID)
		if err != nil {
			return lookupError(in.SessionID, err), nil, nil
		}
		return jsonResult(state)
	}
}

// GetSessionSummaryTool returns the MCP tool handler for get_session_summary.
func (h *Handler) GetSessionSummaryTool() func(context.Context, *mcp.CallToolRequest, SessionInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in SessionInput) (*mcp.CallToolResult, any, error) {
		if in.SessionID == "" {
			return errorResult("session_id is required"), nil, nil
		}
		report, err := h.service.Report(ctx, in.SessionID)
		if err != nil {
			return lookupError(in.SessionID, err), nil, nil
		}
		return jsonResult(report)
	}
}

func lookupError(id string, err error) *mcp.CallToolResult {
	if errors.Is(err, session.ErrNotFound) {
		return errorResult("No session with id " + id)
	}
	return errorResult("Error reading session: " + err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error()), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}, nil, nil
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
