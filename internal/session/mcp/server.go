package mcp

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with the physiotrack tools: exercise catalog,
// live session state and session summaries.
func NewServer(service sessionService) *mcp.Server {
	h := NewHandler(service)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "physiotrack",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_exercises",
		Description: "Returns every supported exercise: kind, name, description, supported sides, movement direction and the default thresholds the classifiers use.",
	}, h.ListExercisesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_session_state",
		Description: "Returns the live state of a session: which exercise of the plan is running, its state machine state, reps and sets left and the session rep counters. Arg: session_id.",
	}, h.GetSessionStateTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_session_summary",
		Description: "Returns the summary of a session, live or recently closed: per exercise completed and planned reps and sets, per side figures and per set records. Arg: session_id.",
	}, h.GetSessionSummaryTool())

	return s
}

// NewHTTPHandler serves server over the streamable HTTP transport, for mounting at /mcp.
func NewHTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}
