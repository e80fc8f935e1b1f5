package session

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=session_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/physiotrack/internal/exercise"
	"github.com/2beens/physiotrack/internal/pose"
	"github.com/2beens/physiotrack/internal/telemetry/tracing"
	"github.com/2beens/physiotrack/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type service interface {
	Exercises(ctx context.Context) []ExerciseInfo
	Create(ctx context.Context, plan Plan) (State, error)
	State(ctx context.Context, id string) (State, error)
	Observe(ctx context.Context, id string, frames []pose.Observation) (State, error)
	ShowInstructions(ctx context.Context, id string) (bool, State, error)
	Enter(ctx context.Context, id string, state exercise.State) (bool, State, error)
	Reset(ctx context.Context, id string) (bool, State, error)
	Skip(ctx context.Context, id string) (exercise.Summary, State, error)
	Report(ctx context.Context, id string) (Report, error)
	Close(ctx context.Context, id string) (Report, error)
}

// ControlResponse tells whether the machine accepted a control request.
type ControlResponse struct {
	Accepted bool  `json:"accepted"`
	State    State `json:"state"`
}

type SkipResponse struct {
	Skipped exercise.Summary `json:"skipped"`
	State   State            `json:"state"`
}

type Handler struct {
	service service
}

func NewHandler(service service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/exercises", h.HandleListExercises).Methods("GET", "OPTIONS").Name("list-exercises")
	r.HandleFunc("/sessions", h.HandleCreate).Methods("POST", "OPTIONS").Name("new-session")
	r.HandleFunc("/sessions/{id}", h.HandleState).Methods("GET", "OPTIONS").Name("get-session")
	r.HandleFunc("/sessions/{id}", h.HandleClose).Methods("DELETE", "OPTIONS").Name("close-session")
	r.HandleFunc("/sessions/{id}/frames", h.HandleFrames).Methods("POST", "OPTIONS").Name("session-frames")
	r.HandleFunc("/sessions/{id}/instructions", h.HandleInstructions).Methods("POST", "OPTIONS").Name("session-instructions")
	r.HandleFunc("/sessions/{id}/enter/{state}", h.HandleEnter).Methods("POST", "OPTIONS").Name("session-enter")
	r.HandleFunc("/sessions/{id}/reset", h.HandleReset).Methods("POST", "OPTIONS").Name("session-reset")
	r.HandleFunc("/sessions/{id}/skip", h.HandleSkip).Methods("POST", "OPTIONS").Name("session-skip")
	r.HandleFunc("/sessions/{id}/summary", h.HandleSummary).Methods("GET", "OPTIONS").Name("session-summary")
}

func (h *Handler) HandleListExercises(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.exercises")
	defer span.End()

	pkg.WriteJSON(w, h.service.Exercises(ctx), http.StatusOK)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.create")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		pkg.WriteError(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var plan Plan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		log.Errorf("new session, unmarshal plan: %s", err)
		pkg.WriteError(w, "invalid plan", http.StatusBadRequest)
		return
	}

	state, err := h.service.Create(ctx, plan)
	if err != nil {
		h.writeServiceError(w, "new session", err)
		return
	}
	pkg.WriteJSON(w, state, http.StatusCreated)
}

func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.state")
	defer span.End()

	state, err := h.service.State(ctx, mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, "get session", err)
		return
	}
	pkg.WriteJSON(w, state, http.StatusOK)
}

// HandleFrames accepts a JSON array of observations in capture order.
func (h *Handler) HandleFrames(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.frames")
	defer span.End()

	var frames []pose.Observation
	if err := json.NewDecoder(r.Body).Decode(&frames); err != nil {
		log.Debugf("session frames, unmarshal: %s", err)
		pkg.WriteError(w, "invalid frames", http.StatusBadRequest)
		return
	}
	if len(frames) == 0 {
		pkg.WriteError(w, "no frames", http.StatusBadRequest)
		return
	}

	state, err := h.service.Observe(ctx, mux.Vars(r)["id"], frames)
	if err != nil {
		h.writeServiceError(w, "session frames", err)
		return
	}
	pkg.WriteJSON(w, state, http.StatusAccepted)
}

func (h *Handler) HandleInstructions(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.instructions")
	defer span.End()

	ok, state, err := h.service.ShowInstructions(ctx, mux.Vars(r)["id"])
	h.writeControl(w, "session instructions", ok, state, err)
}

func (h *Handler) HandleEnter(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.enter")
	defer span.End()

	vars := mux.Vars(r)
	target, err := exercise.ParseState(vars["state"])
	if err != nil {
		pkg.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, state, err := h.service.Enter(ctx, vars["id"], target)
	h.writeControl(w, "session enter", ok, state, err)
}

func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.reset")
	defer span.End()

	ok, state, err := h.service.Reset(ctx, mux.Vars(r)["id"])
	h.writeControl(w, "session reset", ok, state, err)
}

func (h *Handler) HandleSkip(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.skip")
	defer span.End()

	skipped, state, err := h.service.Skip(ctx, mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, "session skip", err)
		return
	}
	pkg.WriteJSON(w, SkipResponse{Skipped: skipped, State: state}, http.StatusOK)
}

func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.summary")
	defer span.End()

	report, err := h.service.Report(ctx, mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, "session summary", err)
		return
	}
	pkg.WriteJSON(w, report, http.StatusOK)
}

func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.close")
	defer span.End()

	report, err := h.service.Close(ctx, mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, "close session", err)
		return
	}
	pkg.WriteJSON(w, report, http.StatusOK)
}

func (h *Handler) writeControl(w http.ResponseWriter, op string, ok bool, state State, err error) {
	if err != nil {
		h.writeServiceError(w, op, err)
		return
	}
	pkg.WriteJSON(w, ControlResponse{Accepted: ok, State: state}, http.StatusOK)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		pkg.WriteError(w, "session not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidPlan):
		pkg.WriteError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrTooManySessions):
		pkg.WriteError(w, "too many live sessions", http.StatusTooManyRequests)
	case errors.Is(err, ErrSessionFinished), errors.Is(err, ErrClosed), errors.Is(err, exercise.ErrFinished):
		pkg.WriteError(w, err.Error(), http.StatusConflict)
	default:
		log.Errorf("%s: %s", op, err)
		pkg.WriteError(w, op+" failed", http.StatusInternalServerError)
	}
}
