// Package api provides HTTP handlers for TriageFlow endpoints.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/LumenHealth/TriageFlow/internal/engine"
	"github.com/LumenHealth/TriageFlow/internal/models"
)

// sessionCreated is the createSessionHandler result payload.
type sessionCreated struct {
	SessionID string            `json:"session_id"`
	Result    models.FlowResult `json:"result"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("ok", nil))
}

func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.createSessionHandler: creating session")
	ctrl := engine.New()
	result, err := ctrl.ProcessResponse(models.PseudoInit, true)
	if err != nil {
		slog.Error("Server.createSessionHandler: failed to initialize engine", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to initialize session"))
		return
	}
	id := uuid.NewString()
	sess := s.addSession(id, ctrl)
	s.checkpoint(sess)
	slog.Info("Server.createSessionHandler: session created", "session_id", id)
	writeJSONResponse(w, http.StatusCreated, models.Success(sessionCreated{SessionID: id, Result: result}))
}

func (s *Server) submitResponseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	var sub models.ResponseSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		slog.Warn("Server.submitResponseHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if sub.QuestionID == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("question_id is required"))
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	result, err := sess.ctrl.ProcessResponse(sub.QuestionID, sub.Value)
	if err != nil {
		slog.Warn("Server.submitResponseHandler: response rejected", "session_id", sess.id, "question_id", sub.QuestionID, "error", err)
		writeJSONResponse(w, statusForEngineError(err), models.Error(err.Error()))
		return
	}
	s.checkpoint(sess)
	if result.Kind == models.FlowResultComplete && result.Results != nil {
		if err := s.store.SaveResults(sess.id, *result.Results); err != nil {
			slog.Error("Server.submitResponseHandler: failed to persist results", "error", err, "session_id", sess.id)
		}
	}
	slog.Debug("Server.submitResponseHandler: response accepted", "session_id", sess.id, "question_id", sub.QuestionID, "kind", result.Kind)
	writeJSONResponse(w, http.StatusOK, models.Success(result))
}

func (s *Server) continueHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	result, err := sess.ctrl.ProcessResponse(models.PseudoContinue, true)
	if err != nil {
		slog.Warn("Server.continueHandler: continue rejected", "session_id", sess.id, "error", err)
		writeJSONResponse(w, statusForEngineError(err), models.Error(err.Error()))
		return
	}
	s.checkpoint(sess)
	writeJSONResponse(w, http.StatusOK, models.Success(result))
}

func (s *Server) abandonHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.ctrl.Abandon(); err != nil {
		writeJSONResponse(w, statusForEngineError(err), models.Error(err.Error()))
		return
	}
	s.checkpoint(sess)
	slog.Info("Server.abandonHandler: session abandoned", "session_id", sess.id)
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Session abandoned", nil))
}

func (s *Server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	snap := sess.ctrl.State()
	snap.SessionID = sess.id
	writeJSONResponse(w, http.StatusOK, models.Success(snap))
}

func (s *Server) getResponsesHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	writeJSONResponse(w, http.StatusOK, models.Success(sess.ctrl.Responses()))
}

func (s *Server) getResultsHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	results, err := sess.ctrl.Results()
	if err != nil {
		writeJSONResponse(w, http.StatusConflict, models.Error("Session is not complete yet"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(results))
}

// lookupSession resolves the path session id to a live session, restoring
// from the store when needed, and writes the error response itself on
// failure.
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*session, bool) {
	id := chi.URLParam(r, "sessionID")
	if id == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Session id is required"))
		return nil, false
	}
	sess, err := s.getOrRestoreSession(id)
	if err != nil {
		slog.Error("Server.lookupSession: failed to load session", "error", err, "session_id", id)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to load session"))
		return nil, false
	}
	if sess == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Session not found"))
		return nil, false
	}
	return sess, true
}

// statusForEngineError maps engine sentinel errors to HTTP status codes.
// Sequencing violations are conflicts (the caller is out of step), value
// problems are bad requests, and terminal sessions are gone.
func statusForEngineError(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrNoPendingDomain),
		errors.Is(err, models.ErrSessionNotStarted):
		return http.StatusConflict
	case errors.Is(err, models.ErrValueType),
		errors.Is(err, models.ErrValueOutOfRange),
		errors.Is(err, models.ErrUnknownOption),
		errors.Is(err, models.ErrMissingValue):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrSessionComplete),
		errors.Is(err, models.ErrSessionAbandoned):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
