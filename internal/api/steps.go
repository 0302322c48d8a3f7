package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/opencell/reactor-core/internal/runner"
	"github.com/opencell/reactor-core/internal/tasks"
)

// startStepRequest is the request body for POST /steps.
type startStepRequest struct {
	Kind   string       `json:"kind"`
	Params tasks.Params `json:"params"`
}

// stepStatus wraps the runner status with an active flag for API
// responses.
type stepStatus struct {
	runner.Status
	Active bool `json:"active"`
}

// handleStartStep begins executing a recipe step. Exactly one step
// runs at a time; starting while one is active returns 409.
func (s *Server) handleStartStep(w http.ResponseWriter, r *http.Request) {
	var req startStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Kind == "" {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "kind is required")
		return
	}

	core, err := s.manager.Core()
	if err != nil {
		writeUnavailable(w, "no hardware loaded")
		return
	}

	runID, err := s.runner.Start(r.Context(), core, req.Kind, req.Params)
	switch {
	case errors.Is(err, runner.ErrStepActive):
		writeConflict(w, "a step is already running")
		return
	case errors.Is(err, tasks.ErrUnknownKind):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	case err != nil:
		s.logger.Error("failed to start step", "kind", req.Kind, "error", err)
		writeInternalError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"run_id": runID,
		"kind":   req.Kind,
		"status": "running",
	})
}

// handleStopStep requests the active step to stop at its next wait
// boundary and waits for it to wind down.
func (s *Server) handleStopStep(w http.ResponseWriter, _ *http.Request) {
	if err := s.runner.Stop(); err != nil {
		if errors.Is(err, runner.ErrNoActiveStep) {
			writeConflict(w, "no step is running")
			return
		}
		writeInternalError(w, err.Error())
		return
	}

	status, active := s.runner.Current()
	writeJSON(w, http.StatusOK, stepStatus{Status: status, Active: active})
}

// handleCurrentStep reports the current or most recent step.
func (s *Server) handleCurrentStep(w http.ResponseWriter, _ *http.Request) {
	status, active := s.runner.Current()
	if status.RunID == "" {
		writeNotFound(w, "no step has run yet")
		return
	}
	writeJSON(w, http.StatusOK, stepStatus{Status: status, Active: active})
}
