package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/opencell/reactor-core/internal/runlog"
)

// runDetail is a run with its dispense audit trail attached.
type runDetail struct {
	runlog.StepRun
	Dispenses []runlog.DispenseEvent `json:"dispenses"`
}

// handleListRuns returns paginated run history, most recent first.
// Query parameters: status, limit, offset.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	filter := runlog.Filter{
		Status: r.URL.Query().Get("status"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeBadRequest(w, "limit must be an integer")
			return
		}
		filter.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeBadRequest(w, "offset must be an integer")
			return
		}
		filter.Offset = n
	}

	result, err := s.runs.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("listing runs failed", "error", err)
		writeInternalError(w, "failed to list runs")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetRun returns one run with its dispense events.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := s.runs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, runlog.ErrNotFound) {
			writeNotFound(w, "run not found: "+id)
			return
		}
		s.logger.Error("fetching run failed", "run_id", id, "error", err)
		writeInternalError(w, "failed to fetch run")
		return
	}

	dispenses, err := s.runs.Dispenses(r.Context(), id)
	if err != nil {
		s.logger.Error("fetching dispenses failed", "run_id", id, "error", err)
		writeInternalError(w, "failed to fetch dispense events")
		return
	}

	writeJSON(w, http.StatusOK, runDetail{StepRun: *run, Dispenses: dispenses})
}
