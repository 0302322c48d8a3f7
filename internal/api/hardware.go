package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/opencell/reactor-core/internal/hardware"
)

// handleTemperature reads the reactor temperature.
func (s *Server) handleTemperature(w http.ResponseWriter, _ *http.Request) {
	core, err := s.manager.Core()
	if err != nil {
		writeUnavailable(w, "no hardware loaded")
		return
	}

	temp, err := core.Temperature()
	if err != nil {
		s.logger.Error("temperature read failed", "error", err)
		writeInternalError(w, "temperature read failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"temperature": temp,
		"uptime":      core.Uptime(),
	})
}

// handlePumpLimits reports the named pump's speed range in mL/s.
func (s *Server) handlePumpLimits(w http.ResponseWriter, r *http.Request) {
	core, err := s.manager.Core()
	if err != nil {
		writeUnavailable(w, "no hardware loaded")
		return
	}

	pump := chi.URLParam(r, "pump")
	limits, err := core.PumpLimits(pump)
	if err != nil {
		if errors.Is(err, hardware.ErrUnknownPump) {
			writeNotFound(w, "unknown pump: "+pump)
			return
		}
		writeInternalError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"pump":      pump,
		"min_speed": limits.MinSpeed,
		"max_speed": limits.MaxSpeed,
	})
}
