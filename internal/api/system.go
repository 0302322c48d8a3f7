package api

import (
	"net/http"

	"github.com/opencell/reactor-core/internal/reactor"
)

// SystemStatus is the response body for GET /system/status.
type SystemStatus struct {
	State     string                 `json:"state"`
	LastError string                 `json:"last_error,omitempty"`
	Speedup   float64                `json:"speedup,omitempty"`
	Uptime    float64                `json:"uptime,omitempty"`
	Actuators *reactor.ActuatorState `json:"actuators,omitempty"`
	Step      *stepStatus            `json:"step,omitempty"`
	Version   string                 `json:"version"`
}

// handleSystemStatus reports the hardware manager state, the virtual
// clock, and the current or most recent step.
func (s *Server) handleSystemStatus(w http.ResponseWriter, _ *http.Request) {
	state, lastErr := s.manager.Status()

	status := SystemStatus{
		State:   string(state),
		Version: s.version,
	}
	if lastErr != nil {
		status.LastError = lastErr.Error()
	}

	if core, err := s.manager.Core(); err == nil {
		status.Speedup = core.Speedup()
		status.Uptime = core.Uptime()
		actuators := core.Actuators()
		status.Actuators = &actuators
	}

	if current, active := s.runner.Current(); current.RunID != "" {
		status.Step = &stepStatus{Status: current, Active: active}
	}

	writeJSON(w, http.StatusOK, status)
}

// handleHardwareReload rebuilds the rig from the descriptor file. A
// failed reload keeps the previous rig running and reports the error.
func (s *Server) handleHardwareReload(w http.ResponseWriter, _ *http.Request) {
	if _, active := s.runner.Current(); active {
		writeConflict(w, "cannot reload hardware while a step is running")
		return
	}

	if err := s.manager.Reload(); err != nil {
		s.logger.Error("hardware reload failed", "error", err)
		if s.hub != nil {
			s.hub.Broadcast(ChannelHardware, map[string]any{
				"event": "reload_failed",
				"error": err.Error(),
			})
		}
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	s.logger.Info("hardware reloaded")
	if s.hub != nil {
		s.hub.Broadcast(ChannelHardware, map[string]any{"event": "reloaded"})
	}

	state, _ := s.manager.Status()
	writeJSON(w, http.StatusOK, map[string]any{"state": string(state)})
}
