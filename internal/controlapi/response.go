package controlapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/telegraph/pkg/logger"
	"github.com/dmitrymomot/telegraph/pkg/statemachine"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// statusOf maps engine errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case statemachine.IsNotFound(err):
		return http.StatusNotFound
	case statemachine.IsConflict(err),
		errors.Is(err, statemachine.ErrRunning),
		errors.Is(err, statemachine.ErrNoRoute),
		errors.Is(err, statemachine.ErrTerminalState),
		errors.Is(err, statemachine.ErrNoStates):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (a *api) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		a.log.ErrorContext(r.Context(), "request failed",
			logger.Handler(r.URL.Path), logger.Error(err))
	} else {
		a.log.DebugContext(r.Context(), "request rejected",
			logger.Handler(r.URL.Path), slog.Int("status", code), logger.Error(err))
	}
	writeJSON(w, code, errorResponse{Error: err.Error()})
}
