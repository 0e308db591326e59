package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"optiroute/internal/routing"
	"optiroute/internal/store"
)

// Problem represents an RFC7807 problem details response body.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, title, detail, instance string) {
	writeJSON(w, status, Problem{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	})
}

// writeError maps domain sentinel errors to problem responses.
func writeError(w http.ResponseWriter, err error, instance string) {
	switch {
	case errors.Is(err, routing.ErrInvalidArgument):
		writeProblem(w, http.StatusBadRequest, "Invalid argument", err.Error(), instance)
	case errors.Is(err, routing.ErrNotFound), errors.Is(err, store.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not found", err.Error(), instance)
	case errors.Is(err, routing.ErrNoDemands):
		writeProblem(w, http.StatusConflict, "No demands loaded", err.Error(), instance)
	case errors.Is(err, routing.ErrInfeasiblePath):
		writeProblem(w, http.StatusUnprocessableEntity, "Infeasible path", err.Error(), instance)
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal error", err.Error(), instance)
	}
}
