package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zxxx98/small-garden/internal/garden"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// gardenError maps service errors onto HTTP statuses: logical not-found
// and validation failures keep their message, anything else is a 500
// with the detail kept server-side.
func gardenError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, garden.ErrNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, garden.ErrInvalidTodo), errors.Is(err, garden.ErrInvalidAction):
		jsonError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
