package api

import (
	"net/http"

	"github.com/zxxx98/small-garden/internal/garden"
)

// RemindersHandler exposes the upcoming-reminder bucketing view.
type RemindersHandler struct {
	Garden *garden.Service
}

// Upcoming handles GET /api/reminders/upcoming. The buckets are a pure
// view recomputed on every request, never persisted.
func (h *RemindersHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.Garden.UpcomingTodos(r.Context())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to compute upcoming reminders")
		return
	}
	jsonResponse(w, http.StatusOK, buckets)
}
