package api

import (
	"database/sql"
	"net/http"

	"github.com/zxxx98/small-garden/internal/garden"
	"github.com/zxxx98/small-garden/internal/model"
	"github.com/zxxx98/small-garden/internal/store"
)

// ActionsHandler handles care-log endpoints.
type ActionsHandler struct {
	DB     *sql.DB
	Garden *garden.Service
}

type seriesRequest struct {
	Action       model.Action `json:"action"`
	IntervalDays int          `json:"interval_days"`
	PeriodDays   int          `json:"period_days"`
}

// List handles GET /api/actions, optionally filtered by ?plant_id=.
func (h *ActionsHandler) List(w http.ResponseWriter, r *http.Request) {
	actions, err := store.ListActions(r.Context(), h.DB, r.URL.Query().Get("plant_id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list actions")
		return
	}
	if actions == nil {
		actions = []model.Action{}
	}
	jsonResponse(w, http.StatusOK, actions)
}

// Create handles POST /api/actions. Logging an action runs the
// completion workflow: a matching one-shot reminder is consumed, a
// recurring one is advanced.
func (h *ActionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var action model.Action
	if err := decodeJSON(r, &action); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	logged, err := h.Garden.CompleteAction(r.Context(), action)
	if err != nil {
		gardenError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, logged)
}

// CreateSeries handles POST /api/actions/series.
func (h *ActionsHandler) CreateSeries(w http.ResponseWriter, r *http.Request) {
	var req seriesRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	series, err := h.Garden.ScheduleSeries(r.Context(), req.Action, req.IntervalDays, req.PeriodDays)
	if err != nil {
		gardenError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, series)
}

// Update handles PUT /api/actions/{id}.
func (h *ActionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var action model.Action
	if err := decodeJSON(r, &action); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	action.ID = r.PathValue("id")

	if err := h.Garden.UpdateAction(r.Context(), action); err != nil {
		gardenError(w, err)
		return
	}

	updated, _ := store.GetAction(r.Context(), h.DB, action.ID)
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/actions/{id}.
func (h *ActionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Garden.DeleteAction(r.Context(), r.PathValue("id")); err != nil {
		gardenError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "action deleted"})
}
