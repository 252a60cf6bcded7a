package api

import (
	"database/sql"
	"net/http"

	"github.com/google/uuid"

	"github.com/zxxx98/small-garden/internal/model"
	"github.com/zxxx98/small-garden/internal/store"
)

// AreasHandler handles area CRUD endpoints.
type AreasHandler struct {
	DB *sql.DB
}

type areaRequest struct {
	Name string `json:"name"`
}

// List handles GET /api/areas.
func (h *AreasHandler) List(w http.ResponseWriter, r *http.Request) {
	areas, err := store.ListAreas(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list areas")
		return
	}
	if areas == nil {
		areas = []model.Area{}
	}
	jsonResponse(w, http.StatusOK, areas)
}

// Create handles POST /api/areas.
func (h *AreasHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req areaRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	area, err := store.CreateArea(r.Context(), h.DB, uuid.NewString(), req.Name)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create area")
		return
	}

	jsonResponse(w, http.StatusCreated, area)
}

// Update handles PUT /api/areas/{id}.
func (h *AreasHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req areaRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	area, err := store.GetArea(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get area")
		return
	}
	if area == nil {
		jsonError(w, http.StatusNotFound, "area not found")
		return
	}

	if err := store.UpdateArea(r.Context(), h.DB, id, req.Name); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update area")
		return
	}

	updated, _ := store.GetArea(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/areas/{id}.
func (h *AreasHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := store.DeleteArea(r.Context(), h.DB, r.PathValue("id")); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete area")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "area deleted"})
}
