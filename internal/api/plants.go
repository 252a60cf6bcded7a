package api

import (
	"database/sql"
	"net/http"

	"github.com/zxxx98/small-garden/internal/garden"
	"github.com/zxxx98/small-garden/internal/imaging"
	"github.com/zxxx98/small-garden/internal/model"
	"github.com/zxxx98/small-garden/internal/store"
)

// PlantsHandler handles plant CRUD and photo endpoints. Mutations go
// through the garden service; reads hit the store directly.
type PlantsHandler struct {
	DB     *sql.DB
	Garden *garden.Service
}

type cemeteryRequest struct {
	IsDead bool `json:"is_dead"`
}

type batchDeleteRequest struct {
	IDs []string `json:"ids"`
}

// List handles GET /api/plants. ?dead=true or ?dead=false filters by the
// cemetery flag.
func (h *PlantsHandler) List(w http.ResponseWriter, r *http.Request) {
	var dead *bool
	switch r.URL.Query().Get("dead") {
	case "true":
		v := true
		dead = &v
	case "false":
		v := false
		dead = &v
	}

	plants, err := store.ListPlants(r.Context(), h.DB, dead)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list plants")
		return
	}
	if plants == nil {
		plants = []model.Plant{}
	}
	jsonResponse(w, http.StatusOK, plants)
}

// Create handles POST /api/plants.
func (h *PlantsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p model.Plant
	if err := decodeJSON(r, &p); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Garden.CreatePlant(r.Context(), p)
	if err != nil {
		gardenError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, created)
}

// Get handles GET /api/plants/{id}. The response includes the derived
// last-action and next-todo views.
func (h *PlantsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	plant, err := store.GetPlant(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get plant")
		return
	}
	if plant == nil {
		jsonError(w, http.StatusNotFound, "plant not found")
		return
	}

	latest, err := store.LatestAction(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get latest action")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"plant":       plant,
		"last_action": latest,
		"next_todo":   plant.NextTodo(),
	})
}

// Update handles PUT /api/plants/{id}.
func (h *PlantsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var p model.Plant
	if err := decodeJSON(r, &p); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p.ID = r.PathValue("id")

	if p.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	if err := h.Garden.UpdatePlant(r.Context(), p); err != nil {
		gardenError(w, err)
		return
	}

	plant, _ := store.GetPlant(r.Context(), h.DB, p.ID)
	jsonResponse(w, http.StatusOK, plant)
}

// SetCemetery handles PUT /api/plants/{id}/cemetery.
func (h *PlantsHandler) SetCemetery(w http.ResponseWriter, r *http.Request) {
	var req cemeteryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Garden.MoveToCemetery(r.Context(), r.PathValue("id"), req.IsDead); err != nil {
		gardenError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "plant updated"})
}

// Delete handles DELETE /api/plants/{id}.
func (h *PlantsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Garden.DeletePlant(r.Context(), r.PathValue("id")); err != nil {
		gardenError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "plant deleted"})
}

// BatchDelete handles POST /api/plants/batch-delete.
func (h *PlantsHandler) BatchDelete(w http.ResponseWriter, r *http.Request) {
	var req batchDeleteRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		jsonError(w, http.StatusBadRequest, "ids required")
		return
	}

	if err := h.Garden.DeletePlants(r.Context(), req.IDs); err != nil {
		gardenError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "plants deleted"})
}

// ListActions handles GET /api/plants/{id}/actions.
func (h *PlantsHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	actions, err := store.ListActions(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list actions")
		return
	}
	if actions == nil {
		actions = []model.Action{}
	}
	jsonResponse(w, http.StatusOK, actions)
}

// UploadPhoto handles PUT /api/plants/{id}/photo.
func (h *PlantsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	plant, err := store.GetPlant(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get plant")
		return
	}
	if plant == nil {
		jsonError(w, http.StatusNotFound, "plant not found")
		return
	}

	// Limit to 10 MB; phone photos are large before processing.
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	result, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetPlantPhoto(r.Context(), h.DB, id, result.Data, result.MIME); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save photo")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo uploaded"})
}

// GetPhoto handles GET /api/plants/{id}/photo.
func (h *PlantsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetPlantPhoto(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get photo")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
