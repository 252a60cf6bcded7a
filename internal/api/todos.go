package api

import (
	"net/http"

	"github.com/zxxx98/small-garden/internal/garden"
	"github.com/zxxx98/small-garden/internal/model"
)

// TodosHandler handles reminder endpoints on a plant.
type TodosHandler struct {
	Garden *garden.Service
}

// Add handles PUT /api/plants/{id}/todos. Adding a todo for an action
// that already has one replaces it.
func (h *TodosHandler) Add(w http.ResponseWriter, r *http.Request) {
	var todo model.Todo
	if err := decodeJSON(r, &todo); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Garden.AddTodo(r.Context(), r.PathValue("id"), todo); err != nil {
		gardenError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "todo saved"})
}

// Update handles PUT /api/plants/{id}/todos/{action}. Replace-only: a
// missing todo is a 404, never an implicit create.
func (h *TodosHandler) Update(w http.ResponseWriter, r *http.Request) {
	var todo model.Todo
	if err := decodeJSON(r, &todo); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	todo.ActionName = r.PathValue("action")

	if err := h.Garden.UpdateTodo(r.Context(), r.PathValue("id"), todo); err != nil {
		gardenError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "todo updated"})
}

// Delete handles DELETE /api/plants/{id}/todos/{action}.
func (h *TodosHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Garden.DeleteTodo(r.Context(), r.PathValue("id"), r.PathValue("action")); err != nil {
		gardenError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "todo deleted"})
}
