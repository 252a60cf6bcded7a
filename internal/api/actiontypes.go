package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/zxxx98/small-garden/internal/model"
	"github.com/zxxx98/small-garden/internal/store"
)

// ActionTypesHandler handles action-type configuration endpoints.
type ActionTypesHandler struct {
	DB *sql.DB
}

// List handles GET /api/action-types.
func (h *ActionTypesHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := store.ListActionTypes(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list action types")
		return
	}
	if types == nil {
		types = []model.ActionType{}
	}
	jsonResponse(w, http.StatusOK, types)
}

// Create handles POST /api/action-types. User-created types always carry
// a custom image; that flag is what marks them deletable later.
func (h *ActionTypesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var at model.ActionType
	if err := decodeJSON(r, &at); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if at.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	at.UseCustomImage = true

	created, err := store.CreateActionType(r.Context(), h.DB, &at)
	if err != nil {
		if errors.Is(err, store.ErrActionTypeExists) {
			jsonError(w, http.StatusConflict, err.Error())
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to create action type")
		return
	}

	jsonResponse(w, http.StatusCreated, created)
}

// Update handles PUT /api/action-types/{name}.
func (h *ActionTypesHandler) Update(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	existing, err := store.GetActionType(r.Context(), h.DB, name)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get action type")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "action type not found")
		return
	}

	var at model.ActionType
	if err := decodeJSON(r, &at); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	at.Name = name
	// System types stay system types.
	at.UseCustomImage = existing.UseCustomImage

	if err := store.UpdateActionType(r.Context(), h.DB, &at); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update action type")
		return
	}

	updated, _ := store.GetActionType(r.Context(), h.DB, name)
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/action-types/{name}. Built-in types cannot
// be deleted.
func (h *ActionTypesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	existing, err := store.GetActionType(r.Context(), h.DB, name)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get action type")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "action type not found")
		return
	}
	if !existing.UseCustomImage {
		jsonError(w, http.StatusForbidden, "built-in action types cannot be deleted")
		return
	}

	if err := store.DeleteActionType(r.Context(), h.DB, name); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete action type")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "action type deleted"})
}
