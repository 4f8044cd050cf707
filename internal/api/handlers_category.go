package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"taskplan/internal/service"
)

func (a *API) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.Categories.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (a *API) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WorkspaceID string  `json:"workspace_id"`
		Name        string  `json:"name"`
		Color       *string `json:"color"`
		Icon        *string `json:"icon"`
		Position    int     `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}
	category, err := a.Categories.Create(r.Context(), service.CategoryInput{
		WorkspaceID: req.WorkspaceID,
		Name:        req.Name,
		Color:       req.Color,
		Icon:        req.Icon,
		Position:    req.Position,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (a *API) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     *string `json:"name"`
		Color    *string `json:"color"`
		Icon     *string `json:"icon"`
		Position *int    `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}
	patch := service.CategoryPatch{
		Name:     req.Name,
		Color:    req.Color,
		Icon:     req.Icon,
		Position: req.Position,
	}
	if err := a.Categories.Update(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (a *API) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := a.Categories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
