package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"taskplan/internal/service"
)

func (a *API) handleListWorkspaces(w http.ResponseWriter, r *http.Request) {
	workspaces, err := a.Workspaces.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workspaces)
}

func (a *API) handleCreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string  `json:"name"`
		Color    string  `json:"color"`
		Icon     *string `json:"icon"`
		Position int     `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}
	ws, err := a.Workspaces.Create(r.Context(), service.WorkspaceInput{
		Name:     req.Name,
		Color:    req.Color,
		Icon:     req.Icon,
		Position: req.Position,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ws)
}

func (a *API) handleUpdateWorkspace(w http.ResponseWriter, r *http.Request) {
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
	patch := service.WorkspacePatch{
		Name:     req.Name,
		Color:    req.Color,
		Icon:     req.Icon,
		Position: req.Position,
	}
	if err := a.Workspaces.Update(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (a *API) handleDeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	if err := a.Workspaces.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
