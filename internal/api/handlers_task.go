package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"taskplan/internal/calendar"
	"taskplan/internal/service"
)

type taskRequest struct {
	WorkspaceID   string  `json:"workspace_id"`
	CategoryID    *string `json:"category_id"`
	ParentTaskID  *string `json:"parent_task_id"`
	Title         string  `json:"title"`
	Description   *string `json:"description"`
	ScheduledDate *string `json:"scheduled_date"`
	DueDate       *string `json:"due_date"`
	Priority      int     `json:"priority"`
	Position      int     `json:"position"`
}

type taskPatchRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	CategoryID    *string `json:"category_id"`
	ScheduledDate *string `json:"scheduled_date"`
	DueDate       *string `json:"due_date"`
	Priority      *int    `json:"priority"`
	Position      *int    `json:"position"`
	IsDetached    *bool   `json:"is_detached"`
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(calendar.DateFormat, s)
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (a *API) handleListTasks(w http.ResponseWriter, r *http.Request) {
	includeCompleted := r.URL.Query().Get("include_completed") == "true"
	tasks, err := a.Tasks.List(r.Context(), chi.URLParam(r, "id"), includeCompleted)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (a *API) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}
	scheduled, err := parseOptionalDate(req.ScheduledDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid scheduled_date")
		return
	}
	due, err := parseOptionalDate(req.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid due_date")
		return
	}
	task, err := a.Tasks.Create(r.Context(), service.TaskInput{
		WorkspaceID:   req.WorkspaceID,
		CategoryID:    req.CategoryID,
		ParentTaskID:  req.ParentTaskID,
		Title:         req.Title,
		Description:   req.Description,
		ScheduledDate: scheduled,
		DueDate:       due,
		Priority:      req.Priority,
		Position:      req.Position,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (a *API) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := a.Tasks.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (a *API) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req taskPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}
	scheduled, err := parseOptionalDate(req.ScheduledDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid scheduled_date")
		return
	}
	due, err := parseOptionalDate(req.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid due_date")
		return
	}
	patch := service.TaskPatch{
		Title:         req.Title,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		ScheduledDate: scheduled,
		DueDate:       due,
		Priority:      req.Priority,
		Position:      req.Position,
		IsDetached:    req.IsDetached,
	}
	if err := a.Tasks.Update(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (a *API) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	task, err := a.Tasks.Complete(r.Context(), chi.URLParam(r, "id"), time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (a *API) handleReopenTask(w http.ResponseWriter, r *http.Request) {
	task, err := a.Tasks.Reopen(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (a *API) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := a.Tasks.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
