// Package api exposes the planner over HTTP.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"taskplan/internal/auth"
	"taskplan/internal/service"
)

type API struct {
	Auth       *auth.Manager
	Accounts   *service.AccountService
	Workspaces *service.WorkspaceService
	Categories *service.CategoryService
	Tasks      *service.TaskService
	Recurring  *service.RecurringService
	Log        *slog.Logger
}

func (a *API) Router() http.Handler {
	if a.Log == nil {
		a.Log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(loggingMiddleware(a.Log))

	r.Get("/health", a.handleHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", a.handleRegister)
		r.Post("/login", a.handleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(a.authMiddleware)

		r.Get("/me", a.handleMe)
		r.Put("/me/telegram", a.handleLinkTelegram)

		r.Route("/workspaces", func(r chi.Router) {
			r.Get("/", a.handleListWorkspaces)
			r.Post("/", a.handleCreateWorkspace)
			r.Put("/{id}", a.handleUpdateWorkspace)
			r.Delete("/{id}", a.handleDeleteWorkspace)
			r.Get("/{id}/categories", a.handleListCategories)
			r.Get("/{id}/tasks", a.handleListTasks)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", a.handleCreateCategory)
			r.Put("/{id}", a.handleUpdateCategory)
			r.Delete("/{id}", a.handleDeleteCategory)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", a.handleCreateTask)
			r.Get("/{id}", a.handleGetTask)
			r.Put("/{id}", a.handleUpdateTask)
			r.Delete("/{id}", a.handleDeleteTask)
			r.Post("/{id}/complete", a.handleCompleteTask)
			r.Post("/{id}/reopen", a.handleReopenTask)
		})

		r.Route("/recurring", func(r chi.Router) {
			r.Get("/", a.handleListRecurring)
			r.Post("/", a.handleCreateRecurring)
			r.Get("/{id}", a.handleGetRecurring)
			r.Put("/{id}", a.handleUpdateRecurring)
			r.Delete("/{id}", a.handleDeleteRecurring)
			r.Post("/{id}/pause", a.handlePauseRecurring)
			r.Post("/{id}/resume", a.handleResumeRecurring)
		})
	})

	return r
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
