package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"taskplan/internal/model"
	"taskplan/internal/recurrence"
	"taskplan/internal/service"
)

type recurringTaskRequest struct {
	WorkspaceID    string  `json:"workspace_id"`
	CategoryID     *string `json:"category_id"`
	Title          string  `json:"title"`
	Description    *string `json:"description"`
	Priority       int     `json:"priority"`
	RecurrenceType string  `json:"recurrence_type"`
	IntervalDays   *int    `json:"interval_days"`
	IntervalWeeks  *int    `json:"interval_weeks"`
	IntervalMonths *int    `json:"interval_months"`
	DaysOfWeek     []int   `json:"days_of_week"`
	DayOfMonth     *int    `json:"day_of_month"`
	WeekOfMonth    *int    `json:"week_of_month"`
	MonthOfYear    *int    `json:"month_of_year"`
	StartDate      string  `json:"start_date"`
	EndDate        *string `json:"end_date"`
	IsActive       *bool   `json:"is_active"`
}

type recurringTaskPatchRequest struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	CategoryID     *string `json:"category_id"`
	Priority       *int    `json:"priority"`
	RecurrenceType *string `json:"recurrence_type"`
	IntervalDays   *int    `json:"interval_days"`
	IntervalWeeks  *int    `json:"interval_weeks"`
	IntervalMonths *int    `json:"interval_months"`
	DaysOfWeek     []int   `json:"days_of_week"`
	DayOfMonth     *int    `json:"day_of_month"`
	WeekOfMonth    *int    `json:"week_of_month"`
	MonthOfYear    *int    `json:"month_of_year"`
	StartDate      *string `json:"start_date"`
	EndDate        *string `json:"end_date"`
	NextDueDate    *string `json:"next_due_date"`
	IsActive       *bool   `json:"is_active"`
	IsPaused       *bool   `json:"is_paused"`
}

// recurringTaskView decorates the row with display strings the UI shows on
// the recurring list.
type recurringTaskView struct {
	model.RecurringTask
	Pattern   string `json:"pattern"`
	DateRange string `json:"date_range"`
}

func viewOf(tpl model.RecurringTask) recurringTaskView {
	view := recurringTaskView{RecurringTask: tpl, Pattern: "Custom"}
	if rule, err := recurrence.FromRow(&tpl); err == nil {
		view.Pattern = recurrence.FormatPattern(rule)
	}
	view.DateRange = recurrence.FormatDateRange(tpl.StartDate, tpl.EndDate)
	return view
}

// ruleFromRequest assembles the typed rule from the flat request fields.
func ruleFromRequest(kind string, days []int, intervalDays, intervalWeeks, intervalMonths, dayOfMonth, weekOfMonth, monthOfYear *int) (recurrence.Rule, error) {
	row := model.RecurringTask{
		RecurrenceType: kind,
		IntervalDays:   intervalDays,
		IntervalWeeks:  intervalWeeks,
		IntervalMonths: intervalMonths,
		DayOfMonth:     dayOfMonth,
		WeekOfMonth:    weekOfMonth,
		MonthOfYear:    monthOfYear,
	}
	if len(days) > 0 {
		encoded := recurrence.EncodeWeekdays(days)
		row.DaysOfWeek = &encoded
	}
	return recurrence.FromRow(&row)
}

func (a *API) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	templates, err := a.Recurring.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	views := make([]recurringTaskView, 0, len(templates))
	for _, tpl := range templates {
		views = append(views, viewOf(tpl))
	}
	writeJSON(w, http.StatusOK, views)
}

func (a *API) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}
	rule, err := ruleFromRequest(req.RecurrenceType, req.DaysOfWeek,
		req.IntervalDays, req.IntervalWeeks, req.IntervalMonths,
		req.DayOfMonth, req.WeekOfMonth, req.MonthOfYear)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid start_date")
		return
	}
	end, err := parseOptionalDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid end_date")
		return
	}
	tpl, err := a.Recurring.Create(r.Context(), service.RecurringTaskInput{
		WorkspaceID: req.WorkspaceID,
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Rule:        rule,
		StartDate:   start,
		EndDate:     end,
		IsActive:    req.IsActive,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(*tpl))
}

func (a *API) handleGetRecurring(w http.ResponseWriter, r *http.Request) {
	tpl, err := a.Recurring.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(*tpl))
}

func (a *API) handleUpdateRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringTaskPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}

	patch := service.RecurringTaskPatch{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Priority:    req.Priority,
		IsActive:    req.IsActive,
		IsPaused:    req.IsPaused,
	}
	if req.RecurrenceType != nil {
		rule, err := ruleFromRequest(*req.RecurrenceType, req.DaysOfWeek,
			req.IntervalDays, req.IntervalWeeks, req.IntervalMonths,
			req.DayOfMonth, req.WeekOfMonth, req.MonthOfYear)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
			return
		}
		patch.Rule = rule
	}
	var err error
	if patch.StartDate, err = parseOptionalDate(req.StartDate); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid start_date")
		return
	}
	// An explicit empty end_date clears the bound; an absent one leaves it.
	if req.EndDate != nil && *req.EndDate == "" {
		patch.ClearEndDate = true
	} else if patch.EndDate, err = parseOptionalDate(req.EndDate); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid end_date")
		return
	}
	if patch.NextDueDate, err = parseOptionalDate(req.NextDueDate); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid next_due_date")
		return
	}

	if err := a.Recurring.Update(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (a *API) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	if err := a.Recurring.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handlePauseRecurring(w http.ResponseWriter, r *http.Request) {
	if err := a.Recurring.Pause(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (a *API) handleResumeRecurring(w http.ResponseWriter, r *http.Request) {
	if err := a.Recurring.Resume(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
