package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recurrence kinds stored in RecurringTask.RecurrenceType.
const (
	RecurrenceIntervalFromCompletion = "interval_from_completion"
	RecurrenceFixedDaily             = "fixed_daily"
	RecurrenceFixedWeekly            = "fixed_weekly"
	RecurrenceFixedMonthly           = "fixed_monthly"
	RecurrenceFixedYearly            = "fixed_yearly"
)

// RecurringTask is the master template a recurrence rule lives on. The rule
// columns are nullable because each kind uses a different subset; the typed
// view lives in the recurrence package.
type RecurringTask struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	UserID         string     `gorm:"index" json:"user_id"`
	WorkspaceID    string     `gorm:"index" json:"workspace_id"`
	CategoryID     *string    `gorm:"index" json:"category_id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Priority       int        `gorm:"default:0" json:"priority"`
	RecurrenceType string     `json:"recurrence_type"`
	IntervalDays   *int       `json:"interval_days"`
	IntervalWeeks  *int       `json:"interval_weeks"`
	IntervalMonths *int       `json:"interval_months"`
	DaysOfWeek     *string    `json:"days_of_week"`  // comma-separated weekday indexes, 0=Monday
	DayOfMonth     *int       `json:"day_of_month"`  // 1..31, 31 means last day
	WeekOfMonth    *int       `json:"week_of_month"` // -1=last, 1..5
	MonthOfYear    *int       `json:"month_of_year"` // 1..12
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	NextDueDate    time.Time  `json:"next_due_date"`
	IsActive       bool       `gorm:"default:true" json:"is_active"`
	IsPaused       bool       `gorm:"default:false" json:"is_paused"`
	Occurrences    int        `gorm:"column:occurrences_generated;default:0" json:"occurrences_generated"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (r *RecurringTask) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
