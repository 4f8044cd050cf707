package recurrence

import (
	"testing"

	"taskplan/internal/model"
)

func intp(n int) *int { return &n }

func strp(s string) *string { return &s }

func TestValidate(t *testing.T) {
	valid := []Rule{
		IntervalFromCompletion{IntervalDays: 1},
		FixedDaily{IntervalDays: 7},
		FixedWeekly{IntervalWeeks: 2, DaysOfWeek: []int{0, 4}},
		MonthlyOnDay{IntervalMonths: 1, DayOfMonth: 31},
		MonthlyOnWeekday{IntervalMonths: 1, WeekOfMonth: -1, Weekday: 4},
		FixedYearly{MonthOfYear: 12, DayOfMonth: 25},
	}
	for _, r := range valid {
		if err := r.Validate(); err != nil {
			t.Errorf("%#v: unexpected validation error: %v", r, err)
		}
	}

	invalid := []Rule{
		IntervalFromCompletion{IntervalDays: 0},
		FixedDaily{IntervalDays: -1},
		FixedWeekly{IntervalWeeks: 1},
		FixedWeekly{IntervalWeeks: 1, DaysOfWeek: []int{7}},
		FixedWeekly{IntervalWeeks: 0, DaysOfWeek: []int{0}},
		MonthlyOnDay{IntervalMonths: 1, DayOfMonth: 0},
		MonthlyOnDay{IntervalMonths: 1, DayOfMonth: 32},
		MonthlyOnWeekday{IntervalMonths: 1, WeekOfMonth: 0, Weekday: 0},
		MonthlyOnWeekday{IntervalMonths: 1, WeekOfMonth: 6, Weekday: 0},
		MonthlyOnWeekday{IntervalMonths: 1, WeekOfMonth: 1, Weekday: 8},
		FixedYearly{MonthOfYear: 13, DayOfMonth: 1},
		FixedYearly{MonthOfYear: 6, DayOfMonth: 0},
	}
	for _, r := range invalid {
		if err := r.Validate(); err == nil {
			t.Errorf("%#v: expected validation error, got nil", r)
		}
	}
}

func TestFromRow_MonthlyDisambiguation(t *testing.T) {
	// week_of_month present selects the Nth-weekday variant.
	row := &model.RecurringTask{
		RecurrenceType: model.RecurrenceFixedMonthly,
		IntervalMonths: intp(2),
		WeekOfMonth:    intp(-1),
		DaysOfWeek:     strp("4"),
	}
	rule, err := FromRow(row)
	if err != nil {
		t.Fatalf("FromRow: %v", err)
	}
	mw, ok := rule.(MonthlyOnWeekday)
	if !ok {
		t.Fatalf("got %T, want MonthlyOnWeekday", rule)
	}
	if mw.IntervalMonths != 2 || mw.WeekOfMonth != -1 || mw.Weekday != 4 {
		t.Errorf("unexpected fields: %#v", mw)
	}

	// Without week_of_month, day_of_month selects the fixed-day variant.
	row = &model.RecurringTask{
		RecurrenceType: model.RecurrenceFixedMonthly,
		DayOfMonth:     intp(15),
	}
	rule, err = FromRow(row)
	if err != nil {
		t.Fatalf("FromRow: %v", err)
	}
	md, ok := rule.(MonthlyOnDay)
	if !ok {
		t.Fatalf("got %T, want MonthlyOnDay", rule)
	}
	if md.IntervalMonths != 1 || md.DayOfMonth != 15 {
		t.Errorf("unexpected fields: %#v", md)
	}

	// Neither discriminating field is an error, not a silent default.
	row = &model.RecurringTask{RecurrenceType: model.RecurrenceFixedMonthly}
	if _, err := FromRow(row); err == nil {
		t.Error("expected error for monthly row without day or week")
	}
}

func TestFromRow_UnknownKind(t *testing.T) {
	if _, err := FromRow(&model.RecurringTask{RecurrenceType: "lunar"}); err == nil {
		t.Error("expected error for unknown recurrence type")
	}
}

func TestApplyToRow_ClearsUnusedColumns(t *testing.T) {
	row := &model.RecurringTask{
		RecurrenceType: model.RecurrenceFixedWeekly,
		IntervalWeeks:  intp(2),
		DaysOfWeek:     strp("0,4"),
	}
	ApplyToRow(MonthlyOnDay{IntervalMonths: 1, DayOfMonth: 31}, row)

	if row.RecurrenceType != model.RecurrenceFixedMonthly {
		t.Errorf("recurrence type = %q", row.RecurrenceType)
	}
	if row.IntervalWeeks != nil || row.DaysOfWeek != nil {
		t.Error("stale weekly columns survived the rewrite")
	}
	if row.IntervalMonths == nil || *row.IntervalMonths != 1 {
		t.Error("interval_months not written")
	}
	if row.DayOfMonth == nil || *row.DayOfMonth != 31 {
		t.Error("day_of_month not written")
	}
}

func TestApplyToRow_RoundTrip(t *testing.T) {
	rules := []Rule{
		IntervalFromCompletion{IntervalDays: 3},
		FixedWeekly{IntervalWeeks: 2, DaysOfWeek: []int{0, 4}},
		MonthlyOnWeekday{IntervalMonths: 1, WeekOfMonth: 3, Weekday: 1},
		FixedYearly{MonthOfYear: 2, DayOfMonth: 14},
	}
	for _, want := range rules {
		var row model.RecurringTask
		ApplyToRow(want, &row)
		got, err := FromRow(&row)
		if err != nil {
			t.Errorf("%#v: FromRow after ApplyToRow: %v", want, err)
			continue
		}
		if FormatPattern(got) != FormatPattern(want) {
			t.Errorf("round trip changed the rule: %#v -> %#v", want, got)
		}
	}
}

func TestDecodeWeekdays_DropsGarbage(t *testing.T) {
	got := DecodeWeekdays(strp("0, 4,9,x,6"))
	want := []int{0, 4, 6}
	if len(got) != len(want) {
		t.Fatalf("DecodeWeekdays = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DecodeWeekdays = %v, want %v", got, want)
		}
	}
	if DecodeWeekdays(nil) != nil {
		t.Error("nil column should decode to nil")
	}
}
