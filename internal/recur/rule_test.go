package recur

import (
	"testing"
	"time"

	"routine-tracker/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(n int) *int {
	return &n
}

func TestDueOnDaily(t *testing.T) {
	rule := FromDefinition(&model.TaskDefinition{Periodicity: model.PeriodicityDaily})
	for d := date(2025, time.January, 1); d.Month() == time.January; d = d.AddDate(0, 0, 1) {
		if !rule.DueOn(d) {
			t.Errorf("daily task not due on %s", d.Format("2006-01-02"))
		}
	}
}

func TestDueOnWeekly(t *testing.T) {
	// Weekday 2 is Wednesday.
	rule := FromDefinition(&model.TaskDefinition{
		Periodicity: model.PeriodicityWeekly,
		Weekday:     intPtr(2),
	})

	// 2025-01-01 is a Wednesday.
	if !rule.DueOn(date(2025, time.January, 1)) {
		t.Error("expected due on Wednesday 2025-01-01")
	}

	// Over any 7 consecutive days exactly one is due.
	due := 0
	for i := 0; i < 7; i++ {
		if rule.DueOn(date(2025, time.March, 3).AddDate(0, 0, i)) {
			due++
		}
	}
	if due != 1 {
		t.Errorf("due %d times in 7 days, want 1", due)
	}
}

func TestDueOnWeeklyWithoutWeekday(t *testing.T) {
	rule := FromDefinition(&model.TaskDefinition{Periodicity: model.PeriodicityWeekly})
	for i := 0; i < 7; i++ {
		if rule.DueOn(date(2025, time.March, 3).AddDate(0, 0, i)) {
			t.Error("weekly task without a weekday should never be due")
		}
	}
}

func TestDueOnMonthlyShortMonths(t *testing.T) {
	rule := FromDefinition(&model.TaskDefinition{
		Periodicity: model.PeriodicityMonthly,
		DayOfMonth:  intPtr(31),
	})

	if !rule.DueOn(date(2025, time.January, 31)) {
		t.Error("day 31 should be due in January")
	}

	// No clamping: the task is simply skipped in shorter months.
	for _, month := range []time.Month{time.February, time.April} {
		for d := date(2025, month, 1); d.Month() == month; d = d.AddDate(0, 0, 1) {
			if rule.DueOn(d) {
				t.Errorf("day 31 should never be due in %s", month)
			}
		}
	}
}

func TestDueOnWeekdays(t *testing.T) {
	rule := FromDefinition(&model.TaskDefinition{Periodicity: model.PeriodicityWeekdays})

	// 2025-03-03 is a Monday.
	for i := 0; i < 5; i++ {
		if !rule.DueOn(date(2025, time.March, 3).AddDate(0, 0, i)) {
			t.Errorf("expected due on weekday offset %d", i)
		}
	}
	if rule.DueOn(date(2025, time.March, 8)) || rule.DueOn(date(2025, time.March, 9)) {
		t.Error("weekend days should not be due")
	}
}

func TestDueOnCustomOrSemantics(t *testing.T) {
	rule := FromDefinition(&model.TaskDefinition{
		Periodicity:     model.PeriodicityCustom,
		CustomWeekdays:  "0,2,4",
		CustomMonthDays: "15",
	})

	// 2025-04-15 is a Tuesday: due through the month-day rule even though
	// Tuesday is not in the weekday set.
	if !rule.DueOn(date(2025, time.April, 15)) {
		t.Error("expected due on the 15th regardless of weekday")
	}
	if !rule.DueOn(date(2025, time.April, 14)) { // Monday
		t.Error("expected due on Monday")
	}
	if rule.DueOn(date(2025, time.April, 17)) { // Thursday
		t.Error("Thursday should not be due")
	}
}

func TestDueOnCustomInterval(t *testing.T) {
	anchor := date(2025, time.January, 1)
	rule := FromDefinition(&model.TaskDefinition{
		Periodicity:       model.PeriodicityCustom,
		IntervalDays:      3,
		IntervalStartDate: &anchor,
	})

	wantDue := map[int]bool{1: true, 4: true, 7: true}
	for day := 1; day <= 7; day++ {
		got := rule.DueOn(date(2025, time.January, day))
		if got != wantDue[day] {
			t.Errorf("2025-01-%02d: due = %v, want %v", day, got, wantDue[day])
		}
	}

	// Dates before the anchor never match.
	if rule.DueOn(date(2024, time.December, 29)) {
		t.Error("interval rule matched a date before its anchor")
	}
}

func TestDueOnCustomInert(t *testing.T) {
	rule := FromDefinition(&model.TaskDefinition{Periodicity: model.PeriodicityCustom})
	for i := 0; i < 31; i++ {
		if rule.DueOn(date(2025, time.January, 1).AddDate(0, 0, i)) {
			t.Error("inert custom definition should never be due")
		}
	}
}

func TestDueOnIgnoresStaleFieldsFromOtherModes(t *testing.T) {
	// The UI may leave weekly/monthly values behind after a mode switch.
	rule := FromDefinition(&model.TaskDefinition{
		Periodicity:     model.PeriodicityDaily,
		Weekday:         intPtr(2),
		DayOfMonth:      intPtr(31),
		CustomWeekdays:  "5,6",
		CustomMonthDays: "1",
	})
	if !rule.DueOn(date(2025, time.February, 10)) {
		t.Error("daily task must be due regardless of stale mode fields")
	}
}

func TestSlotsScheduledTimesWin(t *testing.T) {
	rule := FromDefinition(&model.TaskDefinition{
		Periodicity:      model.PeriodicityDaily,
		ScheduledTimes:   "20:00,08:00",
		DefaultTime:      "06:00",
		IntervalHours:    4,
		DailyOccurrences: 5,
	})

	slots := rule.Slots()
	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2", len(slots))
	}
	if slots[0].String() != "08:00" || slots[1].String() != "20:00" {
		t.Errorf("got %s, %s; want 08:00, 20:00 ascending", slots[0], slots[1])
	}
}

func TestSlotsIntervalSpacing(t *testing.T) {
	rule := FromDefinition(&model.TaskDefinition{
		Periodicity:      model.PeriodicityDaily,
		DefaultTime:      "08:00",
		IntervalHours:    6,
		DailyOccurrences: 3,
	})

	slots := rule.Slots()
	want := []string{"08:00", "14:00", "20:00"}
	if len(slots) != len(want) {
		t.Fatalf("got %d slots, want %d", len(slots), len(want))
	}
	for i, w := range want {
		if slots[i].String() != w {
			t.Errorf("slot %d = %s, want %s", i, slots[i], w)
		}
	}
}

func TestSlotsDropPastMidnight(t *testing.T) {
	rule := FromDefinition(&model.TaskDefinition{
		Periodicity:      model.PeriodicityDaily,
		DefaultTime:      "20:00",
		IntervalHours:    3,
		DailyOccurrences: 4,
	})

	// 20:00, 23:00 fit; 02:00 next day is dropped, not wrapped.
	slots := rule.Slots()
	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2", len(slots))
	}
	if slots[1].String() != "23:00" {
		t.Errorf("last slot = %s, want 23:00", slots[1])
	}
}

func TestSlotsDefaultTimeAloneIsSingle(t *testing.T) {
	// daily_occurrences > 1 without spacing degrades to one slot; the same
	// time repeated would be meaningless.
	rule := FromDefinition(&model.TaskDefinition{
		Periodicity:      model.PeriodicityDaily,
		DefaultTime:      "07:30",
		DailyOccurrences: 3,
	})

	slots := rule.Slots()
	if len(slots) != 1 {
		t.Fatalf("got %d slots, want 1", len(slots))
	}
	if slots[0].String() != "07:30" {
		t.Errorf("slot = %s, want 07:30", slots[0])
	}
}

func TestSlotsUnscheduled(t *testing.T) {
	rule := FromDefinition(&model.TaskDefinition{Periodicity: model.PeriodicityDaily})
	slots := rule.Slots()
	if len(slots) != 1 || slots[0] != nil {
		t.Fatalf("want a single unscheduled slot, got %v", slots)
	}
}

func TestSlotsIntervalHoursWithoutDefaultTime(t *testing.T) {
	// Degrades silently: no default time means the interval rule cannot
	// apply, leaving one unscheduled slot.
	rule := FromDefinition(&model.TaskDefinition{
		Periodicity:      model.PeriodicityDaily,
		IntervalHours:    2,
		DailyOccurrences: 4,
	})

	slots := rule.Slots()
	if len(slots) != 1 || slots[0] != nil {
		t.Fatalf("want a single unscheduled slot, got %v", slots)
	}
}

func TestValidateWarnings(t *testing.T) {
	cases := []struct {
		name string
		def  model.TaskDefinition
		want int
	}{
		{"clean daily", model.TaskDefinition{Periodicity: model.PeriodicityDaily}, 0},
		{"inert custom", model.TaskDefinition{Periodicity: model.PeriodicityCustom}, 1},
		{"quota only", model.TaskDefinition{Periodicity: model.PeriodicityCustom, TimesPerWeek: 3}, 1},
		{"orphan interval hours", model.TaskDefinition{Periodicity: model.PeriodicityDaily, IntervalHours: 2}, 1},
		{"unspaced occurrences", model.TaskDefinition{Periodicity: model.PeriodicityDaily, DefaultTime: "08:00", DailyOccurrences: 3}, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Validate(&tc.def)
			if len(got) != tc.want {
				t.Errorf("got %d warnings %v, want %d", len(got), got, tc.want)
			}
		})
	}
}

func TestWeekdayIndex(t *testing.T) {
	// 2025-03-03 is a Monday.
	for i := 0; i < 7; i++ {
		if got := WeekdayIndex(date(2025, time.March, 3).AddDate(0, 0, i)); got != i {
			t.Errorf("offset %d: WeekdayIndex = %d, want %d", i, got, i)
		}
	}
}

func TestWeekBounds(t *testing.T) {
	// 2025-03-05 is a Wednesday.
	start, end := WeekBounds(date(2025, time.March, 5))
	if !start.Equal(date(2025, time.March, 3)) {
		t.Errorf("week start = %s, want 2025-03-03", start.Format("2006-01-02"))
	}
	if !end.Equal(date(2025, time.March, 9)) {
		t.Errorf("week end = %s, want 2025-03-09", end.Format("2006-01-02"))
	}
}

func TestParseClock(t *testing.T) {
	if _, err := ParseClock("24:00"); err == nil {
		t.Error("24:00 should not parse")
	}
	if _, err := ParseClock("8"); err == nil {
		t.Error("bare hour should not parse")
	}
	c, err := ParseClock("08:05")
	if err != nil {
		t.Fatalf("ParseClock: %v", err)
	}
	if c.String() != "08:05" {
		t.Errorf("round trip = %s, want 08:05", c)
	}
}
