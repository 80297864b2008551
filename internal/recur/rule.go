// Package recur decides, for a task definition and a calendar date, whether
// the task is due and which time slots it occupies that day.
//
// Definitions are stored flat (every mode's fields side by side); this
// package normalizes them into a tagged Rule so that only the field group
// matching the periodicity can influence evaluation. Evaluation is pure:
// the date is always an explicit parameter, never the wall clock.
package recur

import (
	"sort"
	"strings"
	"time"

	"routine-tracker/internal/model"
)

// Kind tags the recurrence mode of a normalized Rule.
type Kind int

const (
	KindDaily Kind = iota
	KindWeekly
	KindMonthly
	KindWeekdays
	KindCustom
)

// Rule is the normalized form of a TaskDefinition's recurrence fields.
// Only the fields belonging to Kind are populated.
type Rule struct {
	Kind Kind

	// Weekly.
	Weekday int

	// Monthly.
	DayOfMonth int

	// Custom sub-rules; any match makes the date due.
	Weekdays      map[int]bool
	MonthDays     map[int]bool
	IntervalDays  int
	IntervalStart time.Time

	// Quotas bound how many due-days may materialize per week/month under
	// custom mode. Zero means unbounded.
	TimesPerWeek  int
	TimesPerMonth int

	schedule schedule
}

type schedule struct {
	scheduledTimes   []Clock
	defaultTime      *Clock
	intervalHours    int
	dailyOccurrences int
}

// FromDefinition normalizes a flat definition record. Fields belonging to
// modes other than def.Periodicity are dropped here, so stale UI values
// cannot leak into evaluation. Unparseable times degrade to absent.
func FromDefinition(def *model.TaskDefinition) Rule {
	r := Rule{Kind: KindDaily}

	switch def.Periodicity {
	case model.PeriodicityWeekly:
		r.Kind = KindWeekly
		if def.Weekday != nil && *def.Weekday >= 0 && *def.Weekday <= 6 {
			r.Weekday = *def.Weekday
		} else {
			// No valid weekday: never due rather than due on a guessed day.
			r.Weekday = -1
		}
	case model.PeriodicityMonthly:
		r.Kind = KindMonthly
		if def.DayOfMonth != nil && *def.DayOfMonth >= 1 && *def.DayOfMonth <= 31 {
			r.DayOfMonth = *def.DayOfMonth
		}
	case model.PeriodicityWeekdays:
		r.Kind = KindWeekdays
	case model.PeriodicityCustom:
		r.Kind = KindCustom
		r.Weekdays = parseIntSet(def.CustomWeekdays, 0, 6)
		r.MonthDays = parseIntSet(def.CustomMonthDays, 1, 31)
		if def.IntervalDays >= 1 && def.IntervalStartDate != nil {
			r.IntervalDays = def.IntervalDays
			r.IntervalStart = DateOf(*def.IntervalStartDate)
		}
		r.TimesPerWeek = def.TimesPerWeek
		r.TimesPerMonth = def.TimesPerMonth
	}

	r.schedule = normalizeSchedule(def)
	return r
}

func normalizeSchedule(def *model.TaskDefinition) schedule {
	s := schedule{dailyOccurrences: def.DailyOccurrences}
	if s.dailyOccurrences < 1 {
		s.dailyOccurrences = 1
	}
	for _, raw := range strings.Split(def.ScheduledTimes, ",") {
		c, err := ParseClock(raw)
		if err != nil {
			continue
		}
		s.scheduledTimes = append(s.scheduledTimes, c)
	}
	sort.Slice(s.scheduledTimes, func(i, j int) bool {
		return s.scheduledTimes[i].Minutes() < s.scheduledTimes[j].Minutes()
	})
	if def.DefaultTime != "" {
		if c, err := ParseClock(def.DefaultTime); err == nil {
			s.defaultTime = &c
		}
	}
	if def.IntervalHours >= 1 && def.IntervalHours <= 12 {
		s.intervalHours = def.IntervalHours
	}
	return s
}

// DueOn reports whether the rule makes the task due on date. Quotas are not
// consulted here; see Evaluator.
func (r Rule) DueOn(date time.Time) bool {
	d := DateOf(date)
	switch r.Kind {
	case KindDaily:
		return true
	case KindWeekly:
		return r.Weekday == WeekdayIndex(d)
	case KindMonthly:
		// A 31st-of-month task is simply not due in shorter months; no
		// clamping to month-end.
		return r.DayOfMonth >= 1 && d.Day() == r.DayOfMonth
	case KindWeekdays:
		return WeekdayIndex(d) <= 4
	case KindCustom:
		if r.Weekdays[WeekdayIndex(d)] {
			return true
		}
		if r.MonthDays[d.Day()] {
			return true
		}
		if r.IntervalDays >= 1 && !d.Before(r.IntervalStart) {
			days := int(d.Sub(r.IntervalStart).Hours() / 24)
			return days%r.IntervalDays == 0
		}
		// No sub-rule configured: inert, never due.
		return false
	}
	return false
}

// HasQuota reports whether the rule carries a per-week or per-month
// materialization bound.
func (r Rule) HasQuota() bool {
	return r.Kind == KindCustom && (r.TimesPerWeek > 0 || r.TimesPerMonth > 0)
}

// Slots returns the ordered time slots for one due day. A single nil entry
// means one unscheduled occurrence. Covered cases, in priority order:
// explicit scheduled times win outright; a default time with an hour
// interval spaces dailyOccurrences slots, dropping any that would pass
// midnight; a bare default time yields exactly one slot regardless of
// dailyOccurrences; no time information yields one unscheduled slot.
func (r Rule) Slots() []*Clock {
	s := r.schedule
	if len(s.scheduledTimes) > 0 {
		slots := make([]*Clock, len(s.scheduledTimes))
		for i := range s.scheduledTimes {
			c := s.scheduledTimes[i]
			slots[i] = &c
		}
		return slots
	}
	if s.defaultTime != nil && s.intervalHours > 0 {
		var slots []*Clock
		for i := 0; i < s.dailyOccurrences; i++ {
			m := s.defaultTime.Minutes() + i*s.intervalHours*60
			if m > 23*60+59 {
				break
			}
			c := clockFromMinutes(m)
			slots = append(slots, &c)
		}
		if len(slots) > 0 {
			return slots
		}
		return []*Clock{nil}
	}
	if s.defaultTime != nil {
		c := *s.defaultTime
		return []*Clock{&c}
	}
	return []*Clock{nil}
}

// Validate reports save-time warnings for configurations that the engine
// will silently degrade: nothing here is an error, but the UI should get a
// chance to surface them.
func Validate(def *model.TaskDefinition) []string {
	var warnings []string
	r := FromDefinition(def)

	if r.Kind == KindCustom && len(r.Weekdays) == 0 && len(r.MonthDays) == 0 && r.IntervalDays == 0 &&
		def.TimesPerWeek == 0 && def.TimesPerMonth == 0 {
		warnings = append(warnings, "custom periodicity with no weekday, month-day or interval rule: task will never be due")
	}
	if def.IntervalHours > 0 && r.schedule.defaultTime == nil {
		warnings = append(warnings, "interval_hours has no effect without a valid default_time")
	}
	if def.DailyOccurrences > 1 && r.schedule.intervalHours == 0 && len(r.schedule.scheduledTimes) == 0 {
		warnings = append(warnings, "daily_occurrences > 1 needs interval_hours or scheduled_times; a single occurrence will be generated")
	}
	if def.Periodicity == model.PeriodicityCustom && (def.TimesPerWeek > 0 || def.TimesPerMonth > 0) &&
		len(r.Weekdays) == 0 && len(r.MonthDays) == 0 && r.IntervalDays == 0 {
		warnings = append(warnings, "times_per_week/times_per_month only bound other custom rules; alone they select no days")
	}
	return warnings
}
