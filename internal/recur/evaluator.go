package recur

import (
	"context"
	"fmt"
	"time"

	"routine-tracker/internal/model"
)

// PeriodCounter reports how many distinct dates in [from, to] already have
// materialized occurrences for a task, not counting the excluded date.
// Excluding the date under evaluation keeps re-evaluation of an already
// materialized day idempotent: the day cannot suppress itself.
type PeriodCounter interface {
	CountMaterializedDays(ctx context.Context, taskID uint, from, to, excluding time.Time) (int, error)
}

// Evaluator answers the due-date question for task definitions. The only
// state it carries is the occurrence-history reader needed to enforce
// times_per_week/times_per_month quotas.
type Evaluator struct {
	counter PeriodCounter
}

func NewEvaluator(counter PeriodCounter) *Evaluator {
	return &Evaluator{counter: counter}
}

// IsDue reports whether the definition is due on date.
func (e *Evaluator) IsDue(ctx context.Context, def *model.TaskDefinition, date time.Time) (bool, error) {
	rule := FromDefinition(def)
	d := DateOf(date)
	if !rule.DueOn(d) {
		return false, nil
	}
	if !rule.HasQuota() || e.counter == nil {
		return true, nil
	}

	if rule.TimesPerWeek > 0 {
		start, end := WeekBounds(d)
		used, err := e.counter.CountMaterializedDays(ctx, def.ID, start, end, d)
		if err != nil {
			return false, fmt.Errorf("count week quota: %w", err)
		}
		if used >= rule.TimesPerWeek {
			return false, nil
		}
	}
	if rule.TimesPerMonth > 0 {
		start, end := MonthBounds(d)
		used, err := e.counter.CountMaterializedDays(ctx, def.ID, start, end, d)
		if err != nil {
			return false, fmt.Errorf("count month quota: %w", err)
		}
		if used >= rule.TimesPerMonth {
			return false, nil
		}
	}
	return true, nil
}

// TimeSlots returns the ordered occurrence slots for date, empty when the
// task is not due.
func (e *Evaluator) TimeSlots(ctx context.Context, def *model.TaskDefinition, date time.Time) ([]*Clock, error) {
	due, err := e.IsDue(ctx, def, date)
	if err != nil || !due {
		return nil, err
	}
	return FromDefinition(def).Slots(), nil
}
