package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"routine-tracker/internal/model"
	"routine-tracker/internal/recur"
	"routine-tracker/internal/repository"
)

// ErrCompletedSlotRemoved is returned when a definition edit would remove
// an occurrence slot that the user already completed. The edit conflict is
// surfaced to the caller; materialization never discards completed work.
var ErrCompletedSlotRemoved = errors.New("definition edit would remove a completed occurrence")

// Materializer turns due-date decisions into persisted occurrence rows.
// Re-running it for the same (task, date) is always safe: existing rows are
// never rewritten, only missing ones are inserted.
type Materializer struct {
	eval        *recur.Evaluator
	occurrences *repository.OccurrenceRepository
}

func NewMaterializer(eval *recur.Evaluator, occurrences *repository.OccurrenceRepository) *Materializer {
	return &Materializer{eval: eval, occurrences: occurrences}
}

// Materialize ensures the occurrence rows implied by the definition exist
// for date and returns them in index order. Inactive or not-due
// definitions yield no rows and no error.
func (m *Materializer) Materialize(ctx context.Context, def *model.TaskDefinition, date time.Time) ([]model.OccurrenceInstance, error) {
	if !def.IsActive {
		return nil, nil
	}

	day := recur.DateOf(date)
	slots, err := m.eval.TimeSlots(ctx, def, day)
	if err != nil {
		return nil, fmt.Errorf("evaluate task %d: %w", def.ID, err)
	}
	if len(slots) == 0 {
		return nil, nil
	}

	existing, err := m.occurrences.ListByTaskAndDate(ctx, def.ID, day)
	if err != nil {
		return nil, fmt.Errorf("list occurrences for task %d: %w", def.ID, err)
	}

	// Reconcile the delta against rows from an earlier slot count. Extra
	// incomplete rows go away; an extra completed row is a conflict.
	for _, row := range existing {
		if row.OccurrenceIndex >= len(slots) && row.Completed {
			return nil, fmt.Errorf("task %d on %s, occurrence %d: %w",
				def.ID, day.Format("2006-01-02"), row.OccurrenceIndex, ErrCompletedSlotRemoved)
		}
	}
	if len(existing) > len(slots) {
		if err := m.occurrences.DeleteIncompleteFrom(ctx, def.ID, day, len(slots)); err != nil {
			return nil, err
		}
	}

	have := make(map[int]bool, len(existing))
	for _, row := range existing {
		have[row.OccurrenceIndex] = true
	}

	for i, slot := range slots {
		if have[i] {
			continue
		}
		inst := model.OccurrenceInstance{
			TaskID:          def.ID,
			Date:            day,
			OccurrenceIndex: i,
			TotalInstances:  len(slots),
		}
		if slot != nil {
			t := slot.String()
			inst.ScheduledTime = &t
		}
		if err := m.occurrences.InsertIgnore(ctx, &inst); err != nil {
			return nil, err
		}
	}

	if err := m.occurrences.SetTotalInstances(ctx, def.ID, day, len(slots)); err != nil {
		return nil, err
	}

	return m.occurrences.ListByTaskAndDate(ctx, def.ID, day)
}
