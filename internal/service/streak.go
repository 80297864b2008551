package service

import (
	"context"
	"fmt"
	"time"

	"routine-tracker/internal/model"
	"routine-tracker/internal/recur"
	"routine-tracker/internal/repository"
)

// maxStreakLookback bounds the backward walk for long-lived tasks. A streak
// that is still unbroken after two years is reported as the cap.
const maxStreakLookback = 730

// StreakCalculator derives consecutive-day counts from occurrence history.
type StreakCalculator struct {
	eval        *recur.Evaluator
	tasks       *repository.TaskRepository
	occurrences *repository.OccurrenceRepository
}

func NewStreakCalculator(eval *recur.Evaluator, tasks *repository.TaskRepository, occurrences *repository.OccurrenceRepository) *StreakCalculator {
	return &StreakCalculator{eval: eval, tasks: tasks, occurrences: occurrences}
}

// ConsecutiveDays walks backward from asOf counting due-days on which every
// materialized occurrence is completed. Non-due days are neutral: they
// neither extend nor break the run. A due day with an incomplete occurrence
// breaks it. Due days the scheduler never materialized are treated as
// neutral as well, since there is no completion evidence either way.
func (s *StreakCalculator) ConsecutiveDays(ctx context.Context, taskID uint, asOf time.Time) (int, error) {
	def, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return 0, fmt.Errorf("load task %d: %w", taskID, err)
	}
	return s.consecutiveDays(ctx, def, asOf)
}

func (s *StreakCalculator) consecutiveDays(ctx context.Context, def *model.TaskDefinition, asOf time.Time) (int, error) {
	floor := recur.DateOf(def.CreatedAt)
	if def.IntervalStartDate != nil {
		if anchor := recur.DateOf(*def.IntervalStartDate); anchor.After(floor) {
			floor = anchor
		}
	}

	streak := 0
	day := recur.DateOf(asOf)
	for i := 0; i < maxStreakLookback && !day.Before(floor); i++ {
		due, err := s.eval.IsDue(ctx, def, day)
		if err != nil {
			return 0, err
		}
		if due {
			rows, err := s.occurrences.ListByTaskAndDate(ctx, def.ID, day)
			if err != nil {
				return 0, err
			}
			if len(rows) > 0 {
				for _, row := range rows {
					if !row.Completed {
						return streak, nil
					}
				}
				streak++
			}
		}
		day = day.AddDate(0, 0, -1)
	}
	return streak, nil
}
