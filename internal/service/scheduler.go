package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"routine-tracker/internal/recur"
	"routine-tracker/internal/repository"
)

// Scheduler drives materialization across all active definitions. Each
// (task, date) pair is independent and idempotent, so runs may repeat or
// arrive out of order without harm.
type Scheduler struct {
	tasks        *repository.TaskRepository
	materializer *Materializer
}

func NewScheduler(tasks *repository.TaskRepository, materializer *Materializer) *Scheduler {
	return &Scheduler{tasks: tasks, materializer: materializer}
}

// RunDaily materializes occurrences for every active definition on asOf.
// Per-task failures are logged and skipped; the batch always finishes.
func (s *Scheduler) RunDaily(ctx context.Context, asOf time.Time) error {
	defs, err := s.tasks.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active tasks: %w", err)
	}

	day := recur.DateOf(asOf)
	failed := 0
	for i := range defs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.materializer.Materialize(ctx, &defs[i], day); err != nil {
			failed++
			if errors.Is(err, ErrCompletedSlotRemoved) {
				log.Printf("[warn] materialize task %d on %s: %v", defs[i].ID, day.Format("2006-01-02"), err)
				continue
			}
			log.Printf("materialize task %d on %s: %v", defs[i].ID, day.Format("2006-01-02"), err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("materialization failed for %d of %d task(s)", failed, len(defs))
	}
	return nil
}

// Backfill runs RunDaily for every date in [from, to]. A failed or
// cancelled backfill can simply be re-run; already materialized dates are
// no-ops.
func (s *Scheduler) Backfill(ctx context.Context, from, to time.Time) error {
	start := recur.DateOf(from)
	end := recur.DateOf(to)
	if end.Before(start) {
		return fmt.Errorf("backfill range end %s before start %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	var firstErr error
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.RunDaily(ctx, day); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
