package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"routine-tracker/internal/model"
	"routine-tracker/internal/recur"
	"routine-tracker/internal/repository"
)

// GoalService maintains goal progress derived from occurrence history.
type GoalService struct {
	goals  *repository.GoalRepository
	streak *StreakCalculator
}

func NewGoalService(goals *repository.GoalRepository, streak *StreakCalculator) *GoalService {
	return &GoalService{goals: goals, streak: streak}
}

// Recalculate re-derives DaysActive for a consecutive_days goal from its
// related task's completion history. Goals of other types, or without a
// related task, are returned unchanged.
func (g *GoalService) Recalculate(ctx context.Context, goalID uint, asOf time.Time) (*model.Goal, error) {
	goal, err := g.goals.FindByID(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("load goal %d: %w", goalID, err)
	}
	if goal.GoalType != model.GoalTypeConsecutiveDays || goal.RelatedTaskID == nil {
		return goal, nil
	}

	days, err := g.streak.ConsecutiveDays(ctx, *goal.RelatedTaskID, asOf)
	if err != nil {
		return nil, err
	}

	goal.DaysActive = days
	goal.CurrentValue = float64(days)
	if goal.Status == model.GoalStatusActive && goal.TargetValue > 0 && goal.CurrentValue >= goal.TargetValue {
		goal.Status = model.GoalStatusCompleted
	}
	if err := g.goals.Save(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// RecalculateAll refreshes every active consecutive_days goal, logging and
// skipping individual failures the way the scheduler does for tasks.
func (g *GoalService) RecalculateAll(ctx context.Context, asOf time.Time) error {
	goals, err := g.goals.ListActiveConsecutive(ctx)
	if err != nil {
		return fmt.Errorf("list goals: %w", err)
	}
	for _, goal := range goals {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := g.Recalculate(ctx, goal.ID, asOf); err != nil {
			log.Printf("recalculate goal %d: %v", goal.ID, err)
		}
	}
	return nil
}

// Reset zeroes a goal's progress and re-anchors its start to now. Prior
// history is discarded, not recomputed; this is a user-initiated restart.
func (g *GoalService) Reset(ctx context.Context, goalID uint, now time.Time) (*model.Goal, error) {
	goal, err := g.goals.FindByID(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("load goal %d: %w", goalID, err)
	}

	goal.DaysActive = 0
	goal.CurrentValue = 0
	goal.Status = model.GoalStatusActive
	goal.StartedAt = recur.DateOf(now)
	if err := g.goals.Save(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}
