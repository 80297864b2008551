package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"routine-tracker/internal/model"
)

// GoalRepository handles CRUD for goals.
type GoalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) Create(ctx context.Context, goal *model.Goal) error {
	if err := r.db.WithContext(ctx).Create(goal).Error; err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

func (r *GoalRepository) Save(ctx context.Context, goal *model.Goal) error {
	if err := r.db.WithContext(ctx).Save(goal).Error; err != nil {
		return fmt.Errorf("save goal: %w", err)
	}
	return nil
}

func (r *GoalRepository) FindByID(ctx context.Context, id uint) (*model.Goal, error) {
	var goal model.Goal
	if err := r.db.WithContext(ctx).First(&goal, id).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

// ListActiveConsecutive returns active consecutive_days goals tied to a
// task, the ones whose progress is derived from occurrence history.
func (r *GoalRepository) ListActiveConsecutive(ctx context.Context) ([]model.Goal, error) {
	var goals []model.Goal
	if err := r.db.WithContext(ctx).
		Where("status = ? AND goal_type = ? AND related_task_id IS NOT NULL",
			model.GoalStatusActive, model.GoalTypeConsecutiveDays).
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *GoalRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Goal, error) {
	var goals []model.Goal
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}
