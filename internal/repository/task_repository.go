package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"routine-tracker/internal/model"
)

// TaskRepository handles CRUD for task definitions.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, def *model.TaskDefinition) error {
	if err := r.db.WithContext(ctx).Create(def).Error; err != nil {
		return fmt.Errorf("create task definition: %w", err)
	}
	return nil
}

func (r *TaskRepository) Save(ctx context.Context, def *model.TaskDefinition) error {
	if err := r.db.WithContext(ctx).Save(def).Error; err != nil {
		return fmt.Errorf("save task definition: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.TaskDefinition, error) {
	var def model.TaskDefinition
	if err := r.db.WithContext(ctx).First(&def, id).Error; err != nil {
		return nil, err
	}
	return &def, nil
}

// ListActive returns all definitions that still generate occurrences.
func (r *TaskRepository) ListActive(ctx context.Context) ([]model.TaskDefinition, error) {
	var defs []model.TaskDefinition
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).
		Order("id ASC").
		Find(&defs).Error; err != nil {
		return nil, err
	}
	return defs, nil
}

func (r *TaskRepository) ListActiveByOwner(ctx context.Context, ownerID int64) ([]model.TaskDefinition, error) {
	var defs []model.TaskDefinition
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND is_active = ?", ownerID, true).
		Order("name ASC").
		Find(&defs).Error; err != nil {
		return nil, err
	}
	return defs, nil
}

// DistinctOwners lists every owner with at least one active definition.
func (r *TaskRepository) DistinctOwners(ctx context.Context) ([]int64, error) {
	var owners []int64
	if err := r.db.WithContext(ctx).Model(&model.TaskDefinition{}).
		Where("is_active = ?", true).
		Distinct("owner_id").
		Pluck("owner_id", &owners).Error; err != nil {
		return nil, err
	}
	return owners, nil
}

// Delete removes a definition and its occurrence history.
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.OccurrenceInstance{}).Error; err != nil {
			return fmt.Errorf("delete occurrences: %w", err)
		}
		if err := tx.Delete(&model.TaskDefinition{}, id).Error; err != nil {
			return fmt.Errorf("delete task definition: %w", err)
		}
		return nil
	})
}
