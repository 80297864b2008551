package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"routine-tracker/internal/model"
)

// OccurrenceRepository handles materialized occurrence rows. The unique
// index on (task_id, date, occurrence_index) backs every write here.
type OccurrenceRepository struct {
	db *gorm.DB
}

func NewOccurrenceRepository(db *gorm.DB) *OccurrenceRepository {
	return &OccurrenceRepository{db: db}
}

// InsertIgnore inserts an occurrence row, silently doing nothing when the
// (task, date, index) key already exists. Two concurrent materializations
// may both attempt the insert; the loser is absorbed here, not surfaced.
func (r *OccurrenceRepository) InsertIgnore(ctx context.Context, inst *model.OccurrenceInstance) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(inst).Error; err != nil {
		return fmt.Errorf("insert occurrence: %w", err)
	}
	return nil
}

func (r *OccurrenceRepository) ListByTaskAndDate(ctx context.Context, taskID uint, date time.Time) ([]model.OccurrenceInstance, error) {
	var rows []model.OccurrenceInstance
	if err := r.db.WithContext(ctx).
		Where("task_id = ? AND date = ?", taskID, date).
		Order("occurrence_index ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *OccurrenceRepository) Get(ctx context.Context, taskID uint, date time.Time, index int) (*model.OccurrenceInstance, error) {
	var row model.OccurrenceInstance
	if err := r.db.WithContext(ctx).
		Where("task_id = ? AND date = ? AND occurrence_index = ?", taskID, date, index).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CountMaterializedDays implements recur.PeriodCounter: distinct dates with
// occurrences in [from, to], not counting the excluded date.
func (r *OccurrenceRepository) CountMaterializedDays(ctx context.Context, taskID uint, from, to, excluding time.Time) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.OccurrenceInstance{}).
		Where("task_id = ? AND date >= ? AND date <= ? AND date <> ?", taskID, from, to, excluding).
		Distinct("date").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// SetTotalInstances refreshes the per-date slot count on every row of the
// date, so incrementally created rows still render "Nth of M" consistently.
func (r *OccurrenceRepository) SetTotalInstances(ctx context.Context, taskID uint, date time.Time, total int) error {
	if err := r.db.WithContext(ctx).Model(&model.OccurrenceInstance{}).
		Where("task_id = ? AND date = ?", taskID, date).
		Update("total_instances", total).Error; err != nil {
		return fmt.Errorf("set total instances: %w", err)
	}
	return nil
}

// DeleteIncompleteFrom removes not-yet-completed rows whose index is at or
// beyond minIndex. Completed rows are never deleted here; the caller checks
// for them first.
func (r *OccurrenceRepository) DeleteIncompleteFrom(ctx context.Context, taskID uint, date time.Time, minIndex int) error {
	if err := r.db.WithContext(ctx).
		Where("task_id = ? AND date = ? AND occurrence_index >= ? AND completed = ?", taskID, date, minIndex, false).
		Delete(&model.OccurrenceInstance{}).Error; err != nil {
		return fmt.Errorf("delete stale occurrences: %w", err)
	}
	return nil
}

// SaveCompletion writes the user-owned fields of one occurrence row.
func (r *OccurrenceRepository) SaveCompletion(ctx context.Context, inst *model.OccurrenceInstance) error {
	updates := map[string]interface{}{
		"completed":          inst.Completed,
		"quantity_completed": inst.QuantityCompleted,
		"notes":              inst.Notes,
	}
	if err := r.db.WithContext(ctx).Model(inst).Updates(updates).Error; err != nil {
		return fmt.Errorf("save completion: %w", err)
	}
	return nil
}
