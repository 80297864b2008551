package model

import "time"

// OccurrenceInstance is one completable unit of a task on a specific date.
// The composite unique index is the idempotency guard: materialization
// inserts at most one row per (task, date, occurrence_index).
type OccurrenceInstance struct {
	ID              uint      `gorm:"primaryKey"`
	TaskID          uint      `gorm:"not null;uniqueIndex:idx_task_date_occurrence,priority:1"`
	Date            time.Time `gorm:"type:date;not null;uniqueIndex:idx_task_date_occurrence,priority:2"`
	OccurrenceIndex int       `gorm:"not null;uniqueIndex:idx_task_date_occurrence,priority:3"`

	// TotalInstances is the slot count for the date, kept current on every
	// materialization so the UI can render "2nd of 3".
	TotalInstances int
	// ScheduledTime is HH:MM, nil for unscheduled occurrences.
	ScheduledTime *string

	Completed         bool `gorm:"default:false"`
	QuantityCompleted float64
	Notes             string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (OccurrenceInstance) TableName() string {
	return "occurrence_instances"
}
