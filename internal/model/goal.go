package model

import "time"

type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusFailed    GoalStatus = "failed"
	GoalStatusCancelled GoalStatus = "cancelled"
)

type GoalType string

const (
	// GoalTypeConsecutiveDays tracks an unbroken run of fully completed
	// due-days of the related task.
	GoalTypeConsecutiveDays GoalType = "consecutive_days"
	// GoalTypeQuantity tracks an accumulated value updated outside this
	// subsystem.
	GoalTypeQuantity GoalType = "quantity"
)

// Goal tracks progress toward a target, optionally tied to a task.
type Goal struct {
	ID            uint  `gorm:"primaryKey"`
	OwnerID       int64 `gorm:"index"`
	Name          string
	RelatedTaskID *uint    `gorm:"index"`
	GoalType      GoalType `gorm:"type:varchar(24);default:'quantity'"`

	CurrentValue float64
	TargetValue  float64
	// DaysActive is derived from occurrence history for consecutive_days
	// goals; Recalculate rewrites it, Reset zeroes it.
	DaysActive int
	Status     GoalStatus `gorm:"type:varchar(16);default:'active'"`
	StartedAt  time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Goal) TableName() string {
	return "goals"
}
