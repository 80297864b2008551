package model

import "time"

// Periodicity selects the recurrence mode of a task definition.
type Periodicity string

const (
	PeriodicityDaily    Periodicity = "daily"
	PeriodicityWeekly   Periodicity = "weekly"
	PeriodicityMonthly  Periodicity = "monthly"
	PeriodicityWeekdays Periodicity = "weekdays"
	PeriodicityCustom   Periodicity = "custom"
)

// TaskDefinition describes a recurring task. The recurrence fields are stored
// flat, the way the editing UI writes them: only the group matching
// Periodicity is authoritative, stale values from other modes may remain.
type TaskDefinition struct {
	ID          uint  `gorm:"primaryKey"`
	OwnerID     int64 `gorm:"index"`
	Name        string
	Description string
	Category    string
	Periodicity Periodicity `gorm:"type:varchar(16);default:'daily'"`

	// Weekday (0 = Monday … 6 = Sunday) applies to weekly mode only.
	Weekday *int
	// DayOfMonth (1–31) applies to monthly mode only.
	DayOfMonth *int

	// Custom-mode sub-rules. Weekday and month-day sets are stored as
	// comma-separated integers.
	CustomWeekdays    string
	CustomMonthDays   string
	TimesPerWeek      int
	TimesPerMonth     int
	IntervalDays      int
	IntervalStartDate *time.Time

	// Intra-day schedule, orthogonal to periodicity. Times are HH:MM;
	// ScheduledTimes is a comma-separated list.
	DefaultTime      string
	DailyOccurrences int `gorm:"default:1"`
	IntervalHours    int
	ScheduledTimes   string

	TargetQuantity float64
	Unit           string

	IsActive  bool `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TaskDefinition) TableName() string {
	return "task_definitions"
}
