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

// DefinitionInput represents data required to create or edit a definition.
type DefinitionInput struct {
	Name        string
	Description string
	Category    string
	Periodicity model.Periodicity

	Weekday    *int
	DayOfMonth *int

	CustomWeekdays    string
	CustomMonthDays   string
	TimesPerWeek      int
	TimesPerMonth     int
	IntervalDays      int
	IntervalStartDate *time.Time

	DefaultTime      string
	DailyOccurrences int
	IntervalHours    int
	ScheduledTimes   string

	TargetQuantity float64
	Unit           string
}

// CompletionInput carries the user-owned fields of one occurrence.
type CompletionInput struct {
	Completed         bool
	QuantityCompleted float64
	Notes             string
}

// TaskService wraps definition lifecycle and completion toggles.
type TaskService struct {
	tasks       *repository.TaskRepository
	occurrences *repository.OccurrenceRepository
}

func NewTaskService(tasks *repository.TaskRepository, occurrences *repository.OccurrenceRepository) *TaskService {
	return &TaskService{tasks: tasks, occurrences: occurrences}
}

// CreateDefinition validates and persists a new definition. Degradable
// configurations are returned as warnings, not errors: the engine will
// still evaluate them, just conservatively.
func (s *TaskService) CreateDefinition(ctx context.Context, ownerID int64, input DefinitionInput) (*model.TaskDefinition, []string, error) {
	def := definitionFromInput(ownerID, input)
	if err := validateDefinition(def); err != nil {
		return nil, nil, err
	}

	warnings := recur.Validate(def)
	for _, w := range warnings {
		log.Printf("[warn] definition %q: %s", def.Name, w)
	}

	if err := s.tasks.Create(ctx, def); err != nil {
		return nil, nil, err
	}
	return def, warnings, nil
}

// UpdateDefinition replaces the editable fields of an existing definition.
// Already materialized occurrences are left as they are; the new rule only
// steers future materialization, and reconciliation of changed slot counts
// happens lazily in the materializer.
func (s *TaskService) UpdateDefinition(ctx context.Context, id uint, input DefinitionInput) (*model.TaskDefinition, []string, error) {
	def, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	updated := definitionFromInput(def.OwnerID, input)
	updated.ID = def.ID
	updated.IsActive = def.IsActive
	updated.CreatedAt = def.CreatedAt
	if err := validateDefinition(updated); err != nil {
		return nil, nil, err
	}

	warnings := recur.Validate(updated)
	for _, w := range warnings {
		log.Printf("[warn] definition %q: %s", updated.Name, w)
	}

	if err := s.tasks.Save(ctx, updated); err != nil {
		return nil, nil, err
	}
	return updated, warnings, nil
}

// Deactivate halts future occurrence generation, keeping history intact.
func (s *TaskService) Deactivate(ctx context.Context, id uint) error {
	def, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return err
	}
	def.IsActive = false
	return s.tasks.Save(ctx, def)
}

// CompleteOccurrence is the completion toggle used by the presentation
// layer. It touches only the user-owned fields of the row; scheduling
// fields stay under the materializer's control.
func (s *TaskService) CompleteOccurrence(ctx context.Context, taskID uint, date time.Time, index int, input CompletionInput) (*model.OccurrenceInstance, error) {
	row, err := s.occurrences.Get(ctx, taskID, recur.DateOf(date), index)
	if err != nil {
		return nil, fmt.Errorf("occurrence %d/%d on %s: %w", taskID, index, recur.DateOf(date).Format("2006-01-02"), err)
	}

	row.Completed = input.Completed
	row.QuantityCompleted = input.QuantityCompleted
	row.Notes = input.Notes
	if err := s.occurrences.SaveCompletion(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *TaskService) GetDefinition(ctx context.Context, id uint) (*model.TaskDefinition, error) {
	return s.tasks.FindByID(ctx, id)
}

func (s *TaskService) ListActiveByOwner(ctx context.Context, ownerID int64) ([]model.TaskDefinition, error) {
	return s.tasks.ListActiveByOwner(ctx, ownerID)
}

func definitionFromInput(ownerID int64, input DefinitionInput) *model.TaskDefinition {
	periodicity := input.Periodicity
	if periodicity == "" {
		periodicity = model.PeriodicityDaily
	}
	return &model.TaskDefinition{
		OwnerID:           ownerID,
		Name:              input.Name,
		Description:       input.Description,
		Category:          input.Category,
		Periodicity:       periodicity,
		Weekday:           input.Weekday,
		DayOfMonth:        input.DayOfMonth,
		CustomWeekdays:    input.CustomWeekdays,
		CustomMonthDays:   input.CustomMonthDays,
		TimesPerWeek:      input.TimesPerWeek,
		TimesPerMonth:     input.TimesPerMonth,
		IntervalDays:      input.IntervalDays,
		IntervalStartDate: input.IntervalStartDate,
		DefaultTime:       input.DefaultTime,
		DailyOccurrences:  input.DailyOccurrences,
		IntervalHours:     input.IntervalHours,
		ScheduledTimes:    input.ScheduledTimes,
		TargetQuantity:    input.TargetQuantity,
		Unit:              input.Unit,
		IsActive:          true,
	}
}

func validateDefinition(def *model.TaskDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("name is required")
	}
	switch def.Periodicity {
	case model.PeriodicityDaily, model.PeriodicityWeekdays, model.PeriodicityCustom:
	case model.PeriodicityWeekly:
		if def.Weekday == nil || *def.Weekday < 0 || *def.Weekday > 6 {
			return fmt.Errorf("weekly periodicity requires a weekday between 0 and 6")
		}
	case model.PeriodicityMonthly:
		if def.DayOfMonth == nil || *def.DayOfMonth < 1 || *def.DayOfMonth > 31 {
			return fmt.Errorf("monthly periodicity requires a day of month between 1 and 31")
		}
	default:
		return fmt.Errorf("unknown periodicity %q", def.Periodicity)
	}
	return nil
}
