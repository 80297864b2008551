package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"routine-tracker/internal/model"
	"routine-tracker/internal/recur"
	"routine-tracker/internal/repository"
)

// ReportService builds human-readable summaries of a day's occurrences.
type ReportService struct {
	tasks       *repository.TaskRepository
	occurrences *repository.OccurrenceRepository
	streak      *StreakCalculator
}

func NewReportService(tasks *repository.TaskRepository, occurrences *repository.OccurrenceRepository, streak *StreakCalculator) *ReportService {
	return &ReportService{tasks: tasks, occurrences: occurrences, streak: streak}
}

// DailySummary renders the owner's due occurrences for a date as Telegram
// HTML. Materialization should have run for the date already; tasks without
// rows simply do not appear.
func (s *ReportService) DailySummary(ctx context.Context, ownerID int64, date time.Time) (string, error) {
	defs, err := s.tasks.ListActiveByOwner(ctx, ownerID)
	if err != nil {
		return "", err
	}

	day := recur.DateOf(date)
	var builder strings.Builder
	builder.WriteString("📋 <b>Daily routine</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", day.Format("2006-01-02")))

	listed := 0
	for i := range defs {
		rows, err := s.occurrences.ListByTaskAndDate(ctx, defs[i].ID, day)
		if err != nil {
			return "", err
		}
		if len(rows) == 0 {
			continue
		}
		listed++

		streak, err := s.streak.consecutiveDays(ctx, &defs[i], day)
		if err != nil {
			return "", err
		}
		builder.WriteString(formatTaskDay(&defs[i], rows, streak))
	}

	if listed == 0 {
		builder.WriteString("— nothing due today\n")
	}

	return strings.TrimSpace(builder.String()), nil
}

func formatTaskDay(def *model.TaskDefinition, rows []model.OccurrenceInstance, streak int) string {
	var sb strings.Builder

	done := 0
	for _, row := range rows {
		if row.Completed {
			done++
		}
	}

	icon := "⬜"
	if done == len(rows) {
		icon = "✅"
	} else if done > 0 {
		icon = "🔶"
	}

	sb.WriteString(fmt.Sprintf("%s <b>%s</b>", icon, html.EscapeString(strings.TrimSpace(def.Name))))
	if def.Category != "" {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(def.Category)))
	}
	if streak > 1 {
		sb.WriteString(fmt.Sprintf(" 🔥%d", streak))
	}
	sb.WriteByte('\n')

	for _, row := range rows {
		mark := "▫️"
		if row.Completed {
			mark = "✔️"
		}
		sb.WriteString(fmt.Sprintf("   %s %d of %d", mark, row.OccurrenceIndex+1, row.TotalInstances))
		if row.ScheduledTime != nil {
			sb.WriteString(fmt.Sprintf(" · %s", *row.ScheduledTime))
		}
		if def.TargetQuantity > 0 {
			sb.WriteString(fmt.Sprintf(" · %s %s", trimFloat(def.TargetQuantity), html.EscapeString(def.Unit)))
		}
		if row.Notes != "" {
			sb.WriteString(fmt.Sprintf(" — %s", html.EscapeString(strings.TrimSpace(row.Notes))))
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
