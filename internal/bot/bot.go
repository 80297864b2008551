package bot

import (
	"context"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"routine-tracker/internal/service"
)

const helpText = `📌 <b>Commands</b>
/today — today's occurrences
/tasks — your active task definitions
/done &lt;task&gt; &lt;n&gt; — complete the n-th occurrence of a task for today
/streak &lt;task&gt; — current consecutive-day streak
/help — this message`

// Bot is a thin Telegram surface over the occurrence engine. The chat id
// doubles as the owner id on task definitions; the engine trusts it and
// performs no authorization of its own.
type Bot struct {
	api       *tgbotapi.BotAPI
	taskSvc   *service.TaskService
	reportSvc *service.ReportService
	streak    *service.StreakCalculator
}

func New(token string, taskSvc *service.TaskService, reportSvc *service.ReportService, streak *service.StreakCalculator) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:       api,
		taskSvc:   taskSvc,
		reportSvc: reportSvc,
		streak:    streak,
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil || update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			continue
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			log.Printf("handle message: %v", err)
		}
	}

	return ctx.Err()
}

// SendDailyReports delivers the day's summary to every owner with active
// definitions.
func (b *Bot) SendDailyReports(ctx context.Context, date time.Time, owners []int64) error {
	for _, ownerID := range owners {
		if err := ctx.Err(); err != nil {
			return err
		}
		summary, err := b.reportSvc.DailySummary(ctx, ownerID, date)
		if err != nil {
			log.Printf("daily summary for owner %d: %v", ownerID, err)
			continue
		}
		if err := b.send(ownerID, summary); err != nil {
			log.Printf("send report to %d: %v", ownerID, err)
		}
	}
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	fields := strings.Fields(msg.Text)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "/start", "/help":
		return b.send(chatID, helpText)
	case "/today":
		summary, err := b.reportSvc.DailySummary(ctx, chatID, time.Now())
		if err != nil {
			return err
		}
		return b.send(chatID, summary)
	case "/tasks":
		return b.sendTaskList(ctx, chatID)
	case "/done":
		return b.handleDone(ctx, chatID, fields[1:])
	case "/streak":
		return b.handleStreak(ctx, chatID, fields[1:])
	default:
		return b.send(chatID, "Unknown command, see /help")
	}
}

func (b *Bot) sendTaskList(ctx context.Context, chatID int64) error {
	defs, err := b.taskSvc.ListActiveByOwner(ctx, chatID)
	if err != nil {
		return err
	}
	if len(defs) == 0 {
		return b.send(chatID, "No active tasks.")
	}

	var sb strings.Builder
	sb.WriteString("🗂 <b>Active tasks</b>\n")
	for _, def := range defs {
		sb.WriteString(fmt.Sprintf("%d · %s <i>(%s)</i>\n", def.ID, html.EscapeString(def.Name), def.Periodicity))
	}
	return b.send(chatID, sb.String())
}

func (b *Bot) handleDone(ctx context.Context, chatID int64, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return b.send(chatID, "Usage: /done <task> [n]")
	}

	taskID, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return b.send(chatID, "Task id must be a number, see /tasks")
	}

	// Occurrence numbers are 1-based in chat, 0-based in storage.
	n := 1
	if len(args) == 2 {
		n, err = strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return b.send(chatID, "Occurrence number must be a positive number")
		}
	}

	def, err := b.taskSvc.GetDefinition(ctx, uint(taskID))
	if err != nil || def.OwnerID != chatID {
		return b.send(chatID, "Task not found, see /tasks")
	}

	row, err := b.taskSvc.CompleteOccurrence(ctx, def.ID, time.Now(), n-1, service.CompletionInput{Completed: true})
	if err != nil {
		return b.send(chatID, "Nothing scheduled under that number today.")
	}
	return b.send(chatID, fmt.Sprintf("✔️ %s — %d of %d done", html.EscapeString(def.Name), row.OccurrenceIndex+1, row.TotalInstances))
}

func (b *Bot) handleStreak(ctx context.Context, chatID int64, args []string) error {
	if len(args) != 1 {
		return b.send(chatID, "Usage: /streak <task>")
	}

	taskID, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return b.send(chatID, "Task id must be a number, see /tasks")
	}

	def, err := b.taskSvc.GetDefinition(ctx, uint(taskID))
	if err != nil || def.OwnerID != chatID {
		return b.send(chatID, "Task not found, see /tasks")
	}

	days, err := b.streak.ConsecutiveDays(ctx, def.ID, time.Now())
	if err != nil {
		return err
	}
	return b.send(chatID, fmt.Sprintf("🔥 %s: %d day(s)", html.EscapeString(def.Name), days))
}

func (b *Bot) send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
