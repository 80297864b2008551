package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"routine-tracker/internal/bot"
	"routine-tracker/internal/config"
	"routine-tracker/internal/recur"
	"routine-tracker/internal/repository"
	"routine-tracker/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	taskRepo := repository.NewTaskRepository(db)
	occurrenceRepo := repository.NewOccurrenceRepository(db)
	goalRepo := repository.NewGoalRepository(db)

	evaluator := recur.NewEvaluator(occurrenceRepo)
	materializer := service.NewMaterializer(evaluator, occurrenceRepo)
	scheduler := service.NewScheduler(taskRepo, materializer)
	streak := service.NewStreakCalculator(evaluator, taskRepo, occurrenceRepo)
	taskSvc := service.NewTaskService(taskRepo, occurrenceRepo)
	goalSvc := service.NewGoalService(goalRepo, streak)
	reportSvc := service.NewReportService(taskRepo, occurrenceRepo, streak)

	// Catch up on dates missed while the daemon was down; idempotency makes
	// re-running already materialized dates a no-op.
	now := time.Now()
	if cfg.BackfillDays > 0 {
		startCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		if err := scheduler.Backfill(startCtx, now.AddDate(0, 0, -cfg.BackfillDays), now); err != nil {
			log.Printf("startup backfill: %v", err)
		}
		cancel()
	} else if err := scheduler.RunDaily(ctx, now); err != nil {
		log.Printf("startup run: %v", err)
	}

	var telegramBot *bot.Bot
	if cfg.TelegramToken != "" {
		telegramBot, err = bot.New(cfg.TelegramToken, taskSvc, reportSvc, streak)
		if err != nil {
			log.Fatalf("bot: %v", err)
		}
	}

	cron := service.NewCronRunner(time.Local)
	if _, err := cron.ScheduleDaily(cfg.RunAt, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		runDate := time.Now()
		if err := scheduler.RunDaily(jobCtx, runDate); err != nil {
			log.Printf("daily run: %v", err)
		}
		if err := goalSvc.RecalculateAll(jobCtx, runDate); err != nil {
			log.Printf("goal recalculation: %v", err)
		}
		if telegramBot != nil {
			owners, err := taskRepo.DistinctOwners(jobCtx)
			if err != nil {
				log.Printf("list owners: %v", err)
				return
			}
			if err := telegramBot.SendDailyReports(jobCtx, runDate, owners); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("report: %v", err)
			}
		}
	}); err != nil {
		log.Fatalf("schedule daily run: %v", err)
	}
	cron.Start()
	defer cron.Stop()

	log.Println("Routine tracker started.")
	if telegramBot != nil {
		if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("bot stopped with error: %v", err)
		}
	} else {
		<-ctx.Done()
	}
	log.Println("Shutdown complete.")
}
