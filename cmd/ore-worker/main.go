package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"ore/internal/amqp"
	"ore/internal/cache"
	"ore/internal/cli"
	"ore/internal/core"
	"ore/internal/export"
	googleexport "ore/internal/export/google"
	applog "ore/internal/log"
	"ore/internal/notify/telegram"
	"ore/internal/services"
	"ore/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting ore-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	store, closeStore := cli.InitStore(logger, cfg)
	defer closeStore()

	summaryCache := cache.NewLRU[core.MonthlySummary](256, 10*time.Minute)
	summaries := services.NewSummaryService(store, cfg.RequiredDailyHours, summaryCache)

	// Export sink: optional, Google Sheets when configured.
	var sink export.SummaryWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := googleexport.NewFromEnv(context.Background())
		if err != nil {
			logger.Warn("Failed to initialize Sheets export, summaries stay local", "error", err)
		} else {
			sink = client
		}
	}

	// AMQP consumer: optional, day-changed messages drive summary export.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, day-changed processing disabled", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
		}
	}

	// Telegram notifier: optional, receives the daily unreported digest.
	var sender worker.Sender
	if cfg.TelegramToken != "" {
		notifier, err := telegram.New(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			logger.Warn("Failed to initialize Telegram notifier, reminders disabled", "error", err)
		} else {
			sender = notifier
		}
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)
	summaryCache.StartJanitor(ctx, time.Minute)

	if amqpClient != nil {
		reports := worker.NewReportWorker(summaries, sink)
		go consumeLoop(ctx, logger, amqpClient, reports, cfg.ConsumeInterval)
	}

	reminders := worker.NewReminderWorker(store, sender, cfg.RequiredDailyHours, cfg.MaxConcurrency)
	scheduler := cron.New()
	hour, minute := cfg.ReminderClock()
	spec := cronSpec(hour, minute)
	if _, err := scheduler.AddFunc(spec, func() {
		count, err := reminders.RunDailyCheck(ctx, time.Now())
		if err != nil {
			logger.Error("Daily reminder check failed", "error", err)
			return
		}
		logger.Info("Daily reminder check complete", "users_short", count)
	}); err != nil {
		logger.Error("Failed to schedule reminder job", "spec", spec, "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	logger.Info("Reminder job scheduled", "time", cfg.ReminderTime)

	cli.WaitForShutdown(ctx, done)
	cronCtx := scheduler.Stop()
	<-cronCtx.Done()
	logger.Info("ore-worker stopped")
}

// consumeLoop keeps the AMQP consumer alive, backing off between attempts.
func consumeLoop(ctx context.Context, logger *applog.Logger, client *amqp.Client, reports *worker.ReportWorker, backoff time.Duration) {
	for {
		err := client.ConsumeDayChanged(ctx, func(msg *amqp.DayChangedMessage) error {
			return reports.HandleDayChanged(ctx, msg)
		})
		if ctx.Err() != nil {
			return
		}
		logger.Error("Consumer stopped, retrying", "error", err, "backoff", backoff)
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
	}
}

// cronSpec builds a "minute hour * * *" daily spec.
func cronSpec(hour, minute int) string {
	return fmt.Sprintf("%d %d * * *", minute, hour)
}
