package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/artem/quizbot/internal/ai"
	"github.com/artem/quizbot/internal/api"
	"github.com/artem/quizbot/internal/bot"
	"github.com/artem/quizbot/internal/config"
	"github.com/artem/quizbot/internal/db"
	"github.com/artem/quizbot/internal/logger"
	"github.com/artem/quizbot/internal/reminder"
	"github.com/artem/quizbot/internal/repository/sqlite"
	"github.com/artem/quizbot/internal/services"
	"github.com/artem/quizbot/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("QuizBot Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("cards_per_session=%d", cfg.CardsPerSession)
	log.Debug("notification_window=%02d:00-%02d:00", cfg.NotificationStartHour, cfg.NotificationEndHour)
	log.Debug("import_worker_count=%d", cfg.ImportWorkerCount)
	log.Debug("import_queue_size=%d", cfg.ImportQueueSize)
	log.Debug("telegram_enabled=%t", cfg.TelegramToken != "")
	log.Debug("llm_enabled=%t", cfg.LLMAPIURL != "")

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	users := sqlite.NewUserRepository(database)
	decks := sqlite.NewDeckRepository(database)
	cards := sqlite.NewCardRepository(database)
	progress := sqlite.NewProgressRepository(database)
	statsRepo := sqlite.NewStatsRepository(database)
	gamificationRepo := sqlite.NewGamificationRepository(database)

	// Services
	schedulerService := services.NewSchedulerService(progress)
	gamificationService := services.NewGamificationService(gamificationRepo, progress)
	deckService := services.NewDeckService(decks, cards)
	studyService := services.NewStudyService(decks, cards, schedulerService, statsRepo, gamificationService, cfg.CardsPerSession)
	statsService := services.NewStatsService(statsRepo, schedulerService, gamificationService, deckService)
	aiClient := ai.New(cfg.LLMAPIURL, cfg.LLMAPIKey)

	importPool := worker.NewPool(cfg.ImportWorkerCount, cfg.ImportQueueSize)

	srv := api.NewServer(deckService, studyService, statsService, users, aiClient, importPool)

	ctx, cancel := context.WithCancel(context.Background())
	importPool.Start(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Telegram transport and due-card reminders are optional; without a
	// token the HTTP API still runs on its own.
	var rem *reminder.Reminder
	if cfg.TelegramToken != "" {
		tgBot, err := bot.New(cfg.TelegramToken, users, deckService, studyService, statsService, aiClient, importPool)
		if err != nil {
			log.Error("failed to start telegram bot: %v", err)
			os.Exit(1)
		}
		go tgBot.Run(ctx)

		rem = reminder.New(users, schedulerService, tgBot, cfg.NotificationStartHour, cfg.NotificationEndHour)
		if err := rem.Start(); err != nil {
			log.Error("failed to start reminder job: %v", err)
			os.Exit(1)
		}
	} else {
		log.Warn("TELEGRAM_BOT_TOKEN not set, telegram bot and reminders disabled")
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping background work")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	if rem != nil {
		log.Debug("stopping reminder job")
		rem.Stop()
	}
	log.Debug("stopping import pool")
	importPool.Stop()

	log.Info("===========================================")
	log.Info("QuizBot Stopped")
	log.Info("===========================================")
}
