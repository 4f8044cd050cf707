package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskplan/internal/api"
	"taskplan/internal/auth"
	"taskplan/internal/config"
	"taskplan/internal/notify"
	"taskplan/internal/repository"
	"taskplan/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config", "err", err)
		os.Exit(1)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Error("db", "err", err)
		os.Exit(1)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	recurringRepo := repository.NewRecurringTaskRepository(db)

	authManager := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	accountSvc := service.NewAccountService(userRepo, authManager)
	workspaceSvc := service.NewWorkspaceService(workspaceRepo)
	categorySvc := service.NewCategoryService(categoryRepo)
	taskSvc := service.NewTaskService(taskRepo, recurringRepo, log)
	recurringSvc := service.NewRecurringService(recurringRepo, taskRepo)
	digestSvc := service.NewDigestService(taskRepo, recurringRepo)

	handler := &api.API{
		Auth:       authManager,
		Accounts:   accountSvc,
		Workspaces: workspaceSvc,
		Categories: categorySvc,
		Tasks:      taskSvc,
		Recurring:  recurringSvc,
		Log:        log,
	}

	if cfg.TelegramToken != "" && cfg.DigestTime != "" {
		notifier, err := notify.NewTelegramNotifier(cfg.TelegramToken)
		if err != nil {
			log.Error("telegram", "err", err)
			os.Exit(1)
		}
		digests := notify.NewDigestSender(userRepo, digestSvc, notifier, log)

		scheduler := service.NewSchedulerService(time.Local)
		if _, err := scheduler.ScheduleDaily(cfg.DigestTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := digests.SendDailyDigests(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("digest", "err", err)
			}
		}); err != nil {
			log.Error("schedule digest", "err", err)
			os.Exit(1)
		}
		scheduler.Start()
		defer scheduler.Stop()
		log.Info("daily digest scheduled", "time", cfg.DigestTime)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
	log.Info("shutdown complete")
}
