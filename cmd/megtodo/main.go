package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"megtodo/internal/api"
	"megtodo/internal/config"
	"megtodo/internal/kv"
	"megtodo/internal/logger"
	"megtodo/internal/notify"
	"megtodo/internal/repository"
	"megtodo/internal/service"
	"megtodo/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logg := logger.New(cfg.App.Env, cfg.Log.Dir)
	defer logg.Sync()

	client, err := store.NewSQLiteClient(cfg.DB.Path)
	if err != nil {
		logg.Fatalw("open store", "error", err)
	}
	defer client.Close()

	var streakStore kv.Store
	if cfg.Redis.Addr != "" {
		redisKV, err := kv.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logg.Fatalw("connect redis", "error", err)
		}
		defer redisKV.Close()
		streakStore = redisKV
	} else {
		logg.Warnw("no REDIS_ADDR set, streak state will not survive restarts")
		streakStore = kv.NewMemory()
	}

	var notifier notify.Notifier
	if cfg.Telegram.Token != "" {
		notifier, err = notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			logg.Fatalw("create telegram notifier", "error", err)
		}
	} else {
		notifier = notify.NewLog(logg)
	}

	taskRepo := repository.NewTaskRepository(client)
	streak := service.NewStreakTracker(streakStore, notifier, logg)
	taskSvc := service.NewTaskService(taskRepo, streak, notifier, logg)

	if cfg.App.SeedDemo {
		if err := taskSvc.SeedDemo(ctx); err != nil {
			logg.Warnw("seed demo tasks", "error", err)
		}
	}

	scheduler := service.NewScheduler(time.Local)
	if cfg.Report.StatsInterval > 0 {
		if _, err := scheduler.ScheduleInterval(cfg.Report.StatsInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := taskSvc.Refresh(jobCtx, service.DefaultFilter()); err != nil {
				logg.Warnw("stats pass", "error", err)
			}
		}); err != nil {
			logg.Fatalw("schedule stats pass", "error", err)
		}
	}
	if cfg.Report.SummaryAt != "" {
		if _, err := scheduler.ScheduleDaily(cfg.Report.SummaryAt, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := taskSvc.SendDailySummary(jobCtx); err != nil {
				logg.Warnw("daily summary", "error", err)
			}
		}); err != nil {
			logg.Fatalw("schedule daily summary", "error", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewTaskHandler(taskSvc, logg)
	server := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      api.NewRouter(handler, logg, cfg.App.Env),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		logg.Infow("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatalw("http server", "error", err)
		}
	}()

	<-ctx.Done()
	logg.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Errorw("server shutdown", "error", err)
	}
	logg.Infow("shutdown complete")
}
