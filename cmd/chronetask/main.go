package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chronetask/backend/internal/config"
	"github.com/chronetask/backend/internal/infrastructure/db"
	"github.com/chronetask/backend/internal/infrastructure/repository"
	"github.com/chronetask/backend/internal/transport"
	"github.com/chronetask/backend/internal/transport/handler"
	"github.com/chronetask/backend/internal/usecase/service"
	"github.com/chronetask/backend/pkg/logger"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.App.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewDatabase(ctx, cfg.Database.URL, "", log)
	if err != nil {
		log.Fatal("database init failed", zap.Error(err))
	}
	defer pool.Close()

	// Репозитории
	orgRepo := repository.NewOrganizationRepository(pool, log)
	projectRepo := repository.NewProjectRepository(pool, log)
	taskRepo := repository.NewTaskRepository(pool, log)
	analyticsRepo := repository.NewAnalyticsRepository(pool, log)

	// Сервисы, роли резолвятся через репозиторий организаций
	orgService := service.NewOrganizationService(orgRepo, log)
	projectService := service.NewProjectService(projectRepo, orgRepo, log)
	taskService := service.NewTaskService(taskRepo, orgRepo, log)
	analyticsService := service.NewAnalyticsService(analyticsRepo, orgRepo, log)

	// Хендлеры
	orgHandler := handler.NewOrganizationHandler(orgService, log)
	projectHandler := handler.NewProjectHandler(projectService, log)
	taskHandler := handler.NewTaskHandler(taskService, log)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, log)
	healthHandler := handler.NewHealthHandler(log)

	router := transport.NewRouter(
		orgHandler,
		projectHandler,
		taskHandler,
		analyticsHandler,
		healthHandler,
		cfg.Auth.JwtSecret,
		log,
	)

	server := transport.NewServer(cfg.App.Port, router, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("server start failed", zap.Error(err))
		}
	}()

	// Graceful shutdown по SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}

	log.Info("server stopped")
}
