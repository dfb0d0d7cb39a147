package transport

import (
	"time"

	"github.com/chronetask/backend/internal/transport/handler"
	transportMiddleware "github.com/chronetask/backend/internal/transport/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func NewRouter(
	orgHandler *handler.OrganizationHandler,
	projectHandler *handler.ProjectHandler,
	taskHandler *handler.TaskHandler,
	analyticsHandler *handler.AnalyticsHandler,
	healthHandler *handler.HealthHandler,
	jwtSecret string,
	log *zap.Logger,
) *chi.Mux {
	router := chi.NewRouter()

	// Recovery должен быть первым для обработки паник во всех middleware
	router.Use(transportMiddleware.Recovery(log))

	// RequestID для трейсинга запросов
	router.Use(middleware.RequestID)

	// Logging для структурированного логирования всех запросов
	router.Use(transportMiddleware.Logging(log))

	// Timeout для контроля времени выполнения запросов
	router.Use(transportMiddleware.Timeout(2*time.Second, log))

	// Metrics для сбора метрик производительности
	router.Use(transportMiddleware.Metrics)

	// Эндпоинт для Prometheus метрик
	router.Handle("/metrics", promhttp.Handler())

	router.Get("/health", healthHandler.HealthCheck)

	// Все остальные маршруты за JWT авторизацией
	router.Group(func(r chi.Router) {
		r.Use(transportMiddleware.Auth(jwtSecret, log))

		r.Route("/organization", func(r chi.Router) {
			r.Post("/create", orgHandler.CreateOrganization)
			r.Get("/get", orgHandler.GetOrganization)
			r.Post("/addMember", orgHandler.AddMember)
		})

		r.Route("/project", func(r chi.Router) {
			r.Post("/create", projectHandler.CreateProject)
			r.Get("/list", projectHandler.ListProjects)
			r.Post("/archive", projectHandler.ArchiveProject)
			r.Post("/addMember", projectHandler.AddMember)
		})

		r.Route("/task", func(r chi.Router) {
			r.Post("/create", taskHandler.CreateTask)
			r.Post("/setStatus", taskHandler.SetStatus)
			r.Post("/assign", taskHandler.AssignTask)
			r.Get("/list", taskHandler.ListTasks)
			r.Post("/comment", taskHandler.AddComment)
			r.Get("/comments", taskHandler.ListComments)
			r.Post("/logTime", taskHandler.LogTime)
		})

		r.Get("/analytics", analyticsHandler.GetAnalytics)
	})

	return router
}
