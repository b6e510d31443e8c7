package api

import (
	"log/slog"
	"net/http"

	"github.com/dom/dietlog/internal/api/handlers"
	"github.com/dom/dietlog/internal/api/middleware"
	"github.com/dom/dietlog/internal/config"
	"github.com/dom/dietlog/internal/logging"
	"github.com/dom/dietlog/internal/metrics"
	"github.com/dom/dietlog/internal/service"
	"github.com/dom/dietlog/internal/session"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type Deps struct {
	Services *service.Services
	DB       *gorm.DB
	Config   *config.Config
	Clock    clockwork.Clock
	Registry *prometheus.Registry
	Logger   *slog.Logger
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	httpMetrics := metrics.NewHTTPMetrics(deps.Registry)

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(logging.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestSize(deps.Config.MaxBodyBytes))
	r.Use(httpMetrics.Middleware)

	r.Get("/health", health(deps.DB))
	r.Handle("/metrics", metrics.Handler(deps.Registry))

	sessions := session.NewResolver(deps.Config, deps.Clock)
	mealHandler := handlers.NewMealHandler(deps.Services.Meal, sessions)
	userHandler := handlers.NewUserHandler(deps.Services.User, sessions)

	r.Route("/meals", func(r chi.Router) {
		// Creation mints a session when the client has none
		r.Post("/", mealHandler.Create)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(sessions))
			r.Get("/", mealHandler.List)
			r.Get("/summary", mealHandler.Summary)
			r.Get("/{id}", mealHandler.Get)
			r.Put("/{id}", mealHandler.Update)
			r.Delete("/{id}", mealHandler.Delete)
		})
	})

	// Users are public
	r.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.List)
		r.Get("/{id}", userHandler.Get)
		r.Post("/", userHandler.Create)
	})

	return r
}

func health(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			slog.ErrorContext(r.Context(), "health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("OK"))
	}
}
