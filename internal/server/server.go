package server

import (
	"context"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"todo-board/internal/manager"
	"todo-board/internal/models"
)

// WeatherFetcher returns nil when weather is unavailable.
type WeatherFetcher interface {
	Fetch(ctx context.Context, city string) *models.WeatherSnapshot
}

type Options struct {
	Weather WeatherFetcher
	City    string
	// MetricsHandler defaults to promhttp.Handler().
	MetricsHandler http.Handler
}

type handlers struct {
	tm      *manager.TaskManager
	weather WeatherFetcher
	city    string
	page    *template.Template
}

func NewRouter(tm *manager.TaskManager, opts Options) *chi.Mux {
	h := &handlers{
		tm:      tm,
		weather: opts.Weather,
		city:    opts.City,
		page:    newTemplates(),
	}
	metrics := opts.MetricsHandler
	if metrics == nil {
		metrics = promhttp.Handler()
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/", h.index)
	r.Post("/add", h.addTask)
	r.Get("/complete/{id}", h.completeTask)
	r.Get("/reopen/{id}", h.reopenTask)
	r.Post("/edit/{id}", h.editTask)
	r.Get("/delete/{id}", h.deleteTask)
	r.Get("/clear_completed", h.clearCompleted)

	r.Get("/health", h.health)
	r.Get("/api/tasks", h.apiListTasks)
	r.Post("/api/tasks", h.apiAddTask)
	r.Method(http.MethodGet, "/metrics", metrics)

	return r
}
