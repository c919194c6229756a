package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Sanjeetkumar61/FormBuilder/internal/auth"
	"github.com/Sanjeetkumar61/FormBuilder/internal/handler"
	"github.com/Sanjeetkumar61/FormBuilder/internal/metrics"
	mw "github.com/Sanjeetkumar61/FormBuilder/internal/middleware"
)

type Options struct {
	JWTSecret         string
	CORSOrigins       []string
	AllowRegistration bool
	Logger            *zap.Logger
	Metrics           *metrics.Metrics
}

type Handlers struct {
	Auth      *handler.AuthHandler
	Forms     *handler.FormHandler
	Responses *handler.ResponseHandler
	Dashboard *handler.DashboardHandler
	Health    *handler.HealthHandler
}

func New(opts Options, h Handlers) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.Logger(logger))
	r.Use(mw.Recovery)
	r.Use(mw.Metrics(opts.Metrics))
	r.Use(mw.CORS(opts.CORSOrigins))

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health.Health)

		// Public routes
		r.Post("/auth/login", h.Auth.Login)
		if opts.AllowRegistration {
			r.Post("/auth/register", h.Auth.Register)
		}
		r.Get("/forms/public/available", h.Forms.ListPublic)
		r.Get("/forms/{id}", h.Forms.Get)
		r.Post("/responses", h.Responses.Submit)
		r.Get("/responses/count/{formId}", h.Responses.Count)
		r.Get("/responses/single/{responseId}", h.Responses.Get)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(opts.JWTSecret))

			r.Get("/auth/profile", h.Auth.Profile)

			r.Post("/forms", h.Forms.Create)
			r.Get("/forms/admin/my-forms", h.Forms.ListOwned)
			r.Get("/forms/admin/dashboard", h.Dashboard.Dashboard)
			r.Put("/forms/{id}", h.Forms.Update)
			r.Delete("/forms/{id}", h.Forms.Delete)

			r.Get("/responses/{formId}", h.Responses.ListForForm)
			r.Get("/responses/single/{responseId}/files/{index}", h.Responses.Download)
		})
	})

	return r
}
