package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/lfapurpose/ghost-gateway/app"
	"github.com/lfapurpose/ghost-gateway/handlers"
	appmw "github.com/lfapurpose/ghost-gateway/middleware"
	"github.com/lfapurpose/ghost-gateway/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	requestTimeout := deps.Config.Server.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	// Core middleware
	r.Use(appmw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmw.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.SetHeader("Cache-Control", "no-store"))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     deps.Config.CORS.AllowedOrigins,
		AllowedMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:     []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:     []string{"X-Request-ID"},
		MaxAge:             deps.Config.CORS.MaxAge,
		OptionsPassthrough: true,
	}))
	r.Use(appmw.Preflight)

	// Health check endpoints
	r.Get("/healthz", handlers.HealthCheck(deps))
	r.Get("/readyz", handlers.ReadinessCheck(deps))

	postHandler := handlers.NewPostHandlerFromDeps(deps)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", handlers.StatusHandler(deps))

		r.Route("/posts", func(r chi.Router) {
			r.Get("/upcoming", postHandler.HandleUpcoming)
			r.Post("/upcoming/featured", postHandler.HandleFeatureUpcoming)
			r.Get("/featured", postHandler.HandleFeatured)
			r.Get("/public/featured", postHandler.HandlePublicFeatured)
			r.Put("/{id}/featured", postHandler.HandleFeature)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "endpoint not found")
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	return r
}
