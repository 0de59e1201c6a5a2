// Package mealplanner предоставляет маршруты для основного приложения.
package mealplanner

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	accountremove "github.com/magabrotheeeer/ai-meal-planner/internal/http/handlers/account/remove"
	"github.com/magabrotheeeer/ai-meal-planner/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/ai-meal-planner/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/ai-meal-planner/internal/http/handlers/health"
	"github.com/magabrotheeeer/ai-meal-planner/internal/http/handlers/plan/generate"
	"github.com/magabrotheeeer/ai-meal-planner/internal/http/handlers/plan/list"
	"github.com/magabrotheeeer/ai-meal-planner/internal/http/handlers/plan/read"
	"github.com/magabrotheeeer/ai-meal-planner/internal/http/handlers/plan/remove"
	"github.com/magabrotheeeer/ai-meal-planner/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/ai-meal-planner/internal/services/auth"
	planservice "github.com/magabrotheeeer/ai-meal-planner/internal/services/plan"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.AuthService, planService *planservice.PlanService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/plans", generate.New(logger, planService).ServeHTTP)
			r.Get("/plans/{id}", read.New(logger, planService).ServeHTTP)
			r.Delete("/plans/{id}", remove.New(logger, planService).ServeHTTP)
			r.Get("/plans/list", list.New(logger, planService).ServeHTTP)
			r.Delete("/account", accountremove.New(logger, planService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
