package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ivanquesadapalmero/planazo-backend/internal/api/handlers"
	"github.com/ivanquesadapalmero/planazo-backend/internal/api/middleware"
	"github.com/ivanquesadapalmero/planazo-backend/internal/auth"
	"github.com/ivanquesadapalmero/planazo-backend/internal/categories"
	"github.com/ivanquesadapalmero/planazo-backend/internal/participations"
	"github.com/ivanquesadapalmero/planazo-backend/internal/plans"
	"github.com/ivanquesadapalmero/planazo-backend/internal/users"
	"github.com/ivanquesadapalmero/planazo-backend/pkg/queue"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const Version = "1.0.0"

type Router struct {
	chi.Router
	limiters []*middleware.RateLimiter
}

type RouterConfig struct {
	DB                   *gorm.DB
	Redis                *redis.Client
	QueueInspector       handlers.QueueInspector
	Logger               *slog.Logger
	JWTService           auth.TokenService
	AuthService          auth.Authenticator
	PasswordReset        auth.PasswordResetter
	UserService          *users.Service
	CategoryService      *categories.Service
	PlanService          *plans.Service
	ParticipationService *participations.Service
	AllowedOrigins       []string
	TrustProxy           bool
	RateLimitReqs        int // per client address on public auth endpoints
	RateLimitUserReqs    int // per user on authenticated endpoints
	RateLimitWindow      time.Duration
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()
	router := &Router{Router: r}

	r.Use(chimw.RequestID)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Metrics)

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis, cfg.QueueInspector, queue.Names(), Version)
	authHandler := handlers.NewAuthHandler(cfg.AuthService, cfg.PasswordReset, cfg.Logger)
	userHandler := handlers.NewUserHandler(cfg.UserService, cfg.Logger)
	categoryHandler := handlers.NewCategoryHandler(cfg.CategoryService, cfg.Logger)
	planHandler := handlers.NewPlanHandler(cfg.PlanService, cfg.CategoryService, cfg.UserService, cfg.Logger)
	participationHandler := handlers.NewParticipationHandler(cfg.ParticipationService, cfg.UserService, cfg.Logger)

	requireAuth := middleware.Auth(cfg.JWTService, cfg.UserService, cfg.Logger)
	publicLimit := router.limit(cfg.RateLimitReqs, cfg.RateLimitWindow, middleware.ByIP)
	userLimit := router.limit(cfg.RateLimitUserReqs, cfg.RateLimitWindow, middleware.ByUser)

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(publicLimit)
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
				r.Post("/forgot-password", authHandler.ForgotPassword)
				r.Post("/reset-password", authHandler.ResetPassword)
			})
			r.With(requireAuth).Get("/verify", authHandler.Verify)
		})

		r.Route("/users", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(requireAuth, userLimit)
				r.Get("/me", userHandler.Me)
				r.Put("/me", userHandler.UpdateMe)
				r.Delete("/me", userHandler.DeleteMe)
			})
			r.Get("/{id}", userHandler.Get)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.List)
			r.Get("/{id}", categoryHandler.Get)
		})

		r.Route("/plans", func(r chi.Router) {
			r.Get("/", planHandler.List)
			r.Get("/upcoming", planHandler.Upcoming)
			r.Get("/category/{categoryId}", planHandler.ByCategory)
			r.Get("/creator/{creatorId}", planHandler.ByCreator)
			r.Get("/search", planHandler.Search)
			r.Get("/{id}", planHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, userLimit)
				r.Post("/", planHandler.Create)
				r.Put("/{id}", planHandler.Update)
				r.Delete("/{id}", planHandler.Delete)
				r.Patch("/{id}/cancel", planHandler.Cancel)
			})
		})

		r.Route("/participations", func(r chi.Router) {
			r.Get("/plans/{planId}/participants", participationHandler.Participants)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, userLimit)
				r.Post("/plans/{planId}/join", participationHandler.Join)
				r.Delete("/plans/{planId}/leave", participationHandler.Leave)
				r.Delete("/plans/{planId}/participants/{userId}", participationHandler.Remove)
				r.Get("/plans/{planId}/check", participationHandler.Check)
				r.Get("/my-participations", participationHandler.Mine)
			})
		})
	})

	return router
}

// limit returns a rate limiting middleware, or a pass-through when requests
// is not positive.
func (rt *Router) limit(requests int, window time.Duration, key func(*http.Request) string) func(http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	rl := middleware.NewRateLimiter(requests, window)
	rt.limiters = append(rt.limiters, rl)
	return rl.Middleware(key)
}

// Close stops the background work of the router's rate limiters.
func (rt *Router) Close() {
	for _, rl := range rt.limiters {
		rl.Stop()
	}
}
