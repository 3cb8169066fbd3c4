// Package api assembles the HTTP surface: routing, CORS, and the handlers
// for the auth, user and admin endpoints.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/olachris/backend/internal/auth"
	"github.com/olachris/backend/internal/httpx"
	"github.com/olachris/backend/internal/logger"
	"github.com/olachris/backend/internal/session"
	"github.com/olachris/backend/internal/store"
)

// Config holds the router configuration.
type Config struct {
	// AllowedOrigins are the storefront origins allowed to call the API with
	// credentials.
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`
}

// Directory is the admin-facing view of the user store. Satisfied by
// *store.Store.
type Directory interface {
	List(ctx context.Context) ([]store.User, error)
	Delete(ctx context.Context, id string) error
}

// Deps are the collaborators the router wires together.
type Deps struct {
	Auth     *auth.Service
	Users    Directory
	Sessions *session.Middleware
	Cookies  *session.Manager
	// AuthLimiter, when set, rate-limits the credential endpoints.
	AuthLimiter func(http.Handler) http.Handler
	// Health probes the backing store for the readiness endpoint.
	Health func(context.Context) error
	Logger *slog.Logger
}

type handlers struct {
	auth    *auth.Service
	users   Directory
	cookies *session.Manager
	logger  *slog.Logger
}

// NewRouter builds the HTTP handler tree.
func NewRouter(cfg Config, deps Deps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = logger.NewDiscard()
	}
	h := &handlers{
		auth:    deps.Auth,
		users:   deps.Users,
		cookies: deps.Cookies,
		logger:  log,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.healthz(deps.Health))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if deps.AuthLimiter != nil {
					r.Use(deps.AuthLimiter)
				}
				r.Post("/register", h.register)
				r.Post("/login", h.login)
				r.Post("/google", h.googleAuth)
			})
			r.With(deps.Sessions.Authenticate).Get("/status", h.status)
			r.Post("/logout", h.logout)
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(deps.Sessions.Authenticate)
			r.Get("/profile", h.profile)
			r.Put("/profile", h.updateProfile)
			r.Delete("/profile", h.deleteProfile)
			r.Get("/orders", h.orders)
			r.Get("/favorites", h.favorites)
			r.Post("/favorites/toggle/{productID}", h.toggleFavorite)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(deps.Sessions.Authenticate, session.RequireAdmin)
			r.Get("/users", h.listUsers)
			r.Post("/users", h.createUser)
			r.Delete("/users/{id}", h.deleteUser)
		})
	})

	return r
}

func (h *handlers) healthz(probe func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if probe != nil {
			if err := probe(r.Context()); err != nil {
				httpx.Error(w, httpx.NewHTTPError(http.StatusServiceUnavailable, "unhealthy"))
				return
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
