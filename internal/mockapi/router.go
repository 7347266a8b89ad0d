package mockapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the stub
// marketplace API. It applies request logging and mounts the user and item
// endpoints under /api.
//
// Routes:
//
//	POST /api/user          → userHandler.Create (registration)
//	POST /api/user/login    → userHandler.Login
//	POST /api/user/logout   → userHandler.Logout
//	GET  /api/user/current  → userHandler.Current (protected by SessionAuth)
//	GET  /api/item          → itemHandler.List
func NewRouter(userHandler *UserHandler, itemHandler *ItemHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	// Log each request and its metadata
	r.Use(WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/user", userHandler.Create)
		r.Post("/user/login", userHandler.Login)
		r.Post("/user/logout", userHandler.Logout)
		r.Get("/item", itemHandler.List)

		// Protected group: requires a valid session cookie
		r.Group(func(r chi.Router) {
			r.Use(SessionAuth(userHandler.Tokens))
			r.Get("/user/current", userHandler.Current)
		})
	})

	return r
}
