package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/propkeeper/internal/logging"
	"github.com/dmitrijs2005/propkeeper/internal/server/resources"
	"github.com/go-chi/chi/v5"
)

// NewRouter mounts the token, logout and resource endpoints under /api and
// the health probe at /health/.
func NewRouter(h *Handlers, auth Authenticator, logger logging.Logger) http.Handler {
	root := chi.NewRouter()

	// outer to inner
	root.Use(
		Recover(logger),
		RequestID(),
		Logging(logger),
	)

	root.Get("/health/", h.Health)

	root.Route("/api", func(api chi.Router) {
		api.Post("/token/", h.ObtainToken)
		api.Post("/token/refresh/", h.RefreshToken)

		api.Group(func(r chi.Router) {
			r.Use(AuthBearer(auth))

			r.Post("/users/logout/", h.Logout)
			for _, c := range resources.Collections() {
				r.Get("/"+c+"/", h.list(c))
				r.Post("/"+c+"/", h.create(c))
				r.Get("/"+c+"/{id}/", h.get(c))
				r.Delete("/"+c+"/{id}/", h.delete(c))
			}
		})
	})

	return root
}
