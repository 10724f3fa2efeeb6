package dashboard

import (
	"github.com/go-chi/chi/v5"
)

// SetupRoutes configures routes for the dashboard feature.
func SetupRoutes(router chi.Router, cfg Config) error {
	handlers := NewHandlers(cfg)

	router.Get("/", handlers.Page)
	router.Get("/updates", handlers.Updates)
	router.Get("/export", handlers.Export)

	for _, b := range handlers.Bindings() {
		router.Post(b.Path(), b.Handler)
	}

	return nil
}
