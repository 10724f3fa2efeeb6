// Package router sets up HTTP routes for the UI server.
package router

import (
	"github.com/go-chi/chi/v5"

	dashboardFeature "github.com/leapstack-labs/tablescope/internal/ui/features/dashboard"
	"github.com/leapstack-labs/tablescope/internal/ui/resources"
)

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, dashboard dashboardFeature.Config) error {
	if dashboard.IsDev {
		rl := newReloader()
		rl.register(router)
		dashboard.ReloadPath = rl.path()
	}

	router.Handle("/static/*", resources.Handler())

	return dashboardFeature.SetupRoutes(router, dashboard)
}
