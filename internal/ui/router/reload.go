package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/starfederation/datastar-go/datastar"

	dashboardFeature "github.com/leapstack-labs/tablescope/internal/ui/features/dashboard"
	"github.com/leapstack-labs/tablescope/internal/ui/notifier"
)

const (
	dashboardReloadPath = dashboardFeature.DefaultReloadPath
	reloadScript        = "window.location.reload()"
)

// reloader drives browser auto-reload in debug mode. Pages hold the
// reload stream open with the instance id of the process that served
// them: after a restart the id no longer matches and the page reloads on
// reconnect. A GET to /hotreload reloads every waiting page.
type reloader struct {
	instance string
	pages    *notifier.Notifier
}

func newReloader() *reloader {
	return &reloader{
		instance: uuid.NewString(),
		pages:    notifier.New(),
	}
}

// path returns the reload stream URL embedded in served pages.
func (rl *reloader) path() string {
	return dashboardReloadPath + "?instance=" + rl.instance
}

func (rl *reloader) register(router chi.Router) {
	router.Get(dashboardReloadPath, rl.wait)
	router.Get("/hotreload", rl.trigger)
}

func (rl *reloader) wait(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	if r.URL.Query().Get("instance") != rl.instance {
		_ = sse.ExecuteScript(reloadScript)
		return
	}

	ch := rl.pages.Subscribe()
	defer rl.pages.Unsubscribe(ch)

	select {
	case <-ch:
		_ = sse.ExecuteScript(reloadScript)
	case <-r.Context().Done():
	}
}

func (rl *reloader) trigger(w http.ResponseWriter, _ *http.Request) {
	rl.pages.Broadcast(notifier.Event{Name: "hotreload"})
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
