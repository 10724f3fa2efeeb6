package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/tablescope/internal/catalog"
	"github.com/leapstack-labs/tablescope/internal/ui/notifier"
)

const (
	sessionName = "tablescope"
	keyDatabase = "database"
	keyTable    = "table"
	keySID      = "sid"
)

// Config holds the dependencies of the dashboard handlers.
type Config struct {
	Inspector    *catalog.Inspector
	DataDir      string
	Extensions   []string
	PageSize     int
	SessionStore sessions.Store
	Notifier     *notifier.Notifier
	IsDev        bool
	ReloadPath   string // dev reload stream; defaults to DefaultReloadPath
	Logger       *slog.Logger
}

// Handlers provides HTTP handlers for the dashboard feature.
type Handlers struct {
	inspector    *catalog.Inspector
	dataDir      string
	extensions   []string
	pageSize     int
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	isDev        bool
	reloadPath   string
	logger       *slog.Logger
	now          func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg Config) *Handlers {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	notify := cfg.Notifier
	if notify == nil {
		notify = notifier.New()
	}
	reloadPath := cfg.ReloadPath
	if reloadPath == "" {
		reloadPath = DefaultReloadPath
	}

	return &Handlers{
		inspector:    cfg.Inspector,
		dataDir:      cfg.DataDir,
		extensions:   cfg.Extensions,
		pageSize:     pageSize,
		sessionStore: cfg.SessionStore,
		notifier:     notify,
		isDev:        cfg.IsDev,
		reloadPath:   reloadPath,
		logger:       logger,
		now:          time.Now,
	}
}

// Bindings returns the (element, event) handler table.
func (h *Handlers) Bindings() []Binding {
	return []Binding{
		{Element: DatabaseDropdownID, Event: "change", Handler: h.DatabaseChanged},
		{Element: GoButtonID, Event: "click", Handler: h.GoClicked},
		{Element: DownloadButtonID, Event: "click", Handler: h.DownloadClicked},
	}
}

// Page renders the dashboard, restoring the last selection from the session
// when it is still available.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	databases, err := catalog.ListDatabases(h.dataDir, h.extensions...)
	if err != nil {
		h.logger.Error("failed to list databases", "error", err, "dir", h.dataDir)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := PageData{
		Title:     "Dashboard",
		Databases: databases,
		Tables:    []string{},
	}
	if h.isDev {
		data.ReloadPath = h.reloadPath
	}

	database, table := h.lastSelection(r)
	if database != "" && slices.Contains(databases, database) {
		if tables, err := h.listTables(r.Context(), database); err == nil {
			data.Signals.Database = database
			data.Tables = tables
			if slices.Contains(tables, table) {
				data.Signals.Table = table
			}
		}
	}

	if err := Page(data).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Updates is the long-lived SSE endpoint. It re-renders the database
// dropdown whenever the data directory changes. The selection is not
// rendered server-side here: each option follows the client's $database.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-updates:
			h.logger.Debug("data directory changed", "file", ev.Name, "op", ev.Op)

			databases, err := catalog.ListDatabases(h.dataDir, h.extensions...)
			if err != nil {
				_ = sse.ConsoleError(err)
				continue
			}
			if err := sse.PatchElementTempl(DatabaseDropdown(databases, "")); err != nil {
				return
			}
		}
	}
}

// DatabaseChanged repopulates the table dropdown for the selected database
// and resets the table selection.
func (h *Handlers) DatabaseChanged(w http.ResponseWriter, r *http.Request) {
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.remember(w, r, signals.Database, "")

	sse := datastar.NewSSE(w, r)
	if err := sse.MarshalAndPatchSignals(map[string]any{"table": ""}); err != nil {
		return
	}

	if signals.Database == "" {
		_ = sse.PatchElementTempl(TableDropdown(TableOptions{}))
		return
	}

	tables, err := h.listTables(r.Context(), signals.Database)
	if err != nil {
		h.logger.Error("failed to list tables", "error", err, "database", signals.Database)
		_ = sse.PatchElementTempl(TableDropdown(TableOptions{}))
		_ = sse.PatchElementTempl(ErrorOutput(err.Error()))
		_ = sse.PatchElementTempl(DownloadButton(false))
		return
	}

	_ = sse.PatchElementTempl(TableDropdown(TableOptions{Tables: tables, Enabled: true}))
}

// GoClicked loads the selected table and renders it as a grid.
func (h *Handlers) GoClicked(w http.ResponseWriter, r *http.Request) {
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !signals.ready(signals.GoClicks) {
		sse := datastar.NewSSE(w, r)
		_ = sse.PatchElementTempl(EmptyOutput())
		_ = sse.PatchElementTempl(DownloadButton(false))
		return
	}
	h.remember(w, r, signals.Database, signals.Table)

	sse := datastar.NewSSE(w, r)
	rs, err := h.loadTable(r.Context(), signals.Database, signals.Table)
	if err != nil {
		h.logger.Error("failed to load table", "error", err, "database", signals.Database, "table", signals.Table)
		_ = sse.PatchElementTempl(ErrorOutput(err.Error()))
		_ = sse.PatchElementTempl(DownloadButton(false))
		return
	}

	if err := sse.MarshalAndPatchSignals(map[string]any{"page": 0}); err != nil {
		return
	}
	_ = sse.PatchElementTempl(Grid(newGrid(rs, h.pageSize)))
	_ = sse.PatchElementTempl(DownloadButton(true))
}

// DownloadClicked points the hidden download link at the export endpoint
// and clicks it.
func (h *Handlers) DownloadClicked(w http.ResponseWriter, r *http.Request) {
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sse := datastar.NewSSE(w, r)
	if !signals.ready(signals.DownloadClicks) {
		return
	}

	if err := sse.PatchElementTempl(DownloadLink(exportURL(signals.Database, signals.Table))); err != nil {
		return
	}
	_ = sse.ExecuteScript("document.getElementById('" + DownloadLinkID + "').click()")
}

func (h *Handlers) listTables(ctx context.Context, database string) ([]string, error) {
	path, err := catalog.ResolveDatabase(h.dataDir, database, h.extensions...)
	if err != nil {
		return nil, err
	}
	return h.inspector.ListTables(ctx, path)
}

func (h *Handlers) loadTable(ctx context.Context, database, table string) (*catalog.ResultSet, error) {
	path, err := catalog.ResolveDatabase(h.dataDir, database, h.extensions...)
	if err != nil {
		return nil, err
	}
	return h.inspector.LoadTable(ctx, path, table)
}

// lastSelection returns the database and table stored in the session.
func (h *Handlers) lastSelection(r *http.Request) (string, string) {
	if h.sessionStore == nil {
		return "", ""
	}
	sess, err := h.sessionStore.Get(r, sessionName)
	if err != nil || sess == nil {
		return "", ""
	}
	database, _ := sess.Values[keyDatabase].(string)
	table, _ := sess.Values[keyTable].(string)
	return database, table
}

// remember stores the selection in the session. It must run before the
// response headers are written.
func (h *Handlers) remember(w http.ResponseWriter, r *http.Request, database, table string) {
	if h.sessionStore == nil {
		return
	}
	sess, err := h.sessionStore.Get(r, sessionName)
	if err != nil {
		h.logger.Debug("discarding unreadable session", "error", err)
	}
	if sess == nil {
		return
	}

	sid, _ := sess.Values[keySID].(string)
	if sid == "" {
		sid = uuid.NewString()
		sess.Values[keySID] = sid
	}
	sess.Values[keyDatabase] = database
	sess.Values[keyTable] = table

	if err := sess.Save(r, w); err != nil {
		h.logger.Error("failed to save session", "error", err, "sid", sid)
		return
	}
	h.logger.Debug("selection changed", "sid", sid, "database", database, "table", table)
}
