package dashboard

import (
	"errors"
	"mime"
	"net/http"

	"github.com/leapstack-labs/tablescope/internal/catalog"
)

// Export streams the selected table as a CSV attachment. The table is
// loaded again; nothing from the displayed grid is reused.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	database := r.URL.Query().Get("database")
	table := r.URL.Query().Get("table")
	if database == "" || table == "" {
		http.Error(w, "database and table are required", http.StatusBadRequest)
		return
	}

	rs, err := h.loadTable(r.Context(), database, table)
	if err != nil {
		h.logger.Error("export failed", "error", err, "database", database, "table", table)
		http.Error(w, err.Error(), exportStatus(err))
		return
	}

	name := catalog.ExportFileName(database, table, h.now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))

	if err := rs.WriteCSV(w); err != nil {
		h.logger.Error("failed to write csv", "error", err, "file", name)
		return
	}
	h.logger.Info("exported table", "database", database, "table", table, "rows", rs.Len(), "file", name)
}

func exportStatus(err error) int {
	var engErr *catalog.UnknownEngineError
	switch {
	case errors.Is(err, catalog.ErrInvalidDatabase), errors.As(err, &engErr):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrUnknownTable), errors.Is(err, catalog.ErrDatabaseNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
