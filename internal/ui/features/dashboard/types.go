// Package dashboard provides the database/table viewer page: two dropdowns,
// a Go button that renders the selected table and a CSV download.
package dashboard

import "net/http"

// Element ids shared by the components and the binding table.
const (
	DatabaseDropdownID = "database-dropdown"
	TableDropdownID    = "table-dropdown"
	GoButtonID         = "go-button"
	DownloadButtonID   = "download-button"
	DownloadLinkID     = "download-csv"
	OutputID           = "output"
)

// DefaultPageSize is the number of rows per grid page.
const DefaultPageSize = 10

// DefaultReloadPath is the dev reload stream used when none is configured.
const DefaultReloadPath = "/reload"

// Signals is the datastar signal set sent with every handler request.
type Signals struct {
	Database       string `json:"database"`
	Table          string `json:"table"`
	GoClicks       int    `json:"goClicks"`
	DownloadClicks int    `json:"downloadClicks"`
	Page           int    `json:"page"`
}

// ready reports whether a click with the given count should act on the
// current selection.
func (s Signals) ready(clicks int) bool {
	return clicks > 0 && s.Database != "" && s.Table != ""
}

// Binding attaches a handler to an (element, event) pair.
type Binding struct {
	Element string
	Event   string
	Handler http.HandlerFunc
}

// Path returns the route the binding is served on.
func (b Binding) Path() string {
	return "/api/" + b.Element + "/" + b.Event
}

// PageData holds everything needed to render the full page.
type PageData struct {
	Title      string
	ReloadPath string // dev reload stream; empty disables it
	Databases  []string
	Tables     []string
	Signals    Signals
}

// TableOptions holds the state of the table dropdown.
type TableOptions struct {
	Tables   []string
	Selected string
	Enabled  bool
}

// GridData holds a rendered result set split into pages.
type GridData struct {
	Columns  []string
	Pages    [][][]string
	RowCount int
}
