package dashboard

import (
	"encoding/json"
	"net/url"

	"github.com/leapstack-labs/tablescope/internal/catalog"
)

// newGrid formats a result set for display, split into pages of size rows.
func newGrid(rs *catalog.ResultSet, size int) GridData {
	g := GridData{
		Columns:  rs.Columns,
		Pages:    make([][][]string, 0, rs.PageCount(size)),
		RowCount: rs.Len(),
	}

	for p := range rs.PageCount(size) {
		rows := rs.Page(p, size)
		page := make([][]string, len(rows))
		for i, row := range rows {
			cells := make([]string, len(row))
			for j, v := range row {
				cells[j] = catalog.FormatValue(v)
			}
			page[i] = cells
		}
		g.Pages = append(g.Pages, page)
	}

	return g
}

// exportURL returns the export endpoint URL for a selection.
func exportURL(database, table string) string {
	q := url.Values{}
	q.Set("database", database)
	q.Set("table", table)
	return "/export?" + q.Encode()
}

// postAction returns the datastar action that posts to the binding's route.
func postAction(b Binding) string {
	return "@post('" + b.Path() + "')"
}

// signalEquals returns a datastar expression that is true while signal
// holds value.
func signalEquals(signal, value string) (string, error) {
	quoted, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return "$" + signal + " === " + string(quoted), nil
}
