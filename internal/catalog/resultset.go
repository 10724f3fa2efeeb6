package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// TimestampLayout is the timestamp format used in export file names.
const TimestampLayout = "2006-01-02_15-04-05"

// ResultSet is a fully materialized table: ordered columns and rows.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (r *ResultSet) Len() int {
	return len(r.Rows)
}

// PageCount returns the number of pages of the given size. An empty result
// still has one (empty) page.
func (r *ResultSet) PageCount(size int) int {
	if size <= 0 || len(r.Rows) == 0 {
		return 1
	}
	return (len(r.Rows) + size - 1) / size
}

// Page returns the rows of the zero-based page n.
func (r *ResultSet) Page(n, size int) [][]any {
	if size <= 0 {
		return r.Rows
	}
	start := n * size
	if n < 0 || start >= len(r.Rows) {
		return nil
	}
	end := min(start+size, len(r.Rows))
	return r.Rows[start:end]
}

// WriteCSV writes a header row of column names followed by every data row.
func (r *ResultSet) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(r.Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, len(r.Columns))
	for _, row := range r.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = FormatValue(row[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatValue renders a cell value as text. NULL renders as an empty string.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format(time.DateOnly)
		}
		return val.Format(time.DateTime)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// ExportFileName builds "{database}_{table}_{YYYY-MM-DD_HH-MM-SS}.csv".
func ExportFileName(database, table string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%s.csv", database, table, at.Format(TimestampLayout))
}
