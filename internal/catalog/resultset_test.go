package catalog

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedRows(n int) [][]any {
	rows := make([][]any, n)
	for i := range rows {
		rows[i] = []any{int64(i + 1)}
	}
	return rows
}

func TestResultSet_Paging(t *testing.T) {
	tests := []struct {
		name      string
		rows      int
		size      int
		page      int
		wantPages int
		wantLen   int
	}{
		{"first page of 23", 23, 10, 0, 3, 10},
		{"last partial page", 23, 10, 2, 3, 3},
		{"past the end", 23, 10, 3, 3, 0},
		{"negative page", 23, 10, -1, 3, 0},
		{"exact multiple", 20, 10, 1, 2, 10},
		{"empty result", 0, 10, 0, 1, 0},
		{"no page size", 23, 0, 0, 1, 23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := &ResultSet{Columns: []string{"id"}, Rows: numberedRows(tt.rows)}
			assert.Equal(t, tt.rows, rs.Len())
			assert.Equal(t, tt.wantPages, rs.PageCount(tt.size))
			assert.Len(t, rs.Page(tt.page, tt.size), tt.wantLen)
		})
	}
}

func TestResultSet_PageStartsAtOffset(t *testing.T) {
	rs := &ResultSet{Columns: []string{"id"}, Rows: numberedRows(23)}

	page := rs.Page(2, 10)
	require.Len(t, page, 3)
	assert.Equal(t, int64(21), page[0][0])
	assert.Equal(t, int64(23), page[2][0])
}

func TestResultSet_WriteCSV(t *testing.T) {
	rs := &ResultSet{
		Columns: []string{"id", "name", "note"},
		Rows: [][]any{
			{int64(1), "Alice", nil},
			{int64(2), "Carol, Inc.", `say "hi"`},
			{int64(3), []byte("bytes"), 2.5},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, rs.WriteCSV(&buf))

	want := "id,name,note\n" +
		"1,Alice,\n" +
		"2,\"Carol, Inc.\",\"say \"\"hi\"\"\"\n" +
		"3,bytes,2.5\n"
	assert.Equal(t, want, buf.String())

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Equal(t, "Carol, Inc.", records[2][1])
}

func TestResultSet_WriteCSV_EmptyTable(t *testing.T) {
	rs := &ResultSet{Columns: []string{"a", "b"}, Rows: [][]any{}}

	var buf bytes.Buffer
	require.NoError(t, rs.WriteCSV(&buf))
	assert.Equal(t, "a,b\n", buf.String())
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil", nil, ""},
		{"string", "hello", "hello"},
		{"int64", int64(100), "100"},
		{"float", 3.14, "3.14"},
		{"bytes", []byte("world"), "world"},
		{"bool", true, "true"},
		{"datetime", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), "2024-03-01 10:00:00"},
		{"date", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "2024-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatValue(tt.input))
		})
	}
}

func TestExportFileName(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	assert.Equal(t, "sales.db_orders_2024-03-01_10-00-00.csv", ExportFileName("sales.db", "orders", at))

	at = time.Date(2023, 12, 31, 23, 59, 7, 0, time.Local)
	assert.Equal(t, "a.db_t_2023-12-31_23-59-07.csv", ExportFileName("a.db", "t", at))
}
