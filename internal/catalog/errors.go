package catalog

import "errors"

var (
	// ErrUnknownTable is returned when a table is not in the database catalog.
	ErrUnknownTable = errors.New("table not found in database catalog")

	// ErrInvalidDatabase is returned for database names that are not plain
	// file names with a configured extension.
	ErrInvalidDatabase = errors.New("invalid database name")

	// ErrDatabaseNotFound is returned when the database file does not exist.
	ErrDatabaseNotFound = errors.New("database file not found")
)
