// Package sqltable loads the result rows of SQL queries
// as records for grids.
package sqltable

import "database/sql"

var _ Rows = &sql.Rows{}

// Rows abstracts the methods of *sql.Rows used to read records,
// so any row set with the same methods, for example *sqlx.Rows,
// can be read without depending on concrete types.
//
// Usage example:
//
//	rows, err := db.QueryContext(ctx, "SELECT * FROM orders")
//	if err != nil {
//		return err
//	}
//	records, err := sqltable.ScanRecords(ctx, rows)
type Rows interface {
	// Columns returns the names of the columns in the result set.
	Columns() ([]string, error)

	// Scan copies the column values from the current row into the variables
	// pointed to by dest.
	Scan(dest ...any) error

	// Close closes the Rows. It is idempotent and does not affect Err.
	Close() error

	// Next prepares the next result row for reading with Scan.
	// It returns false when there is no next row or an error happened,
	// Err tells which one.
	Next() bool

	// Err returns the error encountered during iteration, if any.
	Err() error
}
