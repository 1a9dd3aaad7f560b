package sqltable

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/multierr"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/domonda/go-datagrid"
)

// Record is a result row mapped from column name to value.
type Record = map[string]any

// Queryer is implemented by *sql.DB, *sql.Tx, *sqlx.DB and *sqlx.Tx.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Open connects to the SQLite database at dsn.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("can't open database %s: %w", dsn, err)
	}
	return db, nil
}

// ScanRecords reads all remaining rows as records and closes rows.
// Byte slices are returned as strings.
func ScanRecords(ctx context.Context, rows Rows) (records []Record, err error) {
	defer func() { err = multierr.Append(err, rows.Close()) }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	values := make([]any, len(columns))
	scanners := make([]any, len(columns))
	for i := range scanners {
		scanners[i] = valueScanner{&values[i]}
	}
	records = []Record{}
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := rows.Scan(scanners...); err != nil {
			return nil, err
		}
		record := make(Record, len(columns))
		for i, column := range columns {
			record[column] = values[i]
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// QueryRecords executes query and returns its rows as records.
func QueryRecords(ctx context.Context, db Queryer, query string, args ...any) ([]Record, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return ScanRecords(ctx, rows)
}

// FetchFunc returns a fetch function for datagrid.Grid.Fetch
// that executes query every time the grid fetches.
func FetchFunc(db Queryer, query string, args ...any) datagrid.FetchFunc[Record] {
	return func(ctx context.Context) ([]Record, error) {
		return QueryRecords(ctx, db, query, args...)
	}
}

var _ sql.Scanner = valueScanner{}

type valueScanner struct {
	dest *any
}

// Scan implements the database/sql.Scanner interface.
func (s valueScanner) Scan(src any) error {
	if b, ok := src.([]byte); ok {
		// Copy because the bytes are only valid until the next call
		src = string(b)
	}
	*s.dest = src
	return nil
}
