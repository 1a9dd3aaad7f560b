// Package sqlstore implements modes.Adapter with an SQLite database
// accessed through sqlx.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/multierr"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/domonda/go-datagrid"
	"github.com/domonda/go-datagrid/modes"
)

// Schema contains the statements creating the tables used by Adapter.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS datagrid_modes (
	grid_key      TEXT NOT NULL,
	id            TEXT NOT NULL,
	name          TEXT NOT NULL,
	configuration TEXT NOT NULL,
	position      INTEGER NOT NULL,
	PRIMARY KEY (grid_key, id)
	)`,
	`CREATE TABLE IF NOT EXISTS datagrid_selected_modes (
	grid_key TEXT NOT NULL PRIMARY KEY,
	mode_id  TEXT NOT NULL
	)`,
}

var _ modes.Adapter = new(Adapter)

// Adapter implements modes.Adapter with one row per mode.
type Adapter struct {
	db *sqlx.DB
}

// New returns an Adapter using db.
// Call Migrate to create the tables.
func New(db *sqlx.DB) *Adapter {
	return &Adapter{db: db}
}

// Open connects to the SQLite database described by dsn,
// for example a file path or ":memory:",
// and creates the tables if they don't exist.
func Open(ctx context.Context, dsn string) (*Adapter, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("can't open mode database: %w", err)
	}
	// Every connection to ":memory:" would get its own database
	db.SetMaxOpenConns(1)
	a := New(db)
	if err := a.Migrate(ctx); err != nil {
		return nil, multierr.Append(err, db.Close())
	}
	return a, nil
}

// Migrate creates the tables if they don't exist.
func (a *Adapter) Migrate(ctx context.Context) error {
	for _, stmt := range Schema {
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("can't create mode tables: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (a *Adapter) Close() error {
	return a.db.Close()
}

type modeRow struct {
	ID            string `db:"id"`
	Name          string `db:"name"`
	Configuration string `db:"configuration"`
}

func (r *modeRow) mode() (modes.Mode, error) {
	var config datagrid.Configuration
	if err := json.Unmarshal([]byte(r.Configuration), &config); err != nil {
		return modes.Mode{}, fmt.Errorf("can't decode mode %s: %w", r.ID, err)
	}
	return modes.Mode{ID: r.ID, Name: r.Name, Configuration: config}, nil
}

func (a *Adapter) GetAll(ctx context.Context, gridKey string) ([]modes.Mode, error) {
	var rows []modeRow
	err := a.db.SelectContext(ctx, &rows,
		`SELECT id, name, configuration FROM datagrid_modes WHERE grid_key = ? ORDER BY position`,
		gridKey,
	)
	if err != nil {
		return nil, fmt.Errorf("can't read modes of grid %q: %w", gridKey, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	result := make([]modes.Mode, len(rows))
	for i := range rows {
		if result[i], err = rows[i].mode(); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (a *Adapter) Get(ctx context.Context, gridKey, id string) (modes.Mode, error) {
	var row modeRow
	err := a.db.GetContext(ctx, &row,
		`SELECT id, name, configuration FROM datagrid_modes WHERE grid_key = ? AND id = ?`,
		gridKey, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return modes.Mode{}, fmt.Errorf("%w: %s", modes.ErrModeNotFound, id)
	}
	if err != nil {
		return modes.Mode{}, fmt.Errorf("can't read mode %s: %w", id, err)
	}
	return row.mode()
}

// Save inserts a new mode after the existing modes of the grid
// or replaces name and configuration of an existing one.
func (a *Adapter) Save(ctx context.Context, gridKey string, mode modes.Mode) error {
	config, err := json.Marshal(mode.Configuration)
	if err != nil {
		return fmt.Errorf("can't encode mode %q: %w", mode.Name, err)
	}
	_, err = a.db.ExecContext(ctx,
		`INSERT INTO datagrid_modes (grid_key, id, name, configuration, position)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM datagrid_modes WHERE grid_key = ?))
		ON CONFLICT (grid_key, id) DO UPDATE SET name = excluded.name, configuration = excluded.configuration`,
		gridKey, mode.ID, mode.Name, string(config), gridKey,
	)
	if err != nil {
		return fmt.Errorf("can't save mode %q: %w", mode.Name, err)
	}
	return nil
}

func (a *Adapter) Delete(ctx context.Context, gridKey, id string) error {
	result, err := a.db.ExecContext(ctx,
		`DELETE FROM datagrid_modes WHERE grid_key = ? AND id = ?`,
		gridKey, id,
	)
	if err != nil {
		return fmt.Errorf("can't delete mode %s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", modes.ErrModeNotFound, id)
	}
	return nil
}

func (a *Adapter) GetSelectedID(ctx context.Context, gridKey string) (string, error) {
	var id string
	err := a.db.GetContext(ctx, &id,
		`SELECT mode_id FROM datagrid_selected_modes WHERE grid_key = ?`,
		gridKey,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("can't read selected mode of grid %q: %w", gridKey, err)
	}
	return id, nil
}

func (a *Adapter) SetSelectedID(ctx context.Context, gridKey, id string) error {
	var err error
	if id == "" {
		_, err = a.db.ExecContext(ctx,
			`DELETE FROM datagrid_selected_modes WHERE grid_key = ?`,
			gridKey,
		)
	} else {
		_, err = a.db.ExecContext(ctx,
			`INSERT INTO datagrid_selected_modes (grid_key, mode_id) VALUES (?, ?)
			ON CONFLICT (grid_key) DO UPDATE SET mode_id = excluded.mode_id`,
			gridKey, id,
		)
	}
	if err != nil {
		return fmt.Errorf("can't write selected mode of grid %q: %w", gridKey, err)
	}
	return nil
}
