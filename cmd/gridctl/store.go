package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/domonda/go-datagrid"
	"github.com/domonda/go-datagrid/modes"
	"github.com/domonda/go-datagrid/modes/boltstore"
	"github.com/domonda/go-datagrid/modes/redisstore"
	"github.com/domonda/go-datagrid/modes/sqlstore"
)

// redisPrefix is the prefix of all redis keys written by gridctl.
const redisPrefix = "gridctl:"

func defaultModesStore() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("can't find the default modes store: %w", err)
	}
	return filepath.Join(dir, "gridctl", "modes.db"), nil
}

// openAdapter opens the modes storage at location:
//
//	memory:              modes.MemoryAdapter
//	redis://host/db      redisstore over redis
//	rediss://host/db     redisstore over redis with TLS
//	sqlite://path        sqlstore over a SQLite file
//	bolt://path or path  boltstore over a bbolt file
func openAdapter(ctx context.Context, location string) (modes.Adapter, func() error, error) {
	noClose := func() error { return nil }
	switch {
	case location == "memory:":
		return modes.NewMemoryAdapter(), noClose, nil

	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		provider, err := redisstore.Connect(location, redisPrefix)
		if err != nil {
			return nil, nil, err
		}
		return modes.NewStoreAdapter(provider), provider.Close, nil

	case strings.HasPrefix(location, "sqlite://"):
		adapter, err := sqlstore.Open(ctx, strings.TrimPrefix(location, "sqlite://"))
		if err != nil {
			return nil, nil, err
		}
		return adapter, adapter.Close, nil
	}

	path := strings.TrimPrefix(location, "bolt://")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("can't create modes store directory: %w", err)
	}
	provider, err := boltstore.Open(path, boltstore.DefaultBucket)
	if err != nil {
		return nil, nil, err
	}
	return modes.NewStoreAdapter(provider), provider.Close, nil
}

// openModes opens the --modes-store and wraps it
// with the --modes-fallback if one is set.
func (a *app) openModes(ctx context.Context) (modes.Adapter, func() error, error) {
	location := a.modesStore
	if location == "" {
		var err error
		if location, err = defaultModesStore(); err != nil {
			return nil, nil, err
		}
	}
	primary, closePrimary, err := openAdapter(ctx, location)
	if err != nil {
		if a.modesFallback == "" {
			return nil, nil, err
		}
		a.logger.Warn("modes store unavailable, using fallback", "store", location, "err", err)
		return openAdapter(ctx, a.modesFallback)
	}
	if a.modesFallback == "" {
		return primary, closePrimary, nil
	}

	fallback, closeFallback, err := openAdapter(ctx, a.modesFallback)
	if err != nil {
		return nil, nil, multierr.Append(err, closePrimary())
	}
	closeBoth := func() error {
		return multierr.Append(closePrimary(), closeFallback())
	}
	return modes.NewFallbackAdapter(primary, fallback, a.logger), closeBoth, nil
}

// openManager returns a manager for the modes of the grid
// with the selected mode applied to the grid.
func (a *app) openManager(ctx context.Context, gridKey string, grid modes.Configurable) (*modes.Manager, func() error, error) {
	adapter, closeAdapter, err := a.openModes(ctx)
	if err != nil {
		return nil, nil, err
	}
	manager := modes.NewManager(adapter, gridKey, grid, modes.WithLogger(a.logger))
	err = manager.Load(ctx)
	switch {
	case errors.Is(err, datagrid.ErrUnknownColumn), errors.Is(err, datagrid.ErrNotSortable):
		// The grid definition changed since the mode was saved
		a.logger.Warn("selected mode ignored", "grid", gridKey, "err", err)
	case err != nil:
		return nil, nil, multierr.Append(err, closeAdapter())
	}
	return manager, closeAdapter, nil
}

// ErrAmbiguousMode is returned when a name matches more than one mode.
var ErrAmbiguousMode = errors.New("more than one mode with this name, use the mode ID")

// findMode returns the mode with the ID or the unique name ref.
func findMode(manager *modes.Manager, ref string) (modes.Mode, error) {
	var found []modes.Mode
	for _, mode := range manager.Modes() {
		if mode.ID == ref {
			return mode, nil
		}
		if mode.Name == ref {
			found = append(found, mode)
		}
	}
	switch len(found) {
	case 0:
		return modes.Mode{}, fmt.Errorf("%w: %q", modes.ErrModeNotFound, ref)
	case 1:
		return found[0], nil
	}
	return modes.Mode{}, fmt.Errorf("%w: %q", ErrAmbiguousMode, ref)
}
