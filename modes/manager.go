package modes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.uber.org/multierr"

	"github.com/domonda/go-datagrid"
)

// Configurable is a grid whose configuration can be saved as mode.
// datagrid.Grid implements this interface.
type Configurable interface {
	Configuration() datagrid.Configuration
	ApplyConfiguration(datagrid.Configuration) error
}

// Manager manages the modes of one grid.
//
// It is either in the state no-mode-selected
// or mode-selected with the ID of the selected mode.
// The cached mode list is refreshed by Load
// and updated by the Manager's own writes,
// changes by other managers become visible with the next Load.
type Manager struct {
	adapter Adapter
	gridKey string
	grid    Configurable
	logger  *slog.Logger

	mu       sync.Mutex
	modes    []Mode
	selected string
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger of a Manager.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager returns a Manager for the modes stored
// under gridKey using adapter, applied to grid.
func NewManager(adapter Adapter, gridKey string, grid Configurable, options ...ManagerOption) *Manager {
	m := &Manager{
		adapter: adapter,
		gridKey: gridKey,
		grid:    grid,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(m)
	}
	m.logger = m.logger.With("grid", gridKey)
	return m
}

// GridKey returns the key the modes are stored under.
func (m *Manager) GridKey() string { return m.gridKey }

// Load reads the modes and the selected mode ID from storage
// and applies the configuration of the selected mode to the grid.
// A selected mode ID that no longer resolves to a mode
// results in no mode being selected.
func (m *Manager) Load(ctx context.Context) error {
	modes, err := m.adapter.GetAll(ctx, m.gridKey)
	if err != nil {
		return fmt.Errorf("can't load modes: %w", err)
	}
	selected, err := m.adapter.GetSelectedID(ctx, m.gridKey)
	if err != nil {
		return fmt.Errorf("can't load selected mode: %w", err)
	}

	var apply *Mode
	if selected != "" {
		if i := indexOfMode(modes, selected); i >= 0 {
			apply = &modes[i]
		} else {
			m.logger.Info("selected mode no longer exists", "mode", selected)
		}
	}
	if apply != nil {
		if err = m.grid.ApplyConfiguration(apply.Configuration); err != nil {
			m.logger.Warn("can't apply selected mode", "mode", selected, "err", err)
			err = fmt.Errorf("can't apply mode %q: %w", apply.Name, err)
			apply = nil
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.modes = modes
	m.selected = ""
	if apply != nil {
		m.selected = apply.ID
	}
	return err
}

// Modes returns the cached modes.
func (m *Manager) Modes() []Mode {
	m.mu.Lock()
	defer m.mu.Unlock()

	return cloneModes(m.modes)
}

// Selected returns the selected mode
// or false if no mode is selected.
func (m *Manager) Selected() (Mode, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.selected == "" {
		return Mode{}, false
	}
	i := indexOfMode(m.modes, m.selected)
	if i < 0 {
		return Mode{}, false
	}
	return m.modes[i].Clone(), true
}

// SelectedID returns the ID of the selected mode or an empty string.
func (m *Manager) SelectedID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.selected
}

// Save stores the current grid configuration as new mode
// with a new ID and selects it.
func (m *Manager) Save(ctx context.Context, name string) (Mode, error) {
	mode := NewMode(name, m.grid.Configuration())
	if err := m.adapter.Save(ctx, m.gridKey, mode); err != nil {
		return Mode{}, fmt.Errorf("can't save mode %q: %w", name, err)
	}

	m.mu.Lock()
	m.modes = append(m.modes, mode.Clone())
	m.mu.Unlock()

	if err := m.adapter.SetSelectedID(ctx, m.gridKey, mode.ID); err != nil {
		return mode, fmt.Errorf("mode %q saved but not selected: %w", name, err)
	}

	m.mu.Lock()
	m.selected = mode.ID
	m.mu.Unlock()

	m.logger.Debug("saved mode", "mode", mode.ID, "name", name)
	return mode, nil
}

// Update overwrites the mode with id with the current grid configuration.
// It returns ErrModeNotFound if the mode was deleted elsewhere.
func (m *Manager) Update(ctx context.Context, id string) (Mode, error) {
	return m.modify(ctx, id, func(mode *Mode) {
		mode.Configuration = m.grid.Configuration()
	})
}

// Rename changes the name of the mode with id.
func (m *Manager) Rename(ctx context.Context, id, name string) (Mode, error) {
	return m.modify(ctx, id, func(mode *Mode) {
		mode.Name = name
	})
}

func (m *Manager) modify(ctx context.Context, id string, change func(*Mode)) (Mode, error) {
	mode, err := m.adapter.Get(ctx, m.gridKey, id)
	if err != nil {
		if errors.Is(err, ErrModeNotFound) {
			m.forget(id)
		}
		return Mode{}, fmt.Errorf("can't update mode: %w", err)
	}
	change(&mode)
	if err := m.adapter.Save(ctx, m.gridKey, mode); err != nil {
		return Mode{}, fmt.Errorf("can't update mode %q: %w", mode.Name, err)
	}

	m.mu.Lock()
	if i := indexOfMode(m.modes, id); i >= 0 {
		m.modes[i] = mode.Clone()
	} else {
		m.modes = append(m.modes, mode.Clone())
	}
	m.mu.Unlock()

	return mode, nil
}

// Select applies the configuration of the mode with id to the grid
// and stores it as selected mode.
// If the mode does not exist anymore or can't be applied,
// then an error is returned and the grid is left unchanged.
func (m *Manager) Select(ctx context.Context, id string) error {
	mode, err := m.adapter.Get(ctx, m.gridKey, id)
	if err != nil {
		if errors.Is(err, ErrModeNotFound) {
			m.forget(id)
		}
		return fmt.Errorf("can't select mode: %w", err)
	}
	previous := m.grid.Configuration()
	if err := m.grid.ApplyConfiguration(mode.Configuration); err != nil {
		return fmt.Errorf("can't apply mode %q: %w", mode.Name, err)
	}
	if err := m.adapter.SetSelectedID(ctx, m.gridKey, id); err != nil {
		err = fmt.Errorf("can't select mode %q: %w", mode.Name, err)
		return multierr.Append(err, m.grid.ApplyConfiguration(previous))
	}

	m.mu.Lock()
	m.selected = id
	m.mu.Unlock()

	m.logger.Debug("selected mode", "mode", id)
	return nil
}

// Deselect changes to the state no-mode-selected
// without changing the grid configuration.
func (m *Manager) Deselect(ctx context.Context) error {
	if err := m.adapter.SetSelectedID(ctx, m.gridKey, ""); err != nil {
		return fmt.Errorf("can't deselect mode: %w", err)
	}

	m.mu.Lock()
	m.selected = ""
	m.mu.Unlock()
	return nil
}

// Delete removes the mode with id from storage.
// If it was the selected mode, then no mode is selected
// afterwards, the grid configuration is left as is.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.adapter.Delete(ctx, m.gridKey, id); err != nil {
		if errors.Is(err, ErrModeNotFound) {
			m.forget(id)
		}
		return fmt.Errorf("can't delete mode: %w", err)
	}
	m.forget(id)
	m.logger.Debug("deleted mode", "mode", id)

	if m.SelectedID() != id {
		return nil
	}
	if err := m.adapter.SetSelectedID(ctx, m.gridKey, ""); err != nil {
		return fmt.Errorf("mode deleted but still selected: %w", err)
	}
	m.mu.Lock()
	m.selected = ""
	m.mu.Unlock()
	return nil
}

// forget removes a mode from the cache.
func (m *Manager) forget(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := indexOfMode(m.modes, id); i >= 0 {
		m.modes = append(m.modes[:i:i], m.modes[i+1:]...)
	}
}
