package modes

import (
	"context"
	"fmt"
	"sync"
)

var _ Adapter = new(MemoryAdapter)

// MemoryAdapter is an Adapter keeping modes in memory.
// The zero value is ready to use.
type MemoryAdapter struct {
	mu       sync.Mutex
	modes    map[string][]Mode
	selected map[string]string
}

// NewMemoryAdapter returns an empty MemoryAdapter.
func NewMemoryAdapter() *MemoryAdapter {
	return new(MemoryAdapter)
}

func (a *MemoryAdapter) GetAll(_ context.Context, gridKey string) ([]Mode, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return cloneModes(a.modes[gridKey]), nil
}

func (a *MemoryAdapter) Get(_ context.Context, gridKey, id string) (Mode, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	modes := a.modes[gridKey]
	i := indexOfMode(modes, id)
	if i < 0 {
		return Mode{}, fmt.Errorf("%w: %s", ErrModeNotFound, id)
	}
	return modes[i].Clone(), nil
}

func (a *MemoryAdapter) Save(_ context.Context, gridKey string, mode Mode) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.modes == nil {
		a.modes = make(map[string][]Mode)
	}
	modes := a.modes[gridKey]
	if i := indexOfMode(modes, mode.ID); i >= 0 {
		modes[i] = mode.Clone()
	} else {
		a.modes[gridKey] = append(modes, mode.Clone())
	}
	return nil
}

func (a *MemoryAdapter) Delete(_ context.Context, gridKey, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	modes := a.modes[gridKey]
	i := indexOfMode(modes, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrModeNotFound, id)
	}
	a.modes[gridKey] = append(modes[:i:i], modes[i+1:]...)
	return nil
}

func (a *MemoryAdapter) GetSelectedID(_ context.Context, gridKey string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.selected[gridKey], nil
}

func (a *MemoryAdapter) SetSelectedID(_ context.Context, gridKey, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if id == "" {
		delete(a.selected, gridKey)
		return nil
	}
	if a.selected == nil {
		a.selected = make(map[string]string)
	}
	a.selected[gridKey] = id
	return nil
}
