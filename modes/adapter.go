package modes

import "context"

// Adapter stores the modes of grids and the ID
// of the selected mode per grid key.
//
// Concurrent writers for the same grid key are not serialized,
// the last write wins.
type Adapter interface {
	// GetAll returns the modes of a grid in the order they were saved.
	GetAll(ctx context.Context, gridKey string) ([]Mode, error)
	// Get returns ErrModeNotFound if the mode does not exist.
	Get(ctx context.Context, gridKey, id string) (Mode, error)
	// Save inserts a new or replaces an existing mode with the same ID.
	Save(ctx context.Context, gridKey string, mode Mode) error
	// Delete returns ErrModeNotFound if the mode does not exist.
	Delete(ctx context.Context, gridKey, id string) error
	// GetSelectedID returns an empty string if no mode is selected.
	GetSelectedID(ctx context.Context, gridKey string) (string, error)
	// SetSelectedID clears the selection for an empty id.
	SetSelectedID(ctx context.Context, gridKey, id string) error
}
