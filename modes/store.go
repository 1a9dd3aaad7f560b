package modes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// StoreProvider defines raw key value storage operations.
// Implementations are in the boltstore and redisstore packages.
type StoreProvider interface {
	// Get retrieves the value at key.
	// Returns ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value at key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the value at key.
	// Returns ErrNotFound if the key does not exist.
	Delete(ctx context.Context, key string) error
}

// Codec serializes the mode list of a grid.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec implements Codec using JSON encoding.
type JSONCodec struct{}

// Marshal serializes a value to JSON bytes.
func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal deserializes JSON bytes into a value.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// YAMLCodec implements Codec using YAML encoding.
type YAMLCodec struct{}

// Marshal serializes a value to YAML bytes.
func (YAMLCodec) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// Unmarshal deserializes YAML bytes into a value.
func (YAMLCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

var (
	_ Codec   = JSONCodec{}
	_ Codec   = YAMLCodec{}
	_ Adapter = new(StoreAdapter)
)

// StoreAdapter implements Adapter over a StoreProvider.
// Every grid key uses two records, the list of modes
// at "<gridKey>:modes" and the selected mode ID
// at "<gridKey>:selected".
//
// Saving and deleting modes reads and rewrites the whole list,
// concurrent writers for the same grid key may overwrite
// each other's changes.
type StoreAdapter struct {
	provider StoreProvider
	codec    Codec
}

// NewStoreAdapter returns a StoreAdapter using JSONCodec.
func NewStoreAdapter(provider StoreProvider) *StoreAdapter {
	return NewStoreAdapterWithCodec(provider, JSONCodec{})
}

// NewStoreAdapterWithCodec returns a StoreAdapter using the passed codec.
func NewStoreAdapterWithCodec(provider StoreProvider, codec Codec) *StoreAdapter {
	return &StoreAdapter{provider: provider, codec: codec}
}

// ModesKey returns the storage key of the mode list of a grid.
func ModesKey(gridKey string) string { return gridKey + ":modes" }

// SelectedKey returns the storage key of the selected mode ID of a grid.
func SelectedKey(gridKey string) string { return gridKey + ":selected" }

func (a *StoreAdapter) GetAll(ctx context.Context, gridKey string) ([]Mode, error) {
	data, err := a.provider.Get(ctx, ModesKey(gridKey))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("can't read modes of grid %q: %w", gridKey, err)
	}
	var modes []Mode
	if err := a.codec.Unmarshal(data, &modes); err != nil {
		return nil, fmt.Errorf("can't decode modes of grid %q: %w", gridKey, err)
	}
	return modes, nil
}

func (a *StoreAdapter) putAll(ctx context.Context, gridKey string, modes []Mode) error {
	if modes == nil {
		modes = []Mode{}
	}
	data, err := a.codec.Marshal(modes)
	if err != nil {
		return fmt.Errorf("can't encode modes of grid %q: %w", gridKey, err)
	}
	if err := a.provider.Set(ctx, ModesKey(gridKey), data); err != nil {
		return fmt.Errorf("can't write modes of grid %q: %w", gridKey, err)
	}
	return nil
}

func (a *StoreAdapter) Get(ctx context.Context, gridKey, id string) (Mode, error) {
	modes, err := a.GetAll(ctx, gridKey)
	if err != nil {
		return Mode{}, err
	}
	i := indexOfMode(modes, id)
	if i < 0 {
		return Mode{}, fmt.Errorf("%w: %s", ErrModeNotFound, id)
	}
	return modes[i], nil
}

func (a *StoreAdapter) Save(ctx context.Context, gridKey string, mode Mode) error {
	modes, err := a.GetAll(ctx, gridKey)
	if err != nil {
		return err
	}
	if i := indexOfMode(modes, mode.ID); i >= 0 {
		modes[i] = mode
	} else {
		modes = append(modes, mode)
	}
	return a.putAll(ctx, gridKey, modes)
}

func (a *StoreAdapter) Delete(ctx context.Context, gridKey, id string) error {
	modes, err := a.GetAll(ctx, gridKey)
	if err != nil {
		return err
	}
	i := indexOfMode(modes, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrModeNotFound, id)
	}
	return a.putAll(ctx, gridKey, append(modes[:i], modes[i+1:]...))
}

func (a *StoreAdapter) GetSelectedID(ctx context.Context, gridKey string) (string, error) {
	data, err := a.provider.Get(ctx, SelectedKey(gridKey))
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("can't read selected mode of grid %q: %w", gridKey, err)
	}
	return string(data), nil
}

func (a *StoreAdapter) SetSelectedID(ctx context.Context, gridKey, id string) error {
	var err error
	if id == "" {
		err = a.provider.Delete(ctx, SelectedKey(gridKey))
		if errors.Is(err, ErrNotFound) {
			err = nil
		}
	} else {
		err = a.provider.Set(ctx, SelectedKey(gridKey), []byte(id))
	}
	if err != nil {
		return fmt.Errorf("can't write selected mode of grid %q: %w", gridKey, err)
	}
	return nil
}

// MemoryStore is a StoreProvider keeping values in memory,
// mostly useful for tests.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return ErrNotFound
	}
	delete(s.data, key)
	return nil
}
