package modes

import (
	"context"
	"errors"
	"log/slog"

	"go.uber.org/multierr"
)

var _ Adapter = new(FallbackAdapter)

// FallbackAdapter uses a primary Adapter and falls back
// to a second Adapter if the primary one fails
// with an error other than ErrModeNotFound.
//
// Writes that went to the fallback are not synchronized
// back to the primary adapter once it is available again.
type FallbackAdapter struct {
	primary  Adapter
	fallback Adapter
	logger   *slog.Logger
}

// NewFallbackAdapter returns a FallbackAdapter.
// A nil logger discards log messages.
func NewFallbackAdapter(primary, fallback Adapter, logger *slog.Logger) *FallbackAdapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FallbackAdapter{primary: primary, fallback: fallback, logger: logger}
}

func withFallback[R any](a *FallbackAdapter, op, gridKey string, call func(Adapter) (R, error)) (R, error) {
	result, err := call(a.primary)
	if err == nil || errors.Is(err, ErrModeNotFound) {
		return result, err
	}
	a.logger.Warn("mode storage unavailable, using fallback", "op", op, "grid", gridKey, "err", err)
	result, fallbackErr := call(a.fallback)
	if fallbackErr != nil {
		return result, multierr.Combine(err, fallbackErr)
	}
	return result, nil
}

func (a *FallbackAdapter) GetAll(ctx context.Context, gridKey string) ([]Mode, error) {
	return withFallback(a, "GetAll", gridKey, func(adapter Adapter) ([]Mode, error) {
		return adapter.GetAll(ctx, gridKey)
	})
}

func (a *FallbackAdapter) Get(ctx context.Context, gridKey, id string) (Mode, error) {
	return withFallback(a, "Get", gridKey, func(adapter Adapter) (Mode, error) {
		return adapter.Get(ctx, gridKey, id)
	})
}

func (a *FallbackAdapter) Save(ctx context.Context, gridKey string, mode Mode) error {
	_, err := withFallback(a, "Save", gridKey, func(adapter Adapter) (struct{}, error) {
		return struct{}{}, adapter.Save(ctx, gridKey, mode)
	})
	return err
}

func (a *FallbackAdapter) Delete(ctx context.Context, gridKey, id string) error {
	_, err := withFallback(a, "Delete", gridKey, func(adapter Adapter) (struct{}, error) {
		return struct{}{}, adapter.Delete(ctx, gridKey, id)
	})
	return err
}

func (a *FallbackAdapter) GetSelectedID(ctx context.Context, gridKey string) (string, error) {
	return withFallback(a, "GetSelectedID", gridKey, func(adapter Adapter) (string, error) {
		return adapter.GetSelectedID(ctx, gridKey)
	})
}

func (a *FallbackAdapter) SetSelectedID(ctx context.Context, gridKey, id string) error {
	_, err := withFallback(a, "SetSelectedID", gridKey, func(adapter Adapter) (struct{}, error) {
		return struct{}{}, adapter.SetSelectedID(ctx, gridKey, id)
	})
	return err
}
