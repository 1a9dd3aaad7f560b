package datagrid

import (
	"context"
	"fmt"
)

// FetchFunc loads the records of a grid.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Pending is the handle of a fetch started with Grid.Fetch.
type Pending struct {
	done    chan struct{}
	applied bool
	err     error
}

// Done returns a channel that is closed when the fetch finished.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the fetch finished and reports if its
// result was applied to the grid. A result is not applied
// if another Fetch or SetData happened in the meantime.
// The error of a superseded fetch is not reported.
func (p *Pending) Wait() (applied bool, err error) {
	<-p.done
	return p.applied, p.err
}

// Fetch calls fetch in a new goroutine and sets its result
// as data of the grid if no other Fetch or SetData
// was called before the result arrived.
// Superseded results are discarded, fetches are not queued.
func (g *Grid[T]) Fetch(ctx context.Context, fetch FetchFunc[T]) *Pending {
	g.mu.Lock()
	g.generation++
	generation := g.generation
	g.mu.Unlock()

	p := &Pending{done: make(chan struct{})}
	go func() {
		defer close(p.done)

		records, err := fetch(ctx)

		var events []Event[T]
		g.mu.Lock()
		switch {
		case generation != g.generation:
			g.logger.Debug("discarding superseded fetch", "generation", generation, "latest", g.generation)
		case err != nil:
			p.err = fmt.Errorf("fetch failed: %w", err)
			g.logger.Error("fetch failed", "err", err)
		default:
			events = g.setDataLocked(records)
			p.applied = true
		}
		g.unlockAndDispatch(events)
	}()
	return p
}
