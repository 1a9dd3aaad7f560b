package datagrid

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func delayedFetch(delay time.Duration, records []testPerson, err error) FetchFunc[testPerson] {
	return func(ctx context.Context) ([]testPerson, error) {
		select {
		case <-time.After(delay):
			return records, err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func TestGrid_Fetch_DiscardsStaleResult(t *testing.T) {
	ctx := context.Background()
	rec := new(eventRecorder[testPerson])
	grid := MustNew(testColumns(), WithEventHandler(rec.handle))

	payloadA := []testPerson{{Name: "A"}}
	payloadB := []testPerson{{Name: "B1"}, {Name: "B2"}}

	pendingA := grid.Fetch(ctx, delayedFetch(100*time.Millisecond, payloadA, nil))
	time.Sleep(10 * time.Millisecond)
	pendingB := grid.Fetch(ctx, delayedFetch(40*time.Millisecond, payloadB, nil))

	appliedB, err := pendingB.Wait()
	require.NoError(t, err)
	assert.True(t, appliedB)

	appliedA, err := pendingA.Wait()
	require.NoError(t, err)
	assert.False(t, appliedA, "superseded fetch is discarded")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, payloadB, grid.Data())
	assert.Equal(t, []EventKind{DataChanged}, rec.kinds())
}

func TestGrid_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("applied", func(t *testing.T) {
		grid := MustNew(testColumns())
		pending := grid.Fetch(ctx, delayedFetch(0, testPeople(), nil))
		<-pending.Done()
		applied, err := pending.Wait()
		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, 4, grid.Len())
	})

	t.Run("error keeps data", func(t *testing.T) {
		grid := newTestGrid(t)
		errFailed := errors.New("backend down")
		applied, err := grid.Fetch(ctx, delayedFetch(0, nil, errFailed)).Wait()
		require.ErrorIs(t, err, errFailed)
		assert.False(t, applied)
		assert.Equal(t, 4, grid.Len())
	})

	t.Run("SetData supersedes fetch", func(t *testing.T) {
		grid := MustNew(testColumns())
		pending := grid.Fetch(ctx, delayedFetch(30*time.Millisecond, testPeople(), nil))
		grid.SetData([]testPerson{{Name: "local"}})
		applied, err := pending.Wait()
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Equal(t, []testPerson{{Name: "local"}}, grid.Data())
	})

	t.Run("error of superseded fetch is not reported", func(t *testing.T) {
		grid := MustNew(testColumns())
		ctx, cancel := context.WithCancel(ctx)
		pending := grid.Fetch(ctx, delayedFetch(time.Hour, nil, nil))
		grid.SetData(nil)
		cancel()
		applied, err := pending.Wait()
		require.NoError(t, err)
		assert.False(t, applied)
	})
}
