// Package modestest implements a conformance test suite
// for implementations of modes.Adapter.
package modestest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domonda/go-datagrid"
	"github.com/domonda/go-datagrid/modes"
)

// Configuration returns a non trivial configuration for tests.
func Configuration() datagrid.Configuration {
	return datagrid.Configuration{
		Columns: []datagrid.ColumnState{
			{Key: "name", Width: "200px"},
			{Key: "amount"},
			{Key: "created", Hidden: true},
		},
		Sort:       datagrid.SortState{Column: "amount", Direction: datagrid.Descending},
		Parameters: datagrid.Parameters{"status": "open", "year": "2024"},
	}
}

// TestAdapter tests that adapter implements the contract of modes.Adapter.
// The adapter must not contain modes for the grid keys
// "modestest-a" and "modestest-b".
func TestAdapter(t *testing.T, adapter modes.Adapter) {
	ctx := context.Background()
	const (
		gridA = "modestest-a"
		gridB = "modestest-b"
	)

	t.Run("empty", func(t *testing.T) {
		all, err := adapter.GetAll(ctx, gridA)
		require.NoError(t, err)
		assert.Empty(t, all)

		selected, err := adapter.GetSelectedID(ctx, gridA)
		require.NoError(t, err)
		assert.Empty(t, selected)

		_, err = adapter.Get(ctx, gridA, "missing")
		require.ErrorIs(t, err, modes.ErrModeNotFound)
		require.ErrorIs(t, adapter.Delete(ctx, gridA, "missing"), modes.ErrModeNotFound)
	})

	first := modes.NewMode("First", Configuration())
	second := modes.NewMode("Second", datagrid.Configuration{
		Columns: []datagrid.ColumnState{{Key: "name"}},
	})

	t.Run("save and get", func(t *testing.T) {
		require.NoError(t, adapter.Save(ctx, gridA, first))
		require.NoError(t, adapter.Save(ctx, gridA, second))

		got, err := adapter.Get(ctx, gridA, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first, got)
		assert.True(t, first.Configuration.Equal(got.Configuration))

		all, err := adapter.GetAll(ctx, gridA)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, first.ID, all[0].ID, "modes are kept in save order")
		assert.Equal(t, second.ID, all[1].ID)

		other, err := adapter.GetAll(ctx, gridB)
		require.NoError(t, err)
		assert.Empty(t, other, "grid keys are separate")
	})

	t.Run("save replaces same ID", func(t *testing.T) {
		changed := first.Clone()
		changed.Name = "First changed"
		changed.Configuration.Sort = datagrid.SortState{}
		require.NoError(t, adapter.Save(ctx, gridA, changed))

		all, err := adapter.GetAll(ctx, gridA)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "First changed", all[0].Name)
		assert.False(t, all[0].Configuration.Sort.IsSorted())
	})

	t.Run("selected ID", func(t *testing.T) {
		require.NoError(t, adapter.SetSelectedID(ctx, gridA, second.ID))
		selected, err := adapter.GetSelectedID(ctx, gridA)
		require.NoError(t, err)
		assert.Equal(t, second.ID, selected)

		selected, err = adapter.GetSelectedID(ctx, gridB)
		require.NoError(t, err)
		assert.Empty(t, selected)

		require.NoError(t, adapter.SetSelectedID(ctx, gridA, ""))
		selected, err = adapter.GetSelectedID(ctx, gridA)
		require.NoError(t, err)
		assert.Empty(t, selected)
		require.NoError(t, adapter.SetSelectedID(ctx, gridA, ""), "clearing twice")
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, adapter.Delete(ctx, gridA, first.ID))
		_, err := adapter.Get(ctx, gridA, first.ID)
		require.ErrorIs(t, err, modes.ErrModeNotFound)

		all, err := adapter.GetAll(ctx, gridA)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, second.ID, all[0].ID)

		require.NoError(t, adapter.Delete(ctx, gridA, second.ID))
		all, err = adapter.GetAll(ctx, gridA)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}
