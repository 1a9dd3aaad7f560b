package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domonda/go-datagrid/modes"
	"github.com/domonda/go-datagrid/modes/modestest"
)

func openTestAdapter(t *testing.T, dsn string) *Adapter {
	t.Helper()
	adapter, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })
	return adapter
}

func TestAdapter(t *testing.T) {
	modestest.TestAdapter(t, openTestAdapter(t, ":memory:"))
}

func TestAdapter_Persistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "modes.sqlite")

	adapter, err := Open(ctx, path)
	require.NoError(t, err)
	first := modes.NewMode("First", modestest.Configuration())
	second := modes.NewMode("Second", modestest.Configuration())
	require.NoError(t, adapter.Save(ctx, "orders", first))
	require.NoError(t, adapter.Save(ctx, "orders", second))
	require.NoError(t, adapter.SetSelectedID(ctx, "orders", second.ID))
	require.NoError(t, adapter.Close())

	adapter = openTestAdapter(t, path)
	require.NoError(t, adapter.Migrate(ctx), "migrating twice")

	all, err := adapter.GetAll(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, []modes.Mode{first, second}, all)

	selected, err := adapter.GetSelectedID(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, second.ID, selected)
}

func TestAdapter_SavePosition(t *testing.T) {
	ctx := context.Background()
	adapter := openTestAdapter(t, ":memory:")

	a := modes.NewMode("A", modestest.Configuration())
	b := modes.NewMode("B", modestest.Configuration())
	require.NoError(t, adapter.Save(ctx, "orders", a))
	require.NoError(t, adapter.Save(ctx, "orders", b))

	// Updating keeps the position
	a.Name = "A changed"
	require.NoError(t, adapter.Save(ctx, "orders", a))

	all, err := adapter.GetAll(ctx, "orders")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A changed", all[0].Name)
	assert.Equal(t, "B", all[1].Name)
}
