package redisstore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domonda/go-datagrid/modes"
	"github.com/domonda/go-datagrid/modes/modestest"
)

// testProvider connects to the Redis server at DATAGRID_TEST_REDIS_URL
// using a random key prefix, the test is skipped if it is not set.
func testProvider(t *testing.T) *Provider {
	t.Helper()
	url := os.Getenv("DATAGRID_TEST_REDIS_URL")
	if url == "" {
		t.Skip("DATAGRID_TEST_REDIS_URL not set")
	}
	provider, err := Connect(url, "datagrid-test-"+uuid.NewString()+":")
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Close() })
	require.NoError(t, provider.client.Ping(context.Background()).Err())
	return provider
}

func TestProvider(t *testing.T) {
	ctx := context.Background()
	provider := testProvider(t)

	_, err := provider.Get(ctx, "key1")
	require.ErrorIs(t, err, modes.ErrNotFound)
	require.ErrorIs(t, provider.Delete(ctx, "key1"), modes.ErrNotFound)

	require.NoError(t, provider.Set(ctx, "key1", []byte("value1")))
	data, err := provider.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, "value1", string(data))

	raw, err := provider.client.Get(ctx, provider.prefix+"key1").Result()
	require.NoError(t, err)
	assert.Equal(t, "value1", raw, "key is prefixed")

	require.NoError(t, provider.Delete(ctx, "key1"))
	_, err = provider.Get(ctx, "key1")
	require.ErrorIs(t, err, modes.ErrNotFound)
}

func TestAdapter(t *testing.T) {
	modestest.TestAdapter(t, modes.NewStoreAdapter(testProvider(t)))
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect("http://localhost", "")
	require.Error(t, err)
}
