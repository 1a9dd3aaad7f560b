// Package redisstore implements modes.StoreProvider with Redis.
package redisstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/domonda/go-datagrid/modes"
)

var _ modes.StoreProvider = new(Provider)

// Provider implements modes.StoreProvider for Redis.
// Keys are stored with an optional prefix
// to share a Redis database with other data.
type Provider struct {
	client redis.UniversalClient
	prefix string
}

// New returns a Provider using client, prefixing all keys with prefix.
func New(client redis.UniversalClient, prefix string) *Provider {
	return &Provider{client: client, prefix: prefix}
}

// Connect returns a Provider with a new client for the Redis
// server described by url, for example "redis://localhost:6379/0".
func Connect(url, prefix string) (*Provider, error) {
	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return New(redis.NewClient(options), prefix), nil
}

// Close closes the client.
func (p *Provider) Close() error {
	return p.client.Close()
}

// Get retrieves the value at key.
func (p *Provider) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := p.client.Get(ctx, p.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, modes.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set stores value at key without expiration.
func (p *Provider) Set(ctx context.Context, key string, value []byte) error {
	return p.client.Set(ctx, p.prefix+key, value, 0).Err()
}

// Delete removes the value at key.
func (p *Provider) Delete(ctx context.Context, key string) error {
	n, err := p.client.Del(ctx, p.prefix+key).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return modes.ErrNotFound
	}
	return nil
}
