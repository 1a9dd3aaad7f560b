// Package boltstore implements modes.StoreProvider with a bbolt database file.
package boltstore

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/domonda/go-datagrid/modes"
)

// DefaultBucket is the bucket used by Open if none is passed.
const DefaultBucket = "datagrid-modes"

var _ modes.StoreProvider = new(Provider)

// Provider implements modes.StoreProvider for a bucket of a bbolt database.
type Provider struct {
	db     *bbolt.DB
	bucket []byte
	close  bool
}

// New returns a Provider using bucket of db.
// The bucket is created with the first write.
func New(db *bbolt.DB, bucket string) *Provider {
	return &Provider{db: db, bucket: []byte(bucket)}
}

// Open opens or creates the database file at path
// and returns a Provider owning it, call Close when done.
// An empty bucket uses DefaultBucket.
func Open(path, bucket string) (*Provider, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("can't open mode database %q: %w", path, err)
	}
	p := New(db, bucket)
	p.close = true
	return p, nil
}

// Close closes the database if it was opened by Open.
func (p *Provider) Close() error {
	if !p.close {
		return nil
	}
	return p.db.Close()
}

// Get retrieves the value at key.
func (p *Provider) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := p.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(p.bucket)
		if b == nil {
			return modes.ErrNotFound
		}
		v := b.Get([]byte(key))
		if v == nil {
			return modes.ErrNotFound
		}
		// v is only valid within the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set stores value at key.
func (p *Provider) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(p.bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), value)
	})
}

// Delete removes the value at key.
func (p *Provider) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(p.bucket)
		if b == nil || b.Get([]byte(key)) == nil {
			return modes.ErrNotFound
		}
		return b.Delete([]byte(key))
	})
}
