// Package storage persists generated headshots in an object store.
package storage

import (
	"context"
	"errors"
)

// ErrDisabled is returned by the no-op store used when STORAGE_BACKEND=none.
var ErrDisabled = errors.New("object storage is not configured")

// Object is a stored file and a URL it can be fetched from.
type Object struct {
	Key  string
	URL  string
	Size int64
}

type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (Object, error)
	List(ctx context.Context, prefix string) ([]Object, error)
	Delete(ctx context.Context, keys ...string) error
}

type disabledStore struct{}

// Disabled returns a store whose every call fails with ErrDisabled.
func Disabled() ObjectStore { return disabledStore{} }

func (disabledStore) Put(context.Context, string, []byte, string) (Object, error) {
	return Object{}, ErrDisabled
}

func (disabledStore) List(context.Context, string) ([]Object, error) {
	return nil, ErrDisabled
}

func (disabledStore) Delete(context.Context, ...string) error {
	return ErrDisabled
}
