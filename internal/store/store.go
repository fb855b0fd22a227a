// Package store defines the key-value slots the site state lives in.
//
// Each collection is persisted as one JSON document under one key and is
// rewritten in full on every mutation.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrConflict is returned when a concurrent writer kept modifying a slot
// and the optimistic update gave up.
var ErrConflict = errors.New("concurrent modification of stored collection")

// UpdateFunc receives the current slot value and returns the value to
// write. Returning write=false leaves the slot untouched; a nil next with
// write=true removes the key.
type UpdateFunc func(current []byte, found bool) (next []byte, write bool, err error)

// Store is a minimal key-value backend.
type Store interface {
	// Get returns the raw value, found=false when the key is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Update runs a read-modify-write of key. Implementations must apply fn
	// atomically with respect to other writers of the same key.
	Update(ctx context.Context, key string, fn UpdateFunc) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error

	// Backend names the implementation ("redis", "memory").
	Backend() string
}

// LoadCollection decodes the JSON array stored at key.
func LoadCollection[T any](ctx context.Context, s Store, key string) ([]T, bool, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !found {
		return nil, false, nil
	}
	items, err := decode[T](key, raw)
	if err != nil {
		return nil, true, err
	}
	return items, true, nil
}

// MutateCollection decodes the collection at key, hands it to fn and writes
// back whatever fn returns when it reports changed=true.
func MutateCollection[T any](ctx context.Context, s Store, key string, fn func(items []T, found bool) ([]T, bool, error)) error {
	return s.Update(ctx, key, func(current []byte, found bool) ([]byte, bool, error) {
		var items []T
		if found {
			decoded, err := decode[T](key, current)
			if err != nil {
				return nil, false, err
			}
			items = decoded
		}

		next, changed, err := fn(items, found)
		if err != nil || !changed {
			return nil, false, err
		}
		if next == nil {
			next = []T{}
		}

		data, err := json.Marshal(next)
		if err != nil {
			return nil, false, fmt.Errorf("failed to marshal %s: %w", key, err)
		}
		return data, true, nil
	})
}

func decode[T any](key string, raw []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
