package dao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/unidrl/campus-connect/internal/kvstore"
)

const (
	KeyEvents        = "events"
	KeyRegistrations = "event_registrations"
	KeyCheckoutQR    = "vnuk_checkout_qr"
	KeyBadgeConfig   = "vnuk_badge_config"
	KeyUsers         = "vnuk_users"
)

var ErrStorageFailure = errors.New("storage failure")

// errUnchanged lets an update callback report that nothing needs writing.
var errUnchanged = errors.New("document unchanged")

// document is one JSON value stored under a single key. Writes replace the
// whole value; mu serialises read-modify-write cycles inside this process.
type document[T any] struct {
	store kvstore.Store
	key   string
	mu    sync.Mutex
}

func newDocument[T any](store kvstore.Store, key string) *document[T] {
	return &document[T]{
		store: store,
		key:   key,
	}
}

// load returns the stored value. A missing key yields found=false. A value
// that no longer decodes is logged and treated as missing.
func (d *document[T]) load(ctx context.Context) (v T, found bool, err error) {
	raw, err := d.store.Get(ctx, d.key)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return v, false, nil
		}

		return v, false, fmt.Errorf("%w: d.store.Get(%s) -> %v", ErrStorageFailure, d.key, err)
	}

	if err = json.Unmarshal(raw, &v); err != nil {
		zap.L().Warn("discarding corrupt document", zap.String("key", d.key), zap.Error(err))

		var zero T
		return zero, false, nil
	}

	return v, true, nil
}

func (d *document[T]) read(ctx context.Context) (T, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.load(ctx)
}

func (d *document[T]) save(ctx context.Context, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: json.Marshal(%s) -> %v", ErrStorageFailure, d.key, err)
	}

	if err = d.store.Set(ctx, d.key, raw); err != nil {
		return fmt.Errorf("%w: d.store.Set(%s) -> %v", ErrStorageFailure, d.key, err)
	}

	return nil
}

// update loads the value, lets fn modify it and writes it back. Nothing is
// written when fn returns an error; errUnchanged skips the write and is not
// reported.
func (d *document[T]) update(ctx context.Context, fn func(v *T) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, _, err := d.load(ctx)
	if err != nil {
		return err
	}

	if err = fn(&v); err != nil {
		if errors.Is(err, errUnchanged) {
			return nil
		}
		return err
	}

	return d.save(ctx, v)
}

// drop deletes the key. The caller must hold mu.
func (d *document[T]) drop(ctx context.Context) error {
	if err := d.store.Remove(ctx, d.key); err != nil {
		return fmt.Errorf("%w: d.store.Remove(%s) -> %v", ErrStorageFailure, d.key, err)
	}

	return nil
}
