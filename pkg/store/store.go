// Package store persists journeys in an opaque key-value store.
//
// A [Store] only moves bytes. [Save] and [Load] add the JSON [Record]
// envelope, key validation and store hooks on top of any backend. Backend
// implementations live in subpackages (memory, file, redis, mongo,
// postgres); [backends.Open] picks one from configuration.
//
//	s := memory.New()
//	err := store.Save(ctx, s, store.Record{Key: "welcome", Nodes: nodes})
//	rec, err := store.Load(ctx, s, "welcome")
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/journey/pkg/errors"
	"github.com/matzehuels/journey/pkg/journey"
	"github.com/matzehuels/journey/pkg/observability"
)

// ErrNotFound is returned by Get when no value is stored under a key.
// Backends return it unwrapped so callers can compare with errors.Is.
var ErrNotFound = errors.New(errors.ErrCodeNotFound, "journey not found")

// Store is the byte-level persistence contract shared by all backends.
//
// Delete of a missing key is not an error. List returns keys in ascending
// order.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]string, error)
	Close() error
}

// Record is the stored form of a journey.
type Record struct {
	Key          string               `json:"key"`
	Description  string               `json:"description,omitempty"`
	Requirements journey.Requirements `json:"requirements"`
	Nodes        []journey.Node       `json:"nodes"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

// Save validates rec.Key, stamps UpdatedAt when it is zero and writes rec
// as JSON.
func Save(ctx context.Context, s Store, rec Record) error {
	if err := errors.ValidateKey(rec.Key); err != nil {
		return err
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	if rec.Nodes == nil {
		rec.Nodes = []journey.Node{}
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", rec.Key, err)
	}
	if err := s.Set(ctx, rec.Key, data); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save journey %s", rec.Key)
	}
	return nil
}

// Load reads and decodes the record stored under key. A missing key yields
// an error matching [ErrNotFound].
func Load(ctx context.Context, s Store, key string) (Record, error) {
	if err := errors.ValidateKey(key); err != nil {
		return Record{}, err
	}
	data, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return Record{}, fmt.Errorf("load %s: %w", key, ErrNotFound)
		}
		return Record{}, errors.Wrap(errors.ErrCodeStore, err, "load journey %s", key)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeStore, err, "decode journey %s", key)
	}
	if rec.Key == "" {
		rec.Key = key
	}
	return rec, nil
}

// =============================================================================
// Instrumentation
// =============================================================================

// Instrument wraps s so every operation reports to [observability.Store]
// under the given backend name.
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

type instrumented struct {
	Store
	backend string
}

func (i *instrumented) observe(ctx context.Context, op string, start time.Time, err error) {
	if err == ErrNotFound {
		err = nil
	}
	observability.Store().OnStoreOp(ctx, i.backend, op, time.Since(start), err)
}

func (i *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	data, err := i.Store.Get(ctx, key)
	i.observe(ctx, "get", start, err)
	return data, err
}

func (i *instrumented) Set(ctx context.Context, key string, data []byte) error {
	start := time.Now()
	err := i.Store.Set(ctx, key, data)
	i.observe(ctx, "set", start, err)
	return err
}

func (i *instrumented) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := i.Store.Delete(ctx, key)
	i.observe(ctx, "delete", start, err)
	return err
}

func (i *instrumented) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	keys, err := i.Store.List(ctx)
	i.observe(ctx, "list", start, err)
	return keys, err
}
