// Package jsonstore persists each collection as a single pretty-printed JSON
// array file. Every operation re-reads the file, applies the change in memory
// and writes the whole array back; a per-collection mutex serializes
// overlapping in-process mutations.
package jsonstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when no record in the collection matches the id.
var ErrNotFound = errors.New("record not found")

type (
	// record is the contract collection entries must satisfy, via their
	// pointer type: an id slot and a creation-timestamp slot.
	record[T any] interface {
		*T
		GetID() string
		SetID(string)
		Stamp(time.Time)
	}

	// defaulter lets an entity backfill fields on create (e.g. a default status).
	defaulter interface {
		SetDefaults()
	}

	// Collection is a named, file-persisted ordered sequence of records of one type.
	Collection[T any, PT record[T]] struct {
		mu      sync.Mutex
		path    string
		tsField string // JSON name of the creation timestamp; immutable in patches
	}
)

// NewCollection opens (and creates the directory for) the collection named
// `name`, persisted at <dir>/<name>.json. tsField is the JSON name of the
// entity's creation-timestamp field.
func NewCollection[T any, PT record[T]](dir, name, tsField string) (*Collection[T, PT], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating data dir %s", dir)
	}
	return &Collection[T, PT]{
		path:    filepath.Join(dir, name+".json"),
		tsField: tsField,
	}, nil
}

// load reads the whole collection. A missing or unparsable file is an empty
// collection, never an error: a corrupt read must not take reads down.
func (c *Collection[T, PT]) load() []T {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return []T{}
	}
	var recs []T
	if err := json.Unmarshal(data, &recs); err != nil {
		return []T{}
	}
	if recs == nil {
		recs = []T{}
	}
	return recs
}

// save writes the whole collection back, pretty-printed.
func (c *Collection[T, PT]) save(recs []T) error {
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encoding %s", c.path)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", c.path)
	}
	return nil
}

// List returns the full ordered sequence of records currently in the collection.
func (c *Collection[T, PT]) List(_ context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(), nil
}

// Find returns the record matching id, or ErrNotFound.
func (c *Collection[T, PT]) Find(_ context.Context, id string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, rec := range c.load() {
		rec := rec
		if PT(&rec).GetID() == id {
			return rec, nil
		}
	}
	var zero T
	return zero, ErrNotFound
}

// Create assigns a fresh unique id, stamps the creation timestamp, applies
// entity defaults, appends the record and persists the collection.
func (c *Collection[T, PT]) Create(_ context.Context, rec T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pr := PT(&rec)
	pr.SetID(uuid.NewString())
	pr.Stamp(time.Now().UTC())
	if d, ok := any(pr).(defaulter); ok {
		d.SetDefaults()
	}

	recs := append(c.load(), rec)
	if err := c.save(recs); err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

// Update shallow-merges patch onto the record matching id: each top-level
// field present in patch replaces the stored one, everything else is
// preserved. The id and creation-timestamp fields are immutable. Returns
// ErrNotFound (leaving the file untouched) when no record matches.
func (c *Collection[T, PT]) Update(_ context.Context, id string, patch map[string]interface{}) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	recs := c.load()
	for i := range recs {
		if PT(&recs[i]).GetID() != id {
			continue
		}
		merged, err := c.merge(recs[i], patch)
		if err != nil {
			return zero, err
		}
		recs[i] = merged
		if err := c.save(recs); err != nil {
			return zero, err
		}
		return merged, nil
	}
	return zero, ErrNotFound
}

// Delete removes the record matching id, if any. Deleting an absent id is a
// no-op, not an error.
func (c *Collection[T, PT]) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	recs := c.load()
	kept := recs[:0]
	for _, rec := range recs {
		rec := rec
		if PT(&rec).GetID() != id {
			kept = append(kept, rec)
		}
	}
	return c.save(kept)
}

// merge does the shallow merge through a JSON round-trip so patch keys line
// up with the entity's wire field names.
func (c *Collection[T, PT]) merge(rec T, patch map[string]interface{}) (T, error) {
	var zero T

	data, err := json.Marshal(rec)
	if err != nil {
		return zero, errors.Wrap(err, "encoding record")
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return zero, errors.Wrap(err, "decoding record")
	}

	for key, val := range patch {
		if key == "id" || key == c.tsField {
			continue
		}
		doc[key] = val
	}

	data, err = json.Marshal(doc)
	if err != nil {
		return zero, errors.Wrap(err, "encoding merged record")
	}
	var merged T
	if err := json.Unmarshal(data, &merged); err != nil {
		return zero, errors.Wrap(err, "decoding merged record")
	}
	return merged, nil
}
