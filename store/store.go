// Package store defines the record collection interface and its backends.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("record not found")

// IDField is the name of the store-owned identifier field.
const IDField = "id"

// Record is one JSON object in the collection, including its "id".
type Record map[string]any

// ID returns the record identifier, or 0 if it has none.
func (r Record) ID() int64 {
	switch v := r[IDField].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

// Store is the interface that all collection backends must implement.
// Records are kept in insertion order and identified by a strictly
// increasing integer id that is never reused.
type Store interface {
	// List returns every record in insertion order.
	List(ctx context.Context) ([]Record, error)

	// Get returns a single record by id.
	Get(ctx context.Context, id int64) (Record, error)

	// Create assigns the next id to fields and appends the record.
	// Any "id" in fields is discarded.
	Create(ctx context.Context, fields map[string]any) (Record, error)

	// Replace swaps every field of an existing record, keeping its id.
	Replace(ctx context.Context, id int64, fields map[string]any) (Record, error)

	// Patch shallow-merges fields onto an existing record.
	Patch(ctx context.Context, id int64, fields map[string]any) (Record, error)

	// Delete removes a record.
	Delete(ctx context.Context, id int64) error

	// Len returns the number of records.
	Len(ctx context.Context) (int, error)

	Close() error
}

// withoutID returns a deep copy of fields minus the store-owned id.
func withoutID(fields map[string]any) map[string]any {
	out := deepCopy(fields)
	if out == nil {
		out = make(map[string]any)
	}
	delete(out, IDField)
	return out
}

// toRecord builds the outward representation of a stored entry.
func toRecord(id int64, fields map[string]any) Record {
	rec := Record(deepCopy(fields))
	if rec == nil {
		rec = make(Record, 1)
	}
	rec[IDField] = id
	return rec
}

// deepCopy returns a deep copy of a document by round-tripping through JSON.
func deepCopy(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	b, _ := json.Marshal(src)
	var dst map[string]any
	_ = json.Unmarshal(b, &dst)
	return dst
}
