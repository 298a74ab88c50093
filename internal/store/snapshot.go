package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/theirongolddev/tally/internal/model"
)

var (
	// ErrCorrupt matches any *CorruptError.
	ErrCorrupt = errors.New("stored data is corrupt")
	ErrClosed  = errors.New("store is closed")
)

// CorruptError reports a key whose stored text could not be decoded.
type CorruptError struct {
	Key string
	Err error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("stored %s data is corrupt: %v", e.Key, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrCorrupt) match.
func (e *CorruptError) Is(target error) bool { return target == ErrCorrupt }

// Snapshot is the durable content of all three collections. The Has flags
// distinguish an absent key from one holding an empty array.
type Snapshot struct {
	Expenses   []model.Expense
	Categories []model.Category
	Budgets    []model.Budget

	HasExpenses   bool
	HasCategories bool
	HasBudgets    bool
}

// LoadSnapshot reads each key independently. The first corrupt key aborts
// the load with a *CorruptError.
func LoadSnapshot(kv KV) (Snapshot, error) {
	snap, corrupt, err := LoadSnapshotLenient(kv)
	if err != nil {
		return Snapshot{}, err
	}
	if len(corrupt) > 0 {
		return Snapshot{}, corrupt[0]
	}
	return snap, nil
}

// LoadSnapshotLenient behaves like LoadSnapshot but keeps going past corrupt
// keys, leaving them absent. Every corrupt key is returned in key order.
func LoadSnapshotLenient(kv KV) (Snapshot, []*CorruptError, error) {
	var snap Snapshot
	var corrupt []*CorruptError

	collect := func(err error) error {
		var ce *CorruptError
		if errors.As(err, &ce) {
			corrupt = append(corrupt, ce)
			return nil
		}
		return err
	}

	var err error
	if snap.Expenses, snap.HasExpenses, err = loadKey[model.Expense](kv, KeyExpenses); collect(err) != nil {
		return Snapshot{}, nil, err
	}
	if snap.Categories, snap.HasCategories, err = loadKey[model.Category](kv, KeyCategories); collect(err) != nil {
		return Snapshot{}, nil, err
	}
	if snap.Budgets, snap.HasBudgets, err = loadKey[model.Budget](kv, KeyBudgets); collect(err) != nil {
		return Snapshot{}, nil, err
	}
	return snap, corrupt, nil
}

func loadKey[T any](kv KV, key string) ([]T, bool, error) {
	raw, ok, err := kv.Get(key)
	if err != nil {
		return nil, false, fmt.Errorf("loading %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, false, &CorruptError{Key: key, Err: err}
	}
	if out == nil {
		out = []T{}
	}
	return out, true, nil
}

// SaveSnapshot encodes and writes all three collections. Nil slices are
// written as empty arrays.
func SaveSnapshot(kv KV, snap Snapshot) error {
	values := []struct {
		key string
		v   any
	}{
		{KeyExpenses, nonNil(snap.Expenses)},
		{KeyCategories, nonNil(snap.Categories)},
		{KeyBudgets, nonNil(snap.Budgets)},
	}
	for _, item := range values {
		data, err := json.Marshal(item.v)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", item.key, err)
		}
		if err := kv.Set(item.key, string(data)); err != nil {
			return fmt.Errorf("saving %s: %w", item.key, err)
		}
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
