package store

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tally/internal/model"
)

func openTestDB(t *testing.T) *SQLiteKV {
	t.Helper()
	kv, err := Open(filepath.Join(t.TempDir(), "sub", "tally.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestSQLiteGetSet(t *testing.T) {
	kv := openTestDB(t)

	if _, ok, err := kv.Get("missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v, err %v; want absent", ok, err)
	}
	if err := kv.Set("k", "one"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set("k", "two"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	v, ok, err := kv.Get("k")
	if err != nil || !ok || v != "two" {
		t.Fatalf("Get(k) = %q, %v, %v; want two", v, ok, err)
	}
	ts, err := kv.UpdatedAt("k")
	if err != nil || ts.IsZero() {
		t.Fatalf("UpdatedAt = %v, %v", ts, err)
	}
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.db")
	kv, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := kv.Set(KeyBudgets, "[]"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_ = kv.Close()

	kv, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = kv.Close() }()
	if v, ok, _ := kv.Get(KeyBudgets); !ok || v != "[]" {
		t.Fatalf("after reopen Get = %q, %v", v, ok)
	}
}

func TestMemoryClosed(t *testing.T) {
	kv := NewMemory()
	_ = kv.Close()
	if err := kv.Set("a", "b"); !errors.Is(err, ErrClosed) {
		t.Fatalf("Set after close err = %v", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	for name, kv := range map[string]KV{"memory": NewMemory(), "sqlite": openTestDB(t)} {
		t.Run(name, func(t *testing.T) {
			in := Snapshot{
				Expenses: []model.Expense{
					{ID: "a", Amount: decimal.RequireFromString("12.50"), Category: "1", Description: "lunch", Date: "2025-01-15"},
				},
				Categories: model.DefaultCategories(),
				Budgets: []model.Budget{
					{ID: "b", Category: "1", Amount: decimal.NewFromInt(300), Period: model.Monthly},
				},
			}
			if err := SaveSnapshot(kv, in); err != nil {
				t.Fatalf("SaveSnapshot: %v", err)
			}
			out, err := LoadSnapshot(kv)
			if err != nil {
				t.Fatalf("LoadSnapshot: %v", err)
			}
			if !out.HasExpenses || !out.HasCategories || !out.HasBudgets {
				t.Fatalf("presence flags = %v %v %v", out.HasExpenses, out.HasCategories, out.HasBudgets)
			}
			if len(out.Expenses) != 1 || !out.Expenses[0].Amount.Equal(decimal.RequireFromString("12.5")) {
				t.Fatalf("expenses = %+v", out.Expenses)
			}
			if out.Expenses[0].Date != "2025-01-15" || out.Expenses[0].Description != "lunch" {
				t.Fatalf("expense fields = %+v", out.Expenses[0])
			}
			if len(out.Categories) != 8 || out.Categories[2].Name != "Housing" {
				t.Fatalf("categories = %+v", out.Categories)
			}
			if len(out.Budgets) != 1 || out.Budgets[0].Period != model.Monthly {
				t.Fatalf("budgets = %+v", out.Budgets)
			}
		})
	}
}

func TestLoadSnapshotAbsentAndEmpty(t *testing.T) {
	kv := NewMemory()
	_ = kv.Set(KeyBudgets, "[]")

	snap, err := LoadSnapshot(kv)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if snap.HasExpenses || snap.HasCategories {
		t.Fatal("absent keys reported as present")
	}
	if !snap.HasBudgets || snap.Budgets == nil || len(snap.Budgets) != 0 {
		t.Fatalf("empty budgets: has=%v budgets=%v", snap.HasBudgets, snap.Budgets)
	}
}

func TestLoadSnapshotNumericAmounts(t *testing.T) {
	kv := NewMemory()
	_ = kv.Set(KeyExpenses, `[{"id":"x","amount":19.99,"category":"2","description":"","date":"2025-02-01"}]`)

	snap, err := LoadSnapshot(kv)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if !snap.Expenses[0].Amount.Equal(decimal.RequireFromString("19.99")) {
		t.Fatalf("amount = %s", snap.Expenses[0].Amount)
	}
}

func TestLoadSnapshotCorrupt(t *testing.T) {
	kv := NewMemory()
	_ = kv.Set(KeyExpenses, "[]")
	_ = kv.Set(KeyCategories, "{not json")

	_, err := LoadSnapshot(kv)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
	var ce *CorruptError
	if !errors.As(err, &ce) || ce.Key != KeyCategories {
		t.Fatalf("CorruptError = %+v", ce)
	}

	snap, corrupt, err := LoadSnapshotLenient(kv)
	if err != nil {
		t.Fatalf("lenient: %v", err)
	}
	if len(corrupt) != 1 || corrupt[0].Key != KeyCategories {
		t.Fatalf("corrupt = %+v", corrupt)
	}
	if !snap.HasExpenses || snap.HasCategories {
		t.Fatalf("flags = %v %v", snap.HasExpenses, snap.HasCategories)
	}
}

func TestSaveSnapshotWritesEmptyArrays(t *testing.T) {
	kv := NewMemory()
	if err := SaveSnapshot(kv, Snapshot{}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	for _, k := range Keys {
		if v, ok, _ := kv.Get(k); !ok || v != "[]" {
			t.Fatalf("%s = %q, %v; want []", k, v, ok)
		}
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	snap := Snapshot{
		Expenses:   []model.Expense{{ID: "e1", Amount: decimal.RequireFromString("3.30"), Category: "1", Date: "2025-04-01"}},
		Categories: model.DefaultCategories()[:2],
	}
	now := time.Date(2025, 4, 2, 9, 30, 15, 0, time.UTC)
	if err := WriteDocument(&buf, snap, now); err != nil {
		t.Fatalf("WriteDocument: %v", err)
	}
	doc, err := ReadDocument(&buf)
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if !doc.ExportedAt.Equal(now) || len(doc.Expenses) != 1 || len(doc.Categories) != 2 || doc.Budgets == nil {
		t.Fatalf("doc = %+v", doc)
	}
	if !doc.Expenses[0].Amount.Equal(decimal.RequireFromString("3.3")) {
		t.Fatalf("amount = %s", doc.Expenses[0].Amount)
	}
}

func TestReadDocumentRejects(t *testing.T) {
	if _, err := ReadDocument(strings.NewReader("{")); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("truncated err = %v", err)
	}
	if _, err := ReadDocument(strings.NewReader(`{"version": 7}`)); err == nil {
		t.Fatal("expected version error")
	}
}
