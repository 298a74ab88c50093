package state

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/store"
)

// countingKV records writes so tests can assert when persistence happens.
type countingKV struct {
	*store.MemoryKV
	sets   int
	failOn string
}

func (c *countingKV) Set(key, value string) error {
	c.sets++
	if key == c.failOn {
		return fmt.Errorf("disk full")
	}
	return c.MemoryKV.Set(key, value)
}

func sequentialIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}
}

func newReadyStore(t *testing.T, kv store.KV) *Store {
	t.Helper()
	s, err := New(kv, WithIDGenerator(sequentialIDs()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.LoadInitial(); err != nil {
		t.Fatalf("LoadInitial: %v", err)
	}
	return s
}

func expenseIn(amount int64, cat, date string) model.ExpenseInput {
	return model.ExpenseInput{Amount: decimal.NewFromInt(amount), Category: cat, Date: date}
}

func TestNewRequiresStorage(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNoStorage) {
		t.Fatalf("err = %v, want ErrNoStorage", err)
	}
}

func TestNilStorePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	var s *Store
	s.Snapshot()
}

func TestLoadInitialDefaultsAndOnce(t *testing.T) {
	s := newReadyStore(t, store.NewMemory())
	snap := s.Snapshot()
	if snap.IsLoading {
		t.Fatal("still loading")
	}
	if len(snap.Categories) != 8 || len(snap.Expenses) != 0 || len(snap.Budgets) != 0 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if err := s.LoadInitial(); !errors.Is(err, ErrAlreadyLoaded) {
		t.Fatalf("second LoadInitial err = %v", err)
	}
}

func TestAddExpenseUniqueIDs(t *testing.T) {
	s, err := New(store.NewMemory())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.LoadInitial(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 50; i++ {
		s.AddExpense(expenseIn(int64(i+1), "1", "2025-01-01"))
	}
	snap := s.Snapshot()
	if len(snap.Expenses) != 50 {
		t.Fatalf("len = %d, want 50", len(snap.Expenses))
	}
	ids := make(map[string]bool)
	for _, e := range snap.Expenses {
		if ids[e.ID] {
			t.Fatalf("duplicate id %s", e.ID)
		}
		ids[e.ID] = true
	}
}

func TestSetBudgetTwiceSameCategory(t *testing.T) {
	s := newReadyStore(t, store.NewMemory())
	first := s.SetBudget(model.BudgetInput{Category: "1", Amount: decimal.NewFromInt(200), Period: model.Monthly})
	second := s.SetBudget(model.BudgetInput{Category: "1", Amount: decimal.NewFromInt(500), Period: model.Yearly})

	if first.ID != second.ID {
		t.Fatalf("id changed: %s -> %s", first.ID, second.ID)
	}
	budgets := s.Snapshot().Budgets
	if len(budgets) != 1 {
		t.Fatalf("len = %d, want 1", len(budgets))
	}
	if !budgets[0].Amount.Equal(decimal.NewFromInt(500)) || budgets[0].Period != model.Yearly {
		t.Fatalf("budget = %+v", budgets[0])
	}
}

func TestDeleteCategoryDoesNotCascade(t *testing.T) {
	s := newReadyStore(t, store.NewMemory())
	s.AddExpense(expenseIn(10, "1", "2025-01-01"))
	s.SetBudget(model.BudgetInput{Category: "1", Amount: decimal.NewFromInt(100), Period: model.Monthly})

	s.DeleteCategory("1")

	snap := s.Snapshot()
	if len(snap.Categories) != 7 {
		t.Fatalf("categories = %d", len(snap.Categories))
	}
	if len(snap.Expenses) != 1 || len(snap.Budgets) != 1 {
		t.Fatalf("expenses=%d budgets=%d; want 1 and 1", len(snap.Expenses), len(snap.Budgets))
	}
	if c := model.ResolveCategory(snap.Categories, snap.Expenses[0].Category); c.Name != model.UncategorizedName {
		t.Fatalf("resolved = %+v", c)
	}
}

func TestMutationsWhileLoadingAreDropped(t *testing.T) {
	kv := &countingKV{MemoryKV: store.NewMemory()}
	s, err := New(kv)
	if err != nil {
		t.Fatal(err)
	}

	got := s.AddExpense(expenseIn(5, "1", "2025-01-01"))
	s.DeleteCategory("1")
	s.SetBudget(model.BudgetInput{Category: "1", Amount: decimal.NewFromInt(1), Period: model.Monthly})

	if got.ID != "" {
		t.Fatalf("AddExpense while loading returned %+v", got)
	}
	if kv.sets != 0 {
		t.Fatalf("%d writes while loading", kv.sets)
	}
	snap := s.Snapshot()
	if !snap.IsLoading || len(snap.Expenses) != 0 || len(snap.Categories) != 8 {
		t.Fatalf("snapshot changed while loading: %+v", snap)
	}
}

func TestLoadDoesNotWrite(t *testing.T) {
	kv := &countingKV{MemoryKV: store.NewMemory()}
	newReadyStore(t, kv)
	if kv.sets != 0 {
		t.Fatalf("LoadInitial wrote %d keys", kv.sets)
	}
}

func TestRoundTripThroughStorage(t *testing.T) {
	kv := store.NewMemory()
	s := newReadyStore(t, kv)
	e := s.AddExpense(model.ExpenseInput{Amount: decimal.RequireFromString("42.10"), Category: "3", Description: "rent share", Date: "2025-02-03"})
	c := s.AddCategory(model.CategoryInput{Name: "Pets", Color: "#06B6D4", Icon: "heart"})
	b := s.SetBudget(model.BudgetInput{Category: c.ID, Amount: decimal.NewFromInt(80), Period: model.Monthly})
	want := s.Snapshot()

	reloaded := newReadyStore(t, kv)
	got := reloaded.Snapshot()

	if len(got.Expenses) != 1 || got.Expenses[0].ID != e.ID || !got.Expenses[0].Amount.Equal(e.Amount) ||
		got.Expenses[0].Description != "rent share" || got.Expenses[0].Date != "2025-02-03" {
		t.Fatalf("expenses = %+v", got.Expenses)
	}
	if len(got.Categories) != len(want.Categories) || got.Categories[8] != c {
		t.Fatalf("categories = %+v", got.Categories)
	}
	if len(got.Budgets) != 1 || got.Budgets[0].ID != b.ID || !got.Budgets[0].Amount.Equal(b.Amount) {
		t.Fatalf("budgets = %+v", got.Budgets)
	}
}

func TestLoadKeepsEmptyStoredCategories(t *testing.T) {
	kv := store.NewMemory()
	_ = kv.Set(store.KeyCategories, "[]")
	s := newReadyStore(t, kv)
	if n := len(s.Snapshot().Categories); n != 0 {
		t.Fatalf("categories = %d, want 0 (stored empty array)", n)
	}
}

func TestCorruptDataFailsByDefault(t *testing.T) {
	kv := &countingKV{MemoryKV: store.NewMemory()}
	_ = kv.MemoryKV.Set(store.KeyExpenses, "not json")

	s, _ := New(kv)
	err := s.LoadInitial()
	if !errors.Is(err, store.ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
	if !s.Snapshot().IsLoading {
		t.Fatal("store left Loading after failed load")
	}
	if kv.sets != 0 {
		t.Fatal("storage written after failed load")
	}
}

func TestCorruptDataResetWhenEnabled(t *testing.T) {
	kv := store.NewMemory()
	_ = kv.Set(store.KeyExpenses, "not json")
	_ = kv.Set(store.KeyBudgets, `[{"id":"b1","category":"1","amount":"10","period":"monthly"}]`)

	s, _ := New(kv, WithResetOnCorrupt(true))
	if err := s.LoadInitial(); err != nil {
		t.Fatalf("LoadInitial: %v", err)
	}
	snap := s.Snapshot()
	if len(snap.Expenses) != 0 || len(snap.Budgets) != 1 {
		t.Fatalf("expenses=%d budgets=%d", len(snap.Expenses), len(snap.Budgets))
	}

	s.AddExpense(expenseIn(3, "1", "2025-01-01"))
	if _, err := store.LoadSnapshot(kv); err != nil {
		t.Fatalf("corrupt key not overwritten: %v", err)
	}
}

func TestPersistErrorDoesNotFailMutation(t *testing.T) {
	kv := &countingKV{MemoryKV: store.NewMemory(), failOn: store.KeyBudgets}
	s := newReadyStore(t, kv)

	e := s.AddExpense(expenseIn(7, "1", "2025-01-01"))
	if e.ID == "" {
		t.Fatal("mutation failed")
	}
	if len(s.Snapshot().Expenses) != 1 {
		t.Fatal("in-memory state not updated")
	}
	if s.PersistErr() == nil {
		t.Fatal("PersistErr() = nil, want the write failure")
	}
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	s := newReadyStore(t, store.NewMemory())
	var got []State
	unsub := s.Subscribe(func(st State) { got = append(got, st) })

	s.AddExpense(expenseIn(1, "1", "2025-01-01"))
	s.AddExpense(expenseIn(2, "1", "2025-01-02"))
	unsub()
	s.AddExpense(expenseIn(3, "1", "2025-01-03"))

	if len(got) != 2 {
		t.Fatalf("notifications = %d, want 2", len(got))
	}
	if len(got[1].Expenses) != 2 {
		t.Fatalf("second snapshot has %d expenses", len(got[1].Expenses))
	}
	got[1].Expenses[0].Description = "mutated"
	if s.Snapshot().Expenses[0].Description == "mutated" {
		t.Fatal("subscriber snapshot shares storage with the store")
	}
}
