package state

import (
	"fmt"
	"sync"

	"github.com/theirongolddev/tally/internal/log"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/store"
)

// Store owns the domain collections for one process. Create it with New and
// pass the handle to every consumer.
type Store struct {
	mu             sync.Mutex
	kv             store.KV
	state          State
	loaded         bool
	persistErr     error
	log            *log.Logger
	newID          IDGenerator
	resetOnCorrupt bool

	listenerMu sync.Mutex
	listeners  map[int]func(State)
	nextSub    int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l.WithComponent(log.ComponentState)
		}
	}
}

// WithIDGenerator replaces RandomID, mainly for tests.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithResetOnCorrupt makes LoadInitial replace undecodable keys with their
// defaults instead of failing.
func WithResetOnCorrupt(reset bool) Option {
	return func(s *Store) { s.resetOnCorrupt = reset }
}

// New returns a Store in the Loading state backed by kv.
func New(kv store.KV, opts ...Option) (*Store, error) {
	if kv == nil {
		return nil, ErrNoStorage
	}
	s := &Store{
		kv:        kv,
		state:     Initial(),
		log:       log.Discard(),
		newID:     RandomID,
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) must() {
	if s == nil {
		panic(nilStoreMsg)
	}
}

// LoadInitial reads the durable copy and moves the store to Ready. Absent keys
// keep their defaults. It may succeed only once.
func (s *Store) LoadInitial() error {
	s.must()
	s.mu.Lock()

	if s.loaded {
		s.mu.Unlock()
		return ErrAlreadyLoaded
	}

	snap, corrupt, err := store.LoadSnapshotLenient(s.kv)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("loading stored data: %w", err)
	}
	if len(corrupt) > 0 {
		if !s.resetOnCorrupt {
			s.mu.Unlock()
			return corrupt[0]
		}
		for _, ce := range corrupt {
			s.log.Warn("resetting corrupt data to defaults",
				log.FieldOperation, log.OpLoad, log.FieldKey, ce.Key, log.FieldError, ce.Err)
		}
	}

	var data SetInitialData
	if snap.HasExpenses {
		data.Expenses = snap.Expenses
	}
	if snap.HasCategories {
		data.Categories = snap.Categories
	}
	if snap.HasBudgets {
		data.Budgets = snap.Budgets
	}
	s.state = Reduce(s.state, data)
	s.loaded = true
	s.log.Debug("loaded stored data", log.FieldOperation, log.OpLoad,
		"expenses", len(s.state.Expenses),
		"categories", len(s.state.Categories),
		"budgets", len(s.state.Budgets))

	next := s.state.Clone()
	s.mu.Unlock()
	s.notify(next)
	return nil
}

// dispatch applies a to the current state and persists the result. It reports
// false when the store is still loading and the action was dropped.
func (s *Store) dispatch(a Action, op string) bool {
	s.must()
	s.mu.Lock()
	if s.state.IsLoading {
		s.mu.Unlock()
		s.log.Debug("ignoring mutation while loading", log.FieldOperation, op)
		return false
	}
	s.state = Reduce(s.state, a)
	s.persist(op)
	next := s.state.Clone()
	s.mu.Unlock()

	s.notify(next)
	return true
}

// persist must be called with s.mu held.
func (s *Store) persist(op string) {
	if s.state.IsLoading {
		return
	}
	err := store.SaveSnapshot(s.kv, store.Snapshot{
		Expenses:   s.state.Expenses,
		Categories: s.state.Categories,
		Budgets:    s.state.Budgets,
	})
	s.persistErr = err
	if err != nil {
		s.log.Error("persisting state", log.FieldOperation, op, log.FieldError, err)
	}
}

// AddExpense appends a new expense with a generated id and returns it.
func (s *Store) AddExpense(in model.ExpenseInput) model.Expense {
	s.must()
	e := in.WithID(s.newID())
	if !s.dispatch(AddExpense{Expense: e}, log.OpAddExpense) {
		return model.Expense{}
	}
	return e
}

// UpdateExpense replaces the expense with the same id. Unknown ids are ignored.
func (s *Store) UpdateExpense(e model.Expense) {
	s.dispatch(UpdateExpense{Expense: e}, log.OpUpdateExpense)
}

// DeleteExpense removes the expense with the given id, if any.
func (s *Store) DeleteExpense(id string) {
	s.dispatch(DeleteExpense{ID: id}, log.OpDeleteExpense)
}

// AddCategory appends a new category with a generated id and returns it.
func (s *Store) AddCategory(in model.CategoryInput) model.Category {
	s.must()
	c := in.WithID(s.newID())
	if !s.dispatch(AddCategory{Category: c}, log.OpAddCategory) {
		return model.Category{}
	}
	return c
}

// UpdateCategory replaces the category with the same id.
func (s *Store) UpdateCategory(c model.Category) {
	s.dispatch(UpdateCategory{Category: c}, log.OpUpdateCategory)
}

// DeleteCategory removes a category. Expenses and budgets that reference it are
// left alone and resolve to the Uncategorized fallback.
func (s *Store) DeleteCategory(id string) {
	s.dispatch(DeleteCategory{ID: id}, log.OpDeleteCategory)
}

// SetBudget creates the budget for in.Category, or updates the existing one
// while keeping its id. It returns the stored budget.
func (s *Store) SetBudget(in model.BudgetInput) model.Budget {
	s.must()
	if !s.dispatch(SetBudget{Budget: in.WithID(s.newID())}, log.OpSetBudget) {
		return model.Budget{}
	}
	snap := s.Snapshot()
	for _, b := range snap.Budgets {
		if b.Category == in.Category {
			return b
		}
	}
	return model.Budget{}
}

// UpdateBudget replaces the budget with the same id.
func (s *Store) UpdateBudget(b model.Budget) {
	s.dispatch(UpdateBudget{Budget: b}, log.OpUpdateBudget)
}

// DeleteBudget removes the budget with the given id, if any.
func (s *Store) DeleteBudget(id string) {
	s.dispatch(DeleteBudget{ID: id}, log.OpDeleteBudget)
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.must()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// PersistErr returns the error from the most recent durable write, or nil.
func (s *Store) PersistErr() error {
	s.must()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

// Subscribe registers fn to receive the new state after each applied
// mutation. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.must()
	s.listenerMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.listenerMu.Unlock()

	return func() {
		s.listenerMu.Lock()
		delete(s.listeners, id)
		s.listenerMu.Unlock()
	}
}

func (s *Store) notify(st State) {
	s.listenerMu.Lock()
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenerMu.Unlock()

	for _, fn := range fns {
		fn(st.Clone())
	}
}
