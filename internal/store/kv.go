// Package store persists tally's collections in a small key-value store.
package store

// Fixed keys under which each collection is stored as a JSON array.
const (
	KeyExpenses   = "expenses"
	KeyCategories = "categories"
	KeyBudgets    = "budgets"
)

// Keys lists the fixed keys in load order.
var Keys = []string{KeyExpenses, KeyCategories, KeyBudgets}

// KV is a durable string key-value store. An absent key is reported as
// ok=false with a nil error.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Close() error
}
