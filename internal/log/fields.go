package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldSubcomponent = "subcomponent"
	FieldOperation    = "operation"
	FieldError        = "error"
	FieldKey          = "key"
	FieldID           = "id"
	FieldCategory     = "category"
	FieldAmount       = "amount"
	FieldPeriod       = "period"
	FieldCount        = "count"
	FieldPath         = "path"
	FieldBackend      = "backend"
)

// Components
const (
	ComponentApp     = "app"
	ComponentState   = "state"
	ComponentStorage = "storage"
	ComponentCLI     = "cli"
	ComponentTUI     = "tui"
	ComponentConfig  = "config"
)

// Operations
const (
	OpLoad           = "load"
	OpPersist        = "persist"
	OpAddExpense     = "add_expense"
	OpUpdateExpense  = "update_expense"
	OpDeleteExpense  = "delete_expense"
	OpAddCategory    = "add_category"
	OpUpdateCategory = "update_category"
	OpDeleteCategory = "delete_category"
	OpSetBudget      = "set_budget"
	OpUpdateBudget   = "update_budget"
	OpDeleteBudget   = "delete_budget"
	OpImport         = "import"
	OpExport         = "export"
)
