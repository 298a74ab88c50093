package model

import (
	"regexp"
	"strings"
)

// Fallback display values for expenses and budgets whose category was deleted.
const (
	UncategorizedName = "Uncategorized"
	FallbackColor     = "#6B7280"
	FallbackIcon      = "help-circle"
	DefaultIcon       = "tag"
)

// Category is a labeled, colored classification bucket.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// CategoryInput carries the fields of a category that has no id yet.
type CategoryInput struct {
	Name  string
	Color string
	Icon  string
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// WithID builds a Category from the input using the given id.
func (in CategoryInput) WithID(id string) Category {
	return Category{ID: id, Name: in.Name, Color: in.Color, Icon: in.Icon}
}

// Normalize trims the name and fills the default colour and icon.
func (in CategoryInput) Normalize() CategoryInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Icon = strings.TrimSpace(in.Icon)
	if in.Icon == "" {
		in.Icon = DefaultIcon
	}
	if in.Color == "" {
		in.Color = ColorPalette[0]
	}
	return in
}

// Validate checks the fields the category form requires.
func (in CategoryInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if !hexColor.MatchString(in.Color) {
		return ErrInvalidColor
	}
	return nil
}

// ColorPalette is the set of colours offered when creating a category.
var ColorPalette = []string{
	"#EF4444", // red
	"#F97316", // orange
	"#F59E0B", // amber
	"#10B981", // green
	"#06B6D4", // cyan
	"#3B82F6", // blue
	"#8B5CF6", // violet
	"#EC4899", // pink
	"#6B7280", // gray
}

// DefaultCategories returns a fresh copy of the categories seeded on first run.
func DefaultCategories() []Category {
	return []Category{
		{ID: "1", Name: "Food & Dining", Color: "#10B981", Icon: "utensils"},
		{ID: "2", Name: "Transportation", Color: "#3B82F6", Icon: "car"},
		{ID: "3", Name: "Housing", Color: "#8B5CF6", Icon: "home"},
		{ID: "4", Name: "Entertainment", Color: "#F59E0B", Icon: "film"},
		{ID: "5", Name: "Shopping", Color: "#EC4899", Icon: "shopping-bag"},
		{ID: "6", Name: "Utilities", Color: "#6366F1", Icon: "plug"},
		{ID: "7", Name: "Health", Color: "#EF4444", Icon: "heart"},
		{ID: "8", Name: "Other", Color: "#6B7280", Icon: "more-horizontal"},
	}
}

// ResolveCategory returns the category with the given id, or the
// Uncategorized fallback carrying that id when none matches.
func ResolveCategory(categories []Category, id string) Category {
	for _, c := range categories {
		if c.ID == id {
			return c
		}
	}
	return Category{ID: id, Name: UncategorizedName, Color: FallbackColor, Icon: FallbackIcon}
}

// FindCategory looks a category up by id first, then by case-insensitive name.
func FindCategory(categories []Category, idOrName string) (Category, bool) {
	for _, c := range categories {
		if c.ID == idOrName {
			return c, true
		}
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, idOrName) {
			return c, true
		}
	}
	return Category{}, false
}
