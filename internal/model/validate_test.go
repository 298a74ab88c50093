package model

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		err  error
	}{
		{"12.34", "12.34", nil},
		{"12,34", "12.34", nil},
		{" 7 ", "7", nil},
		{"0.01", "0.01", nil},
		{"", "", ErrAmountRequired},
		{"0", "", ErrInvalidAmount},
		{"-3", "", ErrInvalidAmount},
		{"abc", "", ErrInvalidAmount},
		{"1.2.3", "", ErrInvalidAmount},
		{"12,5", "12.5", nil},
		{"1,234", "", ErrInvalidAmount},
		{"1,234.56", "", ErrInvalidAmount},
		{"1,2,3", "", ErrInvalidAmount},
		{"12,", "", ErrInvalidAmount},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Fatalf("ParseAmount(%q) err = %v, want %v", tc.in, err, tc.err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseAmount(%q) unexpected error: %v", tc.in, err)
		}
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("ParseAmount(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2025-01-09"); err != nil {
		t.Fatalf("valid date rejected: %v", err)
	}
	for _, bad := range []string{"2025-1-9", "2025/01/09", "2025-13-01", "20250109", "2025-02-30"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("ParseDate(%q) err = %v, want ErrInvalidDate", bad, err)
		}
	}
	if _, err := ParseDate(""); !errors.Is(err, ErrDateRequired) {
		t.Fatalf("empty date err = %v, want ErrDateRequired", err)
	}
}

func TestExpenseInputValidate(t *testing.T) {
	good := ExpenseInput{Amount: decimal.NewFromInt(5), Category: "1", Date: "2025-03-01"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		in   ExpenseInput
		want error
	}{
		{ExpenseInput{Amount: decimal.Zero, Category: "1", Date: "2025-03-01"}, ErrInvalidAmount},
		{ExpenseInput{Amount: decimal.NewFromInt(1), Category: " ", Date: "2025-03-01"}, ErrCategoryRequired},
		{ExpenseInput{Amount: decimal.NewFromInt(1), Category: "1"}, ErrDateRequired},
		{ExpenseInput{Amount: decimal.NewFromInt(1), Category: "1", Date: "03/01/2025"}, ErrInvalidDate},
	}
	for i, tc := range bads {
		if err := tc.in.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: err = %v, want %v", i, err, tc.want)
		}
	}
}

func TestCategoryInputNormalizeAndValidate(t *testing.T) {
	in := CategoryInput{Name: "  Groceries  "}.Normalize()
	if in.Name != "Groceries" {
		t.Fatalf("Name = %q, want trimmed", in.Name)
	}
	if in.Icon != DefaultIcon {
		t.Fatalf("Icon = %q, want %q", in.Icon, DefaultIcon)
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("normalized input invalid: %v", err)
	}

	if err := (CategoryInput{Name: "  ", Color: "#000000"}).Validate(); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("blank name err = %v", err)
	}
	if err := (CategoryInput{Name: "x", Color: "red"}).Validate(); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("bad color err = %v", err)
	}
}

func TestBudgetInputValidate(t *testing.T) {
	ok := BudgetInput{Category: "1", Amount: decimal.NewFromInt(100), Period: Monthly}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bad := ok
	bad.Period = "weekly"
	if err := bad.Validate(); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("err = %v, want ErrInvalidPeriod", err)
	}
	if _, err := ParsePeriod("YEARLY"); err != nil {
		t.Fatalf("ParsePeriod upper-case: %v", err)
	}
}

func TestResolveCategoryFallback(t *testing.T) {
	cats := DefaultCategories()
	if got := ResolveCategory(cats, "3"); got.Name != "Housing" {
		t.Fatalf("ResolveCategory(3) = %q, want Housing", got.Name)
	}
	got := ResolveCategory(cats, "gone")
	if got.Name != UncategorizedName || got.Color != FallbackColor || got.ID != "gone" {
		t.Fatalf("fallback = %+v", got)
	}
}

func TestFindCategoryByName(t *testing.T) {
	cats := DefaultCategories()
	c, ok := FindCategory(cats, "health")
	if !ok || c.ID != "7" {
		t.Fatalf("FindCategory(health) = %+v, %v", c, ok)
	}
	if _, ok := FindCategory(cats, "nope"); ok {
		t.Fatal("FindCategory matched an unknown name")
	}
}

func TestDefaultCategoriesAreFreshCopies(t *testing.T) {
	a := DefaultCategories()
	a[0].Name = "mutated"
	if DefaultCategories()[0].Name != "Food & Dining" {
		t.Fatal("DefaultCategories shares backing storage between calls")
	}
	if len(a) != 8 {
		t.Fatalf("len = %d, want 8", len(a))
	}
}
