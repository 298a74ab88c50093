// Package icon maps category icon names to terminal glyphs.
package icon

import "sort"

// Default is rendered for any name not in the table.
const Default = "•"

var glyphs = map[string]string{
	"tag":             "◆",
	"shopping-bag":    "▣",
	"home":            "⌂",
	"car":             "▶",
	"utensils":        "¥",
	"film":            "▤",
	"coffee":          "☕",
	"gift":            "✚",
	"heart":           "♥",
	"gym":             "▲",
	"plane":           "✈",
	"bus":             "▦",
	"plug":            "⚡",
	"smartphone":      "▯",
	"more-horizontal": "…",
	"help-circle":     "?",
}

// Glyph returns the glyph for name, or Default when the name is unknown.
func Glyph(name string) string {
	if g, ok := glyphs[name]; ok {
		return g
	}
	return Default
}

// Known reports whether name has a dedicated glyph.
func Known(name string) bool {
	_, ok := glyphs[name]
	return ok
}

// Names returns every known icon name, sorted.
func Names() []string {
	names := make([]string, 0, len(glyphs))
	for n := range glyphs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
