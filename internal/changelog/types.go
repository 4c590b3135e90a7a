package changelog

import (
	"maps"

	"github.com/glitch452/easy-npm-publish/internal/commit"
)

// Section is one titled group of commits sharing a conventional-commit type.
// Entries keep the order in which the commits were first seen in history.
type Section struct {
	Type    string              `yaml:"type"`
	Title   string              `yaml:"title"`
	Entries []commit.Classified `yaml:"entries"`
}

// defaultTitles covers every default-configured type plus the common
// conventional-commit types.
var defaultTitles = map[string]string{
	"feat":     "Features",
	"fix":      "Bug Fixes",
	"perf":     "Performance Improvements",
	"revert":   "Reverts",
	"docs":     "Documentation",
	"style":    "Styles",
	"refactor": "Code Refactoring",
	"test":     "Tests",
	"build":    "Build System",
	"ci":       "Continuous Integration",
	"chore":    "Miscellaneous Chores",
}

// DefaultTitles returns a copy of the built-in type to title mapping.
func DefaultTitles() map[string]string {
	return maps.Clone(defaultTitles)
}

// TitleMap maps commit types to section titles. It is immutable once built;
// construct it once per run with NewTitleMap and pass it by value.
type TitleMap struct {
	titles map[string]string
}

// NewTitleMap merges overrides on top of the built-in titles. An override
// replaces the default for the same type.
func NewTitleMap(overrides map[string]string) TitleMap {
	titles := DefaultTitles()
	maps.Copy(titles, overrides)
	return TitleMap{titles: titles}
}

// Title returns the configured title for a type, or the type itself when no
// title is configured.
func (m TitleMap) Title(typ string) string {
	if title, ok := m.titles[typ]; ok {
		return title
	}
	return typ
}
