// Package changelog groups classified commits into titled sections and renders
// them as a release body.
//
// This package implements:
//   - Section building: one section per conventional-commit type, major types first
//   - Title mapping: built-in titles merged with user overrides
//   - Markdown rendering for release notes
//   - Terminal rendering with colors for CLI previews
//   - YAML export for machine consumption
package changelog
