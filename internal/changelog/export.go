package changelog

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// RenderYAML writes the sections as a YAML sequence.
func RenderYAML(sections []Section, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if sections == nil {
		sections = []Section{}
	}
	if err := enc.Encode(sections); err != nil {
		return fmt.Errorf("encoding changelog YAML: %w", err)
	}
	return enc.Close()
}
