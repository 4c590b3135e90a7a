// Package manifest reads and writes package.json files.
//
// Only name, version and scripts are interpreted. Every other top-level
// field is kept verbatim and in its original order when the file is written.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileName is the manifest file name inside a package directory.
const FileName = "package.json"

const indent = "  "

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// field is one top-level key with its raw JSON value.
type field struct {
	key   string
	value json.RawMessage
}

// Package is a parsed package.json.
type Package struct {
	Name    string
	Version string
	Scripts map[string]string

	fields []field
}

// PathIn returns the manifest path inside dir.
func PathIn(dir string) string {
	return filepath.Join(dir, FileName)
}

// Read parses the manifest at path.
func Read(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading package file: %w", err)
	}

	pkg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing package file %s: %w", path, err)
	}
	return pkg, nil
}

// Parse decodes a manifest. The name and version fields are required strings.
func Parse(data []byte) (*Package, error) {
	dec := json.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("manifest must be a JSON object")
	}

	pkg := &Package{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decoding manifest key: %w", err)
		}
		key, _ := keyTok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decoding manifest field %q: %w", key, err)
		}
		pkg.fields = append(pkg.fields, field{key: key, value: value})

		if err := pkg.interpret(key, value); err != nil {
			return nil, err
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after manifest object")
	}

	if !pkg.has("name") {
		return nil, errors.New(`manifest field "name" is required`)
	}
	if !pkg.has("version") {
		return nil, errors.New(`manifest field "version" is required`)
	}
	return pkg, nil
}

// interpret decodes the fields the release pipeline reads.
func (p *Package) interpret(key string, value json.RawMessage) error {
	var target any
	switch key {
	case "name":
		target = &p.Name
	case "version":
		target = &p.Version
	case "scripts":
		target = &p.Scripts
	default:
		return nil
	}

	if err := json.Unmarshal(value, target); err != nil {
		return fmt.Errorf("manifest field %q: %w", key, err)
	}
	return nil
}

func (p *Package) has(key string) bool {
	for _, f := range p.fields {
		if f.key == key {
			return true
		}
	}
	return false
}

// HasScript reports whether the manifest defines a non-empty script.
func (p *Package) HasScript(name string) bool {
	return p.Scripts[name] != ""
}

// SetVersion updates the version field in place.
func (p *Package) SetVersion(version string) {
	p.Version = version

	raw, _ := json.Marshal(version)
	for i, f := range p.fields {
		if f.key == "version" {
			p.fields[i].value = raw
			return
		}
	}
	p.fields = append(p.fields, field{key: "version", value: raw})
}

// MarshalJSON renders the manifest with two-space indentation, preserving
// field order.
func (p *Package) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, f := range p.fields {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n" + indent)

		key, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteString(": ")

		if err := json.Indent(&buf, f.value, indent, indent); err != nil {
			return nil, fmt.Errorf("formatting field %q: %w", f.key, err)
		}
	}
	if len(p.fields) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}")
	return buf.Bytes(), nil
}

// Write renders the manifest to path, keeping the existing file mode.
func Write(path string, pkg *Package) error {
	data, err := pkg.MarshalJSON()
	if err != nil {
		return fmt.Errorf("rendering package file: %w", err)
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	if err := os.WriteFile(path, append(data, '\n'), mode); err != nil {
		return fmt.Errorf("writing package file: %w", err)
	}
	return nil
}
