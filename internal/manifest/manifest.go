// Package manifest reads and writes ivy.yaml, the optional project
// file naming a package and, when a directory holds more than one
// .ivy file, which one is the entry point.
//
// Grounded on the teacher's main.go tawaModule/"Tawa Module
// Information" pattern: a small YAML-tagged struct marshaled with
// gopkg.in/yaml.v2, the same library the teacher depends on.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// FileName is the manifest's conventional name within a project
// directory, the Ivy analog of the teacher's "Tawa Module
// Information".
const FileName = "ivy.yaml"

// Manifest is the parsed contents of an ivy.yaml file.
type Manifest struct {
	Package string `yaml:"package"`
	Entry   string `yaml:"entry,omitempty"`
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: reading %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: parsing %s: %w", path, err)
	}
	if m.Package == "" {
		return nil, fmt.Errorf("manifest: %s has no package name", path)
	}
	return &m, nil
}

// Write marshals m and writes it to path, creating or truncating it.
func Write(path string, m *Manifest) error {
	out, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("manifest: encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("manifest: writing %s: %w", path, err)
	}
	return nil
}
