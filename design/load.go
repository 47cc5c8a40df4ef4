package design

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadTreeFromYAML loads an elaborated design tree from a YAML file, the
// same on-disk convention core/program.go uses to load PE programs in
// the reference design-tool stack, standing in for the externally
// produced elaborated syntax tree.
func LoadTreeFromYAML(path string) (Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tree{}, fmt.Errorf("design: read %s: %w", path, err)
	}
	return ParseTree(data)
}

// ParseTree parses a design tree from raw YAML bytes.
func ParseTree(data []byte) (Tree, error) {
	var t Tree
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tree{}, fmt.Errorf("design: parse: %w", err)
	}
	return t, nil
}
