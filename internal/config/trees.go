package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aescanero/dago-node-classifier/internal/eval/cel"
	"github.com/aescanero/dago-node-classifier/internal/tree"
	"gopkg.in/yaml.v3"
)

// TreeFile is the parsed content of a tree configuration file.
type TreeFile struct {
	Trees []tree.TreeConfig `yaml:"trees"`
	Rules []cel.Rule        `yaml:"rules,omitempty"`
}

// LoadTrees reads a YAML (or JSON) tree file and builds its registry.
func LoadTrees(path string) (*TreeFile, *tree.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read tree file %q: %w", path, err)
	}

	file, err := ParseTrees(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load tree file %q: %w", path, err)
	}

	registry, err := tree.NewRegistry(file.Trees)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load tree file %q: %w", path, err)
	}

	return file, registry, nil
}

// ParseTrees decodes a tree file. Unknown keys are rejected so that a typo
// cannot silently drop part of a tree.
func ParseTrees(data []byte) (*TreeFile, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var file TreeFile
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &tree.ConfigError{Path: "trees", Reason: "configuration is empty"}
		}
		return nil, &tree.ConfigError{Reason: fmt.Sprintf("failed to parse yaml: %v", err)}
	}

	return &file, nil
}
