package tree

import (
	"fmt"
	"sort"
)

// Registry holds named trees loaded from one configuration.
type Registry struct {
	trees map[string]*Tree
	order []string
}

// NewRegistry builds and validates every tree in configs. A malformed tree or a
// duplicate name fails the whole registry.
func NewRegistry(configs []TreeConfig) (*Registry, error) {
	if len(configs) == 0 {
		return nil, configErrorf("trees", "no trees found in configuration")
	}

	r := &Registry{
		trees: make(map[string]*Tree, len(configs)),
		order: make([]string, 0, len(configs)),
	}

	for i, cfg := range configs {
		t, err := NewTree(cfg)
		if err != nil {
			return nil, prefixConfigError(fmt.Sprintf("trees[%d]", i), err)
		}
		if _, dup := r.trees[t.Name]; dup {
			return nil, configErrorf(fmt.Sprintf("trees[%d].name", i), "duplicate tree name %q", t.Name)
		}
		r.trees[t.Name] = t
		r.order = append(r.order, t.Name)
	}

	return r, nil
}

// Select resolves the tree for a classification request. An empty name selects
// the only tree, and is ambiguous when the registry holds more than one.
func (r *Registry) Select(name string) (*Tree, error) {
	if name != "" {
		t, ok := r.trees[name]
		if !ok {
			return nil, &TreeNotFoundError{Name: name, Available: r.Names()}
		}
		return t, nil
	}

	if len(r.order) == 1 {
		return r.trees[r.order[0]], nil
	}

	return nil, configErrorf("", "multiple trees found, a tree name is required (available: %v)", r.Names())
}

// Get returns the named tree.
func (r *Registry) Get(name string) (*Tree, bool) {
	t, ok := r.trees[name]
	return t, ok
}

// Names returns the tree names sorted alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	sort.Strings(names)
	return names
}

// Trees returns the trees in definition order.
func (r *Registry) Trees() []*Tree {
	trees := make([]*Tree, len(r.order))
	for i, name := range r.order {
		trees[i] = r.trees[name]
	}
	return trees
}

// Len returns the number of trees.
func (r *Registry) Len() int {
	return len(r.order)
}

func prefixConfigError(prefix string, err error) error {
	ce, ok := err.(*ConfigError)
	if !ok {
		return err
	}
	path := prefix
	if ce.Path != "" {
		path = prefix + "." + ce.Path
	}
	return &ConfigError{Path: path, Reason: ce.Reason}
}
