package tree

import (
	"fmt"
)

// NodeConfig is the configuration record of a single node. Exactly one of Label
// and Question must be set; a question also needs at least one option.
type NodeConfig struct {
	Label    *string        `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
	Question *string        `json:"question,omitempty" yaml:"question,omitempty" mapstructure:"question"`
	Options  []OptionConfig `json:"options,omitempty" yaml:"options,omitempty" mapstructure:"options"`
}

// OptionConfig is one labeled branch of a question node.
type OptionConfig struct {
	Value string      `json:"value" yaml:"value" mapstructure:"value"`
	Next  *NodeConfig `json:"next" yaml:"next" mapstructure:"next"`
}

// TreeConfig is the configuration record of a named tree.
type TreeConfig struct {
	Name string      `json:"name" yaml:"name" mapstructure:"name"`
	Root *NodeConfig `json:"root" yaml:"root" mapstructure:"root"`
}

// Node is either a *QuestionNode or a *TerminalNode.
type Node interface {
	isNode()
}

// QuestionNode is a decision point answered by a Responder.
type QuestionNode struct {
	Question string
	Branches []Branch
}

// Branch is a labeled edge from a question to its child node.
type Branch struct {
	Value string
	Next  Node
}

// TerminalNode carries the classification label.
type TerminalNode struct {
	Label string
}

func (*QuestionNode) isNode() {}
func (*TerminalNode) isNode() {}

// Values returns the branch values in declaration order.
func (q *QuestionNode) Values() []string {
	values := make([]string, len(q.Branches))
	for i, b := range q.Branches {
		values[i] = b.Value
	}
	return values
}

// branch returns the child for value, or the first child when nothing matches.
func (q *QuestionNode) branch(value string) (Branch, bool) {
	for _, b := range q.Branches {
		if b.Value == value {
			return b, true
		}
	}
	return q.Branches[0], false
}

// IsTerminal reports whether n carries a label.
func IsTerminal(n Node) bool {
	_, ok := n.(*TerminalNode)
	return ok
}

// Label is a convenience constructor for terminal node configs.
func Label(label string) *NodeConfig {
	return &NodeConfig{Label: &label}
}

// Question is a convenience constructor for question node configs.
func Question(question string, options ...OptionConfig) *NodeConfig {
	return &NodeConfig{Question: &question, Options: options}
}

// Option is a convenience constructor for a branch config.
func Option(value string, next *NodeConfig) OptionConfig {
	return OptionConfig{Value: value, Next: next}
}

// BuildNode validates cfg and every node below it and returns the built subtree.
func BuildNode(cfg NodeConfig) (Node, error) {
	return buildNode(&cfg, "root")
}

func buildNode(cfg *NodeConfig, path string) (Node, error) {
	if cfg == nil {
		return nil, configErrorf(path, "node is missing")
	}

	switch {
	case cfg.Label != nil && cfg.Question != nil:
		return nil, configErrorf(path, "node cannot have both a question and a label")
	case cfg.Label == nil && cfg.Question == nil:
		return nil, configErrorf(path, "node must have either a question or a label")
	}

	if cfg.Label != nil {
		if *cfg.Label == "" {
			return nil, configErrorf(path, "label must not be empty")
		}
		if len(cfg.Options) > 0 {
			return nil, configErrorf(path, "terminal node cannot have options")
		}
		return &TerminalNode{Label: *cfg.Label}, nil
	}

	if *cfg.Question == "" {
		return nil, configErrorf(path, "question must not be empty")
	}
	if len(cfg.Options) == 0 {
		return nil, configErrorf(path, "question node must have options")
	}

	node := &QuestionNode{
		Question: *cfg.Question,
		Branches: make([]Branch, 0, len(cfg.Options)),
	}
	seen := make(map[string]struct{}, len(cfg.Options))

	for i, opt := range cfg.Options {
		optPath := fmt.Sprintf("%s.options[%d]", path, i)

		if opt.Value == "" {
			return nil, configErrorf(optPath, "option value must not be empty")
		}
		if _, dup := seen[opt.Value]; dup {
			return nil, configErrorf(optPath, "duplicate option value %q", opt.Value)
		}
		seen[opt.Value] = struct{}{}

		next, err := buildNode(opt.Next, optPath+".next")
		if err != nil {
			return nil, err
		}
		node.Branches = append(node.Branches, Branch{Value: opt.Value, Next: next})
	}

	return node, nil
}

// depth counts question nodes on the longest root-to-leaf path.
func depth(n Node) int {
	q, ok := n.(*QuestionNode)
	if !ok {
		return 0
	}
	deepest := 0
	for _, b := range q.Branches {
		if d := depth(b.Next); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}
