package template

import (
	"fmt"
)

// DefaultPrompt lists the option set verbatim so the model sees exactly the
// values the tree will match against.
const DefaultPrompt = `You are a decision maker. Choose one of the following options:
{{{join options ", "}}}

Text: {{{text}}}

Question: {{{question}}}
Answer:`

// Prompter renders question prompts from a single template.
// Templates see three variables: question, text and options.
type Prompter struct {
	engine   *Engine
	template string
}

// NewPrompter creates a prompter. An empty template selects DefaultPrompt.
func NewPrompter(engine *Engine, template string) *Prompter {
	if template == "" {
		template = DefaultPrompt
	}
	return &Prompter{engine: engine, template: template}
}

// ParsePrompter creates a prompter and checks that the template compiles.
func ParsePrompter(engine *Engine, template string) (*Prompter, error) {
	p := NewPrompter(engine, template)
	if err := engine.ValidateTemplate(p.template); err != nil {
		return nil, fmt.Errorf("invalid prompt template: %w", err)
	}
	return p, nil
}

// Prompt renders the prompt for one question.
func (p *Prompter) Prompt(question, text string, options []string) (string, error) {
	prompt, err := p.engine.Render(p.template, map[string]interface{}{
		"question": question,
		"text":     text,
		"options":  options,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return prompt, nil
}
