// Package template provides a Handlebars template engine for rendering LLM prompts.
//
// The engine supports Handlebars syntax with custom helpers for common operations.
// Prompter wraps the engine with the single question template used by the
// tree classifier.
//
// Example usage:
//
//	engine := template.NewEngine()
//	prompter := template.NewPrompter(engine, template.DefaultPrompt)
//
//	prompt, err := prompter.Prompt("Is this about sports?", "The Lakers won.", []string{"yes", "no"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Templates see the variables question, text and options. Use triple braces
// ({{{text}}}) to avoid HTML escaping of the input text.
//
// Built-in helpers:
//   - uppercase - Convert string to uppercase
//   - lowercase - Convert string to lowercase
//   - trim - Trim whitespace from string
//   - default - Return default value if first arg is empty
//   - eq - Equality comparison
//   - ne - Inequality comparison
//   - contains - Check if string contains substring
//   - join - Join list elements with separator
//   - quoted - Join list elements as quoted strings
//   - len - Get length of list/string/map
//
// Example with helpers:
//
//	{{uppercase question}}                 # "IS THIS ABOUT SPORTS?"
//	{{{join options " | "}}}               # "yes | no"
//	{{{quoted options ", "}}}              # "\"yes\", \"no\""
//	{{#if (eq (len options) 2)}}...{{/if}} # Conditional
package template
