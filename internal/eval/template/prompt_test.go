package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPrompt(t *testing.T) {
	p := NewPrompter(NewEngine(), "")

	prompt, err := p.Prompt("Is the text positive?", "I <3 \"this\" & that", []string{"yes", "no"})
	require.NoError(t, err)

	want := "You are a decision maker. Choose one of the following options:\n" +
		"yes, no\n\n" +
		"Text: I <3 \"this\" & that\n\n" +
		"Question: Is the text positive?\n" +
		"Answer:"
	assert.Equal(t, want, prompt)
}

func TestCustomPrompt(t *testing.T) {
	p, err := ParsePrompter(NewEngine(), `{{question}} [{{{quoted options "|"}}}] {{{text}}}`)
	require.NoError(t, err)

	prompt, err := p.Prompt("Q?", "some text", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, `Q? ["a"|"b"] some text`, prompt)
}

func TestParsePrompterInvalid(t *testing.T) {
	_, err := ParsePrompter(NewEngine(), "{{#if question}}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid prompt template")
}
