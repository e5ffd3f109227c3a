package tree

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sentimentJSON = `{
	"name": "sentiment",
	"root": {
		"question": "Is the text positive?",
		"options": [
			{"value": "yes", "next": {"label": "positive"}},
			{"value": "no", "next": {
				"question": "Is it negative?",
				"options": [
					{"value": "yes", "next": {"label": "negative"}},
					{"value": "no", "next": {"label": "neutral"}}
				]
			}}
		]
	}
}`

func TestDecodeTrees(t *testing.T) {
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(sentimentJSON), &raw))

	configs, err := DecodeTrees([]any{raw})
	require.NoError(t, err)
	require.Len(t, configs, 1)

	tr, err := NewTree(configs[0])
	require.NoError(t, err)
	assert.Equal(t, "sentiment", tr.Name)
	assert.Equal(t, 2, tr.Depth())

	label, err := tr.Classify(context.Background(), "meh", fixed("no"))
	require.NoError(t, err)
	assert.Equal(t, "neutral", label)
}

func TestDecodeNode(t *testing.T) {
	cfg, err := DecodeNode(map[string]any{"label": "yes"})
	require.NoError(t, err)
	require.NotNil(t, cfg.Label)
	assert.Equal(t, "yes", *cfg.Label)
	assert.Nil(t, cfg.Question)

	// Decoding keeps empty nodes so that building reports them.
	cfg, err = DecodeNode(map[string]any{})
	require.NoError(t, err)
	_, err = BuildNode(cfg)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := DecodeNode(map[string]any{"label": "yes", "colour": "red"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = DecodeTrees([]any{map[string]any{"name": "t", "roots": map[string]any{}}})
	require.Error(t, err)

	var ce *ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "trees[0]", ce.Path)
}

func TestDecodeRejectsWrongTypes(t *testing.T) {
	_, err := DecodeNode(map[string]any{"options": "not a list"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}
