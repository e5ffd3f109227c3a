package responder

import (
	"errors"
	"testing"
	"time"

	"github.com/aescanero/dago-node-classifier/internal/config"
	"github.com/aescanero/dago-node-classifier/internal/eval/cel"
	"github.com/aescanero/dago-node-classifier/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(kind string) *config.Config {
	return &config.Config{
		Responder:    kind,
		RulesEnabled: false,
		LLMProvider:  "anthropic",
		LLMModel:     "test-model",
		LLMTimeout:   time.Second,
		LLMMaxTokens: 16,
		MaxRetries:   2,
	}
}

func TestNewFirst(t *testing.T) {
	r, err := New(testConfig(config.ResponderFirst), nil, nil)
	require.NoError(t, err)
	assert.IsType(t, First{}, r)
}

func TestNewRules(t *testing.T) {
	r, err := New(testConfig(config.ResponderRules), sentimentRules(), nil)
	require.NoError(t, err)
	assert.IsType(t, &Rules{}, r)

	_, err = New(testConfig(config.ResponderRules), []cel.Rule{{When: "1", Answer: "a"}}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tree.ErrInvalidConfig))
}

func TestNewHybridWhenRulesEnabled(t *testing.T) {
	cfg := testConfig(config.ResponderFirst)
	cfg.RulesEnabled = true

	r, err := New(cfg, sentimentRules(), nil)
	require.NoError(t, err)
	assert.IsType(t, &Hybrid{}, r)

	// Without rules there is nothing to put in front.
	r, err = New(cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, First{}, r)
}

func TestNewModelBacked(t *testing.T) {
	cfg := testConfig(config.ResponderOllama)
	cfg.OllamaHost = "http://localhost:11434"
	r, err := New(cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &Retry{}, r)

	cfg = testConfig(config.ResponderOpenAI)
	cfg.LLMBaseURL = "http://localhost:8080/v1"
	r, err = New(cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &Retry{}, r)
}

func TestNewMissingCredentials(t *testing.T) {
	_, err := New(testConfig(config.ResponderLLM), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_API_KEY")

	_, err = New(testConfig(config.ResponderOpenAI), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_API_KEY")
}

func TestNewInvalidOllamaHost(t *testing.T) {
	cfg := testConfig(config.ResponderOllama)
	cfg.OllamaHost = "://bad"

	_, err := New(cfg, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OLLAMA_HOST")
}

func TestNewUnknown(t *testing.T) {
	_, err := New(testConfig("oracle"), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown responder")
}
