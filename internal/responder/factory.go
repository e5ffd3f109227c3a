package responder

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/aescanero/dago-adapters/pkg/llm"
	"github.com/aescanero/dago-node-classifier/internal/config"
	"github.com/aescanero/dago-node-classifier/internal/eval/cel"
	"github.com/aescanero/dago-node-classifier/internal/tree"
	"github.com/ollama/ollama/api"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// New builds the responder selected by cfg.Responder. Model-backed responders
// are wrapped with retries; when rules are enabled they are consulted first.
func New(cfg *config.Config, rules []cel.Rule, logger *zap.Logger) (tree.Responder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var base tree.Responder

	switch cfg.Responder {
	case config.ResponderFirst:
		base = First{}

	case config.ResponderRules:
		r, err := NewRules(rules, logger)
		if err != nil {
			return nil, err
		}
		return r, nil

	case config.ResponderLLM, config.ResponderOllama, config.ResponderOpenAI:
		complete, err := newCompletion(cfg, logger)
		if err != nil {
			return nil, err
		}
		llmResponder := NewLLM(cfg.Responder, complete, cfg.LLMTimeout, logger)
		base = NewRetry(llmResponder, cfg.MaxRetries, logger)

	default:
		return nil, fmt.Errorf("unknown responder: %s", cfg.Responder)
	}

	if cfg.RulesEnabled && len(rules) > 0 {
		r, err := NewRules(rules, logger)
		if err != nil {
			return nil, err
		}
		return NewHybrid(r, base, logger), nil
	}

	return base, nil
}

func newCompletion(cfg *config.Config, logger *zap.Logger) (CompleteFunc, error) {
	switch cfg.Responder {
	case config.ResponderLLM:
		if cfg.LLMAPIKey == "" {
			return nil, fmt.Errorf("LLM_API_KEY is required for the llm responder")
		}
		client, err := llm.NewClient(&llm.Config{
			Provider: cfg.LLMProvider,
			APIKey:   cfg.LLMAPIKey,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize llm client: %w", err)
		}
		return AdapterCompletion(client, cfg.LLMModel, cfg.LLMMaxTokens), nil

	case config.ResponderOllama:
		client, err := newOllamaClient(cfg.OllamaHost)
		if err != nil {
			return nil, err
		}
		return OllamaCompletion(client, cfg.LLMModel), nil

	case config.ResponderOpenAI:
		if cfg.LLMAPIKey == "" && cfg.LLMBaseURL == "" {
			return nil, fmt.Errorf("LLM_API_KEY or LLM_BASE_URL is required for the openai responder")
		}
		clientConfig := openai.DefaultConfig(cfg.LLMAPIKey)
		if cfg.LLMBaseURL != "" {
			clientConfig.BaseURL = cfg.LLMBaseURL
		}
		return OpenAICompletion(openai.NewClientWithConfig(clientConfig), cfg.LLMModel, cfg.LLMMaxTokens), nil
	}

	return nil, fmt.Errorf("responder %s is not model-backed", cfg.Responder)
}

func newOllamaClient(host string) (*api.Client, error) {
	if host == "" {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ollama client: %w", err)
		}
		return client, nil
	}

	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_HOST %q: %w", host, err)
	}
	return api.NewClient(base, http.DefaultClient), nil
}
