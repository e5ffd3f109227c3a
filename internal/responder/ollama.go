package responder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ollama/ollama/api"
)

type choice struct {
	Answer string `json:"answer"`
}

// OllamaCompletion calls a local Ollama model. Generation is constrained by a
// JSON schema whose answer field is an enum of the options.
func OllamaCompletion(client *api.Client, model string) CompleteFunc {
	return func(ctx context.Context, prompt string, options []string) (string, error) {
		format, err := choiceSchema(options)
		if err != nil {
			return "", err
		}

		stream := false
		req := &api.GenerateRequest{
			Model:  model,
			Prompt: prompt,
			Stream: &stream,
			Format: format,
			Options: map[string]interface{}{
				"temperature": 0,
			},
		}

		var out strings.Builder
		err = client.Generate(ctx, req, func(resp api.GenerateResponse) error {
			out.WriteString(resp.Response)
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("ollama generate failed: %w", err)
		}

		return parseChoice(out.String()), nil
	}
}

func choiceSchema(options []string) (json.RawMessage, error) {
	schema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"answer": map[string]interface{}{
				"type": "string",
				"enum": options,
			},
		},
		"required": []string{"answer"},
	}

	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answer schema: %w", err)
	}
	return data, nil
}

// parseChoice extracts the answer field, or returns the raw text when the
// model did not produce the expected object.
func parseChoice(raw string) string {
	var c choice
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &c); err != nil || c.Answer == "" {
		return raw
	}
	return c.Answer
}
