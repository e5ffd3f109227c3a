package responder

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompletion calls an OpenAI-compatible chat completion endpoint
// (OpenAI, a llama.cpp server, vLLM).
func OpenAICompletion(client *openai.Client, model string, maxTokens int) CompleteFunc {
	return func(ctx context.Context, prompt string, _ []string) (string, error) {
		resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   maxTokens,
			Temperature: 0,
		})
		if err != nil {
			return "", fmt.Errorf("chat completion failed: %w", err)
		}

		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("chat completion returned no choices")
		}

		return resp.Choices[0].Message.Content, nil
	}
}
