package responder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aescanero/dago-node-classifier/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMRespondNormalizes(t *testing.T) {
	var gotPrompt string
	var gotOptions []string
	complete := func(_ context.Context, prompt string, options []string) (string, error) {
		gotPrompt, gotOptions = prompt, options
		return " Yes.\n", nil
	}

	r := NewLLM("test", complete, 0, nil)
	answer, err := r.Respond(context.Background(), "prompt", []string{"yes", "no"})
	require.NoError(t, err)

	assert.Equal(t, "yes", answer)
	assert.Equal(t, "prompt", gotPrompt)
	assert.Equal(t, []string{"yes", "no"}, gotOptions)
}

func TestLLMRespondUnmatchedReturnsRaw(t *testing.T) {
	complete := func(context.Context, string, []string) (string, error) {
		return "  I cannot decide  ", nil
	}

	answer, err := NewLLM("test", complete, 0, nil).Respond(context.Background(), "p", []string{"yes", "no"})
	require.NoError(t, err)
	assert.Equal(t, "I cannot decide", answer)
}

func TestLLMRespondBackendError(t *testing.T) {
	cause := errors.New("connection refused")
	complete := func(context.Context, string, []string) (string, error) {
		return "", cause
	}

	_, err := NewLLM("ollama", complete, 0, nil).Respond(context.Background(), "p", []string{"yes"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, tree.ErrBackend))
	assert.ErrorIs(t, err, cause)

	var be *tree.BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "ollama", be.Responder)
}

func TestLLMRespondTimeout(t *testing.T) {
	complete := func(ctx context.Context, _ string, _ []string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}

	_, err := NewLLM("slow", complete, 10*time.Millisecond, nil).Respond(context.Background(), "p", []string{"yes"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, tree.ErrBackend))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLLMInTree(t *testing.T) {
	tr, err := tree.NewTree(tree.TreeConfig{
		Name: "sentiment",
		Root: tree.Question("Is the text positive?",
			tree.Option("yes", tree.Label("positive")),
			tree.Option("no", tree.Label("negative")),
		),
	})
	require.NoError(t, err)

	complete := func(context.Context, string, []string) (string, error) {
		return "NO", nil
	}

	label, err := tr.Classify(context.Background(), "terrible", NewLLM("test", complete, time.Second, nil))
	require.NoError(t, err)
	assert.Equal(t, "negative", label)
}
