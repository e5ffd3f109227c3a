package responder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOllamaServer(t *testing.T, response string, seen *map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"model":    "test-model",
			"response": response,
			"done":     true,
		})
	}))
}

func newTestOllamaClient(t *testing.T, srv *httptest.Server) *api.Client {
	t.Helper()
	base, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return api.NewClient(base, srv.Client())
}

func TestOllamaCompletion(t *testing.T) {
	var seen map[string]interface{}
	srv := newOllamaServer(t, `{"answer": "no"}`, &seen)
	defer srv.Close()

	complete := OllamaCompletion(newTestOllamaClient(t, srv), "test-model")
	answer, err := complete(context.Background(), "Is it good?", []string{"yes", "no"})
	require.NoError(t, err)
	assert.Equal(t, "no", answer)

	assert.Equal(t, "test-model", seen["model"])
	assert.Equal(t, "Is it good?", seen["prompt"])
	assert.Equal(t, false, seen["stream"])

	format, ok := seen["format"].(map[string]interface{})
	require.True(t, ok)
	answerSchema := format["properties"].(map[string]interface{})["answer"].(map[string]interface{})
	assert.Equal(t, []interface{}{"yes", "no"}, answerSchema["enum"])
}

func TestOllamaCompletionRawText(t *testing.T) {
	srv := newOllamaServer(t, "Yes", nil)
	defer srv.Close()

	answer, err := OllamaCompletion(newTestOllamaClient(t, srv), "m")(context.Background(), "p", []string{"yes", "no"})
	require.NoError(t, err)
	assert.Equal(t, "Yes", answer)
}

func TestOllamaCompletionServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "model not loaded"}`))
	}))
	defer srv.Close()

	_, err := OllamaCompletion(newTestOllamaClient(t, srv), "m")(context.Background(), "p", []string{"yes"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama generate failed")
}

func TestParseChoice(t *testing.T) {
	assert.Equal(t, "yes", parseChoice(`{"answer":"yes"}`))
	assert.Equal(t, "yes", parseChoice("  {\"answer\": \"yes\"}\n"))
	assert.Equal(t, `{"other":"x"}`, parseChoice(`{"other":"x"}`))
	assert.Equal(t, "plain", parseChoice("plain"))
}
