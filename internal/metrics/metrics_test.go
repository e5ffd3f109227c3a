package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aescanero/dago-node-classifier/internal/tree"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordClassification(t *testing.T) {
	c := NewCollector("test", nil)

	c.RecordClassification("sentiment", "positive", 20*time.Millisecond)
	c.RecordClassification("sentiment", "positive", 30*time.Millisecond)
	c.RecordClassification("sentiment", "negative", 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.classifications.WithLabelValues("sentiment", "positive")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.classifications.WithLabelValues("sentiment", "negative")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.duration))
}

func TestRecordFailure(t *testing.T) {
	c := NewCollector("test", nil)

	c.RecordFailure("topic", "backend")

	assert.Equal(t, 1.0, testutil.ToFloat64(c.failures.WithLabelValues("topic", "backend")))
}

func TestHooks(t *testing.T) {
	c := NewCollector("test", nil)
	tr, err := tree.NewTree(tree.TreeConfig{
		Name: "ab",
		Root: tree.Question("Q",
			tree.Option("a", tree.Label("A")),
			tree.Option("b", tree.Label("B")),
		),
	})
	require.NoError(t, err)

	engine := tree.NewEngine(tree.WithHooks(c.Hooks()))
	answer := func(a string) tree.ResponderFunc {
		return func(context.Context, string, []string) (string, error) { return a, nil }
	}

	_, err = engine.Walk(context.Background(), tr, "text", answer("b"))
	require.NoError(t, err)
	_, err = engine.Walk(context.Background(), tr, "text", answer("nonsense"))
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.steps.WithLabelValues("ab")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fallbacks.WithLabelValues("ab")))
}

func TestHooksForFixedLabel(t *testing.T) {
	c := NewCollector("test", nil)
	tr, err := tree.NewTree(tree.TreeConfig{
		Name: "request-supplied",
		Root: tree.Question("Q", tree.Option("a", tree.Label("A"))),
	})
	require.NoError(t, err)

	engine := tree.NewEngine(tree.WithHooks(c.HooksFor(InlineTree)))
	_, err = engine.Walk(context.Background(), tr, "text", tree.ResponderFunc(func(context.Context, string, []string) (string, error) {
		return "z", nil
	}))
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.steps.WithLabelValues(InlineTree)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fallbacks.WithLabelValues(InlineTree)))
	assert.Equal(t, 1, testutil.CollectAndCount(c.steps))
}

func TestSharedRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollector("", registry)

	assert.Same(t, registry, c.Registry())

	c.RecordFailure("t", "other")
	families, err := registry.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
	assert.Equal(t, "tree_classifier_failures_total", families[0].GetName())
}

func TestHandler(t *testing.T) {
	c := NewCollector("test", nil)
	c.RecordClassification("sentiment", "positive", time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `test_classifications_total{label="positive",tree="sentiment"} 1`)
}
