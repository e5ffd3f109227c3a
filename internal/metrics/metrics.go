package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/aescanero/dago-node-classifier/internal/tree"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tree label values used in place of names that do not come from the
// configured registry.
const (
	UnknownTree = "unknown"
	InlineTree  = "inline"
)

// Collector records classifier metrics on its own Prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	classifications *prometheus.CounterVec
	fallbacks       *prometheus.CounterVec
	failures        *prometheus.CounterVec
	steps           *prometheus.CounterVec
	duration        *prometheus.HistogramVec
}

// NewCollector creates and registers the classifier metrics. If registry is nil
// a fresh registry is created.
func NewCollector(namespace string, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = "tree_classifier"
	}

	c := &Collector{
		registry: registry,
		classifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "classifications_total",
				Help:      "Completed classifications by tree and label",
			},
			[]string{"tree", "label"},
		),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fallbacks_total",
				Help:      "Answers outside the option set that followed the first branch",
			},
			[]string{"tree"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "failures_total",
				Help:      "Classifications that returned an error",
			},
			[]string{"tree", "reason"},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "questions_total",
				Help:      "Questions answered by the responder",
			},
			[]string{"tree"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "classification_duration_seconds",
				Help:      "Time spent walking a tree, responder calls included",
				// Optimized for LLM latencies (10ms - 60s)
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"tree"},
		),
	}

	registry.MustRegister(c.classifications, c.fallbacks, c.failures, c.steps, c.duration)

	return c
}

// RecordClassification records a successful classification.
func (c *Collector) RecordClassification(treeName, label string, duration time.Duration) {
	c.classifications.WithLabelValues(treeName, label).Inc()
	c.duration.WithLabelValues(treeName).Observe(duration.Seconds())
}

// RecordFailure records a classification error. reason is "config",
// "not_found", "backend" or "other".
func (c *Collector) RecordFailure(treeName, reason string) {
	c.failures.WithLabelValues(treeName, reason).Inc()
}

// Hooks returns traversal hooks that count questions and fallbacks per tree.
func (c *Collector) Hooks() tree.Hooks {
	return c.HooksFor("")
}

// HooksFor returns traversal hooks that count every walk under the fixed tree
// label treeLabel. An empty treeLabel uses the walked tree's name.
func (c *Collector) HooksFor(treeLabel string) tree.Hooks {
	label := func(e tree.StepEvent) string {
		if treeLabel != "" {
			return treeLabel
		}
		return e.Tree
	}
	return tree.Hooks{
		OnStep: func(_ context.Context, e tree.StepEvent) {
			c.steps.WithLabelValues(label(e)).Inc()
		},
		OnFallback: func(_ context.Context, e tree.StepEvent) {
			c.fallbacks.WithLabelValues(label(e)).Inc()
		},
	}
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
