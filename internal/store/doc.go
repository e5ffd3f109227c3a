// Package store persists classification results in Redis, keyed by request ID,
// so callers that missed the result stream can still fetch a decision.
package store
