package tree

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for tree configuration, selection and traversal.
var (
	ErrInvalidConfig = errors.New("invalid tree config")
	ErrTreeNotFound  = errors.New("tree not found")
	ErrBackend       = errors.New("responder backend failed")
)

// ConfigError reports a malformed or ambiguous tree or registry configuration.
// Path locates the offending node, e.g. "root.options[1].next".
type ConfigError struct {
	Path   string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidConfig, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfig, e.Path, e.Reason)
}

// Is matches ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

func configErrorf(path, format string, args ...any) *ConfigError {
	return &ConfigError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// TreeNotFoundError is returned when a requested tree name is absent from a registry.
type TreeNotFoundError struct {
	Name      string
	Available []string
}

func (e *TreeNotFoundError) Error() string {
	return fmt.Sprintf("tree %q not found, available trees: [%s]", e.Name, strings.Join(e.Available, ", "))
}

// Is matches ErrTreeNotFound.
func (e *TreeNotFoundError) Is(target error) bool {
	return target == ErrTreeNotFound
}

// BackendError wraps a failure of the decision mechanism behind a Responder.
// Responder implementations return it; the traversal engine passes it through untouched.
type BackendError struct {
	Responder string
	Err       error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s responder failed: %v", e.Responder, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Is matches ErrBackend.
func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}
