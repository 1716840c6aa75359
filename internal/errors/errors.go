// SPDX-License-Identifier: AGPL-3.0-or-later

// Package errors defines the small, fatal-only error taxonomy used by
// quotezd's startup path. Every kind carries a short title, a longer
// detail string, and an actionable hint, so a human operator can fix
// the problem without reading source.
package errors

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// ConfigError reports a fatal problem with the configuration file:
// a missing required field, a malformed value, or an invalid enum.
type ConfigError struct {
	Title  string
	Detail string
	Hint   string
	Cause  error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Title, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// NewConfigError builds a ConfigError.
func NewConfigError(title, detail, hint string, cause error) *ConfigError {
	return &ConfigError{Title: title, Detail: detail, Hint: hint, Cause: cause}
}

// BindError reports a fatal failure binding the TCP or UDP listening socket.
type BindError struct {
	Title  string
	Detail string
	Hint   string
	Cause  error
}

func (e *BindError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Title, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

func (e *BindError) Unwrap() error { return e.Cause }

// NewBindError builds a BindError.
func NewBindError(title, detail, hint string, cause error) *BindError {
	return &BindError{Title: title, Detail: detail, Hint: hint, Cause: cause}
}

// InternalError reports a condition that should never happen — a bug,
// not a user mistake.
type InternalError struct {
	Title  string
	Detail string
	Hint   string
	Cause  error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Title, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

func (e *InternalError) Unwrap() error { return e.Cause }

// NewInternalError builds an InternalError.
func NewInternalError(title, detail, hint string, cause error) *InternalError {
	return &InternalError{Title: title, Detail: detail, Hint: hint, Cause: cause}
}

// hintOf extracts title/detail/hint from any of the three kinds above,
// falling back to the bare error string for anything else.
func hintOf(err error) (title, detail, hint string) {
	switch e := err.(type) {
	case *ConfigError:
		return e.Title, e.Detail, e.Hint
	case *BindError:
		return e.Title, e.Detail, e.Hint
	case *InternalError:
		return e.Title, e.Detail, e.Hint
	default:
		return "Fatal error", err.Error(), ""
	}
}

// FatalError logs a single structured error line describing err and
// exits the process with status 1. It never returns.
func FatalError(err error, jsonOutput bool) {
	title, detail, hint := hintOf(err)
	var cause error
	if u, ok := err.(interface{ Unwrap() error }); ok {
		cause = u.Unwrap()
	}

	if jsonOutput {
		payload := map[string]string{"error": title, "detail": detail}
		if hint != "" {
			payload["hint"] = hint
		}
		if cause != nil {
			payload["cause"] = cause.Error()
		}
		enc, _ := json.Marshal(payload)
		fmt.Fprintln(os.Stderr, string(enc))
	} else {
		attrs := []any{"detail", detail}
		if hint != "" {
			attrs = append(attrs, "hint", hint)
		}
		if cause != nil {
			attrs = append(attrs, "cause", cause.Error())
		}
		slog.Error(title, attrs...)
	}
	os.Exit(1)
}
