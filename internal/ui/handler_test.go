// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelColorHandler_WritesMessageAndAttrs(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	h := NewLevelColorHandler(&buf, slog.LevelInfo)
	logger := slog.New(h)

	logger.Info("config.loaded", "mode", "random", "tcp_port", 17)

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "config.loaded")
	assert.Contains(t, out, "mode=random")
	assert.Contains(t, out, "tcp_port=17")
}

func TestLevelColorHandler_EnabledRespectsMinimumLevel(t *testing.T) {
	h := NewLevelColorHandler(&bytes.Buffer{}, slog.LevelWarn)
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestLevelColorHandler_WithAttrsCarriesOverToSubsequentRecords(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	h := NewLevelColorHandler(&buf, slog.LevelInfo)
	logger := slog.New(h).With("component", "supervisor")

	logger.Info("watcher.change_detected")

	assert.Contains(t, buf.String(), "component=supervisor")
}

func TestLevelColorHandler_ColorsLevelTagWhenColorEnabled(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	h := NewLevelColorHandler(&buf, slog.LevelInfo)
	logger := slog.New(h)

	logger.Error("server.bind_failed")

	out := buf.String()
	require.NotEmpty(t, out)
	assert.True(t, strings.Contains(out, "\x1b["), "expected an ANSI escape sequence when color is enabled")
}
