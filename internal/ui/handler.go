// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// LevelColorHandler is a slog.Handler that renders each record as
// `time level message key=value ...`, with the level tag colorized per
// severity. Coloring is a no-op whenever color.NoColor is true (set by
// InitColors), so the same handler works for both TTY and piped output.
type LevelColorHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewLevelColorHandler builds a LevelColorHandler writing to w at the
// given minimum level.
func NewLevelColorHandler(w io.Writer, level slog.Leveler) *LevelColorHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &LevelColorHandler{mu: &sync.Mutex{}, w: w, level: level}
}

func (h *LevelColorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *LevelColorHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	b.WriteString(r.Time.Format("15:04:05.000"))
	b.WriteByte(' ')
	b.WriteString(levelTag(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(&b, h.groups, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.groups, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *LevelColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *LevelColorHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.groups = append(append([]string{}, h.groups...), name)
	return &next
}

func writeAttr(b *strings.Builder, groups []string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	b.WriteByte(' ')
	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	fmt.Fprintf(b, "%s=%v", key, a.Value)
}

// levelTag renders a fixed-width, colorized level tag: red for error,
// yellow for warn, cyan for info, grey for debug.
func levelTag(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return color.New(color.FgRed, color.Bold).Sprint("ERROR")
	case level >= slog.LevelWarn:
		return color.New(color.FgYellow).Sprint("WARN ")
	case level >= slog.LevelInfo:
		return color.New(color.FgCyan).Sprint("INFO ")
	default:
		return color.New(color.FgHiBlack).Sprint("DEBUG")
	}
}
