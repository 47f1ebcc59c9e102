package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"critable/internal/store"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const ansiReset = "\x1b[0m"

var statusStyles = map[statusKind]struct {
	label string
	color string
}{
	statusInfo:  {"INFO", "\x1b[34m"},
	statusOK:    {"OK", "\x1b[32m"},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
}

// statusLabelWidth aligns values after "Selected pages:".
const statusLabelWidth = 18

// renderStatusLine formats "  Label:  [KIND] message".
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	var b strings.Builder
	fmt.Fprintf(&b, "  %-*s [%s]", statusLabelWidth, label+":", style.label)
	if message != "" {
		b.WriteByte(' ')
		b.WriteString(message)
	}
	return paint(b.String(), style.color, colorize)
}

// documentStatusKind maps a document status to its display severity.
func documentStatusKind(status store.Status) statusKind {
	switch status {
	case store.StatusCompleted:
		return statusOK
	case store.StatusEmpty, store.StatusReview:
		return statusWarn
	case store.StatusFailed:
		return statusError
	default:
		return statusInfo
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	heading := "== " + strings.TrimSpace(title) + " =="
	color := statusStyles[statusInfo].color
	return []string{
		paint(heading, color, colorize),
		paint(strings.Repeat("-", len(heading)), color, colorize),
	}
}

func paint(s, color string, colorize bool) string {
	if !colorize || color == "" {
		return s
	}
	return color + s + ansiReset
}

// shouldColorize reports whether w is a terminal.
func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
