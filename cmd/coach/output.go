// ABOUTME: Shared terminal output helpers for coach commands.
// ABOUTME: Column padding, truncation and colored status lines.
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/coach/internal/storage"
)

var (
	faint   = color.New(color.Faint)
	bold    = color.New(color.Bold)
	green   = color.New(color.FgGreen)
	yellow  = color.New(color.FgYellow)
	heading = color.New(color.FgCyan, color.Bold)
)

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func success(w io.Writer, format string, args ...any) {
	green.Fprintf(w, "✓ "+format+"\n", args...)
}

func removed(w io.Writer, format string, args ...any) {
	yellow.Fprintf(w, "✗ "+format+"\n", args...)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}

func detail(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "  %s %s\n", faint.Sprint(padRight(label+":", 14)), value)
}

func printCounts(w io.Writer, c storage.Counts) {
	fmt.Fprintf(w, "  Users:    %d\n", c.Users)
	fmt.Fprintf(w, "  Notes:    %d\n", c.Notes)
	fmt.Fprintf(w, "  Clients:  %d\n", c.Clients)
	fmt.Fprintf(w, "  Workouts: %d\n", c.Workouts)
	fmt.Fprintf(w, "  Sessions: %d\n", c.Sessions)
	fmt.Fprintf(w, "  Goals:    %d\n", c.Goals)
}
