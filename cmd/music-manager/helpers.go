package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/handiism/music-manager/internal/library"
)

// progressPrinter returns a progress callback writing events to w. Verbose
// events are dropped unless verbose is set.
func progressPrinter(w io.Writer, verbose bool) func(library.ProgressEvent) {
	return func(event library.ProgressEvent) {
		if event.Level == library.LevelVerbose && !verbose {
			return
		}

		prefix := "  "
		switch event.Level {
		case library.LevelError:
			prefix = "✗ "
		case library.LevelWarning:
			prefix = "! "
		case library.LevelSuccess:
			prefix = "✓ "
		case library.LevelInfo:
			prefix = "› "
		}
		fmt.Fprintln(w, prefix+event.Message)
	}
}

func printReport(w io.Writer, title string, report *library.Report, root string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	rows := [][]string{
		{"Run", report.RunID},
		{"Files", strconv.Itoa(report.Files)},
		{"Changed", strconv.Itoa(report.Changed)},
		{"Updated", strconv.Itoa(report.Updated)},
		{"Unchanged", strconv.Itoa(report.Unchanged)},
		{"Failed", strconv.Itoa(report.Failed)},
		{"Duration", report.Duration.Round(time.Millisecond).String()},
	}
	fmt.Fprintln(w, renderTable(w, []string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))

	if len(report.Failures) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Failures")
	failures := make([][]string, 0, len(report.Failures))
	for _, f := range report.Failures {
		failures = append(failures, []string{relPath(root, f.Path), dash(f.Rule), f.Err.Error()})
	}
	fmt.Fprintln(w, renderTable(w, []string{"File", "Rule", "Error"}, failures, nil))
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
