package library

import (
	"cmp"
	"slices"
	"sync"
	"time"
)

// Failure records one thing that went wrong during a run. Rule is empty when
// the failure concerns the file itself (read, write or export).
type Failure struct {
	Path string
	Rule string
	Err  error
}

// Report summarizes a Clean or ExtractTags run.
type Report struct {
	RunID string

	// Files is the number of library files the run visited.
	Files int

	// Changed counts records the rules modified, whether or not they were
	// written back.
	Changed int

	// Updated counts files whose tags were written (Clean) or exported
	// (ExtractTags).
	Updated int

	Unchanged int

	// Failed counts files with at least one failure.
	Failed   int
	Failures []Failure

	Duration time.Duration

	mu sync.Mutex
}

func (r *Report) add(fn func(r *Report)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r)
}

// fileResult is what processing a single file contributes to the report.
type fileResult struct {
	changed  bool
	updated  bool
	failures []Failure
}

func (r *Report) record(res fileResult) {
	r.add(func(r *Report) {
		switch {
		case res.updated:
			r.Updated++
		case !res.changed && len(res.failures) == 0:
			r.Unchanged++
		}
		if res.changed {
			r.Changed++
		}
		if len(res.failures) > 0 {
			r.Failed++
			r.Failures = append(r.Failures, res.failures...)
		}
	})
}

// finish orders failures by path and rule so reports are stable across runs.
func (r *Report) finish(started time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slices.SortStableFunc(r.Failures, func(a, b Failure) int {
		return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(a.Rule, b.Rule))
	})
	r.Duration = time.Since(started)
}
