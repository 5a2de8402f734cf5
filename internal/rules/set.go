package rules

import (
	"errors"
	"strings"

	"github.com/handiism/music-manager/internal/model"
)

// Set is an ordered collection of validated rules.
type Set struct {
	rules []*Rule
}

// NewSet validates every rule and returns them as a Set, keeping their order.
func NewSet(rs ...*Rule) (*Set, error) {
	for i, r := range rs {
		if r == nil {
			return nil, &LoadError{Index: i, Err: ErrMalformedRule}
		}
		if err := r.Validate(); err != nil {
			return nil, &LoadError{Index: i, Name: r.Name, Err: err}
		}
	}
	cp := make([]*Rule, len(rs))
	copy(cp, rs)
	return &Set{rules: cp}, nil
}

// Len returns the number of rules.
func (s *Set) Len() int {
	return len(s.rules)
}

// All returns the rules in order.
func (s *Set) All() []*Rule {
	cp := make([]*Rule, len(s.rules))
	copy(cp, s.rules)
	return cp
}

// ByName returns the first rule whose name matches, ignoring case.
func (s *Set) ByName(name string) (*Rule, bool) {
	for _, r := range s.rules {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return nil, false
}

// Result pairs the outcome of one rule with its error, if any.
type Result struct {
	Outcome
	Err error
}

// Run applies every rule to rec in order. A failing rule does not stop the
// others: its error is kept in its Result and the record is left as the
// previous rules made it. The returned error joins all rule errors.
func (s *Set) Run(rec *model.Record) ([]Result, error) {
	results := make([]Result, 0, len(s.rules))
	var errs []error
	for _, r := range s.rules {
		out, err := r.Run(rec)
		results = append(results, Result{Outcome: out, Err: err})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return results, errors.Join(errs...)
}

// Changed reports whether any result changed its subject.
func Changed(results []Result) bool {
	for _, res := range results {
		if res.Changed {
			return true
		}
	}
	return false
}
