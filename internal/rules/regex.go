package rules

import (
	"fmt"
	"regexp"
	"sync"
)

// MaxPatternLength bounds the size of a regular expression accepted by a rule.
const MaxPatternLength = 1024

type patternKey struct {
	pattern  string
	anchored bool
}

// patterns caches compiled expressions. Compiled regexps are safe for
// concurrent use, so one cache serves every worker.
var patterns sync.Map

// compilePattern compiles a rule pattern. Patterns are case-insensitive
// unless they turn it off with (?-i). Anchored patterns must match the
// whole subject.
func compilePattern(pattern string, anchored bool) (*regexp.Regexp, error) {
	key := patternKey{pattern: pattern, anchored: anchored}
	if re, ok := patterns.Load(key); ok {
		return re.(*regexp.Regexp), nil
	}

	if len(pattern) > MaxPatternLength {
		return nil, fmt.Errorf("pattern is %d bytes, limit is %d", len(pattern), MaxPatternLength)
	}

	expr := "(?i)" + pattern
	if anchored {
		expr = "(?i)^(?:" + pattern + ")$"
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	actual, _ := patterns.LoadOrStore(key, re)
	return actual.(*regexp.Regexp), nil
}
