package rules

import (
	"fmt"
	"strings"

	"github.com/handiism/music-manager/internal/model"
)

// Apply computes the new value of a subject.
//
// Remove deletes text from the scalar view: every match of operand when cond
// is ContainsRegex or Matches, every literal occurrence of operand otherwise.
// Empty and NotEmpty take no operand, so under them Remove clears the scalar
// view (a sequence loses its first element); under any other condition an
// empty operand removes nothing. A removal that leaves nothing also clears. Replace sets the scalar view to
// replacement. Keep returns subject unchanged.
//
// The result has the multiplicity of subject. Apply does not write anything
// back.
func Apply(op Operation, cond Condition, subject model.Value, operand, replacement string) (model.Value, error) {
	switch op {
	case Keep:
		return subject, nil
	case Replace:
		return subject.WithScalar(replacement), nil
	case Remove:
		if cond == Empty || cond == NotEmpty {
			return subject.WithoutFirst(), nil
		}
		if operand == "" {
			return subject, nil
		}

		s := subject.Scalar()
		var out string
		if cond == ContainsRegex || cond == Matches {
			re, err := compilePattern(operand, cond == Matches)
			if err != nil {
				return subject, fmt.Errorf("%w: %v", ErrInvalidCondition, err)
			}
			out = re.ReplaceAllString(s, "")
		} else {
			out = strings.ReplaceAll(s, operand, "")
		}

		if out == "" {
			return subject.WithoutFirst(), nil
		}
		return subject.WithScalar(out), nil
	default:
		return subject, fmt.Errorf("%w: unknown operation %s", ErrMalformedRule, op)
	}
}
