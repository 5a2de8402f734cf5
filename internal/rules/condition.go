package rules

import (
	"fmt"
	"strings"

	"github.com/handiism/music-manager/internal/model"
)

// Evaluate tests subject against a condition.
//
// Comparisons work on the scalar view of the subject (the first element of a
// sequence). operand is the resolved conditional: literal text or the value
// of a referenced field. Empty and NotEmpty ignore the operand and look at
// every element.
//
// Regex conditions never match an empty subject. A pattern that does not
// compile yields ErrInvalidCondition, as does an unknown condition kind.
// Evaluate has no side effects.
func Evaluate(cond Condition, subject model.Value, operand string) (bool, error) {
	s := subject.Scalar()

	switch cond {
	case Equals:
		return s == operand, nil
	case NotEquals:
		return s != operand, nil
	case Contains:
		return strings.Contains(s, operand), nil
	case NotContains:
		return !strings.Contains(s, operand), nil
	case ContainsRegex, NotContainsRegex:
		found, err := regexSearch(s, operand, false)
		if err != nil {
			return false, err
		}
		if cond == NotContainsRegex {
			return !found, nil
		}
		return found, nil
	case Matches:
		return regexSearch(s, operand, true)
	case GreaterThan:
		return strings.Compare(s, operand) > 0, nil
	case LessThan:
		return strings.Compare(s, operand) < 0, nil
	case Empty:
		return subject.IsEmpty(), nil
	case NotEmpty:
		return !subject.IsEmpty(), nil
	default:
		return false, fmt.Errorf("%w: %s", ErrInvalidCondition, cond)
	}
}

func regexSearch(s, pattern string, anchored bool) (bool, error) {
	if s == "" {
		return false, nil
	}
	re, err := compilePattern(pattern, anchored)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidCondition, err)
	}
	return re.MatchString(s), nil
}
