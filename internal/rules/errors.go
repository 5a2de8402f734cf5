package rules

import "errors"

var (
	// ErrInvalidCondition is returned when a condition cannot be evaluated:
	// an unknown condition kind, or a pattern read from a field that does
	// not compile.
	ErrInvalidCondition = errors.New("invalid condition")

	// ErrMalformedRule is returned when a rule is structurally invalid.
	// Rules are checked when they are built or loaded, before they run.
	ErrMalformedRule = errors.New("malformed rule")
)
