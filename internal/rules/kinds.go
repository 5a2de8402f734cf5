package rules

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Condition is the test a rule applies to its subject.
type Condition int

const (
	conditionUnset Condition = iota

	// Contains tests for a literal substring.
	Contains
	// NotContains is the negation of Contains.
	NotContains
	// ContainsRegex searches the subject for a regular expression.
	ContainsRegex
	// NotContainsRegex is the negation of ContainsRegex.
	NotContainsRegex
	// Empty tests that the subject carries no text.
	Empty
	// NotEmpty tests that the subject carries some text.
	NotEmpty
	// Equals compares the subject with the conditional.
	Equals
	// NotEquals is the negation of Equals.
	NotEquals
	// Matches requires a regular expression to match the whole subject.
	Matches
	// GreaterThan orders the subject after the conditional.
	GreaterThan
	// LessThan orders the subject before the conditional.
	LessThan
)

var conditionNames = map[Condition]string{
	Contains:         "Contains",
	NotContains:      "NotContains",
	ContainsRegex:    "ContainsRegex",
	NotContainsRegex: "NotContainsRegex",
	Empty:            "Empty",
	NotEmpty:         "NotEmpty",
	Equals:           "Equals",
	NotEquals:        "NotEquals",
	Matches:          "Matches",
	GreaterThan:      "GreaterThan",
	LessThan:         "LessThan",
}

// Legacy rule files store enumerations as ordinals.
var conditionOrdinals = []Condition{
	Contains, ContainsRegex, Empty, Equals, GreaterThan, LessThan, Matches, NotEmpty, NotEquals,
}

func (c Condition) String() string {
	if name, ok := conditionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Condition(%d)", int(c))
}

// Valid reports whether c is a known condition.
func (c Condition) Valid() bool {
	_, ok := conditionNames[c]
	return ok
}

// IsRegex reports whether the conditional of c is a regular expression.
func (c Condition) IsRegex() bool {
	return c == ContainsRegex || c == NotContainsRegex || c == Matches
}

// MarshalText implements encoding.TextMarshaler.
func (c Condition) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCondition, c)
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Condition) UnmarshalText(text []byte) error {
	v, err := parseName(string(text), conditionNames)
	if err != nil {
		return fmt.Errorf("%w: condition %q", ErrMalformedRule, text)
	}
	*c = v
	return nil
}

// UnmarshalJSON accepts a condition name or a legacy ordinal.
func (c *Condition) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, c, conditionOrdinals, "condition")
}

// Operation is what a rule does to its subject when satisfied.
type Operation int

const (
	// Keep leaves the subject unchanged.
	Keep Operation = iota
	// Remove deletes the matched text from the subject.
	Remove
	// Replace substitutes the subject with the replacement.
	Replace
)

var operationNames = map[Operation]string{
	Keep:    "Keep",
	Remove:  "Remove",
	Replace: "Replace",
}

var operationOrdinals = []Operation{Keep, Remove, Replace}

func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Operation(%d)", int(o))
}

// Valid reports whether o is a known operation.
func (o Operation) Valid() bool {
	_, ok := operationNames[o]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (o Operation) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrMalformedRule, o)
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. "None" is read as Keep.
func (o *Operation) UnmarshalText(text []byte) error {
	if strings.EqualFold(strings.TrimSpace(string(text)), "None") {
		*o = Keep
		return nil
	}
	v, err := parseName(string(text), operationNames)
	if err != nil {
		return fmt.Errorf("%w: operation %q", ErrMalformedRule, text)
	}
	*o = v
	return nil
}

// UnmarshalJSON accepts an operation name or a legacy ordinal.
func (o *Operation) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, o, operationOrdinals, "operation")
}

// Chain is how a rule combines its own condition with its chained rule.
type Chain int

const (
	// ChainNone means the rule has no chained rule.
	ChainNone Chain = iota
	// And requires both the condition and the chained rule.
	And
	// Or requires the condition or the chained rule.
	Or
	// Xor requires exactly one of them.
	Xor
)

var chainNames = map[Chain]string{
	ChainNone: "None",
	And:       "And",
	Or:        "Or",
	Xor:       "Xor",
}

var chainOrdinals = []Chain{ChainNone, And, Or, Xor}

func (c Chain) String() string {
	if name, ok := chainNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Chain(%d)", int(c))
}

// Valid reports whether c is a known chain kind.
func (c Chain) Valid() bool {
	_, ok := chainNames[c]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (c Chain) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrMalformedRule, c)
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Chain) UnmarshalText(text []byte) error {
	v, err := parseName(string(text), chainNames)
	if err != nil {
		return fmt.Errorf("%w: chain %q", ErrMalformedRule, text)
	}
	*c = v
	return nil
}

// UnmarshalJSON accepts a chain name or a legacy ordinal.
func (c *Chain) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, c, chainOrdinals, "chain")
}

// ValueType says how a conditional or replacement string is read.
type ValueType int

const (
	// Inherit is only meaningful for replacements: use the rule's
	// ConditionalType.
	Inherit ValueType = iota
	// Literal uses the string as is.
	Literal
	// Property reads the current value of the field the string names.
	Property
)

var valueTypeNames = map[ValueType]string{
	Inherit:  "Inherit",
	Literal:  "Literal",
	Property: "Property",
}

var valueTypeOrdinals = []ValueType{Literal, Property}

func (t ValueType) String() string {
	if name, ok := valueTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ValueType(%d)", int(t))
}

// Valid reports whether t is a known value type.
func (t ValueType) Valid() bool {
	_, ok := valueTypeNames[t]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (t ValueType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrMalformedRule, t)
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ValueType) UnmarshalText(text []byte) error {
	v, err := parseName(string(text), valueTypeNames)
	if err != nil {
		return fmt.Errorf("%w: value type %q", ErrMalformedRule, text)
	}
	*t = v
	return nil
}

// UnmarshalJSON accepts a value type name or a legacy ordinal.
func (t *ValueType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, t, valueTypeOrdinals, "value type")
}

func parseName[T comparable](s string, names map[T]string) (T, error) {
	s = strings.TrimSpace(s)
	for v, name := range names {
		if strings.EqualFold(name, s) {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown name %q", s)
}

type textUnmarshaler interface {
	UnmarshalText([]byte) error
}

func unmarshalEnum[T any, P interface {
	*T
	textUnmarshaler
}](data []byte, dst P, ordinals []T, what string) error {
	if string(data) == "null" {
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if n < 0 || n >= len(ordinals) {
			return fmt.Errorf("%w: %s ordinal %d out of range", ErrMalformedRule, what, n)
		}
		*dst = ordinals[n]
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s must be a name or an ordinal", ErrMalformedRule, what)
	}
	return dst.UnmarshalText([]byte(s))
}
