// Package rules implements the tag cleaning rule engine.
//
// A Rule names a subject field, a Condition tested against a conditional
// value, and an Operation applied to the subject when the rule is satisfied.
// Rules can be chained with And, Or or Xor to form compound conditions; only
// the top-level rule's operation is applied.
//
// # Conditions
//
// Conditions compare the scalar view of the subject, which is the first
// element of a multi-valued field. Regex conditions are case-insensitive and
// never match an empty subject. Empty and NotEmpty look at every element.
//
// # Operations
//
//   - Remove deletes regex matches (ContainsRegex, Matches) or literal
//     occurrences of the conditional from the subject
//   - Replace sets the subject to the replacement, a literal or the value of
//     another field
//   - Keep leaves the subject alone
//
// # Loading
//
// Rule files are JSON, YAML or TOML:
//
//	set, err := rules.LoadFile("rules.json")
//	if err != nil {
//	    return err
//	}
//	results, err := set.Run(record)
//
// Structurally invalid rules are rejected with ErrMalformedRule when they are
// loaded. Default returns the built-in rule set.
package rules
