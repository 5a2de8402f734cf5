package rules

import (
	"fmt"

	"github.com/handiism/music-manager/internal/model"
)

// MaxChainDepth is the longest chain of rules accepted, counting the top-level rule.
const MaxChainDepth = 16

// Rule is a declarative tag transformation.
//
// A rule tests its Subject field with Condition against Conditional. When the
// rule is satisfied, taking its chain into account, Operation is applied to
// the subject of the top-level rule. Operations of chained rules are never
// applied; chained rules only contribute their conditions.
//
// Example: strip a "(Disc 2)" suffix from album names.
//
//	r, err := rules.New(rules.Rule{
//	    Subject:     "Album",
//	    Condition:   rules.ContainsRegex,
//	    Conditional: `\s*\(Dis[A-Za-z].*?\)`,
//	    Operation:   rules.Remove,
//	})
type Rule struct {
	// Name identifies the rule in logs and reports. Optional.
	Name string `json:"Name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`

	// Subject is the field the rule tests and, at the top level, modifies.
	Subject string `json:"Subject" yaml:"subject" toml:"subject"`

	// Condition is the test applied to the subject.
	Condition Condition `json:"Condition" yaml:"condition" toml:"condition"`

	// Conditional is the operand of the condition: literal text, a regular
	// expression, or a field name when ConditionalType is Property.
	Conditional string `json:"Conditional,omitempty" yaml:"conditional,omitempty" toml:"conditional,omitempty"`

	// ConditionalType says how Conditional is read. Inherit reads as Literal.
	ConditionalType ValueType `json:"ConditionalType,omitempty" yaml:"conditional_type,omitempty" toml:"conditional_type,omitempty"`

	// Operation is applied to the subject when the rule is satisfied.
	Operation Operation `json:"Operation" yaml:"operation" toml:"operation"`

	// Replacement is the new value for Replace: literal text, or a field name
	// when the effective replacement type is Property.
	Replacement string `json:"Replacement,omitempty" yaml:"replacement,omitempty" toml:"replacement,omitempty"`

	// ReplacementType says how Replacement is read. Inherit uses ConditionalType.
	ReplacementType ValueType `json:"ReplacementType,omitempty" yaml:"replacement_type,omitempty" toml:"replacement_type,omitempty"`

	// Chain combines this rule's condition with ChainRule.
	Chain Chain `json:"Chain,omitempty" yaml:"chain,omitempty" toml:"chain,omitempty"`

	// ChainRule is the next link of the chain. Required when Chain is not
	// ChainNone, forbidden otherwise.
	ChainRule *Rule `json:"ChainRule,omitempty" yaml:"chain_rule,omitempty" toml:"chain_rule,omitempty"`
}

// New validates r and returns a copy of it.
func New(r Rule) (*Rule, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks the structure of r and its chain. Every failure wraps
// ErrMalformedRule.
func (r *Rule) Validate() error {
	return r.validate(1)
}

func (r *Rule) validate(depth int) error {
	if depth > MaxChainDepth {
		return fmt.Errorf("%w: chain is longer than %d rules", ErrMalformedRule, MaxChainDepth)
	}
	if r.Subject == "" {
		return r.malformed(depth, "subject is required")
	}
	if !r.Condition.Valid() {
		return r.malformed(depth, "unknown condition %s", r.Condition)
	}
	if !r.Operation.Valid() {
		return r.malformed(depth, "unknown operation %s", r.Operation)
	}
	if !r.ConditionalType.Valid() || !r.ReplacementType.Valid() {
		return r.malformed(depth, "unknown value type")
	}
	if !r.Chain.Valid() {
		return r.malformed(depth, "unknown chain %s", r.Chain)
	}

	if r.Condition.IsRegex() && r.conditionalType() == Literal {
		if _, err := compilePattern(r.Conditional, r.Condition == Matches); err != nil {
			return r.malformed(depth, "bad pattern %q: %v", r.Conditional, err)
		}
	}
	if depth == 1 && r.Operation == Replace && r.replacementType() == Property && r.Replacement == "" {
		return r.malformed(depth, "replacement field is required")
	}

	switch {
	case r.Chain == ChainNone && r.ChainRule != nil:
		return r.malformed(depth, "chain rule given without a chain kind")
	case r.Chain != ChainNone && r.ChainRule == nil:
		return r.malformed(depth, "chain %s has no chain rule", r.Chain)
	case r.ChainRule != nil:
		return r.ChainRule.validate(depth + 1)
	}
	return nil
}

func (r *Rule) malformed(depth int, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if depth > 1 {
		return fmt.Errorf("%w: chain link %d: %s", ErrMalformedRule, depth, msg)
	}
	return fmt.Errorf("%w: %s", ErrMalformedRule, msg)
}

// Label returns the rule name, or a description built from the subject and
// condition when the rule is unnamed.
func (r *Rule) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Subject + " " + r.Condition.String()
}

// Depth returns the number of rules in the chain, counting r.
func (r *Rule) Depth() int {
	n := 0
	for link := r; link != nil; link = link.ChainRule {
		n++
	}
	return n
}

func (r *Rule) conditionalType() ValueType {
	if r.ConditionalType == Inherit {
		return Literal
	}
	return r.ConditionalType
}

func (r *Rule) replacementType() ValueType {
	if r.ReplacementType == Inherit {
		return r.conditionalType()
	}
	return r.ReplacementType
}

// resolve reads s as a literal or as a reference to another field of rec.
// References see the value at the time of the call.
func resolve(rec *model.Record, s string, t ValueType) (string, error) {
	if t != Property {
		return s, nil
	}
	f, err := model.LookupField(s)
	if err != nil {
		return "", err
	}
	return f.Get(rec).Scalar(), nil
}
