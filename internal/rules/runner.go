package rules

import (
	"fmt"

	"github.com/handiism/music-manager/internal/model"
)

// Outcome describes what running one rule did to a record.
type Outcome struct {
	// Rule is the label of the rule.
	Rule string

	// Field is the resolved subject field.
	Field string

	// Applied is true when the rule was satisfied and its operation ran.
	Applied bool

	// Changed is true when the operation produced a different value.
	Changed bool

	// Before and After hold the subject value around the operation.
	// After equals Before when the rule was not applied.
	Before model.Value
	After  model.Value
}

// Run evaluates r against rec and, when satisfied, applies r's operation to
// its subject and writes the result back.
//
// The chain is evaluated link by link: And stops at the first failing
// condition, Or stops at the first passing one, Xor needs exactly one side.
// Only the top-level operation is applied.
//
// When Run returns an error the record is left untouched. Errors wrap
// model.ErrFieldNotFound, ErrInvalidCondition or ErrMalformedRule and carry
// the rule label.
func (r *Rule) Run(rec *model.Record) (Outcome, error) {
	out := Outcome{Rule: r.Label()}

	field, err := model.LookupField(r.Subject)
	if err != nil {
		return out, fmt.Errorf("rule %s: %w", out.Rule, err)
	}
	out.Field = field.Name
	out.Before = field.Get(rec)
	out.After = out.Before

	ok, err := r.satisfied(rec, 1)
	if err != nil {
		return out, fmt.Errorf("rule %s: %w", out.Rule, err)
	}
	if !ok {
		return out, nil
	}

	operand, err := resolve(rec, r.Conditional, r.conditionalType())
	if err != nil {
		return out, fmt.Errorf("rule %s: %w", out.Rule, err)
	}
	replacement := ""
	if r.Operation == Replace {
		replacement, err = resolve(rec, r.Replacement, r.replacementType())
		if err != nil {
			return out, fmt.Errorf("rule %s: replacement: %w", out.Rule, err)
		}
	}

	next, err := Apply(r.Operation, r.Condition, out.Before, operand, replacement)
	if err != nil {
		return out, fmt.Errorf("rule %s: %w", out.Rule, err)
	}

	field.Set(rec, next)
	out.Applied = true
	out.After = field.Get(rec)
	out.Changed = !out.After.Equal(out.Before)
	return out, nil
}

// satisfied evaluates the condition of r and the rest of its chain.
func (r *Rule) satisfied(rec *model.Record, depth int) (bool, error) {
	if depth > MaxChainDepth {
		return false, fmt.Errorf("%w: chain is longer than %d rules", ErrMalformedRule, MaxChainDepth)
	}

	ok, err := r.test(rec)
	if err != nil {
		return false, err
	}

	if r.Chain != ChainNone && r.ChainRule == nil {
		return false, fmt.Errorf("%w: chain %s has no chain rule", ErrMalformedRule, r.Chain)
	}

	switch r.Chain {
	case ChainNone:
		return ok, nil
	case And:
		if !ok {
			return false, nil
		}
		return r.ChainRule.satisfied(rec, depth+1)
	case Or:
		if ok {
			return true, nil
		}
		return r.ChainRule.satisfied(rec, depth+1)
	case Xor:
		next, err := r.ChainRule.satisfied(rec, depth+1)
		if err != nil {
			return false, err
		}
		return ok != next, nil
	default:
		return false, fmt.Errorf("%w: unknown chain %s", ErrMalformedRule, r.Chain)
	}
}

// test evaluates the condition of r alone.
func (r *Rule) test(rec *model.Record) (bool, error) {
	field, err := model.LookupField(r.Subject)
	if err != nil {
		return false, err
	}

	operand := ""
	if r.Condition != Empty && r.Condition != NotEmpty {
		operand, err = resolve(rec, r.Conditional, r.conditionalType())
		if err != nil {
			return false, err
		}
	}

	return Evaluate(r.Condition, field.Get(rec), operand)
}
