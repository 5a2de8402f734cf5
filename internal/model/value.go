package model

import "strings"

// Value is the content of one tag field.
//
// A Value is either a single string (scalar) or an ordered sequence of
// strings. The multiplicity is part of the value: reading a multi-valued
// field always yields a sequence, even when it has no elements, and the
// rule engine hands the same shape back when writing.
//
// The zero Value is an empty scalar.
type Value struct {
	list  bool
	text  string
	items []string
}

// Text returns a scalar value.
func Text(s string) Value {
	return Value{text: s}
}

// List returns a sequence value. The items are copied; a nil or empty
// argument yields an empty, non-nil sequence.
func List(items ...string) Value {
	cp := make([]string, len(items))
	copy(cp, items)
	return Value{list: true, items: cp}
}

// IsList reports whether v is a sequence.
func (v Value) IsList() bool {
	return v.list
}

// Scalar returns the scalar view of v: the string itself, or the first
// element of a sequence. An empty sequence has the scalar view "".
func (v Value) Scalar() string {
	if !v.list {
		return v.text
	}
	if len(v.items) == 0 {
		return ""
	}
	return v.items[0]
}

// Items returns a copy of the elements of v. A scalar yields a one-element
// slice.
func (v Value) Items() []string {
	if !v.list {
		return []string{v.text}
	}
	cp := make([]string, len(v.items))
	copy(cp, v.items)
	return cp
}

// Len returns the number of elements of a sequence, or 1 for a scalar.
func (v Value) Len() int {
	if !v.list {
		return 1
	}
	return len(v.items)
}

// IsEmpty reports whether v carries no text: a zero-length scalar, or a
// sequence without any non-empty element.
func (v Value) IsEmpty() bool {
	if !v.list {
		return v.text == ""
	}
	for _, item := range v.items {
		if item != "" {
			return false
		}
	}
	return true
}

// WithScalar returns a copy of v whose scalar view is s. For a sequence
// the first element is replaced and the others are kept; an empty
// sequence becomes a one-element sequence.
func (v Value) WithScalar(s string) Value {
	if !v.list {
		return Text(s)
	}
	items := v.Items()
	if len(items) == 0 {
		return List(s)
	}
	items[0] = s
	return Value{list: true, items: items}
}

// WithoutFirst returns a copy of v with its scalar view cleared: a scalar
// becomes "" and a sequence loses its first element.
func (v Value) WithoutFirst() Value {
	if !v.list {
		return Text("")
	}
	if len(v.items) == 0 {
		return List()
	}
	return List(v.items[1:]...)
}

// Equal reports whether v and o have the same multiplicity and content.
func (v Value) Equal(o Value) bool {
	if v.list != o.list {
		return false
	}
	if !v.list {
		return v.text == o.text
	}
	if len(v.items) != len(o.items) {
		return false
	}
	for i := range v.items {
		if v.items[i] != o.items[i] {
			return false
		}
	}
	return true
}

// String formats v for logs: scalars as is, sequences joined with "; ".
func (v Value) String() string {
	if !v.list {
		return v.text
	}
	return "[" + strings.Join(v.items, "; ") + "]"
}
