package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/music-manager/internal/model"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name        string
		op          Operation
		cond        Condition
		subject     model.Value
		operand     string
		replacement string
		want        model.Value
	}{
		{
			name:    "remove regex",
			op:      Remove,
			cond:    ContainsRegex,
			subject: model.Text("What It Is! Funky Soul And Rare Grooves (Disc 2)"),
			operand: discPattern,
			want:    model.Text("What It Is! Funky Soul And Rare Grooves"),
		},
		{
			name:    "remove regex is global",
			op:      Remove,
			cond:    ContainsRegex,
			subject: model.Text("a1b2c3"),
			operand: `\d`,
			want:    model.Text("abc"),
		},
		{
			name:    "remove literal",
			op:      Remove,
			cond:    Contains,
			subject: model.Text("Abbey Road[FLAC]"),
			operand: "[FLAC]",
			want:    model.Text("Abbey Road"),
		},
		{
			name:    "remove literal is not a pattern",
			op:      Remove,
			cond:    Contains,
			subject: model.Text("a.b"),
			operand: ".",
			want:    model.Text("ab"),
		},
		{
			name:    "remove whole match",
			op:      Remove,
			cond:    Matches,
			subject: model.Text("Unknown Album"),
			operand: "unknown album",
			want:    model.Text(""),
		},
		{
			name:    "remove on list touches first element",
			op:      Remove,
			cond:    ContainsRegex,
			subject: model.List("Artist feat. Guest", "Other feat. Guest"),
			operand: `\s*feat\..*$`,
			want:    model.List("Artist", "Other feat. Guest"),
		},
		{
			name:    "remove whole first element",
			op:      Remove,
			cond:    Equals,
			subject: model.List("Various Artists", "The Solos"),
			operand: "Various Artists",
			want:    model.List("The Solos"),
		},
		{
			name:    "remove with empty operand clears",
			op:      Remove,
			cond:    NotEmpty,
			subject: model.Text("junk"),
			want:    model.Text(""),
		},
		{
			name:    "remove empty literal is a no-op",
			op:      Remove,
			cond:    Contains,
			subject: model.List("Miles Davis", "John Coltrane"),
			want:    model.List("Miles Davis", "John Coltrane"),
		},
		{
			name:    "remove empty pattern is a no-op",
			op:      Remove,
			cond:    ContainsRegex,
			subject: model.Text("Kind of Blue"),
			want:    model.Text("Kind of Blue"),
		},
		{
			name:    "remove on empty condition clears the first element",
			op:      Remove,
			cond:    Empty,
			subject: model.List("", "Guest"),
			want:    model.List("Guest"),
		},
		{
			name:        "replace scalar",
			op:          Replace,
			cond:        Equals,
			subject:     model.Text("Unknown"),
			replacement: "Kind of Blue",
			want:        model.Text("Kind of Blue"),
		},
		{
			name:        "replace list first element",
			op:          Replace,
			cond:        Equals,
			subject:     model.List("Various Artists", "Guest"),
			replacement: "The Solos",
			want:        model.List("The Solos", "Guest"),
		},
		{
			name:        "replace empty list",
			op:          Replace,
			cond:        Empty,
			subject:     model.List(),
			replacement: "The Solos",
			want:        model.List("The Solos"),
		},
		{
			name:    "keep",
			op:      Keep,
			cond:    Equals,
			subject: model.List("a", "b"),
			want:    model.List("a", "b"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.op, tt.cond, tt.subject, tt.operand, tt.replacement)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "Apply() = %v, want %v", got, tt.want)
			assert.Equal(t, tt.subject.IsList(), got.IsList())
		})
	}
}

func TestApply_UnknownOperation(t *testing.T) {
	_, err := Apply(Operation(5), Equals, model.Text("x"), "", "")
	assert.ErrorIs(t, err, ErrMalformedRule)
}
