package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/music-manager/internal/model"
)

const discPattern = `\s*\(Dis[A-Za-z].*?\)`

func discRule(t *testing.T) *Rule {
	t.Helper()
	r, err := New(Rule{
		Name:        "RemoveDisc",
		Subject:     "Album",
		Condition:   ContainsRegex,
		Conditional: discPattern,
		Operation:   Remove,
	})
	require.NoError(t, err)
	return r
}

func variousArtistsRule(t *testing.T) *Rule {
	t.Helper()
	r, err := New(Rule{
		Name:            "VariousArtists",
		Subject:         "Artists",
		Condition:       Equals,
		Conditional:     "Various Artists",
		Operation:       Replace,
		Replacement:     "Performers",
		ReplacementType: Property,
		Chain:           And,
		ChainRule: &Rule{
			Subject:   "Performers",
			Condition: NotEmpty,
			Chain:     And,
			ChainRule: &Rule{
				Subject:         "Artists",
				Condition:       NotEquals,
				Conditional:     "Performers",
				ConditionalType: Property,
			},
		},
	})
	require.NoError(t, err)
	return r
}

func TestRun_RemoveDiscSuffix(t *testing.T) {
	rec := &model.Record{Album: "What It Is! Funky Soul And Rare Grooves (Disc 2)"}

	out, err := discRule(t).Run(rec)
	require.NoError(t, err)

	assert.True(t, out.Applied)
	assert.True(t, out.Changed)
	assert.Equal(t, "Album", out.Field)
	assert.Equal(t, "What It Is! Funky Soul And Rare Grooves", rec.Album)
}

func TestRun_RemoveDiskSuffixIgnoresCase(t *testing.T) {
	rec := &model.Record{Album: "What It Is! Funky Soul And Rare Grooves (disk 2)"}

	_, err := discRule(t).Run(rec)
	require.NoError(t, err)
	assert.Equal(t, "What It Is! Funky Soul And Rare Grooves", rec.Album)
}

func TestRun_ReplaceVariousArtistsWithPerformers(t *testing.T) {
	rec := &model.Record{
		Artists:    []string{"Various Artists"},
		Performers: []string{"The Solos"},
	}

	out, err := variousArtistsRule(t).Run(rec)
	require.NoError(t, err)

	assert.True(t, out.Applied)
	assert.Equal(t, []string{"The Solos"}, rec.Artists)
	assert.True(t, out.After.IsList())
	assert.Equal(t, []string{"The Solos"}, rec.Performers)
}

func TestRun_ConditionNotMetLeavesRecordUnchanged(t *testing.T) {
	rec := &model.Record{Album: "Greatest Hits", Artists: []string{"Queen"}}
	before := rec.Clone()

	out, err := discRule(t).Run(rec)
	require.NoError(t, err)

	assert.False(t, out.Applied)
	assert.False(t, out.Changed)
	assert.Equal(t, before, rec)
}

func TestRun_ChainWithEmptyPerformersDoesNotApply(t *testing.T) {
	rec := &model.Record{Artists: []string{"Various Artists"}}

	out, err := variousArtistsRule(t).Run(rec)
	require.NoError(t, err)

	assert.False(t, out.Applied)
	assert.Equal(t, []string{"Various Artists"}, rec.Artists)
}

func TestRun_RemoveEmptyPropertyKeepsSubject(t *testing.T) {
	r, err := New(Rule{
		Name:            "StripPerformers",
		Subject:         "Artists",
		Condition:       Contains,
		Conditional:     "Performers",
		ConditionalType: Property,
		Operation:       Remove,
	})
	require.NoError(t, err)

	rec := &model.Record{Artists: []string{"Miles Davis", "John Coltrane"}}
	rec.MarkClean()

	out, err := r.Run(rec)
	require.NoError(t, err)

	assert.False(t, out.Changed)
	assert.Equal(t, []string{"Miles Davis", "John Coltrane"}, rec.Artists)
	assert.False(t, rec.IsModified())
}

func TestRun_Idempotent(t *testing.T) {
	tests := []struct {
		name  string
		rule  func(*testing.T) *Rule
		build func() *model.Record
	}{
		{
			name:  "remove",
			rule:  discRule,
			build: func() *model.Record { return &model.Record{Album: "Abbey Road (Disc 1)"} },
		},
		{
			name: "replace",
			rule: variousArtistsRule,
			build: func() *model.Record {
				return &model.Record{Artists: []string{"Various Artists"}, Performers: []string{"The Solos"}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.rule(t)
			rec := tt.build()

			first, err := r.Run(rec)
			require.NoError(t, err)
			require.True(t, first.Changed)
			once := rec.Clone()

			second, err := r.Run(rec)
			require.NoError(t, err)
			assert.False(t, second.Changed)
			assert.Equal(t, once, rec)
		})
	}
}

func TestRun_AndShortCircuits(t *testing.T) {
	r, err := New(Rule{
		Subject:     "Album",
		Condition:   Equals,
		Conditional: "nothing like this",
		Operation:   Replace,
		Replacement: "x",
		Chain:       And,
		ChainRule:   &Rule{Subject: "NoSuchField", Condition: NotEmpty},
	})
	require.NoError(t, err)

	rec := &model.Record{Album: "Blue Train"}
	out, err := r.Run(rec)
	require.NoError(t, err, "chained rule must not be evaluated after a failing And link")
	assert.False(t, out.Applied)
	assert.Equal(t, "Blue Train", rec.Album)
}

func TestRun_Or(t *testing.T) {
	build := func(albumOperand, titleOperand string) *Rule {
		r, err := New(Rule{
			Subject:     "Album",
			Condition:   Equals,
			Conditional: albumOperand,
			Operation:   Replace,
			Replacement: "Matched",
			Chain:       Or,
			ChainRule:   &Rule{Subject: "Title", Condition: Equals, Conditional: titleOperand},
		})
		require.NoError(t, err)
		return r
	}

	tests := []struct {
		name    string
		album   string
		title   string
		applied bool
	}{
		{"first passes", "Blue Train", "nope", true},
		{"second passes", "nope", "Moment's Notice", true},
		{"both pass", "Blue Train", "Moment's Notice", true},
		{"neither passes", "nope", "nope", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &model.Record{Album: "Blue Train", Title: "Moment's Notice"}
			out, err := build(tt.album, tt.title).Run(rec)
			require.NoError(t, err)
			assert.Equal(t, tt.applied, out.Applied)
		})
	}
}

func TestRun_Xor(t *testing.T) {
	build := func(titleOperand string) *Rule {
		r, err := New(Rule{
			Subject:     "Album",
			Condition:   Equals,
			Conditional: "Blue Train",
			Operation:   Replace,
			Replacement: "Matched",
			Chain:       Xor,
			ChainRule:   &Rule{Subject: "Title", Condition: Equals, Conditional: titleOperand},
		})
		require.NoError(t, err)
		return r
	}

	rec := &model.Record{Album: "Blue Train", Title: "Locomotion"}
	out, err := build("Locomotion").Run(rec)
	require.NoError(t, err)
	assert.False(t, out.Applied, "both sides true")

	out, err = build("Lazy Bird").Run(rec)
	require.NoError(t, err)
	assert.True(t, out.Applied, "only the first side true")
	assert.Equal(t, "Matched", rec.Album)
}

func TestRun_PropertyReferenceSeesCurrentValue(t *testing.T) {
	setPerformers, err := New(Rule{
		Name:        "SetPerformers",
		Subject:     "Performers",
		Condition:   Empty,
		Operation:   Replace,
		Replacement: "Session Band",
	})
	require.NoError(t, err)

	set, err := NewSet(setPerformers, variousArtistsRule(t))
	require.NoError(t, err)

	rec := &model.Record{Artists: []string{"Various Artists"}}
	results, err := set.Run(rec)
	require.NoError(t, err)

	assert.Len(t, results, 2)
	assert.True(t, Changed(results))
	assert.Equal(t, []string{"Session Band"}, rec.Artists)
}

func TestRun_FieldNotFound(t *testing.T) {
	r := &Rule{Subject: "Albums", Condition: NotEmpty}
	rec := &model.Record{Album: "x"}

	_, err := r.Run(rec)
	assert.ErrorIs(t, err, model.ErrFieldNotFound)

	r = &Rule{Subject: "Album", Condition: Equals, Conditional: "Nope", ConditionalType: Property}
	_, err = r.Run(rec)
	assert.ErrorIs(t, err, model.ErrFieldNotFound)
	assert.Equal(t, "x", rec.Album)
}

func TestRun_ReplacementFieldNotFoundLeavesRecord(t *testing.T) {
	r := &Rule{
		Subject:         "Album",
		Condition:       NotEmpty,
		Operation:       Replace,
		Replacement:     "Nope",
		ReplacementType: Property,
	}
	rec := &model.Record{Album: "Giant Steps"}

	_, err := r.Run(rec)
	assert.ErrorIs(t, err, model.ErrFieldNotFound)
	assert.Equal(t, "Giant Steps", rec.Album)
}

func TestRun_InvalidCondition(t *testing.T) {
	r := &Rule{Subject: "Album", Condition: Condition(99)}
	_, err := r.Run(&model.Record{Album: "x"})
	assert.ErrorIs(t, err, ErrInvalidCondition)
}

func TestRun_PropertyPatternThatDoesNotCompile(t *testing.T) {
	r := &Rule{
		Subject:         "Album",
		Condition:       ContainsRegex,
		Conditional:     "Grouping",
		ConditionalType: Property,
		Operation:       Remove,
	}
	rec := &model.Record{Album: "Giant Steps", Grouping: "(unclosed"}

	_, err := r.Run(rec)
	assert.ErrorIs(t, err, ErrInvalidCondition)
	assert.Equal(t, "Giant Steps", rec.Album)
}

func TestRun_UnvalidatedBrokenChain(t *testing.T) {
	r := &Rule{Subject: "Album", Condition: NotEmpty, Chain: And}
	_, err := r.Run(&model.Record{Album: "x"})
	assert.ErrorIs(t, err, ErrMalformedRule)
}

func TestNew_Malformed(t *testing.T) {
	deep := &Rule{Subject: "Album", Condition: NotEmpty}
	for i := 0; i < MaxChainDepth; i++ {
		deep = &Rule{Subject: "Album", Condition: NotEmpty, Chain: And, ChainRule: deep}
	}

	tests := []struct {
		name string
		rule Rule
	}{
		{"chain without rule", Rule{Subject: "Album", Condition: Equals, Conditional: "x", Chain: And}},
		{"rule without chain", Rule{Subject: "Album", Condition: Equals, ChainRule: &Rule{Subject: "Title", Condition: Empty}}},
		{"missing subject", Rule{Condition: Empty}},
		{"missing condition", Rule{Subject: "Album"}},
		{"unknown operation", Rule{Subject: "Album", Condition: Empty, Operation: Operation(7)}},
		{"unknown chain", Rule{Subject: "Album", Condition: Empty, Chain: Chain(9), ChainRule: &Rule{Subject: "Album", Condition: Empty}}},
		{"bad pattern", Rule{Subject: "Album", Condition: ContainsRegex, Conditional: "(Disc"}},
		{"replace from unnamed field", Rule{Subject: "Album", Condition: Empty, Operation: Replace, ReplacementType: Property}},
		{"broken link", Rule{Subject: "Album", Condition: Empty, Chain: Or, ChainRule: &Rule{Subject: "Title", Condition: Empty, Chain: And}}},
		{"too deep", *deep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.rule)
			assert.ErrorIs(t, err, ErrMalformedRule)
			assert.Nil(t, r)
		})
	}
}

func TestRule_LabelAndDepth(t *testing.T) {
	r := variousArtistsRule(t)
	assert.Equal(t, "VariousArtists", r.Label())
	assert.Equal(t, 3, r.Depth())

	unnamed := &Rule{Subject: "Album", Condition: ContainsRegex}
	assert.Equal(t, "Album ContainsRegex", unnamed.Label())
}

func TestSet_RunIsolatesFailures(t *testing.T) {
	broken := &Rule{Name: "Broken", Subject: "Album", Condition: Equals, Conditional: "Nope", ConditionalType: Property}
	set := &Set{rules: []*Rule{broken, discRule(t)}}

	rec := &model.Record{Album: "Abbey Road (Disc 1)"}
	results, err := set.Run(rec)

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrFieldNotFound)
	assert.Contains(t, err.Error(), "Broken")
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, "Abbey Road", rec.Album)
}

func TestSet_ByName(t *testing.T) {
	set, err := NewSet(discRule(t), variousArtistsRule(t))
	require.NoError(t, err)

	r, ok := set.ByName("variousartists")
	require.True(t, ok)
	assert.Equal(t, "Artists", r.Subject)

	_, ok = set.ByName("missing")
	assert.False(t, ok)
}
