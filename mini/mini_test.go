package mini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strudel-go/pattern"
)

func onsets(t *testing.T, p pattern.Pattern, begin, end int64) []string {
	t.Helper()
	haps := p.Query(pattern.Arc{Begin: pattern.FromInt(begin), End: pattern.FromInt(end)})
	var out []string
	for _, h := range haps {
		if !h.HasOnset() {
			continue
		}
		out = append(out, h.Value.String())
	}
	return out
}

// E4: "bd [sd cp]*2" packs sd,cp twice into the second half-cycle slot.
func TestFastcatWithinCat(t *testing.T) {
	p, err := Eval("bd [sd cp]*2")
	require.NoError(t, err)
	haps := p.Query(pattern.Arc{Begin: pattern.Zero, End: pattern.One})
	require.Len(t, haps, 5)
	s0, _ := haps[0].Value.Str()
	assert.Equal(t, "bd", s0)
}

// E5: "bd(3,8)" is a Euclidean rhythm of 3 hits over 8 steps.
func TestEuclidMini(t *testing.T) {
	p, err := Eval("bd(3,8)")
	require.NoError(t, err)
	haps := p.Query(pattern.Arc{Begin: pattern.Zero, End: pattern.One})
	require.Len(t, haps, 3)
}

func TestRestLowersToSilence(t *testing.T) {
	p, err := Eval("bd ~ sd")
	require.NoError(t, err)
	haps := p.Query(pattern.Arc{Begin: pattern.Zero, End: pattern.One})
	require.Len(t, haps, 2)
}

func TestStackInBrackets(t *testing.T) {
	p, err := Eval("[bd, hh hh]")
	require.NoError(t, err)
	haps := p.Query(pattern.Arc{Begin: pattern.Zero, End: pattern.One})
	assert.Len(t, haps, 3)
}

func TestWeightedSlowSeq(t *testing.T) {
	p, err := Eval("<bd sd@2 cp>")
	require.NoError(t, err)
	haps := p.Query(pattern.Arc{Begin: pattern.Zero, End: pattern.FromInt(4)})
	require.Len(t, haps, 4)
	v1, _ := haps[1].Value.Str()
	assert.Equal(t, "sd", v1)
	v2, _ := haps[2].Value.Str()
	assert.Equal(t, "sd", v2)
}

func TestReplicate(t *testing.T) {
	p, err := Eval("bd!3 sd")
	require.NoError(t, err)
	haps := p.Query(pattern.Arc{Begin: pattern.Zero, End: pattern.One})
	require.Len(t, haps, 4)
}

func TestColonSetsSampleIndex(t *testing.T) {
	p, err := Eval("bd:3")
	require.NoError(t, err)
	haps := p.Query(pattern.Arc{Begin: pattern.Zero, End: pattern.One})
	require.Len(t, haps, 1)
	m, ok := haps[0].Value.Map()
	require.True(t, ok)
	n, ok := m["n"].Number()
	require.True(t, ok)
	assert.Equal(t, int64(3), n.Trunc())
}

// §8 property 12: whitespace/comments don't change the token stream.
func TestWhitespaceInvariance(t *testing.T) {
	assert.True(t, TrimmedEqualUpToSpans("bd   sd", "bd sd"))
	assert.True(t, TrimmedEqualUpToSpans("bd sd // trailing\n", "bd sd"))
	assert.False(t, TrimmedEqualUpToSpans("bd sd", "bd cp"))
}

func TestParseNeverPanicsOnGarbage(t *testing.T) {
	inputs := []string{"", "(((", "bd(", "bd@", "!!!", "<>", "{}%", "bd??"}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			_, _ = Parse(in)
		})
	}
}

func TestPolymeterDefaultSteps(t *testing.T) {
	p, err := Eval("{bd sd cp, hh oh}")
	require.NoError(t, err)
	haps := p.Query(pattern.Arc{Begin: pattern.Zero, End: pattern.One})
	assert.NotEmpty(t, haps)
}
