package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strudel-go/pattern"
)

func TestSoundNameResolvesToSetPattern(t *testing.T) {
	s := NewScope()
	s.RegisterSound("bd")
	p, err := s.Evaluate("bd", nil)
	require.NoError(t, err)
	haps := p.Query(pattern.Arc{Begin: pattern.Zero, End: pattern.One})
	require.Len(t, haps, 1)
	m, ok := haps[0].Value.Map()
	require.True(t, ok)
	name, _ := m["s"].Str()
	assert.Equal(t, "bd", name)
}

func TestUnknownNameErrors(t *testing.T) {
	s := NewScope()
	_, err := s.Evaluate("nope", nil)
	assert.Error(t, err)
}

func TestFastCombinator(t *testing.T) {
	s := NewScope()
	base := pattern.Pure(pattern.StringValue("x"))
	factor := pattern.Pure(pattern.NumberValue(pattern.FromInt(2)))
	p, err := s.Evaluate("fast", []pattern.Pattern{factor, base})
	require.NoError(t, err)
	haps := p.Query(pattern.Arc{Begin: pattern.Zero, End: pattern.One})
	assert.Len(t, haps, 2)
}

func TestScaleCombinator(t *testing.T) {
	s := NewScope()
	name := pattern.Pure(pattern.StringValue("C:major"))
	degrees := pattern.Fastcat(
		pattern.Pure(pattern.NumberValue(pattern.FromInt(0))),
		pattern.Pure(pattern.NumberValue(pattern.FromInt(7))),
	)
	p, err := s.Evaluate("scale", []pattern.Pattern{name, degrees})
	require.NoError(t, err)

	haps := p.Query(pattern.Arc{Begin: pattern.Zero, End: pattern.One})
	require.Len(t, haps, 2)
	n0, _ := haps[0].Value.Number()
	n1, _ := haps[1].Value.Number()
	v0, _ := n0.Int()
	v1, _ := n1.Int()
	assert.Equal(t, int64(0), v0)
	assert.Equal(t, int64(12), v1) // degree 7 wraps an octave up in a 7-note scale
}

func TestStringReifier(t *testing.T) {
	s := NewScope()
	called := false
	s.SetStringReifier(func(src string) (pattern.Pattern, error) {
		called = true
		return pattern.Pure(pattern.StringValue(src)), nil
	})
	p, err := s.Reify("bd sd")
	require.NoError(t, err)
	assert.True(t, called)
	assert.NotEqual(t, pattern.Silence, p)
}
