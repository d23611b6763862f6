package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arc(b, e int64) Arc { return Arc{FromInt(b), FromInt(e)} }
func arcf(bn, bd, en, ed int64) Arc {
	return Arc{NewRational(bn, bd), NewRational(en, ed)}
}

// 1. silence.query(a) == [].
func TestSilenceIsEmpty(t *testing.T) {
	require.Empty(t, Silence.Query(arc(0, 1)))
}

// 2. pure(v).query([0,1)) == one Hap covering the cycle.
func TestPureOneCycle(t *testing.T) {
	p := Pure(StringValue("bd"))
	haps := p.Query(arc(0, 1))
	require.Len(t, haps, 1)
	assert.True(t, haps[0].Whole.Begin.Eq(Zero))
	assert.True(t, haps[0].Whole.End.Eq(One))
	assert.True(t, haps[0].Part.Begin.Eq(Zero))
	assert.True(t, haps[0].Part.End.Eq(One))
	s, _ := haps[0].Value.Str()
	assert.Equal(t, "bd", s)
}

// E1. pure("bd").query([0,2)) yields two Haps.
func TestPureTwoCycles(t *testing.T) {
	p := Pure(StringValue("bd"))
	haps := p.Query(arc(0, 2))
	require.Len(t, haps, 2)
	assert.True(t, haps[0].Whole.Begin.Eq(Zero))
	assert.True(t, haps[0].Whole.End.Eq(One))
	assert.True(t, haps[1].Whole.Begin.Eq(One))
	assert.True(t, haps[1].Whole.End.Eq(FromInt(2)))
}

// 3. fast(1, p) === p, fast(k, fast(m, p)) === fast(k*m, p).
func TestFastIdentityAndAssoc(t *testing.T) {
	p := Pure(StringValue("x"))
	q := arc(0, 3)
	plain := p.Query(q)
	viaFast1 := Fast(One, p).Query(q)
	require.Equal(t, len(plain), len(viaFast1))
	for i := range plain {
		assert.True(t, plain[i].Whole.Begin.Eq(viaFast1[i].Whole.Begin))
	}

	km := Fast(FromInt(2), Fast(FromInt(3), p)).Query(q)
	direct := Fast(FromInt(6), p).Query(q)
	require.Equal(t, len(direct), len(km))
	for i := range direct {
		assert.True(t, direct[i].Whole.Begin.Eq(km[i].Whole.Begin), "index %d", i)
		assert.True(t, direct[i].Whole.End.Eq(km[i].Whole.End), "index %d", i)
	}
}

// 4. slow(k, p) === fast(1/k, p).
func TestSlowIsFastInverse(t *testing.T) {
	p := Pure(StringValue("x"))
	q := arc(0, 4)
	a := Slow(FromInt(2), p).Query(q)
	b := Fast(NewRational(1, 2), p).Query(q)
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.True(t, a[i].Whole.Begin.Eq(b[i].Whole.Begin))
	}
}

// 5. rev(rev(p)) === p.
func TestRevInvolution(t *testing.T) {
	p := Fastcat(Pure(StringValue("a")), Pure(StringValue("b")), Pure(StringValue("c")))
	q := arc(0, 2)
	orig := p.Query(q)
	twice := Rev(Rev(p)).Query(q)
	require.Equal(t, len(orig), len(twice))
	for i := range orig {
		assert.True(t, orig[i].Part.Begin.Eq(twice[i].Part.Begin), "index %d", i)
		assert.True(t, orig[i].Part.End.Eq(twice[i].Part.End), "index %d", i)
	}
}

// 6. stack([p]) === p; fastcat([p]) === p.
func TestSingletonIdentities(t *testing.T) {
	p := Pure(StringValue("bd"))
	q := arc(0, 2)
	base := p.Query(q)
	st := Stack(p).Query(q)
	fc := Fastcat(p).Query(q)
	require.Equal(t, len(base), len(st))
	require.Equal(t, len(base), len(fc))
}

// E2. fastcat([pure("a"), pure("b")]).query([0,1)).
func TestFastcatTwo(t *testing.T) {
	p := Fastcat(Pure(StringValue("a")), Pure(StringValue("b")))
	haps := p.Query(arc(0, 1))
	require.Len(t, haps, 2)
	assert.True(t, haps[0].Whole.Begin.Eq(Zero))
	assert.True(t, haps[0].Whole.End.Eq(Half))
	assert.True(t, haps[1].Whole.Begin.Eq(Half))
	assert.True(t, haps[1].Whole.End.Eq(One))
	a, _ := haps[0].Value.Str()
	b, _ := haps[1].Value.Str()
	assert.Equal(t, "a", a)
	assert.Equal(t, "b", b)
}

// E3. stack of two fastcats with literal pure("~") rests — four Haps.
func TestStackLiteralRestsKept(t *testing.T) {
	p := Stack(
		Fastcat(Pure(StringValue("bd")), Pure(StringValue("~"))),
		Fastcat(Pure(StringValue("~")), Pure(StringValue("cp"))),
	)
	haps := p.Query(arc(0, 1))
	assert.Len(t, haps, 4)
}

// 9. every returned Hap satisfies part ⊆ query and part ⊆ whole.
func TestInvariantsHoldAcrossCombinators(t *testing.T) {
	p := Fast(FromInt(3), Rev(Fastcat(Pure(IntValue(1)), Pure(IntValue(2)), Pure(IntValue(3)))))
	q := arcf(1, 3, 7, 3)
	haps := p.Query(q)
	for _, h := range haps {
		assert.True(t, h.Part.Begin.Gte(q.Begin))
		assert.True(t, h.Part.End.Lte(q.End))
		if h.Whole != nil {
			assert.True(t, h.Part.Begin.Gte(h.Whole.Begin))
			assert.True(t, h.Part.End.Lte(h.Whole.End))
		}
	}
}

// 10. determinism.
func TestDeterministic(t *testing.T) {
	p := Euclid(3, 8, 0)
	q := arc(0, 4)
	a := p.Query(q)
	b := p.Query(q)
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.True(t, a[i].Part.Begin.Eq(b[i].Part.Begin))
		assert.Equal(t, a[i].Value.Truthy(), b[i].Value.Truthy())
	}
}

// E5. bd(3,8) euclidean pattern is 10010010.
func TestEuclid3_8(t *testing.T) {
	hits := Bjorklund(3, 8, 0)
	require.Len(t, hits, 8)
	want := []bool{true, false, false, true, false, false, true, false}
	assert.Equal(t, want, hits)
}

func TestStructKeepsBoolStructure(t *testing.T) {
	boolPat := Euclid(3, 8, 0)
	valPat := Pure(StringValue("bd"))
	p := Struct(boolPat, valPat)
	haps := p.Query(arc(0, 1))
	assert.Len(t, haps, 3)
	for _, h := range haps {
		s, _ := h.Value.Str()
		assert.Equal(t, "bd", s)
	}
}

func TestRandDeterministicPerCycle(t *testing.T) {
	p := Irand(8)
	first := p.Query(arc(0, 1))
	second := p.Query(arc(0, 1))
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.True(t, first[0].Value.num.Eq(second[0].Value.num) || first[0].Value.String() == second[0].Value.String())
}

func TestDegradeByDeterministic(t *testing.T) {
	p := Fast(FromInt(16), Pure(StringValue("x")))
	d := DegradeBy(Half, p)
	a := d.Query(arc(0, 4))
	b := d.Query(arc(0, 4))
	require.Equal(t, len(a), len(b))
}

func TestAddBroadcastsOverMaps(t *testing.T) {
	base := Pure(MapValue(map[string]Value{"n": IntValue(1)}))
	plus := AddNum(base, FromInt(12))
	haps := plus.Query(arc(0, 1))
	require.Len(t, haps, 1)
	m, ok := haps[0].Value.Map()
	require.True(t, ok)
	n, ok := m["n"].Number()
	require.True(t, ok)
	assert.Equal(t, int64(13), n.Floor())
}

func TestFastZeroReportsDiagnosticAndSilences(t *testing.T) {
	drain(t)
	p := Fast(Zero, Pure(StringValue("x")))
	haps := p.Query(arc(0, 1))
	assert.Empty(t, haps)
	select {
	case d := <-Diagnostics:
		assert.Equal(t, KindTypeError, d.Kind)
	default:
		t.Fatal("expected a diagnostic to be reported")
	}
}

func drain(t *testing.T) {
	t.Helper()
	for {
		select {
		case <-Diagnostics:
		default:
			return
		}
	}
}
