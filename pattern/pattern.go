package pattern

import "sync/atomic"

// QueryFunc is the core contract: given an Arc, return the ordered Haps
// active during it. Implementations must satisfy the invariants in §3:
// every returned Hap's Part is a subset of the query arc, Part is a
// subset of Whole when Whole is present, and two queries of the same arc
// return equal results.
type QueryFunc func(Arc) []Hap

var nodeCounter uint64

// nextNodeID assigns a monotonically increasing id to each combinator
// invocation that introduces per-cycle randomness, so its pseudo-random
// stream is stable across repeated queries of the same cycle but distinct
// from every other random node in the pattern graph.
func nextNodeID() uint64 {
	return atomic.AddUint64(&nodeCounter, 1)
}

// Pattern is an immutable, shareable handle to a time-varying value:
// a pure query function plus two pieces of structural metadata.
type Pattern struct {
	query QueryFunc
	// tactus is the pattern's intrinsic cyclic step count, used by
	// fast/slow defaults and by polymeter alignment. Zero means unknown
	// ("no natural step count", e.g. a bare signal).
	tactus Rational
}

// New builds a Pattern from a raw query function with an explicit tactus.
func New(q QueryFunc, tactus Rational) Pattern {
	return Pattern{query: q, tactus: tactus}
}

// Query runs the pattern's query function over arc.
func (p Pattern) Query(arc Arc) []Hap {
	if p.query == nil {
		return nil
	}
	return p.query(arc)
}

// Tactus returns the pattern's structural step count.
func (p Pattern) Tactus() Rational { return p.tactus }

// WithTactus returns a copy of p with a different declared tactus,
// without touching its query behavior. Used by combinators that
// explicitly re-derive step count (polymeter, timecat).
func (p Pattern) WithTactus(t Rational) Pattern {
	return Pattern{query: p.query, tactus: t}
}

// Pure yields one Hap per integer cycle touched by the query arc: each
// Hap's Whole is [floor(begin), floor(begin)+1) and its Part is that
// Whole intersected with the query. Pure never yields silence — an empty
// pattern is built with Silence, not Pure of some "empty" value.
func Pure(v Value) Pattern {
	return New(func(q Arc) []Hap {
		if q.IsEmpty() {
			return nil
		}
		var out []Hap
		for _, sub := range q.Span() {
			whole := sub.CycleArc()
			part := whole.Intersect(sub)
			if part.IsEmpty() {
				continue
			}
			out = append(out, Hap{Whole: &whole, Part: part, Value: v})
		}
		return out
	}, One)
}

// Silence always returns no Haps.
var Silence = New(func(Arc) []Hap { return nil }, Zero)

// WithLocation tags every Hap p produces with an additional source
// location, for visual highlighters that walk Hap.Context.Locations back
// to mini-notation source spans.
func WithLocation(p Pattern, loc SourceLocation) Pattern {
	return New(func(q Arc) []Hap {
		haps := p.Query(q)
		out := make([]Hap, len(haps))
		for i, h := range haps {
			out[i] = Hap{Whole: h.Whole, Part: h.Part, Value: h.Value,
				Context: h.Context.Merge(Context{Locations: []SourceLocation{loc}})}
		}
		return out
	}, p.tactus)
}

// Signal builds an analog pattern: querying it with arc q yields exactly
// one Hap with Whole = nil, Part = q, and Value = f(q.Midpoint()).
func Signal(f func(Rational) Value) Pattern {
	return New(func(q Arc) []Hap {
		if q.IsEmpty() {
			return nil
		}
		return []Hap{{Whole: nil, Part: q, Value: f(q.Midpoint())}}
	}, Zero)
}
