package pattern

// splitmix64 is a fast, well-mixed 64-bit hash with good avalanche
// behavior for small inputs — exactly what per-cycle pattern seeding
// needs (spec.md §9: "a hash designed for avalanche at small inputs").
// It is deterministic across platforms, unlike a language's built-in
// PRNG, which spec.md explicitly warns against relying on.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z = z ^ (z >> 31)
	return z
}

// seedFor derives a per-cycle seed from a node id and a cycle index.
func seedFor(nodeID uint64, cycle int64) uint64 {
	return splitmix64(nodeID ^ splitmix64(uint64(cycle)))
}

// hashFloat maps a hash into [0,1) as a Rational with a fixed-precision
// denominator, keeping pattern-time arithmetic exact downstream.
func hashFloat(h uint64) Rational {
	const precision = 1 << 32
	return NewRational(int64(h%precision), precision)
}

// Rand is an analog pattern yielding a deterministic pseudo-random float
// in [0,1) per cycle, stable across repeated queries of the same cycle.
func Rand() Pattern {
	id := nextNodeID()
	return New(func(q Arc) []Hap {
		if q.IsEmpty() {
			return nil
		}
		cycle := q.Begin.Floor()
		v := hashFloat(seedFor(id, cycle))
		return []Hap{{Whole: nil, Part: q, Value: NumberValue(v)}}
	}, Zero)
}

// Irand is an analog pattern yielding a deterministic pseudo-random
// integer in [0,n).
func Irand(n int) Pattern {
	if n < 1 {
		n = 1
	}
	id := nextNodeID()
	return New(func(q Arc) []Hap {
		if q.IsEmpty() {
			return nil
		}
		cycle := q.Begin.Floor()
		h := seedFor(id, cycle)
		v := int64(h % uint64(n))
		return []Hap{{Whole: nil, Part: q, Value: IntValue(v)}}
	}, Zero)
}

// Choose picks one of vs per cycle, uniformly, deterministically.
func Choose(vs []Value) Pattern {
	if len(vs) == 0 {
		return Silence
	}
	id := nextNodeID()
	return New(func(q Arc) []Hap {
		if q.IsEmpty() {
			return nil
		}
		cycle := q.Begin.Floor()
		h := seedFor(id, cycle)
		idx := int(h % uint64(len(vs)))
		return []Hap{{Whole: nil, Part: q, Value: vs[idx]}}
	}, Zero)
}

// ChooseBy picks one of xs per the value sampled from selector (expected
// to yield numbers in [0,1), e.g. Rand()), deterministically mapping
// selector's stream into an index.
func ChooseBy(selector Pattern, xs []Value) Pattern {
	if len(xs) == 0 {
		return Silence
	}
	return New(func(q Arc) []Hap {
		sel := selector.Query(q)
		var out []Hap
		for _, s := range sel {
			r, ok := s.Value.Number()
			if !ok {
				continue
			}
			idx := int(r.Float64() * float64(len(xs)))
			if idx < 0 {
				idx = 0
			}
			if idx >= len(xs) {
				idx = len(xs) - 1
			}
			out = append(out, Hap{Whole: s.Whole, Part: s.Part, Value: xs[idx], Context: s.Context})
		}
		return out
	}, Zero)
}

// hapDraw derives the deterministic coin-flip value for a Hap given a
// node id: it mixes the Hap's onset time and its index within the query
// result so that multiple Haps sharing one onset don't share one draw.
func hapDraw(id uint64, h Hap, i int) Rational {
	t := h.wholeOrPart().Begin
	cycle := t.Floor()
	frac := t.Sub(FromInt(cycle))
	mix := uint64(cycle)*1000003 + uint64(frac.num)*101 + uint64(frac.den) + uint64(i)
	return hashFloat(seedFor(id, int64(mix)))
}

// Degrade randomly drops ~50% of p's Haps, deterministically per cycle.
func Degrade(p Pattern) Pattern {
	return DegradeBy(Half, p)
}

// DegradeBy randomly drops each Hap of p with probability prob (in
// [0,1]), using a per-node, per-onset hash so the same Hap is always
// dropped or kept across repeated queries.
func DegradeBy(prob Rational, p Pattern) Pattern {
	id := nextNodeID()
	return New(func(q Arc) []Hap {
		haps := p.Query(q)
		var out []Hap
		for i, h := range haps {
			if hapDraw(id, h, i).Gte(prob) {
				out = append(out, h)
			}
		}
		return out
	}, p.tactus)
}

// SometimesBy applies f to a prob-fraction of p's Haps and leaves the
// rest untouched, using one shared coin flip per Hap so a Hap is never
// both transformed and passed through.
func SometimesBy(prob Rational, f func(Pattern) Pattern, p Pattern) Pattern {
	id := nextNodeID()
	transformed := f(p)
	return New(func(q Arc) []Hap {
		plain := p.Query(q)
		var changed []Hap
		if len(plain) > 0 {
			changed = transformed.Query(q)
		}
		byOnset := make(map[Rational]Hap, len(changed))
		for _, h := range changed {
			byOnset[h.wholeOrPart().Begin] = h
		}
		var out []Hap
		for i, h := range plain {
			if hapDraw(id, h, i).Lt(prob) {
				if th, ok := byOnset[h.wholeOrPart().Begin]; ok {
					out = append(out, th)
					continue
				}
			}
			out = append(out, h)
		}
		return out
	}, p.tactus)
}

// Sometimes applies f to roughly half of p's Haps.
func Sometimes(f func(Pattern) Pattern, p Pattern) Pattern {
	return SometimesBy(Half, f, p)
}

// RandCat picks one of ps per cycle, uniformly and deterministically,
// playing that cycle of the chosen pattern in place — the `|` random
// choice operator of mini-notation. Unlike Cat, the choice is not a
// deterministic round-robin: it is reseeded per cycle from this node's
// id, so two `|` expressions in the same source pick independently.
func RandCat(ps []Pattern) Pattern {
	if len(ps) == 0 {
		return Silence
	}
	id := nextNodeID()
	return New(func(q Arc) []Hap {
		var out []Hap
		for _, sub := range q.Span() {
			cycle := sub.Begin.Floor()
			h := seedFor(id, cycle)
			idx := int(h % uint64(len(ps)))
			out = append(out, ps[idx].Query(sub)...)
		}
		return out
	}, One)
}
