package pattern

// Fast speeds p up by k: the query arc is scaled up by k before querying
// p, and the resulting Haps' times are divided by k. fast(0) is a
// degenerate case (spec.md §9): it reports a TypeError and degrades to
// Silence rather than producing NaN-like garbage or panicking.
func Fast(k Rational, p Pattern) Pattern {
	if k.num == 0 {
		return New(func(q Arc) []Hap {
			if !q.IsEmpty() {
				reportType("fast(0): degenerate speed factor, pattern silenced")
			}
			return nil
		}, p.tactus)
	}
	if k.Lt(Zero) {
		return Fast(k.Neg(), Rev(p))
	}
	tactus := p.tactus
	return New(func(q Arc) []Hap {
		scaled := q.Scale(k)
		haps := p.Query(scaled)
		out := make([]Hap, 0, len(haps))
		for _, h := range haps {
			out = append(out, h.withTime(func(t Rational) Rational { return t.Div(k) }))
		}
		return out
	}, tactus)
}

// Slow is fast(1/k).
func Slow(k Rational, p Pattern) Pattern {
	if k.num == 0 {
		return New(func(q Arc) []Hap {
			if !q.IsEmpty() {
				reportType("slow(0): degenerate speed factor, pattern silenced")
			}
			return nil
		}, p.tactus)
	}
	return Fast(One.Div(k), p)
}

// Early shifts the query forward by t (i.e. plays t cycles sooner) and
// shifts returned Haps back by t so their times stay in the caller's
// frame.
func Early(t Rational, p Pattern) Pattern {
	return New(func(q Arc) []Hap {
		haps := p.Query(q.Shift(t))
		out := make([]Hap, 0, len(haps))
		for _, h := range haps {
			out = append(out, h.withTime(func(x Rational) Rational { return x.Sub(t) }))
		}
		return out
	}, p.tactus)
}

// Late shifts playback back by t (i.e. delays it).
func Late(t Rational, p Pattern) Pattern {
	return Early(t.Neg(), p)
}

// Rev reflects p within each cycle it is queried over. For every integer
// cycle the query arc touches, the corresponding sub-arc is mirrored
// around the cycle's midpoint, p is queried with the mirrored arc, and
// the results are reflected back into the caller's time frame.
func Rev(p Pattern) Pattern {
	return New(func(q Arc) []Hap {
		var out []Hap
		for _, sub := range q.Span() {
			cyc := sub.CycleArc()
			reflect := func(t Rational) Rational {
				return cyc.Begin.Add(cyc.End).Sub(t)
			}
			mirrored := Arc{reflect(sub.End), reflect(sub.Begin)}
			haps := p.Query(mirrored)
			for _, h := range haps {
				out = append(out, h.withTime(reflect))
			}
		}
		return out
	}, p.tactus)
}

// Ply replaces each Hap of p by n equal subdivisions of its Whole, each
// carrying the same value. Haps with no Whole (analog) pass through
// unchanged since there is nothing to subdivide.
func Ply(n int, p Pattern) Pattern {
	if n < 1 {
		n = 1
	}
	return New(func(q Arc) []Hap {
		haps := p.Query(q)
		var out []Hap
		for _, h := range haps {
			if h.Whole == nil {
				out = append(out, h)
				continue
			}
			whole := *h.Whole
			step := whole.Duration().Div(FromInt(int64(n)))
			for i := 0; i < n; i++ {
				b := whole.Begin.Add(step.Mul(FromInt(int64(i))))
				e := b.Add(step)
				sub := Arc{b, e}
				part := sub.Intersect(q)
				if part.IsEmpty() {
					continue
				}
				out = append(out, Hap{Whole: &sub, Part: part, Value: h.Value, Context: h.Context})
			}
		}
		return out
	}, p.tactus)
}

// Iter rotates each cycle by k/n, k incrementing by one per cycle
// (cycle 0 unrotated, cycle 1 rotated by 1/n, ... wrapping at cycle n).
func Iter(n int, p Pattern) Pattern {
	return iterGeneric(n, p, false)
}

// IterBack is Iter with the rotation direction reversed.
func IterBack(n int, p Pattern) Pattern {
	return iterGeneric(n, p, true)
}

// FastPattern is Fast with the factor itself a pattern: each cycle, the
// factor pattern is sampled once (its first Hap in that cycle, defaulting
// to 1 if silent) and Fast is applied with that cycle's value. This is
// what mini-notation's `e*<2 3>` needs — a speed factor that itself
// varies cycle to cycle.
func FastPattern(factor Pattern, p Pattern) Pattern {
	return New(func(q Arc) []Hap {
		var out []Hap
		for _, sub := range q.Span() {
			k := sampleFactor(factor, sub)
			out = append(out, Fast(k, p).Query(sub)...)
		}
		return out
	}, p.tactus)
}

// SlowPattern is Slow with the factor itself a pattern; see FastPattern.
func SlowPattern(factor Pattern, p Pattern) Pattern {
	return New(func(q Arc) []Hap {
		var out []Hap
		for _, sub := range q.Span() {
			k := sampleFactor(factor, sub)
			out = append(out, Slow(k, p).Query(sub)...)
		}
		return out
	}, p.tactus)
}

// sampleFactor reads a single numeric value out of factor for the cycle
// sub falls in, defaulting to One if factor is silent there.
func sampleFactor(factor Pattern, sub Arc) Rational {
	cyc := sub.CycleArc()
	haps := factor.Query(cyc)
	for _, h := range haps {
		if r, ok := h.Value.Number(); ok {
			return r
		}
	}
	return One
}

func iterGeneric(n int, p Pattern, backward bool) Pattern {
	if n < 1 {
		n = 1
	}
	return New(func(q Arc) []Hap {
		var out []Hap
		for _, sub := range q.Span() {
			cycle := sub.Begin.Floor()
			k := ((cycle % int64(n)) + int64(n)) % int64(n)
			offset := FromInt(k).Div(FromInt(int64(n)))
			if backward {
				offset = offset.Neg()
			}
			shifted := Early(offset, p)
			out = append(out, shifted.Query(sub)...)
		}
		return out
	}, p.tactus)
}
