package pattern

// Struct keeps boolPat's event structure: wherever boolPat yields a
// truthy Hap, emit a Hap with the same timing whose value is sampled
// from valPat at the boolean Hap's Whole.Begin (falling back to Part.Begin
// for analog boolean Haps with no Whole).
func Struct(boolPat, valPat Pattern) Pattern {
	return New(func(q Arc) []Hap {
		boolHaps := boolPat.Query(q)
		var out []Hap
		for _, bh := range boolHaps {
			if !bh.Value.Truthy() {
				continue
			}
			sampleAt := bh.wholeOrPart().Begin
			valHaps := valPat.Query(Arc{sampleAt, sampleAt.NextSam().Min(sampleAt.Add(One))})
			val, ctx, ok := valueAtOrNearest(valHaps, sampleAt)
			if !ok {
				continue
			}
			out = append(out, Hap{Whole: bh.Whole, Part: bh.Part, Value: val, Context: bh.Context.Merge(ctx)})
		}
		return out
	}, boolPat.tactus)
}

// valueAtOrNearest picks the Hap from haps whose Part contains t, falling
// back to the first Hap whose Part begins at or after t.
func valueAtOrNearest(haps []Hap, t Rational) (Value, Context, bool) {
	for _, h := range haps {
		if t.Gte(h.Part.Begin) && t.Lt(h.Part.End) {
			return h.Value, h.Context, true
		}
	}
	if len(haps) > 0 {
		return haps[0].Value, haps[0].Context, true
	}
	return Value{}, Context{}, false
}

// Mask keeps p's Haps only where boolPat is truthy at their onset; the
// inverse of Struct (it filters an existing pattern rather than donating
// structure to a value pattern).
func Mask(boolPat, p Pattern) Pattern {
	return New(func(q Arc) []Hap {
		haps := p.Query(q)
		var out []Hap
		for _, h := range haps {
			t := h.wholeOrPart().Begin
			boolHaps := boolPat.Query(Arc{t, t.NextSam().Min(t.Add(One))})
			truthy := false
			for _, bh := range boolHaps {
				if t.Gte(bh.Part.Begin) && t.Lt(bh.Part.End) && bh.Value.Truthy() {
					truthy = true
					break
				}
			}
			if truthy {
				out = append(out, h)
			}
		}
		return out
	}, p.tactus)
}

// Bjorklund distributes `pulses` hits as evenly as possible across
// `steps` slots using Bjorklund's recursive two-list algorithm (the
// standard formulation behind E(k,n): repeatedly pair off the remainder
// group against the front of the main group until at most one remainder
// group is left), returning a boolean slice (true = hit). Rotated by
// `rotation` positions.
func Bjorklund(pulses, steps, rotation int) []bool {
	if steps <= 0 {
		return nil
	}
	if pulses <= 0 {
		return make([]bool, steps)
	}
	if pulses >= steps {
		out := make([]bool, steps)
		for i := range out {
			out[i] = true
		}
		return out
	}

	a := make([][]bool, pulses)
	for i := range a {
		a[i] = []bool{true}
	}
	b := make([][]bool, steps-pulses)
	for i := range b {
		b[i] = []bool{false}
	}

	for len(b) > 1 {
		n := len(a)
		if len(b) < n {
			n = len(b)
		}
		newA := make([][]bool, n)
		for i := 0; i < n; i++ {
			newA[i] = append(append([]bool{}, a[i]...), b[i]...)
		}
		var remainder [][]bool
		if len(a) > n {
			remainder = a[n:]
		} else {
			remainder = b[n:]
		}
		a, b = newA, remainder
	}

	pattern := make([]bool, 0, steps)
	for _, g := range a {
		pattern = append(pattern, g...)
	}
	for _, g := range b {
		pattern = append(pattern, g...)
	}

	if rotation != 0 {
		n := len(pattern)
		rotation = ((rotation % n) + n) % n
		pattern = append(pattern[rotation:], pattern[:rotation]...)
	}
	return pattern
}

// Euclid builds a boolean pattern of n steps per cycle with k hits
// distributed per Bjorklund, rotated by rot positions.
func Euclid(k, n, rot int) Pattern {
	hits := Bjorklund(k, n, rot)
	pats := make([]Pattern, len(hits))
	for i, h := range hits {
		pats[i] = Pure(BoolValue(h))
	}
	return Fastcat(pats...)
}

// EuclidPattern is Euclid/Struct with the k, n, r operands themselves
// patterns rather than fixed ints: each cycle, k/n/r are sampled (r
// defaulting to 0 when rPat is nil) and the resulting Euclidean rhythm
// structures valPat for that cycle only. This is what mini-notation's
// `e(<3 5>,8)` needs.
func EuclidPattern(kPat, nPat, rPat Pattern, valPat Pattern) Pattern {
	return New(func(q Arc) []Hap {
		var out []Hap
		for _, sub := range q.Span() {
			cyc := sub.CycleArc()
			k := int(sampleFactor(kPat, cyc).Trunc())
			n := int(sampleFactor(nPat, cyc).Trunc())
			r := 0
			if rPat.query != nil {
				r = int(sampleFactor(rPat, cyc).Trunc())
			}
			out = append(out, Struct(Euclid(k, n, r), valPat).Query(sub)...)
		}
		return out
	}, valPat.tactus)
}

// Off stacks p with a copy transformed by f and delayed by t:
// stack(p, late(t, f(p))).
func Off(t Rational, f func(Pattern) Pattern, p Pattern) Pattern {
	return Stack(p, Late(t, f(p)))
}

// Every applies f to p on every nth cycle (cycle 0, n, 2n, ...), passing
// p through unchanged otherwise.
func Every(n int, f func(Pattern) Pattern, p Pattern) Pattern {
	return EveryOffset(n, 0, f, p)
}

// EveryOffset applies f to p whenever (cycle - offset) mod n == 0.
func EveryOffset(n, offset int, f func(Pattern) Pattern, p Pattern) Pattern {
	if n <= 0 {
		return p
	}
	transformed := f(p)
	return New(func(q Arc) []Hap {
		var out []Hap
		for _, sub := range q.Span() {
			cycle := sub.Begin.Floor()
			k := (((cycle - int64(offset)) % int64(n)) + int64(n)) % int64(n)
			if k == 0 {
				out = append(out, transformed.Query(sub)...)
			} else {
				out = append(out, p.Query(sub)...)
			}
		}
		return out
	}, p.tactus)
}

// Chunk splits each cycle into n equal chunks and applies f to the kth
// chunk, k advancing by one every cycle (wrapping modulo n); the other
// n-1 chunks pass through unchanged.
func Chunk(n int, f func(Pattern) Pattern, p Pattern) Pattern {
	if n < 1 {
		return p
	}
	transformed := f(p)
	return New(func(q Arc) []Hap {
		var out []Hap
		for _, sub := range q.Span() {
			cyc := sub.CycleArc()
			cycle := sub.Begin.Floor()
			k := ((cycle % int64(n)) + int64(n)) % int64(n)
			width := cyc.Duration().Div(FromInt(int64(n)))
			chunkBegin := cyc.Begin.Add(width.Mul(FromInt(k)))
			chunkEnd := chunkBegin.Add(width)
			chunkArc := Arc{chunkBegin, chunkEnd}.Intersect(sub)
			rest := sub
			if !chunkArc.IsEmpty() {
				out = append(out, transformed.Query(chunkArc)...)
			}
			// Remaining portions of sub outside chunkArc come from p.
			if chunkArc.IsEmpty() {
				out = append(out, p.Query(rest)...)
				continue
			}
			if sub.Begin.Lt(chunkArc.Begin) {
				out = append(out, p.Query(Arc{sub.Begin, chunkArc.Begin})...)
			}
			if chunkArc.End.Lt(sub.End) {
				out = append(out, p.Query(Arc{chunkArc.End, sub.End})...)
			}
		}
		return out
	}, p.tactus)
}

// Within applies f only inside the given sub-arc of each cycle, leaving
// the remainder of p untouched. A direct generalization of Chunk (the
// spec names this combinator family without spelling out the generic
// form — see SPEC_FULL.md §13).
func Within(begin, end Rational, f func(Pattern) Pattern, p Pattern) Pattern {
	transformed := f(p)
	return New(func(q Arc) []Hap {
		var out []Hap
		for _, sub := range q.Span() {
			cyc := sub.CycleArc()
			winArc := Arc{cyc.Begin.Add(begin), cyc.Begin.Add(end)}.Intersect(sub)
			if !winArc.IsEmpty() {
				out = append(out, transformed.Query(winArc)...)
			}
			if sub.Begin.Lt(winArc.Begin) || winArc.IsEmpty() {
				lo := sub.Begin
				hi := sub.End
				if !winArc.IsEmpty() {
					hi = winArc.Begin
				}
				if lo.Lt(hi) {
					out = append(out, p.Query(Arc{lo, hi})...)
				}
			}
			if !winArc.IsEmpty() && winArc.End.Lt(sub.End) {
				out = append(out, p.Query(Arc{winArc.End, sub.End})...)
			}
		}
		return out
	}, p.tactus)
}
