package pattern

// Stack plays all patterns simultaneously: the union of their Haps. Haps
// with equal Part.Begin are ordered by input (argument) order, which §9
// fixes as the authoritative tie-break.
func Stack(ps ...Pattern) Pattern {
	tactus := Zero
	for _, p := range ps {
		tactus = tactus.Max(p.tactus)
	}
	return New(func(q Arc) []Hap {
		var out []Hap
		for _, p := range ps {
			out = append(out, p.Query(q)...)
		}
		return out
	}, tactus)
}

// Cat (slowcat) plays one pattern per cycle: cycle n is served by pattern
// n mod k, itself slowed down so it occupies exactly that one cycle
// (i.e. the source pattern's own cycle k is what's shown on host-cycle n,
// where k = n / len(ps)).
func Cat(ps ...Pattern) Pattern {
	k := len(ps)
	if k == 0 {
		return Silence
	}
	return New(func(q Arc) []Hap {
		var out []Hap
		for _, sub := range q.Span() {
			cycle := sub.Begin.Floor()
			idx := ((cycle % int64(k)) + int64(k)) % int64(k)
			// The nth cycle of ps[idx] to show is floor(cycle/k); shift so
			// that cycle `cycle` of the output maps to that source cycle.
			srcCycle := floorDiv(cycle, int64(k))
			offset := FromInt(cycle - srcCycle)
			shifted := Late(offset, ps[idx])
			out = append(out, shifted.Query(sub)...)
		}
		return out
	}, One)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Fastcat packs k patterns into a single cycle, each occupying 1/k of it.
// Equivalent to timecat with equal weight 1 for every pattern.
func Fastcat(ps ...Pattern) Pattern {
	if len(ps) == 0 {
		return Silence
	}
	weighted := make([]WeightedPattern, len(ps))
	for i, p := range ps {
		weighted[i] = WeightedPattern{Weight: One, Pattern: p}
	}
	return Timecat(weighted)
}

// WeightedPattern pairs a pattern with its relative weight inside a
// timecat/polymeter sequence.
type WeightedPattern struct {
	Weight  Rational
	Pattern Pattern
}

// Timecat sequences patterns within one cycle proportional to their
// weights: pattern i occupies [offset_i, offset_i + w_i/total).
func Timecat(ws []WeightedPattern) Pattern {
	if len(ws) == 0 {
		return Silence
	}
	total := Zero
	for _, w := range ws {
		total = total.Add(w.Weight)
	}
	if total.num == 0 {
		return Silence
	}
	type slot struct {
		begin, end Rational
		pat        Pattern
	}
	slots := make([]slot, len(ws))
	cursor := Zero
	for i, w := range ws {
		frac := w.Weight.Div(total)
		end := cursor.Add(frac)
		slots[i] = slot{cursor, end, compress(w.Pattern, cursor, end)}
		cursor = end
	}
	return New(func(q Arc) []Hap {
		var out []Hap
		for _, sub := range q.Span() {
			for _, s := range slots {
				out = append(out, s.pat.Query(sub)...)
			}
		}
		return out
	}, total)
}

// compress maps pattern p's cycle [0,1) onto [begin,end) of the host
// cycle, repeating every host cycle. Internal helper for Timecat.
func compress(p Pattern, begin, end Rational) Pattern {
	dur := end.Sub(begin)
	if dur.Lte(Zero) {
		return Silence
	}
	return New(func(q Arc) []Hap {
		var out []Hap
		for _, sub := range q.Span() {
			cyc := sub.CycleArc()
			slotArc := Arc{cyc.Begin.Add(begin), cyc.Begin.Add(end)}
			clipped := slotArc.Intersect(sub)
			if clipped.IsEmpty() {
				continue
			}
			toInner := func(t Rational) Rational {
				return t.Sub(cyc.Begin).Sub(begin).Div(dur).Add(cyc.Begin)
			}
			fromInner := func(t Rational) Rational {
				return t.Sub(cyc.Begin).Mul(dur).Add(begin).Add(cyc.Begin)
			}
			innerArc := clipped.WithTime(toInner)
			haps := p.Query(innerArc)
			for _, h := range haps {
				out = append(out, h.withTime(fromInner))
			}
		}
		return out
	}, p.tactus)
}

// Polymeter shares a single cycle length across patterns with differing
// tactus: each pattern is resampled so its own tactus maps to `steps`
// steps per host cycle. steps<=0 uses the largest tactus among ps (One if
// none of them has a positive tactus).
func Polymeter(ps []Pattern, steps Rational) Pattern {
	if len(ps) == 0 {
		return Silence
	}
	if steps.Lte(Zero) {
		steps = ps[0].tactus
		for _, p := range ps[1:] {
			steps = steps.Max(p.tactus)
		}
		if steps.Lte(Zero) {
			steps = One
		}
	}
	rescaled := make([]Pattern, len(ps))
	for i, p := range ps {
		t := p.tactus
		if t.Lte(Zero) {
			t = One
		}
		rescaled[i] = Fast(steps.Div(t), p)
	}
	return Stack(rescaled...).WithTactus(steps)
}

// Polyrhythm shares cycle length across patterns with no tactus
// rescaling — it is just Stack with a declared tactus equal to the max
// of its inputs.
func Polyrhythm(ps ...Pattern) Pattern {
	return Stack(ps...)
}

// WeightedCat is the cycle-granular analogue of Timecat: pattern i
// occupies w_i whole cycles out of a total-cycle period, instead of a
// fraction of a single cycle. It is exactly Timecat stretched out by the
// total weight (Slow(total, Timecat(ws))), which falls out of the fact
// that slowing a packed sequence down by its own total duration turns
// "fraction of one cycle" into "whole cycles, played once per period" —
// the semantics the mini-notation grammar's `<e1 e2@2 e3>` needs.
func WeightedCat(ws []WeightedPattern) Pattern {
	if len(ws) == 0 {
		return Silence
	}
	total := Zero
	for _, w := range ws {
		total = total.Add(w.Weight)
	}
	if total.num == 0 {
		return Silence
	}
	return Slow(total, Timecat(ws))
}
