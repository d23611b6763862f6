package pattern

// Hurry speeds p up by k and multiplies its "speed" parameter by k to
// match, so a sample sink also plays back faster rather than just
// triggering more often. Supplemented per SPEC_FULL.md §13.
func Hurry(k Rational, p Pattern) Pattern {
	sped := Fast(k, p)
	return WithValue(sped, func(v Value) Value {
		m := v.AsMap()
		cur := One
		if existing, ok := m["speed"]; ok {
			if r, isNum := existing.Number(); isNum {
				cur = r
			}
		}
		out := make(map[string]Value, len(m)+1)
		for key, val := range m {
			out[key] = val
		}
		out["speed"] = NumberValue(cur.Mul(k))
		return MapValue(out)
	})
}

// Segment samples p at n equally spaced points per cycle, turning an
// analog pattern (sine, rand) into a discrete one usable inside
// struct/euclid-driven rhythms. Supplemented per SPEC_FULL.md §13.
func Segment(n Rational, p Pattern) Pattern {
	return Struct(Fast(n, Pure(BoolValue(true))), p)
}

// Range rescales a [0,1)-valued analog pattern into [lo,hi). Supplemented
// per SPEC_FULL.md §13.
func Range(lo, hi Rational, p Pattern) Pattern {
	span := hi.Sub(lo)
	return WithValue(p, func(v Value) Value {
		r, ok := v.Number()
		if !ok {
			return v
		}
		return NumberValue(lo.Add(r.Mul(span)))
	})
}
