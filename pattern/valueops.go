package pattern

// combineStructured intersects the Haps of a and b in time and merges
// their values with combine, keeping a's Whole/Context as the surviving
// structure (Tidal's "structure from the left" convention). Pairs whose
// Parts don't overlap are skipped; a pair whose values combine rejects
// (ok=false) is dropped and reported as a TypeError diagnostic.
func combineStructured(a, b Pattern, combine func(av, bv Value) (Value, bool)) Pattern {
	return New(func(q Arc) []Hap {
		ahaps := a.Query(q)
		bhaps := b.Query(q)
		var out []Hap
		for _, ah := range ahaps {
			for _, bh := range bhaps {
				part := ah.Part.Intersect(bh.Part)
				if part.IsEmpty() {
					continue
				}
				merged, ok := combine(ah.Value, bh.Value)
				if !ok {
					reportType("value combinator applied to incompatible values")
					continue
				}
				out = append(out, Hap{
					Whole:   ah.Whole,
					Part:    part,
					Value:   merged,
					Context: ah.Context.Merge(bh.Context),
				})
			}
		}
		return out
	}, a.tactus)
}

func numericOp(op func(x, y Rational) Rational) func(Value, Value) (Value, bool) {
	return func(a, b Value) (Value, bool) {
		return a.BinaryNumeric(b, op)
	}
}

// Add adds b's numeric/map values onto a's, aligned in time.
func Add(a, b Pattern) Pattern {
	return combineStructured(a, b, numericOp(func(x, y Rational) Rational { return x.Add(y) }))
}

// Sub subtracts b from a.
func Sub(a, b Pattern) Pattern {
	return combineStructured(a, b, numericOp(func(x, y Rational) Rational { return x.Sub(y) }))
}

// Mul multiplies a by b.
func Mul(a, b Pattern) Pattern {
	return combineStructured(a, b, numericOp(func(x, y Rational) Rational { return x.Mul(y) }))
}

// Div divides a by b.
func Div(a, b Pattern) Pattern {
	return combineStructured(a, b, numericOp(func(x, y Rational) Rational { return x.Div(y) }))
}

// AddNum is the common case of adding a constant to every value of p.
func AddNum(p Pattern, n Rational) Pattern { return Add(p, Pure(NumberValue(n))) }
func SubNum(p Pattern, n Rational) Pattern { return Sub(p, Pure(NumberValue(n))) }
func MulNum(p Pattern, n Rational) Pattern { return Mul(p, Pure(NumberValue(n))) }
func DivNum(p Pattern, n Rational) Pattern { return Div(p, Pure(NumberValue(n))) }

// Set overwrites every value of p with v, keeping p's timing.
func Set(p Pattern, v Value) Pattern {
	return WithValue(p, func(Value) Value { return v })
}

// WithValue maps f over every Hap's value.
func WithValue(p Pattern, f func(Value) Value) Pattern {
	return New(func(q Arc) []Hap {
		haps := p.Query(q)
		out := make([]Hap, len(haps))
		for i, h := range haps {
			out[i] = h.withValue(f)
		}
		return out
	}, p.tactus)
}

// Fmap is an alias for WithValue matching the functor-style naming used
// elsewhere in the combinator set.
func Fmap(f func(Value) Value, p Pattern) Pattern { return WithValue(p, f) }

// UnionLeft merges a and b's values as maps, aligned in time, with a's
// keys taking priority on conflict (the `∪`/left-biased merge operator).
func UnionLeft(a, b Pattern) Pattern {
	return combineStructured(a, b, func(av, bv Value) (Value, bool) {
		return bv.Merge(av), true
	})
}

// UnionRight merges a and b's values as maps, aligned in time, with b's
// keys taking priority on conflict (the `#`/right-biased merge operator).
func UnionRight(a, b Pattern) Pattern {
	return combineStructured(a, b, func(av, bv Value) (Value, bool) {
		return av.Merge(bv), true
	})
}
