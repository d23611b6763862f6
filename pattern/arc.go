package pattern

// Arc is a half-open time interval [Begin, End) measured in cycles.
type Arc struct {
	Begin, End Rational
}

// NewArc builds an Arc. It does not enforce Begin <= End; callers that
// need an always-valid arc should check IsEmpty.
func NewArc(begin, end Rational) Arc { return Arc{begin, end} }

// IsEmpty reports whether the arc has zero or negative duration.
func (a Arc) IsEmpty() bool { return a.End.Lte(a.Begin) }

// Duration returns End - Begin.
func (a Arc) Duration() Rational { return a.End.Sub(a.Begin) }

// Midpoint returns the arc's midpoint, used to sample analog patterns.
func (a Arc) Midpoint() Rational { return a.Begin.Add(a.End).Div(FromInt(2)) }

// WithTime maps both endpoints through f, used by time-scaling combinators.
func (a Arc) WithTime(f func(Rational) Rational) Arc {
	return Arc{f(a.Begin), f(a.End)}
}

// Shift translates the arc by d.
func (a Arc) Shift(d Rational) Arc {
	return Arc{a.Begin.Add(d), a.End.Add(d)}
}

// Scale multiplies both endpoints by f (used by fast/slow on query arcs).
func (a Arc) Scale(f Rational) Arc {
	return Arc{a.Begin.Mul(f), a.End.Mul(f)}
}

// Intersect returns the overlap of a and o. The result may be empty (check
// IsEmpty); an empty intersection is still returned with well-defined
// (if meaningless) endpoints so callers can test it uniformly.
func (a Arc) Intersect(o Arc) Arc {
	begin := a.Begin.Max(o.Begin)
	end := a.End.Min(o.End)
	return Arc{begin, end}
}

// Sect is an alias for Intersect matching the original's naming.
func (a Arc) Sect(o Arc) Arc { return a.Intersect(o) }

// CycleArc returns the [sam, sam+1) arc containing a.Begin.
func (a Arc) CycleArc() Arc {
	sam := a.Begin.Sam()
	return Arc{sam, sam.Add(One)}
}

// Span splits the arc at every integer cycle boundary it crosses and
// returns the resulting list of sub-arcs in order. A zero-length arc
// returns a single-element list containing itself (callers that must
// drop empty arcs do so explicitly). This underlies every combinator that
// needs per-cycle structure (fast, rev, cat, iter, euclid, struct).
func (a Arc) Span() []Arc {
	if a.IsEmpty() {
		return []Arc{a}
	}
	var out []Arc
	begin := a.Begin
	for begin.Lt(a.End) {
		next := begin.NextSam()
		end := next.Min(a.End)
		out = append(out, Arc{begin, end})
		begin = end
	}
	if len(out) == 0 {
		out = append(out, a)
	}
	return out
}

// WholeCycle reports whether the arc exactly covers one full cycle
// [sam, sam+1).
func (a Arc) WholeCycle() bool {
	return a.Begin.Eq(a.Begin.Sam()) && a.End.Eq(a.Begin.Sam().Add(One))
}
