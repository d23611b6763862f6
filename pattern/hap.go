package pattern

// SourceLocation is a back-reference to a span of mini-notation source
// text, used by visual highlighters. The core only propagates these
// through combinators; the mini evaluator is what sets them.
type SourceLocation struct {
	Begin, End int
}

// Context carries non-semantic metadata attached to a Hap.
type Context struct {
	Locations []SourceLocation
}

// Merge combines two contexts by concatenating their location lists,
// source (left side) first.
func (c Context) Merge(o Context) Context {
	if len(c.Locations) == 0 {
		return o
	}
	if len(o.Locations) == 0 {
		return c
	}
	out := make([]SourceLocation, 0, len(c.Locations)+len(o.Locations))
	out = append(out, c.Locations...)
	out = append(out, o.Locations...)
	return Context{Locations: out}
}

// Hap is one timed event produced by querying a Pattern.
type Hap struct {
	// Whole is the event's logical extent in pattern-time. Nil marks an
	// "analog" event with no discrete onset (e.g. a raw sine sample).
	Whole *Arc
	// Part is the subinterval of query time during which this event
	// fires; always non-empty for Haps that survive a query.
	Part    Arc
	Value   Value
	Context Context
}

// HasOnset reports whether Part begins at the same point as Whole, i.e.
// this Hap represents the actual onset of the event rather than a
// continuation into a later query window.
func (h Hap) HasOnset() bool {
	return h.Whole != nil && h.Whole.Begin.Eq(h.Part.Begin)
}

// withArcs returns a copy of h with Whole and Part replaced by whole and
// part, keeping its Value and Context.
func (h Hap) withArcs(whole *Arc, part Arc) Hap {
	return Hap{Whole: whole, Part: part, Value: h.Value, Context: h.Context}
}

// withTime returns a copy of h with Whole (if present) and Part mapped
// through f. Used by time-scaling combinators (fast/slow/early/late/rev)
// to relocate a Hap produced against a transformed query arc back into
// the caller's time frame.
func (h Hap) withTime(f func(Rational) Rational) Hap {
	var whole *Arc
	if h.Whole != nil {
		w := h.Whole.WithTime(f)
		whole = &w
	}
	part := h.Part.WithTime(f)
	return Hap{Whole: whole, Part: part, Value: h.Value, Context: h.Context}
}

// withValue returns a copy of h with its Value replaced by f(h.Value).
func (h Hap) withValue(f func(Value) Value) Hap {
	return Hap{Whole: h.Whole, Part: h.Part, Value: f(h.Value), Context: h.Context}
}

// clip intersects Part with limit, dropping the Hap (returning ok=false)
// if the result is empty. Whole is left untouched: per §3 it may extend
// outside Part at query edges.
func (h Hap) clip(limit Arc) (Hap, bool) {
	part := h.Part.Intersect(limit)
	if part.IsEmpty() {
		return Hap{}, false
	}
	return Hap{Whole: h.Whole, Part: part, Value: h.Value, Context: h.Context}, true
}

// wholeOrPart returns Whole if present, else Part — used wherever a
// combinator needs "the event's timing" regardless of analog/discrete.
func (h Hap) wholeOrPart() Arc {
	if h.Whole != nil {
		return *h.Whole
	}
	return h.Part
}
