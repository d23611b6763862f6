package register

import (
	"strings"

	"strudel-go/pattern"
	"strudel-go/theory"
)

// num reads the first numeric value out of p's cycle-0 query, defaulting
// to 0 — the convention used throughout this file for combinator
// arguments that the spec types as a bare Rational/int (cps, k, n, ...)
// but that the host evaluator hands us as already-lowered Patterns.
func num(p pattern.Pattern) pattern.Rational {
	haps := p.Query(pattern.Arc{Begin: pattern.Zero, End: pattern.One})
	for _, h := range haps {
		if r, ok := h.Value.Number(); ok {
			return r
		}
	}
	return pattern.Zero
}

func arg(args []pattern.Pattern, i int) pattern.Pattern {
	if i < len(args) {
		return args[i]
	}
	return pattern.Silence
}

// registerCore binds every §4.1 constructor/combinator that takes only
// Pattern (or Pattern-encoded scalar) arguments into the scope. The
// handful of combinators that take a *transform function* as an argument
// (every, off, chunk, within, sometimesBy) are not name-bindable this way
// — a host wiring in a real expression language passes Go closures for
// those directly; see DESIGN.md.
func (s *Scope) registerCore() {
	s.funcs["silence"] = func([]pattern.Pattern) (pattern.Pattern, error) {
		return pattern.Silence, nil
	}
	s.funcs["fast"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		return pattern.FastPattern(arg(a, 0), arg(a, 1)), nil
	}
	s.funcs["slow"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		return pattern.SlowPattern(arg(a, 0), arg(a, 1)), nil
	}
	s.funcs["rev"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		return pattern.Rev(arg(a, 0)), nil
	}
	s.funcs["ply"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		n, _ := num(arg(a, 0)).Int()
		return pattern.Ply(int(n), arg(a, 1)), nil
	}
	s.funcs["iter"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		n, _ := num(arg(a, 0)).Int()
		return pattern.Iter(int(n), arg(a, 1)), nil
	}
	s.funcs["iterBack"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		n, _ := num(arg(a, 0)).Int()
		return pattern.IterBack(int(n), arg(a, 1)), nil
	}
	s.funcs["stack"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		return pattern.Stack(a...), nil
	}
	s.funcs["cat"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		return pattern.Cat(a...), nil
	}
	s.funcs["fastcat"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		return pattern.Fastcat(a...), nil
	}
	s.funcs["struct"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		return pattern.Struct(arg(a, 0), arg(a, 1)), nil
	}
	s.funcs["mask"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		return pattern.Mask(arg(a, 0), arg(a, 1)), nil
	}
	s.funcs["euclid"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		k, _ := num(arg(a, 0)).Int()
		n, _ := num(arg(a, 1)).Int()
		r := int64(0)
		if len(a) > 2 {
			r, _ = num(a[2]).Int()
		}
		return pattern.Euclid(int(k), int(n), int(r)), nil
	}
	s.funcs["degrade"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		return pattern.Degrade(arg(a, 0)), nil
	}
	s.funcs["degradeBy"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		return pattern.DegradeBy(num(arg(a, 0)), arg(a, 1)), nil
	}
	s.funcs["add"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		return pattern.Add(arg(a, 0), arg(a, 1)), nil
	}
	s.funcs["sub"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		return pattern.Sub(arg(a, 0), arg(a, 1)), nil
	}
	s.funcs["mul"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		return pattern.Mul(arg(a, 0), arg(a, 1)), nil
	}
	s.funcs["div"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		return pattern.Div(arg(a, 0), arg(a, 1)), nil
	}
	s.funcs["union"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		return pattern.UnionLeft(arg(a, 0), arg(a, 1)), nil
	}
	s.funcs["hurry"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		return pattern.Hurry(num(arg(a, 0)), arg(a, 1)), nil
	}
	s.funcs["segment"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		return pattern.Segment(num(arg(a, 0)), arg(a, 1)), nil
	}
	s.funcs["range"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		return pattern.Range(num(arg(a, 0)), num(arg(a, 1)), arg(a, 2)), nil
	}
	s.funcs["rand"] = func([]pattern.Pattern) (pattern.Pattern, error) {
		return pattern.Rand(), nil
	}
	s.funcs["sine"] = func([]pattern.Pattern) (pattern.Pattern, error) { return pattern.Sine(), nil }
	s.funcs["cosine"] = func([]pattern.Pattern) (pattern.Pattern, error) { return pattern.Cosine(), nil }
	s.funcs["saw"] = func([]pattern.Pattern) (pattern.Pattern, error) { return pattern.Saw(), nil }
	s.funcs["isaw"] = func([]pattern.Pattern) (pattern.Pattern, error) { return pattern.Isaw(), nil }
	s.funcs["tri"] = func([]pattern.Pattern) (pattern.Pattern, error) { return pattern.Tri(), nil }
	s.funcs["square"] = func([]pattern.Pattern) (pattern.Pattern, error) { return pattern.Square(), nil }
	s.funcs["scale"] = func(a []pattern.Pattern) (pattern.Pattern, error) {
		return scaleFunc(arg(a, 0), arg(a, 1)), nil
	}
}

// scaleDegreeIntervals maps a scale name to its semitone offsets from the
// root, one entry per scale degree. This is the degree table the `scale`
// combinator indexes into — unlike a general-purpose music-theory type, it
// exists only to answer "what semitone offset is degree i", which is all a
// Pattern of bare integers ever asks of it.
var scaleDegreeIntervals = map[string][]int64{
	"major":           {0, 2, 4, 5, 7, 9, 11},
	"ionian":          {0, 2, 4, 5, 7, 9, 11},
	"minor":           {0, 2, 3, 5, 7, 8, 10},
	"aeolian":         {0, 2, 3, 5, 7, 8, 10},
	"dorian":          {0, 2, 3, 5, 7, 9, 10},
	"mixolydian":      {0, 2, 4, 5, 7, 9, 10},
	"harmonicminor":   {0, 2, 3, 5, 7, 8, 11},
	"majorpentatonic": {0, 2, 4, 7, 9},
	"minorpentatonic": {0, 3, 5, 7, 10},
	"blues":           {0, 3, 5, 6, 7, 10},
}

// scaleFunc maps each numeric degree Hap in degreePattern to an absolute
// MIDI note through a named scale (e.g. "C:dorian", root defaulting to C
// when omitted), wrapping octaves the way scale degrees do: degree 7 in a
// 7-note scale lands an octave above degree 0. The scale name is read once
// from scaleNamePat's cycle-0 query, matching this file's convention for
// scalar arguments.
func scaleFunc(scaleNamePat, degreePattern pattern.Pattern) pattern.Pattern {
	name := "major"
	haps := scaleNamePat.Query(pattern.NewArc(pattern.Zero, pattern.One))
	for _, h := range haps {
		if s, ok := h.Value.Str(); ok {
			name = s
			break
		}
	}

	root, scaleName := int64(0), name
	if i := indexOfColon(name); i >= 0 {
		root = int64(theory.NoteToMidi(name[:i]))
		scaleName = name[i+1:]
	}
	intervals, ok := scaleDegreeIntervals[strings.ToLower(scaleName)]
	if !ok {
		intervals = scaleDegreeIntervals["minorpentatonic"]
	}

	return pattern.Fmap(func(v pattern.Value) pattern.Value {
		n, ok := v.Number()
		if !ok {
			return v
		}
		midi := degreeToMIDI(n.Trunc(), root, intervals)
		return pattern.NumberValue(pattern.FromInt(midi))
	}, degreePattern)
}

// degreeToMIDI resolves a scale degree (which may be negative or beyond
// one octave) to an absolute MIDI note against root and a scale's
// intervals, wrapping octaves every len(intervals) degrees.
func degreeToMIDI(degree, root int64, intervals []int64) int64 {
	size := int64(len(intervals))
	octave := degree / size
	idx := degree % size
	if idx < 0 {
		idx += size
		octave--
	}
	return root + intervals[idx] + octave*12
}

func indexOfColon(s string) int {
	for i, c := range s {
		if c == ':' {
			return i
		}
	}
	return -1
}
