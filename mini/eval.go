package mini

import (
	"fmt"

	"strudel-go/pattern"
)

// EvalError is a lowering-time failure: the AST parsed fine but a node
// carries a value the evaluator can't make sense of (e.g. a malformed
// numeric literal). Reported as a pattern.Diagnostic rather than returned
// where lowering happens deep inside a combinator closure.
type EvalError struct {
	Span    Span
	Message string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("mini: %s (at %d-%d)", e.Message, e.Span.Begin, e.Span.End)
}

// Eval parses and lowers src directly to a Pattern, the common case for
// callers that don't need the intermediate AST.
func Eval(src string) (pattern.Pattern, error) {
	n, err := Parse(src)
	if err != nil {
		return pattern.Silence, err
	}
	return Lower(n)
}

// Lower compiles a parsed AST into a pattern.Pattern per spec.md §4.2's
// lowering rules. Literal `~` and `-` rests lower to pattern.Silence;
// Pure itself never produces silence (SPEC_FULL.md §14).
func Lower(n *Node) (pattern.Pattern, error) {
	if n == nil {
		return pattern.Silence, nil
	}
	switch n.Kind {
	case NodeWord:
		return pattern.WithLocation(pattern.Pure(pattern.StringValue(n.Text)), loc(n.Span)), nil

	case NodeNumber:
		r, err := pattern.ParseRational(n.Text)
		if err != nil {
			pattern.Report(pattern.Diagnostic{Kind: pattern.KindParseError, Message: err.Error()})
			return pattern.Silence, nil
		}
		return pattern.WithLocation(pattern.Pure(pattern.NumberValue(r)), loc(n.Span)), nil

	case NodeRest:
		return pattern.Silence, nil

	case NodeCat:
		ws, err := lowerWeighted(n.Children)
		if err != nil {
			return pattern.Silence, err
		}
		return pattern.Timecat(ws), nil

	case NodeStack:
		ps := make([]pattern.Pattern, len(n.Children))
		for i, c := range n.Children {
			p, err := Lower(c.Node)
			if err != nil {
				return pattern.Silence, err
			}
			ps[i] = p
		}
		return pattern.Stack(ps...), nil

	case NodeAlt:
		ps := make([]pattern.Pattern, len(n.Alts))
		for i, a := range n.Alts {
			p, err := Lower(a.Node)
			if err != nil {
				return pattern.Silence, err
			}
			ps[i] = p
		}
		return pattern.RandCat(ps), nil

	case NodeSlowSeq:
		ws, err := lowerWeighted(n.Children)
		if err != nil {
			return pattern.Silence, err
		}
		return pattern.WeightedCat(ws), nil

	case NodePolymeter:
		ps := make([]pattern.Pattern, len(n.Children))
		for i, c := range n.Children {
			p, err := Lower(c.Node)
			if err != nil {
				return pattern.Silence, err
			}
			ps[i] = p
		}
		steps := pattern.Zero
		if n.PolySteps != nil {
			sp, err := Lower(n.PolySteps)
			if err != nil {
				return pattern.Silence, err
			}
			steps = sampleConst(sp)
		}
		return pattern.Polymeter(ps, steps), nil

	case NodeFast:
		base, err := Lower(n.Base)
		if err != nil {
			return pattern.Silence, err
		}
		factor, err := Lower(n.Arg)
		if err != nil {
			return pattern.Silence, err
		}
		return pattern.FastPattern(factor, base), nil

	case NodeSlow:
		base, err := Lower(n.Base)
		if err != nil {
			return pattern.Silence, err
		}
		factor, err := Lower(n.Arg)
		if err != nil {
			return pattern.Silence, err
		}
		return pattern.SlowPattern(factor, base), nil

	case NodeEuclid:
		base, err := Lower(n.Base)
		if err != nil {
			return pattern.Silence, err
		}
		k, err := Lower(n.K)
		if err != nil {
			return pattern.Silence, err
		}
		nn, err := Lower(n.N)
		if err != nil {
			return pattern.Silence, err
		}
		r := pattern.Pattern{}
		if n.R != nil {
			r, err = Lower(n.R)
			if err != nil {
				return pattern.Silence, err
			}
		}
		return pattern.EuclidPattern(k, nn, r, base), nil

	case NodeDegrade:
		base, err := Lower(n.Base)
		if err != nil {
			return pattern.Silence, err
		}
		return pattern.Degrade(base), nil

	case NodeDegradeBy:
		base, err := Lower(n.Base)
		if err != nil {
			return pattern.Silence, err
		}
		prob, err := pattern.ParseRational(n.Prob.Text)
		if err != nil {
			pattern.Report(pattern.Diagnostic{Kind: pattern.KindParseError, Message: err.Error()})
			return base, nil
		}
		return pattern.DegradeBy(prob, base), nil

	case NodeColon:
		base, err := Lower(n.Base)
		if err != nil {
			return pattern.Silence, err
		}
		switch n.ColonArg.Kind {
		case NodeNumber:
			r, err := pattern.ParseRational(n.ColonArg.Text)
			if err != nil {
				pattern.Report(pattern.Diagnostic{Kind: pattern.KindParseError, Message: err.Error()})
				return base, nil
			}
			return pattern.UnionRight(base, pattern.Pure(pattern.MapValue(map[string]pattern.Value{"n": pattern.NumberValue(r)}))), nil
		default:
			return pattern.UnionRight(base, pattern.Pure(pattern.MapValue(map[string]pattern.Value{"s": pattern.StringValue(n.ColonArg.Text)}))), nil
		}

	default:
		return pattern.Silence, &EvalError{Span: n.Span, Message: "unhandled node kind"}
	}
}

func lowerWeighted(children []WeightedNode) ([]pattern.WeightedPattern, error) {
	out := make([]pattern.WeightedPattern, len(children))
	for i, c := range children {
		p, err := Lower(c.Node)
		if err != nil {
			return nil, err
		}
		w := pattern.One
		if c.Weight != nil {
			r, err := pattern.ParseRational(c.Weight.Text)
			if err == nil {
				w = r
			}
		}
		out[i] = pattern.WeightedPattern{Weight: w, Pattern: p}
	}
	return out, nil
}

// sampleConst reads the one value a constant (non-cycle-varying) pattern
// produces, for evaluating things like `%n` step counts that the grammar
// only ever feeds a literal number.
func sampleConst(p pattern.Pattern) pattern.Rational {
	haps := p.Query(pattern.Arc{Begin: pattern.Zero, End: pattern.One})
	for _, h := range haps {
		if r, ok := h.Value.Number(); ok {
			return r
		}
	}
	return pattern.Zero
}

func loc(s Span) pattern.SourceLocation {
	return pattern.SourceLocation{Begin: s.Begin, End: s.End}
}
