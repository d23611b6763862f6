package mini

import "fmt"

// ParseError reports a mini-notation syntax problem at a specific source
// position. The parser never panics on malformed input — every failure
// path returns a ParseError instead (spec.md §4.2's "never crashes on
// input" contract).
type ParseError struct {
	Pos      int
	Message  string
	Expected string
}

func (e *ParseError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("mini: %s at %d (expected %s)", e.Message, e.Pos, e.Expected)
	}
	return fmt.Sprintf("mini: %s at %d", e.Message, e.Pos)
}

// Parse tokenizes and parses src into an AST rooted at the top-level
// expression (an alt, per the grammar's `expr := alt`).
func Parse(src string) (*Node, error) {
	toks := NewLexer(src).Tokenize()
	p := &parser{toks: toks}
	n, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != TokEOF {
		return nil, &ParseError{Pos: p.cur().Begin, Message: fmt.Sprintf("unexpected %q", p.cur().Text), Expected: "end of input"}
	}
	return n, nil
}

type parser struct {
	toks []Token
	pos  int
}

func (p *parser) cur() Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // trailing TokEOF
	}
	return p.toks[p.pos]
}

func (p *parser) advance() Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k TokenKind, what string) (Token, error) {
	if p.cur().Kind != k {
		return Token{}, &ParseError{Pos: p.cur().Begin, Message: fmt.Sprintf("unexpected %q", p.cur().Text), Expected: what}
	}
	return p.advance(), nil
}

// startsElement reports whether tok can begin a new element, i.e. is not
// one of the tokens that close or separate a sequence.
func startsElement(k TokenKind) bool {
	switch k {
	case TokEOF, TokRBracket, TokRBrace, TokRAngle, TokRParen, TokComma, TokPipe, TokPercent:
		return false
	default:
		return true
	}
}

// parseAlt parses `cat ('|' cat)*`. A single branch collapses to the cat
// node directly; multiple branches wrap into NodeAlt, each with weight 1
// (spec.md leaves `'|' weight? cat` open-ended; the weight-prefix form is
// ambiguous with a bare leading numeric atom, so only the unweighted form
// is implemented).
func (p *parser) parseAlt() (*Node, error) {
	start := p.cur().Begin
	first, err := p.parseCat()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != TokPipe {
		return first, nil
	}
	alts := []WeightedNode{{Node: first, Span: first.Span}}
	for p.cur().Kind == TokPipe {
		p.advance()
		n, err := p.parseCat()
		if err != nil {
			return nil, err
		}
		alts = append(alts, WeightedNode{Node: n, Span: n.Span})
	}
	return &Node{Kind: NodeAlt, Span: Span{start, p.cur().Begin}, Alts: alts}, nil
}

// parseCat parses `element+` and wraps the result in a NodeCat.
func (p *parser) parseCat() (*Node, error) {
	start := p.cur().Begin
	elems, err := p.parseCatElements()
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return nil, &ParseError{Pos: p.cur().Begin, Message: "empty sequence", Expected: "an element"}
	}
	return &Node{Kind: NodeCat, Span: Span{start, p.cur().Begin}, Children: elems}, nil
}

// parseCatElements parses one or more elements, expanding `!n` replicate
// at this level (replicate duplicates the WeightedNode n times in place).
func (p *parser) parseCatElements() ([]WeightedNode, error) {
	var out []WeightedNode
	for startsElement(p.cur().Kind) {
		wn, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		n := wn.Replicate
		if n < 1 {
			n = 1
		}
		for i := 0; i < n; i++ {
			copyNode := wn
			copyNode.Replicate = 1
			out = append(out, copyNode)
		}
	}
	return out, nil
}

// parseElement parses one atom followed by zero or more postfix
// modifiers (`*`, `/`, `(...)`, `@w`, `!n`, `:x`, `?`, `??p`).
func (p *parser) parseElement() (WeightedNode, error) {
	start := p.cur().Begin
	atom, err := p.parseAtom()
	if err != nil {
		return WeightedNode{}, err
	}
	var weight *Node
	replicate := 1
	for {
		switch p.cur().Kind {
		case TokStar:
			p.advance()
			arg, err := p.parseModFactor()
			if err != nil {
				return WeightedNode{}, err
			}
			atom = &Node{Kind: NodeFast, Span: Span{start, p.cur().Begin}, Base: atom, Arg: arg}
		case TokSlash:
			p.advance()
			arg, err := p.parseModFactor()
			if err != nil {
				return WeightedNode{}, err
			}
			atom = &Node{Kind: NodeSlow, Span: Span{start, p.cur().Begin}, Base: atom, Arg: arg}
		case TokLParen:
			p.advance()
			k, err := p.parseModFactor()
			if err != nil {
				return WeightedNode{}, err
			}
			if _, err := p.expect(TokComma, "','"); err != nil {
				return WeightedNode{}, err
			}
			n, err := p.parseModFactor()
			if err != nil {
				return WeightedNode{}, err
			}
			var r *Node
			if p.cur().Kind == TokComma {
				p.advance()
				r, err = p.parseModFactor()
				if err != nil {
					return WeightedNode{}, err
				}
			}
			if _, err := p.expect(TokRParen, "')'"); err != nil {
				return WeightedNode{}, err
			}
			atom = &Node{Kind: NodeEuclid, Span: Span{start, p.cur().Begin}, Base: atom, K: k, N: n, R: r}
		case TokAt:
			p.advance()
			w, err := p.expect(TokNumber, "a weight number")
			if err != nil {
				return WeightedNode{}, err
			}
			weight = &Node{Kind: NodeNumber, Text: w.Text, Span: Span{w.Begin, w.End}}
		case TokBang:
			p.advance()
			if p.cur().Kind == TokNumber {
				w := p.advance()
				var cnt int
				fmt.Sscanf(w.Text, "%d", &cnt)
				if cnt > 0 {
					replicate = cnt
				}
			} else {
				replicate++
			}
		case TokColon:
			p.advance()
			var arg *Node
			switch p.cur().Kind {
			case TokIdent:
				t := p.advance()
				arg = &Node{Kind: NodeWord, Text: t.Text, Span: Span{t.Begin, t.End}}
			case TokNumber:
				t := p.advance()
				arg = &Node{Kind: NodeNumber, Text: t.Text, Span: Span{t.Begin, t.End}}
			default:
				return WeightedNode{}, &ParseError{Pos: p.cur().Begin, Message: fmt.Sprintf("unexpected %q", p.cur().Text), Expected: "identifier or number after ':'"}
			}
			atom = &Node{Kind: NodeColon, Span: Span{start, p.cur().Begin}, Base: atom, ColonArg: arg}
		case TokQuestion:
			p.advance()
			atom = &Node{Kind: NodeDegrade, Span: Span{start, p.cur().Begin}, Base: atom}
		case TokDoubleQuestion:
			p.advance()
			prob, err := p.expect(TokNumber, "a probability number")
			if err != nil {
				return WeightedNode{}, err
			}
			atom = &Node{Kind: NodeDegradeBy, Span: Span{start, p.cur().Begin}, Base: atom,
				Prob: &Node{Kind: NodeNumber, Text: prob.Text, Span: Span{prob.Begin, prob.End}}}
		default:
			return WeightedNode{Node: atom, Weight: weight, Replicate: replicate, Span: Span{start, p.cur().Begin}}, nil
		}
	}
}

// parseModFactor parses the argument to `*`, `/`, and `(...)`: a single
// atom, not a full cat/alt — e.g. a number, word, or a bracketed/angled
// group such as `<2 3>`. This is a deliberate simplification of the
// grammar's `expr` argument production.
func (p *parser) parseModFactor() (*Node, error) {
	return p.parseAtom()
}

// parseAtom parses a single atomic term: a word, number, rest, or a
// bracketed/braced/angled group.
func (p *parser) parseAtom() (*Node, error) {
	switch p.cur().Kind {
	case TokIdent:
		t := p.advance()
		return &Node{Kind: NodeWord, Text: t.Text, Span: Span{t.Begin, t.End}}, nil
	case TokNumber:
		t := p.advance()
		return &Node{Kind: NodeNumber, Text: t.Text, Span: Span{t.Begin, t.End}}, nil
	case TokRest:
		t := p.advance()
		return &Node{Kind: NodeRest, Span: Span{t.Begin, t.End}}, nil
	case TokLBracket:
		start := p.advance().Begin
		inner, err := p.parseStackOrCat()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(TokRBracket, "']'")
		if err != nil {
			return nil, err
		}
		inner.Span = Span{start, end.End}
		return inner, nil
	case TokLBrace:
		start := p.advance().Begin
		inner, err := p.parseStackOrCat()
		if err != nil {
			return nil, err
		}
		closeTok, err := p.expect(TokRBrace, "'}'")
		if err != nil {
			return nil, err
		}
		var steps *Node
		if p.cur().Kind == TokPercent {
			p.advance()
			s, err := p.parseModFactor()
			if err != nil {
				return nil, err
			}
			steps = s
		}
		var rows []WeightedNode
		if inner.Kind == NodeStack {
			rows = inner.Children
		} else {
			rows = []WeightedNode{{Node: inner, Span: inner.Span}}
		}
		return &Node{Kind: NodePolymeter, Span: Span{start, closeTok.End}, Children: rows, PolySteps: steps}, nil
	case TokLAngle:
		start := p.advance().Begin
		inner, err := p.parseCatInner()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(TokRAngle, "'>'")
		if err != nil {
			return nil, err
		}
		inner.Span = Span{start, end.End}
		return inner, nil
	default:
		return nil, &ParseError{Pos: p.cur().Begin, Message: fmt.Sprintf("unexpected %q", p.cur().Text), Expected: "a word, number, rest, or group"}
	}
}

// parseStackOrCat parses `alt (',' alt)*` as used inside `[...]`/`{...}`:
// a single branch is returned directly, multiple branches wrap in
// NodeStack.
func (p *parser) parseStackOrCat() (*Node, error) {
	start := p.cur().Begin
	first, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != TokComma {
		return first, nil
	}
	rows := []WeightedNode{{Node: first, Span: first.Span}}
	for p.cur().Kind == TokComma {
		p.advance()
		n, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		rows = append(rows, WeightedNode{Node: n, Span: n.Span})
	}
	return &Node{Kind: NodeStack, Span: Span{start, p.cur().Begin}, Children: rows}, nil
}

// parseCatInner parses the contents of `<...>`: `catElements (',' catElements)*`.
// Each comma-row becomes a NodeSlowSeq (one element shown per cycle);
// multiple rows wrap in NodeStack.
func (p *parser) parseCatInner() (*Node, error) {
	start := p.cur().Begin
	first, err := p.parseCatElements()
	if err != nil {
		return nil, err
	}
	firstNode := &Node{Kind: NodeSlowSeq, Span: Span{start, p.cur().Begin}, Children: first}
	if p.cur().Kind != TokComma {
		return firstNode, nil
	}
	rows := []WeightedNode{{Node: firstNode, Span: firstNode.Span}}
	for p.cur().Kind == TokComma {
		p.advance()
		rowStart := p.cur().Begin
		elems, err := p.parseCatElements()
		if err != nil {
			return nil, err
		}
		rowNode := &Node{Kind: NodeSlowSeq, Span: Span{rowStart, p.cur().Begin}, Children: elems}
		rows = append(rows, WeightedNode{Node: rowNode, Span: rowNode.Span})
	}
	return &Node{Kind: NodeStack, Span: Span{start, p.cur().Begin}, Children: rows}, nil
}
