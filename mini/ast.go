package mini

// NodeKind tags the variant of an AST Node.
type NodeKind int

const (
	NodeWord NodeKind = iota
	NodeNumber
	NodeRest
	NodeCat        // sequence packed into one cycle (timecat)
	NodeStack      // ',' inside [] or {}
	NodeAlt        // '|' random choice
	NodeSlowSeq    // <...>, one element per cycle (weighted slowcat)
	NodePolymeter  // {...}%n
	NodeFast       // e*k
	NodeSlow       // e/k
	NodeEuclid     // e(k,n,r?)
	NodeDegrade    // e?
	NodeDegradeBy  // e??p
	NodeColon      // e:x
)

// Span is a source byte-offset range, [Begin, End).
type Span struct {
	Begin, End int
}

// Node is one AST node. Not every field is meaningful for every Kind;
// each field's comment names the Kinds that use it.
type Node struct {
	Kind NodeKind
	Span Span

	Text string // NodeWord / NodeNumber text

	Children []WeightedNode // NodeCat, NodeStack, NodeSlowSeq members
	Alts     []WeightedNode // NodeAlt members

	PolySteps *Node // NodePolymeter: optional %n expression

	Base *Node // NodeFast/Slow/Euclid/Degrade/DegradeBy/Colon: the wrapped node
	Arg  *Node // NodeFast/Slow: the factor expression
	K, N, R *Node // NodeEuclid operands (R optional)
	Prob *Node // NodeDegradeBy: probability expression
	ColonArg *Node // NodeColon: sample index/key expression
}

// WeightedNode pairs an AST node with its sequence weight (from `@w`,
// default 1) and replicate count (from `!n`, default 1, already expanded
// by the parser so Replicate is always 1 by the time lowering sees it —
// kept here for introspection/debug only).
type WeightedNode struct {
	Node      *Node
	Weight    *Node // NodeNumber (or nil meaning literal 1)
	Replicate int
	Span      Span
}
