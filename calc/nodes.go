package calc

import (
	"strconv"
	"strings"
)

// node is a node in the syntax tree of an expression. The set of kinds is
// closed: there is no node for names, calls, strings or any operator other
// than the arithmetic ones.
type node struct {
	kind nodeKind
	// num is the value of a nodeNum
	num float64
	// pos is the position of the literal or operator
	pos int
	// height is the number of nodes on the longest path down to a literal
	height int

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum // literal num

	nodePos // +left
	nodeNeg // -left

	nodeAdd      // left + right
	nodeSub      // left - right
	nodeMul      // left * right
	nodeDiv      // left / right
	nodeFloorDiv // left // right
	nodeMod      // left % right
	nodePow      // left ** right
)

var binaryOps = map[string]nodeKind{
	"+":  nodeAdd,
	"-":  nodeSub,
	"*":  nodeMul,
	"/":  nodeDiv,
	"//": nodeFloorDiv,
	"%":  nodeMod,
	"**": nodePow,
}

var nodeOps = map[nodeKind]string{
	nodePos:      "+",
	nodeNeg:      "-",
	nodeAdd:      "+",
	nodeSub:      "-",
	nodeMul:      "*",
	nodeDiv:      "/",
	nodeFloorDiv: "//",
	nodeMod:      "%",
	nodePow:      "**",
}

// String renders the tree fully parenthesized, e.g. "(2 + (2 * 5))".
func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

func (n *node) fmt(b *strings.Builder) {
	switch n.kind {
	case nodeNum:
		b.WriteString(strconv.FormatFloat(n.num, 'g', -1, 64))
	case nodePos, nodeNeg:
		b.WriteByte('(')
		b.WriteString(nodeOps[n.kind])
		n.left.fmt(b)
		b.WriteByte(')')
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeFloorDiv, nodeMod, nodePow:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteString(" " + nodeOps[n.kind] + " ")
		n.right.fmt(b)
		b.WriteByte(')')
	default:
		b.WriteString("$invalid$")
	}
}
