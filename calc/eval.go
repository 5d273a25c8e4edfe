package calc

import (
	"math"
	"strconv"
)

// Evaluate parses and evaluates an arithmetic expression. Every error is a
// *RejectedError and matches ErrRejected.
func Evaluate(src string) (float64, error) {
	e, err := Parse(src)
	if err != nil {
		return 0, err
	}

	return e.Eval()
}

// Eval evaluates the expression. Operands are evaluated left to right.
// Results that are not finite real numbers are rejected with KindDomain.
func (e *Expr) Eval() (float64, error) {
	if e.n.height > maxHeight {
		return 0, syntaxError(e.n.pos, "expression is too complex")
	}

	return e.n.eval()
}

func (n *node) eval() (float64, error) {
	switch n.kind {
	case nodeNum:
		return finite(n.num, n.pos)
	case nodePos, nodeNeg:
		x, err := n.left.eval()
		if err != nil {
			return 0, err
		}

		if n.kind == nodeNeg {
			return -x, nil
		}

		return x, nil
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeFloorDiv, nodeMod, nodePow:
		l, err := n.left.eval()
		if err != nil {
			return 0, err
		}

		r, err := n.right.eval()
		if err != nil {
			return 0, err
		}

		v, err := apply(n.kind, l, r, n.pos)
		if err != nil {
			return 0, err
		}

		return finite(v, n.pos)
	default:
		return 0, reject(KindInvalidExpression, n.pos, "invalid expression: unknown node "+strconv.Itoa(int(n.kind)))
	}
}

func apply(kind nodeKind, l, r float64, pos int) (float64, error) {
	switch kind {
	case nodeAdd:
		return l + r, nil
	case nodeSub:
		return l - r, nil
	case nodeMul:
		return l * r, nil
	case nodeDiv:
		if r == 0 {
			return 0, reject(KindDomain, pos, "division by zero")
		}

		return l / r, nil
	case nodeFloorDiv:
		if r == 0 {
			return 0, reject(KindDomain, pos, "integer division by zero")
		}

		return FloorDiv(l, r), nil
	case nodeMod:
		if r == 0 {
			return 0, reject(KindDomain, pos, "modulo by zero")
		}

		return Mod(l, r), nil
	case nodePow:
		if l == 0 && r < 0 {
			return 0, reject(KindDomain, pos, "zero cannot be raised to a negative power")
		}

		if l < 0 && r != math.Trunc(r) {
			return 0, reject(KindDomain, pos, "negative number cannot be raised to a fractional power")
		}

		return math.Pow(l, r), nil
	default:
		return 0, reject(KindInvalidOperation, pos, "invalid operation: "+nodeOps[kind])
	}
}

func finite(v float64, pos int) (float64, error) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, reject(KindDomain, pos, "result is out of range")
	}

	return v, nil
}

// Mod returns the remainder of l / r with the sign of r, so Mod(-7, 3) is 2
// and Mod(7, -3) is -2.
func Mod(l, r float64) float64 {
	m := math.Mod(l, r)
	if m == 0 {
		return math.Copysign(0, r)
	}

	if (r < 0) != (m < 0) {
		m += r
	}

	return m
}

// FloorDiv returns l / r rounded toward negative infinity, consistent with
// Mod: l == FloorDiv(l, r)*r + Mod(l, r) up to rounding.
func FloorDiv(l, r float64) float64 {
	m := math.Mod(l, r)
	div := (l - m) / r
	if m != 0 && (r < 0) != (m < 0) {
		div--
	}

	if div == 0 {
		return math.Copysign(0, l/r)
	}

	floor := math.Floor(div)
	if div-floor > 0.5 {
		floor++
	}

	return floor
}

// Format renders a result the way it is shown to the user: integral values
// without a fraction, very large or small magnitudes in exponent form.
func Format(v float64) string {
	if a := math.Abs(v); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	return strconv.FormatFloat(v, 'f', -1, 64)
}
