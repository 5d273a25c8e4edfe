package calc

import (
	"strconv"
	"strings"
)

// Test    = Or [ 'if' Or 'else' Test ]
// Or      = And { 'or' And }
// And     = Not { 'and' Not }
// Not     = 'not' Not | Compare
// Compare = BitOr { CompOp BitOr }
// BitOr   = BitXor { '|' BitXor }
// BitXor  = BitAnd { '^' BitAnd }
// BitAnd  = Shift { '&' Shift }
// Shift   = Arith { ('<<' | '>>') Arith }
// Arith   = Term { ('+' | '-') Term }
// Term    = Factor { ('*' | '/' | '//' | '%' | '@') Factor }
// Factor  = ('+' | '-' | '~') Factor | Power
// Power   = Postfix [ '**' Factor ]
// Postfix = Atom { '(' Args ')' | '[' Items ']' | '.' name }
// Atom    = num | imag | string { string } | name | '(' Items ')' | '[' Items ']' | '{' Items '}'
//
// Only num, unary + and -, and + - * / // % ** produce nodes. Every other
// production is parsed to find where the input ends and what it means, then
// rejected without producing a node.

// Expr is a parsed arithmetic expression.
type Expr struct {
	n *node
}

// String returns the expression fully parenthesized.
func (e *Expr) String() string {
	return e.n.String()
}

// keywords that can never start or continue an arithmetic expression.
var keywords = map[string]bool{
	"and": true, "as": true, "assert": true, "async": true, "await": true, "break": true,
	"class": true, "continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true, "if": true,
	"import": true, "in": true, "is": true, "lambda": true, "nonlocal": true, "not": true,
	"or": true, "pass": true, "raise": true, "return": true, "try": true, "while": true,
	"with": true, "yield": true,
}

// constants are names of literals that are not numbers.
var constants = map[string]bool{
	"True":  true,
	"False": true,
	"None":  true,
}

const (
	// maxDepth bounds nested brackets and chained prefix operators
	maxDepth = 200
	// maxHeight bounds the tree, e.g. a very long chain of additions
	maxHeight = 10000
)

var compareOps = map[string]bool{
	"<": true, ">": true, "==": true, ">=": true, "<=": true, "!=": true,
}

type parser struct {
	toks  []lexToken
	i     int
	depth int
	// rejected is the first construct outside of arithmetic. It is reported
	// only if the whole input is syntactically valid.
	rejected *RejectedError
}

// Parse parses an arithmetic expression. The error, if any, is a *RejectedError.
func Parse(src string) (*Expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}
	if tok := p.peek(); tok.kind == tokenEOF {
		return nil, syntaxError(tok.pos, "empty expression")
	}

	n, err := p.parseTest()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.kind == tokenOp && tok.text == "," {
		p.disallow(KindInvalidExpression, tok.pos, "invalid expression: collections are not allowed")
		if err := p.parseItemsTail(); err != nil {
			return nil, err
		}
	}

	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, p.unexpected(tok)
	}

	if p.rejected != nil {
		return nil, p.rejected
	}

	if n != nil && n.height > maxHeight {
		return nil, syntaxError(n.pos, "expression is too complex")
	}

	return &Expr{n: n}, nil
}

func (p *parser) peek() lexToken {
	return p.toks[p.i]
}

func (p *parser) next() lexToken {
	tok := p.toks[p.i]
	if tok.kind != tokenEOF {
		p.i++
	}

	return tok
}

func (p *parser) isOp(ops ...string) bool {
	tok := p.peek()
	if tok.kind != tokenOp {
		return false
	}

	for _, op := range ops {
		if tok.text == op {
			return true
		}
	}

	return false
}

func (p *parser) isKeyword(kw string) bool {
	tok := p.peek()
	return tok.kind == tokenIdent && tok.text == kw
}

// enter descends one nesting level. Every successful enter is paired with leave.
func (p *parser) enter(tok lexToken, reason string) error {
	if p.depth >= maxDepth {
		return syntaxError(tok.pos, reason)
	}

	p.depth++
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// disallow records a rejection. Only the first one is kept.
func (p *parser) disallow(kind Kind, pos int, reason string) {
	if p.rejected == nil {
		p.rejected = reject(kind, pos, reason)
	}
}

func (p *parser) unexpected(tok lexToken) error {
	switch {
	case tok.kind == tokenEOF:
		return syntaxError(tok.pos, "unexpected end of expression")
	case tok.kind == tokenClose:
		return syntaxError(tok.pos, "unmatched "+strconv.Quote(tok.text))
	case tok.kind == tokenOp && (tok.text == "=" || tok.text == ":="):
		return syntaxError(tok.pos, "assignment is not allowed")
	default:
		return syntaxError(tok.pos, "unexpected "+strconv.Quote(tok.text))
	}
}

func (p *parser) parseTest() (*node, error) {
	if tok := p.peek(); tok.kind == tokenIdent && (tok.text == "lambda" || tok.text == "yield" || tok.text == "await") {
		return nil, reject(KindInvalidExpression, tok.pos, "invalid expression: "+strconv.Quote(tok.text)+" is not allowed")
	}

	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if !p.isKeyword("if") {
		return n, nil
	}

	tok := p.next()
	p.disallow(KindInvalidExpression, tok.pos, "invalid expression: conditional expressions are not allowed")
	if _, err := p.parseOr(); err != nil {
		return nil, err
	}

	if !p.isKeyword("else") {
		return nil, p.unexpected(p.peek())
	}

	elseTok := p.next()
	if err := p.enter(elseTok, "expression is nested too deeply"); err != nil {
		return nil, err
	}
	defer p.leave()

	if _, err := p.parseTest(); err != nil {
		return nil, err
	}

	return nil, nil
}

func (p *parser) parseOr() (*node, error) {
	return p.parseBoolOp("or", p.parseAnd)
}

func (p *parser) parseAnd() (*node, error) {
	return p.parseBoolOp("and", p.parseNot)
}

func (p *parser) parseBoolOp(kw string, operand func() (*node, error)) (*node, error) {
	n, err := operand()
	if err != nil {
		return nil, err
	}

	for p.isKeyword(kw) {
		tok := p.next()
		p.disallow(KindInvalidExpression, tok.pos, "invalid expression: boolean operator "+strconv.Quote(kw)+" is not allowed")
		if _, err := operand(); err != nil {
			return nil, err
		}
		n = nil
	}

	return n, nil
}

func (p *parser) parseNot() (*node, error) {
	if !p.isKeyword("not") {
		return p.parseCompare()
	}

	tok := p.next()
	p.disallow(KindInvalidOperation, tok.pos, "invalid operation: operator \"not\" is not allowed")
	if err := p.enter(tok, "expression is nested too deeply"); err != nil {
		return nil, err
	}
	defer p.leave()

	if _, err := p.parseNot(); err != nil {
		return nil, err
	}

	return nil, nil
}

func (p *parser) parseCompare() (*node, error) {
	n, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		switch {
		case tok.kind == tokenOp && compareOps[tok.text]:
			p.next()
		case p.isKeyword("in"):
			p.next()
		case p.isKeyword("is"):
			p.next()
			if p.isKeyword("not") {
				p.next()
			}
		case p.isKeyword("not") && p.i+1 < len(p.toks) && p.toks[p.i+1].kind == tokenIdent && p.toks[p.i+1].text == "in":
			p.next()
			p.next()
		default:
			return n, nil
		}

		p.disallow(KindInvalidExpression, tok.pos, "invalid expression: comparisons are not allowed")
		if _, err := p.parseBitOr(); err != nil {
			return nil, err
		}
		n = nil
	}
}

func (p *parser) parseBitOr() (*node, error) {
	return p.parseForbiddenBinary([]string{"|"}, p.parseBitXor)
}

func (p *parser) parseBitXor() (*node, error) {
	return p.parseForbiddenBinary([]string{"^"}, p.parseBitAnd)
}

func (p *parser) parseBitAnd() (*node, error) {
	return p.parseForbiddenBinary([]string{"&"}, p.parseShift)
}

func (p *parser) parseShift() (*node, error) {
	return p.parseForbiddenBinary([]string{"<<", ">>"}, p.parseArith)
}

// parseForbiddenBinary parses a level of binary operators that are valid syntax but not arithmetic.
func (p *parser) parseForbiddenBinary(ops []string, operand func() (*node, error)) (*node, error) {
	n, err := operand()
	if err != nil {
		return nil, err
	}

	for p.isOp(ops...) {
		tok := p.next()
		p.disallow(KindInvalidOperation, tok.pos, "invalid operation: operator "+strconv.Quote(tok.text)+" is not allowed")
		if _, err := operand(); err != nil {
			return nil, err
		}
		n = nil
	}

	return n, nil
}

func (p *parser) parseArith() (*node, error) {
	n, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.isOp("+", "-") {
		tok := p.next()
		r, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		n = binary(binaryOps[tok.text], tok.pos, n, r)
	}

	return n, nil
}

func (p *parser) parseTerm() (*node, error) {
	n, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for p.isOp("*", "/", "//", "%", "@") {
		tok := p.next()
		if tok.text == "@" {
			p.disallow(KindInvalidOperation, tok.pos, "invalid operation: operator \"@\" is not allowed")
		}

		r, err := p.parseFactor()
		if err != nil {
			return nil, err
		}

		if tok.text == "@" {
			n = nil
			continue
		}
		n = binary(binaryOps[tok.text], tok.pos, n, r)
	}

	return n, nil
}

func (p *parser) parseFactor() (*node, error) {
	if !p.isOp("+", "-", "~") {
		return p.parsePower()
	}

	tok := p.next()
	if err := p.enter(tok, "expression is nested too deeply"); err != nil {
		return nil, err
	}
	defer p.leave()

	operand, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	switch tok.text {
	case "+":
		return unary(nodePos, tok.pos, operand), nil
	case "-":
		return unary(nodeNeg, tok.pos, operand), nil
	default:
		p.disallow(KindInvalidOperation, tok.pos, "invalid operation: operator \"~\" is not allowed")
		return nil, nil
	}
}

func (p *parser) parsePower() (*node, error) {
	n, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}

	if !p.isOp("**") {
		return n, nil
	}

	tok := p.next()
	if err := p.enter(tok, "expression is nested too deeply"); err != nil {
		return nil, err
	}
	defer p.leave()

	// the exponent is a Factor, so 2**-1 is valid and 2**3**2 is 2**(3**2)
	exp, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	return binary(nodePow, tok.pos, n, exp), nil
}

func (p *parser) parsePostfix() (*node, error) {
	n, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		switch {
		case tok.kind == tokenOpen && tok.text == "(":
			p.disallow(KindInvalidExpression, tok.pos, "invalid expression: function calls are not allowed")
		case tok.kind == tokenOpen && tok.text == "[":
			p.disallow(KindInvalidExpression, tok.pos, "invalid expression: subscripts are not allowed")
		case p.isOp("."):
			p.next()
			if name := p.next(); name.kind != tokenIdent {
				return nil, p.unexpected(name)
			}
			p.disallow(KindInvalidExpression, tok.pos, "invalid expression: attribute access is not allowed")
			n = nil
			continue
		default:
			return n, nil
		}

		if err := p.parseItems(); err != nil {
			return nil, err
		}
		n = nil
	}
}

func (p *parser) parseAtom() (*node, error) {
	tok := p.peek()
	switch tok.kind {
	case tokenNum:
		p.next()
		return &node{kind: nodeNum, num: tok.num, pos: tok.pos, height: 1}, nil
	case tokenImag:
		p.next()
		p.disallow(KindOnlyNumbers, tok.pos, "only numbers are allowed: "+strconv.Quote(tok.text)+" is a complex literal")
		return nil, nil
	case tokenString:
		for p.peek().kind == tokenString {
			p.next()
		}
		p.disallow(KindOnlyNumbers, tok.pos, "only numbers are allowed: got a string literal")
		return nil, nil
	case tokenIdent:
		switch {
		case constants[tok.text]:
			p.next()
			p.disallow(KindOnlyNumbers, tok.pos, "only numbers are allowed: "+strconv.Quote(tok.text)+" is not a number")
			return nil, nil
		case keywords[tok.text]:
			return nil, syntaxError(tok.pos, "unexpected keyword "+strconv.Quote(tok.text))
		}

		p.next()
		p.disallow(KindInvalidExpression, tok.pos, "invalid expression: name "+strconv.Quote(tok.text)+" is not allowed")
		return nil, nil
	case tokenOpen:
		if tok.text != "(" {
			p.disallow(KindInvalidExpression, tok.pos, "invalid expression: collections are not allowed")
			return nil, p.parseItems()
		}

		p.next()
		if err := p.enter(tok, "too many nested parentheses"); err != nil {
			return nil, err
		}
		defer p.leave()

		if p.peek().kind == tokenClose {
			p.disallow(KindInvalidExpression, tok.pos, "invalid expression: collections are not allowed")
			return nil, p.closeBracket(tok)
		}

		n, err := p.parseTest()
		if err != nil {
			return nil, err
		}

		if p.peek().kind == tokenClose {
			return n, p.closeBracket(tok)
		}

		// a tuple or a generator expression
		p.disallow(KindInvalidExpression, tok.pos, "invalid expression: collections are not allowed")
		if err := p.parseItemsTail(); err != nil {
			return nil, err
		}

		return nil, p.closeBracket(tok)
	default:
		return nil, p.unexpected(tok)
	}
}

// parseItems parses a bracketed list of items: call arguments, subscripts, tuples, lists, sets and
// dicts. The list is read only to find its end.
func (p *parser) parseItems() error {
	open := p.next()
	if err := p.enter(open, "too many nested parentheses"); err != nil {
		return err
	}
	defer p.leave()

	if p.peek().kind == tokenClose {
		return p.closeBracket(open)
	}

	if err := p.parseItem(); err != nil {
		return err
	}

	if err := p.parseItemsTail(); err != nil {
		return err
	}

	return p.closeBracket(open)
}

func (p *parser) parseItemsTail() error {
	for {
		tok := p.peek()
		switch {
		case p.isOp(",", ":", "="):
			p.next()
			if k := p.peek().kind; k == tokenClose || k == tokenEOF {
				return nil
			}
		case p.isKeyword("for"):
			return reject(KindInvalidExpression, tok.pos, "invalid expression: comprehensions are not allowed")
		default:
			return nil
		}

		if err := p.parseItem(); err != nil {
			return err
		}
	}
}

func (p *parser) parseItem() error {
	// *args and **kwargs unpacking
	if p.isOp("*", "**") {
		p.next()
	}

	_, err := p.parseTest()
	return err
}

func (p *parser) closeBracket(open lexToken) error {
	tok := p.peek()
	if tok.kind != tokenClose {
		if tok.kind == tokenEOF {
			return syntaxError(open.pos, strconv.Quote(open.text)+" was never closed")
		}
		return p.unexpected(tok)
	}

	want := closeBrackets[strings.IndexByte(openBrackets, open.text[0])]
	if tok.text[0] != want {
		return syntaxError(tok.pos, "closing bracket "+strconv.Quote(tok.text)+" does not match "+strconv.Quote(open.text))
	}

	p.next()
	return nil
}

func unary(kind nodeKind, pos int, operand *node) *node {
	if operand == nil {
		return nil
	}

	return &node{kind: kind, pos: pos, left: operand, height: operand.height + 1}
}

func binary(kind nodeKind, pos int, left, right *node) *node {
	if left == nil || right == nil {
		return nil
	}

	height := left.height
	if right.height > height {
		height = right.height
	}

	return &node{kind: kind, pos: pos, left: left, right: right, height: height + 1}
}
