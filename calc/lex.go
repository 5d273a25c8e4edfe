package calc

import (
	"errors"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
	// num is the value of a tokenNum
	num float64
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is an integer or real literal.
	tokenNum
	// tokenImag is an imaginary literal such as 2j.
	tokenImag
	// tokenIdent is a name or a keyword.
	tokenIdent
	// tokenString is a quoted string literal.
	tokenString
	// tokenOp is an operator or punctuation other than brackets.
	tokenOp
	// tokenOpen is an open bracket, e.g. (.
	tokenOpen
	// tokenClose is a close bracket, e.g. ).
	tokenClose
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "EOF"
	case tokenNum:
		return "Num"
	case tokenImag:
		return "Imag"
	case tokenIdent:
		return "Ident"
	case tokenString:
		return "String"
	case tokenOp:
		return "Op"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	default:
		return "None"
	}
}

// operators is ordered so that two-rune operators are tried first.
var operators = []string{
	"**", "//", "<<", ">>", "<=", ">=", "==", "!=", ":=", "->",
	"+", "-", "*", "/", "%", "@", "&", "|", "^", "~", "<", ">", "=", ".", ",", ":", ";",
}

const (
	openBrackets  = "([{"
	closeBrackets = ")]}"
)

type lexer struct {
	src []rune
	off int
}

// lex splits the whole input into tokens. The last token is always tokenEOF.
func lex(src string) ([]lexToken, error) {
	l := &lexer{src: []rune(src)}

	var toks []lexToken
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)
		if tok.kind == tokenEOF {
			return toks, nil
		}
	}
}

func (l *lexer) peek(n int) rune {
	if l.off+n >= len(l.src) {
		return 0
	}

	return l.src[l.off+n]
}

func (l *lexer) next() (lexToken, error) {
	lineBreak := -1
	for l.off < len(l.src) && unicode.IsSpace(l.src[l.off]) {
		if lineBreak < 0 && (l.src[l.off] == '\n' || l.src[l.off] == '\r') {
			lineBreak = l.off
		}
		l.off++
	}

	tok := lexToken{pos: l.off + 1}
	if l.off >= len(l.src) {
		tok.kind = tokenEOF
		return tok, nil
	}

	// trailing line breaks are whitespace, anything after one is a second statement
	if lineBreak >= 0 {
		return tok, syntaxError(lineBreak+1, "line breaks are not allowed")
	}

	r := l.src[l.off]
	switch {
	case isDigit(r), r == '.' && isDigit(l.peek(1)):
		return l.scanNum(tok)
	case r == '_', unicode.IsLetter(r):
		start := l.off
		for l.off < len(l.src) && isIdentRune(l.src[l.off]) {
			l.off++
		}

		tok.text = string(l.src[start:l.off])
		// string prefixes such as b'' or f""
		if q := l.peek(0); (q == '\'' || q == '"') && len(tok.text) <= 2 {
			return l.scanString(tok, start)
		}

		tok.kind = tokenIdent
		return tok, nil
	case r == '\'', r == '"':
		return l.scanString(tok, l.off)
	case strings.ContainsRune(openBrackets, r):
		l.off++
		tok.text = string(r)
		tok.kind = tokenOpen
		return tok, nil
	case strings.ContainsRune(closeBrackets, r):
		l.off++
		tok.text = string(r)
		tok.kind = tokenClose
		return tok, nil
	}

	for _, op := range operators {
		if l.hasPrefix(op) {
			l.off += len([]rune(op))
			tok.text = op
			tok.kind = tokenOp
			return tok, nil
		}
	}

	return tok, syntaxError(tok.pos, "invalid character "+strconv.QuoteRune(r))
}

func (l *lexer) hasPrefix(s string) bool {
	i := l.off
	for _, r := range s {
		if i >= len(l.src) || l.src[i] != r {
			return false
		}
		i++
	}

	return true
}

// scanNum scans decimal, hexadecimal, octal and binary literals. Underscores may separate digits.
func (l *lexer) scanNum(tok lexToken) (lexToken, error) {
	start := l.off
	if l.peek(0) == '0' && strings.ContainsRune("xXoObB", l.peek(1)) {
		l.off += 2
		for l.off < len(l.src) && (isHexDigit(l.src[l.off]) || l.src[l.off] == '_') {
			l.off++
		}

		tok.text = string(l.src[start:l.off])
		if l.off < len(l.src) && isIdentRune(l.src[l.off]) {
			return tok, syntaxError(tok.pos, "invalid number "+strconv.Quote(tok.text+string(l.src[l.off])))
		}

		// big.Int accepts the same prefixes and underscore rules with base 0
		n, ok := new(big.Int).SetString(tok.text, 0)
		if !ok {
			return tok, syntaxError(tok.pos, "invalid number "+strconv.Quote(tok.text))
		}

		tok.num, _ = new(big.Float).SetInt(n).Float64()
		tok.kind = tokenNum
		return tok, nil
	}

	var dot, exp bool
	l.digits()
	if l.peek(0) == '.' {
		dot = true
		l.off++
		l.digits()
	}

	if r := l.peek(0); r == 'e' || r == 'E' {
		mark := l.off
		l.off++
		if r := l.peek(0); r == '+' || r == '-' {
			l.off++
		}

		if isDigit(l.peek(0)) {
			exp = true
			l.digits()
		} else {
			l.off = mark
		}
	}

	imag := false
	if r := l.peek(0); r == 'j' || r == 'J' {
		imag = true
		l.off++
	}

	tok.text = string(l.src[start:l.off])
	if l.off < len(l.src) && isIdentRune(l.src[l.off]) {
		return tok, syntaxError(tok.pos, "invalid number "+strconv.Quote(tok.text+string(l.src[l.off])))
	}

	text := strings.TrimRight(tok.text, "jJ")
	if strings.Contains(text, "__") || strings.HasSuffix(text, "_") || strings.Contains(text, "_.") ||
		strings.Contains(text, "._") || strings.Contains(text, "_e") || strings.Contains(text, "_E") {
		return tok, syntaxError(tok.pos, "invalid number "+strconv.Quote(tok.text))
	}

	digits := strings.ReplaceAll(text, "_", "")
	if !dot && !exp && !imag && len(digits) > 1 && digits[0] == '0' && strings.Trim(digits, "0") != "" {
		return tok, syntaxError(tok.pos, "leading zeros in decimal integer literals are not permitted")
	}

	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) || numErr.Err != strconv.ErrRange {
			return tok, syntaxError(tok.pos, "invalid number "+strconv.Quote(tok.text))
		}
	}

	tok.num = v
	tok.kind = tokenNum
	if imag {
		tok.kind = tokenImag
	}

	return tok, nil
}

// digits consumes digits and single underscores.
func (l *lexer) digits() {
	for l.off < len(l.src) && (isDigit(l.src[l.off]) || l.src[l.off] == '_') {
		l.off++
	}
}

func (l *lexer) scanString(tok lexToken, start int) (lexToken, error) {
	quote := l.src[l.off]
	l.off++
	for l.off < len(l.src) {
		r := l.src[l.off]
		l.off++
		switch r {
		case '\\':
			l.off++
		case quote:
			tok.text = string(l.src[start:l.off])
			tok.kind = tokenString
			return tok, nil
		}
	}

	return tok, syntaxError(tok.pos, "unterminated string literal")
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F'
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
