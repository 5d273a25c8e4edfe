package calc

import (
	"errors"
	"strconv"
)

// ErrRejected matches every error returned by Evaluate and Parse
var ErrRejected = errors.New("rejected expression")

// Kind classifies a rejection
type Kind uint8

const (
	KindNone Kind = iota
	// KindSyntax means the input is not a well formed expression
	KindSyntax
	// KindInvalidExpression means a construct other than arithmetic, e.g. a name or a call
	KindInvalidExpression
	// KindInvalidOperation means an operator outside + - * / // % **
	KindInvalidOperation
	// KindOnlyNumbers means a literal that is not a real number, e.g. a string
	KindOnlyNumbers
	// KindDomain means the arithmetic has no real result, e.g. division by zero
	KindDomain
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindInvalidExpression:
		return "invalid expression"
	case KindInvalidOperation:
		return "invalid operation"
	case KindOnlyNumbers:
		return "only numbers"
	case KindDomain:
		return "domain"
	default:
		return "none"
	}
}

// RejectedError is the only error type produced by this package.
type RejectedError struct {
	Kind Kind
	// Reason is a human readable explanation
	Reason string
	// Col is the rune position of the offending token, starting at 1
	Col int
}

func (err *RejectedError) Error() string {
	if err.Col <= 0 {
		return err.Reason
	}

	return strconv.Itoa(err.Col) + ": " + err.Reason
}

// Pos returns the position of the token that caused the rejection.
func (err *RejectedError) Pos() int {
	return err.Col
}

func (err *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

func reject(kind Kind, col int, reason string) *RejectedError {
	return &RejectedError{Kind: kind, Reason: reason, Col: col}
}

func syntaxError(col int, reason string) *RejectedError {
	return reject(KindSyntax, col, "invalid syntax: "+reason)
}
