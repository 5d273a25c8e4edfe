// Package calc evaluates arithmetic typed by a user at a prompt.
//
// The accepted language is real numbers, parentheses, unary + and -, and the
// binary operators + - * / // % ** with the usual precedence: ** binds
// tightest and is right associative, so "-2**2" is -4 and "2**-1" is 0.5.
// Anything else that looks like a program (names, calls, strings,
// comparisons, bit operations) is read far enough to report a precise reason
// and is never part of the tree that gets evaluated.
package calc
