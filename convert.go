package gorates

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robotomize/gorates/ratetable"
)

var (
	ErrBranchNotFound   = errors.New("branch not found")
	ErrRateNotFound     = errors.New("rate not found")
	ErrNegativeAmount   = errors.New("amount must not be negative")
	ErrUnknownDirection = errors.New("unknown conversion direction")
)

const (
	// LocalCurrency is the currency every bank quote is expressed in
	LocalCurrency = "RUB"
	// MoscowMarker selects the Moscow branch
	MoscowMarker = "Москва"
)

// Direction of a conversion relative to the local currency
type Direction uint8

const (
	DirectionUnknown Direction = iota
	// DirectionToLocal sells foreign currency to the bank at its buy rate
	DirectionToLocal
	// DirectionFromLocal buys foreign currency from the bank at its sell rate
	DirectionFromLocal
)

func (d Direction) String() string {
	switch d {
	case DirectionToLocal:
		return "to_local"
	case DirectionFromLocal:
		return "from_local"
	default:
		return "unknown"
	}
}

// FindBranch returns the first branch, in page order, whose name contains marker and
// that quotes every code
func FindBranch(branches []ratetable.BranchRates, marker string, codes ...string) (ratetable.BranchRates, error) {
	for _, b := range branches {
		if strings.Contains(b.Branch, marker) && b.Has(codes...) {
			return b, nil
		}
	}

	return ratetable.BranchRates{}, fmt.Errorf("%w: %q with %s", ErrBranchNotFound, marker, strings.Join(codes, ", "))
}

type ConversionResponse struct {
	Branch    string
	Direction Direction
	// Value is the amount given, in From currency
	Value float64
	From  string
	To    string
	// Quote is the bank rate as published, per Units of foreign currency
	Quote float64
	Units int
	// Rate is the local currency price of one unit of foreign currency
	Rate   float64
	Amount float64
}

func (r ConversionResponse) String() string {
	return fmt.Sprintf(
		"Value: %.2f, From: %s, To: %s, Rate: %f, Amount: %.2f",
		r.Value,
		r.From,
		r.To,
		r.Rate,
		r.Amount,
	)
}

// Convert exchanges value of code against the local currency using the branch quotes.
// Foreign to local multiplies by buy/units, local to foreign divides by sell/units.
func Convert(branch ratetable.BranchRates, code string, dir Direction, value float64) (ConversionResponse, error) {
	resp := ConversionResponse{Branch: branch.Branch, Direction: dir, Value: value}

	if !(value >= 0) {
		return resp, fmt.Errorf("%w: %v", ErrNegativeAmount, value)
	}

	rate, ok := branch.Rate(code)
	if !ok {
		return resp, fmt.Errorf("%w: %s in %q", ErrRateNotFound, code, branch.Branch)
	}

	units := rate.Units
	if units < 1 {
		units = 1
	}
	resp.Units = units

	switch dir {
	case DirectionToLocal:
		if rate.Buy == nil {
			return resp, fmt.Errorf("%w: no buy quote for %s", ErrRateNotFound, code)
		}

		resp.From, resp.To = rate.Code, LocalCurrency
		resp.Quote = *rate.Buy
		resp.Rate = *rate.Buy / float64(units)
		resp.Amount = value * resp.Rate
	case DirectionFromLocal:
		if rate.Sell == nil || *rate.Sell == 0 {
			return resp, fmt.Errorf("%w: no sell quote for %s", ErrRateNotFound, code)
		}

		resp.From, resp.To = LocalCurrency, rate.Code
		resp.Quote = *rate.Sell
		resp.Rate = *rate.Sell / float64(units)
		resp.Amount = value / resp.Rate
	default:
		return resp, fmt.Errorf("%w: %d", ErrUnknownDirection, dir)
	}

	return resp, nil
}

// ConvertPair converts between a foreign code and the local currency in either order
func ConvertPair(branch ratetable.BranchRates, from, to string, value float64) (ConversionResponse, error) {
	from, to = strings.ToUpper(strings.TrimSpace(from)), strings.ToUpper(strings.TrimSpace(to))

	switch {
	case to == LocalCurrency && from != LocalCurrency:
		return Convert(branch, from, DirectionToLocal, value)
	case from == LocalCurrency && to != LocalCurrency:
		return Convert(branch, to, DirectionFromLocal, value)
	default:
		return ConversionResponse{Branch: branch.Branch, Value: value, From: from, To: to},
			fmt.Errorf("%w: %s -> %s, one side must be %s", ErrUnknownDirection, from, to, LocalCurrency)
	}
}
