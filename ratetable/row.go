package ratetable

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var codeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// parseRow interprets the cells of one table row as [code, units, name, buy, sell].
// The second return value is false when the row is not a currency quote
func parseRow(cells []string) (CurrencyRate, bool) {
	if len(cells) < 3 {
		return CurrencyRate{}, false
	}

	code := strings.ToUpper(cells[0])
	if !codeRe.MatchString(code) {
		return CurrencyRate{}, false
	}

	units, err := strconv.Atoi(strings.TrimSpace(cells[1]))
	if err != nil || units < 1 {
		units = 1
	}

	rate := CurrencyRate{
		Code:  code,
		Units: units,
		Name:  cells[2],
	}

	if len(cells) > 3 {
		rate.Buy = parseDecimal(cells[3])
	}

	if len(cells) > 4 {
		rate.Sell = parseDecimal(cells[4])
	}

	return rate, true
}

// parseDecimal parses numbers written with either a decimal comma or a decimal point.
// Empty, malformed, negative and non-finite values give nil
func parseDecimal(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}

	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}

	return &v
}
