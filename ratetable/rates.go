package ratetable

import "sort"

// UnknownBranch names the rates of a table that no branch title preceded
const UnknownBranch = "Неизвестное отделение"

// CurrencyRate is a quote for one currency at one branch
type CurrencyRate struct {
	// Code is an ISO 4217 three letter code, e.g. USD
	Code string
	// Units is the amount of foreign currency the quote refers to, e.g. 100 for JPY
	Units int
	Name  string
	// Buy is the price the bank pays per Units, nil if the page had no value
	Buy *float64
	// Sell is the price the bank charges per Units, nil if the page had no value
	Sell *float64
}

// BranchRates is the set of quotes published for a single branch
type BranchRates struct {
	Branch string
	Rates  map[string]CurrencyRate
}

// Rate returns the quote for the code
func (b BranchRates) Rate(code string) (CurrencyRate, bool) {
	r, ok := b.Rates[code]
	return r, ok
}

// Has reports whether the branch quotes all of the codes
func (b BranchRates) Has(codes ...string) bool {
	for _, code := range codes {
		if _, ok := b.Rates[code]; !ok {
			return false
		}
	}

	return true
}

// Codes returns the quoted currency codes in lexical order
func (b BranchRates) Codes() []string {
	codes := make([]string, 0, len(b.Rates))
	for code := range b.Rates {
		codes = append(codes, code)
	}

	sort.Strings(codes)

	return codes
}

// Result is everything recovered from one page
type Result struct {
	// Branches in the order their tables appear on the page
	Branches []BranchRates
	// Date is the publication date as written on the page, valid if HasDate
	Date    string
	HasDate bool
}
