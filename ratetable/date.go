package ratetable

import (
	"regexp"
	"strings"
)

const months = `января|февраля|марта|апреля|мая|июня|июля|августа|сентября|октября|ноября|декабря`

// pageDateRe matches either a date after one of the lead-in phrases the bank uses above its tables
// or a bare "12 марта 2024". The leftmost match in the page text wins
var pageDateRe = regexp.MustCompile(
	`(?i)(?:установленные банком на|Курс валют\s*/?)\s*(\d{1,2}[. ]\d{1,2}[. ]\d{4}|\d{1,2}\s+[\p{L}\p{N}_]+\s+\d{4})` +
		`|(?:^|\D)(\d{1,2}\s+(?:` + months + `)\s+\d{4})`,
)

// findPageDate searches the whole page text, a date split across two text blocks is still found
func findPageDate(fragments []string) (string, bool) {
	m := pageDateRe.FindStringSubmatch(strings.Join(fragments, "\n"))
	if m == nil {
		return "", false
	}

	if m[1] != "" {
		return m[1], true
	}

	return m[2], true
}
