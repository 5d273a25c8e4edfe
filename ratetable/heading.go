package ratetable

import "github.com/robotomize/gorates/internal/strutil"

// branchMarkers are the city names that appear in branch titles
var branchMarkers = []string{
	"Москва",
	"Санкт-Петербург",
	"Казань",
	"Новосибирск",
	"Екатеринбург",
	"Нижний Новгород",
}

// looksLikeBranchTitle reports whether text names a branch: a known city plus an office
// number or a street address
func looksLikeBranchTitle(text string) bool {
	return strutil.ContainsAny(text, branchMarkers) && strutil.HasDigit(text)
}
