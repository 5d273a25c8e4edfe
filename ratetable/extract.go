package ratetable

import (
	"strings"

	"github.com/robotomize/gorates/internal/strutil"
	"golang.org/x/net/html"
)

// captureTags hold free text, e.g. branch titles and the publication date
var captureTags = map[string]struct{}{
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"p": {}, "div": {}, "span": {}, "li": {},
}

// Extract reads branch rates and the publication date from the markup.
// Extract never fails: malformed rows and tables are skipped
func Extract(markup string) Result {
	e := newExtractor()
	z := html.NewTokenizer(strings.NewReader(markup))

TokenLoop:
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a tokenizer failure, keep what has been read so far
			break TokenLoop
		case html.TextToken:
			e.text(string(z.Text()))
		case html.StartTagToken:
			name, _ := z.TagName()
			e.open(string(name))
		case html.EndTagToken:
			name, _ := z.TagName()
			e.close(string(name))
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			e.open(string(name))
			e.close(string(name))
		}
	}

	return e.result()
}

// extractor is the parse state of a single Extract call
type extractor struct {
	// captureTag is the text element being read, empty if none
	captureTag string
	// captureFrom is the offset in buf where the text of captureTag starts
	captureFrom int
	buf         strings.Builder

	inTable bool
	inRow   bool
	inCell  bool

	cells       []string
	lastHeading string
	current     *BranchRates

	branches []BranchRates
	pageText []string
}

func newExtractor() *extractor {
	return &extractor{}
}

func (e *extractor) open(tag string) {
	switch {
	case isCaptureTag(tag):
		// Inside a cell the buffer belongs to the cell and is not reset, so a nested
		// capture tag (<td><span>a</span> b</td>) keeps the whole cell text instead of
		// dropping what came before it.
		if !e.inCell {
			e.buf.Reset()
		}

		e.captureTag = tag
		e.captureFrom = e.buf.Len()
	case tag == "table":
		name := e.lastHeading
		if name == "" {
			name = UnknownBranch
		}

		e.inTable = true
		e.current = &BranchRates{Branch: name, Rates: make(map[string]CurrencyRate)}
	case tag == "tr" && e.inTable:
		e.inRow = true
		e.cells = e.cells[:0]
	case (tag == "td" || tag == "th") && e.inRow:
		e.inCell = true
		e.buf.Reset()
		e.captureFrom = 0
	}
}

func (e *extractor) close(tag string) {
	switch {
	case (tag == "td" || tag == "th") && e.inRow && e.inCell:
		e.cells = append(e.cells, strutil.CollapseSpaces(e.buf.String()))
		e.inCell = false
		e.buf.Reset()
		e.captureFrom = 0
	case tag == "tr" && e.inTable && e.inRow:
		if rate, ok := parseRow(e.cells); ok && e.current != nil {
			e.current.Rates[rate.Code] = rate
		}

		e.inRow = false
		e.cells = e.cells[:0]
	case tag == "table" && e.inTable:
		if e.current != nil && len(e.current.Rates) > 0 {
			e.branches = append(e.branches, *e.current)
		}

		e.inTable = false
		e.current = nil
	case isCaptureTag(tag) && e.captureTag == tag:
		if text := strutil.CollapseSpaces(e.captured()); text != "" {
			e.pageText = append(e.pageText, text)
			if looksLikeBranchTitle(text) {
				e.lastHeading = text
			}
		}

		e.captureTag = ""
		if !e.inCell {
			e.buf.Reset()
		}
	}
}

func (e *extractor) text(data string) {
	if e.captureTag != "" || e.inCell {
		e.buf.WriteString(data)
	}
}

// captured returns the text read since captureTag opened
func (e *extractor) captured() string {
	s := e.buf.String()
	if e.captureFrom > len(s) {
		return ""
	}

	return s[e.captureFrom:]
}

func (e *extractor) result() Result {
	res := Result{Branches: e.branches}
	res.Date, res.HasDate = findPageDate(e.pageText)

	return res
}

func isCaptureTag(tag string) bool {
	_, ok := captureTags[tag]
	return ok
}
