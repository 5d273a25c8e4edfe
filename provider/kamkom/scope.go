package kamkom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// scoped returns the outer HTML of every element matching selector, in
// document order. An empty selector or one without matches returns text as is.
func scoped(text, selector string) (string, error) {
	if selector == "" {
		return text, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return "", fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}

	var buf strings.Builder
	sel := doc.Find(selector)
	for i := range sel.Nodes {
		h, err := goquery.OuterHtml(sel.Eq(i))
		if err != nil {
			return "", fmt.Errorf("render scope: %w", err)
		}

		buf.WriteString(h)
		buf.WriteByte('\n')
	}

	if buf.Len() == 0 {
		return text, nil
	}

	return buf.String(), nil
}
