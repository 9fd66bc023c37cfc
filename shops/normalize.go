package shops

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// The storefronts render prices with whatever space code point their CSS
// framework likes this month. All of them mean "thousands separator".
var spaceVariants = strings.NewReplacer(
	" ", " ", // no-break space
	" ", " ", // thin space
	" ", " ", // narrow no-break space
	"\t", " ",
	"\n", " ",
	"\r", " ",
)

var multiSpace = regexp.MustCompile(` +`)

// NormalizeSpace unifies exotic whitespace to plain spaces, collapses runs
// and trims. Entity decoding already happened during HTML parsing.
func NormalizeSpace(s string) string {
	s = spaceVariants.Replace(s)
	return strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
}

// currencySymbols covers every currency glyph seen on the tracked shops.
var currencySymbols = strings.NewReplacer(
	"₽", "", "₴", "", "$", "", "€", "", "£", "", "¥", "",
)

// StripCurrencySymbols removes currency glyphs (not words) from price text.
func StripCurrencySymbols(s string) string {
	return NormalizeSpace(currencySymbols.Replace(s))
}

// StripRub removes the spelled-out ruble words some shops append.
func StripRub(s string) string {
	s = strings.ReplaceAll(s, "руб.", "")
	s = strings.ReplaceAll(s, "руб", "")
	return NormalizeSpace(s)
}

// parseDigits parses "1 499"-style text (digits with space grouping) to a
// float. Returns ok=false when the text contains anything else.
func parseDigits(s string) (float64, bool) {
	cleaned := strings.ReplaceAll(s, " ", "")
	if cleaned == "" {
		return 0, false
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// selectorText parses an HTML body and returns the text of the first node
// matching the selector. ok=false when no node matches or the body is not
// parseable HTML.
func selectorText(body, selector string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", false
	}
	sel := doc.Find(selector)
	if sel.Length() == 0 {
		return "", false
	}
	return NormalizeSpace(sel.First().Text()), true
}

// pageTitle returns the contents of the document's <title>.
func pageTitle(body string) (string, bool) {
	return selectorText(body, "title")
}
