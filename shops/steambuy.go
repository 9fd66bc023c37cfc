package shops

import (
	"regexp"
	"strings"

	"github.com/pricelab/gamedeals/slug"
)

// Steambuy scrapes steambuy.com product pages.
type Steambuy struct {
	baseURL string
}

func NewSteambuy(baseURL string) *Steambuy {
	return &Steambuy{baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *Steambuy) Name() string { return "steambuy" }

// LinkKey appends the site's region suffix: steambuy keys its RU-region
// product pages as <slug>-russia.
func (s *Steambuy) LinkKey(title string) string {
	base := slug.Make(title)
	if base == "" {
		return ""
	}
	return base + "-russia"
}

func (s *Steambuy) BuildURL(key string) string {
	return s.baseURL + "/steam/" + key + "/"
}

func (s *Steambuy) ClassifyNotFound(body, _ string) bool {
	return strings.Contains(body, "Ошибка 404")
}

func (s *Steambuy) ExtractPrice(body string) (string, bool) {
	return selectorText(body, "div.product-price__cost")
}

// The site renders prices as "1 000 р" with a trailing ruble letter.
var steambuyPrice = regexp.MustCompile(`^\d[\d ]* ?р$`)

func (s *Steambuy) ClassifyPrice(text string) Classification {
	text = NormalizeSpace(text)
	if strings.EqualFold(text, "скоро") {
		return Classification{Kind: PriceTransient}
	}
	if steambuyPrice.MatchString(text) {
		digits := NormalizeSpace(strings.TrimSuffix(text, "р"))
		if v, ok := parseDigits(digits); ok {
			return Classification{Kind: PriceNumeric, Value: v}
		}
	}
	return Classification{Kind: PriceUnknown}
}

func (s *Steambuy) StockStatus(string) *StockStatus { return nil }
