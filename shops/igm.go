package shops

import (
	"regexp"
	"strings"

	"github.com/pricelab/gamedeals/slug"
)

// IGM scrapes igm.gg product pages.
type IGM struct {
	baseURL string
}

func NewIGM(baseURL string) *IGM {
	return &IGM{baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *IGM) Name() string { return "igm" }

func (s *IGM) LinkKey(title string) string { return slug.Make(title) }

func (s *IGM) BuildURL(key string) string {
	return s.baseURL + "/game/" + key + "/"
}

// igm serves every unknown path as its storefront landing page, so absence is
// decided from the <title>: the generic storefront title, or a title that
// does not mention the game, means the product page does not exist.
func (s *IGM) ClassifyNotFound(body, gameName string) bool {
	title, ok := pageTitle(body)
	if !ok {
		return true
	}
	if strings.Contains(title, "IGM.GG - Магазин видеоигр для ПК") ||
		strings.Contains(title, "Купить ключи Steam") {
		return true
	}
	return !strings.Contains(title, gameName)
}

// The price paragraph carries a CSS-module class with a build hash suffix,
// so match on the stable prefix only.
func (s *IGM) ExtractPrice(body string) (string, bool) {
	text, ok := selectorText(body, `p[class*="Price_price__price-text"]`)
	if !ok {
		return "", false
	}
	return StripCurrencySymbols(text), true
}

var igmDigits = regexp.MustCompile(`^[\d ]+$`)

func (s *IGM) ClassifyPrice(text string) Classification {
	text = NormalizeSpace(text)
	if strings.EqualFold(text, "скоро") {
		return Classification{Kind: PriceTransient}
	}
	if igmDigits.MatchString(text) {
		if v, ok := parseDigits(text); ok {
			return Classification{Kind: PriceNumeric, Value: v}
		}
	}
	return Classification{Kind: PriceUnknown}
}

func (s *IGM) StockStatus(string) *StockStatus { return nil }
