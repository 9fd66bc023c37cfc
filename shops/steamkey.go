package shops

import (
	"regexp"
	"strings"

	"github.com/pricelab/gamedeals/slug"
)

// Steamkey scrapes steamkey.com product pages.
type Steamkey struct {
	baseURL string
}

func NewSteamkey(baseURL string) *Steamkey {
	return &Steamkey{baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *Steamkey) Name() string { return "steamkey" }

func (s *Steamkey) LinkKey(title string) string { return slug.Make(title) }

func (s *Steamkey) BuildURL(key string) string {
	return s.baseURL + "/" + key + "/"
}

func (s *Steamkey) ClassifyNotFound(body, _ string) bool {
	return strings.Contains(body, "Данной страницы не существует")
}

// ExtractPrice reads div.price_value; the selector also matches the
// "price_value big" variant the site uses on discounted pages.
func (s *Steamkey) ExtractPrice(body string) (string, bool) {
	text, ok := selectorText(body, "div.price_value")
	if !ok {
		return "", false
	}
	return StripCurrencySymbols(StripRub(text)), true
}

var steamkeyDigits = regexp.MustCompile(`^\d[\d ]*$`)

// ClassifyPrice accepts integer prices only. Steamkey has no "coming soon"
// token; its availability signal is the stock marker handled by StockStatus.
func (s *Steamkey) ClassifyPrice(text string) Classification {
	text = NormalizeSpace(text)
	if steamkeyDigits.MatchString(text) {
		if v, ok := parseDigits(text); ok {
			return Classification{Kind: PriceNumeric, Value: v}
		}
	}
	return Classification{Kind: PriceUnknown}
}

func (s *Steamkey) StockStatus(body string) *StockStatus {
	if strings.Contains(body, "Товар в наличии") {
		return &StockStatus{Type: "success", Value: "товар в наличии"}
	}
	return &StockStatus{Type: "danger", Value: "Нету"}
}
