package shops

import (
	"strconv"
	"strings"
)

// Steam reads prices from store.steampowered.com app pages. Listings are
// keyed by numeric appid rather than a slug; discovery for this shop goes
// through the catalog API (see SteamAPI), not page probing.
type Steam struct {
	baseURL string
}

func NewSteam(baseURL string) *Steam {
	return &Steam{baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *Steam) Name() string { return "steam" }

// LinkKey returns "": Steam listings are never linked by slug probing.
func (s *Steam) LinkKey(string) string { return "" }

func (s *Steam) BuildURL(key string) string {
	return s.baseURL + "/app/" + key + "/?cc=ru"
}

// The store answers unknown appids with a redirect to the front page; the
// price block check below covers that, so no body marker is needed.
func (s *Steam) ClassifyNotFound(string, string) bool { return false }

// ExtractPrice prefers the discounted price block and falls back to the
// regular purchase price.
func (s *Steam) ExtractPrice(body string) (string, bool) {
	if text, ok := selectorText(body, "div.discount_final_price"); ok {
		return text, true
	}
	return selectorText(body, "div.game_purchase_price.price")
}

// ClassifyPrice only accepts ruble prices; the store quotes other regions in
// their own currency and those numbers are not comparable, so they are
// treated as transiently unavailable rather than a format error. Steam is
// the one shop that uses a decimal comma.
func (s *Steam) ClassifyPrice(text string) Classification {
	text = NormalizeSpace(text)
	lower := strings.ToLower(text)
	if !strings.Contains(text, "₽") && !strings.Contains(lower, "руб") {
		return Classification{Kind: PriceTransient}
	}

	cleaned := strings.NewReplacer("₽", "", "руб.", "", "руб", "", " ", "").Replace(lower)
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return Classification{Kind: PriceUnknown}
	}
	return Classification{Kind: PriceNumeric, Value: v}
}

func (s *Steam) StockStatus(string) *StockStatus { return nil }
