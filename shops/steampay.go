package shops

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pricelab/gamedeals/slug"
)

// Steampay scrapes steampay.com product pages.
type Steampay struct {
	baseURL string
}

func NewSteampay(baseURL string) *Steampay {
	return &Steampay{baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *Steampay) Name() string { return "steampay" }

func (s *Steampay) LinkKey(title string) string { return slug.Make(title) }

func (s *Steampay) BuildURL(key string) string {
	return s.baseURL + "/game/" + key + "/"
}

// The site serves its 404 page with HTTP 200; the heading text is the only
// reliable marker.
func (s *Steampay) ClassifyNotFound(body, _ string) bool {
	return strings.Contains(body, "Ошибка! Страница не найдена")
}

func (s *Steampay) ExtractPrice(body string) (string, bool) {
	text, ok := selectorText(body, "div.product__current-price")
	if !ok {
		return "", false
	}
	return StripRub(text), true
}

var steampayDigits = regexp.MustCompile(`^\d[\d ]*$`)

func (s *Steampay) ClassifyPrice(text string) Classification {
	text = NormalizeSpace(text)
	if strings.EqualFold(text, "скоро") {
		return Classification{Kind: PriceTransient}
	}
	if steampayDigits.MatchString(text) {
		if v, ok := parseDigits(text); ok {
			return Classification{Kind: PriceNumeric, Value: v}
		}
	}
	return Classification{Kind: PriceUnknown}
}

// StockStatus reads the "Наличие" item of the product advantages list.
func (s *Steampay) StockStatus(body string) *StockStatus {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var status *StockStatus
	doc.Find("ul.product__advantages-list li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		class, _ := li.Attr("class")
		if !strings.Contains(class, "available") {
			return true
		}
		text := NormalizeSpace(li.Text())
		value, found := strings.CutPrefix(text, "Наличие:")
		if !found {
			return true
		}
		value = strings.TrimSpace(value)
		status = &StockStatus{Type: steampayStockType(value), Value: value}
		return false
	})
	return status
}

// steampayStockType maps the site's stock wording to a display badge kind.
func steampayStockType(value string) string {
	switch value {
	case "мало":
		return "warning"
	case "много":
		return "success"
	case "Достаточно":
		return "primary"
	case "закончился", "ожидается":
		return "danger"
	}
	return "dark"
}
