// Package shops contains the per-storefront linking and price extraction
// rules. Every storefront implements the same Adapter contract; engines stay
// shop-agnostic and adding a storefront means adding one adapter here.
package shops

import "fmt"

// PriceKind classifies the text found inside a shop's price block.
type PriceKind int

const (
	// PriceNumeric means the text parsed to a positive-or-zero price.
	PriceNumeric PriceKind = iota
	// PriceTransient means the shop's "temporarily unavailable" token
	// ("скоро" and friends). No snapshot is taken and the listing stays
	// enabled.
	PriceTransient
	// PriceUnknown means text this adapter cannot interpret. Refreshing the
	// page again will not help, so the listing's import flag gets disabled.
	PriceUnknown
)

// Classification is the result of classifying a price block's text.
type Classification struct {
	Kind  PriceKind
	Value float64 // set when Kind == PriceNumeric
}

// StockStatus is the display-only availability hint some shops expose next to
// the price. Type is one of the badge kinds the admin screens render
// (success, warning, danger, primary, dark).
type StockStatus struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ExtraParams is the typed shape of a listing's extra_params column. The wire
// key paramPrice is fixed; consumers of the column depend on it.
type ExtraParams struct {
	Stock *StockStatus `json:"paramPrice,omitempty"`
}

// Adapter bundles everything that differs between storefronts: the URL
// template, the not-found page markers, the price block selector and the
// price text vocabulary.
type Adapter interface {
	Name() string

	// LinkKey derives the external key a listing for this title would have,
	// usually a slug. Empty means the title cannot be probed.
	LinkKey(title string) string

	// BuildURL fills the shop's URL template with an external key.
	BuildURL(key string) string

	// ClassifyNotFound reports whether the fetched page is the shop's
	// "page does not exist" response. Shops that decide this from the page
	// title need the game name to tell a real page from the storefront's
	// generic landing page.
	ClassifyNotFound(body, gameName string) bool

	// ExtractPrice returns the text content of the shop's price block,
	// or ok=false when no block is present on the page.
	ExtractPrice(body string) (text string, ok bool)

	// ClassifyPrice interprets extracted price text.
	ClassifyPrice(text string) Classification

	// StockStatus extracts the availability side-channel, nil when this shop
	// has none or the page does not carry it.
	StockStatus(body string) *StockStatus
}

// ForShop returns the adapter for a configured shop name.
func ForShop(name, baseURL string) (Adapter, error) {
	switch name {
	case "steampay":
		return NewSteampay(baseURL), nil
	case "steamkey":
		return NewSteamkey(baseURL), nil
	case "steambuy":
		return NewSteambuy(baseURL), nil
	case "igm":
		return NewIGM(baseURL), nil
	case "steam":
		return NewSteam(baseURL), nil
	}
	return nil, fmt.Errorf("no adapter for shop %q", name)
}
