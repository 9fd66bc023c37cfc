package shops

import "testing"

const steampayProductPage = `<!DOCTYPE html>
<html><head><title>Half-Life 3 — SteamPay</title></head>
<body>
<ul class="product__advantages-list">
  <li class="product__advantages-item product__advantages-item--available">Наличие: <span class="product__advantages-success">много</span></li>
</ul>
<div class="product__current-price">1 499 <span>руб.</span></div>
</body></html>`

const steampayMissingPage = `<html><body>
<h1 class="not-found-error__title">Ошибка! Страница не найдена.</h1>
</body></html>`

func TestSteampay(t *testing.T) {
	a := NewSteampay("https://steampay.com")

	if got := a.BuildURL("half-life-3"); got != "https://steampay.com/game/half-life-3/" {
		t.Errorf("BuildURL = %q", got)
	}
	if a.ClassifyNotFound(steampayProductPage, "Half-Life 3") {
		t.Error("product page classified as missing")
	}
	if !a.ClassifyNotFound(steampayMissingPage, "Half-Life 3") {
		t.Error("missing page not classified as missing")
	}

	text, ok := a.ExtractPrice(steampayProductPage)
	if !ok {
		t.Fatal("price block not found")
	}
	c := a.ClassifyPrice(text)
	if c.Kind != PriceNumeric || c.Value != 1499 {
		t.Errorf("ClassifyPrice(%q) = %+v, want numeric 1499", text, c)
	}

	stock := a.StockStatus(steampayProductPage)
	if stock == nil || stock.Type != "success" || stock.Value != "много" {
		t.Errorf("StockStatus = %+v, want success/много", stock)
	}
}

func TestSteampayClassifyPrice(t *testing.T) {
	a := NewSteampay("https://steampay.com")
	tests := []struct {
		text string
		kind PriceKind
		val  float64
	}{
		{"1 499", PriceNumeric, 1499},
		{"30", PriceNumeric, 30},
		{"скоро", PriceTransient, 0},
		{"Скоро", PriceTransient, 0},
		{"N/A", PriceUnknown, 0},
		{"12.50", PriceUnknown, 0},
		{"", PriceUnknown, 0},
	}
	for _, tc := range tests {
		c := a.ClassifyPrice(tc.text)
		if c.Kind != tc.kind || c.Value != tc.val {
			t.Errorf("ClassifyPrice(%q) = %+v, want kind %v value %v", tc.text, c, tc.kind, tc.val)
		}
	}
}

const steamkeyProductPage = `<html><body>
<span>Товар в наличии</span>
<div class="price_value big">1 000 ₽</div>
</body></html>`

const steamkeyMissingPage = `<html><body>
<h1 class="page-header__title">Данной страницы не существует</h1>
</body></html>`

func TestSteamkey(t *testing.T) {
	a := NewSteamkey("https://steamkey.com")

	if got := a.BuildURL("half-life-3"); got != "https://steamkey.com/half-life-3/" {
		t.Errorf("BuildURL = %q", got)
	}
	if !a.ClassifyNotFound(steamkeyMissingPage, "") {
		t.Error("missing page not classified as missing")
	}

	text, ok := a.ExtractPrice(steamkeyProductPage)
	if !ok {
		t.Fatal("price block not found")
	}
	c := a.ClassifyPrice(text)
	if c.Kind != PriceNumeric || c.Value != 1000 {
		t.Errorf("ClassifyPrice(%q) = %+v, want numeric 1000", text, c)
	}

	stock := a.StockStatus(steamkeyProductPage)
	if stock == nil || stock.Type != "success" {
		t.Errorf("StockStatus = %+v, want success", stock)
	}
	stock = a.StockStatus("<html><body>nothing here</body></html>")
	if stock == nil || stock.Type != "danger" || stock.Value != "Нету" {
		t.Errorf("StockStatus on empty page = %+v, want danger/Нету", stock)
	}
}

const steambuyProductPage = `<html><body>
<div class="product-price__cost">1 000 р</div>
</body></html>`

const steambuyMissingPage = `<html><body>
<div class="review-heaing__title">Ошибка 404</div>
</body></html>`

func TestSteambuy(t *testing.T) {
	a := NewSteambuy("https://steambuy.com")

	if got := a.LinkKey("Half-Life 3"); got != "half-life-3-russia" {
		t.Errorf("LinkKey = %q, want half-life-3-russia", got)
	}
	if got := a.LinkKey("@#$%"); got != "" {
		t.Errorf("LinkKey for unslugifiable title = %q, want empty", got)
	}
	if got := a.BuildURL("half-life-3-russia"); got != "https://steambuy.com/steam/half-life-3-russia/" {
		t.Errorf("BuildURL = %q", got)
	}
	if !a.ClassifyNotFound(steambuyMissingPage, "") {
		t.Error("missing page not classified as missing")
	}

	text, ok := a.ExtractPrice(steambuyProductPage)
	if !ok {
		t.Fatal("price block not found")
	}
	c := a.ClassifyPrice(text)
	if c.Kind != PriceNumeric || c.Value != 1000 {
		t.Errorf("ClassifyPrice(%q) = %+v, want numeric 1000", text, c)
	}

	tests := []struct {
		text string
		kind PriceKind
	}{
		{"30 р", PriceNumeric},
		{"30р", PriceNumeric},
		{"скоро", PriceTransient},
		{"30", PriceUnknown}, // the site always writes the ruble letter
		{"N/A", PriceUnknown},
	}
	for _, tc := range tests {
		if got := a.ClassifyPrice(tc.text); got.Kind != tc.kind {
			t.Errorf("ClassifyPrice(%q).Kind = %v, want %v", tc.text, got.Kind, tc.kind)
		}
	}
}

const igmProductPage = `<html><head><title>Купить Half-Life 3 дёшево — IGM</title></head>
<body><p class="Price_price__price-text__MpdHL">1 499 ₽</p></body></html>`

const igmStorefrontPage = `<html><head><title>IGM.GG - Магазин видеоигр для ПК</title></head>
<body><p>витрина</p></body></html>`

const igmWrongGamePage = `<html><head><title>Купить Portal 2 дёшево — IGM</title></head>
<body><p class="Price_price__price-text__MpdHL">99 ₽</p></body></html>`

func TestIGM(t *testing.T) {
	a := NewIGM("https://igm.gg")

	if got := a.BuildURL("half-life-3"); got != "https://igm.gg/game/half-life-3/" {
		t.Errorf("BuildURL = %q", got)
	}
	if a.ClassifyNotFound(igmProductPage, "Half-Life 3") {
		t.Error("product page classified as missing")
	}
	if !a.ClassifyNotFound(igmStorefrontPage, "Half-Life 3") {
		t.Error("storefront landing page not classified as missing")
	}
	if !a.ClassifyNotFound(igmWrongGamePage, "Half-Life 3") {
		t.Error("page for another game not classified as missing")
	}
	if !a.ClassifyNotFound("<html><body>no title</body></html>", "Half-Life 3") {
		t.Error("titleless page not classified as missing")
	}

	// The NBSP grouping separator must survive extraction.
	text, ok := a.ExtractPrice(igmProductPage)
	if !ok {
		t.Fatal("price block not found")
	}
	c := a.ClassifyPrice(text)
	if c.Kind != PriceNumeric || c.Value != 1499 {
		t.Errorf("ClassifyPrice(%q) = %+v, want numeric 1499", text, c)
	}
}

const steamDiscountPage = `<html><body>
<div class="discount_final_price">299,99₽</div>
<div class="game_purchase_price price">599,99₽</div>
</body></html>`

const steamRegularPage = `<html><body>
<div class="game_purchase_price price"> 1 100 руб. </div>
</body></html>`

func TestSteam(t *testing.T) {
	a := NewSteam("https://store.steampowered.com")

	if got := a.BuildURL("440"); got != "https://store.steampowered.com/app/440/?cc=ru" {
		t.Errorf("BuildURL = %q", got)
	}

	// Discounted price wins over the regular block.
	text, ok := a.ExtractPrice(steamDiscountPage)
	if !ok {
		t.Fatal("price block not found")
	}
	c := a.ClassifyPrice(text)
	if c.Kind != PriceNumeric || c.Value != 299.99 {
		t.Errorf("ClassifyPrice(%q) = %+v, want numeric 299.99", text, c)
	}

	text, ok = a.ExtractPrice(steamRegularPage)
	if !ok {
		t.Fatal("regular price block not found")
	}
	c = a.ClassifyPrice(text)
	if c.Kind != PriceNumeric || c.Value != 1100 {
		t.Errorf("ClassifyPrice(%q) = %+v, want numeric 1100", text, c)
	}

	// Foreign currency is a skip, not a format error.
	if got := a.ClassifyPrice("$19.99"); got.Kind != PriceTransient {
		t.Errorf("foreign currency classified as %v, want transient", got.Kind)
	}
	if got := a.ClassifyPrice("мусор ₽"); got.Kind != PriceUnknown {
		t.Errorf("garbage classified as %v, want unknown", got.Kind)
	}

	if _, ok := a.ExtractPrice("<html><body>front page</body></html>"); ok {
		t.Error("price extracted from page without price block")
	}
}

func TestForShop(t *testing.T) {
	for _, name := range []string{"steampay", "steamkey", "steambuy", "igm", "steam"} {
		a, err := ForShop(name, "https://example.test")
		if err != nil {
			t.Fatalf("ForShop(%q): %v", name, err)
		}
		if a.Name() != name {
			t.Errorf("ForShop(%q).Name() = %q", name, a.Name())
		}
	}
	if _, err := ForShop("gog", ""); err == nil {
		t.Error("expected error for unknown shop")
	}
}
