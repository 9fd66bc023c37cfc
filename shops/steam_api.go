package shops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// SteamAPI is the structured catalog source: the public app list plus the
// per-app details endpoint. It is the only shop interface that returns
// machine-readable metadata (genres, popularity) instead of scraped HTML.
type SteamAPI struct {
	apiBase   string
	storeBase string
	fetcher   *Fetcher
}

// NewSteamAPI creates a client. Empty bases default to the public endpoints.
func NewSteamAPI(apiBase, storeBase string, fetcher *Fetcher) *SteamAPI {
	if apiBase == "" {
		apiBase = "https://api.steampowered.com"
	}
	if storeBase == "" {
		storeBase = "https://store.steampowered.com"
	}
	return &SteamAPI{apiBase: apiBase, storeBase: storeBase, fetcher: fetcher}
}

// AppRef is one entry of the full catalog app list.
type AppRef struct {
	AppID int    `json:"appid"`
	Name  string `json:"name"`
}

// AppList fetches the complete public app catalog.
func (c *SteamAPI) AppList(ctx context.Context) ([]AppRef, error) {
	status, body, err := c.fetcher.Get(ctx, c.apiBase+"/ISteamApps/GetAppList/v2/")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("app list returned status %d", status)
	}

	var payload struct {
		AppList struct {
			Apps []AppRef `json:"apps"`
		} `json:"applist"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("decode app list: %w", err)
	}
	return payload.AppList.Apps, nil
}

// AppDetails is the parsed shape of one appdetails response.
type AppDetails struct {
	AppID            int
	Success          bool
	Type             string
	Name             string
	ShortDescription string
	IsFree           bool
	ReleaseDate      time.Time
	Genres           []string
	Recommendations  int
	HasPrice         bool
}

// IsGame reports whether the entry is a priced, described, genre-tagged game,
// which is the bar for creating a catalog entry from it.
func (d *AppDetails) IsGame() bool {
	return d.Success &&
		d.Type == "game" &&
		d.ShortDescription != "" &&
		len(d.Genres) > 0 &&
		d.HasPrice
}

// releaseDateLayouts covers the formats the store emits per locale setting.
var releaseDateLayouts = []string{"2 Jan, 2006", "Jan 2, 2006", "2006-01-02"}

// AppDetails fetches and parses details for one appid. The raw response body
// is returned alongside so callers can persist it for later reprocessing.
func (c *SteamAPI) AppDetails(ctx context.Context, appID int) (*AppDetails, string, error) {
	url := fmt.Sprintf("%s/api/appdetails?appids=%d&cc=ru&l=ru", c.storeBase, appID)
	status, body, err := c.fetcher.Get(ctx, url)
	if err != nil {
		return nil, "", err
	}
	if status != http.StatusOK {
		return nil, "", fmt.Errorf("appdetails %d returned status %d", appID, status)
	}

	details, err := ParseAppDetails(appID, []byte(body))
	if err != nil {
		return nil, body, err
	}
	return details, body, nil
}

// ParseAppDetails decodes an appdetails payload, which is keyed by the
// stringified appid.
func ParseAppDetails(appID int, raw []byte) (*AppDetails, error) {
	var payload map[string]struct {
		Success bool `json:"success"`
		Data    struct {
			Type             string `json:"type"`
			Name             string `json:"name"`
			ShortDescription string `json:"short_description"`
			IsFree           bool   `json:"is_free"`
			ReleaseDate      struct {
				Date string `json:"date"`
			} `json:"release_date"`
			Genres []struct {
				Description string `json:"description"`
			} `json:"genres"`
			Recommendations struct {
				Total int `json:"total"`
			} `json:"recommendations"`
			PriceOverview *struct {
				Final int `json:"final"`
			} `json:"price_overview"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode appdetails %d: %w", appID, err)
	}

	entry, ok := payload[strconv.Itoa(appID)]
	if !ok {
		return &AppDetails{AppID: appID}, nil
	}

	d := &AppDetails{
		AppID:            appID,
		Success:          entry.Success,
		Type:             entry.Data.Type,
		Name:             entry.Data.Name,
		ShortDescription: entry.Data.ShortDescription,
		IsFree:           entry.Data.IsFree,
		Recommendations:  entry.Data.Recommendations.Total,
		HasPrice:         entry.Data.PriceOverview != nil,
	}
	for _, g := range entry.Data.Genres {
		d.Genres = append(d.Genres, g.Description)
	}
	d.ReleaseDate = parseReleaseDate(entry.Data.ReleaseDate.Date)
	return d, nil
}

func parseReleaseDate(s string) time.Time {
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	// The store sometimes reports "Coming soon" or nothing at all.
	return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
}
