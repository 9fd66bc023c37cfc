package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricelab/gamedeals/db"
	"github.com/pricelab/gamedeals/shops"
)

const productPage = `<html><body>
<div class="product__current-price">1 499 <span>руб.</span></div>
</body></html>`

const missingPage = `<html><body>
<h1>Ошибка! Страница не найдена.</h1>
</body></html>`

func testDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestDiscovery(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path == "/game/half-life-3/" {
			_, _ = w.Write([]byte(productPage))
			return
		}
		_, _ = w.Write([]byte(missingPage))
	}))
	defer srv.Close()

	database := testDB(t)
	shopID, err := database.UpsertShop("steampay", srv.URL, "")
	require.NoError(t, err)
	_, err = database.CreateGame(&db.Game{Name: "Half-Life 3"})
	require.NoError(t, err)
	_, err = database.CreateGame(&db.Game{Name: "Ghost Game"})
	require.NoError(t, err)

	engine := &Discovery{
		DB:      database,
		Fetcher: shops.NewFetcher("", time.Second),
		Pacer:   NewPacer(0, 0),
	}

	summary, err := engine.Run(context.Background(), "steampay")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Linked)
	assert.Equal(t, 1, summary.NotFound)
	assert.EqualValues(t, 2, requests.Load())

	listings, err := database.ListingsForShop(shopID, true)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Half-Life 3", listings[0].Name)
	assert.Equal(t, "half-life-3", listings[0].ExternalKey)
	assert.Equal(t, srv.URL+"/game/half-life-3/", listings[0].URL)

	verdicts, err := database.ProbeVerdicts(shopID)
	require.NoError(t, err)
	assert.False(t, verdicts["half-life-3"])
	assert.True(t, verdicts["ghost-game"])

	// Second run: the linked game is skipped outright and the missing game is
	// answered from the probe cache. No network traffic at all.
	summary, err = engine.Run(context.Background(), "steampay")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Linked)
	assert.Equal(t, 1, summary.Cached)
	assert.EqualValues(t, 2, requests.Load())
}

func TestDiscoveryProbeBudget(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte(missingPage))
	}))
	defer srv.Close()

	database := testDB(t)
	_, err := database.UpsertShop("steampay", srv.URL, "")
	require.NoError(t, err)
	for _, name := range []string{"Game One", "Game Two", "Game Three"} {
		_, err = database.CreateGame(&db.Game{Name: name})
		require.NoError(t, err)
	}

	engine := &Discovery{
		DB:       database,
		Fetcher:  shops.NewFetcher("", time.Second),
		Pacer:    NewPacer(0, 0),
		MaxLinks: 2,
	}

	summary, err := engine.Run(context.Background(), "steampay")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.NotFound)
	assert.EqualValues(t, 2, requests.Load())
}

func TestDiscoveryUnslugifiableTitle(t *testing.T) {
	database := testDB(t)
	_, err := database.UpsertShop("steampay", "http://127.0.0.1:0", "")
	require.NoError(t, err)
	_, err = database.CreateGame(&db.Game{Name: "@#$%"})
	require.NoError(t, err)

	engine := &Discovery{
		DB:      database,
		Fetcher: shops.NewFetcher("", time.Second),
		Pacer:   NewPacer(0, 0),
	}

	summary, err := engine.Run(context.Background(), "steampay")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Unslugifiable)
	assert.Equal(t, 0, summary.Errors)
}

func TestDiscoveryUnknownShopClosesRunLog(t *testing.T) {
	database := testDB(t)

	engine := &Discovery{
		DB:      database,
		Fetcher: shops.NewFetcher("", time.Second),
		Pacer:   NewPacer(0, 0),
	}

	_, err := engine.Run(context.Background(), "steampay")
	assert.ErrorIs(t, err, db.ErrShopNotFound)

	// The run log bracket closes even when the job aborts early.
	runs, err := database.ListRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "shop:discover:steampay", runs[0].JobName)
	assert.False(t, runs[0].FinishedAt.IsZero())
}
