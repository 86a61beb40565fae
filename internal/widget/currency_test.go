package widget

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/nexus/internal/domain/entity"
)

func newRatesServer(t *testing.T, calls *atomic.Int64, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "USD", r.URL.Query().Get("base"))
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const ratesBody = `{"success":true,"base":"USD","date":"2026-09-01","rates":{"USD":1,"CNY":7.1,"EUR":0.9}}`

func TestRatesFetchesAndCaches(t *testing.T) {
	var calls atomic.Int64
	srv := newRatesServer(t, &calls, ratesBody)

	store := newTestStore()
	c := NewCurrency(store, srv.Client(), srv.URL, "secret")
	ctx := context.Background()

	rates, err := c.Rates(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "USD", rates.Base)
	assert.Equal(t, "2026-09-01", rates.Date)
	assert.InDelta(t, 7.1, rates.Rates["CNY"], 0.0001)
	assert.EqualValues(t, 1, calls.Load())

	// Fresh snapshot: no second request within the day.
	_, err = c.Rates(ctx, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())

	// Snapshot survives in the shared store for a fresh instance.
	c2 := NewCurrency(store, srv.Client(), srv.URL, "secret")
	_, err = c2.Rates(ctx, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())
}

func TestRatesRefreshesWhenStale(t *testing.T) {
	var calls atomic.Int64
	srv := newRatesServer(t, &calls, ratesBody)

	c := NewCurrency(newTestStore(), srv.Client(), srv.URL, "secret")
	ctx := context.Background()

	now := time.UnixMilli(1_700_000_000_000)
	c.now = func() time.Time { return now }

	_, err := c.Rates(ctx, false)
	require.NoError(t, err)

	now = now.Add(rateCacheTTL + time.Minute)
	_, err = c.Rates(ctx, false)
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
}

func TestRatesFailedRefreshFallsBackToCache(t *testing.T) {
	store := newTestStore()
	stale := entity.CachedRates{
		Rates:     map[string]float64{"USD": 1, "CNY": 7.0},
		Base:      "USD",
		Timestamp: time.Now().Add(-48 * time.Hour).UnixMilli(),
		Date:      "2026-08-30",
	}
	require.NoError(t, store.Save(entity.CurrencyRatesKey, stale))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := NewCurrency(store, srv.Client(), srv.URL, "secret")
	rates, err := c.Rates(context.Background(), false)
	require.NoError(t, err, "stale cache must be served when the refresh fails")
	assert.Equal(t, "2026-08-30", rates.Date)
}

func TestRatesErrorsWithoutKeyOrCache(t *testing.T) {
	c := NewCurrency(newTestStore(), nil, "https://api.fxratesapi.com/latest", "")
	_, err := c.Rates(context.Background(), false)
	assert.Error(t, err)
}

func TestRatesAPIErrorPayload(t *testing.T) {
	var calls atomic.Int64
	srv := newRatesServer(t, &calls, `{"success":false,"message":"invalid api key"}`)

	c := NewCurrency(newTestStore(), srv.Client(), srv.URL, "secret")
	_, err := c.Rates(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestConvertCrossRate(t *testing.T) {
	rates := entity.CachedRates{
		Rates: map[string]float64{"USD": 1, "CNY": 7.1, "EUR": 0.9},
	}

	// USD -> CNY straight through the base.
	assert.InDelta(t, 7.1, Convert(rates, "USD", "CNY", 1), 0.0001)
	// EUR -> CNY via USD, rounded to cents.
	assert.InDelta(t, 7.89, Convert(rates, "EUR", "CNY", 1), 0.0001)
	// Unknown currency behaves as the base.
	assert.InDelta(t, 7.1, Convert(rates, "XXX", "CNY", 1), 0.0001)
	assert.InDelta(t, 7.89, Rate(rates, "EUR", "CNY"), 0.0001)
}

func TestPrefsRoundTrip(t *testing.T) {
	c := NewCurrency(newTestStore(), nil, "", "")
	ctx := context.Background()

	prefs := c.Prefs(ctx)
	assert.Equal(t, "USD", prefs.FromCurrency)
	assert.Equal(t, "CNY", prefs.ToCurrency)

	require.True(t, c.SetPrefs(ctx, entity.CurrencyPrefs{FromCurrency: "EUR", ToCurrency: "GBP"}))
	prefs = c.Prefs(ctx)
	assert.Equal(t, "EUR", prefs.FromCurrency)
	assert.Equal(t, "GBP", prefs.ToCurrency)
}
