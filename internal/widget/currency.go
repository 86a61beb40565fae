package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/bnema/nexus/internal/domain/entity"
	"github.com/bnema/nexus/internal/logging"
	"github.com/bnema/nexus/internal/storage"
)

// rateCacheTTL keeps the exchange snapshot for a day before a refresh
// is attempted.
const rateCacheTTL = 24 * time.Hour

const memRatesKey = "rates"

// Currency converts between currencies using day-cached USD-based
// rates. Rates survive restarts through the shared store; an in-process
// tier avoids re-reading the aggregate on every conversion.
type Currency struct {
	store  *storage.QuotaSafeStore
	client *http.Client
	apiURL string
	apiKey string
	mem    *gocache.Cache
	now    func() time.Time
}

// NewCurrency creates the currency widget. apiURL is the latest-rates
// endpoint; apiKey may be empty, in which case fetches fail with a
// configuration error and only cached rates are served.
func NewCurrency(store *storage.QuotaSafeStore, client *http.Client, apiURL, apiKey string) *Currency {
	if client == nil {
		client = http.DefaultClient
	}
	return &Currency{
		store:  store,
		client: client,
		apiURL: apiURL,
		apiKey: apiKey,
		mem:    gocache.New(rateCacheTTL, rateCacheTTL),
		now:    time.Now,
	}
}

// Prefs returns the persisted currency pair, defaulting to USD/CNY.
func (c *Currency) Prefs(ctx context.Context) entity.CurrencyPrefs {
	var prefs entity.CurrencyPrefs
	found, err := c.store.Load(entity.CurrencyPrefsKey, &prefs)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to load currency preferences")
	}
	if err != nil || !found || prefs.FromCurrency == "" || prefs.ToCurrency == "" {
		return entity.CurrencyPrefs{FromCurrency: "USD", ToCurrency: "CNY"}
	}
	return prefs
}

// SetPrefs persists the currency pair.
func (c *Currency) SetPrefs(ctx context.Context, prefs entity.CurrencyPrefs) bool {
	if err := c.store.Save(entity.CurrencyPrefsKey, prefs); err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("failed to save currency preferences")
		return false
	}
	return true
}

// Rates returns a usable rate snapshot, fetching only when the cached
// one is older than a day (or force is set). A failed refresh falls
// back to the stale snapshot when one exists.
func (c *Currency) Rates(ctx context.Context, force bool) (entity.CachedRates, error) {
	cached, haveCached := c.loadCached(ctx)
	if haveCached && !force && !c.stale(cached) {
		return cached, nil
	}

	fresh, err := c.fetch(ctx)
	if err != nil {
		if haveCached {
			logging.FromContext(ctx).Warn().Err(err).Msg("rate refresh failed, serving cached rates")
			return cached, nil
		}
		return entity.CachedRates{}, err
	}

	if saveErr := c.store.Save(entity.CurrencyRatesKey, fresh); saveErr != nil {
		logging.FromContext(ctx).Warn().Err(saveErr).Msg("failed to persist exchange rates")
	}
	c.mem.Set(memRatesKey, fresh, gocache.DefaultExpiration)
	return fresh, nil
}

// Convert computes amount in the from currency expressed in the to
// currency, rounded to two decimal places. Unknown currencies behave as
// rate 1 (the base).
func Convert(rates entity.CachedRates, from, to string, amount float64) float64 {
	fromRate, ok := rates.Rates[from]
	if !ok || fromRate == 0 {
		fromRate = 1
	}
	toRate, ok := rates.Rates[to]
	if !ok || toRate == 0 {
		toRate = 1
	}
	return math.Round(amount/fromRate*toRate*100) / 100
}

// Rate returns the direct exchange rate of the pair.
func Rate(rates entity.CachedRates, from, to string) float64 {
	return Convert(rates, from, to, 1)
}

func (c *Currency) stale(rates entity.CachedRates) bool {
	return c.now().Sub(time.UnixMilli(rates.Timestamp)) > rateCacheTTL
}

func (c *Currency) loadCached(ctx context.Context) (entity.CachedRates, bool) {
	if hit, ok := c.mem.Get(memRatesKey); ok {
		if rates, ok := hit.(entity.CachedRates); ok {
			return rates, true
		}
	}

	var rates entity.CachedRates
	found, err := c.store.Load(entity.CurrencyRatesKey, &rates)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to load cached exchange rates")
		return entity.CachedRates{}, false
	}
	if !found || len(rates.Rates) == 0 {
		return entity.CachedRates{}, false
	}
	c.mem.Set(memRatesKey, rates, gocache.DefaultExpiration)
	return rates, true
}

type ratesResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Rates   map[string]float64 `json:"rates"`
	Base    string             `json:"base"`
	Date    string             `json:"date"`
}

func (c *Currency) fetch(ctx context.Context) (entity.CachedRates, error) {
	if c.apiKey == "" {
		return entity.CachedRates{}, fmt.Errorf("no exchange rate api key configured")
	}

	endpoint := fmt.Sprintf("%s?api_key=%s&base=USD&resolution=1d", c.apiURL, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return entity.CachedRates{}, fmt.Errorf("build rates request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return entity.CachedRates{}, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entity.CachedRates{}, fmt.Errorf("rates api returned status %d", resp.StatusCode)
	}

	var parsed ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return entity.CachedRates{}, fmt.Errorf("decode rates response: %w", err)
	}
	if !parsed.Success {
		if parsed.Message == "" {
			parsed.Message = "rates api returned an error"
		}
		return entity.CachedRates{}, fmt.Errorf("%s", parsed.Message)
	}

	return entity.CachedRates{
		Rates:     parsed.Rates,
		Base:      parsed.Base,
		Timestamp: c.now().UnixMilli(),
		Date:      parsed.Date,
	}, nil
}
