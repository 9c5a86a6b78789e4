package workflows

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/PolarWolf314/lumen/internal/configs"
	kerrors "github.com/PolarWolf314/lumen/internal/errors"
	"github.com/PolarWolf314/lumen/internal/pricefeed"
	"github.com/PolarWolf314/lumen/internal/server"
)

const (
	ProviderCoinGecko     = "coingecko"
	ProviderCoinMarketCap = "coinmarketcap"
)

// Feeds are the cached price providers built from config. CoinMarketCap is
// nil when no API key is configured.
type Feeds struct {
	CoinGecko     pricefeed.Provider
	CoinMarketCap pricefeed.Provider
	Converter     *pricefeed.Converter
}

// NewFeeds wires the upstream client, providers, caches and converter.
// The converter prices through the cached CoinGecko feed.
func NewFeeds(cfg configs.PricesConfig, log *zap.Logger) (*Feeds, error) {
	if log == nil {
		log = zap.NewNop()
	}
	client := pricefeed.NewClient(pricefeed.ClientOptions{
		Timeout:  configs.MustDuration(cfg.Timeout),
		RetryMax: cfg.RetryMax,
		Logger:   log,
	})
	ttl := configs.MustDuration(cfg.CacheTTL)
	fallback := !cfg.DisableFallback

	gecko, err := pricefeed.NewCache(pricefeed.NewCoinGecko(cfg.CoinGeckoURL, client), cfg.CacheSize, ttl, fallback, log)
	if err != nil {
		return nil, err
	}
	feeds := &Feeds{
		CoinGecko: gecko,
		Converter: pricefeed.NewConverter(gecko, configs.MustDuration(cfg.MaxAge)),
	}

	if cfg.CoinMarketCapKey != "" {
		cmc, err := pricefeed.NewCache(
			pricefeed.NewCoinMarketCap(cfg.CoinMarketCapURL, cfg.CoinMarketCapKey, client),
			cfg.CacheSize, ttl, fallback, log)
		if err != nil {
			return nil, err
		}
		feeds.CoinMarketCap = cmc
	}
	return feeds, nil
}

// Provider returns the feed with the given name.
func (f *Feeds) Provider(name string) (pricefeed.Provider, error) {
	switch strings.ToLower(name) {
	case "", ProviderCoinGecko:
		return f.CoinGecko, nil
	case ProviderCoinMarketCap, "cmc":
		if f.CoinMarketCap == nil {
			return nil, fmt.Errorf("%w: set prices.coinmarketcap_key or COINMARKETCAP_API_KEY", kerrors.ErrMissingAPIKey)
		}
		return f.CoinMarketCap, nil
	default:
		return nil, fmt.Errorf("%w: %q", kerrors.ErrUnknownProvider, name)
	}
}

// QuoteOptions configures the quote workflow.
type QuoteOptions struct {
	Prices   configs.PricesConfig
	Symbols  string
	Provider string
}

// QuoteResult lists quotes in request order. Missing holds symbols the
// provider does not know.
type QuoteResult struct {
	Provider string
	Quotes   []pricefeed.Quote
	Missing  []string
}

// Quote fetches current USD quotes for a comma-separated symbol list.
func Quote(ctx context.Context, opts QuoteOptions) (*QuoteResult, error) {
	symbols, err := pricefeed.ParseSymbols(opts.Symbols)
	if err != nil {
		return nil, err
	}
	feeds, err := NewFeeds(opts.Prices, nil)
	if err != nil {
		return nil, err
	}
	provider, err := feeds.Provider(opts.Provider)
	if err != nil {
		return nil, err
	}

	quotes, err := provider.Quotes(ctx, symbols)
	if err != nil {
		return nil, err
	}

	result := &QuoteResult{Provider: provider.Name()}
	for _, s := range symbols {
		if q, ok := quotes[s]; ok {
			result.Quotes = append(result.Quotes, q)
		} else {
			result.Missing = append(result.Missing, s)
		}
	}
	return result, nil
}

// ConvertOptions configures the convert workflow.
type ConvertOptions struct {
	Prices configs.PricesConfig
	Amount string
	From   string
	To     string
}

// Convert converts Amount of From into To at current prices.
func Convert(ctx context.Context, opts ConvertOptions) (*pricefeed.Conversion, error) {
	amount, err := pricefeed.ParseAmount(opts.Amount)
	if err != nil {
		return nil, err
	}
	feeds, err := NewFeeds(opts.Prices, nil)
	if err != nil {
		return nil, err
	}
	conversion, err := feeds.Converter.Convert(ctx, amount, opts.From, opts.To)
	if err != nil {
		return nil, err
	}
	return &conversion, nil
}

// NewServer builds the price proxy server from config.
func NewServer(cfg *configs.Config, log *zap.Logger) (*server.Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	feeds, err := NewFeeds(cfg.Prices, log)
	if err != nil {
		return nil, err
	}
	return server.New(cfg.Server, server.Deps{
		CoinGecko:     feeds.CoinGecko,
		CoinMarketCap: feeds.CoinMarketCap,
		Converter:     feeds.Converter,
		Logger:        log,
	}), nil
}
