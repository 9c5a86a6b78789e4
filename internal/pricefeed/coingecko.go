package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
)

// coinGeckoIDs maps ticker symbols to CoinGecko coin ids.
var coinGeckoIDs = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"XLM":   "stellar",
	"USDC":  "usd-coin",
	"USDT":  "tether",
	"SOL":   "solana",
	"ADA":   "cardano",
	"XRP":   "ripple",
	"DOGE":  "dogecoin",
	"BNB":   "binancecoin",
	"DOT":   "polkadot",
	"MATIC": "matic-network",
	"LTC":   "litecoin",
	"AVAX":  "avalanche-2",
	"LINK":  "chainlink",
	"AQUA":  "aquarius",
}

// CoinGecko reads the public simple/price endpoint.
type CoinGecko struct {
	baseURL string
	client  *retryablehttp.Client
}

func NewCoinGecko(baseURL string, client *retryablehttp.Client) *CoinGecko {
	return &CoinGecko{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (g *CoinGecko) Name() string { return "coingecko" }

type geckoPrice struct {
	USD           json.Number `json:"usd"`
	USD24hChange  json.Number `json:"usd_24h_change"`
	LastUpdatedAt int64       `json:"last_updated_at"`
}

func (g *CoinGecko) Quotes(ctx context.Context, symbols []string) (map[string]Quote, error) {
	ids := make([]string, 0, len(symbols))
	byID := make(map[string]string, len(symbols))
	for _, s := range symbols {
		if id, ok := coinGeckoIDs[s]; ok {
			ids = append(ids, id)
			byID[id] = s
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrUnknownSymbol, strings.Join(symbols, ","))
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", "usd")
	q.Set("include_24hr_change", "true")
	q.Set("include_last_updated_at", "true")

	var body map[string]geckoPrice
	if err := getJSON(ctx, g.client, g.baseURL+"/simple/price?"+q.Encode(), nil, &body); err != nil {
		return nil, err
	}

	quotes := make(map[string]Quote, len(body))
	for id, p := range body {
		symbol, ok := byID[id]
		if !ok || p.USD == "" {
			continue
		}
		price, err := decimal.NewFromString(p.USD.String())
		if err != nil {
			return nil, fmt.Errorf("%w: bad price for %s: %w", kerrors.ErrUpstream, symbol, err)
		}
		change := decimal.Zero
		if p.USD24hChange != "" {
			if change, err = decimal.NewFromString(p.USD24hChange.String()); err != nil {
				return nil, fmt.Errorf("%w: bad change for %s: %w", kerrors.ErrUpstream, symbol, err)
			}
		}
		quote := Quote{Symbol: symbol, Price: price, Change24h: change}
		if p.LastUpdatedAt > 0 {
			quote.UpdatedAt = time.Unix(p.LastUpdatedAt, 0).UTC()
		}
		quotes[symbol] = quote
	}
	return quotes, nil
}
