package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
)

// CoinMarketCap reads the quotes/latest endpoint of the pro API.
type CoinMarketCap struct {
	baseURL string
	apiKey  string
	client  *retryablehttp.Client
}

func NewCoinMarketCap(baseURL, apiKey string, client *retryablehttp.Client) *CoinMarketCap {
	return &CoinMarketCap{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, client: client}
}

func (c *CoinMarketCap) Name() string { return "coinmarketcap" }

type cmcResponse struct {
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
	Data map[string]struct {
		Symbol string `json:"symbol"`
		Quote  map[string]struct {
			Price            json.Number `json:"price"`
			PercentChange24h json.Number `json:"percent_change_24h"`
			LastUpdated      string      `json:"last_updated"`
		} `json:"quote"`
	} `json:"data"`
}

func (c *CoinMarketCap) Quotes(ctx context.Context, symbols []string) (map[string]Quote, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: no symbols", kerrors.ErrUnknownSymbol)
	}

	q := url.Values{}
	q.Set("symbol", strings.Join(symbols, ","))
	q.Set("convert", "USD")

	header := http.Header{}
	header.Set("X-CMC_PRO_API_KEY", c.apiKey)

	var body cmcResponse
	if err := getJSON(ctx, c.client, c.baseURL+"/v1/cryptocurrency/quotes/latest?"+q.Encode(), header, &body); err != nil {
		return nil, err
	}
	if body.Status.ErrorCode != 0 {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrUpstream, body.Status.ErrorMessage)
	}

	quotes := make(map[string]Quote, len(body.Data))
	for symbol, d := range body.Data {
		usd, ok := d.Quote["USD"]
		if !ok || usd.Price == "" {
			continue
		}
		price, err := decimal.NewFromString(usd.Price.String())
		if err != nil {
			return nil, fmt.Errorf("%w: bad price for %s: %w", kerrors.ErrUpstream, symbol, err)
		}
		change := decimal.Zero
		if usd.PercentChange24h != "" {
			if change, err = decimal.NewFromString(usd.PercentChange24h.String()); err != nil {
				return nil, fmt.Errorf("%w: bad change for %s: %w", kerrors.ErrUpstream, symbol, err)
			}
		}
		qt := Quote{Symbol: strings.ToUpper(symbol), Price: price, Change24h: change}
		if t, err := time.Parse(time.RFC3339, usd.LastUpdated); err == nil {
			qt.UpdatedAt = t.UTC()
		}
		quotes[qt.Symbol] = qt
	}

	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrUnknownSymbol, strings.Join(symbols, ","))
	}
	return quotes, nil
}
