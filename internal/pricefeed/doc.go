// Package pricefeed fetches third-party crypto prices.
//
// Two upstreams are supported, CoinGecko (no key) and CoinMarketCap (API
// key). Both sit behind the Provider interface and share one retrying HTTP
// client built on hashicorp/go-retryablehttp. A Cache in front of a provider
// answers repeat requests from an expiring LRU and, when the upstream is down,
// from the last quote it saw for each symbol.
//
// Prices are shopspring decimals. Converter derives exchange rates between
// two symbols through USD, rounded to 7 decimal places, and refuses quotes
// that are zero or older than its maximum age.
package pricefeed
