// Package server exposes the price feed over HTTP for the browser dashboard.
//
// Endpoints (GET only, OPTIONS answers CORS preflight):
//
//	/api/prices?symbols=BTC,ETH       CoinGecko quotes
//	/api/cmc-prices?symbols=BTC,ETH   CoinMarketCap quotes (503 without an API key)
//	/api/convert?amount=1&from=BTC&to=XLM
//	/healthz
//
// Price responses map each symbol to {"price": ..., "change24h": ...}. Bad
// symbol lists get 400; upstream failures get 500 with a generic message so
// provider details never reach the client. Each client IP is rate limited.
package server
