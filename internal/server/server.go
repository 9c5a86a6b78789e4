package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/netip"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/PolarWolf314/lumen/internal/configs"
	"github.com/PolarWolf314/lumen/internal/pricefeed"
)

// Deps are the collaborators a Server needs. CoinMarketCap may be nil when
// no API key is configured.
type Deps struct {
	CoinGecko     pricefeed.Provider
	CoinMarketCap pricefeed.Provider
	Converter     *pricefeed.Converter
	Logger        *zap.Logger
}

type Server struct {
	cfg     configs.ServerConfig
	deps    Deps
	log     *zap.Logger
	limiter *multiLimiter
	proxies []netip.Prefix
	handler http.Handler
	srv     *http.Server
}

func New(cfg configs.ServerConfig, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	s := &Server{
		cfg:     cfg,
		deps:    deps,
		log:     deps.Logger,
		limiter: newMultiLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst, 10*time.Minute),
	}
	proxies, invalid := parseTrustedProxies(cfg.TrustedProxies)
	if len(invalid) > 0 {
		s.log.Warn("ignoring invalid trusted proxies", zap.Strings("entries", invalid))
	}
	s.proxies = proxies

	mux := http.NewServeMux()
	mux.HandleFunc("/api/prices", s.pricesHandler(func() pricefeed.Provider { return s.deps.CoinGecko }))
	mux.HandleFunc("/api/cmc-prices", s.pricesHandler(func() pricefeed.Provider { return s.deps.CoinMarketCap }))
	mux.HandleFunc("/api/convert", s.handleConvert)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.handler = s.logRequests(s.cors(s.rateLimit(mux)))
	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the full middleware chain, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("price proxy listening", zap.String("addr", s.cfg.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving %s: %w", s.cfg.Addr, err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down price proxy")
	return s.srv.Shutdown(ctx)
}
