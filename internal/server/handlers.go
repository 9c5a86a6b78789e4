package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
	"github.com/PolarWolf314/lumen/internal/pricefeed"
)

type priceView struct {
	Price     float64 `json:"price"`
	Change24h float64 `json:"change24h"`
}

type conversionView struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount string  `json:"amount"`
	Rate   string  `json:"rate"`
	Result string  `json:"result"`
	Value  float64 `json:"value"`
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSONStatus(w, code, map[string]string{"error": msg})
}

func (s *Server) pricesHandler(provider func() pricefeed.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := provider()
		if p == nil {
			writeError(w, http.StatusServiceUnavailable, "price provider not configured")
			return
		}

		symbols, err := pricefeed.ParseSymbols(r.URL.Query().Get("symbols"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing or invalid symbols parameter")
			return
		}

		quotes, err := p.Quotes(r.Context(), symbols)
		if err != nil {
			s.writeFeedError(w, p.Name(), err)
			return
		}

		out := make(map[string]priceView, len(quotes))
		for sym, q := range quotes {
			price, _ := q.Price.Float64()
			change, _ := q.Change24h.Float64()
			out[sym] = priceView{Price: price, Change24h: change}
		}
		writeJSON(w, out)
	}
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if s.deps.Converter == nil {
		writeError(w, http.StatusServiceUnavailable, "converter not configured")
		return
	}

	q := r.URL.Query()
	raw := q.Get("amount")
	if raw == "" {
		raw = "1"
	}
	amount, err := pricefeed.ParseAmount(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount parameter")
		return
	}
	if q.Get("from") == "" || q.Get("to") == "" {
		writeError(w, http.StatusBadRequest, "from and to parameters are required")
		return
	}

	c, err := s.deps.Converter.Convert(r.Context(), amount, q.Get("from"), q.Get("to"))
	if err != nil {
		s.writeFeedError(w, "converter", err)
		return
	}

	value, _ := c.Result.Float64()
	writeJSON(w, conversionView{
		From:   c.From,
		To:     c.To,
		Amount: c.Amount.String(),
		Rate:   c.Rate.String(),
		Result: c.Result.String(),
		Value:  value,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// writeFeedError maps price feed errors to status codes. Upstream details are
// logged, never returned.
func (s *Server) writeFeedError(w http.ResponseWriter, source string, err error) {
	switch {
	case errors.Is(err, kerrors.ErrInvalidSymbols), errors.Is(err, kerrors.ErrUnknownSymbol):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, kerrors.ErrStalePrice), errors.Is(err, kerrors.ErrZeroPrice):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.log.Error("price fetch failed", zap.String("source", source), zap.Error(err))
		writeError(w, http.StatusInternalServerError, kerrors.ErrUpstream.Error())
	}
}
