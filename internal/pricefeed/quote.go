package pricefeed

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
)

// MaxSymbols bounds one request.
const MaxSymbols = 50

var symbolPattern = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)

// Quote is a USD price for one symbol.
type Quote struct {
	Symbol    string
	Price     decimal.Decimal
	Change24h decimal.Decimal
	UpdatedAt time.Time
	// Fallback marks a last-known-good quote served while the upstream failed.
	Fallback bool
}

// Provider fetches quotes. Symbols the provider does not know are left out of
// the result; if none are known it returns ErrUnknownSymbol.
type Provider interface {
	Name() string
	Quotes(ctx context.Context, symbols []string) (map[string]Quote, error)
}

// ParseSymbols splits a comma-separated symbol list. Symbols are trimmed,
// upper-cased and de-duplicated in order.
func ParseSymbols(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: no symbols given", kerrors.ErrInvalidSymbols)
	}

	var symbols []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		s := strings.ToUpper(strings.TrimSpace(part))
		if s == "" {
			continue
		}
		if !symbolPattern.MatchString(s) {
			return nil, fmt.Errorf("%w: %q", kerrors.ErrInvalidSymbols, part)
		}
		if !seen[s] {
			seen[s] = true
			symbols = append(symbols, s)
		}
	}

	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: no symbols given", kerrors.ErrInvalidSymbols)
	}
	if len(symbols) > MaxSymbols {
		return nil, fmt.Errorf("%w: at most %d symbols per request", kerrors.ErrInvalidSymbols, MaxSymbols)
	}
	return symbols, nil
}
