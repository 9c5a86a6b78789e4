package pricefeed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
)

const (
	// UnitCurrency is the currency all quotes are priced in.
	UnitCurrency = "USD"
	// RatePlaces is the number of decimal places kept in rates and results.
	RatePlaces = 7
)

// Conversion is the result of converting an amount between two symbols.
type Conversion struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
	Rate   decimal.Decimal `json:"rate"`
	Result decimal.Decimal `json:"result"`
}

// Converter derives exchange rates from USD quotes.
type Converter struct {
	prices Provider
	maxAge time.Duration
	now    func() time.Time
}

// NewConverter returns a converter over p. Quotes older than maxAge are
// refused; zero disables the check.
func NewConverter(p Provider, maxAge time.Duration) *Converter {
	return &Converter{prices: p, maxAge: maxAge, now: time.Now}
}

// Rate returns how many units of to one unit of from buys.
func (c *Converter) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	from, to = strings.ToUpper(strings.TrimSpace(from)), strings.ToUpper(strings.TrimSpace(to))
	for _, s := range []string{from, to} {
		if !symbolPattern.MatchString(s) {
			return decimal.Zero, fmt.Errorf("%w: %q", kerrors.ErrInvalidSymbols, s)
		}
	}
	if from == to {
		return decimal.New(1, 0), nil
	}

	var need []string
	for _, s := range []string{from, to} {
		if s != UnitCurrency {
			need = append(need, s)
		}
	}
	quotes, err := c.prices.Quotes(ctx, need)
	if err != nil {
		return decimal.Zero, err
	}

	fromPrice, err := c.price(quotes, from)
	if err != nil {
		return decimal.Zero, err
	}
	toPrice, err := c.price(quotes, to)
	if err != nil {
		return decimal.Zero, err
	}
	return fromPrice.DivRound(toPrice, RatePlaces), nil
}

// Convert multiplies amount by the from/to rate.
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (Conversion, error) {
	if amount.IsNegative() {
		return Conversion{}, fmt.Errorf("%w: %s is negative", kerrors.ErrInvalidAmount, amount)
	}
	rate, err := c.Rate(ctx, from, to)
	if err != nil {
		return Conversion{}, err
	}
	return Conversion{
		From:   strings.ToUpper(strings.TrimSpace(from)),
		To:     strings.ToUpper(strings.TrimSpace(to)),
		Amount: amount,
		Rate:   rate,
		Result: amount.Mul(rate).Round(RatePlaces),
	}, nil
}

func (c *Converter) price(quotes map[string]Quote, symbol string) (decimal.Decimal, error) {
	if symbol == UnitCurrency {
		return decimal.New(1, 0), nil
	}
	q, ok := quotes[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", kerrors.ErrUnknownSymbol, symbol)
	}
	if q.Price.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: %s", kerrors.ErrZeroPrice, symbol)
	}
	if c.maxAge > 0 && !q.UpdatedAt.IsZero() && c.now().Sub(q.UpdatedAt) > c.maxAge {
		return decimal.Zero, fmt.Errorf("%w: %s last updated %s", kerrors.ErrStalePrice, symbol, q.UpdatedAt.Format(time.RFC3339))
	}
	return q.Price, nil
}

// ParseAmount parses a non-negative decimal amount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", kerrors.ErrInvalidAmount, raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", kerrors.ErrInvalidAmount, raw)
	}
	return d, nil
}
