package pricefeed

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
)

// Cache serves recent quotes from memory and falls back to the last good
// quote per symbol when the upstream fails.
type Cache struct {
	provider Provider
	fresh    *expirable.LRU[string, Quote]
	lastGood *lru.Cache[string, Quote]
	fallback bool
	log      *zap.Logger
}

// NewCache wraps p. Quotes stay fresh for ttl; size bounds both the fresh and
// the last-good tables.
func NewCache(p Provider, size int, ttl time.Duration, fallback bool, log *zap.Logger) (*Cache, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", size)
	}
	lastGood, err := lru.New[string, Quote](size)
	if err != nil {
		return nil, fmt.Errorf("creating fallback cache: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		provider: p,
		fresh:    expirable.NewLRU[string, Quote](size, nil, ttl),
		lastGood: lastGood,
		fallback: fallback,
		log:      log.With(zap.String("provider", p.Name())),
	}, nil
}

func (c *Cache) Name() string { return c.provider.Name() }

// Quotes returns cached quotes and fetches only the symbols that are missing
// or expired.
func (c *Cache) Quotes(ctx context.Context, symbols []string) (map[string]Quote, error) {
	out := make(map[string]Quote, len(symbols))
	var missing []string
	for _, s := range symbols {
		if q, ok := c.fresh.Get(s); ok {
			out[s] = q
			continue
		}
		missing = append(missing, s)
	}
	if len(missing) == 0 {
		return out, nil
	}

	got, err := c.provider.Quotes(ctx, missing)
	if err != nil {
		// Unknown symbols are dropped, so cached hits alone still answer.
		if len(out) > 0 && errors.Is(err, kerrors.ErrUnknownSymbol) {
			return out, nil
		}
		if !c.fallback || !errors.Is(err, kerrors.ErrUpstream) {
			return nil, err
		}
		for _, s := range missing {
			q, ok := c.lastGood.Get(s)
			if !ok {
				return nil, err
			}
			q.Fallback = true
			out[s] = q
		}
		c.log.Warn("serving last known prices", zap.Strings("symbols", missing), zap.Error(err))
		return out, nil
	}

	for s, q := range got {
		c.fresh.Add(s, q)
		c.lastGood.Add(s, q)
		out[s] = q
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no quotes returned", kerrors.ErrUnknownSymbol)
	}
	return out, nil
}
