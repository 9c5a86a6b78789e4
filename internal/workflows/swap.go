package workflows

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PolarWolf314/lumen/internal/audit"
	"github.com/PolarWolf314/lumen/internal/configs"
	"github.com/PolarWolf314/lumen/internal/swap"
)

// SwapOptions locates the condition book and its price source.
type SwapOptions struct {
	Prices configs.PricesConfig
	// Path defaults to the data directory's swaps.toml.
	Path string
	// Rates overrides the CoinGecko converter built from Prices.
	Rates swap.RateSource
	// Now overrides the clock.
	Now func() time.Time
}

func (o SwapOptions) path() string {
	if o.Path != "" {
		return o.Path
	}
	return configs.SwapsPath()
}

func (o SwapOptions) now() time.Time {
	if o.Now != nil {
		return o.Now().UTC()
	}
	return time.Now().UTC()
}

func (o SwapOptions) rates() (swap.RateSource, error) {
	if o.Rates != nil {
		return o.Rates, nil
	}
	feeds, err := NewFeeds(o.Prices, nil)
	if err != nil {
		return nil, err
	}
	return feeds.Converter, nil
}

func swapAudit(op string, c *swap.Condition) audit.Entry {
	entry := audit.LogWithUser(op)
	if c != nil {
		entry.Condition = c.ID
	}
	return entry
}

// AddSwapOptions configures a new condition. Lifetime is measured from now.
type AddSwapOptions struct {
	SwapOptions
	Source         string
	Destination    string
	Trigger        swap.Trigger
	Amount         decimal.Decimal
	MaxSlippageBps int
	Lifetime       time.Duration
	MaxExecutions  int
}

// AddSwap prices the pair, creates an Active condition with the current rate
// as its reference price and saves it.
//
// Returns ErrInvalidSwap for a request that fails validation.
func AddSwap(ctx context.Context, opts AddSwapOptions) (*swap.Condition, error) {
	now := opts.now()
	req := swap.Request{
		Source:         opts.Source,
		Destination:    opts.Destination,
		Trigger:        opts.Trigger,
		Amount:         opts.Amount,
		MaxSlippageBps: opts.MaxSlippageBps,
		ExpiresAt:      now.Add(opts.Lifetime),
		MaxExecutions:  opts.MaxExecutions,
	}
	if err := req.Validate(now); err != nil {
		return nil, err
	}

	book, err := swap.LoadBook(opts.path())
	if err != nil {
		return nil, err
	}
	rates, err := opts.rates()
	if err != nil {
		return nil, err
	}

	entry := swapAudit("swap.add", nil)
	c, err := addPriced(ctx, rates, req, now)
	if err == nil {
		entry.Condition = c.ID
		book.Add(c)
		err = swap.SaveBook(opts.path(), book)
	}
	audit.Record(entry, err)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func addPriced(ctx context.Context, rates swap.RateSource, req swap.Request, now time.Time) (*swap.Condition, error) {
	ref, err := rates.Rate(ctx, req.Source, req.Destination)
	if err != nil {
		return nil, fmt.Errorf("pricing %s/%s: %w", req.Source, req.Destination, err)
	}
	return swap.New(uuid.NewString(), req, ref, now)
}

// ListSwaps returns the conditions with one of statuses, or all of them.
func ListSwaps(ctx context.Context, opts SwapOptions, statuses ...swap.Status) ([]*swap.Condition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	book, err := swap.LoadBook(opts.path())
	if err != nil {
		return nil, err
	}
	return book.Filter(statuses...), nil
}

// SwapCheck is one evaluated condition. Err is set when the pair could not
// be priced; the other conditions are still checked.
type SwapCheck struct {
	swap.Evaluation
	Err error
}

// CheckSwaps prices every Active condition, expires the ones past their
// expiry and reports which would execute. Nothing is submitted anywhere.
func CheckSwaps(ctx context.Context, opts SwapOptions) ([]SwapCheck, error) {
	book, err := swap.LoadBook(opts.path())
	if err != nil {
		return nil, err
	}
	active := book.Filter(swap.Active)
	if len(active) == 0 {
		return nil, nil
	}
	rates, err := opts.rates()
	if err != nil {
		return nil, err
	}

	now := opts.now()
	type pair struct{ from, to string }
	prices := make(map[pair]decimal.Decimal)
	failures := make(map[pair]error)

	var checks []SwapCheck
	for _, c := range active {
		if c.Expire(now) {
			checks = append(checks, SwapCheck{Evaluation: swap.Evaluation{Condition: c}})
			continue
		}
		p := pair{c.Source, c.Destination}
		price, ok := prices[p]
		if !ok && failures[p] == nil {
			price, err = rates.Rate(ctx, p.from, p.to)
			if err != nil {
				failures[p] = fmt.Errorf("pricing %s/%s: %w", p.from, p.to, err)
			} else {
				prices[p] = price
			}
		}
		if failures[p] != nil {
			checks = append(checks, SwapCheck{Evaluation: swap.Evaluation{Condition: c}, Err: failures[p]})
			continue
		}
		checks = append(checks, SwapCheck{Evaluation: c.Evaluate(now, price)})
	}

	if err := swap.SaveBook(opts.path(), book); err != nil {
		return nil, err
	}
	return checks, nil
}

// CancelSwap closes an Active condition.
func CancelSwap(ctx context.Context, opts SwapOptions, id string) (*swap.Condition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	book, err := swap.LoadBook(opts.path())
	if err != nil {
		return nil, err
	}
	c, err := book.Get(id)
	if err != nil {
		return nil, err
	}

	entry := swapAudit("swap.cancel", c)
	err = c.Cancel()
	if err == nil {
		err = swap.SaveBook(opts.path(), book)
	}
	audit.Record(entry, err)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// RecordSwapOptions reports a fill made outside lumen.
type RecordSwapOptions struct {
	SwapOptions
	ID        string
	AmountOut decimal.Decimal
	// Price is the fill rate. Zero prices the pair now.
	Price decimal.Decimal
}

// RecordSwap counts a fill against a condition. A fill beyond the allowed
// slippage marks the condition Failed, is saved, and returns
// ErrSlippageExceeded with the execution.
func RecordSwap(ctx context.Context, opts RecordSwapOptions) (*swap.Execution, *swap.Condition, error) {
	book, err := swap.LoadBook(opts.path())
	if err != nil {
		return nil, nil, err
	}
	c, err := book.Get(opts.ID)
	if err != nil {
		return nil, nil, err
	}

	price := opts.Price
	if price.IsZero() {
		rates, err := opts.rates()
		if err != nil {
			return nil, nil, err
		}
		if price, err = rates.Rate(ctx, c.Source, c.Destination); err != nil {
			return nil, nil, fmt.Errorf("pricing %s/%s: %w", c.Source, c.Destination, err)
		}
	}

	entry := swapAudit("swap.record", c)
	exec, execErr := c.RecordExecution(opts.now(), price, opts.AmountOut)
	err = execErr
	if exec.ConditionID != "" {
		if saveErr := swap.SaveBook(opts.path(), book); saveErr != nil && err == nil {
			err = saveErr
		}
	}
	audit.Record(entry, err)
	if exec.ConditionID == "" {
		return nil, c, err
	}
	return &exec, c, err
}
