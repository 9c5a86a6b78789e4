package swap

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
)

// Kind selects how a trigger value is read against the current price.
type Kind string

const (
	// PercentageIncrease fires once the price has risen Value percent above
	// the reference price.
	PercentageIncrease Kind = "percentage_increase"
	// PercentageDecrease fires once the price has fallen Value percent below
	// the reference price.
	PercentageDecrease Kind = "percentage_decrease"
	// TargetPrice fires within 0.1% either side of Value.
	TargetPrice Kind = "target_price"
	// PriceAbove fires while the price is strictly above Value.
	PriceAbove Kind = "price_above"
	// PriceBelow fires while the price is strictly below Value.
	PriceBelow Kind = "price_below"
)

// ParseKind accepts the full kind names and the short forms increase,
// decrease, target, above and below.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, "-", "_"))) {
	case "increase", string(PercentageIncrease):
		return PercentageIncrease, nil
	case "decrease", string(PercentageDecrease):
		return PercentageDecrease, nil
	case "target", string(TargetPrice):
		return TargetPrice, nil
	case "above", string(PriceAbove):
		return PriceAbove, nil
	case "below", string(PriceBelow):
		return PriceBelow, nil
	default:
		return "", fmt.Errorf("%w: unknown condition %q", kerrors.ErrInvalidSwap, s)
	}
}

// Status is where a condition is in its lifecycle. Only Active conditions
// are evaluated.
type Status string

const (
	Active    Status = "active"
	Executed  Status = "executed"
	Cancelled Status = "cancelled"
	Failed    Status = "failed"
	Expired   Status = "expired"
)

const (
	// BasisPoints is 100%.
	BasisPoints = 10000

	MinSlippageBps = 1
	MaxSlippageBps = 5000

	MinLifetime = time.Minute
	MaxLifetime = 365 * 24 * time.Hour

	// Places is the precision kept for amounts, matching Stellar's seven
	// decimal places.
	Places = 7
)

var (
	MinAmount = decimal.New(1, 0)
	MaxAmount = decimal.New(1, 6)

	maxIncreasePct = decimal.New(10000, 0)
	maxDecreasePct = decimal.New(100, 0)
	hundred        = decimal.New(100, 0)
	bps            = decimal.New(BasisPoints, 0)
	targetBand     = decimal.New(1, -3)
)

// Trigger is a condition kind and its value: a percentage for the
// percentage kinds, a price in destination units for the others.
type Trigger struct {
	Kind  Kind            `toml:"kind" json:"kind"`
	Value decimal.Decimal `toml:"value" json:"value"`
}

func (t Trigger) String() string {
	switch t.Kind {
	case PercentageIncrease:
		return "+" + t.Value.String() + "%"
	case PercentageDecrease:
		return "-" + t.Value.String() + "%"
	case TargetPrice:
		return "= " + t.Value.String()
	case PriceAbove:
		return "> " + t.Value.String()
	case PriceBelow:
		return "< " + t.Value.String()
	default:
		return string(t.Kind) + " " + t.Value.String()
	}
}

func (t Trigger) validate() error {
	if !t.Value.IsPositive() {
		return fmt.Errorf("%w: %s value must be positive", kerrors.ErrInvalidSwap, t.Kind)
	}
	switch t.Kind {
	case PercentageIncrease:
		if t.Value.GreaterThan(maxIncreasePct) {
			return fmt.Errorf("%w: increase of %s%% exceeds %s%%", kerrors.ErrInvalidSwap, t.Value, maxIncreasePct)
		}
	case PercentageDecrease:
		if t.Value.GreaterThan(maxDecreasePct) {
			return fmt.Errorf("%w: decrease of %s%% exceeds %s%%", kerrors.ErrInvalidSwap, t.Value, maxDecreasePct)
		}
	case TargetPrice, PriceAbove, PriceBelow:
	default:
		return fmt.Errorf("%w: unknown condition %q", kerrors.ErrInvalidSwap, t.Kind)
	}
	return nil
}

// Request describes a new condition before it is priced.
type Request struct {
	Source         string
	Destination    string
	Trigger        Trigger
	Amount         decimal.Decimal
	MaxSlippageBps int
	ExpiresAt      time.Time
	// MaxExecutions of zero means unlimited.
	MaxExecutions int
}

// Validate checks amounts, slippage, lifetime, assets and the trigger.
func (r Request) Validate(now time.Time) error {
	switch {
	case r.Amount.LessThan(MinAmount):
		return fmt.Errorf("%w: amount %s is below the minimum of %s", kerrors.ErrInvalidSwap, r.Amount, MinAmount)
	case r.Amount.GreaterThan(MaxAmount):
		return fmt.Errorf("%w: amount %s is above the maximum of %s", kerrors.ErrInvalidSwap, r.Amount, MaxAmount)
	case r.MaxSlippageBps < MinSlippageBps:
		return fmt.Errorf("%w: slippage of %d bps is below %d", kerrors.ErrInvalidSwap, r.MaxSlippageBps, MinSlippageBps)
	case r.MaxSlippageBps > MaxSlippageBps:
		return fmt.Errorf("%w: slippage of %d bps is above %d", kerrors.ErrInvalidSwap, r.MaxSlippageBps, MaxSlippageBps)
	case r.MaxExecutions < 0:
		return fmt.Errorf("%w: negative execution limit", kerrors.ErrInvalidSwap)
	}

	lifetime := r.ExpiresAt.Sub(now)
	if lifetime < MinLifetime {
		return fmt.Errorf("%w: lifetime %s is shorter than %s", kerrors.ErrInvalidSwap, lifetime.Round(time.Second), MinLifetime)
	}
	if lifetime > MaxLifetime {
		return fmt.Errorf("%w: lifetime %s is longer than %s", kerrors.ErrInvalidSwap, lifetime.Round(time.Second), MaxLifetime)
	}

	src, dst := normSymbol(r.Source), normSymbol(r.Destination)
	if src == "" || dst == "" {
		return fmt.Errorf("%w: source and destination assets are required", kerrors.ErrInvalidSwap)
	}
	if src == dst {
		return fmt.Errorf("%w: cannot swap %s for itself", kerrors.ErrInvalidSwap, src)
	}
	return r.Trigger.validate()
}

// Condition is a price-triggered swap order. Prices are destination units
// per source unit.
type Condition struct {
	ID             string          `toml:"id" json:"id"`
	Source         string          `toml:"source" json:"source"`
	Destination    string          `toml:"destination" json:"destination"`
	Trigger        Trigger         `toml:"trigger" json:"trigger"`
	Amount         decimal.Decimal `toml:"amount" json:"amount"`
	MinAmountOut   decimal.Decimal `toml:"min_amount_out" json:"minAmountOut"`
	MaxSlippageBps int             `toml:"max_slippage_bps" json:"maxSlippageBps"`
	ReferencePrice decimal.Decimal `toml:"reference_price" json:"referencePrice"`
	CreatedAt      time.Time       `toml:"created_at" json:"createdAt"`
	ExpiresAt      time.Time       `toml:"expires_at" json:"expiresAt"`
	LastCheck      time.Time       `toml:"last_check" json:"lastCheck"`
	Status         Status          `toml:"status" json:"status"`
	Executions     int             `toml:"executions" json:"executions"`
	MaxExecutions  int             `toml:"max_executions" json:"maxExecutions"`
}

// New validates req and creates an Active condition priced at referencePrice.
func New(id string, req Request, referencePrice decimal.Decimal, now time.Time) (*Condition, error) {
	if err := req.Validate(now); err != nil {
		return nil, err
	}
	if !referencePrice.IsPositive() {
		return nil, fmt.Errorf("%w: reference price %s is not positive", kerrors.ErrInvalidSwap, referencePrice)
	}
	c := &Condition{
		ID:             id,
		Source:         normSymbol(req.Source),
		Destination:    normSymbol(req.Destination),
		Trigger:        req.Trigger,
		Amount:         req.Amount,
		MaxSlippageBps: req.MaxSlippageBps,
		ReferencePrice: referencePrice,
		CreatedAt:      now,
		ExpiresAt:      req.ExpiresAt,
		LastCheck:      now,
		Status:         Active,
		MaxExecutions:  req.MaxExecutions,
	}
	c.MinAmountOut = c.ExpectedOutput(referencePrice)
	return c, nil
}

// Check reports why the condition cannot execute at now, or nil.
func (c *Condition) Check(now time.Time) error {
	if now.After(c.ExpiresAt) || c.Status == Expired {
		return fmt.Errorf("%w: %s expired at %s", kerrors.ErrConditionExpired, c.ID, c.ExpiresAt.Format(time.RFC3339))
	}
	if c.Status == Executed || (c.MaxExecutions > 0 && c.Executions >= c.MaxExecutions) {
		return fmt.Errorf("%w: %s ran %d of %d times", kerrors.ErrConditionExhausted, c.ID, c.Executions, c.MaxExecutions)
	}
	if c.Status == Cancelled || c.Status == Failed {
		return fmt.Errorf("%w: %s is %s", kerrors.ErrConditionClosed, c.ID, c.Status)
	}
	return nil
}

// ShouldExecute reports whether price satisfies the trigger.
func (c *Condition) ShouldExecute(price decimal.Decimal) bool {
	v := c.Trigger.Value
	switch c.Trigger.Kind {
	case PercentageIncrease:
		return price.GreaterThanOrEqual(c.ReferencePrice.Add(c.ReferencePrice.Mul(v).Div(hundred)))
	case PercentageDecrease:
		floor := c.ReferencePrice.Sub(c.ReferencePrice.Mul(v).Div(hundred))
		if floor.IsNegative() {
			floor = decimal.Zero
		}
		return price.LessThanOrEqual(floor)
	case TargetPrice:
		band := v.Mul(targetBand)
		return price.GreaterThanOrEqual(v.Sub(band)) && price.LessThanOrEqual(v.Add(band))
	case PriceAbove:
		return price.GreaterThan(v)
	case PriceBelow:
		return price.LessThan(v)
	default:
		return false
	}
}

// ExpectedOutput is the least the swap should return at price: the amount
// converted at price less the maximum slippage, truncated to Places.
func (c *Condition) ExpectedOutput(price decimal.Decimal) decimal.Decimal {
	factor := bps.Sub(decimal.New(int64(c.MaxSlippageBps), 0)).Div(bps)
	return c.Amount.Mul(price).Mul(factor).Truncate(Places)
}

// Evaluation is the outcome of checking one condition against a price.
type Evaluation struct {
	Condition *Condition
	Price     decimal.Decimal
	Triggered bool
	// ExpectedOutput is set when Triggered.
	ExpectedOutput decimal.Decimal
}

// Evaluate records the check time, expires the condition when it is past
// its expiry and reports whether price triggers it.
func (c *Condition) Evaluate(now time.Time, price decimal.Decimal) Evaluation {
	ev := Evaluation{Condition: c, Price: price}
	if c.Expire(now) || c.Check(now) != nil {
		return ev
	}
	c.LastCheck = now
	if c.ShouldExecute(price) {
		ev.Triggered = true
		ev.ExpectedOutput = c.ExpectedOutput(price)
	}
	return ev
}

// Execution is one fill of a condition.
type Execution struct {
	ConditionID string          `json:"conditionId"`
	At          time.Time       `json:"at"`
	Price       decimal.Decimal `json:"price"`
	AmountIn    decimal.Decimal `json:"amountIn"`
	AmountOut   decimal.Decimal `json:"amountOut"`
	SlippageBps int             `json:"slippageBps"`
}

// RecordExecution counts a fill made at price that returned amountOut. A
// fill that lost more than the allowed slippage marks the condition Failed
// and returns ErrSlippageExceeded. The condition becomes Executed once it
// reaches MaxExecutions.
func (c *Condition) RecordExecution(now time.Time, price, amountOut decimal.Decimal) (Execution, error) {
	if err := c.Check(now); err != nil {
		return Execution{}, err
	}
	expected := c.Amount.Mul(price).Truncate(Places)
	exec := Execution{
		ConditionID: c.ID,
		At:          now,
		Price:       price,
		AmountIn:    c.Amount,
		AmountOut:   amountOut,
		SlippageBps: Slippage(expected, amountOut),
	}
	c.LastCheck = now

	if !amountOut.IsPositive() || !SlippageAcceptable(exec.SlippageBps, c.MaxSlippageBps) {
		c.Status = Failed
		return exec, fmt.Errorf("%w: %d bps against a maximum of %d", kerrors.ErrSlippageExceeded, exec.SlippageBps, c.MaxSlippageBps)
	}

	c.Executions++
	if c.MaxExecutions > 0 && c.Executions >= c.MaxExecutions {
		c.Status = Executed
	}
	return exec, nil
}

// Cancel closes an Active condition.
func (c *Condition) Cancel() error {
	if c.Status != Active {
		return fmt.Errorf("%w: %s is %s", kerrors.ErrConditionClosed, c.ID, c.Status)
	}
	c.Status = Cancelled
	return nil
}

// Expire marks an Active condition past its expiry as Expired and reports
// whether it did.
func (c *Condition) Expire(now time.Time) bool {
	if c.Status == Active && now.After(c.ExpiresAt) {
		c.Status = Expired
		return true
	}
	return false
}

// Slippage is how far actual fell short of expected, in whole basis points.
// Getting more than expected is no slippage.
func Slippage(expected, actual decimal.Decimal) int {
	if !expected.IsPositive() || actual.GreaterThanOrEqual(expected) {
		return 0
	}
	return int(expected.Sub(actual).Mul(bps).Div(expected).IntPart())
}

// SlippageAcceptable reports whether actual is within limit, both in basis points.
func SlippageAcceptable(actual, limit int) bool {
	return actual <= limit
}

func normSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
