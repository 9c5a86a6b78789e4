package swap

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	kerrors "github.com/PolarWolf314/lumen/internal/errors"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testRequest(trigger Trigger) Request {
	return Request{
		Source:         "XLM",
		Destination:    "USDC",
		Trigger:        trigger,
		Amount:         d("100"),
		MaxSlippageBps: 500,
		ExpiresAt:      now.Add(24 * time.Hour),
		MaxExecutions:  1,
	}
}

func testCondition(t *testing.T, trigger Trigger, reference string) *Condition {
	t.Helper()
	c, err := New("c0ffee00-0000-4000-8000-000000000001", testRequest(trigger), d(reference), now)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
		ok     bool
	}{
		{"valid", func(r *Request) {}, true},
		{"slippage too high", func(r *Request) { r.MaxSlippageBps = 6000 }, false},
		{"slippage zero", func(r *Request) { r.MaxSlippageBps = 0 }, false},
		{"slippage at maximum", func(r *Request) { r.MaxSlippageBps = MaxSlippageBps }, true},
		{"same assets", func(r *Request) { r.Destination = "xlm" }, false},
		{"missing destination", func(r *Request) { r.Destination = " " }, false},
		{"zero amount", func(r *Request) { r.Amount = decimal.Zero }, false},
		{"amount too large", func(r *Request) { r.Amount = d("1000000.0000001") }, false},
		{"lifetime too short", func(r *Request) { r.ExpiresAt = now.Add(30 * time.Second) }, false},
		{"lifetime too long", func(r *Request) { r.ExpiresAt = now.Add(MaxLifetime + time.Hour) }, false},
		{"already expired", func(r *Request) { r.ExpiresAt = now.Add(-time.Minute) }, false},
		{"negative execution limit", func(r *Request) { r.MaxExecutions = -1 }, false},
		{"unlimited executions", func(r *Request) { r.MaxExecutions = 0 }, true},
		{"zero percentage", func(r *Request) { r.Trigger.Value = decimal.Zero }, false},
		{"decrease over 100%", func(r *Request) { r.Trigger = Trigger{Kind: PercentageDecrease, Value: d("101")} }, false},
		{"increase of 10000%", func(r *Request) { r.Trigger = Trigger{Kind: PercentageIncrease, Value: d("10000")} }, true},
		{"zero target", func(r *Request) { r.Trigger = Trigger{Kind: TargetPrice, Value: decimal.Zero} }, false},
		{"zero threshold", func(r *Request) { r.Trigger = Trigger{Kind: PriceBelow, Value: decimal.Zero} }, false},
		{"unknown kind", func(r *Request) { r.Trigger.Kind = "sideways" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRequest(Trigger{Kind: PercentageIncrease, Value: d("10")})
			tt.mutate(&req)
			err := req.Validate(now)
			if tt.ok && err != nil {
				t.Errorf("Expected valid request, got %v", err)
			}
			if !tt.ok && !errors.Is(err, kerrors.ErrInvalidSwap) {
				t.Errorf("Expected ErrInvalidSwap, got %v", err)
			}
		})
	}
}

func TestNewCondition(t *testing.T) {
	c := testCondition(t, Trigger{Kind: PercentageIncrease, Value: d("10")}, "0.12")

	if c.Status != Active || c.Executions != 0 || !c.CreatedAt.Equal(now) {
		t.Errorf("Unexpected new condition %+v", c)
	}
	if c.Source != "XLM" || c.Destination != "USDC" {
		t.Errorf("Assets not normalised: %s -> %s", c.Source, c.Destination)
	}
	// 100 XLM at 0.12 less 5%.
	if !c.MinAmountOut.Equal(d("11.4")) {
		t.Errorf("MinAmountOut = %s, want 11.4", c.MinAmountOut)
	}

	if _, err := New("x", testRequest(Trigger{Kind: PriceAbove, Value: d("1")}), decimal.Zero, now); !errors.Is(err, kerrors.ErrInvalidSwap) {
		t.Errorf("Expected zero reference price to be rejected, got %v", err)
	}
}

func TestShouldExecute(t *testing.T) {
	tests := []struct {
		name      string
		trigger   Trigger
		reference string
		price     string
		want      bool
	}{
		{"increase not reached", Trigger{PercentageIncrease, d("10")}, "100000", "100000", false},
		{"increase halfway", Trigger{PercentageIncrease, d("10")}, "100000", "105000", false},
		{"increase exactly reached", Trigger{PercentageIncrease, d("10")}, "100000", "110000", true},
		{"increase exceeded", Trigger{PercentageIncrease, d("10")}, "100000", "115000", true},
		{"fractional increase", Trigger{PercentageIncrease, d("2.5")}, "0.12", "0.123", true},
		{"decrease not reached", Trigger{PercentageDecrease, d("15")}, "100000", "90000", false},
		{"decrease reached", Trigger{PercentageDecrease, d("15")}, "100000", "85000", true},
		{"decrease of 100%", Trigger{PercentageDecrease, d("100")}, "100000", "0", true},
		{"target far below", Trigger{TargetPrice, d("120000")}, "100000", "100000", false},
		{"target far above", Trigger{TargetPrice, d("120000")}, "100000", "130000", false},
		{"target exact", Trigger{TargetPrice, d("120000")}, "100000", "120000", true},
		{"target low edge", Trigger{TargetPrice, d("120000")}, "100000", "119880", true},
		{"target just outside", Trigger{TargetPrice, d("120000")}, "100000", "119879", false},
		{"target high edge", Trigger{TargetPrice, d("120000")}, "100000", "120120", true},
		{"above at threshold", Trigger{PriceAbove, d("200000")}, "100000", "200000", false},
		{"above past threshold", Trigger{PriceAbove, d("200000")}, "100000", "200001", true},
		{"below at threshold", Trigger{PriceBelow, d("100000")}, "150000", "100000", false},
		{"below past threshold", Trigger{PriceBelow, d("100000")}, "150000", "99999", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCondition(t, tt.trigger, tt.reference)
			if got := c.ShouldExecute(d(tt.price)); got != tt.want {
				t.Errorf("ShouldExecute(%s) = %v, want %v", tt.price, got, tt.want)
			}
		})
	}
}

func TestExpectedOutput(t *testing.T) {
	c := testCondition(t, Trigger{Kind: PriceAbove, Value: d("0.1")}, "0.12")

	tests := []struct {
		slippage int
		price    string
		want     string
	}{
		{500, "0.13", "12.35"},
		{1, "0.13", "12.9987"},
		{5000, "0.13", "6.5"},
		{300, "0.3333333", "32.3333301"},
	}
	for _, tt := range tests {
		c.MaxSlippageBps = tt.slippage
		if got := c.ExpectedOutput(d(tt.price)); !got.Equal(d(tt.want)) {
			t.Errorf("ExpectedOutput(%s) with %d bps = %s, want %s", tt.price, tt.slippage, got, tt.want)
		}
	}
}

func TestSlippage(t *testing.T) {
	tests := []struct {
		expected, actual string
		want             int
	}{
		{"100", "95", 500},
		{"100", "100", 0},
		{"100", "105", 0},
		{"0", "5", 0},
		{"3", "2", 3333},
	}
	for _, tt := range tests {
		if got := Slippage(d(tt.expected), d(tt.actual)); got != tt.want {
			t.Errorf("Slippage(%s, %s) = %d, want %d", tt.expected, tt.actual, got, tt.want)
		}
	}
	if !SlippageAcceptable(500, 500) || SlippageAcceptable(501, 500) {
		t.Error("SlippageAcceptable must include the limit and nothing above it")
	}
}

func TestCheck(t *testing.T) {
	base := func() *Condition { return testCondition(t, Trigger{Kind: PercentageIncrease, Value: d("10")}, "100000") }

	if err := base().Check(now.Add(time.Hour)); err != nil {
		t.Errorf("Expected active condition to be usable, got %v", err)
	}

	expired := base()
	if err := expired.Check(expired.ExpiresAt.Add(time.Second)); !errors.Is(err, kerrors.ErrConditionExpired) {
		t.Errorf("Expected ErrConditionExpired, got %v", err)
	}

	cancelled := base()
	if err := cancelled.Cancel(); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if err := cancelled.Check(now); !errors.Is(err, kerrors.ErrConditionClosed) {
		t.Errorf("Expected ErrConditionClosed for cancelled, got %v", err)
	}
	if err := cancelled.Cancel(); !errors.Is(err, kerrors.ErrConditionClosed) {
		t.Errorf("Expected second cancel to fail, got %v", err)
	}

	failed := base()
	failed.Status = Failed
	if err := failed.Check(now); !errors.Is(err, kerrors.ErrConditionClosed) {
		t.Errorf("Expected ErrConditionClosed for failed, got %v", err)
	}

	used := base()
	used.Executions = 1
	if err := used.Check(now); !errors.Is(err, kerrors.ErrConditionExhausted) {
		t.Errorf("Expected ErrConditionExhausted, got %v", err)
	}
}

func TestEvaluateExpires(t *testing.T) {
	c := testCondition(t, Trigger{Kind: PriceAbove, Value: d("0.1")}, "0.12")

	ev := c.Evaluate(now.Add(time.Hour), d("0.13"))
	if !ev.Triggered || !ev.ExpectedOutput.Equal(d("12.35")) {
		t.Errorf("Expected trigger with 12.35 out, got %+v", ev)
	}
	if !c.LastCheck.Equal(now.Add(time.Hour)) {
		t.Errorf("LastCheck not updated: %s", c.LastCheck)
	}

	late := c.ExpiresAt.Add(10 * time.Second)
	ev = c.Evaluate(late, d("0.13"))
	if ev.Triggered {
		t.Error("Expired condition must not trigger")
	}
	if c.Status != Expired {
		t.Errorf("Expected status expired, got %s", c.Status)
	}
	if c.Expire(late) {
		t.Error("Expire must only report the transition once")
	}
}

func TestRecordExecution(t *testing.T) {
	t.Run("single execution completes", func(t *testing.T) {
		c := testCondition(t, Trigger{Kind: PriceAbove, Value: d("0.1")}, "0.12")
		exec, err := c.RecordExecution(now, d("0.13"), d("12.6"))
		if err != nil {
			t.Fatalf("RecordExecution failed: %v", err)
		}
		// Expected 13, got 12.6.
		if exec.SlippageBps != 307 || !exec.AmountIn.Equal(d("100")) {
			t.Errorf("Unexpected execution %+v", exec)
		}
		if c.Status != Executed || c.Executions != 1 {
			t.Errorf("Expected executed after one fill, got %s with %d", c.Status, c.Executions)
		}
		if _, err := c.RecordExecution(now, d("0.13"), d("13")); !errors.Is(err, kerrors.ErrConditionExhausted) {
			t.Errorf("Expected ErrConditionExhausted, got %v", err)
		}
	})

	t.Run("unlimited stays active", func(t *testing.T) {
		c := testCondition(t, Trigger{Kind: PriceAbove, Value: d("0.1")}, "0.12")
		c.MaxExecutions = 0
		for i := 0; i < 3; i++ {
			if _, err := c.RecordExecution(now, d("0.13"), d("13")); err != nil {
				t.Fatalf("fill %d failed: %v", i, err)
			}
		}
		if c.Status != Active || c.Executions != 3 {
			t.Errorf("Expected active with 3 fills, got %s with %d", c.Status, c.Executions)
		}
	})

	t.Run("excess slippage fails", func(t *testing.T) {
		c := testCondition(t, Trigger{Kind: PriceAbove, Value: d("0.1")}, "0.12")
		exec, err := c.RecordExecution(now, d("0.13"), d("12"))
		if !errors.Is(err, kerrors.ErrSlippageExceeded) {
			t.Fatalf("Expected ErrSlippageExceeded, got %v", err)
		}
		if exec.SlippageBps != 769 || c.Status != Failed || c.Executions != 0 {
			t.Errorf("Unexpected state after failed fill: %+v %s %d", exec, c.Status, c.Executions)
		}
	})

	t.Run("empty fill fails", func(t *testing.T) {
		c := testCondition(t, Trigger{Kind: PriceAbove, Value: d("0.1")}, "0.12")
		if _, err := c.RecordExecution(now, d("0.13"), decimal.Zero); !errors.Is(err, kerrors.ErrSlippageExceeded) {
			t.Errorf("Expected ErrSlippageExceeded, got %v", err)
		}
	})
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"increase":            PercentageIncrease,
		"percentage-decrease": PercentageDecrease,
		"TARGET":              TargetPrice,
		"price_above":         PriceAbove,
		" below ":             PriceBelow,
	} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseKind("sideways"); !errors.Is(err, kerrors.ErrInvalidSwap) {
		t.Errorf("Expected ErrInvalidSwap, got %v", err)
	}
}

func TestBookRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swaps.toml")

	empty, err := LoadBook(path)
	if err != nil || len(empty.Conditions) != 0 {
		t.Fatalf("Missing file should load as empty book, got %+v, %v", empty, err)
	}

	b := &Book{}
	first := testCondition(t, Trigger{Kind: TargetPrice, Value: d("0.15")}, "0.12")
	second, err := New("c0ffee11-0000-4000-8000-000000000002", testRequest(Trigger{Kind: PercentageDecrease, Value: d("7.5")}), d("0.12"), now)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b.Add(first)
	b.Add(second)
	if err := second.Cancel(); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if err := SaveBook(path, b); err != nil {
		t.Fatalf("SaveBook failed: %v", err)
	}

	loaded, err := LoadBook(path)
	if err != nil {
		t.Fatalf("LoadBook failed: %v", err)
	}
	if len(loaded.Conditions) != 2 {
		t.Fatalf("Expected 2 conditions, got %d", len(loaded.Conditions))
	}
	got := loaded.Conditions[0]
	if got.ID != first.ID || !got.Trigger.Value.Equal(d("0.15")) || got.Trigger.Kind != TargetPrice ||
		!got.ReferencePrice.Equal(d("0.12")) || !got.ExpiresAt.Equal(first.ExpiresAt) || got.Status != Active {
		t.Errorf("Condition not round-tripped: %+v", got)
	}

	if c, err := loaded.Get("c0ffee11"); err != nil || c.Status != Cancelled {
		t.Errorf("Get by prefix = %+v, %v", c, err)
	}
	if _, err := loaded.Get("c0ffee"); !errors.Is(err, kerrors.ErrConditionNotFound) {
		t.Errorf("Expected ambiguous prefix to fail, got %v", err)
	}
	if _, err := loaded.Get("deadbeef"); !errors.Is(err, kerrors.ErrConditionNotFound) {
		t.Errorf("Expected ErrConditionNotFound, got %v", err)
	}
	if active := loaded.Filter(Active); len(active) != 1 || active[0].ID != first.ID {
		t.Errorf("Filter(Active) = %+v", active)
	}
	if all := loaded.Filter(); len(all) != 2 {
		t.Errorf("Filter() returned %d conditions", len(all))
	}
}
