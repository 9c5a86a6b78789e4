package cmd

import "testing"

func TestPointValue(t *testing.T) {
	var p pointValue
	if err := p.Set("120.5, 40"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if p.X != 120.5 || p.Y != 40 {
		t.Errorf("Unexpected point %+v", p)
	}
	if p.String() != "120.5,40" {
		t.Errorf("String() = %q", p.String())
	}

	for _, bad := range []string{"", "1", "a,2", "1,b"} {
		if err := p.Set(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestCellAndSizeValues(t *testing.T) {
	var c cellValue
	if err := c.Set("3,-1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if c.X != 3 || c.Y != -1 {
		t.Errorf("Unexpected cell %+v", c)
	}
	if err := c.Set("1.5,2"); err == nil {
		t.Error("Expected error for fractional cell")
	}

	var s sizeValue
	if err := s.Set("2X3"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if s.Width != 2 || s.Height != 3 || s.String() != "2x3" {
		t.Errorf("Unexpected size %+v", s)
	}
	for _, bad := range []string{"0x1", "2,3", "x"} {
		if err := s.Set(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}
