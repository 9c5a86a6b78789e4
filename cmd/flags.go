package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/PolarWolf314/lumen/internal/gesture"
	"github.com/PolarWolf314/lumen/internal/grid"
)

var (
	_ pflag.Value = (*pointValue)(nil)
	_ pflag.Value = (*cellValue)(nil)
	_ pflag.Value = (*sizeValue)(nil)
)

// pointValue parses "x,y" pixel coordinates.
type pointValue gesture.Point

func (p *pointValue) String() string {
	return strconv.FormatFloat(p.X, 'f', -1, 64) + "," + strconv.FormatFloat(p.Y, 'f', -1, 64)
}

func (p *pointValue) Set(s string) error {
	x, y, err := splitPair(s, ",")
	if err != nil {
		return err
	}
	fx, err := strconv.ParseFloat(x, 64)
	if err != nil {
		return fmt.Errorf("invalid x %q", x)
	}
	fy, err := strconv.ParseFloat(y, 64)
	if err != nil {
		return fmt.Errorf("invalid y %q", y)
	}
	p.X, p.Y = fx, fy
	return nil
}

func (p *pointValue) Type() string { return "x,y" }

// cellValue parses "x,y" grid cells.
type cellValue grid.Position

func (c *cellValue) String() string { return fmt.Sprintf("%d,%d", c.X, c.Y) }

func (c *cellValue) Set(s string) error {
	x, y, err := parseIntPair(s, ",")
	if err != nil {
		return err
	}
	c.X, c.Y = x, y
	return nil
}

func (c *cellValue) Type() string { return "col,row" }

// sizeValue parses "WxH" spans in cells.
type sizeValue grid.Size

func (v *sizeValue) String() string { return fmt.Sprintf("%dx%d", v.Width, v.Height) }

func (v *sizeValue) Set(s string) error {
	w, h, err := parseIntPair(strings.ToLower(s), "x")
	if err != nil {
		return err
	}
	if w < 1 || h < 1 {
		return fmt.Errorf("size must be at least 1x1, got %s", s)
	}
	v.Width, v.Height = w, h
	return nil
}

func (v *sizeValue) Type() string { return "WxH" }

func splitPair(s, sep string) (string, string, error) {
	a, b, ok := strings.Cut(s, sep)
	if !ok {
		return "", "", fmt.Errorf("expected two values separated by %q, got %q", sep, s)
	}
	return strings.TrimSpace(a), strings.TrimSpace(b), nil
}

func parseIntPair(s, sep string) (int, int, error) {
	a, b, err := splitPair(s, sep)
	if err != nil {
		return 0, 0, err
	}
	x, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", a)
	}
	y, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", b)
	}
	return x, y, nil
}
