package swap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/PolarWolf314/lumen/internal/configs"
	kerrors "github.com/PolarWolf314/lumen/internal/errors"
)

// RateSource prices one unit of from in units of to.
type RateSource interface {
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// Book is the set of conditions kept in one TOML file.
type Book struct {
	Conditions []*Condition `toml:"conditions"`
}

// LoadBook reads a book. A missing file is an empty book.
func LoadBook(path string) (*Book, error) {
	b := &Book{}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return b, nil
	}
	if err := configs.LoadTOML(path, b); err != nil {
		return nil, fmt.Errorf("loading swap conditions %s: %w", path, err)
	}
	return b, nil
}

// SaveBook writes a book.
func SaveBook(path string, b *Book) error {
	if err := configs.SaveTOML(path, b); err != nil {
		return fmt.Errorf("saving swap conditions %s: %w", path, err)
	}
	return nil
}

// Add appends c.
func (b *Book) Add(c *Condition) {
	b.Conditions = append(b.Conditions, c)
}

// Get finds a condition by its ID or a unique ID prefix.
func (b *Book) Get(id string) (*Condition, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", kerrors.ErrConditionNotFound)
	}
	var found *Condition
	for _, c := range b.Conditions {
		if c.ID == id {
			return c, nil
		}
		if strings.HasPrefix(c.ID, id) {
			if found != nil {
				return nil, fmt.Errorf("%w: %q matches more than one condition", kerrors.ErrConditionNotFound, id)
			}
			found = c
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrConditionNotFound, id)
	}
	return found, nil
}

// Filter returns the conditions with one of statuses, or all of them when
// none are given.
func (b *Book) Filter(statuses ...Status) []*Condition {
	if len(statuses) == 0 {
		return b.Conditions
	}
	var out []*Condition
	for _, c := range b.Conditions {
		for _, s := range statuses {
			if c.Status == s {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
