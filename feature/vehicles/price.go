package vehicles

import (
	"errors"
	"fmt"
	"strings"

	"autosync/core/autogestor"

	"github.com/shopspring/decimal"
)

// ErrMalformedPrice is returned when a price cannot be parsed. The record is
// skipped, never defaulted to zero.
var ErrMalformedPrice = errors.New("malformed price")

// ParsePrice parses a feed amount. Quoted amounts use Brazilian notation:
// "." groups thousands and "," separates decimals, so "1.234,56" is 1234.56.
// Bare JSON numbers are taken as plain decimals. The result is rounded to
// cents, the precision the catalog stores.
func ParsePrice(a autogestor.Amount) (decimal.Decimal, error) {
	text := strings.TrimSpace(a.Text)
	if text == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrMalformedPrice)
	}

	if !a.Numeric {
		text = strings.ReplaceAll(text, ".", "")
		text = strings.ReplaceAll(text, ",", ".")
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedPrice, a.Text)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative %q", ErrMalformedPrice, a.Text)
	}
	return d.Round(2), nil
}

// ParseCatalogPrice parses a catalog regular_price ("1234.56").
func ParseCatalogPrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedPrice, s)
	}
	return d, nil
}

// FormatPrice renders a price with exactly two fractional digits.
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}
