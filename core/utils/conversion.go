package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// ToInt converts loosely typed JSON values to int.
// Numeric strings are trimmed and read in base 10; fractional values are
// truncated. Anything that cannot be read as a number yields 0.
func ToInt(val any) int {
	switch v := val.(type) {
	case json.Number:
		return ToInt(v.String())
	case string:
		// Decimal only: "010" is ten doors, not eight.
		f, err := cast.ToFloat64E(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return int(f)
	}

	i, err := cast.ToIntE(val)
	if err != nil {
		return 0
	}
	return i
}

// ToString converts loosely typed JSON values to string.
// Whole floats are rendered without exponent or fraction (12345.0 -> "12345"),
// which matters for identifiers decoded as float64.
func ToString(val any) string {
	s, err := cast.ToStringE(val)
	if err != nil {
		return fmt.Sprintf("%v", val)
	}
	return s
}
