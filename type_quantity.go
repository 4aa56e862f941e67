package stock

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Quantity is a number of units of a stock item.
//
// Inside a Ledger a Quantity is always strictly positive, the ledger total
// and capacity are never negative.
type Quantity int64

func (q Quantity) String() string { return strconv.FormatInt(int64(q), 10) }

// ParseQuantity parses a quantity typed by a user.
//
// It only accepts base 10 integers greater than zero, surrounding spaces are
// ignored. Anything else returns ErrInvalidQuantity.
func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}
	return Quantity(n), nil
}

var maxQuantity = decimal.NewFromInt(math.MaxInt64)

// coerceQuantity turns a decoded JSON value into a Quantity, leniently.
//
// Numbers are truncated toward zero, strings must hold an integer, booleans
// count as 1 and 0. Values that cannot be read as a non-negative int64 are 0.
func coerceQuantity(v any) Quantity {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return 0
		}
		return fromDecimal(d)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0
		}
		return fromDecimal(decimal.NewFromFloat(t))
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil || n < 0 {
			return 0
		}
		return Quantity(n)
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func fromDecimal(d decimal.Decimal) Quantity {
	d = d.Truncate(0)
	if d.IsNegative() || d.GreaterThan(maxQuantity) {
		return 0
	}
	return Quantity(d.IntPart())
}
