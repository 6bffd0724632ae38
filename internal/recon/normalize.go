package recon

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Amount coerces an arbitrary JSON value into a decimal amount.
// Anything that is not a usable number (nil, empty string, junk text,
// NaN/Inf) contributes decimal.Zero so a single bad field can never
// poison a sum.
func Amount(v interface{}) decimal.Decimal {
	switch t := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return t
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(t)
	case float32:
		return Amount(float64(t))
	case int:
		return decimal.NewFromInt(int64(t))
	case int32:
		return decimal.NewFromInt(int64(t))
	case int64:
		return decimal.NewFromInt(t)
	case json.Number:
		return amountFromString(t.String())
	case string:
		return amountFromString(t)
	default:
		return decimal.Zero
	}
}

func amountFromString(s string) decimal.Decimal {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if clean == "" || clean == "-" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
	"01/02/2006",
}

// DateOf coerces a date-like value. ok=false marks the record as
// unordered: it sorts last and is excluded from ranged computations
// instead of defaulting to "now" or epoch.
func DateOf(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	case float64:
		// unix milliseconds, the shape Mongo-era backends emit
		if t <= 0 || math.IsNaN(t) || math.IsInf(t, 0) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(t)).UTC(), true
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return DateOf(f)
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// Label returns a trimmed display string, falling back so aggregated
// output never shows a blank cell.
func Label(v interface{}, fallback string) string {
	s := asString(v)
	if s == "" {
		return fallback
	}
	return s
}

// UnknownLabel is the display name used when a join fails.
func UnknownLabel(entity string) string {
	return "Unknown " + entity
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case fmt.Stringer:
		return strings.TrimSpace(t.String())
	case float64:
		return strings.TrimSpace(strconv.FormatFloat(t, 'f', -1, 64))
	case json.Number:
		return strings.TrimSpace(t.String())
	case int, int32, int64:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	default:
		return ""
	}
}
