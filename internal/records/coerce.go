package records

import (
	"encoding/json"
	"strconv"
	"strings"
)

// trueTokens are the accepted spellings for a boolean true. Anything else
// coerces to false, mirroring how operators type confirmations.
var trueTokens = map[string]bool{
	"true": true,
	"1":    true,
	"yes":  true,
	"t":    true,
	"y":    true,
}

// Coerce converts a raw user-supplied string to the runtime type of the
// field's current value. Parse failures on numeric fields fall back to the
// raw string unchanged rather than erroring: the remote store reports a
// type mismatch on write if the text is genuinely invalid, and blocking the
// operator locally would only hide that message.
func Coerce(current interface{}, raw string) interface{} {
	switch cur := current.(type) {
	case bool:
		return trueTokens[strings.ToLower(raw)]
	case int, int8, int16, int32, int64:
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
		return raw
	case uint, uint8, uint16, uint32, uint64:
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
		return raw
	case float32, float64:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
		return raw
	case json.Number:
		// Numbers decoded with UseNumber keep their integer/decimal shape.
		if isIntegral(cur) {
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				return n
			}
			return raw
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
		return raw
	default:
		return raw
	}
}

// isIntegral reports whether a json.Number carries an integer literal.
func isIntegral(n json.Number) bool {
	s := n.String()
	return !strings.ContainsAny(s, ".eE")
}

// ToFloat64 converts a numeric value to float64 for comparison.
// Returns false for non-numeric values.
func ToFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
