// Package numeric is the single coercion boundary between the loosely
// typed values coming back from the warehouse and the float64 arithmetic
// in the scoring and narrative code. Warehouse NUMERIC columns scan into
// pgtype.Numeric, some views return counts as int64, and a few legacy
// columns store numbers as text. Nothing downstream of this package may
// add, compare, or format a raw warehouse value.
package numeric

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// FormatError reports a value that could not be coerced to a float.
// Callers absorb it by substituting their default; it never reaches
// the scoring arithmetic.
type FormatError struct {
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot coerce %q to float: %v", e.Value, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Float coerces a heterogeneous warehouse value to float64.
// Missing values (nil, invalid pgtype.Numeric) yield the default.
// Strings that fail to parse yield the default plus a *FormatError
// so the caller can log the bad value.
func Float(v interface{}, def float64) (float64, error) {
	switch val := v.(type) {
	case nil:
		return def, nil
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case pgtype.Numeric:
		return numericToFloat(val, def)
	case *pgtype.Numeric:
		if val == nil {
			return def, nil
		}
		return numericToFloat(*val, def)
	case pgtype.Float8:
		if !val.Valid {
			return def, nil
		}
		return val.Float64, nil
	case string:
		return parseFloat(val, def)
	case []byte:
		return parseFloat(string(val), def)
	default:
		return def, &FormatError{
			Value: fmt.Sprintf("%v", v),
			Err:   fmt.Errorf("unsupported type %T", v),
		}
	}
}

// FloatOr coerces like Float but silently falls back to the default
// on any format error. Used where the field is optional and the bad
// value has already been logged upstream.
func FloatOr(v interface{}, def float64) float64 {
	f, err := Float(v, def)
	if err != nil {
		return def
	}
	return f
}

// numericToFloat converts an arbitrary-precision NUMERIC to float64,
// accepting the inherent decimal-to-binary rounding.
func numericToFloat(n pgtype.Numeric, def float64) (float64, error) {
	if !n.Valid {
		return def, nil
	}
	f8, err := n.Float64Value()
	if err != nil {
		return def, &FormatError{Value: "numeric", Err: err}
	}
	if !f8.Valid {
		return def, nil
	}
	return f8.Float64, nil
}

func parseFloat(s string, def float64) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return def, &FormatError{Value: s, Err: err}
	}
	return f, nil
}
