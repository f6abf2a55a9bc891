// Package cast converts row values between their wire representation and
// typed in-memory values, driven by a per-field type tag.
//
// Conversion is best effort: a field that cannot be converted becomes nil
// and a warning is logged, so one malformed column never aborts an entire
// row. Fields absent from the cast table or the row are untouched.
package cast

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goquent/goquent/internal/debug"
	"github.com/goquent/goquent/runtime/types"
)

// Direction selects which way values are converted.
type Direction int

const (
	// Inbound converts wire values to typed values, after SELECT.
	Inbound Direction = iota
	// Outbound converts typed values to wire-safe values, before
	// INSERT and UPDATE.
	Outbound
)

// Supported cast tags.
const (
	TagJSON    = "json"
	TagBoolean = "boolean"
	TagDate    = "date"
	TagNumber  = "number"
	TagFloat   = "float"
	TagString  = "string"
)

// Inbound date layouts, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Apply converts every field of row that appears in casts, in place, and
// returns row. Nil values are left alone.
func Apply(row types.Row, casts map[string]string, dir Direction) types.Row {
	for field, tag := range casts {
		value, ok := row[field]
		if !ok || value == nil {
			continue
		}
		converted, ok := convert(value, tag, dir)
		if !ok {
			debug.Warn("cast failed, field set to null", "field", field, "tag", tag, "value", fmt.Sprintf("%T", value))
			row[field] = nil
			continue
		}
		row[field] = converted
	}
	return row
}

func convert(value interface{}, tag string, dir Direction) (interface{}, bool) {
	if dir == Outbound {
		return convertOutbound(value, tag)
	}
	return convertInbound(value, tag)
}

func convertInbound(value interface{}, tag string) (interface{}, bool) {
	switch tag {
	case TagJSON:
		var text string
		switch v := value.(type) {
		case string:
			text = v
		case []byte:
			text = string(v)
		default:
			return nil, false
		}
		var out interface{}
		if err := json.Unmarshal([]byte(text), &out); err != nil {
			return nil, false
		}
		return out, true
	case TagBoolean:
		return toBool(value)
	case TagDate:
		switch v := value.(type) {
		case time.Time:
			return v, true
		case string:
			return parseDate(v)
		case []byte:
			return parseDate(string(v))
		default:
			return nil, false
		}
	case TagNumber, TagFloat:
		return toFloat(value)
	case TagString:
		if b, ok := value.([]byte); ok {
			return string(b), true
		}
		return fmt.Sprint(value), true
	default:
		return value, true
	}
}

func convertOutbound(value interface{}, tag string) (interface{}, bool) {
	switch tag {
	case TagJSON:
		b, err := json.Marshal(value)
		if err != nil {
			return nil, false
		}
		return string(b), true
	case TagBoolean:
		b, ok := toBool(value)
		if !ok {
			return nil, false
		}
		if b.(bool) {
			return 1, true
		}
		return 0, true
	case TagDate:
		switch v := value.(type) {
		case time.Time:
			return v.Format(time.RFC3339), true
		case string:
			// Assume the caller already formatted it.
			return v, true
		default:
			return nil, false
		}
	case TagNumber, TagFloat:
		return toFloat(value)
	case TagString:
		return fmt.Sprint(value), true
	default:
		return value, true
	}
}

func parseDate(s string) (interface{}, bool) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return nil, false
}

func toBool(value interface{}) (interface{}, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case int:
		return v != 0, true
	case int32:
		return v != 0, true
	case int64:
		return v != 0, true
	case uint64:
		return v != 0, true
	case float32:
		return v != 0, true
	case float64:
		return v != 0, true
	case []byte:
		return parseBool(string(v))
	case string:
		return parseBool(v)
	default:
		return nil, false
	}
}

func parseBool(s string) (interface{}, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, true
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f != 0, true
	}
	return nil, false
}

func toFloat(value interface{}) (interface{}, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case []byte:
		return parseFloat(string(v))
	case string:
		return parseFloat(v)
	default:
		return nil, false
	}
}

func parseFloat(s string) (interface{}, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, false
	}
	return f, true
}
