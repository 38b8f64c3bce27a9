package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// KeyLayout is the serialisation used for snapshot keys. Every
// component is fixed width and the offset is always UTC, so lexical
// order equals chronological order.
const KeyLayout = "2006-01-02T15:04:05.000000"

// epochMillisDigits is the digit count from which an epoch value is
// read as milliseconds rather than seconds.
const epochMillisDigits = 13

// Offsets are tried with and without a colon, date parts with and
// without dashes. Fractional seconds are accepted by time.Parse
// without being named in the layout.
var isoLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z0700",
	"20060102T150405Z0700",
	"20060102T150405Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"20060102T150405",
	"2006-01-02",
}

var errNotInteger = errors.New("not an integer")

// TimeKey formats t as a snapshot key.
func TimeKey(t time.Time) string {
	return t.UTC().Format(KeyLayout) + "+00:00"
}

// ParseTime interprets v as a UTC instant. A time.Time is used as is,
// integers are epoch seconds or milliseconds depending on their digit
// count, and strings are parsed as ISO-8601 with UTC assumed when no
// offset is present.
func ParseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case *time.Time:
		if t != nil {
			return t.UTC(), nil
		}
		return time.Time{}, &ParseError{Field: "time", Value: v}
	}

	if n, err := asInt64(v); err == nil {
		return ParseEpoch(n), nil
	}

	s, ok := v.(string)
	if !ok {
		return time.Time{}, &ParseError{Field: "time", Value: v, Err: fmt.Errorf("unsupported type %T", v)}
	}
	t, err := ParseISO(s)
	if err != nil {
		return time.Time{}, &ParseError{Field: "time", Value: v, Err: err}
	}
	return t, nil
}

// ParseEpoch converts an epoch count to UTC. Values with 13 or more
// digits are milliseconds.
func ParseEpoch(n int64) time.Time {
	digits := len(strconv.FormatInt(absInt64(n), 10))
	if digits >= epochMillisDigits {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}

// ParseISO parses the ISO-8601 shapes seen in API payloads and client
// log exports.
func ParseISO(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// asInt64 accepts Go integer kinds, integral floats, json.Number and
// strings of digits.
func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, errNotInteger
		}
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, errNotInteger
		}
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, errNotInteger
		}
		return strconv.ParseInt(s, 10, 64)
	}
	return 0, errNotInteger
}

func absInt64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
