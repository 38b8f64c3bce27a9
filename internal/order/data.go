package order

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Data is the raw field map of one order, as decoded from the API or a
// log export.
type Data map[string]any

// Source is anything carrying order data: Data, *Simple or *Snapshot.
type Source interface {
	orderData() Data
}

func (d Data) orderData() Data { return d }

// Int returns the named field as an int64.
func (d Data) Int(field string) (int64, error) {
	v, ok := d[field]
	if !ok || v == nil {
		return 0, &MissingFieldError{Field: field}
	}
	n, err := asInt64(v)
	if err != nil {
		return 0, &ParseError{Field: field, Value: v, Err: err}
	}
	return n, nil
}

// Bool returns the named field as a bool. Absent or unreadable values
// yield def.
func (d Data) Bool(field string, def bool) bool {
	switch b := d[field].(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
			return parsed
		}
	}
	return def
}

// Decimal returns the named field as a decimal.
func (d Data) Decimal(field string) (decimal.Decimal, error) {
	v, ok := d[field]
	if !ok || v == nil {
		return decimal.Zero, &MissingFieldError{Field: field}
	}

	var (
		out decimal.Decimal
		err error
	)
	switch x := v.(type) {
	case decimal.Decimal:
		out = x
	case float64:
		out = decimal.NewFromFloat(x)
	case json.Number:
		out, err = decimal.NewFromString(x.String())
	case string:
		out, err = decimal.NewFromString(strings.TrimSpace(x))
	default:
		n, ierr := asInt64(v)
		if ierr != nil {
			err = fmt.Errorf("unsupported type %T", v)
		}
		out = decimal.NewFromInt(n)
	}
	if err != nil {
		return decimal.Zero, &ParseError{Field: field, Value: v, Err: err}
	}
	return out, nil
}
