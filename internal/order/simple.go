package order

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Field names shared by API payloads and normalised log exports.
const (
	FieldDuration   = "duration"
	FieldIssued     = "issued"
	FieldIsBuyOrder = "is_buy_order"
	FieldOrderID    = "order_id"
	FieldLocationID = "location_id"
	FieldSystemID   = "system_id"
	FieldRegionID   = "region_id"
	FieldTypeID     = "type_id"
	FieldPrice      = "price"
)

// Simple is a market order backed by its raw data.
//
// Issued is memoised on first successful access. Mutating Data
// afterwards does not change it until ResetDerived is called.
type Simple struct {
	Data Data

	raw    string
	issued Memo[time.Time]
}

// New wraps data without validating it.
func New(data Data) *Simple {
	if data == nil {
		data = Data{}
	}
	return &Simple{Data: data}
}

// FromJSON decodes s into a Simple. The string is retained and
// returned verbatim by JSON. Numbers are kept as json.Number so large
// ids survive decoding.
func FromJSON(s string) (*Simple, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var data Data
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("decode order json: %w", err)
	}
	o := New(data)
	o.raw = s
	return o, nil
}

func (o *Simple) orderData() Data { return o.Data }

// Get returns the raw value stored under key.
func (o *Simple) Get(key string) (any, bool) {
	v, ok := o.Data[key]
	return v, ok
}

// JSON returns the order as a JSON string. Orders built by FromJSON
// return their source string unchanged.
func (o *Simple) JSON() (string, error) {
	if o.raw != "" {
		return o.raw, nil
	}
	b, err := json.Marshal(o.Data)
	if err != nil {
		return "", fmt.Errorf("encode order json: %w", err)
	}
	return string(b), nil
}

// Duration is the order duration in days.
func (o *Simple) Duration() (int, error) {
	n, err := o.Data.Int(FieldDuration)
	return int(n), err
}

// Issued is the issue time of the order in UTC.
func (o *Simple) Issued() (time.Time, error) {
	return o.issued.Get(func() (time.Time, error) {
		v, ok := o.Data[FieldIssued]
		if !ok || v == nil {
			return time.Time{}, &MissingFieldError{Field: FieldIssued}
		}
		t, err := ParseTime(v)
		if err != nil {
			return time.Time{}, &ParseError{Field: FieldIssued, Value: v, Err: err}
		}
		return t, nil
	})
}

// Expiry is the issue time plus the duration in whole days.
func (o *Simple) Expiry() (time.Time, error) {
	days, err := o.Duration()
	if err != nil {
		return time.Time{}, err
	}
	issued, err := o.Issued()
	if err != nil {
		return time.Time{}, err
	}
	return issued.AddDate(0, 0, days), nil
}

// IsBuyOrder reports whether this is a bid. Feeds that only flag buy
// orders leave the field out for sells, so absence means false.
func (o *Simple) IsBuyOrder() bool {
	return o.Data.Bool(FieldIsBuyOrder, false)
}

func (o *Simple) OrderID() (int64, error)    { return o.Data.Int(FieldOrderID) }
func (o *Simple) LocationID() (int64, error) { return o.Data.Int(FieldLocationID) }
func (o *Simple) SystemID() (int64, error)   { return o.Data.Int(FieldSystemID) }
func (o *Simple) TypeID() (int64, error)     { return o.Data.Int(FieldTypeID) }

// Price is the unit price of the order.
func (o *Simple) Price() (decimal.Decimal, error) {
	return o.Data.Decimal(FieldPrice)
}

// ResetDerived drops memoised derived fields so they are recomputed
// from Data on next access.
func (o *Simple) ResetDerived() {
	o.issued.Reset()
}

// Split partitions orders into buy and sell orders, keeping their
// relative order.
func Split[O interface{ IsBuyOrder() bool }](orders []O) (buy, sell []O) {
	for _, o := range orders {
		if o.IsBuyOrder() {
			buy = append(buy, o)
		} else {
			sell = append(sell, o)
		}
	}
	return buy, sell
}
