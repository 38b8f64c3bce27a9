package marketlog

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/corriander/eve-telemetrics/internal/order"
)

type castFunc func(string) (any, error)

type fieldMapping struct {
	name string // ESI field name; derived from the column when empty
	cast castFunc
}

var fieldMappings = map[string]fieldMapping{
	"bid":           {name: order.FieldIsBuyOrder, cast: castBool},
	"issueDate":     {name: order.FieldIssued, cast: castUTC},
	"price":         {cast: castDecimal},
	"escrow":        {cast: castDecimal},
	"volRemaining":  {cast: castDecimal},
	"regionID":      {cast: castInt},
	"solarSystemID": {name: order.FieldSystemID, cast: castInt},
	"stationID":     {name: order.FieldLocationID, cast: castInt},
	"typeID":        {cast: castInt},
	"orderID":       {cast: castInt},
	"charID":        {cast: castInt},
	"accountID":     {cast: castInt},
	"duration":      {cast: castInt},
	"minVolume":     {cast: castInt},
	"volEntered":    {cast: castInt},
	"range":         {cast: castInt},
	"jumps":         {cast: castInt},
	"isCorp":        {cast: castBool},
}

// normalize maps one CSV column to its field name and value. Empty
// values of cast columns become nil.
func normalize(column, value string) (string, any, error) {
	m := fieldMappings[column]
	name := m.name
	if name == "" {
		name = snakeCase(column)
	}
	if m.cast == nil {
		return name, value, nil
	}
	if strings.TrimSpace(value) == "" {
		return name, nil, nil
	}
	v, err := m.cast(strings.TrimSpace(value))
	if err != nil {
		return name, nil, &order.ParseError{Field: column, Value: value, Err: err}
	}
	return name, v, nil
}

func castBool(s string) (any, error) {
	return strconv.ParseBool(s)
}

// castUTC marks the client's zone-less timestamps as UTC.
func castUTC(s string) (any, error) {
	return s + "Z", nil
}

func castDecimal(s string) (any, error) {
	return decimal.NewFromString(s)
}

// castInt accepts integral decimals such as "10.0", which the client
// writes for some counts.
func castInt(s string) (any, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	if !d.Equal(d.Truncate(0)) {
		return nil, fmt.Errorf("%s is not an integer", s)
	}
	return d.IntPart(), nil
}

// snakeCase converts camelCase names, keeping acronym runs together:
// solarSystemID becomes solar_system_id.
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
