// Package currency renders projection amounts for display.
//
// Formatting is locale-aware (grouping and decimal separators come from
// golang.org/x/text) while the currency decides the symbol, the number of
// decimal places and the large unit used for compact axis labels.
package currency

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	JPY Currency = "JPY"
	USD Currency = "USD"
)

type Currency string

var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Parse maps an ISO code (case-insensitive) to a supported Currency.
func Parse(s string) (Currency, error) {
	switch Currency(strings.ToUpper(strings.TrimSpace(s))) {
	case JPY:
		return JPY, nil
	case USD:
		return USD, nil
	default:
		return "", ErrUnsupportedCurrency
	}
}

// Supported lists the currencies the formatter knows about.
func Supported() []Currency {
	return []Currency{JPY, USD}
}

func (c Currency) String() string {
	return string(c)
}

// Symbol returns the prefix used when rendering amounts.
func (c Currency) Symbol() string {
	if c == JPY {
		return "¥"
	}
	return "$"
}

// Decimals returns the number of fraction digits shown for the currency.
func (c Currency) Decimals() int32 {
	if c == JPY {
		return 0
	}
	return 2
}

// ShortDivisor is the size of the large unit used by FormatShort.
func (c Currency) ShortDivisor() int64 {
	if c == JPY {
		return 10000
	}
	return 1000
}

// ShortUnit is the suffix matching ShortDivisor.
func (c Currency) ShortUnit() string {
	if c == JPY {
		return "万"
	}
	return "K"
}

// Format renders a grouped, symbol-prefixed amount, e.g. "¥121,968" or
// "$1,234.50". Negative amounts are rendered as "-¥1,000".
func Format(amount float64, c Currency, tag language.Tag) string {
	if !finite(amount) {
		return c.Symbol() + strconv.FormatFloat(amount, 'f', -1, 64)
	}
	d := c.Decimals()
	rounded := decimal.NewFromFloat(amount).Round(d)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	v, _ := rounded.Float64()
	p := message.NewPrinter(tag)
	body := p.Sprintf("%v", number.Decimal(v,
		number.MinFractionDigits(int(d)),
		number.MaxFractionDigits(int(d)),
	))
	return sign + c.Symbol() + body
}

// FormatShort renders a compact amount for chart axes: the amount divided
// by the currency's large unit, with the currency's decimal places.
//
// Examples:
//
//	FormatShort(121968, JPY) -> "¥12万"
//	FormatShort(121968, USD) -> "$121.97K"
func FormatShort(amount float64, c Currency) string {
	if !finite(amount) {
		return c.Symbol() + strconv.FormatFloat(amount, 'f', -1, 64) + c.ShortUnit()
	}
	v := decimal.NewFromFloat(amount).Div(decimal.NewFromInt(c.ShortDivisor()))
	return c.Symbol() + v.StringFixed(c.Decimals()) + c.ShortUnit()
}

// FormatNumber renders a plain grouped number with up to three fraction
// digits and no currency symbol.
func FormatNumber(amount float64, tag language.Tag) string {
	p := message.NewPrinter(tag)
	return p.Sprintf("%v", number.Decimal(amount, number.MaxFractionDigits(3)))
}

// decimal.NewFromFloat panics on NaN and infinities
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
