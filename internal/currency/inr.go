// Package currency renders amounts for display.
package currency

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const rupeeSymbol = "₹"

var indianPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR renders amount as whole rupees with Indian digit grouping,
// e.g. 123456.7 -> "₹1,23,457". NaN and infinities render as "₹0".
func FormatINR(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}

	rounded := math.Round(amount)
	sign := ""
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}

	return sign + rupeeSymbol + indianPrinter.Sprint(number.Decimal(rounded, number.MaxFractionDigits(0)))
}

// FormatINRValue coerces v to a number before formatting. Anything that is not
// numeric renders like zero.
func FormatINRValue(v any) string {
	return FormatINR(toFloat(v))
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	case interface{ Float64() (float64, error) }: // json.Number
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
