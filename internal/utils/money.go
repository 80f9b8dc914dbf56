package utils

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

// FormatCurrency renders amount with the configured symbol, thousands grouping
// and two decimals, e.g. "₹1,234.50" or "-$20.00".
func FormatCurrency(amount float64, symbol string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = math.Abs(amount)
	}
	return sign + symbol + amountPrinter.Sprintf("%.2f", amount)
}

// RoundMoney rounds to cents.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}
