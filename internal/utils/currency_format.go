package utils

import (
	"github.com/shopspring/decimal"
)

// MoneyPrecision is the number of fractional digits every stored amount carries.
const MoneyPrecision = 2

// FormatAmount renders amount with exactly MoneyPrecision digits, e.g. 7000 → "7000.00".
// Event payloads and log lines use it so amounts never pass through float64.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(MoneyPrecision)
}

// RoundMoney rounds half away from zero to MoneyPrecision digits.
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyPrecision)
}
