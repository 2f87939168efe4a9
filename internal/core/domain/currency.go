package domain

// DefaultCurrency is used for families that do not choose one.
const DefaultCurrency = "PKR"

// SupportedCurrencies lists the currencies a family or account may use.
var SupportedCurrencies = []string{"PKR", "USD", "EUR", "GBP", "SAR", "AED", "INR", "BDT"}

// IsSupportedCurrency reports whether code is one of SupportedCurrencies.
func IsSupportedCurrency(code string) bool {
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}
