package dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MoneyTag is the binding tag for positive amounts with at most two decimal places.
const MoneyTag = "money"

// RegisterValidators adds the custom validations used by the request DTOs.
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation(MoneyTag, validateMoney)
}

func validateMoney(fl validator.FieldLevel) bool {
	var d decimal.Decimal
	switch val := fl.Field().Interface().(type) {
	case decimal.Decimal:
		d = val
	case *decimal.Decimal:
		if val == nil {
			return false
		}
		d = *val
	default:
		return false
	}
	return d.IsPositive() && d.Equal(d.Round(2))
}
