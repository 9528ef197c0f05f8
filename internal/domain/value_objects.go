package domain

import "strings"

// Money is an amount in minor currency units with a lowercase ISO code.
type Money struct {
	Amount   int64
	Currency string
}

func NewMoney(amount int64, currency string) (Money, error) {
	if amount <= 0 {
		return Money{}, NewInvalidAmountError(amount)
	}
	if currency == "" {
		return Money{}, NewMissingRequiredFieldError("currency")
	}
	return Money{Amount: amount, Currency: strings.ToLower(currency)}, nil
}
