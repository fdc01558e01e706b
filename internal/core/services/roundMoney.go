package services

import "github.com/shopspring/decimal"

// RoundMoney rounds a currency amount half-up to the minor unit (cents).
// Every derived amount in the pricing pipeline goes through this one
// function so that stored totals reconcile bit-for-bit later.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
