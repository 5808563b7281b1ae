package pricing

import (
	"github.com/shopspring/decimal"
)

// SplitDeposit divides a total into a deposit rounded to cents and the
// remaining balance. The balance is derived by subtraction so the two always
// sum back to the total exactly, even when the percentage does not divide
// evenly.
func SplitDeposit(total, depositPercent decimal.Decimal) (deposit, balance decimal.Decimal) {
	deposit = total.Mul(depositPercent).Div(oneHundred).Round(2)
	balance = total.Sub(deposit)
	return deposit, balance
}
