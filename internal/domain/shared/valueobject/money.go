package valueobject

import (
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the precision every computed amount is rounded to
const MoneyPlaces = 4

var hundred = decimal.NewFromInt(100)

// Money is an immutable monetary amount in the company currency.
// Documents never mix currencies, so Money carries none.
type Money struct {
	amount decimal.Decimal
}

// NewMoney wraps amount as is
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// NewMoneyFromString parses amount, for fixtures and configuration
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: d}, nil
}

// ZeroMoney returns the zero amount
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// PriceTimes returns unitPrice * quantity rounded to MoneyPlaces
func PriceTimes(unitPrice, quantity decimal.Decimal) Money {
	return Money{amount: unitPrice.Mul(quantity).Round(MoneyPlaces)}
}

// SumMoney adds every amount
func SumMoney(amounts ...Money) Money {
	total := decimal.Zero
	for _, m := range amounts {
		total = total.Add(m.amount)
	}
	return Money{amount: total}
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

func (m Money) Subtract(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// Negate reverses the sign, as for the amount of a return line
func (m Money) Negate() Money {
	return Money{amount: m.amount.Neg()}
}

// Percent returns percent of m rounded to MoneyPlaces. The sign follows m.
func (m Money) Percent(percent decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(percent).Div(hundred).Round(MoneyPlaces)}
}

// ApplyDiscountAndTax takes discountPercent off m and adds taxPercent of the discounted
// amount. It returns the discount, the tax and the resulting amount.
func (m Money) ApplyDiscountAndTax(discountPercent, taxPercent decimal.Decimal) (discount, tax, net Money) {
	discount = m.Percent(discountPercent)
	tax = m.Subtract(discount).Percent(taxPercent)
	net = m.Subtract(discount).Add(tax)
	return discount, tax, net
}

func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// Max returns the larger of m and other
func (m Money) Max(other Money) Money {
	if other.amount.GreaterThan(m.amount) {
		return other
	}
	return m
}

func (m Money) String() string {
	return m.amount.StringFixed(MoneyPlaces)
}
