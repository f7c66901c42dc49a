package document

import (
	"github.com/erp/posting/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the rounding precision of monetary amounts
const MoneyPlaces = valueobject.MoneyPlaces

// LineAmounts are the computed money figures of one line
type LineAmounts struct {
	Gross    valueobject.Money
	Discount valueobject.Money
	Tax      valueobject.Money
	Amount   valueobject.Money
}

// ComputeLineAmounts returns price*qty - discount + tax, with the discount taken from the gross
// and the tax taken from the discounted gross
func ComputeLineAmounts(quantity, unitPrice, discountPercent, taxPercent decimal.Decimal) LineAmounts {
	gross := valueobject.PriceTimes(unitPrice, quantity)
	discount, tax, amount := gross.ApplyDiscountAndTax(discountPercent, taxPercent)
	return LineAmounts{Gross: gross, Discount: discount, Tax: tax, Amount: amount}
}

// Totals are the header aggregate figures
type Totals struct {
	Amount     valueobject.Money
	Discount   valueobject.Money
	Tax        valueobject.Money
	Total      valueobject.Money
	PaidAmount valueobject.Money
	DueAmount  valueobject.Money
}

// ComputeTotals derives header totals from signed line amounts and payments. Offsetting
// lines arrive negated, so a return lowers the total. Header discount and tax are applied
// once, on the sum of line amounts.
func ComputeTotals(lineAmounts []valueobject.Money, discountPercent, taxPercent decimal.Decimal, payments []valueobject.Money) Totals {
	amount := valueobject.SumMoney(lineAmounts...)
	discount, tax, total := amount.ApplyDiscountAndTax(discountPercent, taxPercent)
	paid := valueobject.SumMoney(payments...)

	return Totals{
		Amount:     amount,
		Discount:   discount,
		Tax:        tax,
		Total:      total,
		PaidAmount: paid,
		DueAmount:  total.Subtract(paid),
	}
}

// PaymentExceedsTotal reports payments above what the document is worth. A document
// whose total is negative accepts no payment at all.
func (t Totals) PaymentExceedsTotal() bool {
	return t.PaidAmount.GreaterThan(t.Total.Max(valueobject.ZeroMoney()))
}
