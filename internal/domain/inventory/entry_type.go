package inventory

import "github.com/shopspring/decimal"

// EntryType classifies a stock movement. The magnitude of a movement is always positive;
// the entry type decides its sign.
type EntryType string

const (
	// EntryTypePurchase is a purchase receipt
	EntryTypePurchase EntryType = "PURCHASE"
	// EntryTypePurchaseReturn sends received goods back to the supplier
	EntryTypePurchaseReturn EntryType = "PURCHASE_RETURN"
	// EntryTypePositiveAdjust is a manual stock increase
	EntryTypePositiveAdjust EntryType = "POSITIVE_ADJUST"
	// EntryTypeNegativeAdjust is a manual stock decrease
	EntryTypeNegativeAdjust EntryType = "NEGATIVE_ADJUST"
	// EntryTypeSale is a sales shipment
	EntryTypeSale EntryType = "SALE"
	// EntryTypeSalesReturn takes sold goods back into stock
	EntryTypeSalesReturn EntryType = "SALES_RETURN"
)

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// IsValid returns true if the entry type is known
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypePurchase,
		EntryTypePurchaseReturn,
		EntryTypePositiveAdjust,
		EntryTypeNegativeAdjust,
		EntryTypeSale,
		EntryTypeSalesReturn:
		return true
	}
	return false
}

// IsDecrement returns true if the movement consumes stock
func (t EntryType) IsDecrement() bool {
	switch t {
	case EntryTypePurchaseReturn, EntryTypeNegativeAdjust, EntryTypeSale:
		return true
	}
	return false
}

// AllowsNegativeStock reports whether the movement may leave stock below zero. None do.
func (t EntryType) AllowsNegativeStock() bool {
	return false
}

// SignedQuantity applies the entry type's sign to a movement magnitude
func (t EntryType) SignedQuantity(magnitude decimal.Decimal) decimal.Decimal {
	if t.IsDecrement() {
		return magnitude.Abs().Neg()
	}
	return magnitude.Abs()
}
