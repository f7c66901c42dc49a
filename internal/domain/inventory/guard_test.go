package inventory

import (
	"testing"

	"github.com/erp/posting/internal/domain/catalog"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, scope shared.Scope, stock int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(scope, "P-001", "SKU-1", "Widget", uuid.New())
	require.NoError(t, err)
	p.StockQty = decimal.NewFromInt(stock)
	return p
}

func TestEntryType(t *testing.T) {
	magnitude := decimal.NewFromInt(3)
	tests := []struct {
		entryType EntryType
		decrement bool
	}{
		{EntryTypePurchase, false},
		{EntryTypePositiveAdjust, false},
		{EntryTypeSalesReturn, false},
		{EntryTypeNegativeAdjust, true},
		{EntryTypeSale, true},
		{EntryTypePurchaseReturn, true},
	}
	for _, tt := range tests {
		t.Run(tt.entryType.String(), func(t *testing.T) {
			assert.True(t, tt.entryType.IsValid())
			assert.Equal(t, tt.decrement, tt.entryType.IsDecrement())
			assert.False(t, tt.entryType.AllowsNegativeStock())
			signed := tt.entryType.SignedQuantity(magnitude)
			assert.True(t, signed.Abs().Equal(magnitude))
			assert.Equal(t, tt.decrement, signed.IsNegative())
		})
	}
	assert.False(t, EntryType("TRANSFER").IsValid())
}

func TestInventoryGuard_Check(t *testing.T) {
	scope := shared.NewScope(uuid.New(), uuid.New())
	guard := NewInventoryGuard()

	t.Run("zero quantity rejected for every entry type", func(t *testing.T) {
		for _, et := range []EntryType{EntryTypePurchase, EntryTypePurchaseReturn, EntryTypePositiveAdjust,
			EntryTypeNegativeAdjust, EntryTypeSale, EntryTypeSalesReturn} {
			err := guard.Check(newTestProduct(t, scope, 10), decimal.Zero, et)
			assert.ErrorIs(t, err, shared.ErrZeroQuantity, et)
		}
	})

	t.Run("insufficient stock for negative adjustment", func(t *testing.T) {
		p := newTestProduct(t, scope, 10)
		err := guard.Check(p, decimal.NewFromInt(11), EntryTypeNegativeAdjust)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Contains(t, err.Error(), "available 10, requested 11")
		assert.True(t, p.StockQty.Equal(decimal.NewFromInt(10)))
	})

	t.Run("exact stock may be consumed", func(t *testing.T) {
		assert.NoError(t, guard.Check(newTestProduct(t, scope, 10), decimal.NewFromInt(10), EntryTypeSale))
	})

	t.Run("purchase return consumes stock", func(t *testing.T) {
		err := guard.Check(newTestProduct(t, scope, 1), decimal.NewFromInt(2), EntryTypePurchaseReturn)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("increments are never blocked by stock level", func(t *testing.T) {
		assert.NoError(t, guard.Check(newTestProduct(t, scope, 0), decimal.NewFromInt(500), EntryTypePositiveAdjust))
		assert.NoError(t, guard.Check(newTestProduct(t, scope, 0), decimal.NewFromInt(500), EntryTypePurchase))
	})

	t.Run("negative magnitude rejected", func(t *testing.T) {
		err := guard.Check(newTestProduct(t, scope, 10), decimal.NewFromInt(-1), EntryTypePositiveAdjust)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("unknown entry type rejected", func(t *testing.T) {
		err := guard.Check(newTestProduct(t, scope, 10), decimal.NewFromInt(1), EntryType("TRANSFER"))
		assert.ErrorIs(t, err, shared.ErrInvalidEntryType)
	})
}
