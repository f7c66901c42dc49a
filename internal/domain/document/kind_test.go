package document

import (
	"testing"

	"github.com/erp/posting/internal/domain/inventory"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for input, want := range map[string]Kind{
		"adjustments": KindAdjustment,
		"ADJUSTMENT":  KindAdjustment,
		"purchases":   KindPurchase,
		"sales":       KindSales,
		"sales_order": KindSales,
	} {
		got, err := ParseKind(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseKind("transfers")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestDescriptorFor(t *testing.T) {
	t.Run("adjustment", func(t *testing.T) {
		d, err := DescriptorFor(KindAdjustment)
		require.NoError(t, err)
		assert.Equal(t, PartyNone, d.Party)
		assert.False(t, d.ChecksCredit)
		assert.False(t, d.AcceptsPayments)
		assert.True(t, d.Allows(inventory.EntryTypeNegativeAdjust))
		assert.False(t, d.Allows(inventory.EntryTypeSale))
	})

	t.Run("purchase", func(t *testing.T) {
		d, err := DescriptorFor(KindPurchase)
		require.NoError(t, err)
		assert.Equal(t, PartySupplier, d.Party)
		assert.Equal(t, PriceFromCost, d.PriceSource)
		assert.True(t, d.Allows(inventory.EntryTypePurchaseReturn))
	})

	t.Run("sales", func(t *testing.T) {
		d, err := DescriptorFor(KindSales)
		require.NoError(t, err)
		assert.Equal(t, PartyCustomer, d.Party)
		assert.Equal(t, PriceFromSellingPrice, d.PriceSource)
		assert.True(t, d.ChecksCredit)
		assert.Equal(t, "SO", d.DefaultSeries)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := DescriptorFor(Kind("TRANSFER"))
		assert.Error(t, err)
	})
}

func TestDescriptor_ResolveEntryType(t *testing.T) {
	d, err := DescriptorFor(KindSales)
	require.NoError(t, err)

	et, err := d.ResolveEntryType("")
	require.NoError(t, err)
	assert.Equal(t, inventory.EntryTypeSale, et)

	et, err = d.ResolveEntryType(inventory.EntryTypeSalesReturn)
	require.NoError(t, err)
	assert.Equal(t, inventory.EntryTypeSalesReturn, et)

	_, err = d.ResolveEntryType(inventory.EntryTypePositiveAdjust)
	assert.ErrorIs(t, err, shared.ErrInvalidEntryType)
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}

func TestDescriptor_Offsets(t *testing.T) {
	tests := []struct {
		kind      Kind
		entryType inventory.EntryType
		want      bool
	}{
		{KindSales, inventory.EntryTypeSale, false},
		{KindSales, inventory.EntryTypeSalesReturn, true},
		{KindPurchase, inventory.EntryTypePurchase, false},
		{KindPurchase, inventory.EntryTypePurchaseReturn, true},
		{KindAdjustment, inventory.EntryTypePositiveAdjust, false},
		{KindAdjustment, inventory.EntryTypeNegativeAdjust, true},
	}
	for _, tt := range tests {
		d, err := DescriptorFor(tt.kind)
		require.NoError(t, err)
		assert.Equal(t, tt.want, d.Offsets(tt.entryType), "%s %s", tt.kind, tt.entryType)
	}
}
