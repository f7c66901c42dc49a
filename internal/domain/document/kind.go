package document

import (
	"fmt"
	"strings"

	"github.com/erp/posting/internal/domain/inventory"
	"github.com/erp/posting/internal/domain/shared"
)

// Kind tags the document variant
type Kind string

const (
	KindAdjustment Kind = "ADJUSTMENT"
	KindPurchase   Kind = "PURCHASE"
	KindSales      Kind = "SALES"
)

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// ParseKind accepts the kind name or its plural route form (adjustments, purchases, sales)
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADJUSTMENT", "ADJUSTMENTS":
		return KindAdjustment, nil
	case "PURCHASE", "PURCHASES":
		return KindPurchase, nil
	case "SALES", "SALE", "SALES_ORDER", "SALES_ORDERS":
		return KindSales, nil
	}
	return "", shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("unknown document kind %q", s))
}

// PriceSource selects which product price a line defaults to
type PriceSource int

const (
	PriceFromCost PriceSource = iota
	PriceFromSellingPrice
)

// PartyRole names the counterparty a document kind carries
type PartyRole string

const (
	PartyNone     PartyRole = ""
	PartySupplier PartyRole = "supplier"
	PartyCustomer PartyRole = "customer"
)

// Descriptor is the per-kind policy the posting coordinator is parameterized with
type Descriptor struct {
	Kind             Kind
	DocumentType     string
	DefaultSeries    string
	DefaultEntryType inventory.EntryType
	EntryTypes       []inventory.EntryType
	PriceSource      PriceSource
	Party            PartyRole
	ChecksCredit     bool
	AcceptsPayments  bool
}

var descriptors = map[Kind]Descriptor{
	KindAdjustment: {
		Kind:             KindAdjustment,
		DocumentType:     "ADJUSTMENT",
		DefaultSeries:    "ADJ",
		DefaultEntryType: inventory.EntryTypePositiveAdjust,
		EntryTypes:       []inventory.EntryType{inventory.EntryTypePositiveAdjust, inventory.EntryTypeNegativeAdjust},
		PriceSource:      PriceFromCost,
		Party:            PartyNone,
	},
	KindPurchase: {
		Kind:             KindPurchase,
		DocumentType:     "PURCHASE",
		DefaultSeries:    "PUR",
		DefaultEntryType: inventory.EntryTypePurchase,
		EntryTypes:       []inventory.EntryType{inventory.EntryTypePurchase, inventory.EntryTypePurchaseReturn},
		PriceSource:      PriceFromCost,
		Party:            PartySupplier,
		AcceptsPayments:  true,
	},
	KindSales: {
		Kind:             KindSales,
		DocumentType:     "SALES_ORDER",
		DefaultSeries:    "SO",
		DefaultEntryType: inventory.EntryTypeSale,
		EntryTypes:       []inventory.EntryType{inventory.EntryTypeSale, inventory.EntryTypeSalesReturn},
		PriceSource:      PriceFromSellingPrice,
		Party:            PartyCustomer,
		ChecksCredit:     true,
		AcceptsPayments:  true,
	},
}

// DescriptorFor returns the policy for a document kind
func DescriptorFor(kind Kind) (Descriptor, error) {
	d, ok := descriptors[kind]
	if !ok {
		return Descriptor{}, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("unknown document kind %q", kind))
	}
	return d, nil
}

// Allows reports whether an entry type may appear on this kind of document
func (d Descriptor) Allows(et inventory.EntryType) bool {
	for _, allowed := range d.EntryTypes {
		if allowed == et {
			return true
		}
	}
	return false
}

// Offsets reports whether an entry type moves stock against the kind's default direction,
// as returns do. Offsetting lines count negative in the document totals.
func (d Descriptor) Offsets(et inventory.EntryType) bool {
	return et.IsDecrement() != d.DefaultEntryType.IsDecrement()
}

// ResolveEntryType applies the default when none is requested and rejects foreign entry types
func (d Descriptor) ResolveEntryType(requested inventory.EntryType) (inventory.EntryType, error) {
	if requested == "" {
		return d.DefaultEntryType, nil
	}
	if !d.Allows(requested) {
		return "", shared.NewDomainError(shared.CodeInvalidEntryType,
			fmt.Sprintf("entry type %s is not allowed on %s documents", requested, strings.ToLower(string(d.Kind))))
	}
	return requested, nil
}
