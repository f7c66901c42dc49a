package document

import (
	"fmt"
	"time"

	"github.com/erp/posting/internal/domain/catalog"
	"github.com/erp/posting/internal/domain/inventory"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/erp/posting/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle status of a committed document
type Status string

const (
	StatusPosted    Status = "POSTED"
	StatusCancelled Status = "CANCELLED"
)

// Header is an Adjustment, Purchase or Sales document. It owns its lines and payments,
// and its totals are always derived from them.
type Header struct {
	shared.ScopedAggregateRoot
	Kind            Kind
	ReferenceNo     string
	SeriesCode      string
	DocumentDate    time.Time
	Status          Status
	Description     string
	LocationID      uuid.UUID
	PartyID         *uuid.UUID
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
	Amount          decimal.Decimal
	Discount        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	PaidAmount      decimal.Decimal
	DueAmount       decimal.Decimal
	Lines           []*Line
	Payments        []*Payment
}

// HeaderFields are the caller-supplied header values
type HeaderFields struct {
	DocumentDate    time.Time
	Description     string
	LocationID      uuid.UUID
	PartyID         *uuid.UUID
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
}

// Line is one product movement on a document
type Line struct {
	shared.BaseEntity
	HeaderID        uuid.UUID
	Scope           shared.Scope
	LineNo          int64
	Product         catalog.ProductSnapshot
	UnitID          uuid.UUID
	LocationID      uuid.UUID
	EntryType       inventory.EntryType
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxAmount       decimal.Decimal
	LineAmount      decimal.Decimal
	LedgerEntryNo   int64
}

// LineFields are the resolved values a line is built from
type LineFields struct {
	LineNo          int64
	Product         catalog.ProductSnapshot
	UnitID          uuid.UUID
	LocationID      uuid.UUID
	EntryType       inventory.EntryType
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
}

// Payment is money attached to a document at creation
type Payment struct {
	shared.BaseEntity
	HeaderID  uuid.UUID
	Scope     shared.Scope
	Amount    decimal.Decimal
	Method    string
	Reference string
}

// NewHeader creates a document header with zero totals
func NewHeader(scope shared.Scope, kind Kind, referenceNo, seriesCode string, f HeaderFields) (*Header, error) {
	if referenceNo == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "reference number cannot be empty")
	}
	if err := validatePercent("discount", f.DiscountPercent); err != nil {
		return nil, err
	}
	if err := validatePercent("tax", f.TaxPercent); err != nil {
		return nil, err
	}
	date := f.DocumentDate
	if date.IsZero() {
		date = time.Now()
	}
	return &Header{
		ScopedAggregateRoot: shared.NewScopedAggregateRoot(scope),
		Kind:                kind,
		ReferenceNo:         referenceNo,
		SeriesCode:          seriesCode,
		DocumentDate:        date,
		Status:              StatusPosted,
		Description:         f.Description,
		LocationID:          f.LocationID,
		PartyID:             f.PartyID,
		DiscountPercent:     f.DiscountPercent,
		TaxPercent:          f.TaxPercent,
		Amount:              decimal.Zero,
		Discount:            decimal.Zero,
		Tax:                 decimal.Zero,
		Total:               decimal.Zero,
		PaidAmount:          decimal.Zero,
		DueAmount:           decimal.Zero,
	}, nil
}

// AddLine builds a line from f, computes its amounts and appends it
func (h *Header) AddLine(f LineFields) (*Line, error) {
	if err := validatePercent("line discount", f.DiscountPercent); err != nil {
		return nil, err
	}
	if err := validatePercent("line tax", f.TaxPercent); err != nil {
		return nil, err
	}
	if f.UnitPrice.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "unit price cannot be negative")
	}
	amounts := ComputeLineAmounts(f.Quantity, f.UnitPrice, f.DiscountPercent, f.TaxPercent)
	line := &Line{
		BaseEntity:      shared.NewBaseEntity(),
		HeaderID:        h.ID,
		Scope:           h.Scope,
		LineNo:          f.LineNo,
		Product:         f.Product,
		UnitID:          f.UnitID,
		LocationID:      f.LocationID,
		EntryType:       f.EntryType,
		Quantity:        f.Quantity,
		UnitPrice:       f.UnitPrice,
		DiscountPercent: f.DiscountPercent,
		TaxPercent:      f.TaxPercent,
		DiscountAmount:  amounts.Discount.Amount(),
		TaxAmount:       amounts.Tax.Amount(),
		LineAmount:      amounts.Amount.Amount(),
	}
	h.Lines = append(h.Lines, line)
	return line, nil
}

// AddPayment attaches a payment to the document
func (h *Header) AddPayment(amount decimal.Decimal, method, reference string) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "payment amount must be positive")
	}
	p := &Payment{
		BaseEntity: shared.NewBaseEntity(),
		HeaderID:   h.ID,
		Scope:      h.Scope,
		Amount:     amount,
		Method:     method,
		Reference:  reference,
	}
	h.Payments = append(h.Payments, p)
	return p, nil
}

// RecalculateTotals recomputes aggregate fields strictly from the current lines and payments
func (h *Header) RecalculateTotals() error {
	totals := h.ProjectTotals()
	if totals.PaymentExceedsTotal() {
		return shared.NewDomainError(shared.CodePaymentExceedsTotal, fmt.Sprintf(
			"paid amount %s exceeds document total %s", totals.PaidAmount, totals.Total))
	}
	h.Amount = totals.Amount.Amount()
	h.Discount = totals.Discount.Amount()
	h.Tax = totals.Tax.Amount()
	h.Total = totals.Total.Amount()
	h.PaidAmount = totals.PaidAmount.Amount()
	h.DueAmount = totals.DueAmount.Amount()
	h.Touch()
	return nil
}

// ProjectTotals computes totals from the current lines and payments without storing them
func (h *Header) ProjectTotals() Totals {
	desc, _ := DescriptorFor(h.Kind)
	lineAmounts := make([]valueobject.Money, len(h.Lines))
	for i, l := range h.Lines {
		lineAmounts[i] = l.SignedAmount(desc)
	}
	payments := make([]valueobject.Money, len(h.Payments))
	for i, p := range h.Payments {
		payments[i] = valueobject.NewMoney(p.Amount)
	}
	return ComputeTotals(lineAmounts, h.DiscountPercent, h.TaxPercent, payments)
}

// SignedAmount is the line amount as it counts towards the header, negative for a line
// that offsets the document
func (l *Line) SignedAmount(desc Descriptor) valueobject.Money {
	amount := valueobject.NewMoney(l.LineAmount)
	if desc.Offsets(l.EntryType) {
		return amount.Negate()
	}
	return amount
}

// Cancel moves a posted document to cancelled. Lines and ledger entries are unaffected.
func (h *Header) Cancel() error {
	if h.Status != StatusPosted {
		return shared.NewDomainError(shared.CodeInvalidStateTransition,
			fmt.Sprintf("document %s can not be cancelled in status %s", h.ReferenceNo, h.Status))
	}
	h.Status = StatusCancelled
	h.Bump()
	h.Raise(NewDocumentCancelledEvent(h))
	return nil
}

var hundred = decimal.NewFromInt(100)

func validatePercent(name string, v decimal.Decimal) error {
	if v.IsNegative() || v.GreaterThan(hundred) {
		return shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("%s percent must be between 0 and 100", name))
	}
	return nil
}
