package posting

import (
	"time"

	"github.com/erp/posting/internal/domain/document"
	"github.com/erp/posting/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDocumentRequest is the input of a document creation
type CreateDocumentRequest struct {
	SeriesCode      string           `json:"series_code"`
	DocumentDate    *time.Time       `json:"document_date"`
	Description     string           `json:"description" binding:"max=500"`
	LocationID      uuid.UUID        `json:"location_id" binding:"required"`
	PartyID         *uuid.UUID       `json:"party_id"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
	TaxPercent      decimal.Decimal  `json:"tax_percent"`
	Lines           []LineRequest    `json:"lines" binding:"required,min=1,dive"`
	Payments        []PaymentRequest `json:"payments" binding:"dive"`
}

// LineRequest is one requested line. Direction comes from EntryType; Quantity is a positive magnitude.
type LineRequest struct {
	ProductID       uuid.UUID        `json:"product_id" binding:"required"`
	UnitID          *uuid.UUID       `json:"unit_id"`
	LocationID      *uuid.UUID       `json:"location_id"`
	EntryType       string           `json:"entry_type"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
	TaxPercent      *decimal.Decimal `json:"tax_percent"`
}

// PaymentRequest is a payment attached at creation
type PaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" binding:"required,max=50"`
	Reference string          `json:"reference" binding:"max=100"`
}

// PostingResult is the outcome of a committed document creation
type PostingResult struct {
	Header        *document.Header
	Entries       []*inventory.StockHistoryEntry
	Notifications []*inventory.NotificationRequest
	Attempts      int
	States        []document.PostingState
}

// DocumentResponse represents a document in API responses
type DocumentResponse struct {
	ID              uuid.UUID              `json:"id"`
	TenantID        uuid.UUID              `json:"tenant_id"`
	CompanyID       uuid.UUID              `json:"company_id"`
	Kind            string                 `json:"kind"`
	ReferenceNo     string                 `json:"reference_no"`
	DocumentDate    time.Time              `json:"document_date"`
	Status          string                 `json:"status"`
	Description     string                 `json:"description,omitempty"`
	LocationID      uuid.UUID              `json:"location_id"`
	PartyID         *uuid.UUID             `json:"party_id,omitempty"`
	DiscountPercent decimal.Decimal        `json:"discount_percent"`
	TaxPercent      decimal.Decimal        `json:"tax_percent"`
	Amount          decimal.Decimal        `json:"amount"`
	Discount        decimal.Decimal        `json:"discount"`
	Tax             decimal.Decimal        `json:"tax"`
	Total           decimal.Decimal        `json:"total"`
	PaidAmount      decimal.Decimal        `json:"paid_amount"`
	DueAmount       decimal.Decimal        `json:"due_amount"`
	Lines           []LineResponse         `json:"lines"`
	Payments        []PaymentResponse      `json:"payments,omitempty"`
	LedgerEntries   []LedgerEntryResponse  `json:"ledger_entries,omitempty"`
	Notifications   []NotificationResponse `json:"notifications,omitempty"`
	Version         int                    `json:"version"`
	CreatedAt       time.Time              `json:"created_at"`
}

// LineResponse represents a document line in API responses
type LineResponse struct {
	ID             uuid.UUID       `json:"id"`
	LineNo         int64           `json:"line_no"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductCode    string          `json:"product_code"`
	ProductSKU     string          `json:"product_sku,omitempty"`
	ProductName    string          `json:"product_name"`
	UnitID         uuid.UUID       `json:"unit_id"`
	LocationID     uuid.UUID       `json:"location_id"`
	EntryType      string          `json:"entry_type"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	LineAmount     decimal.Decimal `json:"line_amount"`
	LedgerEntryNo  int64           `json:"ledger_entry_no"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
}

// LedgerEntryResponse represents a stock history entry in API responses
type LedgerEntryResponse struct {
	ID             uuid.UUID       `json:"id"`
	EntryNo        int64           `json:"entry_no"`
	EntryType      string          `json:"entry_type"`
	DocumentType   string          `json:"document_type"`
	DocumentID     uuid.UUID       `json:"document_id"`
	DocumentNo     string          `json:"document_no"`
	DocumentLineNo int64           `json:"document_line_no"`
	ProductID      uuid.UUID       `json:"product_id"`
	LocationID     uuid.UUID       `json:"location_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	RemainingQty   decimal.Decimal `json:"remaining_qty"`
	CostAmount     decimal.Decimal `json:"cost_amount"`
	SalesAmount    decimal.Decimal `json:"sales_amount"`
	Open           bool            `json:"open"`
	PostingDate    time.Time       `json:"posting_date"`
}

// NotificationResponse represents a low-stock notification in API responses
type NotificationResponse struct {
	Severity   string          `json:"severity"`
	AlertType  string          `json:"alert_type"`
	Message    string          `json:"message"`
	ProductID  uuid.UUID       `json:"product_id"`
	AlertQty   decimal.Decimal `json:"alert_qty"`
	CurrentQty decimal.Decimal `json:"current_qty"`
}

// ToDocumentResponse converts a header with its lines and payments
func ToDocumentResponse(h *document.Header) DocumentResponse {
	resp := DocumentResponse{
		ID:              h.ID,
		TenantID:        h.Scope.TenantID,
		CompanyID:       h.Scope.CompanyID,
		Kind:            h.Kind.String(),
		ReferenceNo:     h.ReferenceNo,
		DocumentDate:    h.DocumentDate,
		Status:          string(h.Status),
		Description:     h.Description,
		LocationID:      h.LocationID,
		PartyID:         h.PartyID,
		DiscountPercent: h.DiscountPercent,
		TaxPercent:      h.TaxPercent,
		Amount:          h.Amount,
		Discount:        h.Discount,
		Tax:             h.Tax,
		Total:           h.Total,
		PaidAmount:      h.PaidAmount,
		DueAmount:       h.DueAmount,
		Lines:           make([]LineResponse, len(h.Lines)),
		Payments:        make([]PaymentResponse, len(h.Payments)),
		Version:         h.Version,
		CreatedAt:       h.CreatedAt,
	}
	for i, l := range h.Lines {
		resp.Lines[i] = LineResponse{
			ID:             l.ID,
			LineNo:         l.LineNo,
			ProductID:      l.Product.ProductID,
			ProductCode:    l.Product.Code,
			ProductSKU:     l.Product.SKU,
			ProductName:    l.Product.Name,
			UnitID:         l.UnitID,
			LocationID:     l.LocationID,
			EntryType:      l.EntryType.String(),
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			DiscountAmount: l.DiscountAmount,
			TaxAmount:      l.TaxAmount,
			LineAmount:     l.LineAmount,
			LedgerEntryNo:  l.LedgerEntryNo,
		}
	}
	for i, p := range h.Payments {
		resp.Payments[i] = PaymentResponse{ID: p.ID, Amount: p.Amount, Method: p.Method, Reference: p.Reference}
	}
	return resp
}

// ToPostingResponse converts a posting result, including ledger entries and notifications
func ToPostingResponse(r *PostingResult) DocumentResponse {
	resp := ToDocumentResponse(r.Header)
	resp.LedgerEntries = ToLedgerEntryResponses(r.Entries)
	resp.Notifications = make([]NotificationResponse, len(r.Notifications))
	for i, n := range r.Notifications {
		resp.Notifications[i] = NotificationResponse{
			Severity:   string(n.Severity),
			AlertType:  n.AlertType,
			Message:    n.Message,
			ProductID:  n.ProductID,
			AlertQty:   n.AlertQty,
			CurrentQty: n.CurrentQty,
		}
	}
	return resp
}

// ToLedgerEntryResponses converts stock history entries
func ToLedgerEntryResponses(entries []*inventory.StockHistoryEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = LedgerEntryResponse{
			ID:             e.ID,
			EntryNo:        e.EntryNo,
			EntryType:      e.EntryType.String(),
			DocumentType:   e.DocumentType,
			DocumentID:     e.DocumentID,
			DocumentNo:     e.DocumentNo,
			DocumentLineNo: e.DocumentLineNo,
			ProductID:      e.ProductID,
			LocationID:     e.LocationID,
			Quantity:       e.Quantity,
			RemainingQty:   e.RemainingQty,
			CostAmount:     e.CostAmount,
			SalesAmount:    e.SalesAmount,
			Open:           e.Open,
			PostingDate:    e.PostingDate,
		}
	}
	return out
}
