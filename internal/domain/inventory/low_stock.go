package inventory

import (
	"fmt"
	"time"

	"github.com/erp/posting/internal/domain/catalog"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Severity of a notification
type Severity string

const (
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Alert types carried on notifications
const (
	AlertTypeLowStock   = "low_stock"
	AlertTypeOutOfStock = "out_of_stock"
)

// NotificationRequest is a well-formed request for an external delivery component
type NotificationRequest struct {
	ID          uuid.UUID       `json:"id"`
	Scope       shared.Scope    `json:"-"`
	Severity    Severity        `json:"severity"`
	AlertType   string          `json:"alert_type"`
	Title       string          `json:"title"`
	Message     string          `json:"message"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	AlertQty    decimal.Decimal `json:"alert_qty"`
	CurrentQty  decimal.Decimal `json:"current_qty"`
	DocumentNo  string          `json:"document_no,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// LowStockNotifier inspects stock after a movement against the product's alert threshold
type LowStockNotifier struct{}

// NewLowStockNotifier creates a low-stock notifier
func NewLowStockNotifier() *LowStockNotifier {
	return &LowStockNotifier{}
}

// Evaluate returns a notification when a decrementing movement left the product below its alert level.
// It returns nil for incrementing movements and for products without an alert level.
func (n *LowStockNotifier) Evaluate(scope shared.Scope, product *catalog.Product, entryType EntryType) *NotificationRequest {
	if !entryType.IsDecrement() || product.AlertQty == nil {
		return nil
	}
	alert := *product.AlertQty
	if !product.StockQty.LessThan(alert) {
		return nil
	}

	req := &NotificationRequest{
		ID:          uuid.New(),
		Scope:       scope,
		ProductID:   product.ID,
		ProductCode: product.Code,
		ProductName: product.Name,
		AlertQty:    alert,
		CurrentQty:  product.StockQty,
		CreatedAt:   time.Now(),
	}

	if product.StockQty.IsZero() {
		req.Severity = SeverityError
		req.AlertType = AlertTypeOutOfStock
		req.Title = "Out of stock"
		req.Message = fmt.Sprintf("Product %s - %s is out of stock (alert level: %s, current: %s)",
			product.Code, product.Name, alert.String(), product.StockQty.String())
		return req
	}

	req.Severity = SeverityWarning
	req.AlertType = AlertTypeLowStock
	req.Title = "Low stock"
	req.Message = fmt.Sprintf("Product %s - %s is below alert level (alert level: %s, current: %s)",
		product.Code, product.Name, alert.String(), product.StockQty.String())
	return req
}
