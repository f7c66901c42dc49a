package partner

import (
	"strings"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Customer is the counterparty of sales documents.
// MaxCreditLimit and BalanceAmount are optional; credit is unbounded unless both are set.
type Customer struct {
	shared.BaseEntity
	Scope          shared.Scope
	Code           string
	Name           string
	MaxCreditLimit *decimal.Decimal
	BalanceAmount  *decimal.Decimal
}

// NewCustomer creates a customer without credit settings
func NewCustomer(scope shared.Scope, code, name string) (*Customer, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Customer code cannot be empty")
	}
	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Scope:      scope,
		Code:       strings.ToUpper(code),
		Name:       name,
	}, nil
}

// SetCredit sets the credit ceiling and the outstanding balance
func (c *Customer) SetCredit(maxCreditLimit, balance *decimal.Decimal) error {
	if maxCreditLimit != nil && maxCreditLimit.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Credit limit cannot be negative")
	}
	c.MaxCreditLimit = maxCreditLimit
	c.BalanceAmount = balance
	return nil
}

// HasCreditLimit reports whether the customer's credit is bounded
func (c *Customer) HasCreditLimit() bool {
	return c.MaxCreditLimit != nil && c.BalanceAmount != nil
}
