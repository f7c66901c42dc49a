package partner

import (
	"fmt"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreditLimitGuard rejects sales that would push a customer beyond its credit ceiling
type CreditLimitGuard struct{}

// NewCreditLimitGuard creates a credit limit guard
func NewCreditLimitGuard() *CreditLimitGuard {
	return &CreditLimitGuard{}
}

// Check returns CREDIT_LIMIT_EXCEEDED when balance + due > limit.
// A customer without both a limit and a balance is never blocked, and neither is a
// document that adds nothing to what the customer owes.
func (g *CreditLimitGuard) Check(scope shared.Scope, customer *Customer, documentDue decimal.Decimal) error {
	if customer == nil || !customer.HasCreditLimit() || !documentDue.IsPositive() {
		return nil
	}
	if customer.Scope != scope {
		return shared.NewNotFoundError("customer", customer.ID)
	}
	exposure := customer.BalanceAmount.Add(documentDue)
	if exposure.GreaterThan(*customer.MaxCreditLimit) {
		return shared.NewDomainError(shared.CodeCreditLimitExceeded, fmt.Sprintf(
			"credit limit exceeded for customer %s: balance %s + due %s > limit %s",
			customer.Code, customer.BalanceAmount.String(), documentDue.String(), customer.MaxCreditLimit.String()))
	}
	return nil
}
