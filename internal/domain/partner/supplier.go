package partner

import (
	"strings"

	"github.com/erp/posting/internal/domain/shared"
)

// Supplier is the counterparty of purchase documents
type Supplier struct {
	shared.BaseEntity
	Scope shared.Scope
	Code  string
	Name  string
}

// NewSupplier creates a supplier
func NewSupplier(scope shared.Scope, code, name string) (*Supplier, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Supplier code cannot be empty")
	}
	return &Supplier{
		BaseEntity: shared.NewBaseEntity(),
		Scope:      scope,
		Code:       strings.ToUpper(code),
		Name:       name,
	}, nil
}
