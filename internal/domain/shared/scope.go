package shared

import (
	"fmt"

	"github.com/google/uuid"
)

// Scope isolates data and sequences for one organizational unit.
// Every repository and guard call takes it explicitly.
type Scope struct {
	TenantID  uuid.UUID
	CompanyID uuid.UUID
}

// NewScope creates a scope from tenant and company ids
func NewScope(tenantID, companyID uuid.UUID) Scope {
	return Scope{TenantID: tenantID, CompanyID: companyID}
}

// Validate returns an error if either id is missing
func (s Scope) Validate() error {
	if s.TenantID == uuid.Nil {
		return NewDomainError(CodeInvalidInput, "tenant id is required")
	}
	if s.CompanyID == uuid.Nil {
		return NewDomainError(CodeInvalidInput, "company id is required")
	}
	return nil
}

// String returns "tenant/company"
func (s Scope) String() string {
	return fmt.Sprintf("%s/%s", s.TenantID, s.CompanyID)
}
