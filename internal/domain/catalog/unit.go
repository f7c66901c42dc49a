package catalog

import (
	"strings"

	"github.com/erp/posting/internal/domain/shared"
)

// Unit is a unit of measure
type Unit struct {
	shared.BaseEntity
	Scope shared.Scope
	Code  string
	Name  string
}

// NewUnit creates a unit of measure
func NewUnit(scope shared.Scope, code, name string) (*Unit, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unit code cannot be empty")
	}
	if name == "" {
		name = code
	}
	return &Unit{
		BaseEntity: shared.NewBaseEntity(),
		Scope:      scope,
		Code:       code,
		Name:       name,
	}, nil
}
