package partner

import (
	"strings"

	"github.com/erp/posting/internal/domain/shared"
)

// LocationKind distinguishes stock-holding places
type LocationKind string

const (
	LocationKindWarehouse LocationKind = "warehouse"
	LocationKindShop      LocationKind = "shop"
)

// Location is a warehouse or shop that documents are posted against
type Location struct {
	shared.BaseEntity
	Scope shared.Scope
	Code  string
	Name  string
	Kind  LocationKind
}

// NewLocation creates a location
func NewLocation(scope shared.Scope, code, name string, kind LocationKind) (*Location, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Location code cannot be empty")
	}
	if kind != LocationKindWarehouse && kind != LocationKindShop {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Invalid location kind")
	}
	return &Location{
		BaseEntity: shared.NewBaseEntity(),
		Scope:      scope,
		Code:       strings.ToUpper(code),
		Name:       name,
		Kind:       kind,
	}, nil
}
