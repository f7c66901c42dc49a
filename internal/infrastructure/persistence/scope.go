package persistence

import (
	"errors"

	"github.com/erp/posting/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate is the row lock taken on rows a posting will modify.
// SQLite has no row locks and its dialect drops the clause.
var forUpdate = clause.Locking{Strength: "UPDATE"}

// scoped restricts a query to one tenant and company
func scoped(db *gorm.DB, scope shared.Scope) *gorm.DB {
	return db.Where("tenant_id = ? AND company_id = ?", scope.TenantID, scope.CompanyID)
}

// notFound maps gorm.ErrRecordNotFound to a NOT_FOUND domain error naming the entity
func notFound(err error, entity string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(entity, id)
	}
	return err
}
