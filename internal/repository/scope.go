package repository

import (
	"shop-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// byScope narrows a container query to one owner identity.
func byScope(tx *gorm.DB, scope model.Scope) *gorm.DB {
	if id, ok := scope.AccountID(); ok {
		return tx.Where("account_id = ?", id)
	}
	token, _ := scope.Token()
	return tx.Where("session_id = ?", token)
}

// forUpdate takes a row lock where the dialect supports it. The sqlite
// test database serializes writers on its own and rejects FOR UPDATE.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	return tx
}
