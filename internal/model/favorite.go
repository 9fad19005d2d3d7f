package model

import "time"

// Favorite mirrors Cart structurally; its items carry no quantity or
// price because a favorites list is just a set of product references.
// Owner columns are unique for the same reason as Cart's.
type Favorite struct {
	ID        uint           `gorm:"primaryKey"`
	SessionID *string        `gorm:"size:36;uniqueIndex"`
	AccountID *uint          `gorm:"uniqueIndex"`
	ExpiresAt time.Time      `gorm:"index;not null"`
	Items     []FavoriteItem `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type FavoriteItem struct {
	ID         uint `gorm:"primaryKey"`
	FavoriteID uint `gorm:"uniqueIndex:uq_favorite_product;not null"`
	ProductID  uint `gorm:"uniqueIndex:uq_favorite_product;index;not null"`
	CreatedAt  time.Time
}
