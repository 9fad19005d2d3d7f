package repository

import (
	"context"
	"errors"
	"time"

	"shop-backend/internal/model"

	"gorm.io/gorm"
)

type FavoriteRepository interface {
	FindByScope(ctx context.Context, tx *gorm.DB, scope model.Scope) (*model.Favorite, error)
	Create(ctx context.Context, tx *gorm.DB, favorite *model.Favorite) error
	CreateItem(ctx context.Context, tx *gorm.DB, item *model.FavoriteItem) error
	FindItem(ctx context.Context, tx *gorm.DB, favoriteID, productID uint) (*model.FavoriteItem, error)
	MoveItem(ctx context.Context, tx *gorm.DB, itemID, destFavoriteID uint) error
	DeleteItem(ctx context.Context, tx *gorm.DB, favoriteID, productID uint) (bool, error)
	ClearItems(ctx context.Context, tx *gorm.DB, favoriteID uint) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, favoriteID uint) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	// DeleteExpiredForScope frees the owner's unique slot when an expired
	// list the reaper has not swept yet still holds it.
	DeleteExpiredForScope(ctx context.Context, tx *gorm.DB, scope model.Scope, now time.Time) error
}

type favoriteRepoImpl struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepoImpl{
		db: db,
	}
}

func (r *favoriteRepoImpl) FindByScope(ctx context.Context, tx *gorm.DB, scope model.Scope) (*model.Favorite, error) {
	var favorite model.Favorite
	err := byScope(tx.WithContext(ctx), scope).
		Where("expires_at > ?", time.Now()).
		Preload("Items").
		First(&favorite).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &favorite, nil
}

func (r *favoriteRepoImpl) Create(ctx context.Context, tx *gorm.DB, favorite *model.Favorite) error {
	return tx.WithContext(ctx).Create(favorite).Error
}

func (r *favoriteRepoImpl) CreateItem(ctx context.Context, tx *gorm.DB, item *model.FavoriteItem) error {
	return tx.WithContext(ctx).Create(item).Error
}

func (r *favoriteRepoImpl) FindItem(ctx context.Context, tx *gorm.DB, favoriteID, productID uint) (*model.FavoriteItem, error) {
	var item model.FavoriteItem
	err := tx.WithContext(ctx).
		Where("favorite_id = ? AND product_id = ?", favoriteID, productID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *favoriteRepoImpl) MoveItem(ctx context.Context, tx *gorm.DB, itemID, destFavoriteID uint) error {
	return tx.WithContext(ctx).Model(&model.FavoriteItem{}).
		Where("id = ?", itemID).
		Update("favorite_id", destFavoriteID).Error
}

func (r *favoriteRepoImpl) DeleteItem(ctx context.Context, tx *gorm.DB, favoriteID, productID uint) (bool, error) {
	result := tx.WithContext(ctx).
		Where("favorite_id = ? AND product_id = ?", favoriteID, productID).
		Delete(&model.FavoriteItem{})

	return result.RowsAffected > 0, result.Error
}

func (r *favoriteRepoImpl) ClearItems(ctx context.Context, tx *gorm.DB, favoriteID uint) (int64, error) {
	result := tx.WithContext(ctx).
		Where("favorite_id = ?", favoriteID).
		Delete(&model.FavoriteItem{})

	return result.RowsAffected, result.Error
}

func (r *favoriteRepoImpl) Delete(ctx context.Context, tx *gorm.DB, favoriteID uint) error {
	if err := tx.WithContext(ctx).Where("favorite_id = ?", favoriteID).Delete(&model.FavoriteItem{}).Error; err != nil {
		return err
	}
	return tx.WithContext(ctx).Delete(&model.Favorite{}, favoriteID).Error
}

func (r *favoriteRepoImpl) DeleteExpiredForScope(ctx context.Context, tx *gorm.DB, scope model.Scope, now time.Time) error {
	expired := byScope(tx.Model(&model.Favorite{}), scope).Select("id").Where("expires_at <= ?", now)
	if err := tx.WithContext(ctx).Where("favorite_id IN (?)", expired).Delete(&model.FavoriteItem{}).Error; err != nil {
		return err
	}
	return byScope(tx.WithContext(ctx).Where("expires_at <= ?", now), scope).Delete(&model.Favorite{}).Error
}

func (r *favoriteRepoImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expired := tx.Model(&model.Favorite{}).Select("id").Where("expires_at < ?", now)
		if err := tx.Where("favorite_id IN (?)", expired).Delete(&model.FavoriteItem{}).Error; err != nil {
			return err
		}

		result := tx.Where("expires_at < ?", now).Delete(&model.Favorite{})
		deleted = result.RowsAffected
		return result.Error
	})

	return deleted, err
}
