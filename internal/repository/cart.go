package repository

import (
	"context"
	"errors"
	"time"

	"shop-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	// FindByScope returns the owner's live cart with items, or nil.
	FindByScope(ctx context.Context, tx *gorm.DB, scope model.Scope) (*model.Cart, error)
	Create(ctx context.Context, tx *gorm.DB, cart *model.Cart) error
	// UpsertItem inserts a line or, when (cart_id, product_id) already
	// exists, atomically adds to its quantity clamped at MaxItemQuantity.
	// The stored price snapshot is kept from the first insert.
	UpsertItem(ctx context.Context, tx *gorm.DB, item *model.CartItem) error
	FindItem(ctx context.Context, tx *gorm.DB, cartID, productID uint) (*model.CartItem, error)
	// SetItemQuantity overwrites a line's quantity in one statement and
	// reports whether the line existed.
	SetItemQuantity(ctx context.Context, tx *gorm.DB, cartID, productID uint, quantity int) (bool, error)
	MoveItem(ctx context.Context, tx *gorm.DB, itemID, destCartID uint) error
	DeleteItem(ctx context.Context, tx *gorm.DB, cartID, productID uint) (bool, error)
	ClearItems(ctx context.Context, tx *gorm.DB, cartID uint) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, cartID uint) error
	// LockByAccount locks the account's cart row for the rest of the
	// transaction and returns it with items, or nil if there is none.
	LockByAccount(ctx context.Context, tx *gorm.DB, accountID uint) (*model.Cart, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	// DeleteExpiredForScope frees the owner's unique slot when an expired
	// cart the reaper has not swept yet still holds it.
	DeleteExpiredForScope(ctx context.Context, tx *gorm.DB, scope model.Scope, now time.Time) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

func (r *cartRepoImpl) FindByScope(ctx context.Context, tx *gorm.DB, scope model.Scope) (*model.Cart, error) {
	var cart model.Cart
	err := byScope(tx.WithContext(ctx), scope).
		Where("expires_at > ?", time.Now()).
		Preload("Items").
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) Create(ctx context.Context, tx *gorm.DB, cart *model.Cart) error {
	return tx.WithContext(ctx).Create(cart).Error
}

func (r *cartRepoImpl) UpsertItem(ctx context.Context, tx *gorm.DB, item *model.CartItem) error {
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr(
				"CASE WHEN cart_items.quantity + ? > ? THEN ? ELSE cart_items.quantity + ? END",
				item.Quantity, model.MaxItemQuantity, model.MaxItemQuantity, item.Quantity,
			),
			"updated_at": time.Now(),
		}),
	}).Create(item).Error
}

func (r *cartRepoImpl) FindItem(ctx context.Context, tx *gorm.DB, cartID, productID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := tx.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *cartRepoImpl) SetItemQuantity(ctx context.Context, tx *gorm.DB, cartID, productID uint, quantity int) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		})

	return result.RowsAffected > 0, result.Error
}

func (r *cartRepoImpl) MoveItem(ctx context.Context, tx *gorm.DB, itemID, destCartID uint) error {
	return tx.WithContext(ctx).Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"cart_id":    destCartID,
			"updated_at": time.Now(),
		}).Error
}

func (r *cartRepoImpl) DeleteItem(ctx context.Context, tx *gorm.DB, cartID, productID uint) (bool, error) {
	result := tx.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&model.CartItem{})

	return result.RowsAffected > 0, result.Error
}

func (r *cartRepoImpl) ClearItems(ctx context.Context, tx *gorm.DB, cartID uint) (int64, error) {
	result := tx.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.CartItem{})

	return result.RowsAffected, result.Error
}

func (r *cartRepoImpl) Delete(ctx context.Context, tx *gorm.DB, cartID uint) error {
	if err := tx.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		return err
	}
	return tx.WithContext(ctx).Delete(&model.Cart{}, cartID).Error
}

func (r *cartRepoImpl) LockByAccount(ctx context.Context, tx *gorm.DB, accountID uint) (*model.Cart, error) {
	var cart model.Cart
	err := forUpdate(tx.WithContext(ctx)).
		Where("account_id = ? AND expires_at > ?", accountID, time.Now()).
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// Items are read after the cart row is locked so nothing can mutate
	// them mid-checkout.
	if err := tx.WithContext(ctx).Where("cart_id = ?", cart.ID).Find(&cart.Items).Error; err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) DeleteExpiredForScope(ctx context.Context, tx *gorm.DB, scope model.Scope, now time.Time) error {
	expired := byScope(tx.Model(&model.Cart{}), scope).Select("id").Where("expires_at <= ?", now)
	if err := tx.WithContext(ctx).Where("cart_id IN (?)", expired).Delete(&model.CartItem{}).Error; err != nil {
		return err
	}
	return byScope(tx.WithContext(ctx).Where("expires_at <= ?", now), scope).Delete(&model.Cart{}).Error
}

func (r *cartRepoImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expired := tx.Model(&model.Cart{}).Select("id").Where("expires_at < ?", now)
		if err := tx.Where("cart_id IN (?)", expired).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}

		result := tx.Where("expires_at < ?", now).Delete(&model.Cart{})
		deleted = result.RowsAffected
		return result.Error
	})

	return deleted, err
}
