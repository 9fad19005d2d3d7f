package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"shop-backend/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	// NextOrderNumber reads the greatest number for the current year and
	// increments it. The read is only safe under the checkout
	// serialization in the order service; the generator has no locking
	// of its own.
	NextOrderNumber(ctx context.Context, tx *gorm.DB, now time.Time) (string, error)
	FindByID(ctx context.Context, orderID uint) (*model.Order, error)
	FindByIDAndAccount(ctx context.Context, orderID, accountID uint) (*model.Order, error)
	ListByAccount(ctx context.Context, accountID uint, offset, limit int) ([]*model.Order, error)
	ListAll(ctx context.Context, status *model.OrderStatus, offset, limit int) ([]*model.Order, error)
	// UpdateStatusIf moves the order to newStatus only while its current
	// status is one of allowed; reports whether a row changed.
	UpdateStatusIf(ctx context.Context, orderID uint, newStatus model.OrderStatus, allowed []model.OrderStatus) (bool, error)
	// SetStatus overwrites the status unconditionally (admin path).
	SetStatus(ctx context.Context, orderID uint, newStatus model.OrderStatus) (bool, error)
}

// Year sequences are zero padded to five digits (OR2500317) and grow
// wider once a year passes 99999 orders.
const orderNumberSeqWidth = 5

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) NextOrderNumber(ctx context.Context, tx *gorm.DB, now time.Time) (string, error) {
	prefix := fmt.Sprintf("OR%02d", now.Year()%100)

	// Length before value: once a year's sequence outgrows the padded
	// width, "OR25100000" must beat "OR2599999" even though it sorts
	// lower lexicographically.
	var last string
	err := tx.WithContext(ctx).Model(&model.Order{}).
		Select("order_number").
		Where("order_number LIKE ?", prefix+"%").
		Order("LENGTH(order_number) DESC, order_number DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return "", fmt.Errorf("query last order number: %w", err)
	}

	sequence := 1
	if last != "" {
		parsed, err := strconv.Atoi(last[len(prefix):])
		if err != nil {
			return "", fmt.Errorf("parse order number %q: %w", last, err)
		}
		sequence = parsed + 1
	}

	return fmt.Sprintf("%s%0*d", prefix, orderNumberSeqWidth, sequence), nil
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, orderID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByIDAndAccount(ctx context.Context, orderID, accountID uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", orderID, accountID).
		Preload("Items").
		First(&order).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) ListByAccount(ctx context.Context, accountID uint, offset, limit int) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Preload("Items").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) ListAll(ctx context.Context, status *model.OrderStatus, offset, limit int) ([]*model.Order, error) {
	query := r.db.WithContext(ctx).Model(&model.Order{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var orders []*model.Order
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Preload("Items").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) UpdateStatusIf(ctx context.Context, orderID uint, newStatus model.OrderStatus, allowed []model.OrderStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status IN ?", orderID, allowed).
		Updates(map[string]interface{}{
			"status":     newStatus,
			"updated_at": time.Now(),
		})

	return result.RowsAffected > 0, result.Error
}

func (r *orderRepoImpl) SetStatus(ctx context.Context, orderID uint, newStatus model.OrderStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"status":     newStatus,
			"updated_at": time.Now(),
		})

	return result.RowsAffected > 0, result.Error
}
