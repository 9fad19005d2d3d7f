package repository

import (
	"context"
	"shop-backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, productID uint) (*model.Product, error)
	// FindPurchasable returns the product only if it exists and is active.
	FindPurchasable(ctx context.Context, tx *gorm.DB, productID uint) (*model.Product, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Seed(ctx context.Context) error {
	products := []model.Product{
		{ID: 1, Name: "Classic Mug", Description: "Ceramic mug, 350ml", Price: decimal.NewFromFloat(9.90), IsActive: true},
		{ID: 2, Name: "Travel Tumbler", Description: "Insulated tumbler, 500ml", Price: decimal.NewFromFloat(24.50), IsActive: true},
		{ID: 3, Name: "Tea Sampler Box", Description: "12 assorted teas", Price: decimal.NewFromFloat(15.00), IsActive: true},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindPurchasable(ctx context.Context, tx *gorm.DB, productID uint) (*model.Product, error) {
	var product model.Product
	err := tx.WithContext(ctx).
		Where("id = ? AND is_active = ?", productID, true).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}
