package service

import (
	"fmt"
	"testing"

	"shop-backend/internal/client"
	"shop-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps concurrent test transactions from tripping
	// over sqlite's single-writer model.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, client.Migrate(db))
	return db
}

func seedProducts(t *testing.T, db *gorm.DB) {
	t.Helper()

	products := []model.Product{
		{ID: 1, Name: "Classic Mug", Price: decimal.NewFromFloat(10.00), IsActive: true},
		{ID: 2, Name: "Travel Tumbler", Price: decimal.NewFromFloat(5.00), IsActive: true},
		{ID: 3, Name: "Tea Sampler Box", Price: decimal.NewFromFloat(15.00), IsActive: true},
		{ID: 4, Name: "Retired Teapot", Price: decimal.NewFromFloat(30.00), IsActive: false},
	}
	require.NoError(t, db.Create(&products).Error)
}

func accountScope(id uint) model.Scope {
	return model.AccountScope(id)
}

func guestScope() model.Scope {
	return model.AnonymousScope(uuid.NewString())
}
