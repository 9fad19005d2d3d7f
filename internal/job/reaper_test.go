package job

import (
	"context"
	"fmt"
	"testing"
	"time"

	"shop-backend/internal/client"
	"shop-backend/internal/model"
	"shop-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
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
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, client.Migrate(db))
	return db
}

func seedCart(t *testing.T, db *gorm.DB, expiresAt time.Time, withItem bool) uint {
	t.Helper()

	token := uuid.NewString()
	cart := model.Cart{SessionID: &token, ExpiresAt: expiresAt}
	if withItem {
		cart.Items = []model.CartItem{{
			ProductID:       1,
			Quantity:        1,
			PriceAtAddition: decimal.NewFromFloat(10.00),
		}}
	}
	require.NoError(t, db.Create(&cart).Error)
	return cart.ID
}

func seedFavorite(t *testing.T, db *gorm.DB, expiresAt time.Time) uint {
	t.Helper()

	token := uuid.NewString()
	favorite := model.Favorite{
		SessionID: &token,
		ExpiresAt: expiresAt,
		Items:     []model.FavoriteItem{{ProductID: 1}},
	}
	require.NoError(t, db.Create(&favorite).Error)
	return favorite.ID
}

func TestReaper_SweepDeletesOnlyExpired(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&model.Product{
		ID: 1, Name: "Classic Mug", Price: decimal.NewFromFloat(10.00), IsActive: true,
	}).Error)

	expiredCart := seedCart(t, db, time.Now().Add(-time.Hour), true)
	liveCart := seedCart(t, db, time.Now().Add(time.Hour), true)
	seedFavorite(t, db, time.Now().Add(-time.Hour))
	liveFavorite := seedFavorite(t, db, time.Now().Add(time.Hour))

	reaper := NewReaper(
		repository.NewCartRepository(db),
		repository.NewFavoriteRepository(db),
		zap.NewNop(),
		"@daily",
	)

	carts, favorites := reaper.Sweep(context.Background())
	assert.Equal(t, int64(1), carts)
	assert.Equal(t, int64(1), favorites)

	var cartCount, favoriteCount int64
	require.NoError(t, db.Model(&model.Cart{}).Count(&cartCount).Error)
	require.NoError(t, db.Model(&model.Favorite{}).Count(&favoriteCount).Error)
	assert.Equal(t, int64(1), cartCount)
	assert.Equal(t, int64(1), favoriteCount)

	var remainingCart model.Cart
	require.NoError(t, db.First(&remainingCart).Error)
	assert.Equal(t, liveCart, remainingCart.ID)

	var remainingFavorite model.Favorite
	require.NoError(t, db.First(&remainingFavorite).Error)
	assert.Equal(t, liveFavorite, remainingFavorite.ID)

	// Orphaned lines go with their container.
	var itemCount int64
	require.NoError(t, db.Model(&model.CartItem{}).
		Where("cart_id = ?", expiredCart).Count(&itemCount).Error)
	assert.Zero(t, itemCount)

	require.NoError(t, db.Model(&model.CartItem{}).
		Where("cart_id = ?", liveCart).Count(&itemCount).Error)
	assert.Equal(t, int64(1), itemCount)
}

func TestReaper_SweepOnEmptyDatabase(t *testing.T) {
	db := newTestDB(t)

	reaper := NewReaper(
		repository.NewCartRepository(db),
		repository.NewFavoriteRepository(db),
		zap.NewNop(),
		"@hourly",
	)

	carts, favorites := reaper.Sweep(context.Background())
	assert.Zero(t, carts)
	assert.Zero(t, favorites)
}
