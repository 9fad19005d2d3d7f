package service

import (
	"context"
	"sync"
	"testing"

	"shop-backend/internal/model"
	"shop-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFavoriteService(t *testing.T) (FavoriteService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	seedProducts(t, db)
	return NewFavoriteService(db, repository.NewFavoriteRepository(db), repository.NewProductRepository(db)), db
}

func TestFavoriteService_AddItem(t *testing.T) {
	svc, _ := newFavoriteService(t)
	ctx := context.Background()
	scope := guestScope()

	item, err := svc.AddItem(ctx, scope, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), item.ProductID)

	favorite, err := svc.GetOrCreate(ctx, scope)
	require.NoError(t, err)
	assert.Len(t, favorite.Items, 1)
}

func TestFavoriteService_GetOrCreate_ConcurrentFirstAccessSingleList(t *testing.T) {
	svc, db := newFavoriteService(t)
	ctx := context.Background()
	scope := accountScope(77)

	const attempts = 8
	var wg sync.WaitGroup
	ids := make([]uint, attempts)
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			favorite, err := svc.GetOrCreate(ctx, scope)
			if err == nil {
				ids[i] = favorite.ID
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()

	for i := 0; i < attempts; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int64
	require.NoError(t, db.Model(&model.Favorite{}).Where("account_id = ?", 77).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFavoriteService_AddItem_RejectsDuplicate(t *testing.T) {
	svc, _ := newFavoriteService(t)
	ctx := context.Background()
	scope := accountScope(7)

	_, err := svc.AddItem(ctx, scope, 1)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, scope, 1)
	assert.ErrorIs(t, err, ErrAlreadyFavorited)

	favorite, err := svc.GetOrCreate(ctx, scope)
	require.NoError(t, err)
	assert.Len(t, favorite.Items, 1)
}

func TestFavoriteService_AddItem_RejectsUnavailableProduct(t *testing.T) {
	svc, _ := newFavoriteService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, guestScope(), 999)
	assert.ErrorIs(t, err, ErrProductUnavailable)

	_, err = svc.AddItem(ctx, guestScope(), 4)
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestFavoriteService_RemoveItem_Idempotent(t *testing.T) {
	svc, _ := newFavoriteService(t)
	ctx := context.Background()
	scope := guestScope()

	_, err := svc.AddItem(ctx, scope, 2)
	require.NoError(t, err)

	removed, err := svc.RemoveItem(ctx, scope, 2)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.RemoveItem(ctx, scope, 2)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestFavoriteService_Clear(t *testing.T) {
	svc, _ := newFavoriteService(t)
	ctx := context.Background()
	scope := guestScope()

	_, err := svc.AddItem(ctx, scope, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, scope, 2)
	require.NoError(t, err)

	removed, err := svc.Clear(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
}
