package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shop-backend/internal/model"
	"shop-backend/internal/repository"

	"gorm.io/gorm"
)

type FavoriteService interface {
	GetOrCreate(ctx context.Context, scope model.Scope) (*model.Favorite, error)
	// AddItem rejects duplicates: favorites have no quantity to bump.
	AddItem(ctx context.Context, scope model.Scope, productID uint) (*model.FavoriteItem, error)
	RemoveItem(ctx context.Context, scope model.Scope, productID uint) (bool, error)
	Clear(ctx context.Context, scope model.Scope) (int64, error)
}

type favoriteServiceImpl struct {
	db           *gorm.DB
	favoriteRepo repository.FavoriteRepository
	productRepo  repository.ProductRepository
}

func NewFavoriteService(
	db *gorm.DB,
	favoriteRepo repository.FavoriteRepository,
	productRepo repository.ProductRepository,
) FavoriteService {
	return &favoriteServiceImpl{
		db:           db,
		favoriteRepo: favoriteRepo,
		productRepo:  productRepo,
	}
}

func (s *favoriteServiceImpl) GetOrCreate(ctx context.Context, scope model.Scope) (*model.Favorite, error) {
	favorite, err := s.favoriteRepo.FindByScope(ctx, s.db, scope)
	if err != nil {
		return nil, fmt.Errorf("find favorites: %w", err)
	}
	if favorite != nil {
		return favorite, nil
	}

	// An expired list the reaper has not swept yet still holds the
	// owner's unique slot.
	if err := s.favoriteRepo.DeleteExpiredForScope(ctx, s.db, scope, time.Now()); err != nil {
		return nil, fmt.Errorf("purge expired favorites: %w", err)
	}

	favorite = newFavoriteForScope(scope)
	if err := s.favoriteRepo.Create(ctx, s.db, favorite); err != nil {
		// A concurrent first access won the insert; return its list so
		// the owner never ends up with two.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, ferr := s.favoriteRepo.FindByScope(ctx, s.db, scope)
			if ferr != nil {
				return nil, fmt.Errorf("find favorites after create race: %w", ferr)
			}
			if existing != nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("create favorites: %w", err)
	}
	favorite.Items = []model.FavoriteItem{}

	return favorite, nil
}

func (s *favoriteServiceImpl) AddItem(ctx context.Context, scope model.Scope, productID uint) (*model.FavoriteItem, error) {
	favorite, err := s.GetOrCreate(ctx, scope)
	if err != nil {
		return nil, err
	}

	var item *model.FavoriteItem
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.productRepo.FindPurchasable(ctx, tx, productID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductUnavailable
		}
		if err != nil {
			return fmt.Errorf("look up product %d: %w", productID, err)
		}

		existing, err := s.favoriteRepo.FindItem(ctx, tx, favorite.ID, productID)
		if err != nil {
			return fmt.Errorf("find favorite item: %w", err)
		}
		if existing != nil {
			return ErrAlreadyFavorited
		}

		item = &model.FavoriteItem{
			FavoriteID: favorite.ID,
			ProductID:  productID,
		}
		if err := s.favoriteRepo.CreateItem(ctx, tx, item); err != nil {
			// A concurrent add can slip past the existence check; the
			// unique index still rejects it.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyFavorited
			}
			return fmt.Errorf("create favorite item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (s *favoriteServiceImpl) RemoveItem(ctx context.Context, scope model.Scope, productID uint) (bool, error) {
	favorite, err := s.favoriteRepo.FindByScope(ctx, s.db, scope)
	if err != nil {
		return false, fmt.Errorf("find favorites: %w", err)
	}
	if favorite == nil {
		return false, nil
	}

	return s.favoriteRepo.DeleteItem(ctx, s.db, favorite.ID, productID)
}

func (s *favoriteServiceImpl) Clear(ctx context.Context, scope model.Scope) (int64, error) {
	favorite, err := s.favoriteRepo.FindByScope(ctx, s.db, scope)
	if err != nil {
		return 0, fmt.Errorf("find favorites: %w", err)
	}
	if favorite == nil {
		return 0, nil
	}

	return s.favoriteRepo.ClearItems(ctx, s.db, favorite.ID)
}

func newFavoriteForScope(scope model.Scope) *model.Favorite {
	favorite := &model.Favorite{
		ExpiresAt: time.Now().Add(model.ContainerLifetime),
	}
	if id, ok := scope.AccountID(); ok {
		favorite.AccountID = &id
	} else if token, ok := scope.Token(); ok {
		favorite.SessionID = &token
	}
	return favorite
}
