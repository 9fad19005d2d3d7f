package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shop-backend/internal/model"
	"shop-backend/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MergeService folds a guest session's cart and favorites into the
// account's containers after a successful login or registration.
type MergeService interface {
	MergeOnAuth(ctx context.Context, accountID uint, sessionToken string) error
}

type mergeServiceImpl struct {
	db           *gorm.DB
	cartRepo     repository.CartRepository
	favoriteRepo repository.FavoriteRepository
	log          *zap.Logger
}

func NewMergeService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	favoriteRepo repository.FavoriteRepository,
	log *zap.Logger,
) MergeService {
	return &mergeServiceImpl{
		db:           db,
		cartRepo:     cartRepo,
		favoriteRepo: favoriteRepo,
		log:          log,
	}
}

// MergeOnAuth merges each container kind in its own transaction; a
// failed cart merge does not block the favorites merge or vice versa.
func (s *mergeServiceImpl) MergeOnAuth(ctx context.Context, accountID uint, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	cartErr := s.mergeCart(ctx, accountID, sessionToken)
	if cartErr != nil {
		s.log.Error("cart merge failed",
			zap.Uint("account_id", accountID),
			zap.Error(cartErr))
	}

	favErr := s.mergeFavorites(ctx, accountID, sessionToken)
	if favErr != nil {
		s.log.Error("favorites merge failed",
			zap.Uint("account_id", accountID),
			zap.Error(favErr))
	}

	return errors.Join(cartErr, favErr)
}

func (s *mergeServiceImpl) mergeCart(ctx context.Context, accountID uint, sessionToken string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		anon, err := s.cartRepo.FindByScope(ctx, tx, model.AnonymousScope(sessionToken))
		if err != nil {
			return fmt.Errorf("find guest cart: %w", err)
		}
		if anon == nil {
			return nil
		}
		if len(anon.Items) == 0 {
			return s.cartRepo.Delete(ctx, tx, anon.ID)
		}

		account, err := s.cartRepo.FindByScope(ctx, tx, model.AccountScope(accountID))
		if err != nil {
			return fmt.Errorf("find account cart: %w", err)
		}
		if account == nil {
			if err := s.cartRepo.DeleteExpiredForScope(ctx, tx, model.AccountScope(accountID), time.Now()); err != nil {
				return fmt.Errorf("purge expired account cart: %w", err)
			}
			account = &model.Cart{
				AccountID: &accountID,
				ExpiresAt: time.Now().Add(model.ContainerLifetime),
			}
			if err := s.cartRepo.Create(ctx, tx, account); err != nil {
				return fmt.Errorf("create account cart: %w", err)
			}
		}

		for _, item := range anon.Items {
			existing, err := s.cartRepo.FindItem(ctx, tx, account.ID, item.ProductID)
			if err != nil {
				return fmt.Errorf("find account cart item: %w", err)
			}

			if existing != nil {
				// Same product on both sides: quantities are summed and
				// the guest line dropped.
				merged := model.ClampQuantity(existing.Quantity + item.Quantity)
				if _, err := s.cartRepo.SetItemQuantity(ctx, tx, account.ID, item.ProductID, merged); err != nil {
					return fmt.Errorf("merge quantities: %w", err)
				}
				if _, err := s.cartRepo.DeleteItem(ctx, tx, anon.ID, item.ProductID); err != nil {
					return fmt.Errorf("drop guest cart line: %w", err)
				}
				continue
			}

			// Move, not copy: the line keeps its id and price snapshot.
			if err := s.cartRepo.MoveItem(ctx, tx, item.ID, account.ID); err != nil {
				return fmt.Errorf("move cart line: %w", err)
			}
		}

		return s.cartRepo.Delete(ctx, tx, anon.ID)
	})
}

func (s *mergeServiceImpl) mergeFavorites(ctx context.Context, accountID uint, sessionToken string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		anon, err := s.favoriteRepo.FindByScope(ctx, tx, model.AnonymousScope(sessionToken))
		if err != nil {
			return fmt.Errorf("find guest favorites: %w", err)
		}
		if anon == nil {
			return nil
		}
		if len(anon.Items) == 0 {
			return s.favoriteRepo.Delete(ctx, tx, anon.ID)
		}

		account, err := s.favoriteRepo.FindByScope(ctx, tx, model.AccountScope(accountID))
		if err != nil {
			return fmt.Errorf("find account favorites: %w", err)
		}
		if account == nil {
			if err := s.favoriteRepo.DeleteExpiredForScope(ctx, tx, model.AccountScope(accountID), time.Now()); err != nil {
				return fmt.Errorf("purge expired account favorites: %w", err)
			}
			account = &model.Favorite{
				AccountID: &accountID,
				ExpiresAt: time.Now().Add(model.ContainerLifetime),
			}
			if err := s.favoriteRepo.Create(ctx, tx, account); err != nil {
				return fmt.Errorf("create account favorites: %w", err)
			}
		}

		for _, item := range anon.Items {
			existing, err := s.favoriteRepo.FindItem(ctx, tx, account.ID, item.ProductID)
			if err != nil {
				return fmt.Errorf("find account favorite item: %w", err)
			}

			if existing != nil {
				if _, err := s.favoriteRepo.DeleteItem(ctx, tx, anon.ID, item.ProductID); err != nil {
					return fmt.Errorf("drop duplicate favorite: %w", err)
				}
				continue
			}

			if err := s.favoriteRepo.MoveItem(ctx, tx, item.ID, account.ID); err != nil {
				return fmt.Errorf("move favorite line: %w", err)
			}
		}

		return s.favoriteRepo.Delete(ctx, tx, anon.ID)
	})
}
