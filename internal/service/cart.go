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

type CartService interface {
	// GetOrCreate returns the scope's live cart, creating an empty one on
	// first access. It never fails for a valid scope.
	GetOrCreate(ctx context.Context, scope model.Scope) (*model.Cart, error)
	AddItem(ctx context.Context, scope model.Scope, productID uint, quantity int) (*model.CartItem, error)
	UpdateQuantity(ctx context.Context, scope model.Scope, productID uint, quantity int) (*model.CartItem, error)
	// RemoveItem is idempotent; the bool tells the caller whether a line
	// actually went away.
	RemoveItem(ctx context.Context, scope model.Scope, productID uint) (bool, error)
	Clear(ctx context.Context, scope model.Scope) (int64, error)
}

type cartServiceImpl struct {
	db          *gorm.DB
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) CartService {
	return &cartServiceImpl{
		db:          db,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartServiceImpl) GetOrCreate(ctx context.Context, scope model.Scope) (*model.Cart, error) {
	cart, err := s.cartRepo.FindByScope(ctx, s.db, scope)
	if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}
	if cart != nil {
		return cart, nil
	}

	// An expired cart the reaper has not swept yet still holds the
	// owner's unique slot.
	if err := s.cartRepo.DeleteExpiredForScope(ctx, s.db, scope, time.Now()); err != nil {
		return nil, fmt.Errorf("purge expired cart: %w", err)
	}

	cart = newCartForScope(scope)
	if err := s.cartRepo.Create(ctx, s.db, cart); err != nil {
		// A concurrent first access won the insert; return its cart so
		// the owner never ends up with two.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, ferr := s.cartRepo.FindByScope(ctx, s.db, scope)
			if ferr != nil {
				return nil, fmt.Errorf("find cart after create race: %w", ferr)
			}
			if existing != nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("create cart: %w", err)
	}
	cart.Items = []model.CartItem{}

	return cart, nil
}

func (s *cartServiceImpl) AddItem(ctx context.Context, scope model.Scope, productID uint, quantity int) (*model.CartItem, error) {
	if quantity < model.MinItemQuantity || quantity > model.MaxItemQuantity {
		return nil, ErrQuantityOutOfRange
	}

	cart, err := s.GetOrCreate(ctx, scope)
	if err != nil {
		return nil, err
	}

	var item *model.CartItem
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.FindPurchasable(ctx, tx, productID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductUnavailable
		}
		if err != nil {
			return fmt.Errorf("look up product %d: %w", productID, err)
		}

		// Single upsert so two concurrent adds for the same product both
		// land on one line instead of racing a read-then-write.
		line := &model.CartItem{
			CartID:          cart.ID,
			ProductID:       productID,
			Quantity:        quantity,
			PriceAtAddition: product.Price,
		}
		if err := s.cartRepo.UpsertItem(ctx, tx, line); err != nil {
			return fmt.Errorf("upsert cart item: %w", err)
		}

		item, err = s.cartRepo.FindItem(ctx, tx, cart.ID, productID)
		if err != nil {
			return fmt.Errorf("reload cart item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, scope model.Scope, productID uint, quantity int) (*model.CartItem, error) {
	if quantity < model.MinItemQuantity || quantity > model.MaxItemQuantity {
		return nil, ErrQuantityOutOfRange
	}

	cart, err := s.cartRepo.FindByScope(ctx, s.db, scope)
	if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}
	if cart == nil {
		return nil, ErrItemNotFound
	}

	updated, err := s.cartRepo.SetItemQuantity(ctx, s.db, cart.ID, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("set quantity: %w", err)
	}
	if !updated {
		return nil, ErrItemNotFound
	}

	item, err := s.cartRepo.FindItem(ctx, s.db, cart.ID, productID)
	if err != nil {
		return nil, fmt.Errorf("reload cart item: %w", err)
	}

	return item, nil
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, scope model.Scope, productID uint) (bool, error) {
	cart, err := s.cartRepo.FindByScope(ctx, s.db, scope)
	if err != nil {
		return false, fmt.Errorf("find cart: %w", err)
	}
	if cart == nil {
		return false, nil
	}

	return s.cartRepo.DeleteItem(ctx, s.db, cart.ID, productID)
}

func (s *cartServiceImpl) Clear(ctx context.Context, scope model.Scope) (int64, error) {
	cart, err := s.cartRepo.FindByScope(ctx, s.db, scope)
	if err != nil {
		return 0, fmt.Errorf("find cart: %w", err)
	}
	if cart == nil {
		return 0, nil
	}

	return s.cartRepo.ClearItems(ctx, s.db, cart.ID)
}

func newCartForScope(scope model.Scope) *model.Cart {
	cart := &model.Cart{
		ExpiresAt: time.Now().Add(model.ContainerLifetime),
	}
	if id, ok := scope.AccountID(); ok {
		cart.AccountID = &id
	} else if token, ok := scope.Token(); ok {
		cart.SessionID = &token
	}
	return cart
}
