package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"shop-backend/internal/model"
	"shop-backend/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CustomerInfo is the shipping/contact snapshot frozen into the order.
type CustomerInfo struct {
	FirstName  string
	LastName   string
	City       string
	PostalCode string
	Address    string
	Phone      string
	Email      string
	Notes      string
}

type OrderService interface {
	// Checkout converts the account's cart into an order and clears the
	// cart. Exactly one of N concurrent checkouts of the same cart wins;
	// the rest fail with ErrEmptyCart.
	Checkout(ctx context.Context, accountID uint, customer CustomerInfo) (*model.Order, error)
	// Cancel is the customer path: allowed from created, updated and
	// confirmed only.
	Cancel(ctx context.Context, accountID, orderID uint) (*model.Order, error)
	// UpdateStatus is the admin path: any status to any status, including
	// reviving a canceled order. Deliberate operator override.
	UpdateStatus(ctx context.Context, orderID uint, status model.OrderStatus) (*model.Order, error)
	GetByID(ctx context.Context, accountID, orderID uint) (*model.Order, error)
	ListByAccount(ctx context.Context, accountID uint, offset, limit int) ([]*model.Order, error)
	ListAll(ctx context.Context, status *model.OrderStatus, offset, limit int) ([]*model.Order, error)
}

type orderServiceImpl struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	notifier  Notifier
	log       *zap.Logger

	// checkoutMu serializes order creation. The order number generator
	// reads max-then-increments, so two uncommitted checkouts could
	// otherwise mint the same number; it also keeps a racing checkout
	// from reading the cart before the winner clears it.
	checkoutMu sync.Mutex
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	notifier Notifier,
	log *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		db:        db,
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		notifier:  notifier,
		log:       log,
	}
}

func (s *orderServiceImpl) Checkout(ctx context.Context, accountID uint, customer CustomerInfo) (*model.Order, error) {
	s.checkoutMu.Lock()
	defer s.checkoutMu.Unlock()

	var order *model.Order
	var cartID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.cartRepo.LockByAccount(ctx, tx, accountID)
		if err != nil {
			return fmt.Errorf("lock cart: %w", err)
		}
		if cart == nil || len(cart.Items) == 0 {
			return ErrEmptyCart
		}
		cartID = cart.ID

		number, err := s.orderRepo.NextOrderNumber(ctx, tx, time.Now())
		if err != nil {
			return fmt.Errorf("next order number: %w", err)
		}

		totalItems := 0
		totalPrice := decimal.Zero
		items := make([]model.OrderItem, len(cart.Items))
		for i, line := range cart.Items {
			totalItems += line.Quantity
			totalPrice = totalPrice.Add(line.Subtotal())

			name, err := s.productName(ctx, tx, line.ProductID)
			if err != nil {
				return err
			}
			items[i] = model.OrderItem{
				ProductID:       line.ProductID,
				Quantity:        line.Quantity,
				PriceAtPurchase: line.PriceAtAddition,
				ProductName:     name,
			}
		}

		order = &model.Order{
			OrderNumber: number,
			AccountID:   accountID,
			Status:      model.OrderStatusCreated,
			FirstName:   customer.FirstName,
			LastName:    customer.LastName,
			City:        customer.City,
			PostalCode:  customer.PostalCode,
			Address:     customer.Address,
			Phone:       customer.Phone,
			Email:       customer.Email,
			Notes:       customer.Notes,
			TotalItems:  totalItems,
			TotalPrice:  totalPrice,
			Items:       items,
		}

		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The cart is cleared outside the creation transaction: once the
	// order is committed it must survive anything that happens next.
	if _, err := s.cartRepo.ClearItems(ctx, s.db, cartID); err != nil {
		s.log.Error("clear cart after checkout failed",
			zap.Uint("cart_id", cartID),
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
	}

	s.dispatch(func() { s.notifier.OrderCreated(order) })

	return order, nil
}

func (s *orderServiceImpl) Cancel(ctx context.Context, accountID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByIDAndAccount(ctx, orderID, accountID)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if order.Status == model.OrderStatusCanceled {
		return nil, ErrAlreadyCanceled
	}
	if !order.Status.Cancellable() {
		return nil, ErrInvalidTransition
	}

	cancellable := []model.OrderStatus{
		model.OrderStatusCreated,
		model.OrderStatusUpdated,
		model.OrderStatusConfirmed,
	}
	changed, err := s.orderRepo.UpdateStatusIf(ctx, orderID, model.OrderStatusCanceled, cancellable)
	if err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	if !changed {
		// Lost a race with another transition; report from fresh state.
		current, err := s.orderRepo.FindByIDAndAccount(ctx, orderID, accountID)
		if err != nil || current == nil {
			return nil, ErrInvalidTransition
		}
		if current.Status == model.OrderStatusCanceled {
			return nil, ErrAlreadyCanceled
		}
		return nil, ErrInvalidTransition
	}

	oldStatus := order.Status
	order.Status = model.OrderStatusCanceled
	s.dispatch(func() { s.notifier.OrderStatusChanged(order, oldStatus) })

	return order, nil
}

func (s *orderServiceImpl) UpdateStatus(ctx context.Context, orderID uint, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	oldStatus := order.Status
	if oldStatus == status {
		return order, nil
	}

	if _, err := s.orderRepo.SetStatus(ctx, orderID, status); err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}

	order.Status = status
	s.dispatch(func() { s.notifier.OrderStatusChanged(order, oldStatus) })

	return order, nil
}

func (s *orderServiceImpl) GetByID(ctx context.Context, accountID, orderID uint) (*model.Order, error) {
	// Someone else's order and a nonexistent one look the same.
	order, err := s.orderRepo.FindByIDAndAccount(ctx, orderID, accountID)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	return order, nil
}

func (s *orderServiceImpl) ListByAccount(ctx context.Context, accountID uint, offset, limit int) ([]*model.Order, error) {
	return s.orderRepo.ListByAccount(ctx, accountID, offset, limit)
}

func (s *orderServiceImpl) ListAll(ctx context.Context, status *model.OrderStatus, offset, limit int) ([]*model.Order, error) {
	return s.orderRepo.ListAll(ctx, status, offset, limit)
}

func (s *orderServiceImpl) productName(ctx context.Context, tx *gorm.DB, productID uint) (string, error) {
	var name string
	result := tx.WithContext(ctx).Model(&model.Product{}).
		Select("name").
		Where("id = ?", productID).
		Scan(&name)
	if result.Error != nil {
		return "", fmt.Errorf("snapshot product name %d: %w", productID, result.Error)
	}
	// A cart line whose product vanished must fail the checkout rather
	// than snapshot an empty name.
	if result.RowsAffected == 0 {
		return "", ErrProductUnavailable
	}
	return name, nil
}

// dispatch runs a notification off the request path, swallowing panics.
func (s *orderServiceImpl) dispatch(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("notification dispatch panicked", zap.Any("panic", r))
			}
		}()
		fn()
	}()
}
