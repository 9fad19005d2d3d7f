package service

import (
	"shop-backend/internal/model"

	"go.uber.org/zap"
)

// Notifier is the outbound notification hook. Implementations are
// best-effort: they run after the order transaction has committed and
// their failures never surface to the customer.
type Notifier interface {
	OrderCreated(order *model.Order)
	OrderStatusChanged(order *model.Order, oldStatus model.OrderStatus)
}

// logNotifier stands in for the mail gateway; it records what would
// have been sent.
type logNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) OrderCreated(order *model.Order) {
	n.log.Info("order confirmation notification",
		zap.String("order_number", order.OrderNumber),
		zap.String("email", order.Email),
		zap.String("total_price", order.TotalPrice.String()))
}

func (n *logNotifier) OrderStatusChanged(order *model.Order, oldStatus model.OrderStatus) {
	n.log.Info("order status notification",
		zap.String("order_number", order.OrderNumber),
		zap.String("email", order.Email),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(order.Status)))
}
