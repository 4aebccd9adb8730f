// Package listeners subscribes the storefront's side effects to events.
package listeners

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Register attaches every listener to d.
func Register(d *event.Dispatcher) {
	d.Listen(event.OrderPlaced, logOrderPlaced)
	d.Listen(event.ProductChanged, logProductChanged)
}

func logOrderPlaced(payload any) {
	e, ok := payload.(services.OrderPlaced)
	if !ok {
		return
	}
	logger.Info("order placed", "order_id", e.OrderID, "customer_id", e.CustomerID, "lines", e.Lines)
}

func logProductChanged(payload any) {
	e, ok := payload.(services.ProductChanged)
	if !ok {
		return
	}
	logger.Info("catalog changed", "product_id", e.ProductID, "action", e.Action)
}
