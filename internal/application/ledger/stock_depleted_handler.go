package ledger

import (
	"context"
	"fmt"

	"github.com/growops/backend/internal/domain/inventory"
	"github.com/growops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockDepletedHandler reacts to lots reaching zero quantity. Depletion
// is normal for transformed lots; for purchased supplies it usually
// means a reorder is due, so the handler raises an alert through the
// configured notifier.
type StockDepletedHandler struct {
	logger   *zap.Logger
	notifier DepletionNotifier
}

// DepletionNotifier delivers depletion alerts. Implementations can
// support different channels (in-app, email, webhook).
type DepletionNotifier interface {
	// NotifyDepleted sends a depletion alert
	NotifyDepleted(ctx context.Context, alert DepletionAlert) error
}

// DepletionAlert describes one depleted lot
type DepletionAlert struct {
	TenantID        string `json:"tenant_id"`
	InventoryItemID string `json:"inventory_item_id"`
	ProductID       string `json:"product_id"`
	BatchNumber     string `json:"batch_number"`
}

// NewStockDepletedHandler creates a new handler for stock depleted events
func NewStockDepletedHandler(logger *zap.Logger) *StockDepletedHandler {
	return &StockDepletedHandler{logger: logger}
}

// WithNotifier sets the notifier for sending alerts
func (h *StockDepletedHandler) WithNotifier(notifier DepletionNotifier) *StockDepletedHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *StockDepletedHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockDepleted}
}

// Handle processes a StockDepletedEvent
func (h *StockDepletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	depletedEvent, ok := event.(*inventory.StockDepletedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", inventory.EventTypeStockDepleted),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockDepleted, event.EventType())
	}

	h.logger.Info("lot depleted",
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("inventory_item_id", depletedEvent.InventoryItemID.String()),
		zap.String("product_id", depletedEvent.ProductID.String()),
		zap.String("batch_number", depletedEvent.BatchNumber),
	)

	if h.notifier == nil {
		return nil
	}

	alert := DepletionAlert{
		TenantID:        event.TenantID().String(),
		InventoryItemID: depletedEvent.InventoryItemID.String(),
		ProductID:       depletedEvent.ProductID.String(),
		BatchNumber:     depletedEvent.BatchNumber,
	}
	if err := h.notifier.NotifyDepleted(ctx, alert); err != nil {
		// Notification failure must not fail the event handling
		h.logger.Error("failed to send depletion alert",
			zap.String("inventory_item_id", alert.InventoryItemID),
			zap.Error(err),
		)
	}
	return nil
}

var _ shared.EventHandler = (*StockDepletedHandler)(nil)

// LoggingDepletionNotifier logs alerts instead of delivering them.
// Useful for development and testing.
type LoggingDepletionNotifier struct {
	logger *zap.Logger
}

// NewLoggingDepletionNotifier creates a new logging notifier
func NewLoggingDepletionNotifier(logger *zap.Logger) *LoggingDepletionNotifier {
	return &LoggingDepletionNotifier{logger: logger}
}

// NotifyDepleted logs the depletion alert
func (n *LoggingDepletionNotifier) NotifyDepleted(ctx context.Context, alert DepletionAlert) error {
	n.logger.Warn("LOT DEPLETED",
		zap.String("product_id", alert.ProductID),
		zap.String("batch_number", alert.BatchNumber),
		zap.String("inventory_item_id", alert.InventoryItemID),
	)
	return nil
}

var _ DepletionNotifier = (*LoggingDepletionNotifier)(nil)
