package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/domain/catalog"
	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// LowStockAlertHandler reacts to parts dropping below their minimum stock
// threshold. It currently only logs; notification channels hang off the same
// subscription point.
type LowStockAlertHandler struct {
	logger *zap.Logger
}

// NewLowStockAlertHandler creates a new LowStockAlertHandler
func NewLowStockAlertHandler(logger *zap.Logger) *LowStockAlertHandler {
	return &LowStockAlertHandler{logger: logger}
}

// Handle processes a stock-below-minimum event
func (h *LowStockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*catalog.StockBelowMinimumEvent)
	if !ok {
		return nil
	}

	h.logger.Warn("part stock at or below minimum",
		zap.String("part_id", e.PartID),
		zap.String("part_name", e.PartName),
		zap.String("part_number", e.PartNumber),
		zap.Int("current_stock", e.CurrentStock),
		zap.Int("min_stock", e.MinStock),
		zap.String("garage_id", event.GarageID().String()),
	)
	return nil
}

// EventTypes returns the event types this handler subscribes to
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{catalog.EventTypeStockBelowMinimum}
}
