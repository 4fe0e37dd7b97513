package catalog

import (
	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePart = "Part"

// Event type constants
const (
	EventTypeStockBelowMinimum = "StockBelowMinimum"
	EventTypePartCreated       = "PartCreated"
)

// StockBelowMinimumEvent is raised when an issue drops a part's current
// stock to or below its minimum threshold
type StockBelowMinimumEvent struct {
	shared.BaseDomainEvent
	PartID       string `json:"part_id"`
	PartName     string `json:"part_name"`
	PartNumber   string `json:"part_number,omitempty"`
	CurrentStock int    `json:"current_stock"`
	MinStock     int    `json:"min_stock"`
}

// NewStockBelowMinimumEvent creates a new StockBelowMinimumEvent
func NewStockBelowMinimumEvent(part *Part) *StockBelowMinimumEvent {
	return &StockBelowMinimumEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowMinimum, AggregateTypePart, part.ID, part.GarageID),
		PartID:          part.ID.String(),
		PartName:        part.Name,
		PartNumber:      part.PartNumber,
		CurrentStock:    part.CurrentStock(),
		MinStock:        part.MinStock,
	}
}

// EventType returns the event type name
func (e *StockBelowMinimumEvent) EventType() string {
	return EventTypeStockBelowMinimum
}

// PartCreatedEvent is raised when a new part is added to the catalogue
type PartCreatedEvent struct {
	shared.BaseDomainEvent
	PartID   string `json:"part_id"`
	PartName string `json:"part_name"`
}

// NewPartCreatedEvent creates a new PartCreatedEvent
func NewPartCreatedEvent(part *Part) *PartCreatedEvent {
	return &PartCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartCreated, AggregateTypePart, part.ID, part.GarageID),
		PartID:          part.ID.String(),
		PartName:        part.Name,
	}
}

// EventType returns the event type name
func (e *PartCreatedEvent) EventType() string {
	return EventTypePartCreated
}
