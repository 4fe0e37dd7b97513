package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// GarageAggregateRoot extends BaseAggregateRoot with garage (tenant) scoping.
// Every aggregate in the system except the garage itself is scoped to one garage.
type GarageAggregateRoot struct {
	BaseAggregateRoot
	GarageID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"` // Staff user who created this record
}

// NewGarageAggregateRoot creates a new garage-scoped aggregate root
func NewGarageAggregateRoot(garageID uuid.UUID) GarageAggregateRoot {
	return GarageAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		GarageID:          garageID,
	}
}

// NewGarageAggregateRootWithCreator creates a new garage-scoped aggregate root with creator info
func NewGarageAggregateRootWithCreator(garageID, createdBy uuid.UUID) GarageAggregateRoot {
	return GarageAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		GarageID:          garageID,
		CreatedBy:         &createdBy,
	}
}

// SetCreatedBy sets the creator staff ID
func (g *GarageAggregateRoot) SetCreatedBy(staffID uuid.UUID) {
	g.CreatedBy = &staffID
}
