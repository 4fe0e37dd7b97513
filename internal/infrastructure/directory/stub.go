package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	appjobcard "github.com/garagehq/gms-backend/internal/application/jobcard"
)

var _ appjobcard.SubscriberDirectory = (*StubDirectory)(nil)

// StubDirectory serves profiles from an in-memory map. Used in development
// when no directory service is configured.
type StubDirectory struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]appjobcard.SubscriberProfile
}

// NewStubDirectory creates an empty StubDirectory
func NewStubDirectory() *StubDirectory {
	return &StubDirectory{
		profiles: make(map[uuid.UUID]appjobcard.SubscriberProfile),
	}
}

// Add registers a profile for a subscriber
func (d *StubDirectory) Add(subscriberID uuid.UUID, profile appjobcard.SubscriberProfile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profiles[subscriberID] = profile
}

// Profile returns the registered profile for the subscriber
func (d *StubDirectory) Profile(_ context.Context, subscriberID, _, _ uuid.UUID) (appjobcard.SubscriberProfile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	profile, ok := d.profiles[subscriberID]
	if !ok {
		return appjobcard.SubscriberProfile{}, fmt.Errorf("subscriber %s not found in directory", subscriberID)
	}
	return profile, nil
}
