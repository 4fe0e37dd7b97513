package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

func validBookingFields() BookingFields {
	return BookingFields{
		SubscriberID:        uuid.New(),
		SubscriberVehicleID: uuid.New(),
		SubscriberAddressID: uuid.New(),
		BookingDate:         time.Now().UTC().Add(48 * time.Hour),
		BookingSlot:         "10:00-11:00",
		BookingAmount:       valueobject.NewMoneyINRFromFloat(199),
		PromoCodeAmount:     valueobject.ZeroINR(),
	}
}

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	b, err := NewBooking(uuid.New(), validBookingFields())
	require.NoError(t, err)
	return b
}

func TestNewBooking(t *testing.T) {
	t.Run("starts at booking_confirmed with one timeline row", func(t *testing.T) {
		b := newTestBooking(t)
		assert.Equal(t, StatusBookingConfirmed, b.CurrentStatus())
		assert.Len(t, b.Timeline, 1)
	})

	t.Run("rejects past booking date", func(t *testing.T) {
		fields := validBookingFields()
		fields.BookingDate = time.Now().UTC().Add(-48 * time.Hour)
		_, err := NewBooking(uuid.New(), fields)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		fields := validBookingFields()
		fields.BookingAmount = valueobject.ZeroINR()
		_, err := NewBooking(uuid.New(), fields)
		assert.Error(t, err)
	})
}

func TestStatusGraph(t *testing.T) {
	assert.True(t, StatusBookingConfirmed.CanTransitionTo(StatusPickupAssigned))
	assert.True(t, StatusBookingConfirmed.CanTransitionTo(StatusJobCardCreated))
	assert.True(t, StatusMechanicAssigned.CanTransitionTo(StatusJobCardCreated))
	assert.False(t, StatusBookingConfirmed.CanTransitionTo(StatusWorkCompleted))
	assert.False(t, StatusWorkCompleted.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusWorkCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}

func TestBookingAdvance(t *testing.T) {
	t.Run("walks the full pickup path", func(t *testing.T) {
		b := newTestBooking(t)
		staffRef := uuid.New().String()

		_, err := b.Advance(StatusPickupAssigned, staffRef)
		require.NoError(t, err)
		_, err = b.Advance(StatusBikePickedUp, "")
		require.NoError(t, err)
		_, err = b.Advance(StatusBikeReachedGarage, "")
		require.NoError(t, err)
		_, err = b.Advance(StatusMechanicAssigned, staffRef)
		require.NoError(t, err)
		_, err = b.Advance(StatusJobCardCreated, "JOB-101")
		require.NoError(t, err)
		_, err = b.Advance(StatusWorkCompleted, "JOB-101")
		require.NoError(t, err)

		assert.Equal(t, StatusWorkCompleted, b.CurrentStatus())
		assert.Len(t, b.Timeline, 7)
	})

	t.Run("rejects illegal transition with structured error", func(t *testing.T) {
		b := newTestBooking(t)
		_, err := b.Advance(StatusWorkCompleted, "")
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ILLEGAL_TRANSITION", domainErr.Code)
		assert.Equal(t, "booking_confirmed", domainErr.Details["from"])
		assert.Equal(t, "work_completed", domainErr.Details["to"])
		assert.Len(t, b.Timeline, 1) // no row appended
	})

	t.Run("re-advancing to a visited status returns the existing row", func(t *testing.T) {
		b := newTestBooking(t)
		first, err := b.Advance(StatusPickupAssigned, "42")
		require.NoError(t, err)

		second, err := b.Advance(StatusPickupAssigned, "42")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Len(t, b.Timeline, 2)
	})

	t.Run("staff statuses require a staff id remark", func(t *testing.T) {
		b := newTestBooking(t)
		_, err := b.Advance(StatusPickupAssigned, "not a staff id")
		assert.Error(t, err)

		_, err = b.Advance(StatusPickupAssigned, "42")
		assert.NoError(t, err)
	})

	t.Run("job_card_created requires the jobcard number", func(t *testing.T) {
		b := newTestBooking(t)
		_, err := b.Advance(StatusJobCardCreated, "")
		assert.Error(t, err)

		_, err = b.Advance(StatusJobCardCreated, "JOB-101")
		assert.NoError(t, err)
	})

	t.Run("timeline statuses stay unique", func(t *testing.T) {
		b := newTestBooking(t)
		_, _ = b.Advance(StatusPickupAssigned, "42")
		_, _ = b.Advance(StatusBikePickedUp, "")
		_, _ = b.Advance(StatusPickupAssigned, "42")

		seen := make(map[Status]int)
		for _, entry := range b.Timeline {
			seen[entry.Status]++
		}
		for status, count := range seen {
			assert.Equal(t, 1, count, "status %s appears more than once", status)
		}
	})
}

func TestBookingCancel(t *testing.T) {
	b := newTestBooking(t)
	entry, err := b.Cancel("customer unavailable")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, entry.Status)
	assert.Equal(t, "customer unavailable", entry.Remark)
	assert.Equal(t, "customer unavailable", b.CancelReason)

	// terminal: nothing advances past cancelled
	_, err = b.Advance(StatusPickupAssigned, "42")
	assert.Error(t, err)
}

func TestBookingMechanicStaffRef(t *testing.T) {
	b := newTestBooking(t)
	_, ok := b.MechanicStaffRef()
	assert.False(t, ok)

	staffRef := uuid.New().String()
	_, _ = b.Advance(StatusPickupAssigned, "42")
	_, _ = b.Advance(StatusBikePickedUp, "")
	_, _ = b.Advance(StatusBikeReachedGarage, "")
	_, err := b.Advance(StatusMechanicAssigned, staffRef)
	require.NoError(t, err)

	ref, ok := b.MechanicStaffRef()
	assert.True(t, ok)
	assert.Equal(t, staffRef, ref)
}

func TestBookingLinkJobcard(t *testing.T) {
	b := newTestBooking(t)
	assert.False(t, b.IsPromoted())

	jobcardID, customerID, vehicleID := uuid.New(), uuid.New(), uuid.New()
	b.LinkJobcard(jobcardID, customerID, vehicleID)

	assert.True(t, b.IsPromoted())
	assert.Equal(t, jobcardID, *b.JobcardID)
	assert.Equal(t, customerID, *b.CustomerID)
	assert.Equal(t, vehicleID, *b.VehicleID)
}

func TestNewBookingPromoTotals(t *testing.T) {
	t.Run("promo amount reduces the total", func(t *testing.T) {
		fields := validBookingFields()
		fields.PromoCodeAmount = valueobject.NewMoneyINRFromFloat(50)
		b, err := NewBooking(uuid.New(), fields)
		require.NoError(t, err)
		assert.True(t, b.TotalAmount.Equals(valueobject.NewMoneyINRFromFloat(149)))
	})

	t.Run("zero-value promo amount leaves the booking amount untouched", func(t *testing.T) {
		fields := validBookingFields()
		fields.PromoCodeAmount = valueobject.Money{}
		b, err := NewBooking(uuid.New(), fields)
		require.NoError(t, err)
		assert.True(t, b.TotalAmount.Equals(fields.BookingAmount))
	})
}

func TestBookingRecordWorkCompleted(t *testing.T) {
	t.Run("appends even after cancellation", func(t *testing.T) {
		b := newTestBooking(t)
		_, err := b.Advance(StatusJobCardCreated, "JOB-101")
		require.NoError(t, err)
		_, err = b.Cancel("customer unavailable")
		require.NoError(t, err)

		entry, err := b.RecordWorkCompleted("JOB-101")
		require.NoError(t, err)
		assert.Equal(t, StatusWorkCompleted, entry.Status)
		assert.Equal(t, "JOB-101", entry.Remark)
		assert.Equal(t, StatusWorkCompleted, b.CurrentStatus())
	})

	t.Run("recording twice returns the existing entry", func(t *testing.T) {
		b := newTestBooking(t)
		_, err := b.Advance(StatusJobCardCreated, "JOB-101")
		require.NoError(t, err)

		first, err := b.RecordWorkCompleted("JOB-101")
		require.NoError(t, err)
		again, err := b.RecordWorkCompleted("JOB-101")
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)
		assert.Len(t, b.Timeline, 3)
	})

	t.Run("requires the jobcard number", func(t *testing.T) {
		b := newTestBooking(t)
		_, err := b.RecordWorkCompleted("  ")
		assert.Error(t, err)
	})
}
