package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/domain/catalog"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	seen   []string
	retErr error
}

func (h *recordingHandler) Handle(_ context.Context, ev shared.DomainEvent) error {
	h.mu.Lock()
	h.seen = append(h.seen, ev.EventType())
	h.mu.Unlock()
	return h.retErr
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.seen)
}

func lowStockEvent(t *testing.T) shared.DomainEvent {
	t.Helper()
	part, err := catalog.NewPart(uuid.New(), catalog.PartFields{
		Name:       "Brake Pad",
		CategoryID: uuid.New(),
		Price:      valueobject.NewMoneyINRFromFloat(450),
		MinStock:   5,
	})
	require.NoError(t, err)
	return catalog.NewStockBelowMinimumEvent(part)
}

func TestInMemoryEventBus(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to typed subscribers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{types: []string{catalog.EventTypeStockBelowMinimum}}
		bus.Subscribe(h)

		require.NoError(t, bus.Publish(ctx, lowStockEvent(t)))
		assert.Equal(t, 1, h.count())
	})

	t.Run("skips non-matching subscribers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{types: []string{catalog.EventTypePartCreated}}
		bus.Subscribe(h)

		require.NoError(t, bus.Publish(ctx, lowStockEvent(t)))
		assert.Equal(t, 0, h.count())
	})

	t.Run("empty type list receives everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{}
		bus.Subscribe(h)

		require.NoError(t, bus.Publish(ctx, lowStockEvent(t)))
		assert.Equal(t, 1, h.count())
	})

	t.Run("handler errors do not reach the publisher", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{retErr: errors.New("boom")}
		bus.Subscribe(h)

		assert.NoError(t, bus.Publish(ctx, lowStockEvent(t)))
	})

	t.Run("unsubscribed handlers stop receiving", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{}
		bus.Subscribe(h)
		bus.Unsubscribe(h)

		require.NoError(t, bus.Publish(ctx, lowStockEvent(t)))
		assert.Equal(t, 0, h.count())
	})

	t.Run("stop drains async deliveries", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{}
		bus.Subscribe(h)

		require.NoError(t, bus.Start(ctx))
		require.NoError(t, bus.Publish(ctx, lowStockEvent(t)))

		stopCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		require.NoError(t, bus.Stop(stopCtx))
		assert.Equal(t, 1, h.count())
	})
}
