// Package notify delivers booking status messages to subscribers through the
// messaging gateway.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	appbooking "github.com/garagehq/gms-backend/internal/application/booking"
	"github.com/garagehq/gms-backend/internal/domain/booking"
	infraconfig "github.com/garagehq/gms-backend/internal/infrastructure/config"
)

var _ appbooking.Notifier = (*GatewayNotifier)(nil)

// GatewayNotifier posts status messages to the SMS/WhatsApp gateway. Delivery
// is best effort; the caller logs and ignores failures.
type GatewayNotifier struct {
	gatewayURL string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGatewayNotifier creates a notifier from the gateway configuration.
func NewGatewayNotifier(cfg *infraconfig.NotifyConfig, logger *zap.Logger) (*GatewayNotifier, error) {
	if cfg == nil {
		return nil, fmt.Errorf("notify configuration is required")
	}
	if cfg.GatewayURL == "" {
		return nil, fmt.Errorf("notify gateway URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &GatewayNotifier{
		gatewayURL: cfg.GatewayURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

type statusMessage struct {
	BookingID    string `json:"booking_id"`
	SubscriberID string `json:"subscriber_id"`
	GarageID     string `json:"garage_id"`
	BookingDate  string `json:"booking_date"`
	BookingSlot  string `json:"booking_slot"`
	Status       string `json:"status"`
}

// NotifyBookingStatus sends one status message for the booking.
func (n *GatewayNotifier) NotifyBookingStatus(ctx context.Context, b *booking.Booking, status booking.Status) error {
	msg := statusMessage{
		BookingID:    b.ID.String(),
		SubscriberID: b.SubscriberID.String(),
		GarageID:     b.GarageID.String(),
		BookingDate:  b.BookingDate.Format("2006-01-02"),
		BookingSlot:  b.BookingSlot,
		Status:       string(status),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.apiKey != "" {
		req.Header.Set("X-API-Key", n.apiKey)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notification gateway unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification gateway returned status %d", resp.StatusCode)
	}

	n.logger.Debug("booking notification delivered",
		zap.String("booking_id", msg.BookingID),
		zap.String("status", msg.Status))
	return nil
}
