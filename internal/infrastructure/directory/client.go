// Package directory resolves subscriber profiles against the subscriber app.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appjobcard "github.com/garagehq/gms-backend/internal/application/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/registry"
	infraconfig "github.com/garagehq/gms-backend/internal/infrastructure/config"
)

var _ appjobcard.SubscriberDirectory = (*Client)(nil)

// Client fetches subscriber profiles over the directory service HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a directory client from configuration.
func NewClient(cfg *infraconfig.DirectoryConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("directory configuration is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("directory base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// profileResponse mirrors the directory service payload
type profileResponse struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`

	VehicleType  int    `json:"vehicle_type"`
	VehicleBrand string `json:"vehicle_brand"`
	VehicleModel string `json:"vehicle_model"`
	VehicleCC    string `json:"vehicle_cc"`
}

// Profile resolves the subscriber, vehicle and address snapshot for a booking.
func (c *Client) Profile(ctx context.Context, subscriberID, vehicleID, addressID uuid.UUID) (appjobcard.SubscriberProfile, error) {
	endpoint := fmt.Sprintf("%s/api/v1/subscribers/%s/profile?%s", c.baseURL, subscriberID, url.Values{
		"vehicle_id": {vehicleID.String()},
		"address_id": {addressID.String()},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return appjobcard.SubscriberProfile{}, fmt.Errorf("failed to build profile request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return appjobcard.SubscriberProfile{}, fmt.Errorf("directory service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return appjobcard.SubscriberProfile{}, fmt.Errorf("directory service returned status %d", resp.StatusCode)
	}

	var payload profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return appjobcard.SubscriberProfile{}, fmt.Errorf("failed to decode profile response: %w", err)
	}
	if payload.Name == "" || payload.Phone == "" {
		return appjobcard.SubscriberProfile{}, fmt.Errorf("directory returned incomplete profile for subscriber %s", subscriberID)
	}

	vehicleType := registry.VehicleType(payload.VehicleType)
	if !vehicleType.IsValid() {
		vehicleType = registry.TwoWheeler
	}

	return appjobcard.SubscriberProfile{
		Name:    payload.Name,
		Phone:   payload.Phone,
		Address: payload.Address,
		City:    payload.City,
		Pincode: payload.Pincode,

		VehicleType:  vehicleType,
		VehicleBrand: payload.VehicleBrand,
		VehicleModel: payload.VehicleModel,
		VehicleCC:    payload.VehicleCC,
	}, nil
}
