package dto

import (
	"time"

	"github.com/google/uuid"

	appidentity "github.com/garagehq/gms-backend/internal/application/identity"
	"github.com/garagehq/gms-backend/internal/domain/identity"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// GarageResponse represents a garage tenant in API responses
type GarageResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      int       `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	Pincode   string    `json:"pincode,omitempty"`
	GSTIN     string    `json:"gstin,omitempty"`
	PAN       string    `json:"pan,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Terms     string    `json:"terms,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromGarage maps a garage to its response representation
func FromGarage(g *identity.Garage) GarageResponse {
	return GarageResponse{
		ID:        g.ID,
		Code:      g.Code,
		Name:      g.Name,
		Address:   g.Address,
		City:      g.City,
		Pincode:   g.Pincode,
		GSTIN:     g.GSTIN,
		PAN:       g.PAN,
		Latitude:  g.Latitude,
		Longitude: g.Longitude,
		Terms:     g.Terms,
		Active:    g.Active,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// FromGarages maps a slice of garages
func FromGarages(garages []identity.Garage) []GarageResponse {
	out := make([]GarageResponse, 0, len(garages))
	for i := range garages {
		out = append(out, FromGarage(&garages[i]))
	}
	return out
}

// StaffResponse represents a staff account in API responses. The password
// hash never leaves the server.
type StaffResponse struct {
	ID          uuid.UUID          `json:"id"`
	GarageID    uuid.UUID          `json:"garage_id"`
	StaffNo     int                `json:"staff_no"`
	Name        string             `json:"name"`
	Phone       valueobject.Phone  `json:"phone"`
	Email       string             `json:"email,omitempty"`
	Role        identity.StaffRole `json:"role"`
	Active      bool               `json:"active"`
	LastLoginAt *time.Time         `json:"last_login_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// FromStaff maps a staff account to its response representation
func FromStaff(s *identity.Staff) StaffResponse {
	return StaffResponse{
		ID:          s.ID,
		GarageID:    s.GarageID,
		StaffNo:     s.StaffNo,
		Name:        s.Name,
		Phone:       s.Phone,
		Email:       s.Email,
		Role:        s.Role,
		Active:      s.Active,
		LastLoginAt: s.LastLoginAt,
		CreatedAt:   s.CreatedAt,
	}
}

// FromStaffList maps a slice of staff accounts
func FromStaffList(staff []identity.Staff) []StaffResponse {
	out := make([]StaffResponse, 0, len(staff))
	for i := range staff {
		out = append(out, FromStaff(&staff[i]))
	}
	return out
}

// SessionResponse represents a successful login
type SessionResponse struct {
	AccessToken           string        `json:"access_token"`
	RefreshToken          string        `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time     `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time     `json:"refresh_token_expires_at"`
	TokenType             string        `json:"token_type"`
	Staff                 StaffResponse `json:"staff"`
}

// FromSession maps a login session to its response representation
func FromSession(s *appidentity.Session) SessionResponse {
	return SessionResponse{
		AccessToken:           s.Tokens.AccessToken,
		RefreshToken:          s.Tokens.RefreshToken,
		AccessTokenExpiresAt:  s.Tokens.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: s.Tokens.RefreshTokenExpiresAt,
		TokenType:             "Bearer",
		Staff:                 FromStaff(s.Staff),
	}
}
