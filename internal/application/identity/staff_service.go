package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/domain/identity"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// TokenPair carries the opaque tokens minted for a console session.
type TokenPair struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
}

// TokenIssuer mints session tokens for authenticated staff. Implemented by
// the infrastructure auth layer.
type TokenIssuer interface {
	IssuePair(garageID, staffID uuid.UUID, staffName, role string) (*TokenPair, error)
}

// Session is the result of a successful login
type Session struct {
	Tokens *TokenPair
	Staff  *identity.Staff
}

// StaffService handles staff accounts and console login
type StaffService struct {
	staffRepo identity.StaffRepository
	tokens    TokenIssuer
	logger    *zap.Logger
}

// NewStaffService creates a new StaffService
func NewStaffService(staffRepo identity.StaffRepository, tokens TokenIssuer, logger *zap.Logger) *StaffService {
	return &StaffService{
		staffRepo: staffRepo,
		tokens:    tokens,
		logger:    logger,
	}
}

// CreateStaff registers a staff account with the next per-garage number
func (s *StaffService) CreateStaff(ctx context.Context, garageID uuid.UUID, name string, phone valueobject.Phone, role identity.StaffRole, password string) (*identity.Staff, error) {
	if existing, err := s.staffRepo.FindByPhone(ctx, garageID, phone); err == nil && existing != nil {
		return nil, shared.NewConflictError("a staff account with this phone already exists")
	}
	maxNo, err := s.staffRepo.MaxStaffNo(ctx, garageID)
	if err != nil {
		return nil, err
	}
	staff, err := identity.NewStaff(garageID, maxNo+1, name, phone, role, password)
	if err != nil {
		return nil, err
	}
	if err := s.staffRepo.Save(ctx, staff); err != nil {
		return nil, err
	}
	s.logger.Info("staff created",
		zap.String("garage_id", garageID.String()),
		zap.String("staff_id", staff.ID.String()),
		zap.String("role", string(role)))
	return staff, nil
}

// Login verifies credentials and mints a session token
func (s *StaffService) Login(ctx context.Context, garageID uuid.UUID, phone valueobject.Phone, password string) (*Session, error) {
	staff, err := s.staffRepo.FindByPhone(ctx, garageID, phone)
	if err != nil || staff == nil {
		return nil, shared.ErrUnauthorized
	}
	if !staff.Active || !staff.VerifyPassword(password) {
		return nil, shared.ErrUnauthorized
	}

	tokens, err := s.tokens.IssuePair(garageID, staff.ID, staff.Name, string(staff.Role))
	if err != nil {
		return nil, shared.NewExternalDependencyError("token issuer", err)
	}
	staff.RecordLogin()
	if err := s.staffRepo.Save(ctx, staff); err != nil {
		return nil, err
	}
	return &Session{Tokens: tokens, Staff: staff}, nil
}

// GetStaff loads a staff account by id
func (s *StaffService) GetStaff(ctx context.Context, garageID, id uuid.UUID) (*identity.Staff, error) {
	return s.staffRepo.FindByIDForGarage(ctx, garageID, id)
}

// ListStaff returns a garage's staff accounts
func (s *StaffService) ListStaff(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]identity.Staff, error) {
	return s.staffRepo.FindAllForGarage(ctx, garageID, filter)
}

// ChangePassword sets a new password after verifying the current one
func (s *StaffService) ChangePassword(ctx context.Context, garageID, id uuid.UUID, current, next string) error {
	staff, err := s.staffRepo.FindByIDForGarage(ctx, garageID, id)
	if err != nil {
		return err
	}
	if !staff.VerifyPassword(current) {
		return shared.ErrUnauthorized
	}
	if err := staff.SetPassword(next); err != nil {
		return err
	}
	return s.staffRepo.Save(ctx, staff)
}

// DeactivateStaff disables an account without deleting its history
func (s *StaffService) DeactivateStaff(ctx context.Context, garageID, id uuid.UUID) error {
	staff, err := s.staffRepo.FindByIDForGarage(ctx, garageID, id)
	if err != nil {
		return err
	}
	staff.Deactivate()
	return s.staffRepo.Save(ctx, staff)
}
