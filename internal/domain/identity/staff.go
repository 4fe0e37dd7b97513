package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// StaffRole controls what a staff account may do on the console
type StaffRole string

const (
	RoleOwner      StaffRole = "owner"
	RoleSupervisor StaffRole = "supervisor"
	RoleMechanic   StaffRole = "mechanic"
	RoleFrontDesk  StaffRole = "front_desk"
)

// IsValid reports whether the role is known
func (r StaffRole) IsValid() bool {
	switch r {
	case RoleOwner, RoleSupervisor, RoleMechanic, RoleFrontDesk:
		return true
	}
	return false
}

// Password cost for bcrypt
const bcryptCost = 12

// Staff is a garage console account. Mechanics referenced from jobcards and
// booking timeline remarks are staff rows with the mechanic role.
type Staff struct {
	shared.GarageAggregateRoot
	// StaffNo is the short per-garage number carried in timeline remarks
	// and console URLs
	StaffNo      int               `gorm:"not null"`
	Name         string            `gorm:"size:255;not null"`
	Phone        valueobject.Phone `gorm:"size:20;not null"`
	Email        string            `gorm:"size:255"`
	Role         StaffRole         `gorm:"size:20;not null"`
	PasswordHash string            `gorm:"size:100"`
	Active       bool              `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (Staff) TableName() string {
	return "staff"
}

// NewStaff creates a staff account. The staff number must be pre-generated
// by the caller inside the creating transaction.
func NewStaff(garageID uuid.UUID, staffNo int, name string, phone valueobject.Phone, role StaffRole, password string) (*Staff, error) {
	name = strings.TrimSpace(name)
	if staffNo <= 0 {
		return nil, shared.NewValidationError("staff_no", "must be positive")
	}
	if name == "" {
		return nil, shared.NewValidationError("name", "cannot be empty")
	}
	if phone.IsZero() {
		return nil, shared.NewValidationError("phone", "cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewValidationError("role", "unknown staff role")
	}

	s := &Staff{
		GarageAggregateRoot: shared.NewGarageAggregateRoot(garageID),
		StaffNo:             staffNo,
		Name:                name,
		Phone:               phone,
		Role:                role,
		Active:              true,
	}
	if password != "" {
		if err := s.SetPassword(password); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SetPassword hashes and stores a new password
func (s *Staff) SetPassword(password string) error {
	if len(password) < 8 {
		return shared.NewValidationError("password", "must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	s.PasswordHash = string(hash)
	s.Touch()
	return nil
}

// VerifyPassword checks a candidate password against the stored hash
func (s *Staff) VerifyPassword(password string) bool {
	if s.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password)) == nil
}

// RecordLogin stamps the last successful login
func (s *Staff) RecordLogin() {
	now := time.Now().UTC()
	s.LastLoginAt = &now
	s.Touch()
}

// Deactivate disables the account
func (s *Staff) Deactivate() {
	s.Active = false
	s.Touch()
	s.IncrementVersion()
}

// IsMechanic reports whether the account can be assigned to jobcards
func (s *Staff) IsMechanic() bool {
	return s.Role == RoleMechanic || s.Role == RoleSupervisor || s.Role == RoleOwner
}
