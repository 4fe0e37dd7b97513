package valueobject

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/ttacon/libphonenumber"
)

// DefaultPhoneRegion is the region used when parsing numbers without a country code
const DefaultPhoneRegion = "IN"

// Phone is a value object representing a validated phone number
// Stored and compared in E.164 format
type Phone struct {
	e164 string
}

// NewPhone parses and validates a phone number for the default region
func NewPhone(raw string) (Phone, error) {
	return NewPhoneForRegion(raw, DefaultPhoneRegion)
}

// NewPhoneForRegion parses and validates a phone number for the given region
func NewPhoneForRegion(raw, region string) (Phone, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Phone{}, fmt.Errorf("phone number cannot be empty")
	}
	parsed, err := libphonenumber.Parse(trimmed, region)
	if err != nil {
		return Phone{}, fmt.Errorf("invalid phone number: %w", err)
	}
	if !libphonenumber.IsValidNumber(parsed) {
		return Phone{}, fmt.Errorf("phone number %q is not valid for region %s", trimmed, region)
	}
	return Phone{e164: libphonenumber.Format(parsed, libphonenumber.E164)}, nil
}

// MustNewPhone creates a Phone and panics on error
func MustNewPhone(raw string) Phone {
	p, err := NewPhone(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// E164 returns the number in E.164 format
func (p Phone) E164() string {
	return p.e164
}

// IsZero returns true if no phone number is set
func (p Phone) IsZero() bool {
	return p.e164 == ""
}

// Equals returns true if both phone numbers are equal
func (p Phone) Equals(other Phone) bool {
	return p.e164 == other.e164
}

// String returns the E.164 representation
func (p Phone) String() string {
	return p.e164
}

// MarshalJSON implements json.Marshaler
func (p Phone) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.e164 + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Phone) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		p.e164 = ""
		return nil
	}
	parsed, err := NewPhone(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value implements driver.Valuer for database storage
func (p Phone) Value() (driver.Value, error) {
	return p.e164, nil
}

// Scan implements sql.Scanner for database retrieval
func (p *Phone) Scan(value any) error {
	if value == nil {
		p.e164 = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		p.e164 = v
	case []byte:
		p.e164 = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Phone", value)
	}
	return nil
}
