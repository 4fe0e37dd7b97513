package valueobject

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a value object representing a percentage in [0, 100]
// Used for discount and GST rates
// It is immutable - all operations return new Percent instances
type Percent struct {
	value decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// NewPercent creates a new Percent, rejecting values outside [0, 100]
func NewPercent(value decimal.Decimal) (Percent, error) {
	if value.IsNegative() || value.GreaterThan(hundred) {
		return Percent{}, fmt.Errorf("percent must be between 0 and 100, got %s", value.String())
	}
	return Percent{value: value}, nil
}

// NewPercentFromFloat creates Percent from a float64 value
func NewPercentFromFloat(value float64) (Percent, error) {
	return NewPercent(decimal.NewFromFloat(value))
}

// NewPercentFromString creates Percent from a string representation
func NewPercentFromString(value string) (Percent, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Percent{}, fmt.Errorf("invalid percent string: %w", err)
	}
	return NewPercent(d)
}

// MustNewPercent creates a Percent and panics on error
func MustNewPercent(value decimal.Decimal) Percent {
	p, err := NewPercent(value)
	if err != nil {
		panic(err)
	}
	return p
}

// ZeroPercent returns a zero percentage
func ZeroPercent() Percent {
	return Percent{value: decimal.Zero}
}

// Value returns the decimal percentage value
func (p Percent) Decimal() decimal.Decimal {
	return p.value
}

// Fraction returns the percentage as a fraction (e.g. 18% -> 0.18)
func (p Percent) Fraction() decimal.Decimal {
	return p.value.Div(hundred)
}

// IsZero returns true if the percentage is zero
func (p Percent) IsZero() bool {
	return p.value.IsZero()
}

// Of returns the given amount multiplied by this percentage
func (p Percent) Of(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(p.value).Div(hundred)
}

// Equals returns true if both percentages are equal
func (p Percent) Equals(other Percent) bool {
	return p.value.Equal(other.value)
}

// String returns a string representation of the Percent
func (p Percent) String() string {
	return p.value.String() + "%"
}

// MarshalJSON implements json.Marshaler
func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.value.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Percent) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := NewPercentFromString(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value implements driver.Valuer for database storage
func (p Percent) Value() (driver.Value, error) {
	return p.value.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (p *Percent) Scan(value any) error {
	if value == nil {
		p.value = decimal.Zero
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	case float64:
		strVal = decimal.NewFromFloat(v).String()
	case int64:
		strVal = decimal.NewFromInt(v).String()
	case int:
		strVal = decimal.NewFromInt(int64(v)).String()
	default:
		return fmt.Errorf("cannot scan %T into Percent", value)
	}

	d, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	p.value = d
	return nil
}
