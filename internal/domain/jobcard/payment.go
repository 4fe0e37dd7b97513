package jobcard

import (
	"time"

	"github.com/google/uuid"

	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// PaymentMode is the channel a payment arrived through
type PaymentMode string

const (
	ModeCash         PaymentMode = "cash"
	ModeCheque       PaymentMode = "cheque"
	ModeUPI          PaymentMode = "upi"
	ModeBankTransfer PaymentMode = "bank_transfer"
)

// IsValid reports whether the payment mode is known
func (m PaymentMode) IsValid() bool {
	switch m {
	case ModeCash, ModeCheque, ModeUPI, ModeBankTransfer:
		return true
	}
	return false
}

// Payment is one row of the additive payment ledger against a jobcard.
// Mode-specific carrier fields are populated only for the matching mode.
type Payment struct {
	shared.BaseEntity
	JobcardID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	PaymentDate time.Time         `gorm:"not null"`
	Amount      valueobject.Money `gorm:"type:decimal(14,2);not null"`
	Mode        PaymentMode       `gorm:"size:20;not null"`
	Notes       string            `gorm:"type:text"`

	// cheque
	ChequeNo   string     `gorm:"size:30"`
	ChequeDate *time.Time
	BankName   string `gorm:"size:100"`

	// upi
	UPIID         string `gorm:"size:100"`
	TransactionID string `gorm:"size:100"`

	// bank transfer
	AccountNo     string `gorm:"size:30"`
	IFSC          string `gorm:"size:15"`
	TransferRefNo string `gorm:"size:100"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "jobcard_payments"
}

// PaymentFields carries the attributes of a payment
type PaymentFields struct {
	PaymentDate time.Time
	Amount      valueobject.Money
	Mode        PaymentMode
	Notes       string

	ChequeNo   string
	ChequeDate *time.Time
	BankName   string

	UPIID         string
	TransactionID string

	AccountNo     string
	IFSC          string
	TransferRefNo string
}

// NewPayment creates a payment, populating only the carrier fields matching
// its mode
func NewPayment(jobcardID uuid.UUID, fields PaymentFields) (*Payment, error) {
	if !fields.Amount.IsPositive() {
		return nil, shared.NewValidationError("amount", "must be positive")
	}
	if !fields.Mode.IsValid() {
		return nil, shared.NewValidationError("payment_mode", "must be cash, cheque, upi or bank_transfer")
	}
	if fields.PaymentDate.IsZero() {
		fields.PaymentDate = time.Now().UTC()
	}

	p := &Payment{
		BaseEntity:  shared.NewBaseEntity(),
		JobcardID:   jobcardID,
		PaymentDate: fields.PaymentDate,
		Amount:      fields.Amount,
		Mode:        fields.Mode,
		Notes:       fields.Notes,
	}
	p.applyModeFields(fields)
	return p, nil
}

// Update replaces the payment. All mode-specific fields are cleared before
// the new mode's fields are written, so a mode change never leaks stale
// carrier data.
func (p *Payment) Update(fields PaymentFields) error {
	if !fields.Amount.IsPositive() {
		return shared.NewValidationError("amount", "must be positive")
	}
	if !fields.Mode.IsValid() {
		return shared.NewValidationError("payment_mode", "must be cash, cheque, upi or bank_transfer")
	}

	p.Amount = fields.Amount
	p.Mode = fields.Mode
	p.Notes = fields.Notes
	if !fields.PaymentDate.IsZero() {
		p.PaymentDate = fields.PaymentDate
	}

	p.clearModeFields()
	p.applyModeFields(fields)
	p.Touch()
	return nil
}

func (p *Payment) clearModeFields() {
	p.ChequeNo = ""
	p.ChequeDate = nil
	p.BankName = ""
	p.UPIID = ""
	p.TransactionID = ""
	p.AccountNo = ""
	p.IFSC = ""
	p.TransferRefNo = ""
}

func (p *Payment) applyModeFields(fields PaymentFields) {
	switch fields.Mode {
	case ModeCheque:
		p.ChequeNo = fields.ChequeNo
		p.ChequeDate = fields.ChequeDate
		p.BankName = fields.BankName
	case ModeUPI:
		p.UPIID = fields.UPIID
		p.TransactionID = fields.TransactionID
	case ModeBankTransfer:
		p.AccountNo = fields.AccountNo
		p.IFSC = fields.IFSC
		p.TransferRefNo = fields.TransferRefNo
	}
}
