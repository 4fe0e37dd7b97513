// Package jobcard implements the repair engagement aggregate: line items,
// mechanics, observations, the payment ledger and the open to finalized
// state machine.
package jobcard

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/garagehq/gms-backend/internal/domain/pricing"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// Mode distinguishes jobcards materialised from a booking (online) from
// walk-in ones (offline). It is always derived from BookingID, never set
// directly.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// Status is the jobcard state machine: open to finalized, no way back
type Status string

const (
	StatusOpen      Status = "open"
	StatusFinalized Status = "finalized"
)

// Mechanic assigns a staff member to a jobcard
type Mechanic struct {
	shared.BaseEntity
	JobcardID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_jobcard_mechanic,priority:1"`
	StaffID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_jobcard_mechanic,priority:2"`
}

// TableName returns the table name for GORM
func (Mechanic) TableName() string {
	return "jobcard_mechanics"
}

// Observation links a jobcard to a row of a per-garage dictionary of
// issues, damages or accessories
type Observation struct {
	shared.BaseEntity
	JobcardID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind      ObservationKind `gorm:"size:20;not null"`
	Label     string          `gorm:"size:100;not null"`
}

// ObservationKind is the dictionary an observation row belongs to
type ObservationKind string

const (
	ObservationIssue     ObservationKind = "issue"
	ObservationDamage    ObservationKind = "damage"
	ObservationAccessory ObservationKind = "accessory"
)

// TableName returns the table name for GORM
func (Observation) TableName() string {
	return "jobcard_observations"
}

// Note is a customer-voice remark captured on a jobcard
type Note struct {
	shared.BaseEntity
	JobcardID uuid.UUID `gorm:"type:uuid;not null;index"`
	Text      string    `gorm:"type:text;not null"`
	AuthorID  *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Note) TableName() string {
	return "jobcard_notes"
}

// Jobcard is the aggregate root for a repair engagement
type Jobcard struct {
	shared.GarageAggregateRoot
	JobTypeID         *uuid.UUID `gorm:"type:uuid"`
	BookingID         *uuid.UUID `gorm:"type:uuid;index"`
	CustomerID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	VehicleID         *uuid.UUID `gorm:"type:uuid;index"`
	SupervisorStaffID *uuid.UUID `gorm:"type:uuid"`
	Mode              Mode       `gorm:"size:10;not null"`
	Number            string     `gorm:"column:jobcard_number;size:20;not null"`
	JobDate           time.Time  `gorm:"not null"`
	Status            Status     `gorm:"size:15;not null;default:'open'"`
	KmReading         *int
	FuelLevel         *int
	IssueDescription     string `gorm:"type:text"`
	DamageDescription    string `gorm:"type:text"`
	AccessoryDescription string `gorm:"type:text"`
	DamagePhotoHandles   string `gorm:"type:text"` // comma-joined blob store handles
	DiagramImageHandle   string `gorm:"size:128"`
	WorkNote          string `gorm:"type:text"`
	DeliveryTimeline  *time.Time
	ReminderDuration  int       `gorm:"not null;default:0"`
	ReminderKm        int       `gorm:"not null;default:0"`
	PublicID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"` // unguessable handle for public view URLs
	FinalizedAt       *time.Time

	// Associations - loaded lazily
	Parts        []PartLine    `gorm:"foreignKey:JobcardID;references:ID"`
	Services     []ServiceLine `gorm:"foreignKey:JobcardID;references:ID"`
	Mechanics    []Mechanic    `gorm:"foreignKey:JobcardID;references:ID"`
	Observations []Observation `gorm:"foreignKey:JobcardID;references:ID"`
	Notes        []Note        `gorm:"foreignKey:JobcardID;references:ID"`
	Payments     []Payment     `gorm:"foreignKey:JobcardID;references:ID"`
}

// TableName returns the table name for GORM
func (Jobcard) TableName() string {
	return "jobcards"
}

// JobcardFields carries the intake attributes of a jobcard
type JobcardFields struct {
	JobTypeID            *uuid.UUID
	BookingID            *uuid.UUID
	CustomerID           uuid.UUID
	VehicleID            *uuid.UUID
	SupervisorStaffID    *uuid.UUID
	Number               string
	JobDate              time.Time
	KmReading            *int
	FuelLevel            *int
	IssueDescription     string
	DamageDescription    string
	AccessoryDescription string
	WorkNote             string
	DeliveryTimeline     *time.Time
	ReminderDuration     int
	ReminderKm           int
}

// NewJobcard creates a jobcard in the open state. Mode derives from the
// presence of a booking reference. The number must be pre-generated by the
// caller inside the creating transaction.
func NewJobcard(garageID uuid.UUID, fields JobcardFields) (*Jobcard, error) {
	if fields.CustomerID == uuid.Nil {
		return nil, shared.NewValidationError("customer_id", "cannot be empty")
	}
	if _, err := ParseNumber(fields.Number); err != nil {
		return nil, err
	}
	if fields.FuelLevel != nil && (*fields.FuelLevel < 0 || *fields.FuelLevel > 100) {
		return nil, shared.NewValidationError("fuel_level", "must be between 0 and 100")
	}
	if fields.JobDate.IsZero() {
		fields.JobDate = time.Now().UTC()
	}

	mode := ModeOffline
	if fields.BookingID != nil && *fields.BookingID != uuid.Nil {
		mode = ModeOnline
	}

	jc := &Jobcard{
		GarageAggregateRoot:  shared.NewGarageAggregateRoot(garageID),
		JobTypeID:            fields.JobTypeID,
		BookingID:            fields.BookingID,
		CustomerID:           fields.CustomerID,
		VehicleID:            fields.VehicleID,
		SupervisorStaffID:    fields.SupervisorStaffID,
		Mode:                 mode,
		Number:               strings.TrimSpace(fields.Number),
		JobDate:              fields.JobDate,
		Status:               StatusOpen,
		KmReading:            fields.KmReading,
		FuelLevel:            fields.FuelLevel,
		IssueDescription:     fields.IssueDescription,
		DamageDescription:    fields.DamageDescription,
		AccessoryDescription: fields.AccessoryDescription,
		WorkNote:             fields.WorkNote,
		DeliveryTimeline:     fields.DeliveryTimeline,
		ReminderDuration:     fields.ReminderDuration,
		ReminderKm:           fields.ReminderKm,
		PublicID:             uuid.New(),
	}
	jc.AddDomainEvent(NewJobcardCreatedEvent(jc))
	return jc, nil
}

// IsOpen reports whether the jobcard still accepts edits
func (j *Jobcard) IsOpen() bool {
	return j.Status == StatusOpen
}

// IsOnline reports whether the jobcard originated from a booking
func (j *Jobcard) IsOnline() bool {
	return j.Mode == ModeOnline
}

func (j *Jobcard) requireOpen() error {
	if !j.IsOpen() {
		return shared.NewIllegalTransitionError(string(j.Status), string(StatusOpen))
	}
	return nil
}

// AddPart appends a parts line; rejected once finalized
func (j *Jobcard) AddPart(fields PartLineFields) (*PartLine, error) {
	if err := j.requireOpen(); err != nil {
		return nil, err
	}
	line, err := NewPartLine(j.ID, fields)
	if err != nil {
		return nil, err
	}
	j.Parts = append(j.Parts, *line)
	j.Touch()
	j.IncrementVersion()
	return line, nil
}

// AddService appends a services line; rejected once finalized
func (j *Jobcard) AddService(fields ServiceLineFields) (*ServiceLine, error) {
	if err := j.requireOpen(); err != nil {
		return nil, err
	}
	line, err := NewServiceLine(j.ID, fields)
	if err != nil {
		return nil, err
	}
	j.Services = append(j.Services, *line)
	j.Touch()
	j.IncrementVersion()
	return line, nil
}

// RemovePart drops a parts line by id
func (j *Jobcard) RemovePart(lineID uuid.UUID) error {
	if err := j.requireOpen(); err != nil {
		return err
	}
	for i := range j.Parts {
		if j.Parts[i].ID == lineID {
			j.Parts = append(j.Parts[:i], j.Parts[i+1:]...)
			j.Touch()
			j.IncrementVersion()
			return nil
		}
	}
	return shared.NewNotFoundError("jobcard part")
}

// RemoveService drops a services line by id
func (j *Jobcard) RemoveService(lineID uuid.UUID) error {
	if err := j.requireOpen(); err != nil {
		return err
	}
	for i := range j.Services {
		if j.Services[i].ID == lineID {
			j.Services = append(j.Services[:i], j.Services[i+1:]...)
			j.Touch()
			j.IncrementVersion()
			return nil
		}
	}
	return shared.NewNotFoundError("jobcard service")
}

// AssignMechanic adds a staff member to the mechanic set; duplicates are
// ignored
func (j *Jobcard) AssignMechanic(staffID uuid.UUID) error {
	if staffID == uuid.Nil {
		return shared.NewValidationError("staff_id", "cannot be empty")
	}
	for _, m := range j.Mechanics {
		if m.StaffID == staffID {
			return nil
		}
	}
	j.Mechanics = append(j.Mechanics, Mechanic{
		BaseEntity: shared.NewBaseEntity(),
		JobcardID:  j.ID,
		StaffID:    staffID,
	})
	j.Touch()
	return nil
}

// AddObservation records an issue, damage or accessory label
func (j *Jobcard) AddObservation(kind ObservationKind, label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return shared.NewValidationError("label", "cannot be empty")
	}
	j.Observations = append(j.Observations, Observation{
		BaseEntity: shared.NewBaseEntity(),
		JobcardID:  j.ID,
		Kind:       kind,
		Label:      label,
	})
	j.Touch()
	return nil
}

// AddNote records a customer-voice note
func (j *Jobcard) AddNote(text string, authorID *uuid.UUID) error {
	if strings.TrimSpace(text) == "" {
		return shared.NewValidationError("text", "cannot be empty")
	}
	j.Notes = append(j.Notes, Note{
		BaseEntity: shared.NewBaseEntity(),
		JobcardID:  j.ID,
		Text:       text,
		AuthorID:   authorID,
	})
	j.Touch()
	return nil
}

// AddPayment appends to the payment ledger. Payments are accepted for
// finalized jobcards too; customers settle after the work is done.
func (j *Jobcard) AddPayment(fields PaymentFields) (*Payment, error) {
	payment, err := NewPayment(j.ID, fields)
	if err != nil {
		return nil, err
	}
	j.Payments = append(j.Payments, *payment)
	j.Touch()
	return payment, nil
}

// InternalParts returns the parts lines that draw from the parts master
func (j *Jobcard) InternalParts() []PartLine {
	internal := make([]PartLine, 0, len(j.Parts))
	for _, p := range j.Parts {
		if p.IsInternal() {
			internal = append(internal, p)
		}
	}
	return internal
}

// Finalize flips the jobcard to finalized. Stock issuance and booking
// timeline append are orchestrated by the application layer inside the same
// transaction; this method guards the state machine only.
func (j *Jobcard) Finalize() error {
	if j.Status == StatusFinalized {
		return shared.NewIllegalTransitionError(string(StatusFinalized), string(StatusFinalized))
	}
	now := time.Now().UTC()
	j.Status = StatusFinalized
	j.FinalizedAt = &now
	j.Touch()
	j.IncrementVersion()
	j.AddDomainEvent(NewJobcardFinalizedEvent(j))
	return nil
}

// EnsureDeletable rejects deletion of finalized jobcards
func (j *Jobcard) EnsureDeletable() error {
	if !j.IsOpen() {
		return shared.NewValidationError("status", "finalized jobcards cannot be deleted")
	}
	return nil
}

// Totals computes the financial summary over all lines and payments
type Totals struct {
	pricing.Totals
	ReceivedAmount valueobject.Money
	PendingAmount  valueobject.Money
	PaymentCount   int
}

// ComputeTotals aggregates line amounts, payments received and the derived
// pending amount. Pending may be negative when overpaid.
func (j *Jobcard) ComputeTotals() (Totals, error) {
	results := make([]pricing.LineResult, 0, len(j.Parts)+len(j.Services))
	for _, p := range j.Parts {
		r, err := pricing.ComputeLine(p.PricingInput())
		if err != nil {
			return Totals{}, err
		}
		results = append(results, r)
	}
	for _, s := range j.Services {
		r, err := pricing.ComputeLine(s.PricingInput())
		if err != nil {
			return Totals{}, err
		}
		results = append(results, r)
	}

	lineTotals := pricing.Aggregate(results)
	received := valueobject.ZeroINR()
	for _, p := range j.Payments {
		received = received.MustAdd(p.Amount)
	}

	return Totals{
		Totals:         lineTotals,
		ReceivedAmount: received,
		PendingAmount:  pricing.Pending(lineTotals.TotalAmount, received),
		PaymentCount:   len(j.Payments),
	}, nil
}

// ContentUpdate carries the editable intake fields of an open jobcard
type ContentUpdate struct {
	JobTypeID            *uuid.UUID
	SupervisorStaffID    *uuid.UUID
	KmReading            *int
	FuelLevel            *int
	IssueDescription     *string
	DamageDescription    *string
	AccessoryDescription *string
	WorkNote             *string
	DeliveryTimeline     *time.Time
	ReminderDuration     *int
	ReminderKm           *int
}

// UpdateContent applies new intake values; rejected once finalized. Nil
// members leave the current value in place.
func (j *Jobcard) UpdateContent(update ContentUpdate) error {
	if err := j.requireOpen(); err != nil {
		return err
	}
	if update.FuelLevel != nil && (*update.FuelLevel < 0 || *update.FuelLevel > 100) {
		return shared.NewValidationError("fuel_level", "must be between 0 and 100")
	}
	if update.JobTypeID != nil {
		j.JobTypeID = update.JobTypeID
	}
	if update.SupervisorStaffID != nil {
		j.SupervisorStaffID = update.SupervisorStaffID
	}
	if update.KmReading != nil {
		j.KmReading = update.KmReading
	}
	if update.FuelLevel != nil {
		j.FuelLevel = update.FuelLevel
	}
	if update.IssueDescription != nil {
		j.IssueDescription = *update.IssueDescription
	}
	if update.DamageDescription != nil {
		j.DamageDescription = *update.DamageDescription
	}
	if update.AccessoryDescription != nil {
		j.AccessoryDescription = *update.AccessoryDescription
	}
	if update.WorkNote != nil {
		j.WorkNote = *update.WorkNote
	}
	if update.DeliveryTimeline != nil {
		j.DeliveryTimeline = update.DeliveryTimeline
	}
	if update.ReminderDuration != nil {
		j.ReminderDuration = *update.ReminderDuration
	}
	if update.ReminderKm != nil {
		j.ReminderKm = *update.ReminderKm
	}
	j.Touch()
	j.IncrementVersion()
	return nil
}

// SetDiagramImageHandle records the blob store handle for the diagram image
func (j *Jobcard) SetDiagramImageHandle(handle string) {
	j.DiagramImageHandle = handle
	j.Touch()
}

// SetDamagePhotoHandles records the blob store handles for damage photos
func (j *Jobcard) SetDamagePhotoHandles(handles []string) {
	j.DamagePhotoHandles = strings.Join(handles, ",")
	j.Touch()
}

// DamagePhotos returns the stored blob handles
func (j *Jobcard) DamagePhotos() []string {
	if j.DamagePhotoHandles == "" {
		return nil
	}
	return strings.Split(j.DamagePhotoHandles, ",")
}
