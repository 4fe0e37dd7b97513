package dto

import (
	"time"

	"github.com/google/uuid"

	appjobcard "github.com/garagehq/gms-backend/internal/application/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// LineResponse represents a parts or service line on a jobcard or billing
// document
type LineResponse struct {
	ID         uuid.UUID           `json:"id"`
	Source     string              `json:"source"`
	RefID      *uuid.UUID          `json:"ref_id,omitempty"`
	Name       string              `json:"name"`
	PartNumber string              `json:"part_number,omitempty"`
	Code       string              `json:"code,omitempty"`
	Quantity   int                 `json:"quantity"`
	Value      valueobject.Money   `json:"value"`
	Tax        valueobject.Percent `json:"tax"`
	Discount   valueobject.Percent `json:"discount"`
}

func FromPartLine(l *jobcard.PartLine) LineResponse {
	return LineResponse{
		ID:         l.ID,
		Source:     string(l.Source),
		RefID:      l.ProductID,
		Name:       l.Name,
		PartNumber: l.PartNumber,
		Code:       l.Code,
		Quantity:   l.Quantity,
		Value:      l.Value,
		Tax:        l.Tax,
		Discount:   l.Discount,
	}
}

func FromServiceLine(l *jobcard.ServiceLine) LineResponse {
	return LineResponse{
		ID:       l.ID,
		Source:   string(l.Source),
		RefID:    l.ServiceID,
		Name:     l.Name,
		Code:     l.Code,
		Quantity: l.Quantity,
		Value:    l.Value,
		Tax:      l.Tax,
		Discount: l.Discount,
	}
}

// ObservationResponse represents an intake observation row
type ObservationResponse struct {
	ID    uuid.UUID `json:"id"`
	Kind  string    `json:"kind"`
	Label string    `json:"label"`
}

// NoteResponse represents a customer-voice note on a jobcard
type NoteResponse struct {
	ID        uuid.UUID  `json:"id"`
	Text      string     `json:"text"`
	AuthorID  *uuid.UUID `json:"author_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// PaymentResponse represents a payment on a jobcard ledger. Only the carrier
// fields matching the mode are populated.
type PaymentResponse struct {
	ID          uuid.UUID           `json:"id"`
	JobcardID   uuid.UUID           `json:"jobcard_id"`
	PaymentDate time.Time           `json:"payment_date"`
	Amount      valueobject.Money   `json:"amount"`
	Mode        jobcard.PaymentMode `json:"mode"`
	Notes       string              `json:"notes,omitempty"`

	ChequeNo   string     `json:"cheque_no,omitempty"`
	ChequeDate *time.Time `json:"cheque_date,omitempty"`
	BankName   string     `json:"bank_name,omitempty"`

	UPIID         string `json:"upi_id,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`

	AccountNo     string `json:"account_no,omitempty"`
	IFSC          string `json:"ifsc,omitempty"`
	TransferRefNo string `json:"transfer_ref_no,omitempty"`
}

// FromPayment maps a payment to its response representation
func FromPayment(p *jobcard.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		JobcardID:     p.JobcardID,
		PaymentDate:   p.PaymentDate,
		Amount:        p.Amount,
		Mode:          p.Mode,
		Notes:         p.Notes,
		ChequeNo:      p.ChequeNo,
		ChequeDate:    p.ChequeDate,
		BankName:      p.BankName,
		UPIID:         p.UPIID,
		TransactionID: p.TransactionID,
		AccountNo:     p.AccountNo,
		IFSC:          p.IFSC,
		TransferRefNo: p.TransferRefNo,
	}
}

// LedgerResponse represents a jobcard's payment ledger
type LedgerResponse struct {
	Payments     []PaymentResponse `json:"payments"`
	TotalPaid    valueobject.Money `json:"total_paid"`
	PaymentCount int               `json:"payment_count"`
}

// FromLedger maps a payment ledger to its response representation
func FromLedger(l appjobcard.Ledger) LedgerResponse {
	payments := make([]PaymentResponse, 0, len(l.Payments))
	for i := range l.Payments {
		payments = append(payments, FromPayment(&l.Payments[i]))
	}
	return LedgerResponse{
		Payments:     payments,
		TotalPaid:    l.TotalPaid,
		PaymentCount: l.PaymentCount,
	}
}

// JobcardResponse represents a repair engagement in API responses
type JobcardResponse struct {
	ID                   uuid.UUID  `json:"id"`
	GarageID             uuid.UUID  `json:"garage_id"`
	PublicID             uuid.UUID  `json:"public_id"`
	Number               string     `json:"number"`
	Mode                 string     `json:"mode"`
	Status               string     `json:"status"`
	JobTypeID            *uuid.UUID `json:"job_type_id,omitempty"`
	BookingID            *uuid.UUID `json:"booking_id,omitempty"`
	CustomerID           uuid.UUID  `json:"customer_id"`
	VehicleID            *uuid.UUID `json:"vehicle_id,omitempty"`
	SupervisorStaffID    *uuid.UUID `json:"supervisor_staff_id,omitempty"`
	JobDate              time.Time  `json:"job_date"`
	KmReading            *int       `json:"km_reading,omitempty"`
	FuelLevel            *int       `json:"fuel_level,omitempty"`
	IssueDescription     string     `json:"issue_description,omitempty"`
	DamageDescription    string     `json:"damage_description,omitempty"`
	AccessoryDescription string     `json:"accessory_description,omitempty"`
	DamagePhotos         []string   `json:"damage_photos,omitempty"`
	DiagramImageHandle   string     `json:"diagram_image_handle,omitempty"`
	WorkNote             string     `json:"work_note,omitempty"`
	DeliveryTimeline     *time.Time `json:"delivery_timeline,omitempty"`
	ReminderDuration     int        `json:"reminder_duration"`
	ReminderKm           int        `json:"reminder_km"`
	FinalizedAt          *time.Time `json:"finalized_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	Parts        []LineResponse        `json:"parts,omitempty"`
	Services     []LineResponse        `json:"services,omitempty"`
	MechanicIDs  []uuid.UUID           `json:"mechanic_ids,omitempty"`
	Observations []ObservationResponse `json:"observations,omitempty"`
	Notes        []NoteResponse        `json:"notes,omitempty"`
	Payments     []PaymentResponse     `json:"payments,omitempty"`
}

// FromJobcard maps a jobcard with its loaded associations to the response
// representation
func FromJobcard(j *jobcard.Jobcard) JobcardResponse {
	resp := JobcardResponse{
		ID:                   j.ID,
		GarageID:             j.GarageID,
		PublicID:             j.PublicID,
		Number:               j.Number,
		Mode:                 string(j.Mode),
		Status:               string(j.Status),
		JobTypeID:            j.JobTypeID,
		BookingID:            j.BookingID,
		CustomerID:           j.CustomerID,
		VehicleID:            j.VehicleID,
		SupervisorStaffID:    j.SupervisorStaffID,
		JobDate:              j.JobDate,
		KmReading:            j.KmReading,
		FuelLevel:            j.FuelLevel,
		IssueDescription:     j.IssueDescription,
		DamageDescription:    j.DamageDescription,
		AccessoryDescription: j.AccessoryDescription,
		DamagePhotos:         j.DamagePhotos(),
		DiagramImageHandle:   j.DiagramImageHandle,
		WorkNote:             j.WorkNote,
		DeliveryTimeline:     j.DeliveryTimeline,
		ReminderDuration:     j.ReminderDuration,
		ReminderKm:           j.ReminderKm,
		FinalizedAt:          j.FinalizedAt,
		CreatedAt:            j.CreatedAt,
		UpdatedAt:            j.UpdatedAt,
	}
	for i := range j.Parts {
		resp.Parts = append(resp.Parts, FromPartLine(&j.Parts[i]))
	}
	for i := range j.Services {
		resp.Services = append(resp.Services, FromServiceLine(&j.Services[i]))
	}
	for i := range j.Mechanics {
		resp.MechanicIDs = append(resp.MechanicIDs, j.Mechanics[i].StaffID)
	}
	for i := range j.Observations {
		o := &j.Observations[i]
		resp.Observations = append(resp.Observations, ObservationResponse{ID: o.ID, Kind: string(o.Kind), Label: o.Label})
	}
	for i := range j.Notes {
		n := &j.Notes[i]
		resp.Notes = append(resp.Notes, NoteResponse{ID: n.ID, Text: n.Text, AuthorID: n.AuthorID, CreatedAt: n.CreatedAt})
	}
	for i := range j.Payments {
		resp.Payments = append(resp.Payments, FromPayment(&j.Payments[i]))
	}
	return resp
}

// FromJobcardPage maps a page of jobcards
func FromJobcardPage(page shared.Paginated[jobcard.Jobcard]) shared.Paginated[JobcardResponse] {
	items := make([]JobcardResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, FromJobcard(&page.Items[i]))
	}
	return shared.Paginated[JobcardResponse]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}

// TotalsResponse represents jobcard financial totals: the line aggregation
// plus the payment position
type TotalsResponse struct {
	Subtotal       valueobject.Money `json:"subtotal"`
	DiscountAmount valueobject.Money `json:"discount_amount"`
	TaxableAmount  valueobject.Money `json:"taxable_amount"`
	TaxAmount      valueobject.Money `json:"tax_amount"`
	TotalAmount    valueobject.Money `json:"total_amount"`
	ReceivedAmount valueobject.Money `json:"received_amount"`
	PendingAmount  valueobject.Money `json:"pending_amount"`
	PaymentCount   int               `json:"payment_count"`
}

// FromTotals maps jobcard totals to their response representation
func FromTotals(t jobcard.Totals) TotalsResponse {
	return TotalsResponse{
		Subtotal:       t.Subtotal,
		DiscountAmount: t.DiscountAmount,
		TaxableAmount:  t.TaxableAmount,
		TaxAmount:      t.TaxAmount,
		TotalAmount:    t.TotalAmount,
		ReceivedAmount: t.ReceivedAmount,
		PendingAmount:  t.PendingAmount,
		PaymentCount:   t.PaymentCount,
	}
}
