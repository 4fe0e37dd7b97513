package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appjobcard "github.com/garagehq/gms-backend/internal/application/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
	"github.com/garagehq/gms-backend/internal/interfaces/http/dto"
)

// PaymentHandler handles the jobcard payment ledger endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *appjobcard.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *appjobcard.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// PaymentRequest represents a request to record or correct a payment.
// Carrier fields beyond the selected mode are ignored.
type PaymentRequest struct {
	PaymentDate   *time.Time `json:"payment_date"`
	Amount        string     `json:"amount" binding:"required,money"`
	Mode          string     `json:"mode" binding:"required,oneof=cash cheque upi bank_transfer"`
	Notes         string     `json:"notes" binding:"max=500"`
	ChequeNo      string     `json:"cheque_no" binding:"max=50"`
	ChequeDate    *time.Time `json:"cheque_date"`
	BankName      string     `json:"bank_name" binding:"max=100"`
	UPIID         string     `json:"upi_id" binding:"max=100"`
	TransactionID string     `json:"transaction_id" binding:"max=100"`
	AccountNo     string     `json:"account_no" binding:"max=50"`
	IFSC          string     `json:"ifsc" binding:"max=20"`
	TransferRefNo string     `json:"transfer_ref_no" binding:"max=100"`
}

func (r PaymentRequest) toFields() (jobcard.PaymentFields, error) {
	amount, err := valueobject.NewMoneyINRFromString(r.Amount)
	if err != nil {
		return jobcard.PaymentFields{}, err
	}
	fields := jobcard.PaymentFields{
		Amount:        amount,
		Mode:          jobcard.PaymentMode(r.Mode),
		Notes:         r.Notes,
		ChequeNo:      r.ChequeNo,
		ChequeDate:    r.ChequeDate,
		BankName:      r.BankName,
		UPIID:         r.UPIID,
		TransactionID: r.TransactionID,
		AccountNo:     r.AccountNo,
		IFSC:          r.IFSC,
		TransferRefNo: r.TransferRefNo,
	}
	if r.PaymentDate != nil {
		fields.PaymentDate = *r.PaymentDate
	}
	return fields, nil
}

// Add records a payment against a jobcard
func (h *PaymentHandler) Add(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	jobcardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid jobcard ID")
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	fields, err := req.toFields()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.paymentService.AddPayment(c.Request.Context(), garageID, jobcardID, fields)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.FromPayment(payment))
}

// Update corrects an existing payment
func (h *PaymentHandler) Update(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	paymentID, err := uuid.Parse(c.Param("paymentId"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	fields, err := req.toFields()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.paymentService.UpdatePayment(c.Request.Context(), garageID, paymentID, fields)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromPayment(payment))
}

// List returns the full payment ledger of a jobcard
func (h *PaymentHandler) List(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	jobcardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid jobcard ID")
		return
	}

	ledger, err := h.paymentService.ListPayments(c.Request.Context(), garageID, jobcardID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromLedger(ledger))
}

// RegisterRoutes registers the payment ledger routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobcards/:id/payments", h.Add)
	rg.GET("/jobcards/:id/payments", h.List)
	rg.PUT("/payments/:paymentId", h.Update)
}
