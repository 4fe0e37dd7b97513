package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appbilling "github.com/garagehq/gms-backend/internal/application/billing"
	"github.com/garagehq/gms-backend/internal/domain/billing"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
	"github.com/garagehq/gms-backend/internal/interfaces/http/dto"
)

// DocumentHandler handles invoice and estimate endpoints
type DocumentHandler struct {
	BaseHandler
	documentService *appbilling.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *appbilling.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// DocumentLineRequest represents one line of a document request
type DocumentLineRequest struct {
	Kind     string  `json:"kind" binding:"required,oneof=part service"`
	Source   string  `json:"source" binding:"required,oneof=internal external"`
	RefID    *string `json:"ref_id" binding:"omitempty,uuid"`
	Name     string  `json:"name" binding:"required,min=1,max=255"`
	Code     string  `json:"code" binding:"max=50"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
	Value    string  `json:"value" binding:"required,money"`
	Tax      string  `json:"tax" binding:"omitempty,percent"`
	Discount string  `json:"discount" binding:"omitempty,percent"`
}

func (r DocumentLineRequest) toFields() (billing.DocumentLineFields, error) {
	fields := billing.DocumentLineFields{
		Kind:     billing.LineKind(r.Kind),
		Source:   r.Source,
		Name:     r.Name,
		Code:     r.Code,
		Quantity: r.Quantity,
	}

	refID, err := parseOptionalUUID(r.RefID)
	if err != nil {
		return fields, err
	}
	fields.RefID = refID

	if fields.Value, err = valueobject.NewMoneyINRFromString(r.Value); err != nil {
		return fields, err
	}
	fields.Tax = valueobject.ZeroPercent()
	if r.Tax != "" {
		if fields.Tax, err = valueobject.NewPercentFromString(r.Tax); err != nil {
			return fields, err
		}
	}
	fields.Discount = valueobject.ZeroPercent()
	if r.Discount != "" {
		if fields.Discount, err = valueobject.NewPercentFromString(r.Discount); err != nil {
			return fields, err
		}
	}
	return fields, nil
}

// DocumentRequest represents a request to create a document. Number is
// optional; when absent the next sequence number for the kind is assigned.
type DocumentRequest struct {
	Number     string                `json:"number" binding:"omitempty"`
	Date       *time.Time            `json:"date"`
	PONo       string                `json:"po_no" binding:"max=100"`
	PODate     *time.Time            `json:"po_date"`
	CustomerID string                `json:"customer_id" binding:"required,uuid"`
	Name       string                `json:"name" binding:"max=255"`
	VehicleID  *string               `json:"vehicle_id" binding:"omitempty,uuid"`
	Comments   string                `json:"comments" binding:"max=1000"`
	Lines      []DocumentLineRequest `json:"lines" binding:"omitempty,dive"`
}

func (r DocumentRequest) toFields() (billing.DocumentFields, []billing.DocumentLineFields, error) {
	fields := billing.DocumentFields{
		Number:   r.Number,
		PONo:     r.PONo,
		PODate:   r.PODate,
		Name:     r.Name,
		Comments: r.Comments,
	}
	if r.Date != nil {
		fields.Date = *r.Date
	}

	customerID, err := uuid.Parse(r.CustomerID)
	if err != nil {
		return fields, nil, err
	}
	fields.CustomerID = customerID
	if fields.VehicleID, err = parseOptionalUUID(r.VehicleID); err != nil {
		return fields, nil, err
	}

	lines := make([]billing.DocumentLineFields, 0, len(r.Lines))
	for _, lr := range r.Lines {
		line, err := lr.toFields()
		if err != nil {
			return fields, nil, err
		}
		lines = append(lines, line)
	}
	return fields, lines, nil
}

// CreateInvoice creates a standalone invoice
func (h *DocumentHandler) CreateInvoice(c *gin.Context) {
	h.create(c, billing.KindInvoice)
}

// CreateEstimate creates a standalone estimate
func (h *DocumentHandler) CreateEstimate(c *gin.Context) {
	h.create(c, billing.KindEstimate)
}

func (h *DocumentHandler) create(c *gin.Context, kind billing.DocumentKind) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}

	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	fields, lines, err := req.toFields()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var doc *billing.Document
	if kind == billing.KindInvoice {
		doc, err = h.documentService.CreateInvoice(c.Request.Context(), garageID, fields, lines)
	} else {
		doc, err = h.documentService.CreateEstimate(c.Request.Context(), garageID, fields, lines)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.FromDocument(doc))
}

// FromJobcardRequest represents a request to project a jobcard into a document
type FromJobcardRequest struct {
	Number   string     `json:"number" binding:"omitempty"`
	Date     *time.Time `json:"date"`
	PONo     string     `json:"po_no" binding:"max=100"`
	PODate   *time.Time `json:"po_date"`
	Comments string     `json:"comments" binding:"max=1000"`
}

func (r FromJobcardRequest) toFields() billing.DocumentFields {
	fields := billing.DocumentFields{
		Number:   r.Number,
		PONo:     r.PONo,
		PODate:   r.PODate,
		Comments: r.Comments,
	}
	if r.Date != nil {
		fields.Date = *r.Date
	}
	return fields
}

// CreateInvoiceFromJobcard projects a jobcard's lines into a new invoice
func (h *DocumentHandler) CreateInvoiceFromJobcard(c *gin.Context) {
	h.createFromJobcard(c, billing.KindInvoice)
}

// CreateEstimateFromJobcard projects a jobcard's lines into a new estimate
func (h *DocumentHandler) CreateEstimateFromJobcard(c *gin.Context) {
	h.createFromJobcard(c, billing.KindEstimate)
}

func (h *DocumentHandler) createFromJobcard(c *gin.Context, kind billing.DocumentKind) {
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

	var req FromJobcardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var doc *billing.Document
	if kind == billing.KindInvoice {
		doc, err = h.documentService.CreateInvoiceFromJobcard(c.Request.Context(), garageID, jobcardID, req.toFields())
	} else {
		doc, err = h.documentService.CreateEstimateFromJobcard(c.Request.Context(), garageID, jobcardID, req.toFields())
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.FromDocument(doc))
}

// Dispatch marks a document as sent and issues any pending stock
func (h *DocumentHandler) Dispatch(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	doc, err := h.documentService.Dispatch(c.Request.Context(), garageID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromDocument(doc))
}

// Get returns one document with its lines
func (h *DocumentHandler) Get(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	doc, err := h.documentService.GetDocument(c.Request.Context(), garageID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromDocument(doc))
}

// ListInvoices returns a page of invoices
func (h *DocumentHandler) ListInvoices(c *gin.Context) {
	h.list(c, billing.KindInvoice)
}

// ListEstimates returns a page of estimates
func (h *DocumentHandler) ListEstimates(c *gin.Context) {
	h.list(c, billing.KindEstimate)
}

func (h *DocumentHandler) list(c *gin.Context, kind billing.DocumentKind) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.documentService.ListDocuments(c.Request.Context(), garageID, kind, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, dto.FromDocumentPage(page))
}

// Delete removes an undispatched document
func (h *DocumentHandler) Delete(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	if err := h.documentService.DeleteDocument(c.Request.Context(), garageID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers the invoice and estimate routes
func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.CreateInvoice)
		invoices.GET("", h.ListInvoices)
	}

	estimates := rg.Group("/estimates")
	{
		estimates.POST("", h.CreateEstimate)
		estimates.GET("", h.ListEstimates)
	}

	documents := rg.Group("/documents")
	{
		documents.GET("/:id", h.Get)
		documents.POST("/:id/dispatch", h.Dispatch)
		documents.DELETE("/:id", h.Delete)
	}

	rg.POST("/jobcards/:id/invoice", h.CreateInvoiceFromJobcard)
	rg.POST("/jobcards/:id/estimate", h.CreateEstimateFromJobcard)
}
