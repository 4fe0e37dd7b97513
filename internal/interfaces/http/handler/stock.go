package handler

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appinventory "github.com/garagehq/gms-backend/internal/application/inventory"
	"github.com/garagehq/gms-backend/internal/domain/inventory"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
	"github.com/garagehq/gms-backend/internal/infrastructure/bulk"
	"github.com/garagehq/gms-backend/internal/interfaces/http/dto"
)

// StockHandler handles stock ledger endpoints: inward receipts, outward
// issues and bulk imports
type StockHandler struct {
	BaseHandler
	stockService  *appinventory.StockService
	importService *appinventory.ImportService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *appinventory.StockService, importService *appinventory.ImportService) *StockHandler {
	return &StockHandler{stockService: stockService, importService: importService}
}

// ReceiveStockRequest represents a request to record an inward stock movement
type ReceiveStockRequest struct {
	ProductID           string     `json:"product_id" binding:"required,uuid"`
	Quantity            int        `json:"quantity" binding:"required,min=1"`
	Rate                string     `json:"rate" binding:"required"`
	Discount            string     `json:"discount" binding:"omitempty,percent"`
	GST                 string     `json:"gst" binding:"omitempty,percent"`
	TotalPrice          string     `json:"total_price" binding:"omitempty"`
	PriceIncludesGST    bool       `json:"price_includes_gst"`
	SupplierID          string     `json:"supplier_id" binding:"required,uuid"`
	SupplierInvoiceNo   string     `json:"supplier_invoice_no" binding:"max=100"`
	SupplierInvoiceDate *time.Time `json:"supplier_invoice_date"`
	Location            string     `json:"location" binding:"max=100"`
	Rack                string     `json:"rack" binding:"max=50"`
	TrackExpiry         bool       `json:"track_expiry"`
	ExpiryDate          *time.Time `json:"expiry_date"`
	Warranty            string     `json:"warranty" binding:"max=100"`
	Remarks             string     `json:"remarks" binding:"max=500"`
}

func (r ReceiveStockRequest) toFields() (inventory.StockInwardFields, error) {
	fields := inventory.StockInwardFields{
		Quantity:            r.Quantity,
		PriceIncludesGST:    r.PriceIncludesGST,
		SupplierInvoiceNo:   r.SupplierInvoiceNo,
		SupplierInvoiceDate: r.SupplierInvoiceDate,
		Location:            r.Location,
		Rack:                r.Rack,
		TrackExpiry:         r.TrackExpiry,
		ExpiryDate:          r.ExpiryDate,
		Warranty:            r.Warranty,
		Remarks:             r.Remarks,
	}

	productID, err := uuid.Parse(r.ProductID)
	if err != nil {
		return fields, err
	}
	fields.ProductID = productID
	supplierID, err := uuid.Parse(r.SupplierID)
	if err != nil {
		return fields, err
	}
	fields.SupplierID = supplierID

	if fields.Rate, err = valueobject.NewMoneyINRFromString(r.Rate); err != nil {
		return fields, err
	}
	fields.Discount = valueobject.ZeroPercent()
	if r.Discount != "" {
		if fields.Discount, err = valueobject.NewPercentFromString(r.Discount); err != nil {
			return fields, err
		}
	}
	fields.GST = valueobject.ZeroPercent()
	if r.GST != "" {
		if fields.GST, err = valueobject.NewPercentFromString(r.GST); err != nil {
			return fields, err
		}
	}
	fields.TotalPrice = valueobject.NewMoneyINRFromFloat(0)
	if r.TotalPrice != "" {
		if fields.TotalPrice, err = valueobject.NewMoneyINRFromString(r.TotalPrice); err != nil {
			return fields, err
		}
	}
	return fields, nil
}

// Receive records an inward stock movement
func (h *StockHandler) Receive(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}

	var req ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	fields, err := req.toFields()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movement, err := h.stockService.ReceiveStock(c.Request.Context(), garageID, fields)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.FromStockInward(movement))
}

// IssueStockRequest represents a request to record an outward stock movement
type IssueStockRequest struct {
	ProductID         string     `json:"product_id" binding:"required,uuid"`
	Quantity          int        `json:"quantity" binding:"required,min=1"`
	Rate              string     `json:"rate" binding:"required"`
	Discount          string     `json:"discount" binding:"omitempty,percent"`
	GST               string     `json:"gst" binding:"omitempty,percent"`
	TotalPrice        string     `json:"total_price" binding:"omitempty"`
	IssuedTo          string     `json:"issued_to" binding:"max=255"`
	IssuedDate        *time.Time `json:"issued_date"`
	UsagePurpose      string     `json:"usage_purpose" binding:"required,oneof=Jobcard Invoice Manual"`
	ReferenceDocument string     `json:"reference_document" binding:"max=100"`
	Location          string     `json:"location" binding:"max=100"`
	Rack              string     `json:"rack" binding:"max=50"`
	Remarks           string     `json:"remarks" binding:"max=500"`
}

func (r IssueStockRequest) toFields() (inventory.StockOutwardFields, error) {
	fields := inventory.StockOutwardFields{
		Quantity:          r.Quantity,
		IssuedTo:          r.IssuedTo,
		IssuedDate:        r.IssuedDate,
		UsagePurpose:      inventory.UsagePurpose(r.UsagePurpose),
		ReferenceDocument: r.ReferenceDocument,
		Location:          r.Location,
		Rack:              r.Rack,
		Remarks:           r.Remarks,
	}

	productID, err := uuid.Parse(r.ProductID)
	if err != nil {
		return fields, err
	}
	fields.ProductID = productID

	if fields.Rate, err = valueobject.NewMoneyINRFromString(r.Rate); err != nil {
		return fields, err
	}
	fields.Discount = valueobject.ZeroPercent()
	if r.Discount != "" {
		if fields.Discount, err = valueobject.NewPercentFromString(r.Discount); err != nil {
			return fields, err
		}
	}
	fields.GST = valueobject.ZeroPercent()
	if r.GST != "" {
		if fields.GST, err = valueobject.NewPercentFromString(r.GST); err != nil {
			return fields, err
		}
	}
	fields.TotalPrice = valueobject.NewMoneyINRFromFloat(0)
	if r.TotalPrice != "" {
		if fields.TotalPrice, err = valueobject.NewMoneyINRFromString(r.TotalPrice); err != nil {
			return fields, err
		}
	}
	return fields, nil
}

// Issue records an outward stock movement
func (h *StockHandler) Issue(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}

	var req IssueStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	fields, err := req.toFields()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movement, err := h.stockService.IssueStock(c.Request.Context(), garageID, fields)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.FromStockOutward(movement))
}

// UpdateInwardQuantityRequest carries the corrected quantity of a receipt
type UpdateInwardQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// UpdateInwardQuantity corrects the quantity of an inward movement
func (h *StockHandler) UpdateInwardQuantity(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	movementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid movement ID")
		return
	}

	var req UpdateInwardQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movement, err := h.stockService.UpdateInwardQuantity(c.Request.Context(), garageID, movementID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromStockInward(movement))
}

// DeleteInward removes an inward movement if the resulting stock stays non-negative
func (h *StockHandler) DeleteInward(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	movementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid movement ID")
		return
	}

	if err := h.stockService.DeleteInward(c.Request.Context(), garageID, movementID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ReverseIssue removes an outward movement, returning its quantity to stock
func (h *StockHandler) ReverseIssue(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	movementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid movement ID")
		return
	}

	if err := h.stockService.ReverseIssue(c.Request.Context(), garageID, movementID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func productIDFilter(c *gin.Context) (*uuid.UUID, error) {
	raw := c.Query("product_id")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ListInward returns inward movements, optionally scoped to one part
func (h *StockHandler) ListInward(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	productID, err := productIDFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movements, err := h.stockService.ListInward(c.Request.Context(), garageID, productID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromStockInwards(movements))
}

// ListOutward returns outward movements, optionally scoped to one part
func (h *StockHandler) ListOutward(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	productID, err := productIDFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movements, err := h.stockService.ListOutward(c.Request.Context(), garageID, productID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromStockOutwards(movements))
}

// Import ingests a spreadsheet of parts and opening stock. The row source is
// picked by file extension; .csv falls back to the CSV reader, everything
// else goes through the Excel reader.
func (h *StockHandler) Import(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing import file")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Cannot read import file")
		return
	}
	defer file.Close()

	var source appinventory.RowSource
	if strings.EqualFold(filepath.Ext(fileHeader.Filename), ".csv") {
		source = bulk.NewCSVRowSource(file)
	} else {
		excelSource, err := bulk.NewExcelRowSource(file)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		defer excelSource.Close()
		source = excelSource
	}

	var rows []appinventory.RowResult
	summary, err := h.importService.Import(c.Request.Context(), garageID, source, func(r appinventory.RowResult) {
		rows = append(rows, r)
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ImportResponse{Summary: summary, Rows: rows})
}

// RegisterRoutes registers the stock ledger routes
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/stock")
	{
		stock.POST("/inward", h.Receive)
		stock.GET("/inward", h.ListInward)
		stock.PUT("/inward/:id/quantity", h.UpdateInwardQuantity)
		stock.DELETE("/inward/:id", h.DeleteInward)

		stock.POST("/outward", h.Issue)
		stock.GET("/outward", h.ListOutward)
		stock.DELETE("/outward/:id", h.ReverseIssue)

		stock.POST("/import", h.Import)
	}
}
