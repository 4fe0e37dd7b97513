package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appjobcard "github.com/garagehq/gms-backend/internal/application/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
	"github.com/garagehq/gms-backend/internal/interfaces/http/dto"
)

// JobcardHandler handles jobcard lifecycle endpoints
type JobcardHandler struct {
	BaseHandler
	jobcardService *appjobcard.JobcardService
}

// NewJobcardHandler creates a new JobcardHandler
func NewJobcardHandler(jobcardService *appjobcard.JobcardService) *JobcardHandler {
	return &JobcardHandler{jobcardService: jobcardService}
}

// CreateJobcardRequest represents a request to open a jobcard. Number is
// optional; when absent the next sequential number is assigned.
type CreateJobcardRequest struct {
	JobTypeID            *string    `json:"job_type_id" binding:"omitempty,uuid"`
	BookingID            *string    `json:"booking_id" binding:"omitempty,uuid"`
	CustomerID           string     `json:"customer_id" binding:"required,uuid"`
	VehicleID            *string    `json:"vehicle_id" binding:"omitempty,uuid"`
	SupervisorStaffID    *string    `json:"supervisor_staff_id" binding:"omitempty,uuid"`
	MechanicIDs          []string   `json:"mechanic_ids" binding:"omitempty,dive,uuid"`
	Number               string     `json:"number" binding:"omitempty"`
	JobDate              *time.Time `json:"job_date"`
	KmReading            *int       `json:"km_reading" binding:"omitempty,min=0"`
	FuelLevel            *int       `json:"fuel_level" binding:"omitempty,min=0,max=100"`
	IssueDescription     string     `json:"issue_description" binding:"max=2000"`
	DamageDescription    string     `json:"damage_description" binding:"max=2000"`
	AccessoryDescription string     `json:"accessory_description" binding:"max=2000"`
	WorkNote             string     `json:"work_note" binding:"max=2000"`
	DeliveryTimeline     *time.Time `json:"delivery_timeline"`
	ReminderDuration     int        `json:"reminder_duration" binding:"min=0"`
	ReminderKm           int        `json:"reminder_km" binding:"min=0"`
}

func parseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (r CreateJobcardRequest) toFields() (jobcard.JobcardFields, []uuid.UUID, error) {
	fields := jobcard.JobcardFields{
		Number:               r.Number,
		KmReading:            r.KmReading,
		FuelLevel:            r.FuelLevel,
		IssueDescription:     r.IssueDescription,
		DamageDescription:    r.DamageDescription,
		AccessoryDescription: r.AccessoryDescription,
		WorkNote:             r.WorkNote,
		DeliveryTimeline:     r.DeliveryTimeline,
		ReminderDuration:     r.ReminderDuration,
		ReminderKm:           r.ReminderKm,
	}
	if r.JobDate != nil {
		fields.JobDate = *r.JobDate
	}

	customerID, err := uuid.Parse(r.CustomerID)
	if err != nil {
		return fields, nil, err
	}
	fields.CustomerID = customerID
	if fields.JobTypeID, err = parseOptionalUUID(r.JobTypeID); err != nil {
		return fields, nil, err
	}
	if fields.BookingID, err = parseOptionalUUID(r.BookingID); err != nil {
		return fields, nil, err
	}
	if fields.VehicleID, err = parseOptionalUUID(r.VehicleID); err != nil {
		return fields, nil, err
	}
	if fields.SupervisorStaffID, err = parseOptionalUUID(r.SupervisorStaffID); err != nil {
		return fields, nil, err
	}

	mechanicIDs := make([]uuid.UUID, 0, len(r.MechanicIDs))
	for _, raw := range r.MechanicIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fields, nil, err
		}
		mechanicIDs = append(mechanicIDs, id)
	}
	return fields, mechanicIDs, nil
}

// Create opens a jobcard
func (h *JobcardHandler) Create(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}

	var req CreateJobcardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	fields, mechanicIDs, err := req.toFields()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	jc, err := h.jobcardService.CreateJobcard(c.Request.Context(), garageID, fields, mechanicIDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.FromJobcard(jc))
}

// Get returns one jobcard with all child collections
func (h *JobcardHandler) Get(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid jobcard ID")
		return
	}

	jc, err := h.jobcardService.GetJobcard(c.Request.Context(), garageID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromJobcard(jc))
}

// GetByPublicID returns a jobcard via its shareable public identifier.
// Served without auth so customers can follow their tracking link.
func (h *JobcardHandler) GetByPublicID(c *gin.Context) {
	publicID, err := uuid.Parse(c.Param("publicId"))
	if err != nil {
		h.BadRequest(c, "Invalid tracking ID")
		return
	}

	jc, err := h.jobcardService.GetJobcardByPublicID(c.Request.Context(), publicID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromJobcard(jc))
}

// List returns a page of jobcards
func (h *JobcardHandler) List(c *gin.Context) {
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

	page, err := h.jobcardService.ListJobcards(c.Request.Context(), garageID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, dto.FromJobcardPage(page))
}

// UpdateContentRequest represents a partial update of jobcard intake fields.
// Absent members leave the current value in place.
type UpdateContentRequest struct {
	JobTypeID            *string    `json:"job_type_id" binding:"omitempty,uuid"`
	SupervisorStaffID    *string    `json:"supervisor_staff_id" binding:"omitempty,uuid"`
	KmReading            *int       `json:"km_reading" binding:"omitempty,min=0"`
	FuelLevel            *int       `json:"fuel_level" binding:"omitempty,min=0,max=100"`
	IssueDescription     *string    `json:"issue_description"`
	DamageDescription    *string    `json:"damage_description"`
	AccessoryDescription *string    `json:"accessory_description"`
	WorkNote             *string    `json:"work_note"`
	DeliveryTimeline     *time.Time `json:"delivery_timeline"`
	ReminderDuration     *int       `json:"reminder_duration" binding:"omitempty,min=0"`
	ReminderKm           *int       `json:"reminder_km" binding:"omitempty,min=0"`
}

// UpdateContent applies intake changes to an open jobcard
func (h *JobcardHandler) UpdateContent(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid jobcard ID")
		return
	}

	var req UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	update := jobcard.ContentUpdate{
		KmReading:            req.KmReading,
		FuelLevel:            req.FuelLevel,
		IssueDescription:     req.IssueDescription,
		DamageDescription:    req.DamageDescription,
		AccessoryDescription: req.AccessoryDescription,
		WorkNote:             req.WorkNote,
		DeliveryTimeline:     req.DeliveryTimeline,
		ReminderDuration:     req.ReminderDuration,
		ReminderKm:           req.ReminderKm,
	}
	if update.JobTypeID, err = parseOptionalUUID(req.JobTypeID); err != nil {
		h.BadRequest(c, "Invalid job type ID")
		return
	}
	if update.SupervisorStaffID, err = parseOptionalUUID(req.SupervisorStaffID); err != nil {
		h.BadRequest(c, "Invalid supervisor ID")
		return
	}

	jc, err := h.jobcardService.UpdateContent(c.Request.Context(), garageID, id, update)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromJobcard(jc))
}

// LineRequest represents a request to append a part or service line
type LineRequest struct {
	Source     string  `json:"source" binding:"required,oneof=internal external"`
	RefID      *string `json:"ref_id" binding:"omitempty,uuid"`
	Name       string  `json:"name" binding:"required,min=1,max=255"`
	PartNumber string  `json:"part_number" binding:"max=100"`
	Code       string  `json:"code" binding:"max=50"`
	Quantity   int     `json:"quantity" binding:"required,min=1"`
	Value      string  `json:"value" binding:"required,money"`
	Tax        string  `json:"tax" binding:"omitempty,percent"`
	Discount   string  `json:"discount" binding:"omitempty,percent"`
}

func (r LineRequest) pricing() (valueobject.Money, valueobject.Percent, valueobject.Percent, error) {
	value, err := valueobject.NewMoneyINRFromString(r.Value)
	if err != nil {
		return valueobject.Money{}, valueobject.Percent{}, valueobject.Percent{}, err
	}
	tax := valueobject.ZeroPercent()
	if r.Tax != "" {
		if tax, err = valueobject.NewPercentFromString(r.Tax); err != nil {
			return valueobject.Money{}, valueobject.Percent{}, valueobject.Percent{}, err
		}
	}
	discount := valueobject.ZeroPercent()
	if r.Discount != "" {
		if discount, err = valueobject.NewPercentFromString(r.Discount); err != nil {
			return valueobject.Money{}, valueobject.Percent{}, valueobject.Percent{}, err
		}
	}
	return value, tax, discount, nil
}

// AppendPartLine adds a parts line to an open jobcard
func (h *JobcardHandler) AppendPartLine(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid jobcard ID")
		return
	}

	var req LineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	value, tax, discount, err := req.pricing()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	productID, err := parseOptionalUUID(req.RefID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	line, err := h.jobcardService.AppendPartLine(c.Request.Context(), garageID, id, jobcard.PartLineFields{
		Source:     jobcard.LineSource(req.Source),
		ProductID:  productID,
		Name:       req.Name,
		PartNumber: req.PartNumber,
		Code:       req.Code,
		Quantity:   req.Quantity,
		Value:      value,
		Tax:        tax,
		Discount:   discount,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.FromPartLine(line))
}

// AppendServiceLine adds a service line to an open jobcard
func (h *JobcardHandler) AppendServiceLine(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid jobcard ID")
		return
	}

	var req LineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	value, tax, discount, err := req.pricing()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	serviceID, err := parseOptionalUUID(req.RefID)
	if err != nil {
		h.BadRequest(c, "Invalid service ID")
		return
	}

	line, err := h.jobcardService.AppendServiceLine(c.Request.Context(), garageID, id, jobcard.ServiceLineFields{
		Source:    jobcard.LineSource(req.Source),
		ServiceID: serviceID,
		Name:      req.Name,
		Code:      req.Code,
		Quantity:  req.Quantity,
		Value:     value,
		Tax:       tax,
		Discount:  discount,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.FromServiceLine(line))
}

// RemoveLine drops a line from an open jobcard
func (h *JobcardHandler) RemoveLine(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid jobcard ID")
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		h.BadRequest(c, "Invalid line ID")
		return
	}

	if err := h.jobcardService.RemoveLine(c.Request.Context(), garageID, id, lineID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AssignMechanicRequest names the staff member to assign
type AssignMechanicRequest struct {
	StaffID string `json:"staff_id" binding:"required,uuid"`
}

// AssignMechanic adds a mechanic assignment to a jobcard
func (h *JobcardHandler) AssignMechanic(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid jobcard ID")
		return
	}

	var req AssignMechanicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	staffID, err := uuid.Parse(req.StaffID)
	if err != nil {
		h.BadRequest(c, "Invalid staff ID")
		return
	}

	if err := h.jobcardService.AssignMechanic(c.Request.Context(), garageID, id, staffID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AttachDamagePhotos stores uploaded damage photos and links their handles
// to the jobcard
func (h *JobcardHandler) AttachDamagePhotos(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid jobcard ID")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		h.BadRequest(c, "Invalid multipart form")
		return
	}
	files := form.File["photos"]
	if len(files) == 0 {
		h.BadRequest(c, "Missing photo files")
		return
	}

	var contentType string
	photos := make([][]byte, 0, len(files))
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			h.BadRequest(c, "Cannot read photo file")
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			h.BadRequest(c, "Cannot read photo file")
			return
		}
		photos = append(photos, data)
		if contentType == "" {
			contentType = fileHeader.Header.Get("Content-Type")
		}
	}

	jc, err := h.jobcardService.AttachDamagePhotos(c.Request.Context(), garageID, id, photos, contentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromJobcard(jc))
}

// Finalize closes a jobcard, freezing its content
func (h *JobcardHandler) Finalize(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid jobcard ID")
		return
	}

	jc, err := h.jobcardService.Finalize(c.Request.Context(), garageID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromJobcard(jc))
}

// Delete removes an open jobcard
func (h *JobcardHandler) Delete(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid jobcard ID")
		return
	}

	if err := h.jobcardService.Delete(c.Request.Context(), garageID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Totals returns the computed financial summary of a jobcard
func (h *JobcardHandler) Totals(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid jobcard ID")
		return
	}

	totals, err := h.jobcardService.Totals(c.Request.Context(), garageID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromTotals(totals))
}

// RegisterRoutes registers the jobcard routes. The tracking route lives
// under /public so customers can open it without a staff token.
func (h *JobcardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	jobcards := rg.Group("/jobcards")
	{
		jobcards.POST("", h.Create)
		jobcards.GET("", h.List)
		jobcards.GET("/:id", h.Get)
		jobcards.PUT("/:id", h.UpdateContent)
		jobcards.DELETE("/:id", h.Delete)
		jobcards.GET("/:id/totals", h.Totals)
		jobcards.POST("/:id/part-lines", h.AppendPartLine)
		jobcards.POST("/:id/service-lines", h.AppendServiceLine)
		jobcards.DELETE("/:id/lines/:lineId", h.RemoveLine)
		jobcards.POST("/:id/mechanics", h.AssignMechanic)
		jobcards.POST("/:id/damage-photos", h.AttachDamagePhotos)
		jobcards.POST("/:id/finalize", h.Finalize)
	}

	rg.GET("/public/jobcards/:publicId", h.GetByPublicID)
}
