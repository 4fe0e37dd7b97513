package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appbooking "github.com/garagehq/gms-backend/internal/application/booking"
	appjobcard "github.com/garagehq/gms-backend/internal/application/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/booking"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
	"github.com/garagehq/gms-backend/internal/interfaces/http/dto"
)

// BookingHandler handles pickup booking endpoints: the staff-facing workflow
// routes and the public subscriber-facing routes
type BookingHandler struct {
	BaseHandler
	bookingService   *appbooking.BookingService
	promotionService *appjobcard.PromotionService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *appbooking.BookingService, promotionService *appjobcard.PromotionService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService, promotionService: promotionService}
}

// List returns a page of bookings for the garage
func (h *BookingHandler) List(c *gin.Context) {
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

	page, err := h.bookingService.ListBookings(c.Request.Context(), garageID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, dto.FromBookingPage(page))
}

// Get returns one booking with its timeline
func (h *BookingHandler) Get(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid booking ID")
		return
	}

	b, err := h.bookingService.GetBooking(c.Request.Context(), garageID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromBooking(b))
}

// AdvanceRequest names the next workflow status
type AdvanceRequest struct {
	Status string `json:"status" binding:"required"`
	Remark string `json:"remark" binding:"max=255"`
}

// Advance moves a booking to the next workflow status
func (h *BookingHandler) Advance(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid booking ID")
		return
	}

	var req AdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	next := booking.Status(req.Status)
	if !next.IsValid() {
		h.BadRequest(c, "Unknown booking status")
		return
	}

	entry, err := h.bookingService.AdvanceBooking(c.Request.Context(), garageID, id, next, req.Remark)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromTimelineEntry(entry))
}

// CancelRequest carries the cancellation reason
type CancelRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// Cancel terminates a booking
func (h *BookingHandler) Cancel(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid booking ID")
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.bookingService.CancelBooking(c.Request.Context(), garageID, id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromTimelineEntry(entry))
}

// UpdateBookingRequest represents a partial update of booking scalars
type UpdateBookingRequest struct {
	BookingDate      *string `json:"booking_date" binding:"omitempty,datetime=2006-01-02"`
	BookingSlot      string  `json:"booking_slot" binding:"max=50"`
	Suggestion       string  `json:"suggestion" binding:"max=500"`
	RequiredEstimate *bool   `json:"required_estimate"`
}

// Update changes booking scalars without touching the workflow state
func (h *BookingHandler) Update(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid booking ID")
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	update := booking.ScalarUpdate{
		BookingSlot:      req.BookingSlot,
		Suggestion:       req.Suggestion,
		RequiredEstimate: req.RequiredEstimate,
	}
	if req.BookingDate != nil {
		date, err := time.Parse("2006-01-02", *req.BookingDate)
		if err != nil {
			h.BadRequest(c, "Invalid booking date")
			return
		}
		update.BookingDate = &date
	}

	b, err := h.bookingService.UpdateBooking(c.Request.Context(), garageID, id, update)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromBooking(b))
}

// Promote converts a booking into a jobcard, pulling the subscriber profile
// from the directory and upserting customer and vehicle records
func (h *BookingHandler) Promote(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	staffID, err := getStaffID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid staff context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid booking ID")
		return
	}

	jc, err := h.promotionService.Promote(c.Request.Context(), garageID, id, staffID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.FromJobcard(jc))
}

// CreateBookingRequest represents a subscriber's request to book a pickup
type CreateBookingRequest struct {
	GarageID            string `json:"garage_id" binding:"required,uuid"`
	SubscriberID        string `json:"subscriber_id" binding:"required,uuid"`
	SubscriberVehicleID string `json:"subscriber_vehicle_id" binding:"required,uuid"`
	SubscriberAddressID string `json:"subscriber_address_id" binding:"required,uuid"`
	BookingDate         string `json:"booking_date" binding:"required,datetime=2006-01-02"`
	BookingSlot         string `json:"booking_slot" binding:"required,max=50"`
	Suggestion          string `json:"suggestion" binding:"max=500"`
	BookingAmount       string `json:"booking_amount" binding:"omitempty,money"`
	PromoCode           string `json:"promo_code" binding:"max=50"`
	PromoCodeAmount     string `json:"promo_code_amount" binding:"omitempty,money"`
	RequiredEstimate    bool   `json:"required_estimate"`
}

// Create registers a booking on behalf of a subscriber. Served without staff
// auth; the subscriber app calls it directly.
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.SubscriberBadRequest(c, err.Error())
		return
	}

	garageID, err := uuid.Parse(req.GarageID)
	if err != nil {
		h.SubscriberBadRequest(c, "Invalid garage ID")
		return
	}
	subscriberID, err := uuid.Parse(req.SubscriberID)
	if err != nil {
		h.SubscriberBadRequest(c, "Invalid subscriber ID")
		return
	}
	vehicleID, err := uuid.Parse(req.SubscriberVehicleID)
	if err != nil {
		h.SubscriberBadRequest(c, "Invalid subscriber vehicle ID")
		return
	}
	addressID, err := uuid.Parse(req.SubscriberAddressID)
	if err != nil {
		h.SubscriberBadRequest(c, "Invalid subscriber address ID")
		return
	}
	bookingDate, err := time.Parse("2006-01-02", req.BookingDate)
	if err != nil {
		h.SubscriberBadRequest(c, "Invalid booking date")
		return
	}

	fields := booking.BookingFields{
		SubscriberID:        subscriberID,
		SubscriberVehicleID: vehicleID,
		SubscriberAddressID: addressID,
		BookingDate:         bookingDate,
		BookingSlot:         req.BookingSlot,
		Suggestion:          req.Suggestion,
		RequiredEstimate:    req.RequiredEstimate,
		PromoCode:           req.PromoCode,
	}
	fields.BookingAmount = valueobject.NewMoneyINRFromFloat(0)
	if req.BookingAmount != "" {
		if fields.BookingAmount, err = valueobject.NewMoneyINRFromString(req.BookingAmount); err != nil {
			h.SubscriberBadRequest(c, "Invalid booking amount")
			return
		}
	}
	fields.PromoCodeAmount = valueobject.NewMoneyINRFromFloat(0)
	if req.PromoCodeAmount != "" {
		if fields.PromoCodeAmount, err = valueobject.NewMoneyINRFromString(req.PromoCodeAmount); err != nil {
			h.SubscriberBadRequest(c, "Invalid promo code amount")
			return
		}
	}

	b, err := h.bookingService.CreateBooking(c.Request.Context(), garageID, fields)
	if err != nil {
		h.HandleSubscriberError(c, err)
		return
	}
	h.SubscriberCreated(c, "Booking confirmed", dto.FromBooking(b))
}

// ListForSubscriber returns a subscriber's bookings across garages. Served
// without staff auth.
func (h *BookingHandler) ListForSubscriber(c *gin.Context) {
	subscriberID, err := uuid.Parse(c.Param("subscriberId"))
	if err != nil {
		h.SubscriberBadRequest(c, "Invalid subscriber ID")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.SubscriberBadRequest(c, err.Error())
		return
	}

	bookings, err := h.bookingService.ListBookingsForSubscriber(c.Request.Context(), subscriberID, req.ToFilter())
	if err != nil {
		h.HandleSubscriberError(c, err)
		return
	}
	h.SubscriberOK(c, "Bookings fetched", dto.FromBookings(bookings))
}

// RegisterRoutes registers the booking routes. The subscriber-facing routes
// live under /public and are called by the booking app without a staff token.
func (h *BookingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	{
		bookings.GET("", h.List)
		bookings.GET("/:id", h.Get)
		bookings.PUT("/:id", h.Update)
		bookings.POST("/:id/advance", h.Advance)
		bookings.POST("/:id/cancel", h.Cancel)
		bookings.POST("/:id/promote", h.Promote)
	}

	public := rg.Group("/public")
	{
		public.POST("/bookings", h.Create)
		public.GET("/subscribers/:subscriberId/bookings", h.ListForSubscriber)
	}
}
