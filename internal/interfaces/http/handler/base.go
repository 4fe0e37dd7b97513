package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/interfaces/http/dto"
	"github.com/garagehq/gms-backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	return c.GetString(middleware.RequestIDKey)
}

// getGarageID extracts the tenant garage ID from the JWT claims
func getGarageID(c *gin.Context) (uuid.UUID, error) {
	garageIDStr := middleware.GetJWTGarageID(c)
	if garageIDStr == "" {
		return uuid.Nil, errors.New("garage ID not found in context")
	}
	return uuid.Parse(garageIDStr)
}

// getStaffID extracts the acting staff ID from the JWT claims
func getStaffID(c *gin.Context) (uuid.UUID, error) {
	staffIDStr := middleware.GetJWTStaffID(c)
	if staffIDStr == "" {
		return uuid.Nil, errors.New("staff ID not found in context")
	}
	return uuid.Parse(staffIDStr)
}

// Success sends a 200 success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Paginated sends a 200 success response with pagination meta
func Paginated[T any](c *gin.Context, page shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, message, getRequestID(c)))
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, message, getRequestID(c)))
}

// SubscriberOK sends a 200 response in the subscriber API envelope
func (h *BaseHandler) SubscriberOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, dto.NewSubscriberResponse(message, data))
}

// SubscriberCreated sends a 201 response in the subscriber API envelope
func (h *BaseHandler) SubscriberCreated(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, dto.NewSubscriberResponse(message, data))
}

// SubscriberBadRequest sends a 400 response in the subscriber API envelope
func (h *BaseHandler) SubscriberBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewSubscriberError(message))
}

// HandleSubscriberError maps errors onto the subscriber API envelope,
// keeping the domain error's HTTP status mapping
func (h *BaseHandler) HandleSubscriberError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code), dto.NewSubscriberError(domainErr.Message))
		return
	}
	c.JSON(http.StatusInternalServerError, dto.NewSubscriberError("An unexpected error occurred"))
}

// HandleError converts domain errors to HTTP responses, mapping the error
// code to a status and passing structured details through. Unknown error
// types become a 500 without leaking internals.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	requestID := getRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		c.JSON(status, dto.NewDomainErrorResponse(domainErr, requestID))
		return
	}

	c.JSON(http.StatusInternalServerError,
		dto.NewErrorResponse(dto.ErrCodeInternal, "An unexpected error occurred", requestID))
}
