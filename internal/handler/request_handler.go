package handler

import (
	"net/http"

	"sgflota/internal/middleware"
	"sgflota/internal/service"
	"sgflota/pkg/pagination"
	"sgflota/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requestService service.RequestService
}

func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// The POST routes are the public intake from the marketing site and carry
// no auth; listing and triage are staff operations.
func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/api/requests")
	{
		requests.POST("", h.CreateBookingRequest)
		requests.GET("", middleware.RequireRole(readRoles...), h.ListBookingRequests)
		requests.PATCH("/:id", middleware.RequireRole(writeRoles...), h.UpdateBookingRequestStatus)
	}

	contact := router.Group("/api/contact")
	{
		contact.POST("", h.CreateContactMessage)
		contact.GET("", middleware.RequireRole(readRoles...), h.ListContactMessages)
		contact.PATCH("/:id", middleware.RequireRole(writeRoles...), h.UpdateContactMessageStatus)
	}
}

// CreateBookingRequest receives a booking inquiry from the public site
// @Summary      Create booking request
// @Description  Stores a vehicle booking inquiry submitted without authentication
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateBookingRequestRequest  true  "Booking Request Payload"
// @Success      201      {object}  response.Response{data=service.BookingRequestResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/requests [post]
func (h *RequestHandler) CreateBookingRequest(c *gin.Context) {
	var req service.CreateBookingRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	booking, err := h.requestService.CreateBookingRequest(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, booking))
}

// ListBookingRequests returns a paginated list of booking requests
// @Summary      List booking requests
// @Description  Retrieves booking inquiries, optionally filtered by status
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status (Pendiente, Aceptado, Rechazado)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/requests [get]
func (h *RequestHandler) ListBookingRequests(c *gin.Context) {
	p := pagination.Parse(c)
	page, limit := p.Page, p.Limit

	requests, total, err := h.requestService.ListBookingRequests(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"requests": requests,
		"total":    total,
		"page":     page,
		"limit":    limit,
	}))
}

// UpdateBookingRequestStatus accepts or rejects a booking request
// @Summary      Update booking request status
// @Description  Moves a booking inquiry to Aceptado or Rechazado
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Booking Request ID"
// @Param        payload  body      service.UpdateStatusRequest  true  "Status Payload"
// @Success      200      {object}  response.Response{data=service.BookingRequestResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/requests/{id} [patch]
func (h *RequestHandler) UpdateBookingRequestStatus(c *gin.Context) {
	var req service.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	booking, err := h.requestService.UpdateBookingRequestStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, booking))
}

// CreateContactMessage receives a contact-form message from the public site
// @Summary      Create contact message
// @Description  Stores a message submitted through the public contact form
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateContactMessageRequest  true  "Contact Message Payload"
// @Success      201      {object}  response.Response{data=service.ContactMessageResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/contact [post]
func (h *RequestHandler) CreateContactMessage(c *gin.Context) {
	var req service.CreateContactMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	message, err := h.requestService.CreateContactMessage(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, message))
}

// ListContactMessages returns a paginated list of contact messages
// @Summary      List contact messages
// @Description  Retrieves contact-form messages, optionally filtered by status
// @Tags         contact
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status (Pendiente, Atendido)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/contact [get]
func (h *RequestHandler) ListContactMessages(c *gin.Context) {
	p := pagination.Parse(c)
	page, limit := p.Page, p.Limit

	messages, total, err := h.requestService.ListContactMessages(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"messages": messages,
		"total":    total,
		"page":     page,
		"limit":    limit,
	}))
}

// UpdateContactMessageStatus marks a contact message as attended
// @Summary      Update contact message status
// @Description  Moves a contact message to Atendido
// @Tags         contact
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Contact Message ID"
// @Param        payload  body      service.UpdateStatusRequest  true  "Status Payload"
// @Success      200      {object}  response.Response{data=service.ContactMessageResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/contact/{id} [patch]
func (h *RequestHandler) UpdateContactMessageStatus(c *gin.Context) {
	var req service.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	message, err := h.requestService.UpdateContactMessageStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, message))
}
