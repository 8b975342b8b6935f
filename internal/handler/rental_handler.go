package handler

import (
	"net/http"

	"sgflota/internal/middleware"
	"sgflota/internal/service"
	"sgflota/pkg/pagination"
	"sgflota/pkg/response"

	"github.com/gin-gonic/gin"
)

type RentalHandler struct {
	rentalService service.RentalService
}

func NewRentalHandler(rentalService service.RentalService) *RentalHandler {
	return &RentalHandler{rentalService: rentalService}
}

func (h *RentalHandler) RegisterRoutes(router *gin.RouterGroup) {
	rentals := router.Group("/api/rentals")
	{
		rentals.POST("", middleware.RequireRole(writeRoles...), h.CreateRental)
		rentals.GET("", middleware.RequireRole(readRoles...), h.ListRentals)
		rentals.GET("/:id", middleware.RequireRole(readRoles...), h.GetRental)
		rentals.PUT("/:id", middleware.RequireRole(writeRoles...), h.UpdateRental)
		rentals.POST("/:id/finalize", middleware.RequireRole(writeRoles...), h.FinalizeRental)
		rentals.DELETE("/:id", middleware.RequireRole(adminOnly...), h.DeleteRental)
	}
}

// CreateRental opens a rental and generates its invoice and payables
// @Summary      Create rental
// @Description  Creates a rental, bills the full period with VAT and creates held payables for third-party vehicles
// @Tags         rentals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateRentalRequest  true  "Create Rental Payload"
// @Success      201      {object}  response.Response{data=service.RentalResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/rentals [post]
func (h *RentalHandler) CreateRental(c *gin.Context) {
	var req service.CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rental, err := h.rentalService.CreateRental(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rental))
}

// GetRental returns one rental
// @Summary      Get rental
// @Description  Retrieves a rental by ID
// @Tags         rentals
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Rental ID"
// @Success      200  {object}  response.Response{data=service.RentalResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/rentals/{id} [get]
func (h *RentalHandler) GetRental(c *gin.Context) {
	rental, err := h.rentalService.GetRental(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rental))
}

// ListRentals returns a paginated list of rentals
// @Summary      List rentals
// @Description  Retrieves rentals, optionally filtered by status
// @Tags         rentals
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status (Activo, Finalizado)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/rentals [get]
func (h *RentalHandler) ListRentals(c *gin.Context) {
	p := pagination.Parse(c)
	page, limit := p.Page, p.Limit

	rentals, total, err := h.rentalService.ListRentals(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"rentals": rentals,
		"total":   total,
		"page":    page,
		"limit":   limit,
	}))
}

// UpdateRental edits an active rental
// @Summary      Update rental
// @Description  Updates the end date or commercial agent of an active rental
// @Tags         rentals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Rental ID"
// @Param        payload  body      service.UpdateRentalRequest  true  "Update Rental Payload"
// @Success      200      {object}  response.Response{data=service.RentalResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/rentals/{id} [put]
func (h *RentalHandler) UpdateRental(c *gin.Context) {
	var req service.UpdateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rental, err := h.rentalService.UpdateRental(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rental))
}

// FinalizeRental settles a rental at its actual end date
// @Summary      Finalize rental
// @Description  Recomputes the total for the real period, bills extra days or creates a refund, re-prices payables and releases the vehicle
// @Tags         rentals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Rental ID"
// @Param        payload  body      service.FinalizeRentalRequest  true  "Finalize Payload"
// @Success      200      {object}  response.Response{data=service.FinalizeResult}
// @Failure      400      {object}  response.Response
// @Router       /api/rentals/{id}/finalize [post]
func (h *RentalHandler) FinalizeRental(c *gin.Context) {
	var req service.FinalizeRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.rentalService.FinalizeRental(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// DeleteRental removes a rental without an invoice
// @Summary      Delete rental
// @Description  Deletes a rental; refused while its invoice exists
// @Tags         rentals
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Rental ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/rentals/{id} [delete]
func (h *RentalHandler) DeleteRental(c *gin.Context) {
	id := c.Param("id")

	if err := h.rentalService.DeleteRental(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}
