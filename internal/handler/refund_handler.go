package handler

import (
	"net/http"

	"sgflota/internal/middleware"
	"sgflota/internal/service"
	"sgflota/pkg/pagination"
	"sgflota/pkg/response"

	"github.com/gin-gonic/gin"
)

type RefundHandler struct {
	refundService service.RefundService
}

func NewRefundHandler(refundService service.RefundService) *RefundHandler {
	return &RefundHandler{refundService: refundService}
}

func (h *RefundHandler) RegisterRoutes(router *gin.RouterGroup) {
	refunds := router.Group("/api/refunds")
	{
		refunds.POST("", middleware.RequireRole(writeRoles...), h.CreateRefund)
		refunds.GET("", middleware.RequireRole(readRoles...), h.ListRefunds)
		refunds.GET("/:id", middleware.RequireRole(readRoles...), h.GetRefund)
		refunds.PUT("/:id", middleware.RequireRole(writeRoles...), h.UpdateRefund)
		refunds.POST("/:id/settle", middleware.RequireRole(writeRoles...), h.SettleRefund)
		refunds.DELETE("/:id", middleware.RequireRole(adminOnly...), h.DeleteRefund)
	}
}

// CreateRefund opens a refund against an invoice
// @Summary      Create refund
// @Description  Creates a pending refund with an R-numbered document
// @Tags         refunds
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateRefundRequest  true  "Create Refund Payload"
// @Success      201      {object}  response.Response{data=service.RefundResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/refunds [post]
func (h *RefundHandler) CreateRefund(c *gin.Context) {
	var req service.CreateRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	refund, err := h.refundService.CreateRefund(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, refund))
}

// GetRefund returns one refund
// @Summary      Get refund
// @Description  Retrieves a refund by ID
// @Tags         refunds
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Refund ID"
// @Success      200  {object}  response.Response{data=service.RefundResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/refunds/{id} [get]
func (h *RefundHandler) GetRefund(c *gin.Context) {
	refund, err := h.refundService.GetRefund(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, refund))
}

// ListRefunds returns a paginated list of refunds
// @Summary      List refunds
// @Description  Retrieves refunds, optionally filtered by status
// @Tags         refunds
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status (Pendiente, Reembolsado)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/refunds [get]
func (h *RefundHandler) ListRefunds(c *gin.Context) {
	p := pagination.Parse(c)
	page, limit := p.Page, p.Limit

	refunds, total, err := h.refundService.ListRefunds(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"refunds": refunds,
		"total":   total,
		"page":    page,
		"limit":   limit,
	}))
}

// SettleRefund pays a pending refund out
// @Summary      Settle refund
// @Description  Marks the refund Reembolsado and books an expense under Reembolsos
// @Tags         refunds
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Refund ID"
// @Success      200  {object}  response.Response{data=service.RefundResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/refunds/{id}/settle [post]
func (h *RefundHandler) SettleRefund(c *gin.Context) {
	refund, err := h.refundService.SettleRefund(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, refund))
}

// UpdateRefund edits a pending refund
// @Summary      Update refund
// @Description  Updates amount, reason or date of a refund that has not been settled yet
// @Tags         refunds
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Refund ID"
// @Param        payload  body      service.UpdateRefundRequest  true  "Update Refund Payload"
// @Success      200      {object}  response.Response{data=service.RefundResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/refunds/{id} [put]
func (h *RefundHandler) UpdateRefund(c *gin.Context) {
	var req service.UpdateRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	refund, err := h.refundService.UpdateRefund(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, refund))
}

// DeleteRefund removes a pending refund
// @Summary      Delete refund
// @Description  Deletes a refund; refused once it has been settled
// @Tags         refunds
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Refund ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/refunds/{id} [delete]
func (h *RefundHandler) DeleteRefund(c *gin.Context) {
	id := c.Param("id")

	if err := h.refundService.DeleteRefund(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}
