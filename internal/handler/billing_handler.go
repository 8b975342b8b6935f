package handler

import (
	"net/http"

	"sgflota/internal/middleware"
	"sgflota/internal/model"
	"sgflota/internal/service"
	"sgflota/pkg/pagination"
	"sgflota/pkg/response"

	"github.com/gin-gonic/gin"
)

// Role sets shared by all route groups. Reads are open to every logged-in
// role, writes to Admin and Registrar, deletions to Admin only.
var (
	readRoles  = []string{model.UserRoleAdmin, model.UserRoleRegistrar, model.UserRoleReader}
	writeRoles = []string{model.UserRoleAdmin, model.UserRoleRegistrar}
	adminOnly  = []string{model.UserRoleAdmin}
)

type BillingHandler struct {
	billingService service.BillingService
}

func NewBillingHandler(billingService service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

func (h *BillingHandler) RegisterRoutes(router *gin.RouterGroup) {
	payments := router.Group("/api/payments")
	{
		payments.POST("", middleware.RequireRole(writeRoles...), h.RecordPayment)
		payments.POST("/preview", middleware.RequireRole(writeRoles...), h.PreviewAllocation)
		payments.GET("", middleware.RequireRole(readRoles...), h.ListPayments)
		payments.DELETE("/:id", middleware.RequireRole(adminOnly...), h.DeletePayment)
	}
}

// RecordPayment applies one payment across the selected invoices
// @Summary      Record payment
// @Description  Distributes a payment amount across the selected invoices oldest-first and returns the receipt
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RecordPaymentRequest  true  "Record Payment Payload"
// @Success      201      {object}  response.Response{data=service.ReceiptResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/payments [post]
func (h *BillingHandler) RecordPayment(c *gin.Context) {
	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	receipt, err := h.billingService.RecordPayment(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, receipt))
}

// PreviewAllocation shows how a payment would split without recording it
// @Summary      Preview payment allocation
// @Description  Returns the oldest-first split of an amount across the selected invoices without persisting anything
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.PreviewAllocationRequest  true  "Preview Payload"
// @Success      200      {object}  response.Response{data=service.AllocationPreview}
// @Failure      400      {object}  response.Response
// @Router       /api/payments/preview [post]
func (h *BillingHandler) PreviewAllocation(c *gin.Context) {
	var req service.PreviewAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	preview, err := h.billingService.PreviewAllocation(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, preview))
}

// ListPayments returns a paginated list of payments
// @Summary      List payments
// @Description  Retrieves payments, optionally filtered by receipt, client or invoice
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        receipt_id  query     string  false  "Filter by receipt ID"
// @Param        client_id   query     string  false  "Filter by client ID"
// @Param        invoice_id  query     string  false  "Filter by invoice ID"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Number of items per page (default 20)"
// @Success      200         {object}  response.Response{data=object}
// @Failure      500         {object}  response.Response
// @Router       /api/payments [get]
func (h *BillingHandler) ListPayments(c *gin.Context) {
	p := pagination.Parse(c)
	page, limit := p.Page, p.Limit

	filter := service.PaymentFilter{
		ReceiptID: c.Query("receipt_id"),
		ClientID:  c.Query("client_id"),
		InvoiceID: c.Query("invoice_id"),
		Page:      page,
		Limit:     limit,
	}

	payments, total, err := h.billingService.ListPayments(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"payments": payments,
		"total":    total,
		"page":     page,
		"limit":    limit,
	}))
}

// DeletePayment removes a payment and reverts its invoice
// @Summary      Delete payment
// @Description  Deletes a payment and rolls its amount back out of the invoice's paid total
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/payments/{id} [delete]
func (h *BillingHandler) DeletePayment(c *gin.Context) {
	id := c.Param("id")

	if err := h.billingService.DeletePayment(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}
