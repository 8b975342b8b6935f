package handler

import (
	"net/http"

	"sgflota/internal/middleware"
	"sgflota/internal/service"
	"sgflota/pkg/pagination"
	"sgflota/pkg/response"

	"github.com/gin-gonic/gin"
)

type PayableHandler struct {
	payableService service.PayableService
}

func NewPayableHandler(payableService service.PayableService) *PayableHandler {
	return &PayableHandler{payableService: payableService}
}

func (h *PayableHandler) RegisterRoutes(router *gin.RouterGroup) {
	payables := router.Group("/api/accounts-payable")
	{
		payables.GET("", middleware.RequireRole(readRoles...), h.ListPayables)
		payables.GET("/:id", middleware.RequireRole(readRoles...), h.GetPayable)
		payables.POST("/:id/pay", middleware.RequireRole(writeRoles...), h.PayPayable)
	}
}

// GetPayable returns one account payable
// @Summary      Get account payable
// @Description  Retrieves an account payable by ID
// @Tags         accounts-payable
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Payable ID"
// @Success      200  {object}  response.Response{data=service.PayableResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/accounts-payable/{id} [get]
func (h *PayableHandler) GetPayable(c *gin.Context) {
	payable, err := h.payableService.GetPayable(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, payable))
}

// ListPayables returns a paginated list of accounts payable
// @Summary      List accounts payable
// @Description  Retrieves accounts payable, optionally filtered by status
// @Tags         accounts-payable
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status (Pendiente, Pagado, Retenido)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/accounts-payable [get]
func (h *PayableHandler) ListPayables(c *gin.Context) {
	p := pagination.Parse(c)
	page, limit := p.Page, p.Limit

	payables, total, err := h.payableService.ListPayables(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"payables": payables,
		"total":    total,
		"page":     page,
		"limit":    limit,
	}))
}

// PayPayable settles a released account payable
// @Summary      Pay account payable
// @Description  Marks the payable Pagado and books an expense under Pagos a Terceros; held payables are refused
// @Tags         accounts-payable
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Payable ID"
// @Success      200  {object}  response.Response{data=service.PayableResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/accounts-payable/{id}/pay [post]
func (h *PayableHandler) PayPayable(c *gin.Context) {
	payable, err := h.payableService.PayPayable(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, payable))
}
