package handler

import (
	"net/http"

	"sgflota/internal/middleware"
	"sgflota/internal/service"
	"sgflota/pkg/pagination"
	"sgflota/pkg/response"

	"github.com/gin-gonic/gin"
)

type PersonnelHandler struct {
	personnelService service.PersonnelService
}

func NewPersonnelHandler(personnelService service.PersonnelService) *PersonnelHandler {
	return &PersonnelHandler{personnelService: personnelService}
}

func (h *PersonnelHandler) RegisterRoutes(router *gin.RouterGroup) {
	personnel := router.Group("/api/personnel")
	{
		personnel.POST("", middleware.RequireRole(writeRoles...), h.CreatePersonnel)
		personnel.GET("", middleware.RequireRole(readRoles...), h.ListPersonnel)
		personnel.GET("/:id", middleware.RequireRole(readRoles...), h.GetPersonnel)
		personnel.PUT("/:id", middleware.RequireRole(writeRoles...), h.UpdatePersonnel)
		personnel.DELETE("/:id", middleware.RequireRole(adminOnly...), h.DeletePersonnel)
	}

	payments := router.Group("/api/driver-payments")
	{
		payments.POST("", middleware.RequireRole(writeRoles...), h.CreateDriverPayment)
		payments.GET("", middleware.RequireRole(readRoles...), h.ListDriverPayments)
		payments.DELETE("/:id", middleware.RequireRole(adminOnly...), h.DeleteDriverPayment)
	}

	payroll := router.Group("/api/payroll")
	{
		payroll.POST("", middleware.RequireRole(adminOnly...), h.RunPayroll)
		payroll.GET("", middleware.RequireRole(readRoles...), h.ListPayrolls)
	}
}

// CreatePersonnel registers a staff member
// @Summary      Create personnel
// @Description  Registers a staff member; drivers require a license number
// @Tags         personnel
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreatePersonnelRequest  true  "Create Personnel Payload"
// @Success      201      {object}  response.Response{data=service.PersonnelResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/personnel [post]
func (h *PersonnelHandler) CreatePersonnel(c *gin.Context) {
	var req service.CreatePersonnelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	person, err := h.personnelService.CreatePersonnel(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, person))
}

// GetPersonnel returns one staff member
// @Summary      Get personnel
// @Description  Retrieves a staff member by ID
// @Tags         personnel
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Personnel ID"
// @Success      200  {object}  response.Response{data=service.PersonnelResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/personnel/{id} [get]
func (h *PersonnelHandler) GetPersonnel(c *gin.Context) {
	person, err := h.personnelService.GetPersonnel(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, person))
}

// ListPersonnel returns a paginated staff list
// @Summary      List personnel
// @Description  Retrieves staff, optionally filtered by role and status
// @Tags         personnel
// @Security     BearerAuth
// @Produce      json
// @Param        role    query     string  false  "Filter by role (Conductor, Administrativo, Mecánico, Otro)"
// @Param        status  query     string  false  "Filter by status (Activo, Inactivo)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/personnel [get]
func (h *PersonnelHandler) ListPersonnel(c *gin.Context) {
	p := pagination.Parse(c)
	page, limit := p.Page, p.Limit

	people, total, err := h.personnelService.ListPersonnel(c.Request.Context(), c.Query("role"), c.Query("status"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"personnel": people,
		"total":     total,
		"page":      page,
		"limit":     limit,
	}))
}

// UpdatePersonnel edits a staff member
// @Summary      Update personnel
// @Description  Updates staff data, role, salary or status
// @Tags         personnel
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Personnel ID"
// @Param        payload  body      service.UpdatePersonnelRequest  true  "Update Personnel Payload"
// @Success      200      {object}  response.Response{data=service.PersonnelResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/personnel/{id} [put]
func (h *PersonnelHandler) UpdatePersonnel(c *gin.Context) {
	var req service.UpdatePersonnelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	person, err := h.personnelService.UpdatePersonnel(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, person))
}

// DeletePersonnel removes a staff member without payments
// @Summary      Delete personnel
// @Description  Deletes a staff member; refused while payments reference them
// @Tags         personnel
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Personnel ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/personnel/{id} [delete]
func (h *PersonnelHandler) DeletePersonnel(c *gin.Context) {
	id := c.Param("id")

	if err := h.personnelService.DeletePersonnel(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}

// CreateDriverPayment records an ad-hoc staff payment
// @Summary      Create driver payment
// @Description  Records a payment to a staff member outside payroll
// @Tags         driver-payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateDriverPaymentRequest  true  "Create Driver Payment Payload"
// @Success      201      {object}  response.Response{data=service.DriverPaymentResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/driver-payments [post]
func (h *PersonnelHandler) CreateDriverPayment(c *gin.Context) {
	var req service.CreateDriverPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	payment, err := h.personnelService.CreateDriverPayment(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, payment))
}

// ListDriverPayments returns a paginated list of staff payments
// @Summary      List driver payments
// @Description  Retrieves staff payments, optionally filtered by person
// @Tags         driver-payments
// @Security     BearerAuth
// @Produce      json
// @Param        personnel_id  query     string  false  "Filter by personnel ID"
// @Param        page          query     int     false  "Page number (default 1)"
// @Param        limit         query     int     false  "Number of items per page (default 20)"
// @Success      200           {object}  response.Response{data=object}
// @Failure      500           {object}  response.Response
// @Router       /api/driver-payments [get]
func (h *PersonnelHandler) ListDriverPayments(c *gin.Context) {
	p := pagination.Parse(c)
	page, limit := p.Page, p.Limit

	payments, total, err := h.personnelService.ListDriverPayments(c.Request.Context(), c.Query("personnel_id"), page, limit)
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

// DeleteDriverPayment removes a staff payment
// @Summary      Delete driver payment
// @Description  Deletes an ad-hoc staff payment by ID
// @Tags         driver-payments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/driver-payments/{id} [delete]
func (h *PersonnelHandler) DeleteDriverPayment(c *gin.Context) {
	id := c.Param("id")

	if err := h.personnelService.DeleteDriverPayment(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}

// RunPayroll executes a monthly salary run
// @Summary      Run payroll
// @Description  Snapshots active salaries for a month; one run per month
// @Tags         payroll
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RunPayrollRequest  true  "Run Payroll Payload"
// @Success      201      {object}  response.Response{data=service.PayrollResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/payroll [post]
func (h *PersonnelHandler) RunPayroll(c *gin.Context) {
	var req service.RunPayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	payroll, err := h.personnelService.RunPayroll(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, payroll))
}

// ListPayrolls returns past payroll runs
// @Summary      List payrolls
// @Description  Retrieves payroll runs, newest first
// @Tags         payroll
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/payroll [get]
func (h *PersonnelHandler) ListPayrolls(c *gin.Context) {
	p := pagination.Parse(c)
	page, limit := p.Page, p.Limit

	payrolls, total, err := h.personnelService.ListPayrolls(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"payrolls": payrolls,
		"total":    total,
		"page":     page,
		"limit":    limit,
	}))
}
