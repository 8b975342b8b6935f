package handler

import (
	"net/http"

	"sgflota/internal/middleware"
	"sgflota/internal/service"
	"sgflota/pkg/pagination"
	"sgflota/pkg/response"

	"github.com/gin-gonic/gin"
)

type MaintenanceHandler struct {
	maintenanceService service.MaintenanceService
}

func NewMaintenanceHandler(maintenanceService service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService}
}

func (h *MaintenanceHandler) RegisterRoutes(router *gin.RouterGroup) {
	maintenances := router.Group("/api/maintenances")
	{
		maintenances.POST("", middleware.RequireRole(writeRoles...), h.CreateMaintenance)
		maintenances.GET("", middleware.RequireRole(readRoles...), h.ListMaintenances)
		maintenances.GET("/:id", middleware.RequireRole(readRoles...), h.GetMaintenance)
		maintenances.PUT("/:id", middleware.RequireRole(writeRoles...), h.UpdateMaintenance)
		maintenances.DELETE("/:id", middleware.RequireRole(adminOnly...), h.DeleteMaintenance)
	}
}

// CreateMaintenance schedules a service job
// @Summary      Create maintenance
// @Description  Schedules a maintenance job and moves the vehicle to Mantenimiento
// @Tags         maintenances
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateMaintenanceRequest  true  "Create Maintenance Payload"
// @Success      201      {object}  response.Response{data=service.MaintenanceResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/maintenances [post]
func (h *MaintenanceHandler) CreateMaintenance(c *gin.Context) {
	var req service.CreateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	job, err := h.maintenanceService.CreateMaintenance(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, job))
}

// GetMaintenance returns one maintenance job
// @Summary      Get maintenance
// @Description  Retrieves a maintenance job by ID
// @Tags         maintenances
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Maintenance ID"
// @Success      200  {object}  response.Response{data=service.MaintenanceResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/maintenances/{id} [get]
func (h *MaintenanceHandler) GetMaintenance(c *gin.Context) {
	job, err := h.maintenanceService.GetMaintenance(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, job))
}

// ListMaintenances returns a paginated list of maintenance jobs
// @Summary      List maintenances
// @Description  Retrieves maintenance jobs, optionally filtered by vehicle and status
// @Tags         maintenances
// @Security     BearerAuth
// @Produce      json
// @Param        vehicle_id  query     string  false  "Filter by vehicle ID"
// @Param        status      query     string  false  "Filter by status (Programado, En Proceso, Completado)"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Number of items per page (default 20)"
// @Success      200         {object}  response.Response{data=object}
// @Failure      500         {object}  response.Response
// @Router       /api/maintenances [get]
func (h *MaintenanceHandler) ListMaintenances(c *gin.Context) {
	p := pagination.Parse(c)
	page, limit := p.Page, p.Limit

	jobs, total, err := h.maintenanceService.ListMaintenances(c.Request.Context(), c.Query("vehicle_id"), c.Query("status"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"maintenances": jobs,
		"total":        total,
		"page":         page,
		"limit":        limit,
	}))
}

// UpdateMaintenance edits a maintenance job
// @Summary      Update maintenance
// @Description  Updates a job; completing the last open job returns the vehicle to Disponible
// @Tags         maintenances
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                            true  "Maintenance ID"
// @Param        payload  body      service.UpdateMaintenanceRequest  true  "Update Maintenance Payload"
// @Success      200      {object}  response.Response{data=service.MaintenanceResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/maintenances/{id} [put]
func (h *MaintenanceHandler) UpdateMaintenance(c *gin.Context) {
	var req service.UpdateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	job, err := h.maintenanceService.UpdateMaintenance(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, job))
}

// DeleteMaintenance removes a maintenance job
// @Summary      Delete maintenance
// @Description  Deletes a job and releases the vehicle when no open jobs remain
// @Tags         maintenances
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Maintenance ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/maintenances/{id} [delete]
func (h *MaintenanceHandler) DeleteMaintenance(c *gin.Context) {
	id := c.Param("id")

	if err := h.maintenanceService.DeleteMaintenance(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}
