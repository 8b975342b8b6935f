package handler

import (
	"net/http"

	"sgflota/internal/middleware"
	"sgflota/internal/service"
	"sgflota/pkg/pagination"
	"sgflota/pkg/response"

	"github.com/gin-gonic/gin"
)

type PartnerHandler struct {
	partnerService service.PartnerService
}

func NewPartnerHandler(partnerService service.PartnerService) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService}
}

func (h *PartnerHandler) RegisterRoutes(router *gin.RouterGroup) {
	owners := router.Group("/api/owners")
	{
		owners.POST("", middleware.RequireRole(writeRoles...), h.CreateOwner)
		owners.GET("", middleware.RequireRole(readRoles...), h.ListOwners)
		owners.PUT("/:id", middleware.RequireRole(writeRoles...), h.UpdateOwner)
		owners.DELETE("/:id", middleware.RequireRole(adminOnly...), h.DeleteOwner)
	}

	agents := router.Group("/api/commercial-agents")
	{
		agents.POST("", middleware.RequireRole(writeRoles...), h.CreateAgent)
		agents.GET("", middleware.RequireRole(readRoles...), h.ListAgents)
		agents.PUT("/:id", middleware.RequireRole(writeRoles...), h.UpdateAgent)
		agents.DELETE("/:id", middleware.RequireRole(adminOnly...), h.DeleteAgent)
	}
}

// CreateOwner registers a vehicle owner
// @Summary      Create owner
// @Description  Registers a third-party vehicle owner
// @Tags         owners
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreatePartnerRequest  true  "Create Owner Payload"
// @Success      201      {object}  response.Response{data=service.PartnerResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/owners [post]
func (h *PartnerHandler) CreateOwner(c *gin.Context) {
	var req service.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	owner, err := h.partnerService.CreateOwner(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, owner))
}

// ListOwners returns a paginated owner list
// @Summary      List owners
// @Description  Retrieves registered vehicle owners
// @Tags         owners
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/owners [get]
func (h *PartnerHandler) ListOwners(c *gin.Context) {
	p := pagination.Parse(c)
	page, limit := p.Page, p.Limit

	owners, total, err := h.partnerService.ListOwners(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"owners": owners,
		"total":  total,
		"page":   page,
		"limit":  limit,
	}))
}

// UpdateOwner edits a vehicle owner
// @Summary      Update owner
// @Description  Updates owner contact data or status
// @Tags         owners
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Owner ID"
// @Param        payload  body      service.UpdatePartnerRequest  true  "Update Owner Payload"
// @Success      200      {object}  response.Response{data=service.PartnerResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/owners/{id} [put]
func (h *PartnerHandler) UpdateOwner(c *gin.Context) {
	var req service.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	owner, err := h.partnerService.UpdateOwner(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, owner))
}

// DeleteOwner removes an owner without vehicles
// @Summary      Delete owner
// @Description  Deletes an owner; refused while vehicles carry their dni
// @Tags         owners
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Owner ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/owners/{id} [delete]
func (h *PartnerHandler) DeleteOwner(c *gin.Context) {
	id := c.Param("id")

	if err := h.partnerService.DeleteOwner(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}

// CreateAgent registers a commercial agent
// @Summary      Create commercial agent
// @Description  Registers an agent who earns commission per rental
// @Tags         commercial-agents
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreatePartnerRequest  true  "Create Agent Payload"
// @Success      201      {object}  response.Response{data=service.PartnerResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/commercial-agents [post]
func (h *PartnerHandler) CreateAgent(c *gin.Context) {
	var req service.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	agent, err := h.partnerService.CreateAgent(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, agent))
}

// ListAgents returns a paginated agent list
// @Summary      List commercial agents
// @Description  Retrieves registered commercial agents
// @Tags         commercial-agents
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/commercial-agents [get]
func (h *PartnerHandler) ListAgents(c *gin.Context) {
	p := pagination.Parse(c)
	page, limit := p.Page, p.Limit

	agents, total, err := h.partnerService.ListAgents(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"agents": agents,
		"total":  total,
		"page":   page,
		"limit":  limit,
	}))
}

// UpdateAgent edits a commercial agent
// @Summary      Update commercial agent
// @Description  Updates agent contact data or status
// @Tags         commercial-agents
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Agent ID"
// @Param        payload  body      service.UpdatePartnerRequest  true  "Update Agent Payload"
// @Success      200      {object}  response.Response{data=service.PartnerResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/commercial-agents/{id} [put]
func (h *PartnerHandler) UpdateAgent(c *gin.Context) {
	var req service.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	agent, err := h.partnerService.UpdateAgent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, agent))
}

// DeleteAgent removes a commercial agent
// @Summary      Delete commercial agent
// @Description  Deletes an agent by ID
// @Tags         commercial-agents
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Agent ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/commercial-agents/{id} [delete]
func (h *PartnerHandler) DeleteAgent(c *gin.Context) {
	id := c.Param("id")

	if err := h.partnerService.DeleteAgent(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}
