package handler

import (
	"net/http"
	"time"

	"sgflota/internal/middleware"
	"sgflota/internal/service"
	"sgflota/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports")
	{
		reports.GET("/financial", middleware.RequireRole(readRoles...), h.GetFinancialReport)
		reports.GET("/fleet", middleware.RequireRole(readRoles...), h.GetFleetReport)
	}
}

// reportPeriod parses the period query params, defaulting to the current month.
func reportPeriod(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := now

	if s := c.Query("start_date"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return start, end, err
		}
		start = parsed
	}
	if s := c.Query("end_date"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return start, end, err
		}
		end = parsed
	}
	return start, end, nil
}

// GetFinancialReport returns income, expenses and debt for a period
// @Summary      Financial report
// @Description  Aggregates payments received, expenses, outstanding debt and pending payables for a period
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        start_date  query     string  false  "Start date (RFC3339, default: first of current month)"
// @Param        end_date    query     string  false  "End date (RFC3339, default: now)"
// @Success      200         {object}  response.Response{data=service.FinancialReport}
// @Failure      400         {object}  response.Response
// @Router       /api/reports/financial [get]
func (h *ReportHandler) GetFinancialReport(c *gin.Context) {
	start, end, err := reportPeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid date format: "+err.Error()))
		return
	}

	report, err := h.reportService.GetFinancialReport(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// GetFleetReport returns utilization and rental activity
// @Summary      Fleet report
// @Description  Summarizes vehicle availability, rental counts, revenue and maintenance costs for a period
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        start_date  query     string  false  "Start date (RFC3339, default: first of current month)"
// @Param        end_date    query     string  false  "End date (RFC3339, default: now)"
// @Success      200         {object}  response.Response{data=service.FleetReport}
// @Failure      400         {object}  response.Response
// @Router       /api/reports/fleet [get]
func (h *ReportHandler) GetFleetReport(c *gin.Context) {
	start, end, err := reportPeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid date format: "+err.Error()))
		return
	}

	report, err := h.reportService.GetFleetReport(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}
