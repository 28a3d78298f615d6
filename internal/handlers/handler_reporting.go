package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
	"github.com/swisscockpit/kmu-cockpit/internal/middleware"
)

const dateLayout = "2006-01-02"

// reportingHandler handles HTTP requests for reports and the CSV export.
type reportingHandler struct {
	reportingService portssvc.ReportingService
	exportService    portssvc.ExportService
}

func newReportingHandler(rs portssvc.ReportingService, es portssvc.ExportService) *reportingHandler {
	return &reportingHandler{reportingService: rs, exportService: es}
}

// registerReportingRoutes registers report routes nested under a company.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService, exportService portssvc.ExportService) {
	h := newReportingHandler(reportingService, exportService)

	reports := rg.Group("/reports")
	{
		reports.GET("/balance", h.balanceSheet)
		reports.GET("/income", h.incomeStatement)
		reports.GET("/dashboard", h.dashboard)
	}

	rg.GET("/export/transactions.csv", h.exportTransactionsCSV)
}

// parseDateParam parses a yyyy-mm-dd query parameter, returning the fallback
// when the parameter is absent.
func parseDateParam(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	return time.Parse(dateLayout, value)
}

// balanceSheet godoc
// @Summary Balance report
// @Description Assets and liabilities with balances as of a date. Defaults to today.
// @Tags reports
// @Produce json
// @Param company_id path string true "Company ID"
// @Param to query string false "As-of date (yyyy-mm-dd)"
// @Success 200 {object} dto.BalanceReportResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/reports/balance [get]
func (h *reportingHandler) balanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	asOf, err := parseDateParam(c.Query("to"), time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid to date, expected yyyy-mm-dd"})
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), companyID, asOf, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate balance report")
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceReportResponse(report))
}

// incomeStatement godoc
// @Summary Income statement
// @Description Revenue and expenses for a period. Defaults to the current year.
// @Tags reports
// @Produce json
// @Param company_id path string true "Company ID"
// @Param from query string false "Start date (yyyy-mm-dd)"
// @Param to query string false "End date (yyyy-mm-dd)"
// @Success 200 {object} dto.IncomeStatementResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/reports/income [get]
func (h *reportingHandler) incomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	now := time.Now()
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	from, err := parseDateParam(c.Query("from"), yearStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid from date, expected yyyy-mm-dd"})
		return
	}
	to, err := parseDateParam(c.Query("to"), now)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid to date, expected yyyy-mm-dd"})
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "to must not be before from"})
		return
	}

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), companyID, from, to, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate income statement")
		return
	}

	c.JSON(http.StatusOK, dto.ToIncomeStatementResponse(report))
}

// dashboard godoc
// @Summary Dashboard figures
// @Description Current-month revenue, expenses and profit, open task count and
// @Description the monthly series for the running year.
// @Tags reports
// @Produce json
// @Param company_id path string true "Company ID"
// @Success 200 {object} dto.DashboardResponse
// @Security BearerAuth
// @Router /companies/{company_id}/reports/dashboard [get]
func (h *reportingHandler) dashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	stats, series, err := h.reportingService.Dashboard(c.Request.Context(), companyID, time.Now(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to compute dashboard")
		return
	}

	c.JSON(http.StatusOK, dto.DashboardResponse{
		MonthRevenue:  stats.MonthRevenue,
		MonthExpenses: stats.MonthExpenses,
		MonthProfit:   stats.MonthProfit,
		OpenTasks:     stats.OpenTasks,
		Series:        dto.ToMonthBucketResponses(series),
	})
}

// exportTransactionsCSV godoc
// @Summary Export the journal as CSV
// @Description Streams the period's bookings as a CSV file with Swiss number
// @Description and date formatting. Defaults to the current year.
// @Tags reports
// @Produce text/csv
// @Param company_id path string true "Company ID"
// @Param from query string false "Start date (yyyy-mm-dd)"
// @Param to query string false "End date (yyyy-mm-dd)"
// @Success 200 {string} string "CSV content"
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/export/transactions.csv [get]
func (h *reportingHandler) exportTransactionsCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	now := time.Now()
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	from, err := parseDateParam(c.Query("from"), yearStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid from date, expected yyyy-mm-dd"})
		return
	}
	to, err := parseDateParam(c.Query("to"), now)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid to date, expected yyyy-mm-dd"})
		return
	}

	data, err := h.exportService.ExportTransactionsCSV(c.Request.Context(), companyID, from, to, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to export transactions")
		return
	}

	fileName := fmt.Sprintf("journal_%s_%s.csv", from.Format(dateLayout), to.Format(dateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
