package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
	"github.com/swisscockpit/kmu-cockpit/internal/middleware"
)

// importHandler handles the workbook import flows.
type importHandler struct {
	importService portssvc.ImportSvcFacade
}

func newImportHandler(is portssvc.ImportSvcFacade) *importHandler {
	return &importHandler{importService: is}
}

// registerImportRoutes registers import routes nested under a company.
func registerImportRoutes(rg *gin.RouterGroup, importService portssvc.ImportSvcFacade) {
	h := newImportHandler(importService)

	imports := rg.Group("/imports")
	{
		imports.POST("/transactions/parse", h.parseTransactionWorkbook)
		imports.POST("/transactions/execute", h.executeImport)
		imports.POST("/transactions/:upload_id/cancel", h.cancelImport)
		imports.POST("/accounts", h.importAccountWorkbook)
	}
}

// parseTransactionWorkbook godoc
// @Summary Parse a journal workbook
// @Description Validates the uploaded Excel workbook and returns the parse
// @Description preview grouped by month. Nothing is booked yet.
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param company_id path string true "Company ID"
// @Param file formData file true "Excel workbook"
// @Success 200 {object} dto.ParseImportResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/imports/transactions/parse [post]
func (h *importHandler) parseTransactionWorkbook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing file upload"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, logger, err, "Failed to read upload")
		return
	}
	defer file.Close()

	preview, err := h.importService.ParseTransactionWorkbook(c.Request.Context(), companyID, userID, file)
	if err != nil {
		respondWithError(c, logger, err, "Failed to parse workbook")
		return
	}

	c.JSON(http.StatusOK, preview)
}

// executeImport godoc
// @Summary Execute a parsed import
// @Description Books the valid rows of the selected month groups and streams
// @Description the running booking count as server-sent events. The final
// @Description event reports whether the run completed, was cancelled or
// @Description failed, and how many bookings were created.
// @Tags imports
// @Accept json
// @Produce text/event-stream
// @Param company_id path string true "Company ID"
// @Param execute body dto.ExecuteImportRequest true "Upload and months"
// @Success 200 {object} dto.ImportProgressEvent
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Upload not found or expired"
// @Security BearerAuth
// @Router /companies/{company_id}/imports/transactions/execute [post]
func (h *importHandler) executeImport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.ExecuteImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Streaming not supported"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	onProgress := func(created, total int) error {
		return sendSSE(c.Writer, flusher, dto.ImportProgressEvent{Created: created, Total: total})
	}

	result, err := h.importService.ExecuteImport(c.Request.Context(), companyID, userID, req, onProgress)
	if err != nil {
		// Headers are already out, so the error travels as a final event.
		logger.Error("Import execution failed", "error", err.Error())
		_ = sendSSE(c.Writer, flusher, dto.ImportProgressEvent{Error: err.Error(), Done: true})
		return
	}

	final := dto.ImportProgressEvent{
		Created: result.Created,
		Outcome: string(result.Outcome),
		Done:    true,
	}
	if result.Err != nil {
		final.Error = result.Err.Error()
	}
	_ = sendSSE(c.Writer, flusher, final)
}

// cancelImport godoc
// @Summary Cancel a running import
// @Description Requests cancellation. The run stops after the booking in
// @Description flight; already created bookings stay.
// @Tags imports
// @Param company_id path string true "Company ID"
// @Param upload_id path string true "Upload ID"
// @Success 204 "No content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/imports/transactions/{upload_id}/cancel [post]
func (h *importHandler) cancelImport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	uploadID := c.Param("upload_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.importService.CancelImport(c.Request.Context(), companyID, userID, uploadID); err != nil {
		respondWithError(c, logger, err, "Failed to cancel import")
		return
	}

	c.Status(http.StatusNoContent)
}

// importAccountWorkbook godoc
// @Summary Import a chart-of-accounts workbook
// @Description Creates the account groups and accounts described by the
// @Description uploaded workbook. Groups are linked to their parents after
// @Description all of them exist.
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param company_id path string true "Company ID"
// @Param file formData file true "Excel workbook"
// @Success 200 {object} dto.AccountImportResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/imports/accounts [post]
func (h *importHandler) importAccountWorkbook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing file upload"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, logger, err, "Failed to read upload")
		return
	}
	defer file.Close()

	result, err := h.importService.ImportAccountWorkbook(c.Request.Context(), companyID, userID, file)
	if err != nil {
		respondWithError(c, logger, err, "Failed to import account plan")
		return
	}

	c.JSON(http.StatusOK, result)
}
