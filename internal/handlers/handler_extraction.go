package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/middleware"
)

// extractionHandler handles AI document understanding uploads.
type extractionHandler struct {
	extractionService portssvc.ExtractionSvc
}

func newExtractionHandler(es portssvc.ExtractionSvc) *extractionHandler {
	return &extractionHandler{extractionService: es}
}

// registerExtractionRoutes registers extraction routes nested under a company.
func registerExtractionRoutes(rg *gin.RouterGroup, extractionService portssvc.ExtractionSvc) {
	h := newExtractionHandler(extractionService)

	rg.POST("/receipts/extract", h.extractReceipt)
	rg.POST("/contracts/analyze", h.analyzeContract)
}

// readUpload pulls the multipart file out of the request.
func readUpload(c *gin.Context) (fileName, contentType string, data []byte, ok bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing file upload"})
		return "", "", nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read upload"})
		return "", "", nil, false
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read upload"})
		return "", "", nil, false
	}

	return fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data, true
}

// extractReceipt godoc
// @Summary Extract booking fields from a receipt
// @Description Stores the uploaded receipt and reads date, amount, issuer and
// @Description suggested booking accounts out of it.
// @Tags extraction
// @Accept multipart/form-data
// @Produce json
// @Param company_id path string true "Company ID"
// @Param file formData file true "Receipt image or PDF"
// @Success 200 {object} dto.ReceiptExtractionResponse
// @Failure 400 {object} ErrorResponse "Unsupported file type"
// @Security BearerAuth
// @Router /companies/{company_id}/receipts/extract [post]
func (h *extractionHandler) extractReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	fileName, contentType, data, ok := readUpload(c)
	if !ok {
		return
	}

	result, err := h.extractionService.ExtractReceipt(c.Request.Context(), companyID, userID, fileName, contentType, data)
	if err != nil {
		respondWithError(c, logger, err, "Failed to extract receipt")
		return
	}

	c.JSON(http.StatusOK, result)
}

// analyzeContract godoc
// @Summary Analyze a contract
// @Description Reads partner, amounts, notice period, renewal clause and
// @Description risks out of an uploaded contract document.
// @Tags extraction
// @Accept multipart/form-data
// @Produce json
// @Param company_id path string true "Company ID"
// @Param file formData file true "Contract document"
// @Success 200 {object} dto.ContractAnalysisResponse
// @Failure 400 {object} ErrorResponse "Unsupported file type"
// @Security BearerAuth
// @Router /companies/{company_id}/contracts/analyze [post]
func (h *extractionHandler) analyzeContract(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	fileName, contentType, data, ok := readUpload(c)
	if !ok {
		return
	}

	result, err := h.extractionService.AnalyzeContract(c.Request.Context(), companyID, userID, fileName, contentType, data)
	if err != nil {
		respondWithError(c, logger, err, "Failed to analyze contract")
		return
	}

	c.JSON(http.StatusOK, result)
}
