package handlers

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
	"github.com/swisscockpit/kmu-cockpit/internal/middleware"
)

// receiptHandler handles receipt metadata and file downloads.
type receiptHandler struct {
	receiptService portssvc.ReceiptSvc
}

func newReceiptHandler(rs portssvc.ReceiptSvc) *receiptHandler {
	return &receiptHandler{receiptService: rs}
}

// registerReceiptRoutes registers receipt routes nested under a company.
func registerReceiptRoutes(rg *gin.RouterGroup, receiptService portssvc.ReceiptSvc) {
	h := newReceiptHandler(receiptService)

	receipts := rg.Group("/receipts")
	{
		receipts.POST("", h.uploadReceipt)
		receipts.GET("", h.listReceipts)
		receipts.GET("/:receipt_id", h.getReceipt)
	}
}

// registerFileRoutes registers the signed download route. It sits outside the
// JWT-protected API group; the HMAC signature in the URL is the credential.
func registerFileRoutes(r *gin.Engine, receiptService portssvc.ReceiptSvc) {
	h := newReceiptHandler(receiptService)
	r.GET("/files/download", h.downloadFile)
}

// uploadReceipt godoc
// @Summary Upload a receipt
// @Description Stores a receipt file without running extraction.
// @Tags receipts
// @Accept multipart/form-data
// @Produce json
// @Param company_id path string true "Company ID"
// @Param file formData file true "Receipt image or PDF"
// @Success 201 {object} dto.ReceiptResponse
// @Failure 400 {object} ErrorResponse "Unsupported file type"
// @Security BearerAuth
// @Router /companies/{company_id}/receipts [post]
func (h *receiptHandler) uploadReceipt(c *gin.Context) {
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

	receipt, err := h.receiptService.StoreReceipt(c.Request.Context(), companyID, userID, fileName, contentType, data)
	if err != nil {
		respondWithError(c, logger, err, "Failed to store receipt")
		return
	}

	url, err := h.receiptService.SignedURL(c.Request.Context(), companyID, receipt.ReceiptID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to sign receipt URL")
		return
	}

	c.JSON(http.StatusCreated, dto.ToReceiptResponse(receipt, url))
}

// listReceipts godoc
// @Summary List a company's receipts
// @Tags receipts
// @Produce json
// @Param company_id path string true "Company ID"
// @Success 200 {array} dto.ReceiptResponse
// @Security BearerAuth
// @Router /companies/{company_id}/receipts [get]
func (h *receiptHandler) listReceipts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	receipts, err := h.receiptService.ListReceipts(c.Request.Context(), companyID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list receipts")
		return
	}

	out := make([]dto.ReceiptResponse, len(receipts))
	for i := range receipts {
		url, err := h.receiptService.SignedURL(c.Request.Context(), companyID, receipts[i].ReceiptID, userID)
		if err != nil {
			respondWithError(c, logger, err, "Failed to sign receipt URL")
			return
		}
		out[i] = dto.ToReceiptResponse(&receipts[i], url)
	}

	c.JSON(http.StatusOK, out)
}

// getReceipt godoc
// @Summary Get receipt metadata with a fresh download URL
// @Tags receipts
// @Produce json
// @Param company_id path string true "Company ID"
// @Param receipt_id path string true "Receipt ID"
// @Success 200 {object} dto.ReceiptResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/receipts/{receipt_id} [get]
func (h *receiptHandler) getReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	receiptID := c.Param("receipt_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	receipt, err := h.receiptService.GetReceiptByID(c.Request.Context(), companyID, receiptID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to load receipt")
		return
	}

	url, err := h.receiptService.SignedURL(c.Request.Context(), companyID, receiptID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to sign receipt URL")
		return
	}

	c.JSON(http.StatusOK, dto.ToReceiptResponse(receipt, url))
}

// downloadFile godoc
// @Summary Download a stored file
// @Description Serves a file addressed by a signed, time-limited URL.
// @Tags receipts
// @Produce application/octet-stream
// @Param key query string true "Object key"
// @Param expires query int true "Expiry unix timestamp"
// @Param sig query string true "HMAC signature"
// @Success 200 {file} file
// @Failure 401 {object} ErrorResponse "Bad or expired signature"
// @Router /files/download [get]
func (h *receiptHandler) downloadFile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	objectKey := c.Query("key")
	signature := c.Query("sig")
	expires, err := strconv.ParseInt(c.Query("expires"), 10, 64)
	if err != nil || objectKey == "" || signature == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing or invalid download parameters"})
		return
	}

	if err := h.receiptService.VerifySignedKey(objectKey, expires, signature); err != nil {
		respondWithError(c, logger, err, "Failed to verify download")
		return
	}

	file, err := h.receiptService.OpenReceipt(c.Request.Context(), objectKey)
	if err != nil {
		respondWithError(c, logger, err, "Failed to open file")
		return
	}
	defer file.Close()

	if ct := mime.TypeByExtension(filepath.Ext(objectKey)); ct != "" {
		c.Header("Content-Type", ct)
	} else {
		c.Header("Content-Type", "application/octet-stream")
	}
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, file); err != nil {
		logger.Warn("Download interrupted", "error", err.Error())
	}
}
