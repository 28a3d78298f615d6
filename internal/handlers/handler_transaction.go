package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
	"github.com/swisscockpit/kmu-cockpit/internal/middleware"
)

// transactionHandler handles HTTP requests for the booking journal.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

// registerTransactionRoutes registers journal routes nested under a company.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:transaction_id", h.getTransaction)
		transactions.PUT("/:transaction_id", h.updateTransaction)
		transactions.DELETE("/:transaction_id", h.deleteTransaction)
	}
}

// createTransaction godoc
// @Summary Book a transaction
// @Description Creates a double-entry booking between a debit and a credit account.
// @Tags transactions
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param transaction body dto.CreateTransactionRequest true "Booking details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Security BearerAuth
// @Router /companies/{company_id}/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to book transaction")
		return
	}

	// Re-read through the reader path so the response carries the resolved
	// account legs.
	full, err := h.transactionService.GetTransactionByID(c.Request.Context(), companyID, txn.TransactionID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to load booked transaction")
		return
	}

	c.JSON(http.StatusCreated, full)
}

// listTransactions godoc
// @Summary List journal bookings
// @Description Returns a filtered, token-paginated journal page, newest first.
// @Tags transactions
// @Produce json
// @Param company_id path string true "Company ID"
// @Param from query string false "Start date (yyyy-mm-dd)"
// @Param to query string false "End date (yyyy-mm-dd)"
// @Param accountID query string false "Filter by account (either leg)"
// @Param q query string false "Search description and document ref"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListTransactionsResponse
// @Security BearerAuth
// @Router /companies/{company_id}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	page, err := h.transactionService.ListTransactions(c.Request.Context(), companyID, userID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, page)
}

// getTransaction godoc
// @Summary Get a booking
// @Tags transactions
// @Produce json
// @Param company_id path string true "Company ID"
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/transactions/{transaction_id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	transactionID := c.Param("transaction_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), companyID, transactionID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to load transaction")
		return
	}

	c.JSON(http.StatusOK, txn)
}

// updateTransaction godoc
// @Summary Update a booking
// @Tags transactions
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param transaction_id path string true "Transaction ID"
// @Param transaction body dto.UpdateTransactionRequest true "Booking changes"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/transactions/{transaction_id} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	transactionID := c.Param("transaction_id")

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if _, err := h.transactionService.UpdateTransaction(c.Request.Context(), companyID, transactionID, req, userID); err != nil {
		respondWithError(c, logger, err, "Failed to update transaction")
		return
	}

	full, err := h.transactionService.GetTransactionByID(c.Request.Context(), companyID, transactionID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to load updated transaction")
		return
	}

	c.JSON(http.StatusOK, full)
}

// deleteTransaction godoc
// @Summary Delete a booking
// @Tags transactions
// @Param company_id path string true "Company ID"
// @Param transaction_id path string true "Transaction ID"
// @Success 204 "No content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/transactions/{transaction_id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	transactionID := c.Param("transaction_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), companyID, transactionID, userID); err != nil {
		respondWithError(c, logger, err, "Failed to delete transaction")
		return
	}

	c.Status(http.StatusNoContent)
}
