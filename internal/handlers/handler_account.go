package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
	"github.com/swisscockpit/kmu-cockpit/internal/middleware"
)

// accountHandler handles HTTP requests for accounts, groups and the chart of
// accounts tree.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

// registerAccountRoutes registers account routes nested under a company.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:account_id", h.getAccount)
		accounts.PUT("/:account_id", h.updateAccount)
		accounts.DELETE("/:account_id", h.deactivateAccount)
	}

	groups := rg.Group("/account-groups")
	{
		groups.POST("", h.createGroup)
		groups.GET("", h.listGroups)
		groups.PUT("/:group_id", h.updateGroup)
		groups.DELETE("/:group_id", h.deleteGroup)
	}

	rg.GET("/chart-of-accounts", h.getChartOfAccounts)
}

// createAccount godoc
// @Summary Create an account
// @Tags accounts
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Number already in use"
// @Security BearerAuth
// @Router /companies/{company_id}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List a company's accounts
// @Tags accounts
// @Produce json
// @Param company_id path string true "Company ID"
// @Success 200 {array} dto.AccountResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), companyID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

// getAccount godoc
// @Summary Get an account
// @Tags accounts
// @Produce json
// @Param company_id path string true "Company ID"
// @Param account_id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/accounts/{account_id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	accountID := c.Param("account_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), companyID, accountID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to load account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccount godoc
// @Summary Update an account
// @Tags accounts
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param account_id path string true "Account ID"
// @Param account body dto.UpdateAccountRequest true "Account changes"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/accounts/{account_id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	accountID := c.Param("account_id")

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), companyID, accountID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description Accounts are never deleted; deactivation hides them from new bookings.
// @Tags accounts
// @Param company_id path string true "Company ID"
// @Param account_id path string true "Account ID"
// @Success 204 "No content"
// @Failure 409 {object} ErrorResponse "System accounts cannot be deactivated"
// @Security BearerAuth
// @Router /companies/{company_id}/accounts/{account_id} [delete]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	accountID := c.Param("account_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.accountService.DeactivateAccount(c.Request.Context(), companyID, accountID, userID); err != nil {
		respondWithError(c, logger, err, "Failed to deactivate account")
		return
	}

	c.Status(http.StatusNoContent)
}

// createGroup godoc
// @Summary Create an account group
// @Tags accounts
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param group body dto.CreateAccountGroupRequest true "Group details"
// @Success 201 {object} dto.AccountGroupResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/account-groups [post]
func (h *accountHandler) createGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateAccountGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	group, err := h.accountService.CreateGroup(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create account group")
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountGroupResponse(group))
}

// listGroups godoc
// @Summary List a company's account groups
// @Tags accounts
// @Produce json
// @Param company_id path string true "Company ID"
// @Success 200 {array} dto.AccountGroupResponse
// @Security BearerAuth
// @Router /companies/{company_id}/account-groups [get]
func (h *accountHandler) listGroups(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	groups, err := h.accountService.ListGroups(c.Request.Context(), companyID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list account groups")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountGroupResponses(groups))
}

// updateGroup godoc
// @Summary Update an account group
// @Tags accounts
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param group_id path string true "Group ID"
// @Param group body dto.UpdateAccountGroupRequest true "Group changes"
// @Success 200 {object} dto.AccountGroupResponse
// @Security BearerAuth
// @Router /companies/{company_id}/account-groups/{group_id} [put]
func (h *accountHandler) updateGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	groupID := c.Param("group_id")

	var req dto.UpdateAccountGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	group, err := h.accountService.UpdateGroup(c.Request.Context(), companyID, groupID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update account group")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountGroupResponse(group))
}

// deleteGroup godoc
// @Summary Delete an empty account group
// @Tags accounts
// @Param company_id path string true "Company ID"
// @Param group_id path string true "Group ID"
// @Success 204 "No content"
// @Failure 409 {object} ErrorResponse "Group still has accounts or subgroups"
// @Security BearerAuth
// @Router /companies/{company_id}/account-groups/{group_id} [delete]
func (h *accountHandler) deleteGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	groupID := c.Param("group_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.accountService.DeleteGroup(c.Request.Context(), companyID, groupID, userID); err != nil {
		respondWithError(c, logger, err, "Failed to delete account group")
		return
	}

	c.Status(http.StatusNoContent)
}

// getChartOfAccounts godoc
// @Summary Get the chart of accounts tree
// @Description Returns the group and account hierarchy with rolled-up balances.
// @Tags accounts
// @Produce json
// @Param company_id path string true "Company ID"
// @Param hideZero query bool false "Prune zero-balance nodes"
// @Param q query string false "Filter by number or name"
// @Success 200 {array} coa.Node
// @Security BearerAuth
// @Router /companies/{company_id}/chart-of-accounts [get]
func (h *accountHandler) getChartOfAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	hideZero := c.Query("hideZero") == "true"
	query := c.Query("q")

	tree, err := h.accountService.GetChartOfAccounts(c.Request.Context(), companyID, userID, hideZero, query)
	if err != nil {
		respondWithError(c, logger, err, "Failed to build chart of accounts")
		return
	}

	c.JSON(http.StatusOK, tree)
}
