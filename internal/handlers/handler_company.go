package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
	"github.com/swisscockpit/kmu-cockpit/internal/middleware"
)

// companyHandler handles HTTP requests for companies and their members.
type companyHandler struct {
	companyService portssvc.CompanySvcFacade
}

func newCompanyHandler(cs portssvc.CompanySvcFacade) *companyHandler {
	return &companyHandler{companyService: cs}
}

// registerCompanyRoutes registers company management routes and nests every
// company-scoped resource under /companies/:company_id.
func registerCompanyRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newCompanyHandler(services.Company)

	companies := rg.Group("/companies")
	{
		companies.POST("", h.createCompany)
		companies.GET("", h.listUserCompanies)
	}

	companySpecific := rg.Group("/companies/:company_id")
	{
		companySpecific.GET("", h.getCompany)
		companySpecific.PUT("", h.updateCompany)

		members := companySpecific.Group("/members")
		{
			members.GET("", h.listMembers)
			members.POST("", h.addMember)
			members.PUT("/:user_id", h.updateMemberRole)
			members.DELETE("/:user_id", h.removeMember)
		}

		registerAccountRoutes(companySpecific, services.Account)
		registerTransactionRoutes(companySpecific, services.Transaction)
		registerReportingRoutes(companySpecific, services.Reporting, services.Export)
		registerImportRoutes(companySpecific, services.Import)
		registerTaskRoutes(companySpecific, services.Task)
		registerConversationRoutes(companySpecific, services.Conversation)
		registerExtractionRoutes(companySpecific, services.Extraction)
		registerReceiptRoutes(companySpecific, services.Receipt)
	}
}

// createCompany godoc
// @Summary Create a company
// @Description Creates a company and makes the caller its owner.
// @Tags companies
// @Accept json
// @Produce json
// @Param company body dto.CreateCompanyRequest true "Company details"
// @Success 201 {object} dto.CompanyResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies [post]
func (h *companyHandler) createCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create company")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCompanyResponse(company))
}

// listUserCompanies godoc
// @Summary List the caller's companies
// @Tags companies
// @Produce json
// @Success 200 {array} dto.CompanyResponse
// @Security BearerAuth
// @Router /companies [get]
func (h *companyHandler) listUserCompanies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	companies, err := h.companyService.ListUserCompanies(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list companies")
		return
	}

	c.JSON(http.StatusOK, dto.ToCompanyResponses(companies))
}

// getCompany godoc
// @Summary Get a company
// @Tags companies
// @Produce json
// @Param company_id path string true "Company ID"
// @Success 200 {object} dto.CompanyResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id} [get]
func (h *companyHandler) getCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	company, err := h.companyService.FindCompanyByID(c.Request.Context(), companyID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to load company")
		return
	}

	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

// updateCompany godoc
// @Summary Update company master data
// @Tags companies
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param company body dto.UpdateCompanyRequest true "Company changes"
// @Success 200 {object} dto.CompanyResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id} [put]
func (h *companyHandler) updateCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	company, err := h.companyService.UpdateCompany(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update company")
		return
	}

	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

// listMembers godoc
// @Summary List company members
// @Tags companies
// @Produce json
// @Param company_id path string true "Company ID"
// @Success 200 {array} dto.MemberResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/members [get]
func (h *companyHandler) listMembers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	members, err := h.companyService.ListCompanyMembers(c.Request.Context(), companyID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list members")
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberResponses(members))
}

// addMember godoc
// @Summary Add a member to a company
// @Tags companies
// @Accept json
// @Param company_id path string true "Company ID"
// @Param member body dto.AddMemberRequest true "User and role"
// @Success 204 "No content"
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already a member"
// @Security BearerAuth
// @Router /companies/{company_id}/members [post]
func (h *companyHandler) addMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.companyService.AddUserToCompany(c.Request.Context(), userID, req.UserID, companyID, req.Role); err != nil {
		respondWithError(c, logger, err, "Failed to add member")
		return
	}

	c.Status(http.StatusNoContent)
}

// updateMemberRole godoc
// @Summary Change a member's role
// @Tags companies
// @Accept json
// @Param company_id path string true "Company ID"
// @Param user_id path string true "User ID"
// @Param member body dto.AddMemberRequest true "New role"
// @Success 204 "No content"
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/members/{user_id} [put]
func (h *companyHandler) updateMemberRole(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	targetUserID := c.Param("user_id")

	var req struct {
		Role string `json:"role" binding:"required,oneof=OWNER MEMBER READONLY"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.companyService.UpdateUserCompanyRole(c.Request.Context(), userID, targetUserID, companyID, domain.CompanyRole(req.Role)); err != nil {
		respondWithError(c, logger, err, "Failed to update member role")
		return
	}

	c.Status(http.StatusNoContent)
}

// removeMember godoc
// @Summary Remove a member from a company
// @Tags companies
// @Param company_id path string true "Company ID"
// @Param user_id path string true "User ID"
// @Success 204 "No content"
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/members/{user_id} [delete]
func (h *companyHandler) removeMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	targetUserID := c.Param("user_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.companyService.RemoveUserFromCompany(c.Request.Context(), userID, targetUserID, companyID); err != nil {
		respondWithError(c, logger, err, "Failed to remove member")
		return
	}

	c.Status(http.StatusNoContent)
}
