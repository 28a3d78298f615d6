package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
	"github.com/swisscockpit/kmu-cockpit/internal/middleware"
)

// taskHandler handles HTTP requests for tasks.
type taskHandler struct {
	taskService portssvc.TaskSvcFacade
}

func newTaskHandler(ts portssvc.TaskSvcFacade) *taskHandler {
	return &taskHandler{taskService: ts}
}

// registerTaskRoutes registers task routes nested under a company.
func registerTaskRoutes(rg *gin.RouterGroup, taskService portssvc.TaskSvcFacade) {
	h := newTaskHandler(taskService)

	tasks := rg.Group("/tasks")
	{
		tasks.POST("", h.createTask)
		tasks.GET("", h.listTasks)
		tasks.GET("/:task_id", h.getTask)
		tasks.PUT("/:task_id", h.updateTask)
		tasks.DELETE("/:task_id", h.deleteTask)
	}
}

// createTask godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param task body dto.CreateTaskRequest true "Task details"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/tasks [post]
func (h *taskHandler) createTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create task")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskResponse(task))
}

// listTasks godoc
// @Summary List tasks
// @Description Returns a filtered, token-paginated task page, newest first.
// @Tags tasks
// @Produce json
// @Param company_id path string true "Company ID"
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Param area query string false "Filter by business area"
// @Param assigneeID query string false "Filter by assignee"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListTasksResponse
// @Security BearerAuth
// @Router /companies/{company_id}/tasks [get]
func (h *taskHandler) listTasks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var params dto.ListTasksParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	page, err := h.taskService.ListTasks(c.Request.Context(), companyID, userID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list tasks")
		return
	}

	c.JSON(http.StatusOK, page)
}

// getTask godoc
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Param company_id path string true "Company ID"
// @Param task_id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/tasks/{task_id} [get]
func (h *taskHandler) getTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	taskID := c.Param("task_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	task, err := h.taskService.GetTaskByID(c.Request.Context(), companyID, taskID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to load task")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// updateTask godoc
// @Summary Update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param task_id path string true "Task ID"
// @Param task body dto.UpdateTaskRequest true "Task changes"
// @Success 200 {object} dto.TaskResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/tasks/{task_id} [put]
func (h *taskHandler) updateTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	taskID := c.Param("task_id")

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), companyID, taskID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update task")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// deleteTask godoc
// @Summary Delete a task
// @Tags tasks
// @Param company_id path string true "Company ID"
// @Param task_id path string true "Task ID"
// @Success 204 "No content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/tasks/{task_id} [delete]
func (h *taskHandler) deleteTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	taskID := c.Param("task_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), companyID, taskID, userID); err != nil {
		respondWithError(c, logger, err, "Failed to delete task")
		return
	}

	c.Status(http.StatusNoContent)
}
