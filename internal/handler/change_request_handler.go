package handler

import (
	"errors"
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/changecodec"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ChangeRequestHandler struct {
	changeRequestService service.ChangeRequestService
}

func NewChangeRequestHandler(changeRequestService service.ChangeRequestService) *ChangeRequestHandler {
	return &ChangeRequestHandler{changeRequestService: changeRequestService}
}

func (h *ChangeRequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/api/change-requests")
	{
		requests.POST("", middleware.RequireRole(model.RoleEmployee, model.RoleHR, model.RoleAdmin), h.Submit)
		requests.PUT("/:id/approve", middleware.RequireRole(model.RoleHR, model.RoleAdmin), h.Approve)
		requests.PUT("/:id/reject", middleware.RequireRole(model.RoleHR, model.RoleAdmin), h.Reject)
	}
	router.GET("/api/employees/:id/change-requests",
		middleware.RequireRole(model.RoleEmployee, model.RoleHR, model.RoleAdmin), h.ListByEmployee)
}

// Submit files a change request for one restricted profile field
// @Summary      Submit change request
// @Tags         change-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.SubmitChangeRequestDTO  true  "Proposed change"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/change-requests [post]
func (h *ChangeRequestHandler) Submit(c *gin.Context) {
	var req service.SubmitChangeRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	result, err := h.changeRequestService.Submit(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListByEmployee returns an employee's change requests, newest first
// @Summary      List change requests for an employee
// @Tags         change-requests
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Employee profile id"
// @Success      200  {object}  response.Response
// @Router       /api/employees/{id}/change-requests [get]
func (h *ChangeRequestHandler) ListByEmployee(c *gin.Context) {
	result, err := h.changeRequestService.ListByEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Approve applies a pending change request to the employee profile
// @Summary      Approve change request
// @Tags         change-requests
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Change request id"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/change-requests/{id}/approve [put]
func (h *ChangeRequestHandler) Approve(c *gin.Context) {
	userID, _ := c.Get("userID")
	userIDStr, _ := userID.(string)

	result, err := h.changeRequestService.Approve(c.Request.Context(), c.Param("id"), userIDStr)
	if err != nil {
		status := statusForWorkflowError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Reject declines a pending change request with a reviewer reason
// @Summary      Reject change request
// @Tags         change-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                          true   "Change request id"
// @Param        payload  body  service.RejectChangeRequestDTO  false  "Rejection reason"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/change-requests/{id}/reject [put]
func (h *ChangeRequestHandler) Reject(c *gin.Context) {
	userID, _ := c.Get("userID")
	userIDStr, _ := userID.(string)

	var req service.RejectChangeRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		// Allow empty body — reason is optional
		req.Reason = ""
	}

	result, err := h.changeRequestService.Reject(c.Request.Context(), c.Param("id"), userIDStr, req.Reason)
	if err != nil {
		status := statusForWorkflowError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// statusForWorkflowError maps workflow errors onto HTTP statuses:
// not-found and conflict are "not actionable now"; the payload/field
// errors mean the stored proposal cannot be mechanically applied.
func statusForWorkflowError(err error) int {
	switch {
	case errors.Is(err, service.ErrRequestNotFound), errors.Is(err, service.ErrEmployeeNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrTransitionConflict):
		return http.StatusConflict
	case errors.Is(err, changecodec.ErrMalformedPayload),
		errors.Is(err, service.ErrUnsupportedField),
		errors.Is(err, service.ErrInvalidNationalID):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
