package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrgHandler struct {
	orgService service.OrgService
}

func NewOrgHandler(orgService service.OrgService) *OrgHandler {
	return &OrgHandler{orgService: orgService}
}

func (h *OrgHandler) RegisterRoutes(router *gin.RouterGroup) {
	departments := router.Group("/api/departments")
	{
		departments.GET("", middleware.RequireRole(model.RoleEmployee, model.RoleHR, model.RoleAdmin), h.ListDepartments)
		departments.POST("", middleware.RequireRole(model.RoleAdmin), h.CreateDepartment)
	}
	positions := router.Group("/api/positions")
	{
		positions.GET("", middleware.RequireRole(model.RoleEmployee, model.RoleHR, model.RoleAdmin), h.ListPositions)
		positions.POST("", middleware.RequireRole(model.RoleAdmin), h.CreatePosition)
	}
}

// ListDepartments returns all departments
// @Summary      List departments
// @Tags         organization
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/departments [get]
func (h *OrgHandler) ListDepartments(c *gin.Context) {
	depts, err := h.orgService.ListDepartments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, depts))
}

// CreateDepartment creates a department
// @Summary      Create department
// @Tags         organization
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateDepartmentRequest  true  "Department payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/departments [post]
func (h *OrgHandler) CreateDepartment(c *gin.Context) {
	var req service.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	dept, err := h.orgService.CreateDepartment(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, dept))
}

// ListPositions returns all positions
// @Summary      List positions
// @Tags         organization
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/positions [get]
func (h *OrgHandler) ListPositions(c *gin.Context) {
	positions, err := h.orgService.ListPositions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, positions))
}

// CreatePosition creates a position
// @Summary      Create position
// @Tags         organization
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreatePositionRequest  true  "Position payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/positions [post]
func (h *OrgHandler) CreatePosition(c *gin.Context) {
	var req service.CreatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	pos, err := h.orgService.CreatePosition(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, pos))
}
