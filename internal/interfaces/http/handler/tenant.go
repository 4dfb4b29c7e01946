package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/retailpos/backend/internal/application/identity"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

// TenantHandler handles tenant registration and management endpoints
type TenantHandler struct {
	BaseHandler
	tenantService *identityapp.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *identityapp.TenantService) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
	}
}

// Register godoc
// @Summary      Register tenant
// @Description  Sign up a new tenant with its owner account and default branch
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RegisterTenantRequest true "Registration details"
// @Success      201 {object} dto.Response{data=identityapp.RegisterTenantResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tenants/register [post]
func (h *TenantHandler) Register(c *gin.Context) {
	var req identityapp.RegisterTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.tenantService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get godoc
// @Summary      Get current tenant
// @Description  Get the caller's tenant profile
// @Tags         tenants
// @Produce      json
// @Success      200 {object} dto.Response{data=identityapp.TenantResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenant [get]
func (h *TenantHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	result, err := h.tenantService.GetByID(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Update godoc
// @Summary      Update tenant
// @Description  Update the caller's tenant profile
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        request body identityapp.UpdateTenantRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=identityapp.TenantResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenant [put]
func (h *TenantHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var req identityapp.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.tenantService.Update(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ChangePlan godoc
// @Summary      Change subscription plan
// @Description  Move the tenant to a different plan; usage must fit the new limits
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        request body identityapp.ChangePlanRequest true "Target plan"
// @Success      200 {object} dto.Response{data=identityapp.TenantResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenant/plan [put]
func (h *TenantHandler) ChangePlan(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var req identityapp.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.tenantService.ChangePlan(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetUsage godoc
// @Summary      Plan usage
// @Description  Current branch, staff, and product counts against plan limits
// @Tags         tenants
// @Produce      json
// @Success      200 {object} dto.Response{data=identityapp.TenantUsageResult}
// @Security     BearerAuth
// @Router       /tenant/usage [get]
func (h *TenantHandler) GetUsage(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	result, err := h.tenantService.GetUsage(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List tenants
// @Description  Operator-level tenant listing
// @Tags         tenants
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        status query string false "Filter by status"
// @Param        plan query string false "Filter by plan"
// @Success      200 {object} dto.Response{data=identityapp.TenantListResult}
// @Security     BearerAuth
// @Router       /tenants [get]
func (h *TenantHandler) List(c *gin.Context) {
	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	listReq.Normalize()

	result, err := h.tenantService.List(c.Request.Context(), identityapp.ListTenantsQuery{
		Search:   listReq.Search,
		Status:   c.Query("status"),
		Plan:     c.Query("plan"),
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Suspend godoc
// @Summary      Suspend tenant
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Success      200 {object} dto.Response{data=identityapp.TenantResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id}/suspend [post]
func (h *TenantHandler) Suspend(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	result, err := h.tenantService.Suspend(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Activate godoc
// @Summary      Activate tenant
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Success      200 {object} dto.Response{data=identityapp.TenantResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id}/activate [post]
func (h *TenantHandler) Activate(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	result, err := h.tenantService.Activate(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
