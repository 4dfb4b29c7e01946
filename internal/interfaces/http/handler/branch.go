package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/retailpos/backend/internal/application/partner"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

// BranchHandler handles branch management endpoints
type BranchHandler struct {
	BaseHandler
	branchService *partnerapp.BranchService
}

// NewBranchHandler creates a new branch handler
func NewBranchHandler(branchService *partnerapp.BranchService) *BranchHandler {
	return &BranchHandler{
		branchService: branchService,
	}
}

func (h *BranchHandler) pathBranchID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid branch ID")
		return uuid.Nil, false
	}
	return id, true
}

// Create godoc
// @Summary      Create branch
// @Description  Open a new branch; the tenant's plan caps the branch count
// @Tags         branches
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateBranchRequest true "New branch"
// @Success      201 {object} dto.Response{data=partnerapp.BranchResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /branches [post]
func (h *BranchHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var req partnerapp.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.branchService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get godoc
// @Summary      Get branch
// @Tags         branches
// @Produce      json
// @Param        id path string true "Branch ID"
// @Success      200 {object} dto.Response{data=partnerapp.BranchResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /branches/{id} [get]
func (h *BranchHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	branchID, ok := h.pathBranchID(c)
	if !ok {
		return
	}

	result, err := h.branchService.GetByID(c.Request.Context(), tenantID, branchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List branches
// @Tags         branches
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        status query string false "Filter by status"
// @Success      200 {object} dto.Response{data=partnerapp.BranchListResult}
// @Security     BearerAuth
// @Router       /branches [get]
func (h *BranchHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	listReq.Normalize()

	result, err := h.branchService.List(c.Request.Context(), tenantID, partnerapp.ListBranchesQuery{
		Search:   listReq.Search,
		Status:   c.Query("status"),
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

// Update godoc
// @Summary      Update branch
// @Tags         branches
// @Accept       json
// @Produce      json
// @Param        id path string true "Branch ID"
// @Param        request body partnerapp.UpdateBranchRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=partnerapp.BranchResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /branches/{id} [put]
func (h *BranchHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	branchID, ok := h.pathBranchID(c)
	if !ok {
		return
	}

	var req partnerapp.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.branchService.Update(c.Request.Context(), tenantID, branchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// SetDefault godoc
// @Summary      Set default branch
// @Description  Make this the branch new sales and receipts default to
// @Tags         branches
// @Produce      json
// @Param        id path string true "Branch ID"
// @Success      200 {object} dto.Response{data=partnerapp.BranchResponse}
// @Security     BearerAuth
// @Router       /branches/{id}/default [post]
func (h *BranchHandler) SetDefault(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	branchID, ok := h.pathBranchID(c)
	if !ok {
		return
	}

	result, err := h.branchService.SetDefault(c.Request.Context(), tenantID, branchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Activate godoc
// @Summary      Activate branch
// @Tags         branches
// @Produce      json
// @Param        id path string true "Branch ID"
// @Success      200 {object} dto.Response{data=partnerapp.BranchResponse}
// @Security     BearerAuth
// @Router       /branches/{id}/activate [post]
func (h *BranchHandler) Activate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	branchID, ok := h.pathBranchID(c)
	if !ok {
		return
	}

	result, err := h.branchService.Activate(c.Request.Context(), tenantID, branchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Deactivate godoc
// @Summary      Deactivate branch
// @Tags         branches
// @Produce      json
// @Param        id path string true "Branch ID"
// @Success      200 {object} dto.Response{data=partnerapp.BranchResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /branches/{id}/deactivate [post]
func (h *BranchHandler) Deactivate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	branchID, ok := h.pathBranchID(c)
	if !ok {
		return
	}

	result, err := h.branchService.Deactivate(c.Request.Context(), tenantID, branchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete branch
// @Description  Only branches with no recorded activity can be deleted
// @Tags         branches
// @Param        id path string true "Branch ID"
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /branches/{id} [delete]
func (h *BranchHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	branchID, ok := h.pathBranchID(c)
	if !ok {
		return
	}

	if err := h.branchService.Delete(c.Request.Context(), tenantID, branchID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
