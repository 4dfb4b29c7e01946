package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/retailpos/backend/internal/application/identity"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

// UserHandler handles staff user management endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) pathUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return uuid.Nil, false
	}
	return id, true
}

// Create godoc
// @Summary      Create staff user
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        request body identityapp.CreateUserRequest true "New staff member"
// @Success      201 {object} dto.Response{data=identityapp.UserResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /staff [post]
func (h *UserHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var req identityapp.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.userService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get godoc
// @Summary      Get staff user
// @Tags         staff
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identityapp.UserResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /staff/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}

	result, err := h.userService.GetByID(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List staff users
// @Tags         staff
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        role query string false "Filter by role"
// @Param        status query string false "Filter by status"
// @Success      200 {object} dto.Response{data=identityapp.UserListResult}
// @Security     BearerAuth
// @Router       /staff [get]
func (h *UserHandler) List(c *gin.Context) {
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

	result, err := h.userService.List(c.Request.Context(), tenantID, identityapp.ListUsersQuery{
		Search:   listReq.Search,
		Role:     c.Query("role"),
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
// @Summary      Update staff profile
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body identityapp.UpdateUserRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=identityapp.UserResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /staff/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}

	var req identityapp.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.userService.Update(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ChangeRole godoc
// @Summary      Change staff role
// @Description  Owners cannot be demoted by anyone but themselves
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body identityapp.ChangeRoleRequest true "New role"
// @Success      200 {object} dto.Response{data=identityapp.UserResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /staff/{id}/role [put]
func (h *UserHandler) ChangeRole(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}

	var req identityapp.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.userService.ChangeRole(c.Request.Context(), tenantID, actorID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AssignBranch godoc
// @Summary      Assign staff to a branch
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body identityapp.AssignBranchRequest true "Branch assignment (null clears it)"
// @Success      200 {object} dto.Response{data=identityapp.UserResponse}
// @Security     BearerAuth
// @Router       /staff/{id}/branch [put]
func (h *UserHandler) AssignBranch(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}

	var req identityapp.AssignBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.userService.AssignBranch(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ResetPassword godoc
// @Summary      Reset staff password
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body identityapp.ResetPasswordRequest true "New password"
// @Success      204
// @Security     BearerAuth
// @Router       /staff/{id}/password [put]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}

	var req identityapp.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), tenantID, userID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate godoc
// @Summary      Activate staff user
// @Tags         staff
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identityapp.UserResponse}
// @Security     BearerAuth
// @Router       /staff/{id}/activate [post]
func (h *UserHandler) Activate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}

	result, err := h.userService.Activate(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Deactivate godoc
// @Summary      Deactivate staff user
// @Description  Deactivated staff cannot sign in; their history remains
// @Tags         staff
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identityapp.UserResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /staff/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}

	result, err := h.userService.Deactivate(c.Request.Context(), tenantID, actorID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete staff user
// @Tags         staff
// @Param        id path string true "User ID"
// @Success      204
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /staff/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), tenantID, actorID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
