package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	financeapp "github.com/retailpos/backend/internal/application/finance"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
)

// ExpenseHandler handles expense record endpoints, including the
// draft/submit/approve workflow and receipt scan storage.
type ExpenseHandler struct {
	BaseHandler
	expenseService *financeapp.ExpenseService
}

func NewExpenseHandler(expenseService *financeapp.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

func (h *ExpenseHandler) pathExpenseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return uuid.Nil, false
	}
	return id, true
}

// Create godoc
// @Summary      Create expense
// @Description  Records a draft expense attributed to a branch
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateExpenseRequest true "New expense"
// @Success      201 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req financeapp.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.expenseService.Create(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get godoc
// @Summary      Get expense
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      200 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	expenseID, ok := h.pathExpenseID(c)
	if !ok {
		return
	}

	result, err := h.expenseService.GetByID(c.Request.Context(), tenantID, expenseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

type listExpensesQuery struct {
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	BranchID  *uuid.UUID `form:"branch_id"`
	Category  string     `form:"category"`
	Status    string     `form:"status" binding:"omitempty,oneof=DRAFT PENDING_APPROVAL APPROVED REJECTED PAID CANCELLED"`
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02"`
}

// List godoc
// @Summary      List expenses
// @Tags         expenses
// @Produce      json
// @Param        branch_id query string false "Filter by branch"
// @Param        category query string false "Filter by category"
// @Param        status query string false "Filter by workflow status"
// @Param        start_date query string false "Start date (YYYY-MM-DD)"
// @Param        end_date query string false "End date (YYYY-MM-DD)"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]financeapp.ExpenseResponse}
// @Security     BearerAuth
// @Router       /expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var q listExpensesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	expenses, total, err := h.expenseService.List(c.Request.Context(), tenantID, financeapp.ListExpensesFilter{
		Page:      q.Page,
		PageSize:  q.PageSize,
		OrderBy:   q.OrderBy,
		OrderDir:  q.OrderDir,
		BranchID:  q.BranchID,
		Category:  q.Category,
		Status:    q.Status,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, expenses, total, q.Page, q.PageSize)
}

// ListPendingApproval godoc
// @Summary      List expenses awaiting approval
// @Tags         expenses
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]financeapp.ExpenseResponse}
// @Security     BearerAuth
// @Router       /expenses/pending-approval [get]
func (h *ExpenseHandler) ListPendingApproval(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var q listExpensesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	expenses, total, err := h.expenseService.ListPendingApproval(c.Request.Context(), tenantID, shared.Filter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, expenses, total, q.Page, q.PageSize)
}

// Update godoc
// @Summary      Update expense
// @Description  Only draft expenses can be edited
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID"
// @Param        request body financeapp.UpdateExpenseRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	expenseID, ok := h.pathExpenseID(c)
	if !ok {
		return
	}

	var req financeapp.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.expenseService.Update(c.Request.Context(), tenantID, expenseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Submit godoc
// @Summary      Submit expense for approval
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      200 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses/{id}/submit [post]
func (h *ExpenseHandler) Submit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	expenseID, ok := h.pathExpenseID(c)
	if !ok {
		return
	}
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.expenseService.Submit(c.Request.Context(), tenantID, expenseID, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Approve godoc
// @Summary      Approve expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID"
// @Param        request body financeapp.DecideExpenseRequest false "Approval note"
// @Success      200 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses/{id}/approve [post]
func (h *ExpenseHandler) Approve(c *gin.Context) {
	h.decide(c, h.expenseService.Approve)
}

// Reject godoc
// @Summary      Reject expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID"
// @Param        request body financeapp.DecideExpenseRequest false "Rejection note"
// @Success      200 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses/{id}/reject [post]
func (h *ExpenseHandler) Reject(c *gin.Context) {
	h.decide(c, h.expenseService.Reject)
}

// decide runs the shared approve/reject flow with the given transition
func (h *ExpenseHandler) decide(
	c *gin.Context,
	transition func(ctx context.Context, tenantID, expenseID uuid.UUID, req financeapp.DecideExpenseRequest, actor identity.Actor) (*financeapp.ExpenseResponse, error),
) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	expenseID, ok := h.pathExpenseID(c)
	if !ok {
		return
	}
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req financeapp.DecideExpenseRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, "Invalid request body")
			return
		}
	}

	result, err := transition(c.Request.Context(), tenantID, expenseID, req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel godoc
// @Summary      Cancel expense
// @Description  Draft and pending expenses can be cancelled by their submitter or a manager
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      200 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses/{id}/cancel [post]
func (h *ExpenseHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	expenseID, ok := h.pathExpenseID(c)
	if !ok {
		return
	}
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.expenseService.Cancel(c.Request.Context(), tenantID, expenseID, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Pay godoc
// @Summary      Mark expense as paid
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID"
// @Param        request body financeapp.PayExpenseRequest true "Payment method"
// @Success      200 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses/{id}/pay [post]
func (h *ExpenseHandler) Pay(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	expenseID, ok := h.pathExpenseID(c)
	if !ok {
		return
	}
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req financeapp.PayExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.expenseService.Pay(c.Request.Context(), tenantID, expenseID, req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RequestReceiptUpload godoc
// @Summary      Request receipt upload URL
// @Description  Issues a presigned URL the client PUTs the receipt scan to; the object key is recorded on the expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID"
// @Param        request body financeapp.AttachReceiptRequest true "Upload content type"
// @Success      200 {object} dto.Response{data=financeapp.ReceiptUploadResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses/{id}/receipt/upload [post]
func (h *ExpenseHandler) RequestReceiptUpload(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	expenseID, ok := h.pathExpenseID(c)
	if !ok {
		return
	}

	var req financeapp.AttachReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.expenseService.RequestReceiptUpload(c.Request.Context(), tenantID, expenseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetReceiptDownload godoc
// @Summary      Get receipt download URL
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      200 {object} dto.Response{data=financeapp.ReceiptDownloadResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses/{id}/receipt [get]
func (h *ExpenseHandler) GetReceiptDownload(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	expenseID, ok := h.pathExpenseID(c)
	if !ok {
		return
	}

	result, err := h.expenseService.GetReceiptDownload(c.Request.Context(), tenantID, expenseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete expense
// @Description  Only draft and cancelled expenses can be deleted
// @Tags         expenses
// @Param        id path string true "Expense ID"
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	expenseID, ok := h.pathExpenseID(c)
	if !ok {
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), tenantID, expenseID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
