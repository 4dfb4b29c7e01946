package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	salesapp "github.com/retailpos/backend/internal/application/sales"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/infrastructure/printing"
)

// SaleHandler handles register checkout and sale lookup endpoints
type SaleHandler struct {
	BaseHandler
	checkoutService *salesapp.CheckoutService
	documentService *printing.DocumentService
	saleRepo        sales.SaleRepository
	tenantRepo      identity.TenantRepository
	branchRepo      partner.BranchRepository
}

func NewSaleHandler(
	checkoutService *salesapp.CheckoutService,
	documentService *printing.DocumentService,
	saleRepo sales.SaleRepository,
	tenantRepo identity.TenantRepository,
	branchRepo partner.BranchRepository,
) *SaleHandler {
	return &SaleHandler{
		checkoutService: checkoutService,
		documentService: documentService,
		saleRepo:        saleRepo,
		tenantRepo:      tenantRepo,
		branchRepo:      branchRepo,
	}
}

func (h *SaleHandler) pathSaleID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return uuid.Nil, false
	}
	return id, true
}

// Checkout godoc
// @Summary      Checkout a sale
// @Description  Completes a register sale atomically: decrements branch stock, writes audit records, and issues a receipt number
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        request body salesapp.CheckoutRequest true "Cart"
// @Success      201 {object} dto.Response{data=salesapp.SaleResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/checkout [post]
func (h *SaleHandler) Checkout(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	cashier, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req salesapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), tenantID, req, cashier)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Void godoc
// @Summary      Void a sale
// @Description  Voiding cancels a completed sale; stock is corrected separately with a manual adjustment
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "Sale ID"
// @Param        request body salesapp.VoidSaleRequest true "Void reason"
// @Success      200 {object} dto.Response{data=salesapp.SaleResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id}/void [post]
func (h *SaleHandler) Void(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	saleID, ok := h.pathSaleID(c)
	if !ok {
		return
	}
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req salesapp.VoidSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.checkoutService.VoidSale(c.Request.Context(), tenantID, saleID, req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Get godoc
// @Summary      Get sale
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID"
// @Success      200 {object} dto.Response{data=salesapp.SaleResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	saleID, ok := h.pathSaleID(c)
	if !ok {
		return
	}

	result, err := h.checkoutService.GetByID(c.Request.Context(), tenantID, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByReceiptNumber godoc
// @Summary      Get sale by receipt number
// @Tags         sales
// @Produce      json
// @Param        receiptNumber path string true "Receipt number"
// @Success      200 {object} dto.Response{data=salesapp.SaleResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/receipt/{receiptNumber} [get]
func (h *SaleHandler) GetByReceiptNumber(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	receiptNumber := c.Param("receiptNumber")
	if receiptNumber == "" {
		h.BadRequest(c, "Receipt number is required")
		return
	}

	result, err := h.checkoutService.GetByReceiptNumber(c.Request.Context(), tenantID, receiptNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

type listSalesQuery struct {
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	BranchID  *uuid.UUID `form:"branch_id"`
	CashierID *uuid.UUID `form:"cashier_id"`
	Status    string     `form:"status" binding:"omitempty,oneof=COMPLETED VOIDED"`
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02"`
}

// List godoc
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Param        branch_id query string false "Filter by branch"
// @Param        cashier_id query string false "Filter by cashier"
// @Param        status query string false "COMPLETED or VOIDED"
// @Param        start_date query string false "Start date (YYYY-MM-DD)"
// @Param        end_date query string false "End date (YYYY-MM-DD)"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]salesapp.SaleResponse}
// @Security     BearerAuth
// @Router       /sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var q listSalesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	salesList, total, err := h.checkoutService.List(c.Request.Context(), tenantID, salesapp.ListSalesFilter{
		Page:      q.Page,
		PageSize:  q.PageSize,
		OrderBy:   q.OrderBy,
		OrderDir:  q.OrderDir,
		BranchID:  q.BranchID,
		CashierID: q.CashierID,
		Status:    q.Status,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, salesList, total, q.Page, q.PageSize)
}

// Receipt godoc
// @Summary      Download receipt
// @Description  Renders the receipt for 80mm thermal paper as a PDF, or HTML when no renderer is configured
// @Tags         sales
// @Produce      application/pdf
// @Param        id path string true "Sale ID"
// @Success      200 {file} binary
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *gin.Context) {
	if h.documentService == nil {
		h.NotFound(c, "Receipt rendering is not available")
		return
	}

	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	saleID, ok := h.pathSaleID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	sale, err := h.saleRepo.FindByIDForTenant(ctx, tenantID, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	rc := printing.ReceiptContext{}
	if tenant, err := h.tenantRepo.FindByID(ctx, tenantID); err == nil {
		rc.TenantName = tenant.Name
	}
	if branch, err := h.branchRepo.FindByIDForTenant(ctx, tenantID, sale.BranchID); err == nil {
		rc.BranchName = branch.Name
		rc.BranchAddress = branch.Address
		rc.BranchPhone = branch.Phone
	}

	doc, err := h.documentService.RenderReceipt(ctx, sale, rc)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
