package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/retailpos/backend/internal/application/inventory"
)

// InventoryHandler handles stock level and audit trail endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// Get godoc
// @Summary      Get inventory item
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Inventory item ID"
// @Success      200 {object} dto.Response{data=inventoryapp.InventoryItemResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/{id} [get]
func (h *InventoryHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inventory item ID")
		return
	}

	result, err := h.inventoryService.GetByID(c.Request.Context(), tenantID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List inventory across branches
// @Tags         inventory
// @Produce      json
// @Param        search query string false "Search by SKU or name"
// @Param        product_id query string false "Filter by product"
// @Param        has_stock query bool false "Only items with stock on hand"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]inventoryapp.InventoryItemResponse}
// @Security     BearerAuth
// @Router       /inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var filter inventoryapp.InventoryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	items, total, err := h.inventoryService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// ListForBranch godoc
// @Summary      List inventory for a branch
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Branch ID"
// @Param        search query string false "Search by SKU or name"
// @Param        has_stock query bool false "Only items with stock on hand"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]inventoryapp.InventoryItemResponse}
// @Security     BearerAuth
// @Router       /branches/{id}/inventory [get]
func (h *InventoryHandler) ListForBranch(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	branchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid branch ID")
		return
	}

	var filter inventoryapp.InventoryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	items, total, err := h.inventoryService.GetForBranch(c.Request.Context(), tenantID, branchID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetForBranchAndProduct godoc
// @Summary      Get stock for a product at a branch
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Branch ID"
// @Param        productId path string true "Product ID"
// @Success      200 {object} dto.Response{data=inventoryapp.InventoryItemResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /branches/{id}/inventory/{productId} [get]
func (h *InventoryHandler) GetForBranchAndProduct(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	branchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid branch ID")
		return
	}
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	result, err := h.inventoryService.GetByBranchAndProduct(c.Request.Context(), tenantID, branchID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AdjustStock godoc
// @Summary      Adjust stock manually
// @Description  Records a correction with a mandatory reason; the adjustment shows up in the audit trail
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.AdjustStockRequest true "Adjustment"
// @Success      200 {object} dto.Response{data=inventoryapp.InventoryItemResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/adjustments [post]
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
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

	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.inventoryService.AdjustStock(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetAuditRecord godoc
// @Summary      Get audit record
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Audit record ID"
// @Success      200 {object} dto.Response{data=inventoryapp.AuditRecordResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/audit/{id} [get]
func (h *InventoryHandler) GetAuditRecord(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid audit record ID")
		return
	}

	result, err := h.inventoryService.GetAuditRecord(c.Request.Context(), tenantID, recordID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListAuditRecords godoc
// @Summary      List audit records
// @Description  Chronological stock movement trail, filterable by branch, product, action, and source
// @Tags         inventory
// @Produce      json
// @Param        branch_id query string false "Filter by branch"
// @Param        product_id query string false "Filter by product"
// @Param        action query string false "INCREASE or DECREASE"
// @Param        source query string false "GRN_CONFIRMATION, SALE, or MANUAL_ADJUSTMENT"
// @Param        start_date query string false "Start date (YYYY-MM-DD)"
// @Param        end_date query string false "End date (YYYY-MM-DD)"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]inventoryapp.AuditRecordResponse}
// @Security     BearerAuth
// @Router       /inventory/audit [get]
func (h *InventoryHandler) ListAuditRecords(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var filter inventoryapp.AuditListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	records, total, err := h.inventoryService.ListAuditRecords(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, records, total, filter.Page, filter.PageSize)
}

// ListAuditRecordsForSource godoc
// @Summary      List audit records for a source document
// @Description  All stock movements written by one GRN or sale
// @Tags         inventory
// @Produce      json
// @Param        referenceId path string true "Source document ID"
// @Success      200 {object} dto.Response{data=[]inventoryapp.AuditRecordResponse}
// @Security     BearerAuth
// @Router       /inventory/audit/source/{referenceId} [get]
func (h *InventoryHandler) ListAuditRecordsForSource(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	referenceID, err := uuid.Parse(c.Param("referenceId"))
	if err != nil {
		h.BadRequest(c, "Invalid reference ID")
		return
	}

	records, err := h.inventoryService.ListAuditRecordsForSource(c.Request.Context(), tenantID, referenceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}
