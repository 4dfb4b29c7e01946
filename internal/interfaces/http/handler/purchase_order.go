package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	procurementapp "github.com/retailpos/backend/internal/application/procurement"
)

// PurchaseOrderHandler handles purchase order endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *procurementapp.PurchaseOrderService
}

func NewPurchaseOrderHandler(orderService *procurementapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService}
}

func (h *PurchaseOrderHandler) pathOrderID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID")
		return uuid.Nil, false
	}
	return id, true
}

// Create godoc
// @Summary      Create purchase order
// @Description  Drafts an order against a supplier; line costs default to the product's cost price
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        request body procurementapp.CreatePurchaseOrderRequest true "New order"
// @Success      201 {object} dto.Response{data=procurementapp.PurchaseOrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var req procurementapp.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.orderService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get godoc
// @Summary      Get purchase order
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID"
// @Success      200 {object} dto.Response{data=procurementapp.PurchaseOrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	orderID, ok := h.pathOrderID(c)
	if !ok {
		return
	}

	result, err := h.orderService.GetByID(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List purchase orders
// @Tags         purchase-orders
// @Produce      json
// @Param        search query string false "Search by order number or supplier"
// @Param        branch_id query string false "Filter by branch"
// @Param        status query string false "DRAFT, ISSUED, CLOSED, or CANCELLED"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]procurementapp.PurchaseOrderResponse}
// @Security     BearerAuth
// @Router       /purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var filter procurementapp.PurchaseOrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update purchase order
// @Description  Only draft orders can be edited
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID"
// @Param        request body procurementapp.UpdatePurchaseOrderRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=procurementapp.PurchaseOrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [put]
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	orderID, ok := h.pathOrderID(c)
	if !ok {
		return
	}

	var req procurementapp.UpdatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.orderService.Update(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AddItem godoc
// @Summary      Add order line
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID"
// @Param        request body procurementapp.PurchaseOrderItemRequest true "New line"
// @Success      200 {object} dto.Response{data=procurementapp.PurchaseOrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/items [post]
func (h *PurchaseOrderHandler) AddItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	orderID, ok := h.pathOrderID(c)
	if !ok {
		return
	}

	var req procurementapp.PurchaseOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.orderService.AddItem(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

type updateItemQuantityBody struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// UpdateItemQuantity godoc
// @Summary      Change order line quantity
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID"
// @Param        itemId path string true "Order line ID"
// @Param        request body updateItemQuantityBody true "New quantity"
// @Success      200 {object} dto.Response{data=procurementapp.PurchaseOrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/items/{itemId} [put]
func (h *PurchaseOrderHandler) UpdateItemQuantity(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	orderID, ok := h.pathOrderID(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid order line ID")
		return
	}

	var body updateItemQuantityBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.orderService.UpdateItemQuantity(c.Request.Context(), tenantID, orderID, itemID, body.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RemoveItem godoc
// @Summary      Remove order line
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID"
// @Param        itemId path string true "Order line ID"
// @Success      200 {object} dto.Response{data=procurementapp.PurchaseOrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/items/{itemId} [delete]
func (h *PurchaseOrderHandler) RemoveItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	orderID, ok := h.pathOrderID(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid order line ID")
		return
	}

	result, err := h.orderService.RemoveItem(c.Request.Context(), tenantID, orderID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Issue godoc
// @Summary      Issue purchase order
// @Description  Issuing locks the lines and makes the order receivable
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID"
// @Success      200 {object} dto.Response{data=procurementapp.PurchaseOrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/issue [post]
func (h *PurchaseOrderHandler) Issue(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	orderID, ok := h.pathOrderID(c)
	if !ok {
		return
	}

	result, err := h.orderService.Issue(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Close godoc
// @Summary      Close purchase order
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID"
// @Success      200 {object} dto.Response{data=procurementapp.PurchaseOrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/close [post]
func (h *PurchaseOrderHandler) Close(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	orderID, ok := h.pathOrderID(c)
	if !ok {
		return
	}

	result, err := h.orderService.Close(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel godoc
// @Summary      Cancel purchase order
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID"
// @Success      200 {object} dto.Response{data=procurementapp.PurchaseOrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	orderID, ok := h.pathOrderID(c)
	if !ok {
		return
	}

	result, err := h.orderService.Cancel(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete purchase order
// @Description  Only draft orders can be deleted
// @Tags         purchase-orders
// @Param        id path string true "Purchase order ID"
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [delete]
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	orderID, ok := h.pathOrderID(c)
	if !ok {
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), tenantID, orderID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
