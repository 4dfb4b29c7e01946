package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/procurement"
	"github.com/retailpos/backend/internal/domain/shared"
)

// PurchaseOrderItemRequest is one line of a purchase order
type PurchaseOrderItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitCost  *decimal.Decimal `json:"unit_cost"` // defaults to the product's cost price
}

// CreatePurchaseOrderRequest creates a draft purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID   uuid.UUID                  `json:"supplier_id" binding:"required"`
	BranchID     uuid.UUID                  `json:"branch_id" binding:"required"`
	ExpectedDate *time.Time                 `json:"expected_date"`
	Notes        string                     `json:"notes" binding:"max=500"`
	Items        []PurchaseOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdatePurchaseOrderRequest updates a draft purchase order
type UpdatePurchaseOrderRequest struct {
	ExpectedDate *time.Time `json:"expected_date"`
	Notes        *string    `json:"notes" binding:"omitempty,max=500"`
}

// PurchaseOrderItemResponse represents an order line in API responses
type PurchaseOrderItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductSKU      string          `json:"product_sku"`
	ProductName     string          `json:"product_name"`
	OrderedQuantity decimal.Decimal `json:"ordered_quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	Amount          decimal.Decimal `json:"amount"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID           uuid.UUID                   `json:"id"`
	TenantID     uuid.UUID                   `json:"tenant_id"`
	OrderNumber  string                      `json:"order_number"`
	SupplierID   uuid.UUID                   `json:"supplier_id"`
	SupplierName string                      `json:"supplier_name"`
	BranchID     uuid.UUID                   `json:"branch_id"`
	Status       string                      `json:"status"`
	Items        []PurchaseOrderItemResponse `json:"items"`
	TotalAmount  decimal.Decimal             `json:"total_amount"`
	ExpectedDate *time.Time                  `json:"expected_date,omitempty"`
	Notes        string                      `json:"notes,omitempty"`
	IssuedAt     *time.Time                  `json:"issued_at,omitempty"`
	ClosedAt     *time.Time                  `json:"closed_at,omitempty"`
	CancelledAt  *time.Time                  `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
	Version      int                         `json:"version"`
}

// ToPurchaseOrderResponse converts a domain purchase order to a response
func ToPurchaseOrderResponse(order *procurement.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, PurchaseOrderItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductSKU:      item.ProductSKU,
			ProductName:     item.ProductName,
			OrderedQuantity: item.OrderedQuantity,
			UnitCost:        item.UnitCost,
			Amount:          item.Amount,
		})
	}

	return PurchaseOrderResponse{
		ID:           order.ID,
		TenantID:     order.TenantID,
		OrderNumber:  order.OrderNumber,
		SupplierID:   order.SupplierID,
		SupplierName: order.SupplierName,
		BranchID:     order.BranchID,
		Status:       order.Status.String(),
		Items:        items,
		TotalAmount:  order.TotalAmount,
		ExpectedDate: order.ExpectedDate,
		Notes:        order.Notes,
		IssuedAt:     order.IssuedAt,
		ClosedAt:     order.ClosedAt,
		CancelledAt:  order.CancelledAt,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
		Version:      order.Version,
	}
}

// ToPurchaseOrderResponses converts a slice of domain purchase orders
func ToPurchaseOrderResponses(orders []*procurement.PurchaseOrder) []PurchaseOrderResponse {
	responses := make([]PurchaseOrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, ToPurchaseOrderResponse(order))
	}
	return responses
}

// PurchaseOrderListFilter represents filter options for order listings
type PurchaseOrderListFilter struct {
	Search   string     `form:"search"`
	BranchID *uuid.UUID `form:"branch_id"`
	Status   string     `form:"status" binding:"omitempty,oneof=DRAFT ISSUED CLOSED CANCELLED"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CreateGRNRequest drafts a goods received note against an issued order
type CreateGRNRequest struct {
	PurchaseOrderID uuid.UUID  `json:"purchase_order_id" binding:"required"`
	ReceivedDate    *time.Time `json:"received_date"`
	Notes           string     `json:"notes" binding:"max=500"`
}

// GRNItemUpdateRequest corrects the received quantity of one GRN line
type GRNItemUpdateRequest struct {
	ProductID        uuid.UUID       `json:"product_id" binding:"required"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
}

// UpdateGRNRequest updates a draft goods received note
type UpdateGRNRequest struct {
	Items        []GRNItemUpdateRequest `json:"items" binding:"omitempty,dive"`
	ReceivedDate *time.Time             `json:"received_date"`
	Notes        string                 `json:"notes" binding:"max=500"`
}

// GRNItemResponse represents a GRN line in API responses
type GRNItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductSKU       string          `json:"product_sku"`
	ProductName      string          `json:"product_name"`
	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
}

// GRNResponse represents a goods received note in API responses
type GRNResponse struct {
	ID                  uuid.UUID         `json:"id"`
	TenantID            uuid.UUID         `json:"tenant_id"`
	GRNNumber           string            `json:"grn_number"`
	PurchaseOrderNumber string            `json:"purchase_order_number"`
	SupplierName        string            `json:"supplier_name,omitempty"`
	BranchID            uuid.UUID         `json:"branch_id"`
	Status              string            `json:"status"`
	Items               []GRNItemResponse `json:"items"`
	ReceivedDate        time.Time         `json:"received_date"`
	Notes               string            `json:"notes,omitempty"`
	ConfirmedAt         *time.Time        `json:"confirmed_at,omitempty"`
	ConfirmedBy         *uuid.UUID        `json:"confirmed_by,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
	Version             int               `json:"version"`
}

// ToGRNResponse converts a domain GRN to a response
func ToGRNResponse(grn *procurement.GoodsReceivedNote) GRNResponse {
	items := make([]GRNItemResponse, 0, len(grn.Items))
	for _, item := range grn.Items {
		items = append(items, GRNItemResponse{
			ID:               item.ID,
			ProductID:        item.ProductID,
			ProductSKU:       item.ProductSKU,
			ProductName:      item.ProductName,
			OrderedQuantity:  item.OrderedQuantity,
			ReceivedQuantity: item.ReceivedQuantity,
		})
	}

	return GRNResponse{
		ID:                  grn.ID,
		TenantID:            grn.TenantID,
		GRNNumber:           grn.GRNNumber,
		PurchaseOrderNumber: grn.PurchaseOrderNumber,
		SupplierName:        grn.SupplierName,
		BranchID:            grn.BranchID,
		Status:              grn.Status.String(),
		Items:               items,
		ReceivedDate:        grn.ReceivedDate,
		Notes:               grn.Notes,
		ConfirmedAt:         grn.ConfirmedAt,
		ConfirmedBy:         grn.ConfirmedBy,
		CreatedAt:           grn.CreatedAt,
		UpdatedAt:           grn.UpdatedAt,
		Version:             grn.Version,
	}
}

// ToGRNResponses converts a slice of domain GRNs
func ToGRNResponses(grns []*procurement.GoodsReceivedNote) []GRNResponse {
	responses := make([]GRNResponse, 0, len(grns))
	for _, grn := range grns {
		responses = append(responses, ToGRNResponse(grn))
	}
	return responses
}

// GRNListFilter represents filter options for GRN listings
type GRNListFilter struct {
	Search   string     `form:"search"`
	BranchID *uuid.UUID `form:"branch_id"`
	Status   string     `form:"status" binding:"omitempty,oneof=DRAFT CONFIRMED"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// buildListFilter applies the shared list defaults
func buildListFilter(search string, branchID *uuid.UUID, page, pageSize int, orderBy, orderDir string) shared.Filter {
	f := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Search:   search,
		Filters:  make(map[string]interface{}),
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	if f.OrderBy == "" {
		f.OrderBy = "created_at"
	}
	if f.OrderDir == "" {
		f.OrderDir = "desc"
	}
	if branchID != nil {
		f.Filters["branch_id"] = *branchID
	}
	return f
}
