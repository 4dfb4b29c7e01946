package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/inventory"
)

// InventoryItemResponse represents a branch stock record in API responses
type InventoryItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	TenantID   uuid.UUID       `json:"tenant_id"`
	BranchID   uuid.UUID       `json:"branch_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Stock      decimal.Decimal `json:"stock"`
	CostPrice  decimal.Decimal `json:"cost_price"`
	StockValue decimal.Decimal `json:"stock_value"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Version    int             `json:"version"`
}

// ToInventoryItemResponse converts a domain inventory item to a response
func ToInventoryItemResponse(item *inventory.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ID:         item.ID,
		TenantID:   item.TenantID,
		BranchID:   item.BranchID,
		ProductID:  item.ProductID,
		SKU:        item.SKU,
		Name:       item.Name,
		Stock:      item.Stock,
		CostPrice:  item.CostPrice,
		StockValue: item.StockValue(),
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
		Version:    item.Version,
	}
}

// ToInventoryItemResponses converts a slice of domain inventory items
func ToInventoryItemResponses(items []*inventory.InventoryItem) []InventoryItemResponse {
	responses := make([]InventoryItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, ToInventoryItemResponse(item))
	}
	return responses
}

// InventoryListFilter represents filter options for inventory listings
type InventoryListFilter struct {
	Search    string     `form:"search"`
	ProductID *uuid.UUID `form:"product_id"`
	HasStock  *bool      `form:"has_stock"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AdjustStockRequest represents a manual stock correction
type AdjustStockRequest struct {
	BranchID  uuid.UUID       `json:"branch_id" binding:"required"`
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Action    string          `json:"action" binding:"required,oneof=INCREASE DECREASE"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Reason    string          `json:"reason" binding:"required,min=1,max=255"`
}

// AuditRecordResponse represents an audit trail entry in API responses
type AuditRecordResponse struct {
	ID                    uuid.UUID       `json:"id"`
	BranchID              uuid.UUID       `json:"branch_id"`
	ProductID             uuid.UUID       `json:"product_id"`
	ProductSKU            string          `json:"product_sku"`
	ProductName           string          `json:"product_name"`
	Action                string          `json:"action"`
	Quantity              decimal.Decimal `json:"quantity"`
	SignedQuantity        decimal.Decimal `json:"signed_quantity"`
	PreviousStock         decimal.Decimal `json:"previous_stock"`
	NewStock              decimal.Decimal `json:"new_stock"`
	Source                string          `json:"source"`
	SourceReferenceID     *uuid.UUID      `json:"source_reference_id,omitempty"`
	SourceReferenceNumber string          `json:"source_reference_number,omitempty"`
	PerformedByStaffID    *uuid.UUID      `json:"performed_by_staff_id,omitempty"`
	PerformedByStaffName  string          `json:"performed_by_staff_name,omitempty"`
	PerformedByStaffRole  string          `json:"performed_by_staff_role,omitempty"`
	Notes                 string          `json:"notes,omitempty"`
	RecordedAt            time.Time       `json:"recorded_at"`
}

// ToAuditRecordResponse converts a domain audit record to a response
func ToAuditRecordResponse(record *inventory.InventoryAuditRecord) AuditRecordResponse {
	return AuditRecordResponse{
		ID:                    record.ID,
		BranchID:              record.BranchID,
		ProductID:             record.ProductID,
		ProductSKU:            record.ProductSKU,
		ProductName:           record.ProductName,
		Action:                record.Action.String(),
		Quantity:              record.Quantity,
		SignedQuantity:        record.SignedQuantity(),
		PreviousStock:         record.PreviousStock,
		NewStock:              record.NewStock,
		Source:                record.Source.String(),
		SourceReferenceID:     record.SourceReferenceID,
		SourceReferenceNumber: record.SourceReferenceNumber,
		PerformedByStaffID:    record.PerformedByStaffID,
		PerformedByStaffName:  record.PerformedByStaffName,
		PerformedByStaffRole:  record.PerformedByStaffRole,
		Notes:                 record.Notes,
		RecordedAt:            record.RecordedAt,
	}
}

// ToAuditRecordResponses converts a slice of domain audit records
func ToAuditRecordResponses(records []*inventory.InventoryAuditRecord) []AuditRecordResponse {
	responses := make([]AuditRecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, ToAuditRecordResponse(record))
	}
	return responses
}

// AuditListFilter represents filter options for the audit trail
type AuditListFilter struct {
	BranchID  *uuid.UUID `form:"branch_id"`
	ProductID *uuid.UUID `form:"product_id"`
	Action    string     `form:"action" binding:"omitempty,oneof=INCREASE DECREASE"`
	Source    string     `form:"source" binding:"omitempty,oneof=GRN_CONFIRMATION SALE MANUAL_ADJUSTMENT"`
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
