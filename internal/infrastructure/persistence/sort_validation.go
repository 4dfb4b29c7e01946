package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// TenantSortFields contains allowed sort fields for tenants
var TenantSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"status":     true,
	"plan":       true,
	"expires_at": true,
}

// UserSortFields contains allowed sort fields for staff users
var UserSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"username":     true,
	"email":        true,
	"display_name": true,
	"role":         true,
	"status":       true,
}

// BranchSortFields contains allowed sort fields for branches
var BranchSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"status":     true,
	"city":       true,
	"is_default": true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"code":         true,
	"name":         true,
	"contact_name": true,
	"status":       true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"sku":        true,
	"barcode":    true,
	"name":       true,
	"category":   true,
	"cost_price": true,
	"sell_price": true,
	"status":     true,
}

// InventorySortFields contains allowed sort fields for inventory items
var InventorySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"branch_id":  true,
	"product_id": true,
	"sku":        true,
	"name":       true,
	"stock":      true,
	"cost_price": true,
}

// AuditRecordSortFields contains allowed sort fields for inventory audit records
var AuditRecordSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"recorded_at": true,
	"branch_id":   true,
	"product_id":  true,
	"product_sku": true,
	"action":      true,
	"source":      true,
	"quantity":    true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"order_number":  true,
	"supplier_id":   true,
	"supplier_name": true,
	"branch_id":     true,
	"status":        true,
	"total_amount":  true,
	"issued_at":     true,
}

// GRNSortFields contains allowed sort fields for goods received notes
var GRNSortFields = map[string]bool{
	"id":                    true,
	"created_at":            true,
	"updated_at":            true,
	"grn_number":            true,
	"purchase_order_number": true,
	"supplier_name":         true,
	"branch_id":             true,
	"status":                true,
	"received_date":         true,
	"confirmed_at":          true,
}

// SaleSortFields contains allowed sort fields for sales
var SaleSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"receipt_number": true,
	"branch_id":      true,
	"cashier_id":     true,
	"status":         true,
	"total_amount":   true,
	"payment_method": true,
	"sold_at":        true,
}

// ExpenseRecordSortFields contains allowed sort fields for expense records
var ExpenseRecordSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"expense_number": true,
	"branch_id":      true,
	"category":       true,
	"amount":         true,
	"status":         true,
	"payment_status": true,
	"incurred_at":    true,
}
