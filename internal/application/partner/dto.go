package partner

import (
	"time"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/shared"
)

// CreateBranchRequest opens a new branch for the tenant
type CreateBranchRequest struct {
	Code    string `json:"code" binding:"required,max=50"`
	Name    string `json:"name" binding:"required,max=200"`
	Phone   string `json:"phone" binding:"omitempty,max=50"`
	Address string `json:"address"`
	City    string `json:"city" binding:"omitempty,max=100"`
	Notes   string `json:"notes"`
}

// UpdateBranchRequest changes a branch's profile fields
type UpdateBranchRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=200"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Address *string `json:"address"`
	City    *string `json:"city" binding:"omitempty,max=100"`
	Notes   *string `json:"notes"`
}

// BranchResponse represents a branch in API responses
type BranchResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	IsDefault bool      `json:"is_default"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToBranchResponse converts a domain branch to a response
func ToBranchResponse(branch *partner.Branch) BranchResponse {
	return BranchResponse{
		ID:        branch.ID,
		Code:      branch.Code,
		Name:      branch.Name,
		Status:    string(branch.Status),
		Phone:     branch.Phone,
		Address:   branch.Address,
		City:      branch.City,
		IsDefault: branch.IsDefault,
		Notes:     branch.Notes,
		CreatedAt: branch.CreatedAt,
		UpdatedAt: branch.UpdatedAt,
	}
}

// BranchListResult is a paginated branch list
type BranchListResult struct {
	Branches   []BranchResponse `json:"branches"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// CreateSupplierRequest registers a new supplier
type CreateSupplierRequest struct {
	Code        string `json:"code" binding:"required,max=50"`
	Name        string `json:"name" binding:"required,max=200"`
	ContactName string `json:"contact_name" binding:"omitempty,max=100"`
	Phone       string `json:"phone" binding:"omitempty,max=50"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	Address     string `json:"address"`
	Notes       string `json:"notes"`
}

// UpdateSupplierRequest changes a supplier's details
type UpdateSupplierRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=200"`
	ContactName *string `json:"contact_name" binding:"omitempty,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	Email       *string `json:"email" binding:"omitempty,email,max=200"`
	Address     *string `json:"address"`
	Notes       *string `json:"notes"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Address     string    `json:"address,omitempty"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToSupplierResponse converts a domain supplier to a response
func ToSupplierResponse(supplier *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:          supplier.ID,
		Code:        supplier.Code,
		Name:        supplier.Name,
		ContactName: supplier.ContactName,
		Phone:       supplier.Phone,
		Email:       supplier.Email,
		Address:     supplier.Address,
		Status:      string(supplier.Status),
		Notes:       supplier.Notes,
		CreatedAt:   supplier.CreatedAt,
		UpdatedAt:   supplier.UpdatedAt,
	}
}

// SupplierListResult is a paginated supplier list
type SupplierListResult struct {
	Suppliers  []SupplierResponse `json:"suppliers"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// buildListFilter applies the shared list defaults
func buildListFilter(search string, page, pageSize int, orderBy, orderDir string) shared.Filter {
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
	return f
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
