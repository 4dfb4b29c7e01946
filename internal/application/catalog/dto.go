package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
)

// CreateProductRequest adds a product to the catalog
type CreateProductRequest struct {
	SKU       string           `json:"sku" binding:"required,max=50"`
	Name      string           `json:"name" binding:"required,max=200"`
	Unit      string           `json:"unit" binding:"required,max=20"`
	Category  string           `json:"category" binding:"omitempty,max=100"`
	Barcode   string           `json:"barcode" binding:"omitempty,max=50"`
	CostPrice *decimal.Decimal `json:"cost_price"`
	SellPrice *decimal.Decimal `json:"sell_price"`
}

// UpdateProductRequest changes a product's descriptive fields
type UpdateProductRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=200"`
	Unit     *string `json:"unit" binding:"omitempty,max=20"`
	Category *string `json:"category" binding:"omitempty,max=100"`
	Barcode  *string `json:"barcode" binding:"omitempty,max=50"`
}

// SetPricesRequest changes a product's cost and sell prices
type SetPricesRequest struct {
	CostPrice decimal.Decimal `json:"cost_price" binding:"required"`
	SellPrice decimal.Decimal `json:"sell_price" binding:"required"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID        uuid.UUID       `json:"id"`
	SKU       string          `json:"sku"`
	Barcode   string          `json:"barcode,omitempty"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Category  string          `json:"category,omitempty"`
	CostPrice decimal.Decimal `json:"cost_price"`
	SellPrice decimal.Decimal `json:"sell_price"`
	Margin    decimal.Decimal `json:"margin"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain product to a response
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:        product.ID,
		SKU:       product.SKU,
		Barcode:   product.Barcode,
		Name:      product.Name,
		Unit:      product.Unit,
		Category:  product.Category,
		CostPrice: product.CostPrice,
		SellPrice: product.SellPrice,
		Margin:    product.Margin(),
		Status:    string(product.Status),
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}

// ProductListResult is a paginated product list
type ProductListResult struct {
	Products   []ProductResponse `json:"products"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
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
