package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
)

// ProductService manages the tenant's product catalog. Creation is
// gated by the tenant's plan limit on product count.
type ProductService struct {
	productRepo    catalog.ProductRepository
	tenantRepo     identity.TenantRepository
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, tenantRepo identity.TenantRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		tenantRepo:  tenantRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishDomainEvents publishes all domain events from the product
func (s *ProductService) publishDomainEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	product.ClearDomainEvents()
}

// Create adds a product to the catalog
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	count, err := s.productRepo.CountForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.CanAddProduct(int(count)) {
		return nil, shared.ErrPlanLimitReached
	}

	sku := strings.ToUpper(strings.TrimSpace(req.SKU))
	exists, err := s.productRepo.ExistsBySKU(ctx, tenantID, sku)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("SKU_EXISTS", "A product with this SKU already exists")
	}

	product, err := catalog.NewProduct(tenantID, sku, req.Name, req.Unit)
	if err != nil {
		return nil, err
	}

	if req.Category != "" {
		if err := product.Update(req.Name, req.Unit, req.Category); err != nil {
			return nil, err
		}
	}
	if req.Barcode != "" {
		if err := product.SetBarcode(req.Barcode); err != nil {
			return nil, err
		}
	}
	if req.CostPrice != nil || req.SellPrice != nil {
		cost := product.CostPrice
		sell := product.SellPrice
		if req.CostPrice != nil {
			cost = *req.CostPrice
		}
		if req.SellPrice != nil {
			sell = *req.SellPrice
		}
		if err := product.SetPrices(cost, sell); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID returns one product
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetBySKU returns one product by its SKU
func (s *ProductService) GetBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, tenantID, strings.ToUpper(strings.TrimSpace(sku)))
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// ListProductsQuery filters the product list
type ListProductsQuery struct {
	Search   string
	Category string
	Status   string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// List returns the tenant's products
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, query ListProductsQuery) (*ProductListResult, error) {
	filter := buildListFilter(query.Search, query.Page, query.PageSize, query.OrderBy, query.OrderDir)
	if query.Category != "" {
		filter.Filters["category"] = query.Category
	}
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}

	products, total, err := s.productRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, ToProductResponse(product))
	}

	return &ProductListResult{
		Products:   responses,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages(total, filter.PageSize),
	}, nil
}

// Update changes a product's descriptive fields
func (s *ProductService) Update(ctx context.Context, tenantID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	name := product.Name
	unit := product.Unit
	category := product.Category
	if req.Name != nil {
		name = *req.Name
	}
	if req.Unit != nil {
		unit = *req.Unit
	}
	if req.Category != nil {
		category = *req.Category
	}
	if err := product.Update(name, unit, category); err != nil {
		return nil, err
	}
	if req.Barcode != nil {
		if err := product.SetBarcode(*req.Barcode); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// SetPrices changes a product's cost and sell prices
func (s *ProductService) SetPrices(ctx context.Context, tenantID, productID uuid.UUID, req SetPricesRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if err := product.SetPrices(req.CostPrice, req.SellPrice); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)

	resp := ToProductResponse(product)
	return &resp, nil
}

// Disable takes a product off sale. Inventory and history keep
// referring to it.
func (s *ProductService) Disable(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if err := product.Disable(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)

	resp := ToProductResponse(product)
	return &resp, nil
}

// Enable puts a disabled product back on sale
func (s *ProductService) Enable(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if err := product.Enable(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product from the catalog
func (s *ProductService) Delete(ctx context.Context, tenantID, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID); err != nil {
		return err
	}
	return s.productRepo.DeleteForTenant(ctx, tenantID, productID)
}
