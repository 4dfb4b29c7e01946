package partner

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/shared"
)

// SupplierService manages the tenant's vendors
type SupplierService struct {
	supplierRepo partner.SupplierRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// Create registers a new supplier
func (s *SupplierService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	exists, err := s.supplierRepo.ExistsByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("SUPPLIER_CODE_EXISTS", "Supplier code already exists")
	}

	supplier, err := partner.NewSupplier(tenantID, code, req.Name)
	if err != nil {
		return nil, err
	}

	if req.ContactName != "" || req.Phone != "" || req.Email != "" || req.Address != "" {
		if err := supplier.Update(req.Name, req.ContactName, req.Phone, req.Email, req.Address); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		supplier.Notes = req.Notes
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// GetByID returns one supplier
func (s *SupplierService) GetByID(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// ListSuppliersQuery filters the supplier list
type ListSuppliersQuery struct {
	Search   string
	Status   string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// List returns the tenant's suppliers
func (s *SupplierService) List(ctx context.Context, tenantID uuid.UUID, query ListSuppliersQuery) (*SupplierListResult, error) {
	filter := buildListFilter(query.Search, query.Page, query.PageSize, query.OrderBy, query.OrderDir)
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}

	suppliers, err := s.supplierRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.supplierRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		responses = append(responses, ToSupplierResponse(&suppliers[i]))
	}

	return &SupplierListResult{
		Suppliers:  responses,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages(total, filter.PageSize),
	}, nil
}

// Update changes a supplier's details
func (s *SupplierService) Update(ctx context.Context, tenantID, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}

	name := supplier.Name
	contactName := supplier.ContactName
	phone := supplier.Phone
	email := supplier.Email
	address := supplier.Address
	if req.Name != nil {
		name = *req.Name
	}
	if req.ContactName != nil {
		contactName = *req.ContactName
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Address != nil {
		address = *req.Address
	}
	if err := supplier.Update(name, contactName, phone, email, address); err != nil {
		return nil, err
	}
	if req.Notes != nil {
		supplier.Notes = *req.Notes
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Activate re-enables an inactive supplier
func (s *SupplierService) Activate(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}

	if err := supplier.Activate(); err != nil {
		return nil, err
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Deactivate blocks the supplier from new purchase orders
func (s *SupplierService) Deactivate(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}

	if err := supplier.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Delete removes a supplier
func (s *SupplierService) Delete(ctx context.Context, tenantID, supplierID uuid.UUID) error {
	if _, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID); err != nil {
		return err
	}
	return s.supplierRepo.DeleteForTenant(ctx, tenantID, supplierID)
}
