package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/procurement"
	"github.com/retailpos/backend/internal/domain/shared"
)

// PurchaseOrderService handles purchase order application logic
type PurchaseOrderService struct {
	orderRepo      procurement.PurchaseOrderRepository
	supplierRepo   partner.SupplierRepository
	branchRepo     partner.BranchRepository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo procurement.PurchaseOrderRepository,
	supplierRepo partner.SupplierRepository,
	branchRepo partner.BranchRepository,
	productRepo catalog.ProductRepository,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		branchRepo:   branchRepo,
		productRepo:  productRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishDomainEvents publishes all domain events from the order
func (s *PurchaseOrderService) publishDomainEvents(ctx context.Context, order *procurement.PurchaseOrder) {
	if s.eventPublisher == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	order.ClearDomainEvents()
}

// Create drafts a purchase order with its lines. Product SKU and name
// are denormalized onto the lines at creation time.
func (s *PurchaseOrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.IsActive() {
		return nil, shared.NewDomainError("INACTIVE_SUPPLIER", "Cannot order from a deactivated supplier")
	}

	branch, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, req.BranchID)
	if err != nil {
		return nil, err
	}

	orderNumber, err := s.orderRepo.NextOrderNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	order, err := procurement.NewPurchaseOrder(tenantID, orderNumber, supplier.ID, supplier.Name, branch.ID)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Items {
		product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, line.ProductID)
		if err != nil {
			return nil, err
		}

		unitCost := product.CostPrice
		if line.UnitCost != nil {
			unitCost = *line.UnitCost
		}
		if _, err := order.AddItem(product.ID, product.SKU, product.Name, line.Quantity, unitCost); err != nil {
			return nil, err
		}
	}

	if req.ExpectedDate != nil {
		if err := order.SetExpectedDate(*req.ExpectedDate); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		order.SetNotes(req.Notes)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order with its lines
func (s *PurchaseOrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, filter PurchaseOrderListFilter) ([]PurchaseOrderResponse, int64, error) {
	domainFilter := buildListFilter(filter.Search, filter.BranchID, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)

	var (
		orders []*procurement.PurchaseOrder
		total  int64
		err    error
	)
	if filter.Status != "" {
		orders, total, err = s.orderRepo.FindByStatus(ctx, tenantID, procurement.PurchaseOrderStatus(filter.Status), domainFilter)
	} else {
		orders, total, err = s.orderRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	return ToPurchaseOrderResponses(orders), total, nil
}

// Update changes the expected date and notes of a draft order
func (s *PurchaseOrderService) Update(ctx context.Context, tenantID, orderID uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if req.ExpectedDate != nil {
		if err := order.SetExpectedDate(*req.ExpectedDate); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		if !order.IsDraft() {
			return nil, shared.NewDomainError("INVALID_STATE", "Only draft orders can be modified")
		}
		order.SetNotes(*req.Notes)
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// AddItem appends a line to a draft order
func (s *PurchaseOrderService) AddItem(ctx context.Context, tenantID, orderID uuid.UUID, req PurchaseOrderItemRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, req.ProductID)
	if err != nil {
		return nil, err
	}

	unitCost := product.CostPrice
	if req.UnitCost != nil {
		unitCost = *req.UnitCost
	}
	if _, err := order.AddItem(product.ID, product.SKU, product.Name, req.Quantity, unitCost); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// UpdateItemQuantity changes the ordered quantity of a draft order line
func (s *PurchaseOrderService) UpdateItemQuantity(ctx context.Context, tenantID, orderID, itemID uuid.UUID, quantity decimal.Decimal) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateItemQuantity(itemID, quantity); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// RemoveItem drops a line from a draft order
func (s *PurchaseOrderService) RemoveItem(ctx context.Context, tenantID, orderID, itemID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Delete removes a draft order entirely
func (s *PurchaseOrderService) Delete(ctx context.Context, tenantID, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	if !order.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be deleted")
	}

	return s.orderRepo.DeleteForTenant(ctx, tenantID, orderID)
}

// Issue sends a draft order to the supplier. Issued orders accept
// goods received notes.
func (s *PurchaseOrderService) Issue(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Issue(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Close marks an issued order as fully handled
func (s *PurchaseOrderService) Close(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Close(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Cancel voids a draft or issued order
func (s *PurchaseOrderService) Cancel(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}
