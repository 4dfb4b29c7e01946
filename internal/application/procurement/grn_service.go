package procurement

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/procurement"
	"github.com/retailpos/backend/internal/domain/shared"
)

// GRNService handles the draft lifecycle of goods received notes.
// Confirmation, the operation that actually moves stock, lives in
// GRNConfirmationService.
type GRNService struct {
	grnRepo        procurement.GRNRepository
	orderRepo      procurement.PurchaseOrderRepository
	eventPublisher shared.EventPublisher
}

// NewGRNService creates a new GRNService
func NewGRNService(
	grnRepo procurement.GRNRepository,
	orderRepo procurement.PurchaseOrderRepository,
) *GRNService {
	return &GRNService{
		grnRepo:   grnRepo,
		orderRepo: orderRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *GRNService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishDomainEvents publishes all domain events from the GRN
func (s *GRNService) publishDomainEvents(ctx context.Context, grn *procurement.GoodsReceivedNote) {
	if s.eventPublisher == nil {
		return
	}
	events := grn.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	grn.ClearDomainEvents()
}

// Create drafts a GRN covering every line of an issued purchase order,
// with received quantities initialized to zero.
func (s *GRNService) Create(ctx context.Context, tenantID uuid.UUID, req CreateGRNRequest) (*GRNResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, req.PurchaseOrderID)
	if err != nil {
		return nil, err
	}

	grnNumber, err := s.grnRepo.NextGRNNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	grn, err := procurement.CreateFromPurchaseOrder(grnNumber, order)
	if err != nil {
		return nil, err
	}

	receivedDate := time.Time{}
	if req.ReceivedDate != nil {
		receivedDate = *req.ReceivedDate
	}
	if err := grn.UpdateDraft(nil, receivedDate, req.Notes); err != nil {
		return nil, err
	}

	if err := s.grnRepo.Save(ctx, grn); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, grn)

	response := ToGRNResponse(grn)
	return &response, nil
}

// GetByID retrieves a GRN with its lines
func (s *GRNService) GetByID(ctx context.Context, tenantID, grnID uuid.UUID) (*GRNResponse, error) {
	grn, err := s.grnRepo.FindByIDForTenant(ctx, tenantID, grnID)
	if err != nil {
		return nil, err
	}
	response := ToGRNResponse(grn)
	return &response, nil
}

// List retrieves GRNs with filtering and pagination
func (s *GRNService) List(ctx context.Context, tenantID uuid.UUID, filter GRNListFilter) ([]GRNResponse, int64, error) {
	domainFilter := buildListFilter(filter.Search, filter.BranchID, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)

	var (
		grns  []*procurement.GoodsReceivedNote
		total int64
		err   error
	)
	switch {
	case filter.Status != "":
		grns, total, err = s.grnRepo.FindByStatus(ctx, tenantID, procurement.GRNStatus(filter.Status), domainFilter)
	case filter.BranchID != nil:
		grns, total, err = s.grnRepo.FindByBranch(ctx, tenantID, *filter.BranchID, domainFilter)
	default:
		grns, total, err = s.grnRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	return ToGRNResponses(grns), total, nil
}

// Update corrects received quantities, date and notes while the GRN is
// still a draft
func (s *GRNService) Update(ctx context.Context, tenantID, grnID uuid.UUID, req UpdateGRNRequest) (*GRNResponse, error) {
	grn, err := s.grnRepo.FindByIDForTenant(ctx, tenantID, grnID)
	if err != nil {
		return nil, err
	}

	updates := make([]procurement.GRNItemUpdate, 0, len(req.Items))
	for _, item := range req.Items {
		updates = append(updates, procurement.GRNItemUpdate{
			ProductID:        item.ProductID,
			ReceivedQuantity: item.ReceivedQuantity,
		})
	}

	receivedDate := time.Time{}
	if req.ReceivedDate != nil {
		receivedDate = *req.ReceivedDate
	}
	if err := grn.UpdateDraft(updates, receivedDate, req.Notes); err != nil {
		return nil, err
	}

	if err := s.grnRepo.SaveWithLock(ctx, grn); err != nil {
		return nil, err
	}

	response := ToGRNResponse(grn)
	return &response, nil
}

// Delete removes a draft GRN. Confirmed GRNs are part of the audit
// trail and cannot be deleted.
func (s *GRNService) Delete(ctx context.Context, tenantID, grnID uuid.UUID) error {
	grn, err := s.grnRepo.FindByIDForTenant(ctx, tenantID, grnID)
	if err != nil {
		return err
	}
	if !grn.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a confirmed GRN")
	}

	return s.grnRepo.DeleteForTenant(ctx, tenantID, grnID)
}
