package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
)

// StockIncrease is one line of a batch stock increase.
type StockIncrease struct {
	ProductID uuid.UUID
	SKU       string
	Name      string
	Quantity  decimal.Decimal
}

// BatchIncreaseResult reports the outcome of IncreaseStockBatch.
// CreatedProducts lists the SKUs for which a stock record had to be
// created because the product had never been stocked at the branch.
// Events carries the domain events raised by the mutated items so the
// caller can publish them once its transaction has committed.
type BatchIncreaseResult struct {
	Success         bool
	Errors          []string
	CreatedProducts []string
	Events          []shared.DomainEvent
}

// stockApplication pairs a resolved inventory item with the quantity to apply.
type stockApplication struct {
	item     *inventory.InventoryItem
	quantity decimal.Decimal
	created  bool
}

// InventoryService handles branch stock operations and the audit trail
type InventoryService struct {
	itemRepo       inventory.InventoryItemRepository
	auditRepo      inventory.InventoryAuditRecordRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	itemRepo inventory.InventoryItemRepository,
	auditRepo inventory.InventoryAuditRecordRepository,
	txScope TransactionScope,
) *InventoryService {
	return &InventoryService{
		itemRepo:  itemRepo,
		auditRepo: auditRepo,
		txScope:   txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvents publishes domain events after a successful commit.
// Errors are logged by the event bus, not propagated.
func (s *InventoryService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

// GetByID retrieves an inventory item by ID
func (s *InventoryService) GetByID(ctx context.Context, tenantID, itemID uuid.UUID) (*InventoryItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	response := ToInventoryItemResponse(item)
	return &response, nil
}

// GetByBranchAndProduct retrieves the stock record for a branch-product combination
func (s *InventoryService) GetByBranchAndProduct(ctx context.Context, tenantID, branchID, productID uuid.UUID) (*InventoryItemResponse, error) {
	item, err := s.itemRepo.FindByBranchAndProduct(ctx, tenantID, branchID, productID)
	if err != nil {
		return nil, err
	}
	response := ToInventoryItemResponse(item)
	return &response, nil
}

// GetForBranch retrieves the stock listing for a branch with filtering and pagination
func (s *InventoryService) GetForBranch(ctx context.Context, tenantID, branchID uuid.UUID, filter InventoryListFilter) ([]InventoryItemResponse, int64, error) {
	domainFilter := buildItemFilter(filter)

	items, total, err := s.itemRepo.FindByBranch(ctx, tenantID, branchID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInventoryItemResponses(items), total, nil
}

// List retrieves stock records across all branches of a tenant
func (s *InventoryService) List(ctx context.Context, tenantID uuid.UUID, filter InventoryListFilter) ([]InventoryItemResponse, int64, error) {
	domainFilter := buildItemFilter(filter)

	items, total, err := s.itemRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInventoryItemResponses(items), total, nil
}

// IncreaseStockBatch applies a batch of stock increases against a branch.
// Every line is resolved and validated before anything is mutated, so a
// bad line cannot leave the batch half-applied. Items are matched by
// product ID first and SKU second; a zero-stock record is created when
// the product has never been stocked at the branch.
//
// The method runs against the repository it is handed, which callers
// bind to their own transaction. It writes no audit records: the
// calling workflow owns the audit trail and its reference numbers.
func (s *InventoryService) IncreaseStockBatch(ctx context.Context, repo inventory.InventoryItemRepository, tenantID, branchID uuid.UUID, increases []StockIncrease) BatchIncreaseResult {
	result := BatchIncreaseResult{}

	if len(increases) == 0 {
		result.Errors = append(result.Errors, "No stock increases provided")
		return result
	}

	applications := make([]stockApplication, 0, len(increases))
	for _, inc := range increases {
		if inc.Quantity.LessThanOrEqual(decimal.Zero) {
			result.Errors = append(result.Errors, fmt.Sprintf("Invalid quantity %s for product %s", inc.Quantity.String(), inc.SKU))
			continue
		}

		item, created, err := s.resolveItem(ctx, repo, tenantID, branchID, inc)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to resolve inventory for product %s: %v", inc.SKU, err))
			continue
		}

		applications = append(applications, stockApplication{item: item, quantity: inc.Quantity, created: created})
	}
	if len(result.Errors) > 0 {
		return result
	}

	for _, app := range applications {
		if err := app.item.IncreaseStock(app.quantity); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to update inventory for product %s: %v", app.item.SKU, err))
			return result
		}

		var err error
		if app.created {
			err = repo.Save(ctx, app.item)
		} else {
			err = repo.SaveWithLock(ctx, app.item)
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to update inventory for product %s: %v", app.item.SKU, err))
			return result
		}

		result.Events = append(result.Events, app.item.GetDomainEvents()...)
		app.item.ClearDomainEvents()
		if app.created {
			result.CreatedProducts = append(result.CreatedProducts, app.item.SKU)
		}
	}

	result.Success = true
	return result
}

// resolveItem finds the stock record for a batch line, matching by
// product ID first and SKU second.
func (s *InventoryService) resolveItem(ctx context.Context, repo inventory.InventoryItemRepository, tenantID, branchID uuid.UUID, inc StockIncrease) (*inventory.InventoryItem, bool, error) {
	item, err := repo.FindByBranchAndProduct(ctx, tenantID, branchID, inc.ProductID)
	if err == nil {
		return item, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	if inc.SKU != "" {
		item, err = repo.FindByBranchAndSKU(ctx, tenantID, branchID, inc.SKU)
		if err == nil {
			return item, false, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, false, err
		}
	}

	item, err = inventory.NewInventoryItem(tenantID, branchID, inc.ProductID, inc.SKU, inc.Name)
	if err != nil {
		return nil, false, err
	}
	return item, true, nil
}

// AdjustStock applies a manual stock correction and writes the matching
// MANUAL_ADJUSTMENT audit record in the same transaction.
func (s *InventoryService) AdjustStock(ctx context.Context, tenantID uuid.UUID, req AdjustStockRequest, actor identity.Actor) (*InventoryItemResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, shared.NewDomainError("UNAUTHENTICATED", "Adjusting staff identity is required")
	}

	action := inventory.StockAction(req.Action)
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", "Invalid stock action")
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	var (
		response *InventoryItemResponse
		events   []shared.DomainEvent
	)

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.InventoryRepo().FindByBranchAndProduct(ctx, tenantID, req.BranchID, req.ProductID)
		if err != nil {
			return err
		}

		previousStock := item.Stock

		switch action {
		case inventory.StockActionIncrease:
			err = item.IncreaseStock(req.Quantity)
		case inventory.StockActionDecrease:
			err = item.DecreaseStock(req.Quantity)
		}
		if err != nil {
			return err
		}

		if err := repos.InventoryRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}

		record, err := inventory.NewInventoryAuditRecord(
			tenantID,
			item.BranchID,
			item.ProductID,
			item.SKU,
			item.Name,
			action,
			req.Quantity,
			previousStock,
			inventory.StockSourceManualAdjustment,
		)
		if err != nil {
			return err
		}
		record.WithPerformedBy(actor.ID, actor.Name, string(actor.Role)).
			WithNotes(req.Reason)

		if err := repos.AuditRepo().Create(ctx, record); err != nil {
			return err
		}

		events = item.GetDomainEvents()
		item.ClearDomainEvents()

		r := ToInventoryItemResponse(item)
		response = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)

	return response, nil
}

// GetAuditRecord retrieves a single audit record
func (s *InventoryService) GetAuditRecord(ctx context.Context, tenantID, recordID uuid.UUID) (*AuditRecordResponse, error) {
	record, err := s.auditRepo.FindByIDForTenant(ctx, tenantID, recordID)
	if err != nil {
		return nil, err
	}
	response := ToAuditRecordResponse(record)
	return &response, nil
}

// ListAuditRecords retrieves the audit trail with filtering and pagination
func (s *InventoryService) ListAuditRecords(ctx context.Context, tenantID uuid.UUID, filter AuditListFilter) ([]AuditRecordResponse, int64, error) {
	domainFilter := inventory.AuditRecordFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		BranchID:  filter.BranchID,
		ProductID: filter.ProductID,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}
	if domainFilter.OrderBy == "" {
		domainFilter.OrderBy = "recorded_at"
	}
	if domainFilter.OrderDir == "" {
		domainFilter.OrderDir = "desc"
	}

	if filter.Action != "" {
		action := inventory.StockAction(filter.Action)
		domainFilter.Action = &action
	}
	if filter.Source != "" {
		source := inventory.StockSource(filter.Source)
		domainFilter.Source = &source
	}

	records, total, err := s.auditRepo.FindForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToAuditRecordResponses(records), total, nil
}

// ListAuditRecordsForSource retrieves the audit records written for one
// source document, e.g. all records of a confirmed GRN.
func (s *InventoryService) ListAuditRecordsForSource(ctx context.Context, tenantID, referenceID uuid.UUID) ([]AuditRecordResponse, error) {
	records, err := s.auditRepo.FindBySourceReference(ctx, tenantID, referenceID)
	if err != nil {
		return nil, err
	}
	return ToAuditRecordResponses(records), nil
}

// buildItemFilter translates the API filter into a domain filter
func buildItemFilter(filter InventoryListFilter) shared.Filter {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}
	if domainFilter.OrderBy == "" {
		domainFilter.OrderBy = "updated_at"
	}
	if domainFilter.OrderDir == "" {
		domainFilter.OrderDir = "desc"
	}

	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.HasStock != nil {
		if *filter.HasStock {
			domainFilter.Filters["has_stock"] = true
		} else {
			domainFilter.Filters["no_stock"] = true
		}
	}

	return domainFilter
}
