package procurement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	inventoryapp "github.com/retailpos/backend/internal/application/inventory"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/procurement"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/telemetry"
)

// Result codes returned by ConfirmGRN. Failures are classified, never
// panicked or propagated as bare errors.
const (
	CodeNotFound              = "NOT_FOUND"
	CodeAlreadyProcessed      = "ALREADY_PROCESSED"
	CodeUnauthenticated       = "UNAUTHENTICATED"
	CodeNoReceivedItems       = "NO_RECEIVED_ITEMS"
	CodeInventoryUpdateFailed = "INVENTORY_UPDATE_FAILED"
	CodeInternalError         = "INTERNAL_ERROR"
)

// ConfirmGRNResult is the outcome of a confirmation attempt. Code is
// empty on success and carries one of the Code* constants on failure.
type ConfirmGRNResult struct {
	Success         bool     `json:"success"`
	Code            string   `json:"code,omitempty"`
	Message         string   `json:"message"`
	ProductsUpdated int      `json:"products_updated"`
	ProductsCreated int      `json:"products_created"`
	Errors          []string `json:"errors"`
}

// StockBatchIncreaser applies a batch of stock increases against a
// branch through a caller-supplied repository. The inventory
// application service is the production implementation.
type StockBatchIncreaser interface {
	IncreaseStockBatch(ctx context.Context, repo inventory.InventoryItemRepository, tenantID, branchID uuid.UUID, increases []inventoryapp.StockIncrease) inventoryapp.BatchIncreaseResult
}

// errBatchFailed signals a rollback after IncreaseStockBatch reported
// per-item failures. The per-item errors travel in the batch result,
// not in this sentinel.
var errBatchFailed = errors.New("stock batch was not applied")

// GRNConfirmationService executes the confirmation workflow: it turns a
// draft GRN into the branch's stock increase, exactly once.
//
// The workflow holds a per-GRN advisory lock while it runs and wraps
// the stock mutation, the status flip, and the audit records in one
// database transaction, in that order. A GRN therefore either becomes
// Confirmed with its stock applied and audited, or stays Draft with no
// trace.
type GRNConfirmationService struct {
	grnRepo        procurement.GRNRepository
	branchRepo     partner.BranchRepository
	stockIncreaser StockBatchIncreaser
	txScope        TransactionScope
	locker         ConfirmationLocker
	eventPublisher shared.EventPublisher
}

// NewGRNConfirmationService creates a new GRNConfirmationService
func NewGRNConfirmationService(
	grnRepo procurement.GRNRepository,
	branchRepo partner.BranchRepository,
	stockIncreaser StockBatchIncreaser,
	txScope TransactionScope,
	locker ConfirmationLocker,
) *GRNConfirmationService {
	return &GRNConfirmationService{
		grnRepo:        grnRepo,
		branchRepo:     branchRepo,
		stockIncreaser: stockIncreaser,
		txScope:        txScope,
		locker:         locker,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *GRNConfirmationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ConfirmGRN confirms a draft GRN and applies its received quantities
// to branch stock. All failures come back as a classified result; the
// method never returns an error.
func (s *GRNConfirmationService) ConfirmGRN(ctx context.Context, tenantID, grnID uuid.UUID, actor identity.Actor) ConfirmGRNResult {
	ctx, span := telemetry.StartServiceSpan(ctx, "grn", "confirm",
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, tenantID.String()),
	)
	defer span.End()

	result := s.confirm(ctx, tenantID, grnID, actor)
	if result.Success {
		telemetry.SetOK(span)
	} else {
		telemetry.SetAttribute(span, "result_code", result.Code)
		telemetry.RecordError(span, errors.New(result.Message))
	}
	return result
}

func (s *GRNConfirmationService) confirm(ctx context.Context, tenantID, grnID uuid.UUID, actor identity.Actor) ConfirmGRNResult {
	release, err := s.locker.Obtain(ctx, tenantID, grnID)
	if err != nil {
		if errors.Is(err, ErrConfirmationInProgress) {
			return failureResult(CodeAlreadyProcessed, "GRN confirmation already in progress", nil)
		}
		return internalErrorResult(err)
	}
	defer release()

	// Preconditions, checked in order before any state is touched.
	grn, err := s.grnRepo.FindByIDForTenant(ctx, tenantID, grnID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return failureResult(CodeNotFound, "GRN not found", nil)
		}
		return internalErrorResult(err)
	}

	telemetry.SetAttributes(telemetry.SpanFromContext(ctx),
		telemetry.SpanAttrGRNNumber, grn.GRNNumber,
		telemetry.SpanAttrBranchID, grn.BranchID.String(),
	)

	if !grn.IsDraft() {
		return failureResult(CodeAlreadyProcessed, fmt.Sprintf("GRN has already been processed (status: %s)", grn.Status), nil)
	}

	if !actor.IsAuthenticated() {
		return failureResult(CodeUnauthenticated, "Confirming staff identity is required", nil)
	}

	if !grn.HasReceivedItems() {
		return failureResult(CodeNoReceivedItems, "No items received to update inventory", nil)
	}

	branch, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, grn.BranchID)
	if err != nil {
		return internalErrorResult(err)
	}

	// Receive-driven accounting: only lines that actually arrived move
	// stock. Ordered quantities never do.
	receivedItems := grn.ReceivedItems()
	increases := make([]inventoryapp.StockIncrease, 0, len(receivedItems))
	for _, item := range receivedItems {
		increases = append(increases, inventoryapp.StockIncrease{
			ProductID: item.ProductID,
			SKU:       item.ProductSKU,
			Name:      item.ProductName,
			Quantity:  item.ReceivedQuantity,
		})
	}

	var batch inventoryapp.BatchIncreaseResult
	txErr := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		// Pre-update stock levels, captured before anything moves, feed
		// the previous/new arithmetic on the audit records.
		snapshotItems, err := repos.InventoryRepo().SnapshotBranch(ctx, tenantID, grn.BranchID)
		if err != nil {
			return err
		}
		snapshot := newStockSnapshot(snapshotItems)

		batch = s.stockIncreaser.IncreaseStockBatch(ctx, repos.InventoryRepo(), tenantID, grn.BranchID, increases)
		if !batch.Success {
			return errBatchFailed
		}

		// Stock has moved; only now flip Draft to Confirmed.
		if err := grn.Confirm(actor.ID); err != nil {
			return err
		}
		if err := repos.GRNRepo().SaveWithLock(ctx, grn); err != nil {
			return err
		}

		records := make([]*inventory.InventoryAuditRecord, 0, len(increases))
		for _, inc := range increases {
			record, err := inventory.NewInventoryAuditRecord(
				tenantID,
				grn.BranchID,
				inc.ProductID,
				inc.SKU,
				inc.Name,
				inventory.StockActionIncrease,
				inc.Quantity,
				snapshot.previousStock(inc.ProductID, inc.SKU),
				inventory.StockSourceGRNConfirmation,
			)
			if err != nil {
				return err
			}
			record.WithSourceReference(grn.ID, grn.GRNNumber).
				WithPerformedBy(actor.ID, actor.Name, string(actor.Role)).
				WithNotes(fmt.Sprintf("Stock received at %s via GRN %s (PO: %s)", branch.Name, grn.GRNNumber, grn.PurchaseOrderNumber))
			records = append(records, record)
		}
		if err := repos.AuditRepo().CreateBatch(ctx, records); err != nil {
			return err
		}

		return nil
	})
	if txErr != nil {
		switch {
		case errors.Is(txErr, errBatchFailed):
			return failureResult(CodeInventoryUpdateFailed, "Inventory update failed", batch.Errors)
		case errors.Is(txErr, shared.ErrConcurrencyConflict):
			return failureResult(CodeAlreadyProcessed, "GRN was confirmed by another request", nil)
		default:
			var domainErr *shared.DomainError
			if errors.As(txErr, &domainErr) && domainErr.Code == CodeAlreadyProcessed {
				return failureResult(CodeAlreadyProcessed, domainErr.Message, nil)
			}
			return internalErrorResult(txErr)
		}
	}

	// Events go out only once the commit has made the changes durable.
	s.publishEvents(ctx, grn, batch.Events)

	created := len(batch.CreatedProducts)
	return ConfirmGRNResult{
		Success:         true,
		Message:         fmt.Sprintf("GRN %s confirmed successfully", grn.GRNNumber),
		ProductsUpdated: len(increases) - created,
		ProductsCreated: created,
		Errors:          []string{},
	}
}

// publishEvents publishes the GRN's own events plus the stock movement
// events collected by the batch increase
func (s *GRNConfirmationService) publishEvents(ctx context.Context, grn *procurement.GoodsReceivedNote, stockEvents []shared.DomainEvent) {
	grnEvents := grn.GetDomainEvents()
	grn.ClearDomainEvents()

	if s.eventPublisher == nil {
		return
	}

	events := make([]shared.DomainEvent, 0, len(grnEvents)+len(stockEvents))
	events = append(events, grnEvents...)
	events = append(events, stockEvents...)
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

// stockSnapshot resolves pre-update stock levels, matching by product
// ID first and SKU second, defaulting to zero for products that had no
// stock record at the branch.
type stockSnapshot struct {
	byProduct map[uuid.UUID]decimal.Decimal
	bySKU     map[string]decimal.Decimal
}

func newStockSnapshot(items []*inventory.InventoryItem) *stockSnapshot {
	s := &stockSnapshot{
		byProduct: make(map[uuid.UUID]decimal.Decimal, len(items)),
		bySKU:     make(map[string]decimal.Decimal, len(items)),
	}
	for _, item := range items {
		s.byProduct[item.ProductID] = item.Stock
		if item.SKU != "" {
			s.bySKU[item.SKU] = item.Stock
		}
	}
	return s
}

func (s *stockSnapshot) previousStock(productID uuid.UUID, sku string) decimal.Decimal {
	if stock, ok := s.byProduct[productID]; ok {
		return stock
	}
	if stock, ok := s.bySKU[sku]; ok {
		return stock
	}
	return decimal.Zero
}

func failureResult(code, message string, errs []string) ConfirmGRNResult {
	if errs == nil {
		errs = []string{}
	}
	return ConfirmGRNResult{
		Success: false,
		Code:    code,
		Message: message,
		Errors:  errs,
	}
}

func internalErrorResult(err error) ConfirmGRNResult {
	return failureResult(CodeInternalError, fmt.Sprintf("GRN confirmation failed: %v", err), nil)
}
