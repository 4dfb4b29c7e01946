package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/telemetry"
)

// receiptAllocationAttempts bounds how many times a checkout re-runs
// its transaction when concurrent checkouts collide on the same
// receipt number.
const receiptAllocationAttempts = 3

// CheckoutService completes point-of-sale transactions. A checkout
// creates the sale, decrements branch stock per line, and writes one
// DECREASE audit record per line, all in one database transaction. A
// line the branch cannot fulfill aborts the whole sale.
type CheckoutService struct {
	saleRepo       sales.SaleRepository
	productRepo    catalog.ProductRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	saleRepo sales.SaleRepository,
	productRepo catalog.ProductRepository,
	txScope TransactionScope,
) *CheckoutService {
	return &CheckoutService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		txScope:     txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Checkout completes a sale at a branch. Product names, SKUs, and
// prices are resolved from the catalog at checkout time; a request may
// override the unit price per line.
func (s *CheckoutService) Checkout(ctx context.Context, tenantID uuid.UUID, req CheckoutRequest, cashier identity.Actor) (*SaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "checkout",
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, tenantID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrBranchID, req.BranchID.String()),
	)
	defer span.End()

	response, err := s.checkout(ctx, tenantID, req, cashier)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrReceiptNumber, response.ReceiptNumber)
	telemetry.SetOK(span)
	return response, nil
}

func (s *CheckoutService) checkout(ctx context.Context, tenantID uuid.UUID, req CheckoutRequest, cashier identity.Actor) (*SaleResponse, error) {
	if !cashier.IsAuthenticated() {
		return nil, shared.NewDomainError("UNAUTHENTICATED", "Cashier identity is required")
	}

	lines, err := s.resolveLines(ctx, tenantID, req.Lines)
	if err != nil {
		return nil, err
	}

	var sale *sales.Sale
	var events []shared.DomainEvent
	run := func(repos TransactionalRepositories) error {
		// Allocated inside the transaction: when two checkouts race for
		// the same number, the loser's unique-index violation rolls the
		// whole checkout back and the retry sees the winner's commit.
		receiptNumber, err := repos.SaleRepo().NextReceiptNumber(ctx, tenantID)
		if err != nil {
			return err
		}

		sale, err = sales.NewSale(
			tenantID,
			receiptNumber,
			req.BranchID,
			cashier.ID,
			cashier.Name,
			sales.PaymentMethod(req.PaymentMethod),
			lines,
			req.DiscountAmount,
		)
		if err != nil {
			return err
		}

		for _, line := range sale.Lines {
			item, err := repos.InventoryRepo().FindByBranchAndProduct(ctx, tenantID, sale.BranchID, line.ProductID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainError("INSUFFICIENT_STOCK", fmt.Sprintf("Product %s is not stocked at this branch", line.ProductSKU))
				}
				return err
			}

			previousStock := item.Stock
			if err := item.DecreaseStock(line.Quantity); err != nil {
				return err
			}
			if err := repos.InventoryRepo().SaveWithLock(ctx, item); err != nil {
				return err
			}

			record, err := inventory.NewInventoryAuditRecord(
				tenantID,
				sale.BranchID,
				line.ProductID,
				line.ProductSKU,
				line.ProductName,
				inventory.StockActionDecrease,
				line.Quantity,
				previousStock,
				inventory.StockSourceSale,
			)
			if err != nil {
				return err
			}
			record.WithSourceReference(sale.ID, sale.ReceiptNumber).
				WithPerformedBy(cashier.ID, cashier.Name, string(cashier.Role)).
				WithNotes(fmt.Sprintf("Sold on receipt %s", sale.ReceiptNumber))
			if err := repos.AuditRepo().Create(ctx, record); err != nil {
				return err
			}

			events = append(events, item.GetDomainEvents()...)
			item.ClearDomainEvents()
		}

		return repos.SaleRepo().Save(ctx, sale)
	}

	var txErr error
	for attempt := 0; attempt < receiptAllocationAttempts; attempt++ {
		events = events[:0]
		txErr = s.txScope.Execute(ctx, run)
		if txErr == nil || !errors.Is(txErr, shared.ErrAlreadyExists) {
			break
		}
	}
	if txErr != nil {
		return nil, txErr
	}

	// Events go out only once the commit has made the changes durable.
	events = append(events, sale.GetDomainEvents()...)
	sale.ClearDomainEvents()
	s.publishEvents(ctx, events)

	response := ToSaleResponse(sale)
	return &response, nil
}

// resolveLines looks up each product and merges request overrides with
// catalog data. Disabled products cannot be sold.
func (s *CheckoutService) resolveLines(ctx context.Context, tenantID uuid.UUID, reqLines []CheckoutLineRequest) ([]sales.SaleLineInput, error) {
	lines := make([]sales.SaleLineInput, 0, len(reqLines))
	for _, reqLine := range reqLines {
		product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, reqLine.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.IsActive() {
			return nil, shared.NewDomainError("PRODUCT_DISABLED", fmt.Sprintf("Product %s is disabled and cannot be sold", product.SKU))
		}

		unitPrice := product.SellPrice
		if reqLine.UnitPrice != nil {
			if reqLine.UnitPrice.IsNegative() {
				return nil, shared.NewDomainError("INVALID_PRICE", fmt.Sprintf("Unit price for %s cannot be negative", product.SKU))
			}
			unitPrice = *reqLine.UnitPrice
		}

		lines = append(lines, sales.SaleLineInput{
			ProductID:   product.ID,
			ProductSKU:  product.SKU,
			ProductName: product.Name,
			Quantity:    reqLine.Quantity,
			UnitPrice:   unitPrice,
		})
	}
	return lines, nil
}

// VoidSale cancels a completed sale. Voiding does not restock; a
// manual adjustment with its own audit entry corrects stock if the
// goods came back.
func (s *CheckoutService) VoidSale(ctx context.Context, tenantID, saleID uuid.UUID, req VoidSaleRequest, actor identity.Actor) (*SaleResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, shared.NewDomainError("UNAUTHENTICATED", "Voiding staff identity is required")
	}

	sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}

	if err := sale.Void(actor.ID, req.Reason); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}

	events := sale.GetDomainEvents()
	sale.ClearDomainEvents()
	s.publishEvents(ctx, events)

	response := ToSaleResponse(sale)
	return &response, nil
}

// GetByID retrieves a sale by ID
func (s *CheckoutService) GetByID(ctx context.Context, tenantID, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// GetByReceiptNumber retrieves a sale by its receipt number
func (s *CheckoutService) GetByReceiptNumber(ctx context.Context, tenantID uuid.UUID, receiptNumber string) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByReceiptNumber(ctx, tenantID, receiptNumber)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// List retrieves sales with filtering and pagination
func (s *CheckoutService) List(ctx context.Context, tenantID uuid.UUID, filter ListSalesFilter) ([]SaleResponse, int64, error) {
	domainFilter := sales.SaleFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		BranchID:  filter.BranchID,
		CashierID: filter.CashierID,
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
		domainFilter.OrderBy = "sold_at"
	}
	if domainFilter.OrderDir == "" {
		domainFilter.OrderDir = "desc"
	}
	if filter.Status != "" {
		status := sales.SaleStatus(filter.Status)
		domainFilter.Status = &status
	}

	items, total, err := s.saleRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToSaleResponses(items), total, nil
}

func (s *CheckoutService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
