package procurement

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inventoryapp "github.com/retailpos/backend/internal/application/inventory"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/procurement"
	"github.com/retailpos/backend/internal/domain/shared"
)

// MockEventPublisher captures published events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{events: make([]shared.DomainEvent, 0)}
}

func (p *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *MockEventPublisher) GetEvents() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.DomainEvent, len(p.events))
	copy(out, p.events)
	return out
}

func (p *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	matched := make([]shared.DomainEvent, 0)
	for _, e := range p.events {
		if e.EventType() == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}

// memoryInventoryRepository is a map-backed stand-in for the inventory
// store so the confirmation flow runs against the real batch logic
// instead of per-call mock expectations.
type memoryInventoryRepository struct {
	mu             sync.Mutex
	items          map[uuid.UUID]*inventory.InventoryItem
	snapshotCalls  int
	saveWithLockFn func(ctx context.Context, item *inventory.InventoryItem) error
}

func newMemoryInventoryRepository() *memoryInventoryRepository {
	return &memoryInventoryRepository{items: make(map[uuid.UUID]*inventory.InventoryItem)}
}

func (r *memoryInventoryRepository) add(item *inventory.InventoryItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
}

func (r *memoryInventoryRepository) stockOf(productID uuid.UUID) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ProductID == productID {
			return item.Stock
		}
	}
	return decimal.Zero
}

func (r *memoryInventoryRepository) itemCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *memoryInventoryRepository) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

func (r *memoryInventoryRepository) FindByBranchAndProduct(_ context.Context, tenantID, branchID, productID uuid.UUID) (*inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.TenantID == tenantID && item.BranchID == branchID && item.ProductID == productID {
			return item, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryInventoryRepository) FindByBranchAndSKU(_ context.Context, tenantID, branchID uuid.UUID, sku string) (*inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.TenantID == tenantID && item.BranchID == branchID && item.SKU == sku {
			return item, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryInventoryRepository) FindByBranch(_ context.Context, tenantID, branchID uuid.UUID, _ shared.Filter) ([]*inventory.InventoryItem, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]*inventory.InventoryItem, 0)
	for _, item := range r.items {
		if item.TenantID == tenantID && item.BranchID == branchID {
			matched = append(matched, item)
		}
	}
	return matched, int64(len(matched)), nil
}

func (r *memoryInventoryRepository) SnapshotBranch(_ context.Context, tenantID, branchID uuid.UUID) ([]*inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshotCalls++
	matched := make([]*inventory.InventoryItem, 0)
	for _, item := range r.items {
		if item.TenantID == tenantID && item.BranchID == branchID {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func (r *memoryInventoryRepository) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]*inventory.InventoryItem, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]*inventory.InventoryItem, 0)
	for _, item := range r.items {
		if item.TenantID == tenantID {
			matched = append(matched, item)
		}
	}
	return matched, int64(len(matched)), nil
}

func (r *memoryInventoryRepository) Save(_ context.Context, item *inventory.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

func (r *memoryInventoryRepository) SaveWithLock(ctx context.Context, item *inventory.InventoryItem) error {
	if r.saveWithLockFn != nil {
		return r.saveWithLockFn(ctx, item)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

func (r *memoryInventoryRepository) CountForTenant(_ context.Context, tenantID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, item := range r.items {
		if item.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

var _ inventory.InventoryItemRepository = (*memoryInventoryRepository)(nil)

// memoryAuditRepository collects audit records appended during a test.
type memoryAuditRepository struct {
	mu      sync.Mutex
	records []*inventory.InventoryAuditRecord
}

func newMemoryAuditRepository() *memoryAuditRepository {
	return &memoryAuditRepository{records: make([]*inventory.InventoryAuditRecord, 0)}
}

func (r *memoryAuditRepository) all() []*inventory.InventoryAuditRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.InventoryAuditRecord, len(r.records))
	copy(out, r.records)
	return out
}

func (r *memoryAuditRepository) Create(_ context.Context, record *inventory.InventoryAuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *memoryAuditRepository) CreateBatch(_ context.Context, records []*inventory.InventoryAuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, records...)
	return nil
}

func (r *memoryAuditRepository) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*inventory.InventoryAuditRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.TenantID == tenantID && record.ID == id {
			return record, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryAuditRepository) FindForTenant(_ context.Context, tenantID uuid.UUID, _ inventory.AuditRecordFilter) ([]*inventory.InventoryAuditRecord, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]*inventory.InventoryAuditRecord, 0)
	for _, record := range r.records {
		if record.TenantID == tenantID {
			matched = append(matched, record)
		}
	}
	return matched, int64(len(matched)), nil
}

func (r *memoryAuditRepository) FindBySourceReference(_ context.Context, tenantID, referenceID uuid.UUID) ([]*inventory.InventoryAuditRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]*inventory.InventoryAuditRecord, 0)
	for _, record := range r.records {
		if record.TenantID == tenantID && record.SourceReferenceID != nil && *record.SourceReferenceID == referenceID {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

func (r *memoryAuditRepository) CountForTenant(_ context.Context, tenantID uuid.UUID, _ inventory.AuditRecordFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, record := range r.records {
		if record.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

var _ inventory.InventoryAuditRecordRepository = (*memoryAuditRepository)(nil)

// memoryGRNRepository stores GRNs by ID and counts lookups so tests can
// prove which collaborators a failed confirmation never reached.
type memoryGRNRepository struct {
	mu                sync.Mutex
	grns              map[uuid.UUID]*procurement.GoodsReceivedNote
	findCalls         int
	saveWithLockCalls int
	saveWithLockFn    func(ctx context.Context, grn *procurement.GoodsReceivedNote) error
}

func newMemoryGRNRepository() *memoryGRNRepository {
	return &memoryGRNRepository{grns: make(map[uuid.UUID]*procurement.GoodsReceivedNote)}
}

func (r *memoryGRNRepository) add(grn *procurement.GoodsReceivedNote) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grns[grn.ID] = grn
}

func (r *memoryGRNRepository) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*procurement.GoodsReceivedNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	grn, ok := r.grns[id]
	if !ok || grn.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return grn, nil
}

func (r *memoryGRNRepository) FindByGRNNumber(_ context.Context, tenantID uuid.UUID, grnNumber string) (*procurement.GoodsReceivedNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, grn := range r.grns {
		if grn.TenantID == tenantID && grn.GRNNumber == grnNumber {
			return grn, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryGRNRepository) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]*procurement.GoodsReceivedNote, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]*procurement.GoodsReceivedNote, 0)
	for _, grn := range r.grns {
		if grn.TenantID == tenantID {
			matched = append(matched, grn)
		}
	}
	return matched, int64(len(matched)), nil
}

func (r *memoryGRNRepository) FindByBranch(_ context.Context, tenantID, branchID uuid.UUID, _ shared.Filter) ([]*procurement.GoodsReceivedNote, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]*procurement.GoodsReceivedNote, 0)
	for _, grn := range r.grns {
		if grn.TenantID == tenantID && grn.BranchID == branchID {
			matched = append(matched, grn)
		}
	}
	return matched, int64(len(matched)), nil
}

func (r *memoryGRNRepository) FindByStatus(_ context.Context, tenantID uuid.UUID, status procurement.GRNStatus, _ shared.Filter) ([]*procurement.GoodsReceivedNote, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]*procurement.GoodsReceivedNote, 0)
	for _, grn := range r.grns {
		if grn.TenantID == tenantID && grn.Status == status {
			matched = append(matched, grn)
		}
	}
	return matched, int64(len(matched)), nil
}

func (r *memoryGRNRepository) Save(_ context.Context, grn *procurement.GoodsReceivedNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grns[grn.ID] = grn
	return nil
}

func (r *memoryGRNRepository) SaveWithLock(ctx context.Context, grn *procurement.GoodsReceivedNote) error {
	r.mu.Lock()
	r.saveWithLockCalls++
	fn := r.saveWithLockFn
	r.mu.Unlock()
	if fn != nil {
		return fn(ctx, grn)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grns[grn.ID] = grn
	return nil
}

func (r *memoryGRNRepository) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	grn, ok := r.grns[id]
	if !ok || grn.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.grns, id)
	return nil
}

func (r *memoryGRNRepository) CountForTenant(_ context.Context, tenantID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, grn := range r.grns {
		if grn.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (r *memoryGRNRepository) NextGRNNumber(_ context.Context, _ uuid.UUID) (string, error) {
	return "GRN-2025-0001", nil
}

var _ procurement.GRNRepository = (*memoryGRNRepository)(nil)

// stubBranchRepository serves a single branch and counts lookups.
type stubBranchRepository struct {
	branch    *partner.Branch
	findCalls int
}

func (r *stubBranchRepository) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*partner.Branch, error) {
	r.findCalls++
	if r.branch != nil && r.branch.TenantID == tenantID && r.branch.ID == id {
		return r.branch, nil
	}
	return nil, shared.ErrNotFound
}

func (r *stubBranchRepository) FindByCode(_ context.Context, _ uuid.UUID, _ string) (*partner.Branch, error) {
	return nil, shared.ErrNotFound
}

func (r *stubBranchRepository) FindAllForTenant(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]partner.Branch, error) {
	return nil, nil
}

func (r *stubBranchRepository) FindDefault(_ context.Context, _ uuid.UUID) (*partner.Branch, error) {
	return nil, shared.ErrNotFound
}

func (r *stubBranchRepository) Save(_ context.Context, _ *partner.Branch) error { return nil }

func (r *stubBranchRepository) SaveWithLock(_ context.Context, _ *partner.Branch) error { return nil }

func (r *stubBranchRepository) DeleteForTenant(_ context.Context, _, _ uuid.UUID) error { return nil }

func (r *stubBranchRepository) CountForTenant(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *stubBranchRepository) ExistsByCode(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
	return false, nil
}

var _ partner.BranchRepository = (*stubBranchRepository)(nil)

// heldLocker simulates another request already holding the per-GRN lock.
type heldLocker struct{}

func (heldLocker) Obtain(_ context.Context, _, _ uuid.UUID) (func(), error) {
	return nil, ErrConfirmationInProgress
}

type grnItemSpec struct {
	productID uuid.UUID
	sku       string
	ordered   int64
	received  int64
}

type confirmationFixture struct {
	tenantID uuid.UUID
	branch   *partner.Branch
	actor    identity.Actor

	grnRepo   *memoryGRNRepository
	itemRepo  *memoryInventoryRepository
	auditRepo *memoryAuditRepository
	branches  *stubBranchRepository
	publisher *MockEventPublisher

	service *GRNConfirmationService
}

func newConfirmationFixture(t *testing.T) *confirmationFixture {
	t.Helper()

	tenantID := uuid.New()
	branch, err := partner.NewBranch(tenantID, "MAIN", "Main Warehouse")
	require.NoError(t, err)
	branch.ClearDomainEvents()

	grnRepo := newMemoryGRNRepository()
	itemRepo := newMemoryInventoryRepository()
	auditRepo := newMemoryAuditRepository()
	branches := &stubBranchRepository{branch: branch}
	publisher := NewMockEventPublisher()

	increaser := inventoryapp.NewInventoryService(itemRepo, auditRepo, inventoryapp.NewNoOpTransactionScope(itemRepo, auditRepo))
	scope := NewNoOpTransactionScope(grnRepo, itemRepo, auditRepo)

	service := NewGRNConfirmationService(grnRepo, branches, increaser, scope, NewNoOpConfirmationLocker())
	service.SetEventPublisher(publisher)

	return &confirmationFixture{
		tenantID:  tenantID,
		branch:    branch,
		actor:     identity.Actor{ID: uuid.New(), Name: "Dana", Role: identity.StaffRoleStockist},
		grnRepo:   grnRepo,
		itemRepo:  itemRepo,
		auditRepo: auditRepo,
		branches:  branches,
		publisher: publisher,
		service:   service,
	}
}

func (f *confirmationFixture) seedStock(t *testing.T, productID uuid.UUID, sku string, stock int64) *inventory.InventoryItem {
	t.Helper()
	item, err := inventory.NewInventoryItem(f.tenantID, f.branch.ID, productID, sku, "Item "+sku)
	require.NoError(t, err)
	if stock > 0 {
		require.NoError(t, item.IncreaseStock(decimal.NewFromInt(stock)))
		item.ClearDomainEvents()
	}
	f.itemRepo.add(item)
	return item
}

func (f *confirmationFixture) seedGRN(t *testing.T, items ...grnItemSpec) *procurement.GoodsReceivedNote {
	t.Helper()
	grn, err := procurement.NewGoodsReceivedNote(f.tenantID, "GRN-2025-0007", "PO-2025-0019", f.branch.ID)
	require.NoError(t, err)
	for _, it := range items {
		require.NoError(t, grn.AddItem(it.productID, it.sku, "Item "+it.sku, decimal.NewFromInt(it.ordered), decimal.NewFromInt(it.received)))
	}
	grn.ClearDomainEvents()
	f.grnRepo.add(grn)
	return grn
}

func (f *confirmationFixture) confirm(grnID uuid.UUID) ConfirmGRNResult {
	return f.service.ConfirmGRN(context.Background(), f.tenantID, grnID, f.actor)
}

func assertQuantity(t *testing.T, got decimal.Decimal, want int64) {
	t.Helper()
	assert.True(t, got.Equal(decimal.NewFromInt(want)), "want %d, got %s", want, got.String())
}

func auditForProduct(records []*inventory.InventoryAuditRecord, productID uuid.UUID) *inventory.InventoryAuditRecord {
	for _, record := range records {
		if record.ProductID == productID {
			return record
		}
	}
	return nil
}

func TestGRNConfirmationService_ConfirmGRN(t *testing.T) {
	t.Run("applies received quantities and records the audit trail", func(t *testing.T) {
		f := newConfirmationFixture(t)
		productA := uuid.New()
		productB := uuid.New()
		f.seedStock(t, productA, "TEA-250", 20)
		f.seedStock(t, productB, "TEA-500", 5)
		grn := f.seedGRN(t,
			grnItemSpec{productID: productA, sku: "TEA-250", ordered: 10, received: 7},
			grnItemSpec{productID: productB, sku: "TEA-500", ordered: 5, received: 0},
		)

		result := f.confirm(grn.ID)

		require.True(t, result.Success, "confirmation failed: %s %v", result.Message, result.Errors)
		assert.Empty(t, result.Code)
		assert.Equal(t, "GRN GRN-2025-0007 confirmed successfully", result.Message)
		assert.Equal(t, 1, result.ProductsUpdated)
		assert.Equal(t, 0, result.ProductsCreated)
		assert.NotNil(t, result.Errors)
		assert.Empty(t, result.Errors)

		assertQuantity(t, f.itemRepo.stockOf(productA), 27)
		assertQuantity(t, f.itemRepo.stockOf(productB), 5)

		assert.True(t, grn.IsConfirmed())
		require.NotNil(t, grn.ConfirmedBy)
		assert.Equal(t, f.actor.ID, *grn.ConfirmedBy)
		assert.NotNil(t, grn.ConfirmedAt)

		records := f.auditRepo.all()
		require.Len(t, records, 1)
		record := records[0]
		assert.Equal(t, productA, record.ProductID)
		assert.Equal(t, "TEA-250", record.ProductSKU)
		assert.Equal(t, inventory.StockActionIncrease, record.Action)
		assert.Equal(t, inventory.StockSourceGRNConfirmation, record.Source)
		assertQuantity(t, record.Quantity, 7)
		assertQuantity(t, record.PreviousStock, 20)
		assertQuantity(t, record.NewStock, 27)
		require.NotNil(t, record.SourceReferenceID)
		assert.Equal(t, grn.ID, *record.SourceReferenceID)
		assert.Equal(t, "GRN-2025-0007", record.SourceReferenceNumber)
		require.NotNil(t, record.PerformedByStaffID)
		assert.Equal(t, f.actor.ID, *record.PerformedByStaffID)
		assert.Equal(t, "Dana", record.PerformedByStaffName)
		assert.Equal(t, "stockist", record.PerformedByStaffRole)
		assert.Contains(t, record.Notes, "Main Warehouse")
		assert.Contains(t, record.Notes, "GRN-2025-0007")
		assert.Contains(t, record.Notes, "PO-2025-0019")

		assert.Len(t, f.publisher.GetEventsByType(procurement.EventTypeGRNConfirmed), 1)
		assert.Len(t, f.publisher.GetEventsByType(inventory.EventTypeStockIncreased), 1)
	})

	t.Run("rejects a second confirmation of the same GRN", func(t *testing.T) {
		f := newConfirmationFixture(t)
		productA := uuid.New()
		f.seedStock(t, productA, "TEA-250", 20)
		grn := f.seedGRN(t, grnItemSpec{productID: productA, sku: "TEA-250", ordered: 10, received: 7})

		first := f.confirm(grn.ID)
		require.True(t, first.Success)

		second := f.confirm(grn.ID)

		assert.False(t, second.Success)
		assert.Equal(t, CodeAlreadyProcessed, second.Code)
		assert.Equal(t, "GRN has already been processed (status: CONFIRMED)", second.Message)

		assertQuantity(t, f.itemRepo.stockOf(productA), 27)
		assert.Len(t, f.auditRepo.all(), 1)
	})

	t.Run("creates stock records for products never stocked at the branch", func(t *testing.T) {
		f := newConfirmationFixture(t)
		productA := uuid.New()
		productB := uuid.New()
		productC := uuid.New()
		f.seedStock(t, productA, "TEA-250", 10)
		grn := f.seedGRN(t,
			grnItemSpec{productID: productA, sku: "TEA-250", ordered: 10, received: 4},
			grnItemSpec{productID: productB, sku: "TEA-500", ordered: 6, received: 6},
			grnItemSpec{productID: productC, sku: "CUP-001", ordered: 2, received: 2},
		)

		result := f.confirm(grn.ID)

		require.True(t, result.Success, "confirmation failed: %s %v", result.Message, result.Errors)
		assert.Equal(t, 1, result.ProductsUpdated)
		assert.Equal(t, 2, result.ProductsCreated)

		assert.Equal(t, 3, f.itemRepo.itemCount())
		assertQuantity(t, f.itemRepo.stockOf(productA), 14)
		assertQuantity(t, f.itemRepo.stockOf(productB), 6)
		assertQuantity(t, f.itemRepo.stockOf(productC), 2)

		records := f.auditRepo.all()
		require.Len(t, records, 3)
		created := auditForProduct(records, productB)
		require.NotNil(t, created)
		assertQuantity(t, created.PreviousStock, 0)
		assertQuantity(t, created.NewStock, 6)
		existing := auditForProduct(records, productA)
		require.NotNil(t, existing)
		assertQuantity(t, existing.PreviousStock, 10)
		assertQuantity(t, existing.NewStock, 14)

		assert.Len(t, f.publisher.GetEventsByType(inventory.EventTypeStockIncreased), 3)
	})

	t.Run("refuses a GRN where nothing was received", func(t *testing.T) {
		f := newConfirmationFixture(t)
		productA := uuid.New()
		grn := f.seedGRN(t,
			grnItemSpec{productID: productA, sku: "TEA-250", ordered: 10, received: 0},
			grnItemSpec{productID: uuid.New(), sku: "TEA-500", ordered: 5, received: 0},
		)

		result := f.confirm(grn.ID)

		assert.False(t, result.Success)
		assert.Equal(t, CodeNoReceivedItems, result.Code)
		assert.Equal(t, "No items received to update inventory", result.Message)

		assert.True(t, grn.IsDraft())
		assert.Empty(t, f.auditRepo.all())
		assert.Empty(t, f.publisher.GetEvents())
	})

	t.Run("keeps the draft when the stock batch fails", func(t *testing.T) {
		f := newConfirmationFixture(t)
		productA := uuid.New()
		f.seedStock(t, productA, "TEA-250", 20)
		grn := f.seedGRN(t, grnItemSpec{productID: productA, sku: "TEA-250", ordered: 10, received: 7})

		f.itemRepo.saveWithLockFn = func(_ context.Context, _ *inventory.InventoryItem) error {
			return shared.ErrConcurrencyConflict
		}

		result := f.confirm(grn.ID)

		assert.False(t, result.Success)
		assert.Equal(t, CodeInventoryUpdateFailed, result.Code)
		assert.Equal(t, "Inventory update failed", result.Message)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "Failed to update inventory for product TEA-250")

		assert.True(t, grn.IsDraft())
		assert.Equal(t, 0, f.grnRepo.saveWithLockCalls)
		assert.Empty(t, f.auditRepo.all())
		assert.Empty(t, f.publisher.GetEvents())
	})

	t.Run("treats a lost status flip race as already processed", func(t *testing.T) {
		f := newConfirmationFixture(t)
		productA := uuid.New()
		f.seedStock(t, productA, "TEA-250", 20)
		grn := f.seedGRN(t, grnItemSpec{productID: productA, sku: "TEA-250", ordered: 10, received: 7})

		f.grnRepo.saveWithLockFn = func(_ context.Context, _ *procurement.GoodsReceivedNote) error {
			return shared.ErrConcurrencyConflict
		}

		result := f.confirm(grn.ID)

		assert.False(t, result.Success)
		assert.Equal(t, CodeAlreadyProcessed, result.Code)
		assert.Equal(t, "GRN was confirmed by another request", result.Message)
		assert.Empty(t, f.auditRepo.all())
		assert.Empty(t, f.publisher.GetEvents())
	})

	t.Run("returns not found without touching inventory", func(t *testing.T) {
		f := newConfirmationFixture(t)

		result := f.confirm(uuid.New())

		assert.False(t, result.Success)
		assert.Equal(t, CodeNotFound, result.Code)
		assert.Equal(t, "GRN not found", result.Message)
		assert.NotNil(t, result.Errors)
		assert.Empty(t, result.Errors)

		assert.Equal(t, 0, f.branches.findCalls)
		assert.Equal(t, 0, f.itemRepo.snapshotCalls)
		assert.Empty(t, f.auditRepo.all())
	})

	t.Run("requires an authenticated actor", func(t *testing.T) {
		f := newConfirmationFixture(t)
		productA := uuid.New()
		f.seedStock(t, productA, "TEA-250", 20)
		grn := f.seedGRN(t, grnItemSpec{productID: productA, sku: "TEA-250", ordered: 10, received: 7})

		result := f.service.ConfirmGRN(context.Background(), f.tenantID, grn.ID, identity.Actor{})

		assert.False(t, result.Success)
		assert.Equal(t, CodeUnauthenticated, result.Code)
		assert.Equal(t, "Confirming staff identity is required", result.Message)

		assert.True(t, grn.IsDraft())
		assertQuantity(t, f.itemRepo.stockOf(productA), 20)
		assert.Empty(t, f.auditRepo.all())
	})

	t.Run("reports contention while another confirmation holds the lock", func(t *testing.T) {
		f := newConfirmationFixture(t)
		productA := uuid.New()
		grn := f.seedGRN(t, grnItemSpec{productID: productA, sku: "TEA-250", ordered: 10, received: 7})

		locked := NewGRNConfirmationService(f.grnRepo, f.branches, nil, NewNoOpTransactionScope(f.grnRepo, f.itemRepo, f.auditRepo), heldLocker{})

		result := locked.ConfirmGRN(context.Background(), f.tenantID, grn.ID, f.actor)

		assert.False(t, result.Success)
		assert.Equal(t, CodeAlreadyProcessed, result.Code)
		assert.Equal(t, "GRN confirmation already in progress", result.Message)
		assert.Equal(t, 0, f.grnRepo.findCalls)
	})
}
