package handler

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/procurement"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// authedContext simulates the JWT and tenant middleware having run for
// the given staff member.
func authedContext(tenantID, userID uuid.UUID, name string, role identity.StaffRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.TenantIDKey, tenantID.String())
		c.Set(middleware.JWTTenantIDKey, tenantID.String())
		c.Set(middleware.JWTUserIDKey, userID.String())
		c.Set(middleware.JWTUsernameKey, name)
		c.Set(middleware.JWTRoleKey, string(role))
		c.Next()
	}
}

func newTestRouter(tenantID, userID uuid.UUID, name string, role identity.StaffRole) *gin.Engine {
	router := gin.New()
	router.Use(authedContext(tenantID, userID, name, role))
	return router
}

// --- in-memory repositories ---

type memProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *memProductRepo) add(p *catalog.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	r.products[p.ID] = &clone
}

func (r *memProductRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *memProductRepo) FindBySKU(_ context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.TenantID == tenantID && p.SKU == sku {
			clone := *p
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByIDs(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok && p.TenantID == tenantID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memProductRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]*catalog.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*catalog.Product, 0)
	for _, p := range r.products {
		if p.TenantID == tenantID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *memProductRepo) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	return r.Save(ctx, product)
}

func (r *memProductRepo) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) CountForTenant(_ context.Context, tenantID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.products {
		if p.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (r *memProductRepo) ExistsBySKU(_ context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	_, err := r.FindBySKU(context.Background(), tenantID, sku)
	return err == nil, nil
}

type memTenantRepo struct {
	tenant *identity.Tenant
}

func (r *memTenantRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.Tenant, error) {
	if r.tenant == nil || r.tenant.ID != id {
		return nil, shared.ErrNotFound
	}
	return r.tenant, nil
}

func (r *memTenantRepo) FindByCode(_ context.Context, code string) (*identity.Tenant, error) {
	if r.tenant == nil || r.tenant.Code != code {
		return nil, shared.ErrNotFound
	}
	return r.tenant, nil
}

func (r *memTenantRepo) FindAll(_ context.Context, _ shared.Filter) ([]identity.Tenant, error) {
	if r.tenant == nil {
		return nil, nil
	}
	return []identity.Tenant{*r.tenant}, nil
}

func (r *memTenantRepo) Save(_ context.Context, tenant *identity.Tenant) error {
	r.tenant = tenant
	return nil
}

func (r *memTenantRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	if r.tenant == nil {
		return 0, nil
	}
	return 1, nil
}

func (r *memTenantRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	return r.tenant != nil && r.tenant.Code == code, nil
}

type memBranchRepo struct {
	mu       sync.Mutex
	branches map[uuid.UUID]*partner.Branch
}

func newMemBranchRepo() *memBranchRepo {
	return &memBranchRepo{branches: make(map[uuid.UUID]*partner.Branch)}
}

func (r *memBranchRepo) add(b *partner.Branch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *b
	r.branches[b.ID] = &clone
}

func (r *memBranchRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*partner.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.branches[id]
	if !ok || b.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *memBranchRepo) FindByCode(_ context.Context, tenantID uuid.UUID, code string) (*partner.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.branches {
		if b.TenantID == tenantID && b.Code == code {
			clone := *b
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memBranchRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]partner.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]partner.Branch, 0)
	for _, b := range r.branches {
		if b.TenantID == tenantID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBranchRepo) FindDefault(_ context.Context, tenantID uuid.UUID) (*partner.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.branches {
		if b.TenantID == tenantID && b.IsDefault {
			clone := *b
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memBranchRepo) Save(_ context.Context, branch *partner.Branch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *branch
	r.branches[branch.ID] = &clone
	return nil
}

func (r *memBranchRepo) SaveWithLock(ctx context.Context, branch *partner.Branch) error {
	return r.Save(ctx, branch)
}

func (r *memBranchRepo) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.branches[id]
	if !ok || b.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.branches, id)
	return nil
}

func (r *memBranchRepo) CountForTenant(_ context.Context, tenantID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.branches {
		if b.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (r *memBranchRepo) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	_, err := r.FindByCode(ctx, tenantID, code)
	return err == nil, nil
}

type memGRNRepo struct {
	mu   sync.Mutex
	grns map[uuid.UUID]*procurement.GoodsReceivedNote
	seq  int
}

func newMemGRNRepo() *memGRNRepo {
	return &memGRNRepo{grns: make(map[uuid.UUID]*procurement.GoodsReceivedNote)}
}

func (r *memGRNRepo) add(g *procurement.GoodsReceivedNote) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grns[g.ID] = g
}

func (r *memGRNRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*procurement.GoodsReceivedNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.grns[id]
	if !ok || g.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return g, nil
}

func (r *memGRNRepo) FindByGRNNumber(_ context.Context, tenantID uuid.UUID, grnNumber string) (*procurement.GoodsReceivedNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.grns {
		if g.TenantID == tenantID && g.GRNNumber == grnNumber {
			return g, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memGRNRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]*procurement.GoodsReceivedNote, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*procurement.GoodsReceivedNote, 0)
	for _, g := range r.grns {
		if g.TenantID == tenantID {
			out = append(out, g)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memGRNRepo) FindByBranch(_ context.Context, tenantID, branchID uuid.UUID, _ shared.Filter) ([]*procurement.GoodsReceivedNote, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*procurement.GoodsReceivedNote, 0)
	for _, g := range r.grns {
		if g.TenantID == tenantID && g.BranchID == branchID {
			out = append(out, g)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memGRNRepo) FindByStatus(_ context.Context, tenantID uuid.UUID, status procurement.GRNStatus, _ shared.Filter) ([]*procurement.GoodsReceivedNote, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*procurement.GoodsReceivedNote, 0)
	for _, g := range r.grns {
		if g.TenantID == tenantID && g.Status == status {
			out = append(out, g)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memGRNRepo) Save(_ context.Context, grn *procurement.GoodsReceivedNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grns[grn.ID] = grn
	return nil
}

func (r *memGRNRepo) SaveWithLock(ctx context.Context, grn *procurement.GoodsReceivedNote) error {
	return r.Save(ctx, grn)
}

func (r *memGRNRepo) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.grns[id]
	if !ok || g.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.grns, id)
	return nil
}

func (r *memGRNRepo) CountForTenant(_ context.Context, tenantID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, g := range r.grns {
		if g.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (r *memGRNRepo) NextGRNNumber(_ context.Context, _ uuid.UUID) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return formatSeq("GRN", r.seq), nil
}

type memInventoryRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*inventory.InventoryItem
}

func newMemInventoryRepo() *memInventoryRepo {
	return &memInventoryRepo{items: make(map[uuid.UUID]*inventory.InventoryItem)}
}

func (r *memInventoryRepo) add(item *inventory.InventoryItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
}

func (r *memInventoryRepo) stockOf(branchID, productID uuid.UUID) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.BranchID == branchID && item.ProductID == productID {
			return item.Stock
		}
	}
	return decimal.Zero
}

func (r *memInventoryRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

func (r *memInventoryRepo) FindByBranchAndProduct(_ context.Context, tenantID, branchID, productID uuid.UUID) (*inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.TenantID == tenantID && item.BranchID == branchID && item.ProductID == productID {
			return item, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memInventoryRepo) FindByBranchAndSKU(_ context.Context, tenantID, branchID uuid.UUID, sku string) (*inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.TenantID == tenantID && item.BranchID == branchID && item.SKU == sku {
			return item, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memInventoryRepo) FindByBranch(_ context.Context, tenantID, branchID uuid.UUID, _ shared.Filter) ([]*inventory.InventoryItem, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.InventoryItem, 0)
	for _, item := range r.items {
		if item.TenantID == tenantID && item.BranchID == branchID {
			out = append(out, item)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memInventoryRepo) SnapshotBranch(ctx context.Context, tenantID, branchID uuid.UUID) ([]*inventory.InventoryItem, error) {
	items, _, err := r.FindByBranch(ctx, tenantID, branchID, shared.Filter{})
	return items, err
}

func (r *memInventoryRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]*inventory.InventoryItem, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.InventoryItem, 0)
	for _, item := range r.items {
		if item.TenantID == tenantID {
			out = append(out, item)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memInventoryRepo) Save(_ context.Context, item *inventory.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

func (r *memInventoryRepo) SaveWithLock(ctx context.Context, item *inventory.InventoryItem) error {
	return r.Save(ctx, item)
}

func (r *memInventoryRepo) CountForTenant(_ context.Context, tenantID uuid.UUID) (int64, error) {
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

type memAuditRepo struct {
	mu      sync.Mutex
	records []*inventory.InventoryAuditRecord
}

func newMemAuditRepo() *memAuditRepo {
	return &memAuditRepo{records: make([]*inventory.InventoryAuditRecord, 0)}
}

func (r *memAuditRepo) Create(_ context.Context, record *inventory.InventoryAuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *memAuditRepo) CreateBatch(_ context.Context, records []*inventory.InventoryAuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, records...)
	return nil
}

func (r *memAuditRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*inventory.InventoryAuditRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.TenantID == tenantID && rec.ID == id {
			return rec, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memAuditRepo) FindForTenant(_ context.Context, tenantID uuid.UUID, _ inventory.AuditRecordFilter) ([]*inventory.InventoryAuditRecord, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.InventoryAuditRecord, 0)
	for _, rec := range r.records {
		if rec.TenantID == tenantID {
			out = append(out, rec)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memAuditRepo) FindBySourceReference(_ context.Context, tenantID, referenceID uuid.UUID) ([]*inventory.InventoryAuditRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.InventoryAuditRecord, 0)
	for _, rec := range r.records {
		if rec.TenantID == tenantID && rec.SourceReferenceID != nil && *rec.SourceReferenceID == referenceID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memAuditRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ inventory.AuditRecordFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, rec := range r.records {
		if rec.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

type memSaleRepo struct {
	mu    sync.Mutex
	sales map[uuid.UUID]*sales.Sale
	seq   int
}

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{sales: make(map[uuid.UUID]*sales.Sale)}
}

func (r *memSaleRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*sales.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok || s.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (r *memSaleRepo) FindByReceiptNumber(_ context.Context, tenantID uuid.UUID, receiptNumber string) (*sales.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sales {
		if s.TenantID == tenantID && s.ReceiptNumber == receiptNumber {
			return s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSaleRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ sales.SaleFilter) ([]*sales.Sale, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*sales.Sale, 0)
	for _, s := range r.sales {
		if s.TenantID == tenantID {
			out = append(out, s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memSaleRepo) Save(_ context.Context, sale *sales.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales[sale.ID] = sale
	return nil
}

func (r *memSaleRepo) SaveWithLock(ctx context.Context, sale *sales.Sale) error {
	return r.Save(ctx, sale)
}

func (r *memSaleRepo) CountForTenant(_ context.Context, tenantID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.sales {
		if s.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (r *memSaleRepo) NextReceiptNumber(_ context.Context, _ uuid.UUID) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return formatSeq("RCP", r.seq), nil
}

func formatSeq(prefix string, n int) string {
	digits := []byte{'0', '0', '0', '0', '0'}
	for i := len(digits) - 1; i >= 0 && n > 0; i-- {
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return prefix + "-" + string(digits)
}
