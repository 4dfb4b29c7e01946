package catalog

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/shared"
)

// exportPageSize bounds each repository read while the export walks the
// full catalog.
const exportPageSize = 500

// FeatureChecker answers plan feature questions. Satisfied by the
// identity application's tenant service so database overrides apply.
type FeatureChecker interface {
	HasFeature(ctx context.Context, plan identity.TenantPlan, key identity.FeatureKey) (bool, error)
}

// ExportService streams the tenant's catalog and per-branch stock
// levels into an xlsx workbook.
type ExportService struct {
	productRepo   catalog.ProductRepository
	branchRepo    partner.BranchRepository
	inventoryRepo inventory.InventoryItemRepository
	tenantRepo    identity.TenantRepository
	features      FeatureChecker
}

// NewExportService creates a new ExportService. features may be nil;
// gating then uses the built-in plan matrix.
func NewExportService(
	productRepo catalog.ProductRepository,
	branchRepo partner.BranchRepository,
	inventoryRepo inventory.InventoryItemRepository,
	tenantRepo identity.TenantRepository,
	features FeatureChecker,
) *ExportService {
	return &ExportService{
		productRepo:   productRepo,
		branchRepo:    branchRepo,
		inventoryRepo: inventoryRepo,
		tenantRepo:    tenantRepo,
		features:      features,
	}
}

// ExportProducts builds an xlsx workbook with one sheet of products and
// one sheet of per-branch stock levels. Returns the workbook bytes and
// a suggested filename.
func (s *ExportService) ExportProducts(ctx context.Context, tenantID uuid.UUID) (*bytes.Buffer, string, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, "", err
	}

	granted, err := s.hasExportFeature(ctx, tenant.Plan)
	if err != nil {
		return nil, "", err
	}
	if !granted {
		return nil, "", shared.NewDomainError("FEATURE_NOT_AVAILABLE", "Your plan does not include data export")
	}

	products, err := s.collectProducts(ctx, tenantID)
	if err != nil {
		return nil, "", err
	}

	branches, err := s.branchRepo.FindAllForTenant(ctx, tenantID, buildListFilter("", 1, exportPageSize, "code", "asc"))
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := s.writeProductSheet(f, products); err != nil {
		return nil, "", err
	}
	if err := s.writeStockSheet(ctx, f, tenantID, branches); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("products-%s.xlsx", time.Now().Format("20060102-150405"))
	return buf, filename, nil
}

func (s *ExportService) hasExportFeature(ctx context.Context, plan identity.TenantPlan) (bool, error) {
	if s.features != nil {
		return s.features.HasFeature(ctx, plan, identity.FeatureDataExport)
	}
	return identity.PlanHasFeature(plan, identity.FeatureDataExport), nil
}

func (s *ExportService) collectProducts(ctx context.Context, tenantID uuid.UUID) ([]*catalog.Product, error) {
	products := make([]*catalog.Product, 0)
	page := 1
	for {
		filter := buildListFilter("", page, exportPageSize, "sku", "asc")
		batch, total, err := s.productRepo.FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return nil, err
		}
		products = append(products, batch...)
		if len(batch) == 0 || int64(len(products)) >= total {
			return products, nil
		}
		page++
	}
}

func (s *ExportService) writeProductSheet(f *excelize.File, products []*catalog.Product) error {
	const sheet = "Products"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headers := []interface{}{"SKU", "Barcode", "Name", "Unit", "Category", "Cost Price", "Sell Price", "Status"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	for i, p := range products {
		row := []interface{}{
			p.SKU,
			p.Barcode,
			p.Name,
			p.Unit,
			p.Category,
			p.CostPrice.InexactFloat64(),
			p.SellPrice.InexactFloat64(),
			string(p.Status),
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExportService) writeStockSheet(ctx context.Context, f *excelize.File, tenantID uuid.UUID, branches []partner.Branch) error {
	const sheet = "Stock"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []interface{}{"Branch Code", "Branch Name", "SKU", "Product Name", "Stock", "Cost Price"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	rowNo := 2
	for i := range branches {
		branch := &branches[i]
		items, err := s.inventoryRepo.SnapshotBranch(ctx, tenantID, branch.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			row := []interface{}{
				branch.Code,
				branch.Name,
				item.SKU,
				item.Name,
				item.Stock.InexactFloat64(),
				item.CostPrice.InexactFloat64(),
			}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowNo), &row); err != nil {
				return err
			}
			rowNo++
		}
	}
	return nil
}
