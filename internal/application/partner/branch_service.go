package partner

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/shared"
)

// BranchService manages the tenant's physical locations. Opening a
// branch is gated by the tenant's plan limit on branch count.
type BranchService struct {
	branchRepo     partner.BranchRepository
	tenantRepo     identity.TenantRepository
	eventPublisher shared.EventPublisher
}

// NewBranchService creates a new BranchService
func NewBranchService(branchRepo partner.BranchRepository, tenantRepo identity.TenantRepository) *BranchService {
	return &BranchService{
		branchRepo: branchRepo,
		tenantRepo: tenantRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BranchService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishDomainEvents publishes all domain events from the branch
func (s *BranchService) publishDomainEvents(ctx context.Context, branch *partner.Branch) {
	if s.eventPublisher == nil {
		return
	}
	events := branch.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	branch.ClearDomainEvents()
}

// Create opens a new branch for the tenant
func (s *BranchService) Create(ctx context.Context, tenantID uuid.UUID, req CreateBranchRequest) (*BranchResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	count, err := s.branchRepo.CountForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.CanAddBranch(int(count)) {
		return nil, shared.ErrPlanLimitReached
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	exists, err := s.branchRepo.ExistsByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("BRANCH_CODE_EXISTS", "Branch code already exists")
	}

	branch, err := partner.NewBranch(tenantID, code, req.Name)
	if err != nil {
		return nil, err
	}

	if req.Phone != "" || req.Address != "" || req.City != "" {
		if err := branch.Update(req.Name, req.Phone, req.Address, req.City); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		branch.SetNotes(req.Notes)
	}

	if err := s.branchRepo.Save(ctx, branch); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, branch)

	resp := ToBranchResponse(branch)
	return &resp, nil
}

// GetByID returns one branch
func (s *BranchService) GetByID(ctx context.Context, tenantID, branchID uuid.UUID) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, branchID)
	if err != nil {
		return nil, err
	}
	resp := ToBranchResponse(branch)
	return &resp, nil
}

// ListBranchesQuery filters the branch list
type ListBranchesQuery struct {
	Search   string
	Status   string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// List returns the tenant's branches
func (s *BranchService) List(ctx context.Context, tenantID uuid.UUID, query ListBranchesQuery) (*BranchListResult, error) {
	filter := buildListFilter(query.Search, query.Page, query.PageSize, query.OrderBy, query.OrderDir)
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}

	branches, err := s.branchRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.branchRepo.CountForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]BranchResponse, 0, len(branches))
	for i := range branches {
		responses = append(responses, ToBranchResponse(&branches[i]))
	}

	return &BranchListResult{
		Branches:   responses,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages(total, filter.PageSize),
	}, nil
}

// Update changes a branch's profile fields
func (s *BranchService) Update(ctx context.Context, tenantID, branchID uuid.UUID, req UpdateBranchRequest) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, branchID)
	if err != nil {
		return nil, err
	}

	name := branch.Name
	phone := branch.Phone
	address := branch.Address
	city := branch.City
	if req.Name != nil {
		name = *req.Name
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Address != nil {
		address = *req.Address
	}
	if req.City != nil {
		city = *req.City
	}
	if err := branch.Update(name, phone, address, city); err != nil {
		return nil, err
	}
	if req.Notes != nil {
		branch.SetNotes(*req.Notes)
	}

	if err := s.branchRepo.Save(ctx, branch); err != nil {
		return nil, err
	}

	resp := ToBranchResponse(branch)
	return &resp, nil
}

// SetDefault promotes a branch to be the tenant's default location and
// demotes the previous default
func (s *BranchService) SetDefault(ctx context.Context, tenantID, branchID uuid.UUID) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, branchID)
	if err != nil {
		return nil, err
	}
	if !branch.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot make an inactive branch the default")
	}
	if branch.IsDefault {
		resp := ToBranchResponse(branch)
		return &resp, nil
	}

	current, err := s.branchRepo.FindDefault(ctx, tenantID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if current != nil {
		current.SetDefault(false)
		if err := s.branchRepo.Save(ctx, current); err != nil {
			return nil, err
		}
	}

	branch.SetDefault(true)
	if err := s.branchRepo.Save(ctx, branch); err != nil {
		return nil, err
	}

	resp := ToBranchResponse(branch)
	return &resp, nil
}

// Activate re-enables an inactive branch
func (s *BranchService) Activate(ctx context.Context, tenantID, branchID uuid.UUID) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, branchID)
	if err != nil {
		return nil, err
	}

	if err := branch.Activate(); err != nil {
		return nil, err
	}

	if err := s.branchRepo.Save(ctx, branch); err != nil {
		return nil, err
	}

	resp := ToBranchResponse(branch)
	return &resp, nil
}

// Deactivate disables a branch. The default branch cannot be
// deactivated.
func (s *BranchService) Deactivate(ctx context.Context, tenantID, branchID uuid.UUID) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, branchID)
	if err != nil {
		return nil, err
	}

	if err := branch.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.branchRepo.Save(ctx, branch); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, branch)

	resp := ToBranchResponse(branch)
	return &resp, nil
}

// Delete removes a branch. The default branch cannot be deleted.
func (s *BranchService) Delete(ctx context.Context, tenantID, branchID uuid.UUID) error {
	branch, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, branchID)
	if err != nil {
		return err
	}
	if branch.IsDefault {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete the default branch")
	}

	return s.branchRepo.DeleteForTenant(ctx, tenantID, branchID)
}
