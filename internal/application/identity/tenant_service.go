package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/shared"
)

// Code and name given to the branch created during registration. Every
// tenant starts with exactly one branch; branch-scoped stock and sales
// need somewhere to live from the first minute.
const (
	defaultBranchCode = "MAIN"
	defaultBranchName = "Main Branch"
)

// TenantService manages tenant registration and lifecycle. Registration
// bootstraps three aggregates in one transaction: the tenant, its owner
// account, and its default branch.
type TenantService struct {
	tenantRepo      identity.TenantRepository
	userRepo        identity.UserRepository
	branchRepo      partner.BranchRepository
	productRepo     catalog.ProductRepository
	planFeatureRepo identity.PlanFeatureRepository
	txScope         TransactionScope
	eventPublisher  shared.EventPublisher
}

// NewTenantService creates a new TenantService. planFeatureRepo may be
// nil; feature checks then use the built-in plan matrix.
func NewTenantService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	branchRepo partner.BranchRepository,
	productRepo catalog.ProductRepository,
	planFeatureRepo identity.PlanFeatureRepository,
	txScope TransactionScope,
) *TenantService {
	return &TenantService{
		tenantRepo:      tenantRepo,
		userRepo:        userRepo,
		branchRepo:      branchRepo,
		productRepo:     productRepo,
		planFeatureRepo: planFeatureRepo,
		txScope:         txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *TenantService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishDomainEvents publishes pending events from the given aggregates
func (s *TenantService) publishDomainEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, agg := range aggregates {
		events := agg.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		_ = s.eventPublisher.Publish(ctx, events...)
		agg.ClearDomainEvents()
	}
}

// Register bootstraps a new tenant with its owner account and default
// branch. All three are written in one transaction; a half-registered
// tenant cannot exist.
func (s *TenantService) Register(ctx context.Context, req RegisterTenantRequest) (*RegisterTenantResult, error) {
	code := strings.ToUpper(strings.TrimSpace(req.TenantCode))
	exists, err := s.tenantRepo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("TENANT_CODE_EXISTS", "Tenant code already exists")
	}

	var tenant *identity.Tenant
	if req.TrialDays > 0 {
		tenant, err = identity.NewTrialTenant(code, req.TenantName, req.TrialDays)
	} else {
		tenant, err = identity.NewTenant(code, req.TenantName)
	}
	if err != nil {
		return nil, err
	}

	if req.ContactName != "" || req.ContactPhone != "" || req.ContactEmail != "" {
		tenant.SetContact(req.ContactName, req.ContactPhone, req.ContactEmail)
	}

	owner, err := identity.NewUser(tenant.ID, req.OwnerUsername, req.OwnerPassword, identity.StaffRoleOwner)
	if err != nil {
		return nil, err
	}
	if req.ContactEmail != "" {
		if err := owner.SetEmail(req.ContactEmail); err != nil {
			return nil, err
		}
	}

	branch, err := partner.NewBranch(tenant.ID, defaultBranchCode, defaultBranchName)
	if err != nil {
		return nil, err
	}
	branch.SetDefault(true)

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.TenantRepo().Save(ctx, tenant); err != nil {
			return err
		}
		if err := repos.UserRepo().Save(ctx, owner); err != nil {
			return err
		}
		return repos.BranchRepo().Save(ctx, branch)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, tenant, owner, branch)

	return &RegisterTenantResult{
		Tenant:          ToTenantResponse(tenant),
		Owner:           ToUserResponse(owner),
		DefaultBranchID: branch.ID,
	}, nil
}

// GetByID returns one tenant
func (s *TenantService) GetByID(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// GetByCode returns one tenant by its code
func (s *TenantService) GetByCode(ctx context.Context, code string) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// ListTenantsQuery filters the tenant list
type ListTenantsQuery struct {
	Search   string
	Status   string
	Plan     string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// List returns tenants matching the query. This is an operator-level
// view, not a tenant-scoped one.
func (s *TenantService) List(ctx context.Context, query ListTenantsQuery) (*TenantListResult, error) {
	filter := buildListFilter(query.Search, query.Page, query.PageSize, query.OrderBy, query.OrderDir)
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}
	if query.Plan != "" {
		filter.Filters["plan"] = query.Plan
	}

	tenants, err := s.tenantRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.tenantRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]TenantResponse, 0, len(tenants))
	for i := range tenants {
		responses = append(responses, ToTenantResponse(&tenants[i]))
	}

	return &TenantListResult{
		Tenants:    responses,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages(total, filter.PageSize),
	}, nil
}

// Update changes a tenant's profile fields
func (s *TenantService) Update(ctx context.Context, tenantID uuid.UUID, req UpdateTenantRequest) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := tenant.Update(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.ContactName != nil || req.ContactPhone != nil || req.ContactEmail != nil {
		contactName := tenant.ContactName
		contactPhone := tenant.ContactPhone
		contactEmail := tenant.ContactEmail
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		if req.ContactPhone != nil {
			contactPhone = *req.ContactPhone
		}
		if req.ContactEmail != nil {
			contactEmail = *req.ContactEmail
		}
		tenant.SetContact(contactName, contactPhone, contactEmail)
	}
	if req.Notes != nil {
		tenant.Notes = *req.Notes
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// ChangePlan moves a tenant to a new subscription plan and rewrites its
// limits
func (s *TenantService) ChangePlan(ctx context.Context, tenantID uuid.UUID, req ChangePlanRequest) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if err := tenant.ChangePlan(identity.TenantPlan(req.Plan)); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, tenant)

	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// Suspend blocks a tenant from all operations
func (s *TenantService) Suspend(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if err := tenant.Suspend(); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// Activate restores a suspended tenant
func (s *TenantService) Activate(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if err := tenant.Activate(); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// GetUsage reports the tenant's resource consumption against its plan
// limits
func (s *TenantService) GetUsage(ctx context.Context, tenantID uuid.UUID) (*TenantUsageResult, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	branches, err := s.branchRepo.CountForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	staff, err := s.userRepo.CountForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.CountForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return &TenantUsageResult{
		Branches: UsageEntry{Used: branches, Limit: tenant.Limits.MaxBranches},
		Staff:    UsageEntry{Used: staff, Limit: tenant.Limits.MaxStaff},
		Products: UsageEntry{Used: products, Limit: tenant.Limits.MaxProducts},
	}, nil
}

// HasFeature reports whether a plan grants a feature. Database
// overrides win over the built-in matrix when a plan feature repository
// is configured.
func (s *TenantService) HasFeature(ctx context.Context, plan identity.TenantPlan, key identity.FeatureKey) (bool, error) {
	if s.planFeatureRepo != nil {
		pf, err := s.planFeatureRepo.FindByPlanAndFeature(ctx, plan, key)
		if err == nil {
			return pf.Enabled, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return false, err
		}
	}
	return identity.PlanHasFeature(plan, key), nil
}
