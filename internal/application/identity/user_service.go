package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/shared"
)

// UserService manages a tenant's staff accounts. Creation is gated by
// the tenant's plan limit on staff count.
type UserService struct {
	userRepo       identity.UserRepository
	tenantRepo     identity.TenantRepository
	branchRepo     partner.BranchRepository
	eventPublisher shared.EventPublisher
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo identity.UserRepository,
	tenantRepo identity.TenantRepository,
	branchRepo partner.BranchRepository,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		branchRepo: branchRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *UserService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishDomainEvents publishes all domain events from the user
func (s *UserService) publishDomainEvents(ctx context.Context, user *identity.User) {
	if s.eventPublisher == nil {
		return
	}
	events := user.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	user.ClearDomainEvents()
}

// Create adds a staff user to the tenant
func (s *UserService) Create(ctx context.Context, tenantID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	count, err := s.userRepo.CountForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.CanAddStaff(int(count)) {
		return nil, shared.ErrPlanLimitReached
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	exists, err := s.userRepo.ExistsByUsername(ctx, tenantID, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("USERNAME_EXISTS", "Username already exists")
	}

	user, err := identity.NewUser(tenantID, username, req.Password, identity.StaffRole(req.Role))
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		if err := user.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != "" {
		if err := user.SetDisplayName(req.DisplayName); err != nil {
			return nil, err
		}
	}
	if req.BranchID != nil {
		if _, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, *req.BranchID); err != nil {
			return nil, shared.NewDomainError("BRANCH_NOT_FOUND", "Branch not found")
		}
		user.AssignBranch(req.BranchID)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, user)

	resp := ToUserResponse(user)
	return &resp, nil
}

// GetByID returns one staff user
func (s *UserService) GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ListUsersQuery filters the staff list
type ListUsersQuery struct {
	Search   string
	Role     string
	Status   string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// List returns the tenant's staff users
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, query ListUsersQuery) (*UserListResult, error) {
	filter := buildListFilter(query.Search, query.Page, query.PageSize, query.OrderBy, query.OrderDir)
	if query.Role != "" {
		filter.Filters["role"] = query.Role
	}
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}

	users, err := s.userRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.userRepo.CountForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}

	return &UserListResult{
		Users:      responses,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages(total, filter.PageSize),
	}, nil
}

// Update changes a staff user's profile fields
func (s *UserService) Update(ctx context.Context, tenantID, userID uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != nil {
		if err := user.SetDisplayName(*req.DisplayName); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangeRole changes a staff user's role. Changing your own role is
// rejected so an owner cannot accidentally lock themselves out.
func (s *UserService) ChangeRole(ctx context.Context, tenantID, actorID, userID uuid.UUID, req ChangeRoleRequest) (*UserResponse, error) {
	if actorID == userID {
		return nil, shared.NewDomainError("INVALID_OPERATION", "You cannot change your own role")
	}

	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	if err := user.ChangeRole(identity.StaffRole(req.Role)); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// AssignBranch pins a staff user to a branch; a null branch clears the
// assignment and grants access to every branch
func (s *UserService) AssignBranch(ctx context.Context, tenantID, userID uuid.UUID, req AssignBranchRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	if req.BranchID != nil {
		if _, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, *req.BranchID); err != nil {
			return nil, shared.NewDomainError("BRANCH_NOT_FOUND", "Branch not found")
		}
	}

	user.AssignBranch(req.BranchID)

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// ResetPassword sets a new password without requiring the old one.
// Callers should force-logout the user's sessions afterwards.
func (s *UserService) ResetPassword(ctx context.Context, tenantID, userID uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return err
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}

	return s.userRepo.Save(ctx, user)
}

// Activate re-enables a deactivated or locked staff user
func (s *UserService) Activate(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	if err := user.Activate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// Deactivate blocks a staff user from logging in. Deactivating your own
// account is rejected.
func (s *UserService) Deactivate(ctx context.Context, tenantID, actorID, userID uuid.UUID) (*UserResponse, error) {
	if actorID == userID {
		return nil, shared.NewDomainError("INVALID_OPERATION", "You cannot deactivate your own account")
	}

	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	if err := user.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, user)

	resp := ToUserResponse(user)
	return &resp, nil
}

// Delete removes a staff user. Deleting your own account is rejected.
func (s *UserService) Delete(ctx context.Context, tenantID, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return shared.NewDomainError("INVALID_OPERATION", "You cannot delete your own account")
	}

	if _, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID); err != nil {
		return err
	}

	return s.userRepo.DeleteForTenant(ctx, tenantID, userID)
}
