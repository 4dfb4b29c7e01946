package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
)

// LoginRequest authenticates a staff member of one tenant
type LoginRequest struct {
	TenantCode string `json:"tenant_code" binding:"required,max=50"`
	Username   string `json:"username" binding:"required,max=100"`
	Password   string `json:"password" binding:"required"`
}

// LoginResult carries the issued token pair and the signed-in user
type LoginResult struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	TokenType             string       `json:"token_type"`
	User                  UserResponse `json:"user"`
	Permissions           []string     `json:"permissions"`
}

// RefreshTokenRequest rotates a token pair
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResult carries the rotated token pair
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutRequest revokes the caller's tokens. AccessTokenID and
// AccessTokenTTL come from the verified access token; RefreshToken is
// the raw refresh token when the client still holds one.
type LogoutRequest struct {
	UserID         uuid.UUID
	AccessTokenID  string
	AccessTokenTTL time.Duration
	RefreshToken   string
}

// CurrentUserResult is the /auth/me payload
type CurrentUserResult struct {
	User        UserResponse `json:"user"`
	Permissions []string     `json:"permissions"`
}

// ChangePasswordRequest changes the caller's own password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// CreateUserRequest creates a staff user
type CreateUserRequest struct {
	Username    string     `json:"username" binding:"required,min=3,max=100"`
	Password    string     `json:"password" binding:"required,min=8,max=72"`
	Role        string     `json:"role" binding:"required"`
	Email       string     `json:"email" binding:"omitempty,email,max=200"`
	DisplayName string     `json:"display_name" binding:"omitempty,max=200"`
	BranchID    *uuid.UUID `json:"branch_id"`
}

// UpdateUserRequest updates a staff user's profile
type UpdateUserRequest struct {
	Email       *string `json:"email" binding:"omitempty,email,max=200"`
	DisplayName *string `json:"display_name" binding:"omitempty,max=200"`
}

// ChangeRoleRequest changes a staff user's role
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// AssignBranchRequest pins a staff user to a branch, or clears the
// assignment when BranchID is null
type AssignBranchRequest struct {
	BranchID *uuid.UUID `json:"branch_id"`
}

// ResetPasswordRequest sets a new password without the old one
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// UserResponse represents a staff user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
	Role        string     `json:"role"`
	BranchID    *uuid.UUID `json:"branch_id,omitempty"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToUserResponse converts a domain user to a response
func ToUserResponse(user *identity.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		TenantID:    user.TenantID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role.String(),
		BranchID:    user.BranchID,
		Status:      string(user.Status),
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

// UserListResult is a paginated list of staff users
type UserListResult struct {
	Users      []UserResponse `json:"users"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// RegisterTenantRequest bootstraps a tenant with its owner account and
// default branch in one call
type RegisterTenantRequest struct {
	TenantCode    string `json:"tenant_code" binding:"required,max=50"`
	TenantName    string `json:"tenant_name" binding:"required,max=200"`
	OwnerUsername string `json:"owner_username" binding:"required,min=3,max=100"`
	OwnerPassword string `json:"owner_password" binding:"required,min=8,max=72"`
	ContactName   string `json:"contact_name" binding:"omitempty,max=100"`
	ContactPhone  string `json:"contact_phone" binding:"omitempty,max=50"`
	ContactEmail  string `json:"contact_email" binding:"omitempty,email,max=200"`
	TrialDays     int    `json:"trial_days" binding:"omitempty,min=0,max=90"`
}

// RegisterTenantResult carries the bootstrapped tenant, owner and branch
type RegisterTenantResult struct {
	Tenant          TenantResponse `json:"tenant"`
	Owner           UserResponse   `json:"owner"`
	DefaultBranchID uuid.UUID      `json:"default_branch_id"`
}

// UpdateTenantRequest updates a tenant's profile
type UpdateTenantRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=200"`
	ContactName  *string `json:"contact_name" binding:"omitempty,max=100"`
	ContactPhone *string `json:"contact_phone" binding:"omitempty,max=50"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email,max=200"`
	Notes        *string `json:"notes" binding:"omitempty,max=1000"`
}

// ChangePlanRequest moves a tenant to a new subscription plan
type ChangePlanRequest struct {
	Plan string `json:"plan" binding:"required"`
}

// TenantLimitsResponse represents the tenant's plan ceilings
type TenantLimitsResponse struct {
	MaxBranches int    `json:"max_branches"`
	MaxStaff    int    `json:"max_staff"`
	MaxProducts int    `json:"max_products"`
	Currency    string `json:"currency"`
	Timezone    string `json:"timezone"`
}

// TenantResponse represents a tenant in API responses
type TenantResponse struct {
	ID           uuid.UUID            `json:"id"`
	Code         string               `json:"code"`
	Name         string               `json:"name"`
	Status       string               `json:"status"`
	Plan         string               `json:"plan"`
	ContactName  string               `json:"contact_name,omitempty"`
	ContactPhone string               `json:"contact_phone,omitempty"`
	ContactEmail string               `json:"contact_email,omitempty"`
	Limits       TenantLimitsResponse `json:"limits"`
	ExpiresAt    *time.Time           `json:"expires_at,omitempty"`
	TrialEndsAt  *time.Time           `json:"trial_ends_at,omitempty"`
	Notes        string               `json:"notes,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// ToTenantResponse converts a domain tenant to a response
func ToTenantResponse(tenant *identity.Tenant) TenantResponse {
	return TenantResponse{
		ID:           tenant.ID,
		Code:         tenant.Code,
		Name:         tenant.Name,
		Status:       string(tenant.Status),
		Plan:         string(tenant.Plan),
		ContactName:  tenant.ContactName,
		ContactPhone: tenant.ContactPhone,
		ContactEmail: tenant.ContactEmail,
		Limits: TenantLimitsResponse{
			MaxBranches: tenant.Limits.MaxBranches,
			MaxStaff:    tenant.Limits.MaxStaff,
			MaxProducts: tenant.Limits.MaxProducts,
			Currency:    tenant.Limits.Currency,
			Timezone:    tenant.Limits.Timezone,
		},
		ExpiresAt:   tenant.ExpiresAt,
		TrialEndsAt: tenant.TrialEndsAt,
		Notes:       tenant.Notes,
		CreatedAt:   tenant.CreatedAt,
		UpdatedAt:   tenant.UpdatedAt,
	}
}

// TenantListResult is a paginated list of tenants
type TenantListResult struct {
	Tenants    []TenantResponse `json:"tenants"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// TenantUsageResult reports resource consumption against plan limits.
// A limit of 0 means unlimited.
type TenantUsageResult struct {
	Branches UsageEntry `json:"branches"`
	Staff    UsageEntry `json:"staff"`
	Products UsageEntry `json:"products"`
}

// UsageEntry pairs a current count with its plan ceiling
type UsageEntry struct {
	Used  int64 `json:"used"`
	Limit int   `json:"limit"`
}

// buildListFilter applies the shared list defaults
func buildListFilter(search string, page, pageSize int, orderBy, orderDir string) shared.Filter {
	f := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Search:   search,
		Filters:  make(map[string]interface{}),
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	if f.OrderBy == "" {
		f.OrderBy = "created_at"
	}
	if f.OrderDir == "" {
		f.OrderDir = "desc"
	}
	return f
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
