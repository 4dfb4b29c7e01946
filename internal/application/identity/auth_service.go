package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/auth"
)

// AuthService authenticates staff members and manages their token
// lifecycle. Tokens are stateless JWTs; revocation state (logout,
// forced logout, refresh rotation) lives in the revocation list.
type AuthService struct {
	tenantRepo  identity.TenantRepository
	userRepo    identity.UserRepository
	jwtService  *auth.JWTService
	revocations auth.RevocationList
}

// NewAuthService creates a new AuthService
func NewAuthService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	revocations auth.RevocationList,
) *AuthService {
	return &AuthService{
		tenantRepo:  tenantRepo,
		userRepo:    userRepo,
		jwtService:  jwtService,
		revocations: revocations,
	}
}

// Login authenticates a staff member of one tenant and issues a token
// pair. Unknown tenants and unknown usernames both come back as
// INVALID_CREDENTIALS so the response does not reveal which part was
// wrong.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	tenantCode := strings.ToUpper(strings.TrimSpace(req.TenantCode))
	username := strings.ToLower(strings.TrimSpace(req.Username))

	tenant, err := s.tenantRepo.FindByCode(ctx, tenantCode)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	user, err := s.userRepo.FindByUsername(ctx, tenant.ID, username)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if user.IsLocked() {
		return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
	}
	if user.Status == identity.UserStatusDeactivated {
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !user.VerifyPassword(req.Password) {
		user.RecordFailedLogin()
		if err := s.userRepo.Save(ctx, user); err != nil {
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record login attempt")
		}
		if user.IsLocked() {
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	// Tenant standing is checked only after the credentials verify, so
	// the suspension status is not leaked to password guessing.
	if !tenant.IsActive() {
		if tenant.IsTrialExpired() {
			return nil, shared.NewDomainError("TRIAL_EXPIRED", "Trial period has ended. Please upgrade your plan")
		}
		return nil, shared.NewDomainError("TENANT_SUSPENDED", "This business account is suspended")
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record login")
	}

	pair, err := s.jwtService.GenerateTokenPair(tokenSubject(user))
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  ToUserResponse(user),
		Permissions:           PermissionsForRole(user.Role),
	}, nil
}

// RefreshToken rotates a token pair. The old refresh token is revoked
// on success, so each refresh token works exactly once. The user is
// reloaded so role or branch changes take effect in the new pair.
func (s *AuthService) RefreshToken(ctx context.Context, req RefreshTokenRequest) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check token state")
	}
	if revoked {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Refresh token has already been used or revoked")
	}

	swept, err := s.revocations.IsUserRevokedSince(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check token state")
	}
	if swept {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Session has been revoked")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	pair, err := s.jwtService.RefreshTokenPair(req.RefreshToken, tokenSubject(user))
	if err != nil {
		return nil, mapTokenError(err)
	}

	if err := s.revocations.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to rotate refresh token")
	}

	return &RefreshTokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

// Logout revokes the caller's access token, and the refresh token when
// the client still holds one. An unparseable refresh token is ignored;
// it cannot be used anyway.
func (s *AuthService) Logout(ctx context.Context, req LogoutRequest) error {
	if req.AccessTokenID != "" {
		if err := s.revocations.Revoke(ctx, req.AccessTokenID, req.AccessTokenTTL); err != nil {
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke session")
		}
	}

	if req.RefreshToken != "" {
		claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
		if err == nil {
			if err := s.revocations.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
				return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke session")
			}
		}
	}

	return nil
}

// ForceLogout invalidates every token a user currently holds. Used
// after a role change, a password reset, or a suspected compromise.
func (s *AuthService) ForceLogout(ctx context.Context, userID uuid.UUID) error {
	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.revocations.RevokeUser(ctx, userID.String(), ttl); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke user sessions")
	}
	return nil
}

// GetCurrentUser returns the caller's profile and permissions
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*CurrentUserResult, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	return &CurrentUserResult{
		User:        ToUserResponse(user),
		Permissions: PermissionsForRole(user.Role),
	}, nil
}

// ChangePassword changes the caller's own password after verifying the
// current one
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	return nil
}

func tokenSubject(user *identity.User) auth.TokenSubject {
	return auth.TokenSubject{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role.String(),
		BranchID: user.BranchID,
	}
}

func mapTokenError(err error) error {
	switch err {
	case auth.ErrExpiredToken:
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case auth.ErrMaxRefreshExceeded:
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	case auth.ErrInvalidToken, auth.ErrInvalidClaims, auth.ErrInvalidTokenType:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
	}
}
