package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backend/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	cfg := config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	}
	return NewJWTService(cfg)
}

func newTestSubject() TokenSubject {
	branchID := uuid.New()
	return TokenSubject{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Username: "dana",
		Role:     "stockist",
		BranchID: &branchID,
	}
}

func TestNewJWTService(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:                 "test-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        5,
	}

	svc := NewJWTService(cfg)

	assert.NotNil(t, svc)
	assert.Equal(t, []byte(cfg.Secret), svc.accessSecret)
	assert.Equal(t, cfg.AccessTokenExpiration, svc.accessExpiration)
	assert.Equal(t, cfg.RefreshTokenExpiration, svc.refreshExpiration)
	assert.Equal(t, cfg.Issuer, svc.issuer)
	assert.Equal(t, cfg.MaxRefreshCount, svc.maxRefreshCount)
}

func TestNewJWTService_UsesSecretForRefreshIfNotProvided(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:        "test-secret",
		RefreshSecret: "",
	}

	svc := NewJWTService(cfg)

	assert.Equal(t, []byte(cfg.Secret), svc.refreshSecret)
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	subject := newTestSubject()

	pair, err := svc.GenerateTokenPair(subject)

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.AccessTokenExpiresAt.After(time.Now()))
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
}

func TestValidateAccessToken_Success(t *testing.T) {
	svc := newTestJWTService()
	subject := newTestSubject()

	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)

	require.NoError(t, err)
	assert.Equal(t, subject.TenantID.String(), claims.TenantID)
	assert.Equal(t, subject.UserID.String(), claims.UserID)
	assert.Equal(t, subject.Username, claims.Username)
	assert.Equal(t, subject.Role, claims.Role)
	assert.Equal(t, subject.BranchID.String(), claims.BranchID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateAccessToken_NoBranchClaim(t *testing.T) {
	svc := newTestJWTService()
	subject := newTestSubject()
	subject.BranchID = nil

	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	assert.Empty(t, claims.BranchID)
	branchID, err := claims.GetBranchUUID()
	require.NoError(t, err)
	assert.Nil(t, branchID)
}

func TestValidateAccessToken_ExpiredToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  -1 * time.Hour,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
	}
	svc := NewJWTService(cfg)

	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateAccessToken_InvalidToken(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateAccessToken("not-a-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_RejectsRefreshToken(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)

	// Refresh tokens are signed with a different secret, so validation
	// fails before the token-type check is reached.
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRefreshToken_RejectsAccessToken(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_WrongTypeSameSecret(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:                 "shared-secret-key-at-least-32-ch",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        5,
	}
	svc := NewJWTService(cfg)

	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)

	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidateAccessToken_TamperedSignature(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	tampered := pair.AccessToken[:len(pair.AccessToken)-2] + "xx"
	_, err = svc.ValidateAccessToken(tampered)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenPair_Success(t *testing.T) {
	svc := newTestJWTService()
	subject := newTestSubject()

	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)

	// Role changed between login and refresh; the new access token
	// must carry the current role.
	subject.Role = "manager"

	refreshed, err := svc.RefreshTokenPair(pair.RefreshToken, subject)

	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, refreshed.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, refreshed.RefreshToken)

	claims, err := svc.ValidateAccessToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "manager", claims.Role)

	refreshClaims, err := svc.ValidateRefreshToken(refreshed.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshClaims.RefreshCount)
}

func TestRefreshTokenPair_SubjectMismatch(t *testing.T) {
	svc := newTestJWTService()
	subject := newTestSubject()

	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)

	other := newTestSubject()
	_, err = svc.RefreshTokenPair(pair.RefreshToken, other)

	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestRefreshTokenPair_MaxRefreshExceeded(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        2,
	}
	svc := NewJWTService(cfg)
	subject := newTestSubject()

	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		pair, err = svc.RefreshTokenPair(pair.RefreshToken, subject)
		require.NoError(t, err)
	}

	_, err = svc.RefreshTokenPair(pair.RefreshToken, subject)

	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
}

func TestClaims_GetRemainingTTL(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	ttl := claims.GetRemainingTTL()
	assert.Greater(t, ttl, 14*time.Minute)
	assert.LessOrEqual(t, ttl, 15*time.Minute)
}

func TestClaims_UUIDAccessors(t *testing.T) {
	svc := newTestJWTService()
	subject := newTestSubject()

	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	tenantID, err := claims.GetTenantUUID()
	require.NoError(t, err)
	assert.Equal(t, subject.TenantID, tenantID)

	userID, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, subject.UserID, userID)

	branchID, err := claims.GetBranchUUID()
	require.NoError(t, err)
	require.NotNil(t, branchID)
	assert.Equal(t, *subject.BranchID, *branchID)
}
