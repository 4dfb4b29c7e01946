package auth

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList invalidates tokens before their natural expiry.
// Logout revokes the individual token by JTI; force-logout stamps the
// user so every token issued before the stamp is rejected.
type RevocationList interface {
	// Revoke marks a token's JTI as revoked until ttl elapses. Callers
	// pass the token's remaining lifetime so entries expire with the
	// token itself.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether a token's JTI has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// RevokeUser invalidates every token the user currently holds by
	// recording the revocation instant.
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error

	// IsUserRevokedSince reports whether tokens issued at issuedAt have
	// been swept by a user-level revocation.
	IsUserRevokedSince(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

const revocationKeyPrefix = "auth:revoked:"

// RedisRevocationList stores revocations in Redis so that every API
// instance sees them. Entries carry a TTL and clean themselves up.
type RedisRevocationList struct {
	client *redis.Client
}

// NewRedisRevocationList creates a revocation list on an existing client
func NewRedisRevocationList(client *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{client: client}
}

func revocationJTIKey(jti string) string {
	return revocationKeyPrefix + "jti:" + jti
}

func revocationUserKey(userID string) string {
	return revocationKeyPrefix + "user:" + userID
}

// Revoke marks a token's JTI as revoked
func (l *RedisRevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // token already expired, nothing to revoke
	}
	if err := l.client.Set(ctx, revocationJTIKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether a token's JTI has been revoked
func (l *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := l.client.Exists(ctx, revocationJTIKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return exists > 0, nil
}

// RevokeUser records the current instant as the user's revocation stamp
func (l *RedisRevocationList) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	stamp := time.Now().UnixNano()
	if err := l.client.Set(ctx, revocationUserKey(userID), stamp, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke user sessions: %w", err)
	}
	return nil
}

// IsUserRevokedSince compares issuedAt against the user's revocation stamp
func (l *RedisRevocationList) IsUserRevokedSince(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	raw, err := l.client.Get(ctx, revocationUserKey(userID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user revocation: %w", err)
	}

	stamp, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse revocation stamp: %w", err)
	}

	return issuedAt.UnixNano() <= stamp, nil
}

var _ RevocationList = (*RedisRevocationList)(nil)

// MemoryRevocationList is a process-local revocation list for tests and
// single-instance deployments.
type MemoryRevocationList struct {
	mu         sync.Mutex
	revokedJTI map[string]time.Time // JTI -> entry expiry
	userStamps map[string]time.Time // userID -> revocation instant
}

// NewMemoryRevocationList creates an empty in-memory revocation list
func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{
		revokedJTI: make(map[string]time.Time),
		userStamps: make(map[string]time.Time),
	}
}

// Revoke marks a token's JTI as revoked
func (l *MemoryRevocationList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revokedJTI[jti] = time.Now().Add(ttl)
	return nil
}

// IsRevoked reports whether a token's JTI has been revoked
func (l *MemoryRevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	expiry, ok := l.revokedJTI[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(l.revokedJTI, jti)
		return false, nil
	}
	return true, nil
}

// RevokeUser records the current instant as the user's revocation stamp
func (l *MemoryRevocationList) RevokeUser(_ context.Context, userID string, _ time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.userStamps[userID] = time.Now()
	return nil
}

// IsUserRevokedSince compares issuedAt against the user's revocation stamp
func (l *MemoryRevocationList) IsUserRevokedSince(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	stamp, ok := l.userStamps[userID]
	if !ok {
		return false, nil
	}
	return issuedAt.UnixNano() <= stamp.UnixNano(), nil
}

var _ RevocationList = (*MemoryRevocationList)(nil)
