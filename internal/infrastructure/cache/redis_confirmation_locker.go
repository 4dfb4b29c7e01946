package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	appprocurement "github.com/retailpos/backend/internal/application/procurement"
)

const (
	confirmationLockPrefix = "grn:confirm:"
	confirmationLockTTL    = 30 * time.Second
)

// RedisConfirmationLocker serializes GRN confirmations across processes
// using a redis lock keyed by tenant and GRN.
type RedisConfirmationLocker struct {
	locker *redislock.Client
}

// NewRedisConfirmationLocker creates a locker backed by the given Redis client.
func NewRedisConfirmationLocker(client *redis.Client) *RedisConfirmationLocker {
	return &RedisConfirmationLocker{locker: redislock.New(client)}
}

// Obtain acquires the per-GRN lock. It does not retry: a second
// confirmation attempt while the first is in flight should fail fast,
// not queue up behind it.
func (l *RedisConfirmationLocker) Obtain(ctx context.Context, tenantID, grnID uuid.UUID) (func(), error) {
	key := fmt.Sprintf("%s%s:%s", confirmationLockPrefix, tenantID, grnID)

	lock, err := l.locker.Obtain(ctx, key, confirmationLockTTL, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, appprocurement.ErrConfirmationInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain confirmation lock: %w", err)
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = lock.Release(releaseCtx)
	}
	return release, nil
}

// Ensure RedisConfirmationLocker implements ConfirmationLocker
var _ appprocurement.ConfirmationLocker = (*RedisConfirmationLocker)(nil)
