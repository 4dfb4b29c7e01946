package procurement

import (
	"context"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/shared"
)

// ErrConfirmationInProgress is returned by a ConfirmationLocker when
// another confirmation currently holds the per-GRN lock.
var ErrConfirmationInProgress = shared.NewDomainError("ALREADY_PROCESSED", "GRN confirmation already in progress")

// ConfirmationLocker serializes confirmation attempts on the same GRN
// across processes. Obtain acquires an exclusive per-GRN lock and
// returns a release function; it returns ErrConfirmationInProgress when
// the lock is already held.
type ConfirmationLocker interface {
	Obtain(ctx context.Context, tenantID, grnID uuid.UUID) (release func(), err error)
}

// NoOpConfirmationLocker never blocks. It serves single-process
// deployments without redis and unit tests.
type NoOpConfirmationLocker struct{}

// NewNoOpConfirmationLocker creates a locker that always succeeds.
func NewNoOpConfirmationLocker() *NoOpConfirmationLocker {
	return &NoOpConfirmationLocker{}
}

// Obtain returns immediately with a no-op release function.
func (l *NoOpConfirmationLocker) Obtain(_ context.Context, _, _ uuid.UUID) (func(), error) {
	return func() {}, nil
}

var _ ConfirmationLocker = (*NoOpConfirmationLocker)(nil)
