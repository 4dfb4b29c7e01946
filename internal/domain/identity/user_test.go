package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates active user with hashed password", func(t *testing.T) {
		user, err := NewUser(tenantID, "Alice", "s3cret-pass", StaffRoleCashier)

		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, StaffRoleCashier, user.Role)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
		assert.True(t, user.VerifyPassword("s3cret-pass"))
		assert.False(t, user.VerifyPassword("wrong"))
	})

	t.Run("rejects short username", func(t *testing.T) {
		_, err := NewUser(tenantID, "al", "s3cret-pass", StaffRoleCashier)
		assert.Error(t, err)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser(tenantID, "alice", "short", StaffRoleCashier)
		assert.Error(t, err)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewUser(tenantID, "alice", "s3cret-pass", StaffRole("janitor"))
		assert.Error(t, err)
	})
}

func TestUser_ChangePassword(t *testing.T) {
	user, _ := NewUser(uuid.New(), "alice", "s3cret-pass", StaffRoleManager)

	err := user.ChangePassword("wrong", "new-password")
	assert.Error(t, err)

	err = user.ChangePassword("s3cret-pass", "new-password")
	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("new-password"))
}

func TestUser_Lockout(t *testing.T) {
	user, _ := NewUser(uuid.New(), "alice", "s3cret-pass", StaffRoleCashier)

	for i := 0; i < maxFailedAttempts; i++ {
		assert.True(t, user.CanLogin())
		user.RecordFailedLogin()
	}

	assert.Equal(t, UserStatusLocked, user.Status)
	assert.True(t, user.IsLocked())
	assert.False(t, user.CanLogin())

	// Lockout expires after the window
	past := time.Now().Add(-time.Minute)
	user.LockedUntil = &past
	assert.False(t, user.IsLocked())
	assert.True(t, user.CanLogin())

	user.RecordLogin()
	assert.Equal(t, UserStatusActive, user.Status)
	assert.Zero(t, user.FailedAttempts)
	assert.NotNil(t, user.LastLoginAt)
}

func TestUser_Lifecycle(t *testing.T) {
	user, _ := NewUser(uuid.New(), "alice", "s3cret-pass", StaffRoleStockist)

	require.NoError(t, user.Deactivate())
	assert.Equal(t, UserStatusDeactivated, user.Status)
	assert.False(t, user.CanLogin())
	assert.Error(t, user.Deactivate())

	require.NoError(t, user.Activate())
	assert.Equal(t, UserStatusActive, user.Status)
	assert.Error(t, user.Activate())
}

func TestUser_AssignBranch(t *testing.T) {
	user, _ := NewUser(uuid.New(), "alice", "s3cret-pass", StaffRoleCashier)
	branchID := uuid.New()

	user.AssignBranch(&branchID)
	require.NotNil(t, user.BranchID)
	assert.Equal(t, branchID, *user.BranchID)

	user.AssignBranch(nil)
	assert.Nil(t, user.BranchID)
}

func TestUser_ChangeRole(t *testing.T) {
	user, _ := NewUser(uuid.New(), "alice", "s3cret-pass", StaffRoleCashier)

	require.NoError(t, user.ChangeRole(StaffRoleManager))
	assert.Equal(t, StaffRoleManager, user.Role)

	assert.Error(t, user.ChangeRole(StaffRole("intern")))
}
