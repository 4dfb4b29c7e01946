package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/shared"
)

type branchFixture struct {
	service   *BranchService
	branches  *MockBranchRepository
	tenants   *MockTenantRepository
	publisher *MockEventPublisher
}

func newBranchFixture() *branchFixture {
	branches := new(MockBranchRepository)
	tenants := new(MockTenantRepository)
	publisher := NewMockEventPublisher()
	service := NewBranchService(branches, tenants)
	service.SetEventPublisher(publisher)
	return &branchFixture{
		service:   service,
		branches:  branches,
		tenants:   tenants,
		publisher: publisher,
	}
}

func TestBranchService_Create(t *testing.T) {
	f := newBranchFixture()
	tenant := newTestTenant(t)
	require.NoError(t, tenant.ChangePlan("basic"))
	tenant.ClearDomainEvents()

	f.tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	f.branches.On("CountForTenant", mock.Anything, tenant.ID).Return(int64(1), nil)
	f.branches.On("ExistsByCode", mock.Anything, tenant.ID, "WH2").Return(false, nil)
	f.branches.On("Save", mock.Anything, mock.AnythingOfType("*partner.Branch")).Return(nil)

	resp, err := f.service.Create(context.Background(), tenant.ID, CreateBranchRequest{
		Code:  " wh2 ",
		Name:  "Warehouse Two",
		Phone: "+15550123",
		City:  "Portland",
	})

	require.NoError(t, err)
	assert.Equal(t, "WH2", resp.Code)
	assert.Equal(t, "Warehouse Two", resp.Name)
	assert.Equal(t, "Portland", resp.City)
	assert.Equal(t, "active", resp.Status)
	assert.False(t, resp.IsDefault)
	assert.Len(t, f.publisher.GetEventsByType("branch.created"), 1)
}

// A free-plan tenant has a single-branch limit; the branch opened at
// registration exhausts it.
func TestBranchService_Create_PlanLimitReached(t *testing.T) {
	f := newBranchFixture()
	tenant := newTestTenant(t)
	require.Equal(t, 1, tenant.Limits.MaxBranches)

	f.tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	f.branches.On("CountForTenant", mock.Anything, tenant.ID).Return(int64(1), nil)

	_, err := f.service.Create(context.Background(), tenant.ID, CreateBranchRequest{
		Code: "WH2",
		Name: "Warehouse Two",
	})

	require.ErrorIs(t, err, shared.ErrPlanLimitReached)
	f.branches.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestBranchService_Create_CodeTaken(t *testing.T) {
	f := newBranchFixture()
	tenant := newTestTenant(t)
	require.NoError(t, tenant.ChangePlan("pro"))

	f.tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	f.branches.On("CountForTenant", mock.Anything, tenant.ID).Return(int64(1), nil)
	f.branches.On("ExistsByCode", mock.Anything, tenant.ID, "WH1").Return(true, nil)

	_, err := f.service.Create(context.Background(), tenant.ID, CreateBranchRequest{
		Code: "WH1",
		Name: "Duplicate",
	})

	assertDomainCode(t, err, "BRANCH_CODE_EXISTS")
}

func TestBranchService_Update_PartialFields(t *testing.T) {
	f := newBranchFixture()
	tenant := newTestTenant(t)
	branch := newTestBranch(t, tenant.ID)
	require.NoError(t, branch.Update("Warehouse One", "+15550100", "1 Dock Rd", "Salem"))

	f.branches.On("FindByIDForTenant", mock.Anything, tenant.ID, branch.ID).Return(branch, nil)
	f.branches.On("Save", mock.Anything, branch).Return(nil)

	phone := "+15550199"
	resp, err := f.service.Update(context.Background(), tenant.ID, branch.ID, UpdateBranchRequest{
		Phone: &phone,
	})

	require.NoError(t, err)
	assert.Equal(t, "+15550199", resp.Phone)
	assert.Equal(t, "Warehouse One", resp.Name)
	assert.Equal(t, "Salem", resp.City)
}

func TestBranchService_SetDefault_DemotesPrevious(t *testing.T) {
	f := newBranchFixture()
	tenant := newTestTenant(t)
	current := newTestBranch(t, tenant.ID)
	current.SetDefault(true)
	promoted, err := partner.NewBranch(tenant.ID, "WH2", "Warehouse Two")
	require.NoError(t, err)
	promoted.ClearDomainEvents()

	f.branches.On("FindByIDForTenant", mock.Anything, tenant.ID, promoted.ID).Return(promoted, nil)
	f.branches.On("FindDefault", mock.Anything, tenant.ID).Return(current, nil)
	f.branches.On("Save", mock.Anything, current).Return(nil)
	f.branches.On("Save", mock.Anything, promoted).Return(nil)

	resp, err := f.service.SetDefault(context.Background(), tenant.ID, promoted.ID)

	require.NoError(t, err)
	assert.True(t, resp.IsDefault)
	assert.False(t, current.IsDefault)
	f.branches.AssertExpectations(t)
}

func TestBranchService_SetDefault_AlreadyDefault(t *testing.T) {
	f := newBranchFixture()
	tenant := newTestTenant(t)
	branch := newTestBranch(t, tenant.ID)
	branch.SetDefault(true)

	f.branches.On("FindByIDForTenant", mock.Anything, tenant.ID, branch.ID).Return(branch, nil)

	resp, err := f.service.SetDefault(context.Background(), tenant.ID, branch.ID)

	require.NoError(t, err)
	assert.True(t, resp.IsDefault)
	f.branches.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestBranchService_SetDefault_InactiveBranch(t *testing.T) {
	f := newBranchFixture()
	tenant := newTestTenant(t)
	branch := newTestBranch(t, tenant.ID)
	require.NoError(t, branch.Deactivate())

	f.branches.On("FindByIDForTenant", mock.Anything, tenant.ID, branch.ID).Return(branch, nil)

	_, err := f.service.SetDefault(context.Background(), tenant.ID, branch.ID)

	assertDomainCode(t, err, "INVALID_STATE")
}

func TestBranchService_Deactivate(t *testing.T) {
	f := newBranchFixture()
	tenant := newTestTenant(t)
	branch := newTestBranch(t, tenant.ID)

	f.branches.On("FindByIDForTenant", mock.Anything, tenant.ID, branch.ID).Return(branch, nil)
	f.branches.On("Save", mock.Anything, branch).Return(nil)

	resp, err := f.service.Deactivate(context.Background(), tenant.ID, branch.ID)

	require.NoError(t, err)
	assert.Equal(t, "inactive", resp.Status)
	assert.Len(t, f.publisher.GetEventsByType("branch.deactivated"), 1)
}

func TestBranchService_Deactivate_DefaultBranch(t *testing.T) {
	f := newBranchFixture()
	tenant := newTestTenant(t)
	branch := newTestBranch(t, tenant.ID)
	branch.SetDefault(true)

	f.branches.On("FindByIDForTenant", mock.Anything, tenant.ID, branch.ID).Return(branch, nil)

	_, err := f.service.Deactivate(context.Background(), tenant.ID, branch.ID)

	assertDomainCode(t, err, "INVALID_STATE")
	f.branches.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestBranchService_Delete_DefaultBranch(t *testing.T) {
	f := newBranchFixture()
	tenant := newTestTenant(t)
	branch := newTestBranch(t, tenant.ID)
	branch.SetDefault(true)

	f.branches.On("FindByIDForTenant", mock.Anything, tenant.ID, branch.ID).Return(branch, nil)

	err := f.service.Delete(context.Background(), tenant.ID, branch.ID)

	assertDomainCode(t, err, "INVALID_STATE")
	f.branches.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestBranchService_Delete(t *testing.T) {
	f := newBranchFixture()
	tenant := newTestTenant(t)
	branch := newTestBranch(t, tenant.ID)

	f.branches.On("FindByIDForTenant", mock.Anything, tenant.ID, branch.ID).Return(branch, nil)
	f.branches.On("DeleteForTenant", mock.Anything, tenant.ID, branch.ID).Return(nil)

	err := f.service.Delete(context.Background(), tenant.ID, branch.ID)

	require.NoError(t, err)
	f.branches.AssertExpectations(t)
}

func TestBranchService_List(t *testing.T) {
	f := newBranchFixture()
	tenant := newTestTenant(t)
	branch := newTestBranch(t, tenant.ID)

	f.branches.On("FindAllForTenant", mock.Anything, tenant.ID, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters["status"] == "active" && filter.Page == 1
	})).Return([]partner.Branch{*branch}, nil)
	f.branches.On("CountForTenant", mock.Anything, tenant.ID).Return(int64(1), nil)

	result, err := f.service.List(context.Background(), tenant.ID, ListBranchesQuery{Status: "active"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Branches, 1)
	assert.Equal(t, "WH1", result.Branches[0].Code)
}

func TestBranchService_GetByID_NotFound(t *testing.T) {
	f := newBranchFixture()
	tenant := newTestTenant(t)
	branchID := uuid.New()

	f.branches.On("FindByIDForTenant", mock.Anything, tenant.ID, branchID).Return(nil, shared.ErrNotFound)

	_, err := f.service.GetByID(context.Background(), tenant.ID, branchID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
