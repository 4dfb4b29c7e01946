package partner

import (
	"github.com/retailpos/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeBranch = "Branch"

// Event type constants
const (
	EventTypeBranchCreated     = "branch.created"
	EventTypeBranchDeactivated = "branch.deactivated"
)

// BranchCreatedEvent is published when a new branch is created
type BranchCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewBranchCreatedEvent creates a new BranchCreatedEvent
func NewBranchCreatedEvent(branch *Branch) *BranchCreatedEvent {
	return &BranchCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBranchCreated, AggregateTypeBranch, branch.ID, branch.TenantID),
		Code:            branch.Code,
		Name:            branch.Name,
	}
}

// BranchDeactivatedEvent is published when a branch is deactivated
type BranchDeactivatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewBranchDeactivatedEvent creates a new BranchDeactivatedEvent
func NewBranchDeactivatedEvent(branch *Branch) *BranchDeactivatedEvent {
	return &BranchDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBranchDeactivated, AggregateTypeBranch, branch.ID, branch.TenantID),
		Code:            branch.Code,
	}
}
