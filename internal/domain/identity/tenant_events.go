package identity

import (
	"github.com/retailpos/backend/internal/domain/shared"
)

const AggregateTypeTenant = "Tenant"

const (
	EventTypeTenantCreated     = "tenant.created"
	EventTypeTenantPlanChanged = "tenant.plan_changed"
)

// TenantCreatedEvent fires once when a store signs up. For tenant
// events the aggregate ID and the tenant ID are the same value.
type TenantCreatedEvent struct {
	shared.BaseDomainEvent
	Code   string       `json:"code"`
	Name   string       `json:"name"`
	Status TenantStatus `json:"status"`
	Plan   TenantPlan   `json:"plan"`
}

// NewTenantCreatedEvent snapshots the freshly registered tenant.
func NewTenantCreatedEvent(tenant *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantCreated, AggregateTypeTenant, tenant.ID, tenant.ID),
		Code:            tenant.Code,
		Name:            tenant.Name,
		Status:          tenant.Status,
		Plan:            tenant.Plan,
	}
}

// TenantPlanChangedEvent fires on subscription upgrades and
// downgrades so limit enforcement can react.
type TenantPlanChangedEvent struct {
	shared.BaseDomainEvent
	Code string     `json:"code"`
	Plan TenantPlan `json:"plan"`
}

// NewTenantPlanChangedEvent snapshots the tenant after a plan change.
func NewTenantPlanChangedEvent(tenant *Tenant) *TenantPlanChangedEvent {
	return &TenantPlanChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantPlanChanged, AggregateTypeTenant, tenant.ID, tenant.ID),
		Code:            tenant.Code,
		Plan:            tenant.Plan,
	}
}
