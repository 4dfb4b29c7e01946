package event

import (
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/finance"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/procurement"
	"github.com/retailpos/backend/internal/domain/sales"
)

// RegisterAllEvents registers every domain event type with the
// serializer so consumers (the Kafka sink, the websocket feed) can
// deserialize events from their wire form.
func RegisterAllEvents(serializer *EventSerializer) {
	// Identity
	serializer.Register(identity.EventTypeTenantCreated, &identity.TenantCreatedEvent{})
	serializer.Register(identity.EventTypeTenantPlanChanged, &identity.TenantPlanChangedEvent{})
	serializer.Register(identity.EventTypeUserCreated, &identity.UserCreatedEvent{})
	serializer.Register(identity.EventTypeUserDeactivated, &identity.UserDeactivatedEvent{})

	// Partner
	serializer.Register(partner.EventTypeBranchCreated, &partner.BranchCreatedEvent{})
	serializer.Register(partner.EventTypeBranchDeactivated, &partner.BranchDeactivatedEvent{})

	// Catalog
	serializer.Register(catalog.EventTypeProductCreated, &catalog.ProductCreatedEvent{})
	serializer.Register(catalog.EventTypeProductPriceChanged, &catalog.ProductPriceChangedEvent{})
	serializer.Register(catalog.EventTypeProductDisabled, &catalog.ProductDisabledEvent{})

	// Inventory
	serializer.Register(inventory.EventTypeStockIncreased, &inventory.StockIncreasedEvent{})
	serializer.Register(inventory.EventTypeStockDecreased, &inventory.StockDecreasedEvent{})

	// Procurement
	serializer.Register(procurement.EventTypePurchaseOrderCreated, &procurement.PurchaseOrderCreatedEvent{})
	serializer.Register(procurement.EventTypePurchaseOrderIssued, &procurement.PurchaseOrderIssuedEvent{})
	serializer.Register(procurement.EventTypeGRNCreated, &procurement.GRNCreatedEvent{})
	serializer.Register(procurement.EventTypeGRNConfirmed, &procurement.GRNConfirmedEvent{})

	// Sales
	serializer.Register(sales.EventTypeSaleCompleted, &sales.SaleCompletedEvent{})
	serializer.Register(sales.EventTypeSaleVoided, &sales.SaleVoidedEvent{})

	// Finance
	serializer.Register(finance.EventTypeExpenseCreated, &finance.ExpenseCreatedEvent{})
	serializer.Register(finance.EventTypeExpenseSubmitted, &finance.ExpenseSubmittedEvent{})
	serializer.Register(finance.EventTypeExpenseApproved, &finance.ExpenseApprovedEvent{})
	serializer.Register(finance.EventTypeExpenseRejected, &finance.ExpenseRejectedEvent{})
	serializer.Register(finance.EventTypeExpensePaid, &finance.ExpensePaidEvent{})
}
