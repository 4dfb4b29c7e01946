package finance

import (
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/shared"
)

const (
	AggregateTypeExpenseRecord = "ExpenseRecord"

	EventTypeExpenseCreated   = "expense.created"
	EventTypeExpenseSubmitted = "expense.submitted"
	EventTypeExpenseApproved  = "expense.approved"
	EventTypeExpenseRejected  = "expense.rejected"
	EventTypeExpensePaid      = "expense.paid"
)

// ExpenseEvent carries the fields shared by all expense lifecycle events.
type ExpenseEvent struct {
	shared.BaseDomainEvent
	ExpenseNumber string          `json:"expense_number"`
	Category      ExpenseCategory `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Status        ExpenseStatus   `json:"status"`
}

func newExpenseEvent(eventType string, e *ExpenseRecord) ExpenseEvent {
	return ExpenseEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeExpenseRecord, e.ID, e.TenantID),
		ExpenseNumber:   e.ExpenseNumber,
		Category:        e.Category,
		Amount:          e.Amount,
		Status:          e.Status,
	}
}

// ExpenseCreatedEvent is raised when a draft expense is created.
type ExpenseCreatedEvent struct{ ExpenseEvent }

func NewExpenseCreatedEvent(e *ExpenseRecord) *ExpenseCreatedEvent {
	return &ExpenseCreatedEvent{newExpenseEvent(EventTypeExpenseCreated, e)}
}

// ExpenseSubmittedEvent is raised when an expense enters approval.
type ExpenseSubmittedEvent struct{ ExpenseEvent }

func NewExpenseSubmittedEvent(e *ExpenseRecord) *ExpenseSubmittedEvent {
	return &ExpenseSubmittedEvent{newExpenseEvent(EventTypeExpenseSubmitted, e)}
}

// ExpenseApprovedEvent is raised on approval.
type ExpenseApprovedEvent struct{ ExpenseEvent }

func NewExpenseApprovedEvent(e *ExpenseRecord) *ExpenseApprovedEvent {
	return &ExpenseApprovedEvent{newExpenseEvent(EventTypeExpenseApproved, e)}
}

// ExpenseRejectedEvent is raised on rejection.
type ExpenseRejectedEvent struct {
	ExpenseEvent
	Reason string `json:"reason"`
}

func NewExpenseRejectedEvent(e *ExpenseRecord) *ExpenseRejectedEvent {
	return &ExpenseRejectedEvent{
		ExpenseEvent: newExpenseEvent(EventTypeExpenseRejected, e),
		Reason:       e.DecisionNote,
	}
}

// ExpensePaidEvent is raised when an approved expense is settled.
type ExpensePaidEvent struct{ ExpenseEvent }

func NewExpensePaidEvent(e *ExpenseRecord) *ExpensePaidEvent {
	return &ExpensePaidEvent{newExpenseEvent(EventTypeExpensePaid, e)}
}
