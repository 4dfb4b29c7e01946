package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/shared"
)

// ExpenseCategory represents the category of an expense
type ExpenseCategory string

const (
	ExpenseCategoryRent        ExpenseCategory = "RENT"
	ExpenseCategoryUtilities   ExpenseCategory = "UTILITIES"
	ExpenseCategorySalary      ExpenseCategory = "SALARY"
	ExpenseCategorySupplies    ExpenseCategory = "SUPPLIES"
	ExpenseCategoryMarketing   ExpenseCategory = "MARKETING"
	ExpenseCategoryEquipment   ExpenseCategory = "EQUIPMENT"
	ExpenseCategoryMaintenance ExpenseCategory = "MAINTENANCE"
	ExpenseCategoryOther       ExpenseCategory = "OTHER"
)

// IsValid checks if the category is a known ExpenseCategory
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseCategoryRent, ExpenseCategoryUtilities, ExpenseCategorySalary,
		ExpenseCategorySupplies, ExpenseCategoryMarketing, ExpenseCategoryEquipment,
		ExpenseCategoryMaintenance, ExpenseCategoryOther:
		return true
	}
	return false
}

// String returns the string representation of ExpenseCategory
func (c ExpenseCategory) String() string {
	return string(c)
}

// ExpenseStatus represents the approval status of an expense record
type ExpenseStatus string

const (
	ExpenseStatusDraft     ExpenseStatus = "DRAFT"
	ExpenseStatusPending   ExpenseStatus = "PENDING"
	ExpenseStatusApproved  ExpenseStatus = "APPROVED"
	ExpenseStatusRejected  ExpenseStatus = "REJECTED"
	ExpenseStatusCancelled ExpenseStatus = "CANCELLED"
)

// IsValid checks if the status is a known ExpenseStatus
func (s ExpenseStatus) IsValid() bool {
	switch s {
	case ExpenseStatusDraft, ExpenseStatusPending, ExpenseStatusApproved,
		ExpenseStatusRejected, ExpenseStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ExpenseStatus
func (s ExpenseStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the expense reached a final state
func (s ExpenseStatus) IsTerminal() bool {
	return s == ExpenseStatusApproved || s == ExpenseStatusRejected || s == ExpenseStatusCancelled
}

// CanSubmit returns true if the expense can be submitted for approval
func (s ExpenseStatus) CanSubmit() bool {
	return s == ExpenseStatusDraft
}

// CanDecide returns true if the expense can be approved or rejected
func (s ExpenseStatus) CanDecide() bool {
	return s == ExpenseStatusPending
}

// CanCancel returns true if the expense can be cancelled
func (s ExpenseStatus) CanCancel() bool {
	return s == ExpenseStatusDraft || s == ExpenseStatusPending
}

// ExpensePaymentMethod is how an approved expense was settled
type ExpensePaymentMethod string

const (
	ExpensePaymentMethodCash         ExpensePaymentMethod = "CASH"
	ExpensePaymentMethodBankTransfer ExpensePaymentMethod = "BANK_TRANSFER"
	ExpensePaymentMethodCard         ExpensePaymentMethod = "CARD"
	ExpensePaymentMethodOther        ExpensePaymentMethod = "OTHER"
)

// IsValid checks if the payment method is a known value
func (m ExpensePaymentMethod) IsValid() bool {
	switch m {
	case ExpensePaymentMethodCash, ExpensePaymentMethodBankTransfer,
		ExpensePaymentMethodCard, ExpensePaymentMethodOther:
		return true
	}
	return false
}

// PaymentStatus represents whether the expense has been paid
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
	PaymentStatusPaid   PaymentStatus = "PAID"
)

// ExpenseRecord tracks a branch operating expense through an approval
// flow: a draft is submitted for review, then approved or rejected;
// approved expenses can be marked paid. A scanned receipt may be
// attached as an object storage key.
type ExpenseRecord struct {
	shared.TenantAggregateRoot
	ExpenseNumber string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_expense_tenant_number,priority:2"`
	BranchID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	Category      ExpenseCategory       `gorm:"type:varchar(30);not null"`
	Amount        decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Description   string                `gorm:"type:varchar(500);not null"`
	IncurredAt    time.Time             `gorm:"type:timestamptz;not null"`
	Status        ExpenseStatus         `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	PaymentStatus PaymentStatus         `gorm:"type:varchar(20);not null;default:'UNPAID'"`
	PaymentMethod *ExpensePaymentMethod `gorm:"type:varchar(30)"`
	PaidAt        *time.Time
	ReceiptKey    string `gorm:"type:varchar(255)"` // object storage key of the scanned receipt
	SubmittedAt   *time.Time
	SubmittedBy   *uuid.UUID `gorm:"type:uuid"`
	DecidedAt     *time.Time
	DecidedBy     *uuid.UUID `gorm:"type:uuid"`
	DecisionNote  string     `gorm:"type:varchar(500)"`
	CancelledAt   *time.Time
	CancelledBy   *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ExpenseRecord) TableName() string {
	return "expense_records"
}

// NewExpenseRecord creates a draft expense record
func NewExpenseRecord(
	tenantID uuid.UUID,
	expenseNumber string,
	branchID uuid.UUID,
	category ExpenseCategory,
	amount decimal.Decimal,
	description string,
	incurredAt time.Time,
) (*ExpenseRecord, error) {
	if expenseNumber == "" {
		return nil, shared.NewDomainError("INVALID_EXPENSE_NUMBER", "Expense number cannot be empty")
	}
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Expense category is not valid")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}

	expense := &ExpenseRecord{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ExpenseNumber:       expenseNumber,
		BranchID:            branchID,
		Category:            category,
		Amount:              amount,
		Description:         description,
		IncurredAt:          incurredAt,
		Status:              ExpenseStatusDraft,
		PaymentStatus:       PaymentStatusUnpaid,
	}

	expense.AddDomainEvent(NewExpenseCreatedEvent(expense))

	return expense, nil
}

// Update changes the expense details. Draft only.
func (e *ExpenseRecord) Update(category ExpenseCategory, amount decimal.Decimal, description string, incurredAt time.Time) error {
	if e.Status != ExpenseStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Can only update expense in draft status")
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Expense category is not valid")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}

	e.Category = category
	e.Amount = amount
	e.Description = description
	e.IncurredAt = incurredAt
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// Submit sends the draft for approval
func (e *ExpenseRecord) Submit(submittedBy uuid.UUID) error {
	if !e.Status.CanSubmit() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit expense in %s status", e.Status))
	}
	if submittedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Submitter user ID cannot be empty")
	}

	now := time.Now()
	e.Status = ExpenseStatusPending
	e.SubmittedAt = &now
	e.SubmittedBy = &submittedBy
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewExpenseSubmittedEvent(e))

	return nil
}

// Approve approves a pending expense
func (e *ExpenseRecord) Approve(approvedBy uuid.UUID, note string) error {
	if !e.Status.CanDecide() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve expense in %s status", e.Status))
	}
	if approvedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Approver user ID cannot be empty")
	}

	now := time.Now()
	e.Status = ExpenseStatusApproved
	e.DecidedAt = &now
	e.DecidedBy = &approvedBy
	e.DecisionNote = note
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewExpenseApprovedEvent(e))

	return nil
}

// Reject rejects a pending expense. A reason is required.
func (e *ExpenseRecord) Reject(rejectedBy uuid.UUID, reason string) error {
	if !e.Status.CanDecide() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject expense in %s status", e.Status))
	}
	if rejectedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Rejector user ID cannot be empty")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}

	now := time.Now()
	e.Status = ExpenseStatusRejected
	e.DecidedAt = &now
	e.DecidedBy = &rejectedBy
	e.DecisionNote = reason
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewExpenseRejectedEvent(e))

	return nil
}

// Cancel withdraws a draft or pending expense
func (e *ExpenseRecord) Cancel(cancelledBy uuid.UUID) error {
	if !e.Status.CanCancel() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel expense in %s status", e.Status))
	}
	if cancelledBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Canceller user ID cannot be empty")
	}

	now := time.Now()
	e.Status = ExpenseStatusCancelled
	e.CancelledAt = &now
	e.CancelledBy = &cancelledBy
	e.UpdatedAt = now
	e.IncrementVersion()

	return nil
}

// MarkAsPaid settles an approved expense
func (e *ExpenseRecord) MarkAsPaid(method ExpensePaymentMethod) error {
	if e.Status != ExpenseStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only approved expenses can be marked as paid")
	}
	if e.PaymentStatus == PaymentStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", "Expense is already paid")
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}

	now := time.Now()
	e.PaymentStatus = PaymentStatusPaid
	e.PaymentMethod = &method
	e.PaidAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewExpensePaidEvent(e))

	return nil
}

// AttachReceipt stores the object storage key of the scanned receipt
func (e *ExpenseRecord) AttachReceipt(key string) error {
	if key == "" {
		return shared.NewDomainError("INVALID_RECEIPT", "Receipt key cannot be empty")
	}
	if e.Status.IsTerminal() && e.Status != ExpenseStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Cannot attach receipt to a rejected or cancelled expense")
	}

	e.ReceiptKey = key
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// HasReceipt returns true if a receipt has been attached
func (e *ExpenseRecord) HasReceipt() bool {
	return e.ReceiptKey != ""
}

// IsDraft returns true if the expense is still editable
func (e *ExpenseRecord) IsDraft() bool {
	return e.Status == ExpenseStatusDraft
}

// IsPending returns true if the expense awaits a decision
func (e *ExpenseRecord) IsPending() bool {
	return e.Status == ExpenseStatusPending
}

// IsApproved returns true if the expense was approved
func (e *ExpenseRecord) IsApproved() bool {
	return e.Status == ExpenseStatusApproved
}

// IsPaid returns true if the expense was settled
func (e *ExpenseRecord) IsPaid() bool {
	return e.PaymentStatus == PaymentStatusPaid
}
