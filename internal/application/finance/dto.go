package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/finance"
)

// CreateExpenseRequest creates a draft expense record
type CreateExpenseRequest struct {
	BranchID    uuid.UUID       `json:"branch_id" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required,max=500"`
	IncurredAt  *time.Time      `json:"incurred_at"`
}

// UpdateExpenseRequest updates a draft expense record
type UpdateExpenseRequest struct {
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required,max=500"`
	IncurredAt  *time.Time      `json:"incurred_at"`
}

// DecideExpenseRequest carries the approval or rejection note
type DecideExpenseRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// PayExpenseRequest marks an approved expense as settled
type PayExpenseRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=CASH BANK_TRANSFER CARD OTHER"`
}

// AttachReceiptRequest registers an uploaded receipt scan
type AttachReceiptRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// ReceiptUploadResponse carries the presigned upload target for a
// receipt scan. The client PUTs the file to UploadURL, then the key is
// recorded on the expense.
type ReceiptUploadResponse struct {
	ReceiptKey string    `json:"receipt_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ReceiptDownloadResponse carries a presigned download URL
type ReceiptDownloadResponse struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ListExpensesFilter narrows expense listings
type ListExpensesFilter struct {
	Page      int
	PageSize  int
	OrderBy   string
	OrderDir  string
	BranchID  *uuid.UUID
	Category  string
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
}

// ExpenseResponse represents an expense record in API responses
type ExpenseResponse struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	ExpenseNumber string          `json:"expense_number"`
	BranchID      uuid.UUID       `json:"branch_id"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	IncurredAt    time.Time       `json:"incurred_at"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	HasReceipt    bool            `json:"has_receipt"`
	SubmittedAt   *time.Time      `json:"submitted_at,omitempty"`
	SubmittedBy   *uuid.UUID      `json:"submitted_by,omitempty"`
	DecidedAt     *time.Time      `json:"decided_at,omitempty"`
	DecidedBy     *uuid.UUID      `json:"decided_by,omitempty"`
	DecisionNote  string          `json:"decision_note,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ToExpenseResponse converts a domain expense record to a response
func ToExpenseResponse(expense *finance.ExpenseRecord) ExpenseResponse {
	response := ExpenseResponse{
		ID:            expense.ID,
		TenantID:      expense.TenantID,
		ExpenseNumber: expense.ExpenseNumber,
		BranchID:      expense.BranchID,
		Category:      expense.Category.String(),
		Amount:        expense.Amount,
		Description:   expense.Description,
		IncurredAt:    expense.IncurredAt,
		Status:        expense.Status.String(),
		PaymentStatus: string(expense.PaymentStatus),
		PaidAt:        expense.PaidAt,
		HasReceipt:    expense.HasReceipt(),
		SubmittedAt:   expense.SubmittedAt,
		SubmittedBy:   expense.SubmittedBy,
		DecidedAt:     expense.DecidedAt,
		DecidedBy:     expense.DecidedBy,
		DecisionNote:  expense.DecisionNote,
		CreatedAt:     expense.CreatedAt,
		UpdatedAt:     expense.UpdatedAt,
		Version:       expense.Version,
	}
	if expense.PaymentMethod != nil {
		response.PaymentMethod = string(*expense.PaymentMethod)
	}
	return response
}

// ToExpenseResponses converts a slice of domain expense records to responses
func ToExpenseResponses(items []*finance.ExpenseRecord) []ExpenseResponse {
	responses := make([]ExpenseResponse, 0, len(items))
	for _, expense := range items {
		responses = append(responses, ToExpenseResponse(expense))
	}
	return responses
}
