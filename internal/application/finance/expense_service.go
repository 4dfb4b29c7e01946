package finance

import (
	"context"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/finance"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
)

// ObjectStorageService abstracts the object store that holds scanned
// expense receipts. Clients upload and download through presigned URLs
// so receipt bytes never pass through this service.
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

const (
	receiptUploadURLExpiry   = 15 * time.Minute
	receiptDownloadURLExpiry = time.Hour
)

// ExpenseService drives the expense approval workflow: draft, submit,
// approve or reject, settle, with an optional scanned receipt held in
// object storage.
type ExpenseService struct {
	expenseRepo    finance.ExpenseRecordRepository
	storage        ObjectStorageService
	eventPublisher shared.EventPublisher
}

// NewExpenseService creates a new ExpenseService. storage may be nil;
// receipt operations then fail with STORAGE_UNAVAILABLE.
func NewExpenseService(expenseRepo finance.ExpenseRecordRepository, storage ObjectStorageService) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		storage:     storage,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ExpenseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a draft expense record
func (s *ExpenseService) Create(ctx context.Context, tenantID uuid.UUID, req CreateExpenseRequest, actor identity.Actor) (*ExpenseResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, shared.NewDomainError("UNAUTHENTICATED", "Staff identity is required")
	}

	number, err := s.expenseRepo.NextExpenseNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	incurredAt := time.Now()
	if req.IncurredAt != nil {
		incurredAt = *req.IncurredAt
	}

	expense, err := finance.NewExpenseRecord(
		tenantID,
		number,
		req.BranchID,
		finance.ExpenseCategory(req.Category),
		req.Amount,
		req.Description,
		incurredAt,
	)
	if err != nil {
		return nil, err
	}
	expense.SetCreatedBy(actor.ID)

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	s.publish(ctx, expense)

	response := ToExpenseResponse(expense)
	return &response, nil
}

// Update changes a draft expense
func (s *ExpenseService) Update(ctx context.Context, tenantID, expenseID uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}

	incurredAt := expense.IncurredAt
	if req.IncurredAt != nil {
		incurredAt = *req.IncurredAt
	}

	if err := expense.Update(finance.ExpenseCategory(req.Category), req.Amount, req.Description, incurredAt); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.SaveWithLock(ctx, expense); err != nil {
		return nil, err
	}

	response := ToExpenseResponse(expense)
	return &response, nil
}

// Submit sends a draft expense for approval
func (s *ExpenseService) Submit(ctx context.Context, tenantID, expenseID uuid.UUID, actor identity.Actor) (*ExpenseResponse, error) {
	return s.transition(ctx, tenantID, expenseID, actor, func(expense *finance.ExpenseRecord) error {
		return expense.Submit(actor.ID)
	})
}

// Approve approves a pending expense. Only owners and managers decide.
func (s *ExpenseService) Approve(ctx context.Context, tenantID, expenseID uuid.UUID, req DecideExpenseRequest, actor identity.Actor) (*ExpenseResponse, error) {
	if err := requireApprover(actor); err != nil {
		return nil, err
	}
	return s.transition(ctx, tenantID, expenseID, actor, func(expense *finance.ExpenseRecord) error {
		return expense.Approve(actor.ID, req.Note)
	})
}

// Reject rejects a pending expense. A reason is required.
func (s *ExpenseService) Reject(ctx context.Context, tenantID, expenseID uuid.UUID, req DecideExpenseRequest, actor identity.Actor) (*ExpenseResponse, error) {
	if err := requireApprover(actor); err != nil {
		return nil, err
	}
	return s.transition(ctx, tenantID, expenseID, actor, func(expense *finance.ExpenseRecord) error {
		return expense.Reject(actor.ID, req.Note)
	})
}

// Cancel withdraws a draft or pending expense
func (s *ExpenseService) Cancel(ctx context.Context, tenantID, expenseID uuid.UUID, actor identity.Actor) (*ExpenseResponse, error) {
	return s.transition(ctx, tenantID, expenseID, actor, func(expense *finance.ExpenseRecord) error {
		return expense.Cancel(actor.ID)
	})
}

// Pay marks an approved expense as settled
func (s *ExpenseService) Pay(ctx context.Context, tenantID, expenseID uuid.UUID, req PayExpenseRequest, actor identity.Actor) (*ExpenseResponse, error) {
	return s.transition(ctx, tenantID, expenseID, actor, func(expense *finance.ExpenseRecord) error {
		return expense.MarkAsPaid(finance.ExpensePaymentMethod(req.PaymentMethod))
	})
}

// transition loads, mutates, and saves an expense under optimistic
// locking, then publishes the events the mutation raised.
func (s *ExpenseService) transition(ctx context.Context, tenantID, expenseID uuid.UUID, actor identity.Actor, mutate func(*finance.ExpenseRecord) error) (*ExpenseResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, shared.NewDomainError("UNAUTHENTICATED", "Staff identity is required")
	}

	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}

	if err := mutate(expense); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.SaveWithLock(ctx, expense); err != nil {
		return nil, err
	}

	s.publish(ctx, expense)

	response := ToExpenseResponse(expense)
	return &response, nil
}

// RequestReceiptUpload issues a presigned upload URL and records the
// receipt key on the expense. The key is deterministic per expense so a
// re-upload replaces the previous scan.
func (s *ExpenseService) RequestReceiptUpload(ctx context.Context, tenantID, expenseID uuid.UUID, req AttachReceiptRequest) (*ReceiptUploadResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Object storage is not configured")
	}

	ext, err := receiptExtension(req.ContentType)
	if err != nil {
		return nil, err
	}

	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("tenants/%s/expenses/%s/receipt%s", tenantID, expense.ID, ext)
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, receiptUploadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("generate receipt upload url: %w", err)
	}

	if err := expense.AttachReceipt(key); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.SaveWithLock(ctx, expense); err != nil {
		return nil, err
	}

	return &ReceiptUploadResponse{
		ReceiptKey: key,
		UploadURL:  uploadURL,
		ExpiresAt:  expiresAt,
	}, nil
}

// GetReceiptDownload issues a presigned download URL for the attached receipt
func (s *ExpenseService) GetReceiptDownload(ctx context.Context, tenantID, expenseID uuid.UUID) (*ReceiptDownloadResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Object storage is not configured")
	}

	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}
	if !expense.HasReceipt() {
		return nil, shared.NewDomainError("NO_RECEIPT", "Expense has no attached receipt")
	}

	downloadURL, expiresAt, err := s.storage.GenerateDownloadURL(ctx, expense.ReceiptKey, receiptDownloadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("generate receipt download url: %w", err)
	}

	return &ReceiptDownloadResponse{
		DownloadURL: downloadURL,
		ExpiresAt:   expiresAt,
	}, nil
}

// GetByID retrieves an expense record
func (s *ExpenseService) GetByID(ctx context.Context, tenantID, expenseID uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}
	response := ToExpenseResponse(expense)
	return &response, nil
}

// List retrieves expense records with filtering and pagination
func (s *ExpenseService) List(ctx context.Context, tenantID uuid.UUID, filter ListExpensesFilter) ([]ExpenseResponse, int64, error) {
	domainFilter := finance.ExpenseFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		BranchID:  filter.BranchID,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}
	if domainFilter.OrderBy == "" {
		domainFilter.OrderBy = "created_at"
	}
	if domainFilter.OrderDir == "" {
		domainFilter.OrderDir = "desc"
	}
	if filter.Category != "" {
		category := finance.ExpenseCategory(filter.Category)
		domainFilter.Category = &category
	}
	if filter.Status != "" {
		status := finance.ExpenseStatus(filter.Status)
		domainFilter.Status = &status
	}

	items, total, err := s.expenseRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToExpenseResponses(items), total, nil
}

// ListPendingApproval retrieves expenses awaiting a decision
func (s *ExpenseService) ListPendingApproval(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ExpenseResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	items, total, err := s.expenseRepo.FindPendingApproval(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToExpenseResponses(items), total, nil
}

// Delete removes a draft expense
func (s *ExpenseService) Delete(ctx context.Context, tenantID, expenseID uuid.UUID) error {
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, expenseID)
	if err != nil {
		return err
	}
	if !expense.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Only draft expenses can be deleted")
	}

	if expense.HasReceipt() && s.storage != nil {
		// Best effort; an orphaned object is preferable to a blocked delete.
		_ = s.storage.DeleteObject(ctx, expense.ReceiptKey)
	}

	return s.expenseRepo.DeleteForTenant(ctx, tenantID, expenseID)
}

func (s *ExpenseService) publish(ctx context.Context, expense *finance.ExpenseRecord) {
	events := expense.GetDomainEvents()
	expense.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

// requireApprover restricts approval decisions to owners and managers.
func requireApprover(actor identity.Actor) error {
	if !actor.IsAuthenticated() {
		return shared.NewDomainError("UNAUTHENTICATED", "Staff identity is required")
	}
	if actor.Role != identity.StaffRoleOwner && actor.Role != identity.StaffRoleManager {
		return shared.NewDomainError("FORBIDDEN", "Only owners and managers can decide expense approvals")
	}
	return nil
}

// receiptExtension maps the upload content type to a file extension.
// Receipts are images or PDFs.
func receiptExtension(contentType string) (string, error) {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/webp":
		return ".webp", nil
	case "application/pdf":
		return ".pdf", nil
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return "", shared.NewDomainError("UNSUPPORTED_CONTENT_TYPE", fmt.Sprintf("Receipts must be images or PDF, got %s", contentType))
	}
	return "", shared.NewDomainError("UNSUPPORTED_CONTENT_TYPE", "Unknown receipt content type")
}
