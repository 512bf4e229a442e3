package port

import (
	"context"

	"github.com/google/uuid"

	"trimatch/internal/domain"
)

// MatchCommit carries the full outcome of one match run. The repository must
// write all of it in a single statement guarded by the version the run was
// loaded with, so a partially matched invoice is never visible.
type MatchCommit struct {
	Status           domain.InvoiceStatus
	ReviewCategory   *domain.ReviewCategory
	MatchTrace       domain.TraceEntries
	LinkedPONumbers  domain.StringList
	LinkedGRNNumbers domain.StringList
	Version          int
}

// InvoiceRepository defines the contract for invoice persistence.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	ListByStatus(ctx context.Context, status domain.InvoiceStatus, category *domain.ReviewCategory, offset, limit int) ([]domain.Invoice, int, error)
	// ListByRelatedPONumber returns invoices that reference the given PO
	// number, used to re-queue matches after a PO edit.
	ListByRelatedPONumber(ctx context.Context, poNumber string) ([]domain.Invoice, error)
	// ClaimPending atomically moves up to limit pending invoices to
	// matching and returns them.
	ClaimPending(ctx context.Context, limit int) ([]domain.Invoice, error)
	// Requeue moves an invoice back to pending so the queue worker picks
	// it up on its next poll.
	Requeue(ctx context.Context, id uuid.UUID) error
	// CommitMatchResult finalizes a run. Returns domain.ErrVersionConflict
	// when commit.Version no longer matches the stored row.
	CommitMatchResult(ctx context.Context, id uuid.UUID, commit *MatchCommit) error
	// UpdateReview records a human approve/reject decision.
	UpdateReview(ctx context.Context, id uuid.UUID, status domain.InvoiceStatus, notes string) error
	// SetTraceArchiveKey records where the invoice's latest trace archive
	// lives in object storage.
	SetTraceArchiveKey(ctx context.Context, id uuid.UUID, key string) error
}

// PurchaseOrderRepository defines the contract for purchase order persistence.
// The match engine only reads; writes serve the ingestion surface.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *domain.PurchaseOrder) error
	GetByNumber(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error)
	Update(ctx context.Context, po *domain.PurchaseOrder) error
	List(ctx context.Context, offset, limit int) ([]domain.PurchaseOrder, int, error)
}

// GoodsReceiptRepository defines the contract for goods receipt persistence.
type GoodsReceiptRepository interface {
	Create(ctx context.Context, grn *domain.GoodsReceiptNote) error
	GetByNumber(ctx context.Context, grnNumber string) (*domain.GoodsReceiptNote, error)
	ListByPONumber(ctx context.Context, poNumber string) ([]domain.GoodsReceiptNote, error)
}

// VendorToleranceRepository defines the contract for per-vendor tolerance
// overrides. GetByVendor returns domain.ErrNotFound when the vendor has no
// override, in which case the engine falls back to system defaults.
type VendorToleranceRepository interface {
	Upsert(ctx context.Context, tol *domain.VendorTolerance) error
	GetByVendor(ctx context.Context, vendorName string) (*domain.VendorTolerance, error)
	List(ctx context.Context, offset, limit int) ([]domain.VendorTolerance, int, error)
	Delete(ctx context.Context, vendorName string) error
}

// AutomationRuleRepository defines the contract for automation rule storage.
type AutomationRuleRepository interface {
	Create(ctx context.Context, rule *domain.AutomationRule) error
	ListActiveByTrigger(ctx context.Context, trigger domain.RuleTrigger) ([]domain.AutomationRule, error)
	List(ctx context.Context, offset, limit int) ([]domain.AutomationRule, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
