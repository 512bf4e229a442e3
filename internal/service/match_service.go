package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"trimatch/internal/automation"
	"trimatch/internal/domain"
	"trimatch/internal/match"
	"trimatch/internal/port"
)

// ResolveReviewInput is the DTO for a manual approve/reject decision on a
// needs_review invoice.
type ResolveReviewInput struct {
	InvoiceID uuid.UUID
	Approve   bool
	Notes     string
}

// MatchService defines the invoice matching and review contract.
type MatchService interface {
	CreateInvoice(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	ListReviewQueue(ctx context.Context, category *domain.ReviewCategory, offset, limit int) ([]domain.Invoice, int, error)
	ListByStatus(ctx context.Context, status domain.InvoiceStatus, offset, limit int) ([]domain.Invoice, int, error)
	// Rematch puts an invoice back on the match queue. Allowed from any
	// terminal status; an invoice mid-run returns ErrMatchInProgress.
	Rematch(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	ResolveReview(ctx context.Context, input *ResolveReviewInput) (*domain.Invoice, error)
	// RequeueForPurchaseOrder re-queues every invoice referencing the PO.
	// Called after a PO edit so results reflect the new PO lines.
	RequeueForPurchaseOrder(ctx context.Context, poNumber string) (int, error)
	// RunMatch executes one match cycle for a claimed invoice and applies
	// post-run effects. Called by the queue worker.
	RunMatch(ctx context.Context, inv *domain.Invoice)
	// TraceArchiveURL returns a presigned link to the invoice's archived
	// trace. ErrNotFound when archival is disabled or nothing is archived.
	TraceArchiveURL(ctx context.Context, id uuid.UUID) (string, error)
}

type matchService struct {
	invoiceRepo port.InvoiceRepository
	engine      *match.Engine
	executor    *automation.Executor
	classifier  *automation.Classifier
	notifier    *Notifier
	archiver    *TraceArchiver
}

// NewMatchService creates a new MatchService implementation. notifier and
// archiver may be nil when the deployment has neither configured.
func NewMatchService(
	invoiceRepo port.InvoiceRepository,
	engine *match.Engine,
	executor *automation.Executor,
	classifier *automation.Classifier,
	notifier *Notifier,
	archiver *TraceArchiver,
) MatchService {
	return &matchService{
		invoiceRepo: invoiceRepo,
		engine:      engine,
		executor:    executor,
		classifier:  classifier,
		notifier:    notifier,
		archiver:    archiver,
	}
}

func (s *matchService) CreateInvoice(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	inv.ID = uuid.New()
	inv.Status = domain.StatusPending
	inv.Version = 1
	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}
	log.Printf("matchService: invoice %s (%s) created, queued for matching", inv.ID, inv.InvoiceNumber)
	return inv, nil
}

func (s *matchService) GetInvoice(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

func (s *matchService) ListReviewQueue(ctx context.Context, category *domain.ReviewCategory, offset, limit int) ([]domain.Invoice, int, error) {
	return s.invoiceRepo.ListByStatus(ctx, domain.StatusNeedsReview, category, offset, limit)
}

func (s *matchService) ListByStatus(ctx context.Context, status domain.InvoiceStatus, offset, limit int) ([]domain.Invoice, int, error) {
	return s.invoiceRepo.ListByStatus(ctx, status, nil, offset, limit)
}

func (s *matchService) Rematch(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == domain.StatusMatching {
		return nil, domain.ErrMatchInProgress
	}
	if err := s.invoiceRepo.Requeue(ctx, id); err != nil {
		return nil, err
	}
	log.Printf("matchService: invoice %s re-queued for matching (was %s)", id, inv.Status)
	return s.invoiceRepo.GetByID(ctx, id)
}

func (s *matchService) ResolveReview(ctx context.Context, input *ResolveReviewInput) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, input.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != domain.StatusNeedsReview {
		return nil, fmt.Errorf("%w: invoice is %s, expected needs_review", domain.ErrInvalidStatus, inv.Status)
	}

	status := domain.StatusRejected
	if input.Approve {
		status = domain.StatusApproved
	}
	if err := s.invoiceRepo.UpdateReview(ctx, input.InvoiceID, status, input.Notes); err != nil {
		return nil, err
	}
	log.Printf("matchService: invoice %s review resolved as %s", input.InvoiceID, status)
	return s.invoiceRepo.GetByID(ctx, input.InvoiceID)
}

func (s *matchService) RequeueForPurchaseOrder(ctx context.Context, poNumber string) (int, error) {
	invoices, err := s.invoiceRepo.ListByRelatedPONumber(ctx, poNumber)
	if err != nil {
		return 0, err
	}

	requeued := 0
	for i := range invoices {
		// Skip invoices mid-run; the concurrent run's commit will reflect
		// old PO data but a stale version guard keeps the row consistent,
		// and the next manual rematch picks up the edit.
		if invoices[i].Status == domain.StatusMatching {
			continue
		}
		if err := s.invoiceRepo.Requeue(ctx, invoices[i].ID); err != nil {
			return requeued, fmt.Errorf("re-queueing invoice %s: %w", invoices[i].ID, err)
		}
		requeued++
	}
	if requeued > 0 {
		log.Printf("matchService: PO %s edited, re-queued %d invoice(s)", poNumber, requeued)
	}
	return requeued, nil
}

func (s *matchService) TraceArchiveURL(ctx context.Context, id uuid.UUID) (string, error) {
	if s.archiver == nil {
		return "", domain.ErrNotFound
	}
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.archiver.PresignURL(ctx, inv)
}

// RunMatch drives one full match cycle for an invoice the worker has already
// claimed (status matching). Every failure path is logged and the invoice is
// returned to the queue where that makes sense; nothing here is fatal to the
// worker.
func (s *matchService) RunMatch(ctx context.Context, inv *domain.Invoice) {
	res, err := s.engine.Run(ctx, inv.ID)
	if err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			// Another run committed first. That result is authoritative.
			log.Printf("matchService: invoice %s version conflict, dropping this run", inv.ID)
			return
		}
		log.Printf("matchService: match run for invoice %s failed: %v, re-queueing", inv.ID, err)
		if reqErr := s.invoiceRepo.Requeue(ctx, inv.ID); reqErr != nil {
			log.Printf("matchService: re-queue of invoice %s failed: %v", inv.ID, reqErr)
		}
		return
	}

	s.afterRun(ctx, inv.ID, res)
}

// afterRun applies post-commit effects: automation rules, review
// notification, and trace archival. All of it is best-effort.
func (s *matchService) afterRun(ctx context.Context, invoiceID uuid.UUID, res *match.Result) {
	inv, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		log.Printf("matchService: reloading invoice %s after run: %v", invoiceID, err)
		return
	}

	if s.archiver != nil {
		s.archiver.Archive(ctx, inv)
	}

	switch res.Status {
	case domain.StatusMatched:
		s.applyMatchedRules(ctx, inv)
	case domain.StatusNeedsReview:
		s.handleNeedsReview(ctx, inv, res)
	}
}

func (s *matchService) applyMatchedRules(ctx context.Context, inv *domain.Invoice) {
	applied, err := s.executor.Evaluate(ctx, domain.TriggerOnMatched, inv)
	if err != nil {
		log.Printf("matchService: automation evaluation for invoice %s: %v", inv.ID, err)
		return
	}
	for _, rule := range applied {
		if rule.Action != domain.ActionAutoApprove {
			continue
		}
		notes := fmt.Sprintf("auto-approved by rule %q", rule.RuleName)
		if err := s.invoiceRepo.UpdateReview(ctx, inv.ID, domain.StatusApproved, notes); err != nil {
			log.Printf("matchService: auto-approve of invoice %s: %v", inv.ID, err)
			return
		}
		log.Printf("matchService: invoice %s auto-approved by rule %q", inv.ID, rule.RuleName)
		return
	}
}

func (s *matchService) handleNeedsReview(ctx context.Context, inv *domain.Invoice, res *match.Result) {
	urgent := s.classifier.IsUrgent(inv)

	applied, err := s.executor.Evaluate(ctx, domain.TriggerOnNeedsReview, inv)
	if err != nil {
		log.Printf("matchService: automation evaluation for invoice %s: %v", inv.ID, err)
	}
	for _, rule := range applied {
		if rule.Action == domain.ActionFlagUrgent {
			urgent = true
		}
	}

	if s.notifier != nil {
		s.notifier.NotifyNeedsReview(ctx, inv, res, urgent)
	}
}

// failedChecks extracts the failed step names a run recorded, for the
// notification body.
func failedChecks(trace domain.TraceEntries) []string {
	var steps []string
	for _, e := range trace {
		if e.Status == domain.TraceFail && !strings.EqualFold(e.Step, "Final Result") {
			steps = append(steps, e.Step)
		}
	}
	return steps
}
