package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"trimatch/internal/domain"
	"trimatch/internal/port"
)

// IngestService defines the contract for purchase order and goods receipt
// ingestion. Both document types arrive from upstream extraction already
// structured; this service persists them and keeps match results current.
type IngestService interface {
	CreatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) (*domain.PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, offset, limit int) ([]domain.PurchaseOrder, int, error)
	// UpdatePurchaseOrder replaces the PO's mutable fields and re-queues
	// every invoice referencing it so stale match results get recomputed.
	UpdatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) (*domain.PurchaseOrder, error)
	CreateGoodsReceipt(ctx context.Context, grn *domain.GoodsReceiptNote) (*domain.GoodsReceiptNote, error)
	GetGoodsReceipt(ctx context.Context, grnNumber string) (*domain.GoodsReceiptNote, error)
	ListGoodsReceiptsByPO(ctx context.Context, poNumber string) ([]domain.GoodsReceiptNote, error)
}

type ingestService struct {
	poRepo       port.PurchaseOrderRepository
	grnRepo      port.GoodsReceiptRepository
	matchService MatchService
}

// NewIngestService creates a new IngestService implementation.
func NewIngestService(
	poRepo port.PurchaseOrderRepository,
	grnRepo port.GoodsReceiptRepository,
	matchService MatchService,
) IngestService {
	return &ingestService{
		poRepo:       poRepo,
		grnRepo:      grnRepo,
		matchService: matchService,
	}
}

func (s *ingestService) CreatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) (*domain.PurchaseOrder, error) {
	po.ID = uuid.New()
	if err := s.poRepo.Create(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

func (s *ingestService) GetPurchaseOrder(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error) {
	return s.poRepo.GetByNumber(ctx, poNumber)
}

func (s *ingestService) ListPurchaseOrders(ctx context.Context, offset, limit int) ([]domain.PurchaseOrder, int, error) {
	return s.poRepo.List(ctx, offset, limit)
}

func (s *ingestService) UpdatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) (*domain.PurchaseOrder, error) {
	existing, err := s.poRepo.GetByNumber(ctx, po.PONumber)
	if err != nil {
		return nil, err
	}
	po.ID = existing.ID
	if err := s.poRepo.Update(ctx, po); err != nil {
		return nil, err
	}

	requeued, err := s.matchService.RequeueForPurchaseOrder(ctx, po.PONumber)
	if err != nil {
		// The PO update itself succeeded; stale invoices can be re-matched
		// manually, so log and move on.
		log.Printf("ingestService: re-queue after PO %s update: %v", po.PONumber, err)
	} else if requeued > 0 {
		log.Printf("ingestService: PO %s updated, %d invoice(s) re-queued", po.PONumber, requeued)
	}
	return s.poRepo.GetByNumber(ctx, po.PONumber)
}

func (s *ingestService) CreateGoodsReceipt(ctx context.Context, grn *domain.GoodsReceiptNote) (*domain.GoodsReceiptNote, error) {
	// The GRN must reference an existing PO; a dangling back-reference would
	// never be aggregated.
	if _, err := s.poRepo.GetByNumber(ctx, grn.PONumber); err != nil {
		return nil, err
	}
	grn.ID = uuid.New()
	if err := s.grnRepo.Create(ctx, grn); err != nil {
		return nil, err
	}
	return grn, nil
}

func (s *ingestService) GetGoodsReceipt(ctx context.Context, grnNumber string) (*domain.GoodsReceiptNote, error) {
	return s.grnRepo.GetByNumber(ctx, grnNumber)
}

func (s *ingestService) ListGoodsReceiptsByPO(ctx context.Context, poNumber string) ([]domain.GoodsReceiptNote, error) {
	return s.grnRepo.ListByPONumber(ctx, poNumber)
}
