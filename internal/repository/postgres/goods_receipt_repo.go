package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"trimatch/internal/domain"
	"trimatch/internal/port"
)

type goodsReceiptRepo struct {
	db *sqlx.DB
}

// NewGoodsReceiptRepo creates a new PostgreSQL-backed GoodsReceiptRepository.
func NewGoodsReceiptRepo(db *sqlx.DB) port.GoodsReceiptRepository {
	return &goodsReceiptRepo{db: db}
}

func (r *goodsReceiptRepo) Create(ctx context.Context, grn *domain.GoodsReceiptNote) error {
	now := time.Now().UTC()
	grn.CreatedAt = now
	grn.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goods_receipt_notes (
			id, grn_number, po_number, received_at, line_items, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		grn.ID, grn.GRNNumber, grn.PONumber, grn.ReceivedAt, grn.LineItems, grn.CreatedAt, grn.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateGRNNumber
		}
		return fmt.Errorf("goodsReceiptRepo.Create: %w", err)
	}
	return nil
}

func (r *goodsReceiptRepo) GetByNumber(ctx context.Context, grnNumber string) (*domain.GoodsReceiptNote, error) {
	var grn domain.GoodsReceiptNote
	err := r.db.GetContext(ctx, &grn,
		"SELECT * FROM goods_receipt_notes WHERE grn_number = $1", grnNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGoodsReceiptNotFound
		}
		return nil, fmt.Errorf("goodsReceiptRepo.GetByNumber: %w", err)
	}
	return &grn, nil
}

func (r *goodsReceiptRepo) ListByPONumber(ctx context.Context, poNumber string) ([]domain.GoodsReceiptNote, error) {
	var grns []domain.GoodsReceiptNote
	err := r.db.SelectContext(ctx, &grns,
		"SELECT * FROM goods_receipt_notes WHERE po_number = $1 ORDER BY received_at, created_at", poNumber)
	if err != nil {
		return nil, fmt.Errorf("goodsReceiptRepo.ListByPONumber: %w", err)
	}
	return grns, nil
}
