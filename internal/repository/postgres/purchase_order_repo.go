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

type purchaseOrderRepo struct {
	db *sqlx.DB
}

// NewPurchaseOrderRepo creates a new PostgreSQL-backed PurchaseOrderRepository.
func NewPurchaseOrderRepo(db *sqlx.DB) port.PurchaseOrderRepository {
	return &purchaseOrderRepo{db: db}
}

func (r *purchaseOrderRepo) Create(ctx context.Context, po *domain.PurchaseOrder) error {
	now := time.Now().UTC()
	po.CreatedAt = now
	po.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO purchase_orders (
			id, po_number, vendor_name, order_date, line_items, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		po.ID, po.PONumber, po.VendorName, po.OrderDate, po.LineItems, po.CreatedAt, po.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicatePONumber
		}
		return fmt.Errorf("purchaseOrderRepo.Create: %w", err)
	}
	return nil
}

func (r *purchaseOrderRepo) GetByNumber(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error) {
	var po domain.PurchaseOrder
	err := r.db.GetContext(ctx, &po,
		"SELECT * FROM purchase_orders WHERE po_number = $1", poNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPurchaseOrderNotFound
		}
		return nil, fmt.Errorf("purchaseOrderRepo.GetByNumber: %w", err)
	}
	return &po, nil
}

func (r *purchaseOrderRepo) Update(ctx context.Context, po *domain.PurchaseOrder) error {
	po.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE purchase_orders SET
			vendor_name = $1, order_date = $2, line_items = $3, updated_at = $4
		 WHERE po_number = $5`,
		po.VendorName, po.OrderDate, po.LineItems, po.UpdatedAt, po.PONumber)
	if err != nil {
		return fmt.Errorf("purchaseOrderRepo.Update: %w", err)
	}
	return requireRow(result, domain.ErrPurchaseOrderNotFound)
}

func (r *purchaseOrderRepo) List(ctx context.Context, offset, limit int) ([]domain.PurchaseOrder, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM purchase_orders"); err != nil {
		return nil, 0, fmt.Errorf("purchaseOrderRepo.List count: %w", err)
	}

	var orders []domain.PurchaseOrder
	err := r.db.SelectContext(ctx, &orders,
		"SELECT * FROM purchase_orders ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("purchaseOrderRepo.List: %w", err)
	}
	return orders, total, nil
}
