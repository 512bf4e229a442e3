package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"trimatch/internal/domain"
	"trimatch/internal/port"
)

type vendorToleranceRepo struct {
	db *sqlx.DB
}

// NewVendorToleranceRepo creates a new PostgreSQL-backed VendorToleranceRepository.
func NewVendorToleranceRepo(db *sqlx.DB) port.VendorToleranceRepository {
	return &vendorToleranceRepo{db: db}
}

func (r *vendorToleranceRepo) Upsert(ctx context.Context, tol *domain.VendorTolerance) error {
	now := time.Now().UTC()
	if tol.ID == uuid.Nil {
		tol.ID = uuid.New()
	}
	tol.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vendor_tolerances (
			id, vendor_name, price_tolerance_percent, quantity_tolerance_percent, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (vendor_name) DO UPDATE SET
			price_tolerance_percent = EXCLUDED.price_tolerance_percent,
			quantity_tolerance_percent = EXCLUDED.quantity_tolerance_percent,
			updated_at = EXCLUDED.updated_at`,
		tol.ID, tol.VendorName, tol.PriceTolerancePercent, tol.QuantityTolerancePercent, now, now)
	if err != nil {
		return fmt.Errorf("vendorToleranceRepo.Upsert: %w", err)
	}
	return nil
}

func (r *vendorToleranceRepo) GetByVendor(ctx context.Context, vendorName string) (*domain.VendorTolerance, error) {
	var tol domain.VendorTolerance
	err := r.db.GetContext(ctx, &tol,
		"SELECT * FROM vendor_tolerances WHERE vendor_name = $1", vendorName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("vendorToleranceRepo.GetByVendor: %w", err)
	}
	return &tol, nil
}

func (r *vendorToleranceRepo) List(ctx context.Context, offset, limit int) ([]domain.VendorTolerance, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM vendor_tolerances"); err != nil {
		return nil, 0, fmt.Errorf("vendorToleranceRepo.List count: %w", err)
	}

	var tols []domain.VendorTolerance
	err := r.db.SelectContext(ctx, &tols,
		"SELECT * FROM vendor_tolerances ORDER BY vendor_name LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("vendorToleranceRepo.List: %w", err)
	}
	return tols, total, nil
}

func (r *vendorToleranceRepo) Delete(ctx context.Context, vendorName string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM vendor_tolerances WHERE vendor_name = $1", vendorName)
	if err != nil {
		return fmt.Errorf("vendorToleranceRepo.Delete: %w", err)
	}
	return requireRow(result, domain.ErrNotFound)
}
