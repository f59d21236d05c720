package repository

import (
	"context"
	"fmt"

	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RecordRepository stores normalized catalog records. One row per
// (sku, category) occurrence: an item reached through two categories keeps
// both hierarchies.
type RecordRepository interface {
	SaveRecord(ctx context.Context, categorySlug string, record *domain.CatalogRecord) error
}

type recordRepository struct {
	db *pgxpool.Pool
}

func NewRecordRepository(db *pgxpool.Pool) RecordRepository {
	return &recordRepository{
		db: db,
	}
}

func (r *recordRepository) SaveRecord(ctx context.Context, categorySlug string, record *domain.CatalogRecord) error {
	query := `
	INSERT INTO catalog_records (sku, category, data)
	VALUES ($1, $2, $3)
	ON CONFLICT (sku, category)
	DO UPDATE SET data = $3`
	_, err := r.db.Exec(ctx, query, record.SKU, categorySlug, record)
	if err != nil {
		return fmt.Errorf("failed to save catalog record: %w", err)
	}

	return nil
}
