package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/apcaballes87/cake-genie/internal/entity"
)

type estimateRepository struct {
	db *sql.DB
}

func NewEstimateRepository(db *sql.DB) EstimateRepository {
	return &estimateRepository{db: db}
}

func (r *estimateRepository) Insert(ctx context.Context, rec *entity.UploadRecord) error {
	query := `
		INSERT INTO cake_uploads (id, image_url, original_filename, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	now := time.Now()
	_, err := r.db.ExecContext(ctx, query, rec.ID, rec.PublicURL, rec.OriginalFilename, now, now)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrDatabaseFailure, err)
	}

	return nil
}

func (r *estimateRepository) FindByID(ctx context.Context, id string) (*entity.PricingRecord, error) {
	query := `
		SELECT id, image_url, original_filename, priceaddon,
		       COALESCE(infoaddon, ''), COALESCE(type, ''), COALESCE(thickness, ''),
		       created_at, updated_at
		FROM cake_uploads
		WHERE id = $1
	`

	var rec entity.PricingRecord
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID,
		&rec.ImageURL,
		&rec.OriginalFilename,
		&rec.PriceAddon,
		&rec.InfoAddon,
		&rec.CakeType,
		&rec.Thickness,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDatabaseFailure, err)
	}

	return &rec, nil
}

func (r *estimateRepository) SetPricing(ctx context.Context, id string, priceAddon float64, infoAddon, cakeType, thickness string) error {
	query := `
		UPDATE cake_uploads
		SET priceaddon = $2, infoaddon = $3, type = $4, thickness = $5, updated_at = $6
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id, priceAddon, infoAddon, cakeType, thickness, time.Now())
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrDatabaseFailure, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrRecordNotFound
	}

	return nil
}
