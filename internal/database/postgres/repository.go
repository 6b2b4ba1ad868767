package repository

import (
	"context"

	"github.com/apcaballes87/cake-genie/internal/entity"
)

// EstimateRepository is the database collaborator of the upload pipeline.
// FindByID returns (nil, nil) when the row does not exist yet, which the
// pricing poller relies on to keep retrying.
type EstimateRepository interface {
	Insert(ctx context.Context, rec *entity.UploadRecord) error
	FindByID(ctx context.Context, id string) (*entity.PricingRecord, error)
	SetPricing(ctx context.Context, id string, priceAddon float64, infoAddon, cakeType, thickness string) error
}
