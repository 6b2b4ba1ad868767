package service

import (
	"context"

	"github.com/apcaballes87/cake-genie/internal/entity"
)

// UploadService drives one user upload through validation, compression,
// object storage and database registration.
type UploadService interface {
	Submit(ctx context.Context, src *entity.SourceFile) (*entity.UploadRecord, *entity.CompressionResult, error)
	State() entity.StateSnapshot
	Dismiss()
}

// PricingService watches a registered upload until the out-of-band pricing
// process fills its row in, or the attempt budget runs out.
type PricingService interface {
	BeginPolling(generation uint64, id string)
	Lookup(ctx context.Context, id string) (*entity.PriceEstimate, error)
	Refresh(ctx context.Context, id string) (*entity.PriceEstimate, error)
	Stop()
}
