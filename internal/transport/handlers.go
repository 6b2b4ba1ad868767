package transport

import (
	"github.com/apcaballes87/cake-genie/internal/service"
)

type EstimateHandler struct {
	uploads     service.UploadService
	pricing     service.PricingService
	maxFileSize int64
}

func NewEstimateHandler(uploads service.UploadService, pricing service.PricingService, maxFileSize int64) *EstimateHandler {
	return &EstimateHandler{
		uploads:     uploads,
		pricing:     pricing,
		maxFileSize: maxFileSize,
	}
}
