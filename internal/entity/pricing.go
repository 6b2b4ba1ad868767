package entity

import "time"

// PricingRecord is the database row the out-of-band pricing worker fills in.
// PriceAddon stays nil until the worker has produced an estimate.
type PricingRecord struct {
	ID               string    `json:"id"`
	ImageURL         string    `json:"image_url"`
	OriginalFilename string    `json:"original_filename"`
	PriceAddon       *float64  `json:"priceaddon"`
	InfoAddon        string    `json:"infoaddon"`
	CakeType         string    `json:"type"`
	Thickness        string    `json:"thickness"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// PriceEstimate is the payload surfaced to the UI once polling resolves.
type PriceEstimate struct {
	ID           string `json:"id"`
	PriceAddon   string `json:"price_addon,omitempty"`
	InfoAddon    string `json:"info_addon,omitempty"`
	CakeType     string `json:"cake_type,omitempty"`
	Thickness    string `json:"thickness,omitempty"`
	HasRealData  bool   `json:"has_real_data"`
	NeedsRefresh bool   `json:"needs_refresh"`
	IsError      bool   `json:"is_error"`
	Attempts     int    `json:"attempts,omitempty"`
}

type EstimateResponse struct {
	ID       string         `json:"id"`
	Status   string         `json:"status"`
	Estimate *PriceEstimate `json:"estimate,omitempty"`
}
