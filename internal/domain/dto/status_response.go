package dto

import "time"

// StatusResponse represents the JSON structure returned by the
// GET /api/v1/status endpoint: a point-in-time view of the dip detector
// plus the strategy parameters it runs with.
type StatusResponse struct {
	Mint          string    `json:"mint" example:"9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"`
	LastPrice     float64   `json:"last_price" example:"0.0000012345"`
	ATH           float64   `json:"ath" example:"0.0000016000"`
	Dip           float64   `json:"dip" example:"0.2284"`
	DipThreshold  float64   `json:"dip_threshold" example:"0.25"`
	SpendFraction float64   `json:"spend_fraction" example:"0.9"`
	Cycles        uint64    `json:"cycles" example:"1042"`
	LastBuybackID string    `json:"last_buyback_id,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}
