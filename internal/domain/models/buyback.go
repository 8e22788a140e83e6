package models

import "time"

// Buyback represents one executed buyback: the market condition that
// triggered it and the transaction that settled it.
//
// Fields:
//   - ID: unique identifier assigned when the buyback is journaled.
//   - Mint: mint address of the token bought.
//   - TriggerPrice: the price sample that crossed the dip threshold.
//   - PrevATH: the all-time-high the dip was measured against.
//   - Dip: realized dip fraction, (PrevATH - TriggerPrice) / PrevATH.
//   - SpendSOL: SOL committed to the swap.
//   - Venue: venue that settled the swap ("pumpfun" or "raydium").
//   - Signature: confirmed transaction signature.
//   - ExecutedAt: wall-clock time of confirmation.
type Buyback struct {
	ID           string    `json:"id"`
	Mint         string    `json:"mint"`
	TriggerPrice float64   `json:"trigger_price"`
	PrevATH      float64   `json:"prev_ath"`
	Dip          float64   `json:"dip"`
	SpendSOL     float64   `json:"spend_sol"`
	Venue        string    `json:"venue"`
	Signature    string    `json:"signature"`
	ExecutedAt   time.Time `json:"executed_at"`
}
