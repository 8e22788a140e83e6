// Package storage persists executed buybacks to Postgres. The journal is an
// audit trail, not trading state: the bot runs fine without it and a failed
// insert never blocks the loop.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"dipbuyer/internal/domain/models"
)

// BuybacksRepository defines the contract for journal operations.
type BuybacksRepository interface {
	InsertBuyback(b models.Buyback) error
	ListRecent(limit int) ([]models.Buyback, error)
}

type buybacksRepository struct {
	db *sql.DB
}

// NewBuybacksRepository wraps an open database handle.
func NewBuybacksRepository(db *sql.DB) BuybacksRepository {
	return &buybacksRepository{db: db}
}

// InsertBuyback records one executed buyback.
func (r *buybacksRepository) InsertBuyback(b models.Buyback) error {
	_, err := r.db.Exec(`
		INSERT INTO buybacks (id, mint, trigger_price, prev_ath, dip, spend_sol, venue, signature, executed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, b.ID, b.Mint, b.TriggerPrice, b.PrevATH, b.Dip, b.SpendSOL, b.Venue, b.Signature, b.ExecutedAt)
	if err != nil {
		return fmt.Errorf("insert buyback %s: %w", b.ID, err)
	}
	return nil
}

// ListRecent returns the most recent buybacks, newest first.
func (r *buybacksRepository) ListRecent(limit int) ([]models.Buyback, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`
		SELECT id, mint, trigger_price, prev_ath, dip, spend_sol, venue, signature, executed_at
		FROM buybacks
		ORDER BY executed_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list buybacks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Buyback
	for rows.Next() {
		var b models.Buyback
		var executedAt time.Time
		if err := rows.Scan(&b.ID, &b.Mint, &b.TriggerPrice, &b.PrevATH, &b.Dip,
			&b.SpendSOL, &b.Venue, &b.Signature, &executedAt); err != nil {
			return nil, fmt.Errorf("scan buyback: %w", err)
		}
		b.ExecutedAt = executedAt
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate buybacks: %w", err)
	}
	return out, nil
}
