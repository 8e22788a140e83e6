// Package bot runs the buyback control loop: poll price, feed the dip
// detector, and when it fires spend a configured fraction of the wallet
// through the swap venue chain.
package bot

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"dipbuyer/config"
	"dipbuyer/internal/domain/models"
	"dipbuyer/internal/logger"
	"dipbuyer/internal/storage"
	"dipbuyer/internal/swap"
	"dipbuyer/internal/tracker"
)

// PriceSource yields the current token price in SOL.
type PriceSource interface {
	Current(ctx context.Context) (float64, error)
}

// BalanceSource yields the funding wallet's SOL balance.
type BalanceSource interface {
	BalanceSOL(ctx context.Context) (float64, error)
}

// SwapExecutor settles one buy through the venue chain.
type SwapExecutor interface {
	Execute(ctx context.Context, spendSOL float64) (swap.Receipt, error)
}

// Snapshot is a point-in-time view of the loop for the monitoring API.
type Snapshot struct {
	Mint        string
	LastPrice   float64
	ATH         float64
	Dip         float64
	Cycles      uint64
	LastBuyback *models.Buyback
	UpdatedAt   time.Time
}

// Bot owns the dip tracker and drives one cycle per poll interval. All
// trading state lives here; the tracker is fed from this single loop only.
type Bot struct {
	cfg      config.StrategyConfig
	prices   PriceSource
	balances BalanceSource
	executor SwapExecutor
	journal  storage.BuybacksRepository // nil when no database is configured
	tracker  *tracker.Tracker

	mu   sync.RWMutex
	snap Snapshot
}

// New wires a Bot. journal may be nil; journaling is an audit trail, not a
// precondition for trading.
func New(cfg config.StrategyConfig, prices PriceSource, balances BalanceSource, executor SwapExecutor, journal storage.BuybacksRepository) *Bot {
	return &Bot{
		cfg:      cfg,
		prices:   prices,
		balances: balances,
		executor: executor,
		journal:  journal,
		tracker:  tracker.New(cfg.DipThreshold),
		snap:     Snapshot{Mint: cfg.TokenMint},
	}
}

// Run executes cycles until the context is cancelled. Every external
// failure inside a cycle is logged and absorbed; only cancellation ends the
// loop.
func (b *Bot) Run(ctx context.Context) error {
	logger.L().Info().
		Str("mint", b.cfg.TokenMint).
		Float64("dip_threshold", b.cfg.DipThreshold).
		Float64("spend_fraction", b.cfg.SpendFraction).
		Float64("min_reserve_sol", b.cfg.MinReserveSOL).
		Dur("poll_interval", b.cfg.PollInterval).
		Msg("buyback bot starting")

	if balance, err := b.balances.BalanceSOL(ctx); err == nil {
		logger.L().Info().Float64("balance_sol", balance).Msg("initial wallet balance")
	}

	for {
		b.cycle(ctx)

		select {
		case <-ctx.Done():
			logger.L().Info().Msg("buyback loop stopped")
			return nil
		case <-time.After(b.cfg.PollInterval):
		}
	}
}

// cycle performs one poll: fetch price, update the tracker, and execute a
// buyback if the dip threshold was crossed.
func (b *Bot) cycle(ctx context.Context) {
	price, err := b.prices.Current(ctx)
	if err != nil {
		// No state mutation on fetch failure; the next poll retries.
		logger.L().Warn().Err(err).Msg("price fetch failed, skipping cycle")
		return
	}

	obs := b.tracker.Observe(price)
	ath := b.tracker.ATH()
	b.recordCycle(price, ath, obs.Dip)

	evt := logger.L().Info().
		Float64("price", price).
		Float64("ath", ath).
		Float64("dip", obs.Dip)
	switch {
	case obs.NewATH:
		evt.Msg("new all-time-high")
	case obs.Triggered:
		evt.Float64("threshold", b.cfg.DipThreshold).Msg("dip threshold reached")
	default:
		evt.Msg("price checked")
	}

	if !obs.Triggered {
		return
	}

	balance, err := b.balances.BalanceSOL(ctx)
	if err != nil {
		logger.L().Error().Err(err).Msg("balance fetch failed, buyback aborted")
		return
	}

	available := balance - b.cfg.MinReserveSOL
	if available <= 0 {
		logger.L().Warn().
			Float64("balance_sol", balance).
			Float64("min_reserve_sol", b.cfg.MinReserveSOL).
			Msg("insufficient balance, buyback aborted")
		return
	}
	spend := available * b.cfg.SpendFraction

	logger.L().Info().
		Float64("balance_sol", balance).
		Float64("spend_sol", spend).
		Float64("dip", obs.Dip).
		Msg("buyback triggered")

	receipt, err := b.executor.Execute(ctx, spend)
	if err != nil {
		// ATH stays untouched so the same dip retriggers next cycle.
		logger.L().Error().Err(err).Float64("spend_sol", spend).Msg("buyback failed")
		return
	}

	// Reset to the triggering price, not the pre-dip ATH, so residual
	// volatility around the fill does not fire again immediately.
	b.tracker.Reset(price)

	buyback := models.Buyback{
		ID:           uuid.NewString(),
		Mint:         b.cfg.TokenMint,
		TriggerPrice: price,
		PrevATH:      ath,
		Dip:          obs.Dip,
		SpendSOL:     spend,
		Venue:        receipt.Venue,
		Signature:    receipt.Signature,
		ExecutedAt:   time.Now().UTC(),
	}
	if b.journal != nil {
		if err := b.journal.InsertBuyback(buyback); err != nil {
			logger.L().Warn().Err(err).Str("buyback_id", buyback.ID).Msg("journal insert failed")
		}
	}
	b.recordBuyback(buyback)

	logger.L().Info().
		Str("venue", receipt.Venue).
		Str("signature", receipt.Signature).
		Float64("spend_sol", spend).
		Float64("ath", b.tracker.ATH()).
		Str("link", "https://solscan.io/tx/"+receipt.Signature).
		Msg("buyback complete, ath reset")
}

func (b *Bot) recordCycle(price, ath, dip float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snap.LastPrice = price
	b.snap.ATH = ath
	b.snap.Dip = dip
	b.snap.Cycles++
	b.snap.UpdatedAt = time.Now().UTC()
}

func (b *Bot) recordBuyback(buyback models.Buyback) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snap.ATH = buyback.TriggerPrice
	b.snap.Dip = 0
	b.snap.LastBuyback = &buyback
	b.snap.UpdatedAt = time.Now().UTC()
}

// Snapshot returns a copy of the current loop state. Safe to call from the
// monitoring API while the loop runs.
func (b *Bot) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap
}
