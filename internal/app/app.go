package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"dipbuyer/config"
	"dipbuyer/internal/api"
	"dipbuyer/internal/bot"
	"dipbuyer/internal/pricefeed"
	"dipbuyer/internal/storage"
	"dipbuyer/internal/swap"
	"dipbuyer/internal/wallet"
)

// InitializeApp sets up all application dependencies and returns the
// buyback bot, a fully configured Gin router for the monitoring API,
// a cleanup function for graceful shutdown, and any error encountered
// during initialization.
//
// Responsibilities:
//   - Derives the signing keypair from the configured private key.
//   - Builds the price feed chain (Jupiter primary, DexScreener fallback).
//   - Builds the venue chain (pump.fun bonding curve first, Raydium AMM fallback).
//   - Connects to PostgreSQL when a journal is configured (optional).
//   - Configures the Gin router with the monitoring routes and health probes.
//   - Provides a cleanup function to close resources (e.g., DB connection).
//
// Returns:
//   - *bot.Bot: the buyback loop, ready to Run.
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*bot.Bot, *gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	// Derive the signer once at startup; the raw key is never read again.
	signer, err := wallet.NewSigner(cfg.Wallet.PrivateKey)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load wallet key: %w", err)
	}

	// Price feed chain: Jupiter primary, DexScreener fallback.
	prices := pricefeed.NewChain(
		pricefeed.NewJupiter(cfg.Endpoint.JupiterPrice, cfg.Strategy.TokenMint),
		pricefeed.NewDexScreener(cfg.Endpoint.DexScreener, cfg.Strategy.TokenMint),
	)

	// Funding wallet balance reader.
	balances := wallet.NewBalanceSource(cfg.Endpoint.RPCURL, signer.PublicKey())

	// Transaction submission and confirmation against the RPC node.
	submitter := swap.NewRPCSubmitter(cfg.Endpoint.RPCURL, cfg.Endpoint.ConfirmTimeout)

	// Venue chain: bonding curve first, AMM as fallback once the token
	// has graduated.
	executor := swap.NewExecutor(
		swap.NewPumpPortal(cfg.Endpoint.PumpPortal, cfg.Strategy.TokenMint, cfg.Strategy.SlippageBps, cfg.Strategy.PriorityFeeSOL, signer, submitter),
		swap.NewRaydium(cfg.Endpoint.RaydiumSwap, cfg.Strategy.TokenMint, cfg.Strategy.SlippageBps, signer, submitter),
	)

	// Optional buyback journal; the bot trades fine without one.
	var (
		journal storage.BuybacksRepository
		dbPing  func() error
		cleanup = func() {}
	)
	if cfg.Postgres.Enabled() {
		// indirection for unit testing
		db, err := postgresOpener(cfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		journal = storage.NewBuybacksRepository(db)
		dbPing = db.Ping
		cleanup = func() { _ = db.Close() }
	}

	// The buyback loop itself.
	b := bot.New(cfg.Strategy, prices, balances, executor, journal)

	// Monitoring API: snapshot of the loop plus the journal, read-only.
	handler := api.NewHandler(b, journal, cfg.Strategy.DipThreshold, cfg.Strategy.SpendFraction)
	router := api.NewRouter(handler)

	// Register health and readiness probes
	healthHandler := api.NewHealthHandler(dbPing)
	healthHandler.Register(router)

	return b, router, cleanup, nil
}
