package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment
// variables or a .env file.
//
// It is composed of smaller structs that represent different concerns of the
// system: the buyback strategy, the funding wallet, the external endpoints,
// the monitoring HTTP server and the optional Postgres journal.
//
// Example YAML/ENV equivalent:
//
//	TOKEN_MINT=9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin
//	DIP_THRESHOLD=0.25
//	SPEND_FRACTION=0.90
//	MIN_RESERVE_SOL=0.01
//	POLL_INTERVAL_SEC=5
//	SLIPPAGE_BPS=100
//	PRIORITY_FEE_SOL=0.005
//	WALLET_PRIVATE_KEY=base58...
//	RPC_URL=https://api.mainnet-beta.solana.com
type Config struct {
	Strategy StrategyConfig // Dip detection and spend sizing
	Wallet   WalletConfig   // Funding wallet key material
	Endpoint EndpointConfig // External collaborator base URLs
	Server   ServerConfig   // Monitoring HTTP server
	Postgres PostgresConfig // Optional buyback journal
}

// StrategyConfig drives the ATH-dip detector and spend computation.
//
// Fields:
//   - TokenMint: mint address of the tracked token.
//   - DipThreshold: fraction of retrace from ATH that triggers a buyback (0-1).
//   - SpendFraction: fraction of the available balance spent per buyback (0-1).
//   - MinReserveSOL: SOL kept untouched for fees.
//   - PollInterval: delay between price checks.
//   - SlippageBps: slippage tolerance passed through to the venues verbatim.
//   - PriorityFeeSOL: priority fee passed through to the bonding-curve venue.
type StrategyConfig struct {
	TokenMint      string
	DipThreshold   float64
	SpendFraction  float64
	MinReserveSOL  float64
	PollInterval   time.Duration
	SlippageBps    int
	PriorityFeeSOL float64
}

// WalletConfig carries the base58-encoded private key of the funding wallet.
// The key is turned into an opaque signer at startup and never read again.
type WalletConfig struct {
	PrivateKey string
}

// EndpointConfig holds base URLs for every external collaborator so tests and
// local setups can point the adapters at fakes.
type EndpointConfig struct {
	RPCURL         string // Solana JSON-RPC node
	JupiterPrice   string // Jupiter price API base
	DexScreener    string // DexScreener API base
	PumpPortal     string // PumpPortal trade-local base (bonding curve)
	RaydiumSwap    string // Raydium transaction API base (AMM)
	ConfirmTimeout time.Duration
}

// ServerConfig holds HTTP server settings for the monitoring API.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// PostgresConfig defines connection details for the optional buyback journal.
// When Host is empty the journal is disabled and the bot runs stateless.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string // computed DSN used by database/sql to connect
}

// Enabled reports whether a journal database was configured.
func (p PostgresConfig) Enabled() bool { return p.Host != "" }

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and read-only thereafter. All packages
// should read from AppConfig instead of touching environment variables.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from a .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or out of range, validateConfig()
//     terminates the process with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("DIP_THRESHOLD", 0.25)
	viper.SetDefault("SPEND_FRACTION", 0.90)
	viper.SetDefault("MIN_RESERVE_SOL", 0.01)
	viper.SetDefault("POLL_INTERVAL_SEC", 5)
	viper.SetDefault("SLIPPAGE_BPS", 100)
	viper.SetDefault("PRIORITY_FEE_SOL", 0.005)

	viper.SetDefault("RPC_URL", "https://api.mainnet-beta.solana.com")
	viper.SetDefault("JUPITER_PRICE_URL", "https://api.jup.ag/price/v2")
	viper.SetDefault("DEXSCREENER_URL", "https://api.dexscreener.com")
	viper.SetDefault("PUMPPORTAL_URL", "https://pumpportal.fun")
	viper.SetDefault("RAYDIUM_SWAP_URL", "https://transaction-v1.raydium.io")
	viper.SetDefault("CONFIRM_TIMEOUT_SEC", 30)

	viper.SetDefault("POSTGRES_HOST", "")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "dipbuyer")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	AppConfig = Config{
		Strategy: StrategyConfig{
			TokenMint:      viper.GetString("TOKEN_MINT"),
			DipThreshold:   viper.GetFloat64("DIP_THRESHOLD"),
			SpendFraction:  viper.GetFloat64("SPEND_FRACTION"),
			MinReserveSOL:  viper.GetFloat64("MIN_RESERVE_SOL"),
			PollInterval:   time.Duration(viper.GetInt("POLL_INTERVAL_SEC")) * time.Second,
			SlippageBps:    viper.GetInt("SLIPPAGE_BPS"),
			PriorityFeeSOL: viper.GetFloat64("PRIORITY_FEE_SOL"),
		},
		Wallet: WalletConfig{
			PrivateKey: viper.GetString("WALLET_PRIVATE_KEY"),
		},
		Endpoint: EndpointConfig{
			RPCURL:         viper.GetString("RPC_URL"),
			JupiterPrice:   viper.GetString("JUPITER_PRICE_URL"),
			DexScreener:    viper.GetString("DEXSCREENER_URL"),
			PumpPortal:     viper.GetString("PUMPPORTAL_URL"),
			RaydiumSwap:    viper.GetString("RAYDIUM_SWAP_URL"),
			ConfirmTimeout: time.Duration(viper.GetInt("CONFIRM_TIMEOUT_SEC")) * time.Second,
		},
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
	}

	if AppConfig.Postgres.Enabled() {
		AppConfig.Postgres.URL = fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s?sslmode=%s",
			AppConfig.Postgres.User,
			AppConfig.Postgres.Password,
			AppConfig.Postgres.Host,
			AppConfig.Postgres.Port,
			AppConfig.Postgres.DBName,
			AppConfig.Postgres.SSLMode,
		)
	}

	validateConfig()
}

// validateConfig ensures required variables are present and within range,
// terminating the application if they are not.
//
// This avoids firing real transactions with a half-configured strategy.
func validateConfig() {
	var bad []string

	if AppConfig.Strategy.TokenMint == "" {
		bad = append(bad, "TOKEN_MINT is required")
	}
	if AppConfig.Wallet.PrivateKey == "" {
		bad = append(bad, "WALLET_PRIVATE_KEY is required")
	}
	if t := AppConfig.Strategy.DipThreshold; t <= 0 || t >= 1 {
		bad = append(bad, fmt.Sprintf("DIP_THRESHOLD must be in (0,1), got %v", t))
	}
	if f := AppConfig.Strategy.SpendFraction; f <= 0 || f > 1 {
		bad = append(bad, fmt.Sprintf("SPEND_FRACTION must be in (0,1], got %v", f))
	}
	if AppConfig.Strategy.MinReserveSOL < 0 {
		bad = append(bad, "MIN_RESERVE_SOL must be >= 0")
	}
	if AppConfig.Strategy.PollInterval <= 0 {
		bad = append(bad, "POLL_INTERVAL_SEC must be > 0")
	}
	if AppConfig.Strategy.SlippageBps <= 0 {
		bad = append(bad, "SLIPPAGE_BPS must be > 0")
	}
	if AppConfig.Endpoint.RPCURL == "" {
		bad = append(bad, "RPC_URL is required")
	}
	if AppConfig.Server.Port == "" {
		bad = append(bad, "SERVER_PORT is required")
	}

	if len(bad) > 0 {
		log.Fatalf("invalid configuration: %v\n", bad)
	}
}
