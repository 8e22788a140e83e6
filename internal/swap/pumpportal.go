// Package swap builds, signs and submits buy transactions through an ordered
// venue chain: the pump.fun bonding curve first, Raydium as fallback once
// liquidity has migrated.
package swap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"dipbuyer/internal/logger"
	"dipbuyer/internal/wallet"
)

// Venue executes one buy for a SOL notional and returns the confirmed
// transaction signature.
type Venue interface {
	Name() string
	Buy(ctx context.Context, spendSOL float64) (string, error)
}

const venueRequestTimeout = 30 * time.Second

// minTransactionLen guards against the portal answering 200 with an error
// string instead of a serialized transaction.
const minTransactionLen = 100

// PumpPortal is the bonding-curve venue. It asks the PumpPortal trade-local
// endpoint for an unsigned transaction sized to the spend, signs it locally
// and submits it.
type PumpPortal struct {
	baseURL   string
	mint      string
	slippage  float64 // percent, converted from bps
	priority  float64 // priority fee in SOL, passed through verbatim
	signer    wallet.Signer
	submitter Submitter
	client    *http.Client
}

// NewPumpPortal builds the bonding-curve venue. slippageBps and
// priorityFeeSOL come straight from configuration.
func NewPumpPortal(baseURL, mint string, slippageBps int, priorityFeeSOL float64, signer wallet.Signer, submitter Submitter) *PumpPortal {
	return &PumpPortal{
		baseURL:   baseURL,
		mint:      mint,
		slippage:  float64(slippageBps) / 100,
		priority:  priorityFeeSOL,
		signer:    signer,
		submitter: submitter,
		client:    &http.Client{Timeout: venueRequestTimeout},
	}
}

func (p *PumpPortal) Name() string { return "pumpfun" }

// Buy implements Venue.
//
// The portal returns raw serialized transaction bytes, not JSON.
func (p *PumpPortal) Buy(ctx context.Context, spendSOL float64) (string, error) {
	payload := map[string]any{
		"publicKey":        p.signer.PublicKey().String(),
		"action":           "buy",
		"mint":             p.mint,
		"amount":           spendSOL,
		"denominatedInSol": "true",
		"slippage":         p.slippage,
		"priorityFee":      p.priority,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrQuoteUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/trade-local", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrQuoteUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrQuoteUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: portal status %d", ErrQuoteUnavailable, resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read payload: %v", ErrBuildFailure, err)
	}
	if len(raw) < minTransactionLen {
		return "", fmt.Errorf("%w: payload too short (%d bytes): %s", ErrBuildFailure, len(raw), raw)
	}

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return "", fmt.Errorf("%w: decode transaction: %v", ErrBuildFailure, err)
	}
	if err := p.signer.Sign(tx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigningFailure, err)
	}

	sig, err := p.submitter.Submit(ctx, tx, false)
	if err != nil {
		return "", err
	}
	logger.L().Info().Str("venue", p.Name()).Str("signature", sig.String()).Msg("transaction submitted")

	if err := p.submitter.AwaitConfirmation(ctx, sig); err != nil {
		return "", err
	}
	return sig.String(), nil
}
