package swap

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"dipbuyer/internal/logger"
	"dipbuyer/internal/pricefeed"
	"dipbuyer/internal/wallet"
)

// computeUnitPriceMicroLamports is the priority price forwarded to the
// Raydium transaction builder.
const computeUnitPriceMicroLamports = "100000"

// Raydium is the AMM fallback venue, used once the token has migrated off
// the bonding curve. It requests a ready-to-sign V0 swap transaction for the
// WSOL -> token route.
type Raydium struct {
	baseURL     string
	mint        string
	slippageBps int
	signer      wallet.Signer
	submitter   Submitter
	client      *http.Client
}

// NewRaydium builds the AMM venue. slippageBps is forwarded verbatim.
func NewRaydium(baseURL, mint string, slippageBps int, signer wallet.Signer, submitter Submitter) *Raydium {
	return &Raydium{
		baseURL:     baseURL,
		mint:        mint,
		slippageBps: slippageBps,
		signer:      signer,
		submitter:   submitter,
		client:      &http.Client{Timeout: venueRequestTimeout},
	}
}

func (r *Raydium) Name() string { return "raydium" }

// swapResponse is the Raydium transaction API envelope. The API may split a
// swap into several sequential transactions.
type swapResponse struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Data    []struct {
		Transaction string `json:"transaction"` // base64
	} `json:"data"`
}

// Buy implements Venue.
//
// Every returned transaction is signed and submitted, and each submission is
// confirmation-polled. The upstream behavior treated a bare Raydium
// submission as success; confirmation is awaited here as well so both venues
// report success under the same condition.
func (r *Raydium) Buy(ctx context.Context, spendSOL float64) (string, error) {
	lamports := uint64(spendSOL * float64(solana.LAMPORTS_PER_SOL))

	q := url.Values{}
	q.Set("inputMint", pricefeed.WSOLMint)
	q.Set("outputMint", r.mint)
	q.Set("amount", strconv.FormatUint(lamports, 10))
	q.Set("slippageBps", strconv.Itoa(r.slippageBps))
	q.Set("txVersion", "V0")
	q.Set("wallet", r.signer.PublicKey().String())
	q.Set("computeUnitPriceMicroLamports", computeUnitPriceMicroLamports)

	reqURL := r.baseURL + "/transaction/swap-base-in?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrQuoteUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrQuoteUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: raydium status %d", ErrQuoteUnavailable, resp.StatusCode)
	}

	var out swapResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrBuildFailure, err)
	}
	if !out.Success || len(out.Data) == 0 {
		return "", fmt.Errorf("%w: no route (%s)", ErrQuoteUnavailable, out.Msg)
	}

	var lastSig solana.Signature
	for i, item := range out.Data {
		raw, err := base64.StdEncoding.DecodeString(item.Transaction)
		if err != nil {
			return "", fmt.Errorf("%w: transaction %d not base64: %v", ErrBuildFailure, i, err)
		}
		tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
		if err != nil {
			return "", fmt.Errorf("%w: decode transaction %d: %v", ErrBuildFailure, i, err)
		}
		if err := r.signer.Sign(tx); err != nil {
			return "", fmt.Errorf("%w: %v", ErrSigningFailure, err)
		}

		sig, err := r.submitter.Submit(ctx, tx, true)
		if err != nil {
			return "", err
		}
		logger.L().Info().Str("venue", r.Name()).Int("tx", i+1).Int("of", len(out.Data)).
			Str("signature", sig.String()).Msg("transaction submitted")

		if err := r.submitter.AwaitConfirmation(ctx, sig); err != nil {
			return "", err
		}
		lastSig = sig
	}

	return lastSig.String(), nil
}
