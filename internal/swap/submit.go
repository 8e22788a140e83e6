package swap

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"dipbuyer/internal/logger"
)

// Submitter sends a signed transaction to the network and waits until it is
// confirmed. Both venues share one implementation so confirmation semantics
// stay uniform across the fallback chain.
type Submitter interface {
	Submit(ctx context.Context, tx *solana.Transaction, skipPreflight bool) (solana.Signature, error)
	AwaitConfirmation(ctx context.Context, sig solana.Signature) error
}

// statusClient is the slice of the RPC client the submitter needs;
// *rpc.Client satisfies it.
type statusClient interface {
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, sigs ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
}

const confirmPollEvery = time.Second

// RPCSubmitter submits through a Solana JSON-RPC node and polls signature
// statuses until confirmation or until the configured budget runs out.
type RPCSubmitter struct {
	client  statusClient
	timeout time.Duration
	every   time.Duration
}

// NewRPCSubmitter builds a submitter against rpcURL with the given
// confirmation budget (originally 30 one-second polls).
func NewRPCSubmitter(rpcURL string, confirmTimeout time.Duration) *RPCSubmitter {
	return &RPCSubmitter{client: rpc.New(rpcURL), timeout: confirmTimeout, every: confirmPollEvery}
}

// Submit sends the signed transaction at confirmed preflight commitment.
func (s *RPCSubmitter) Submit(ctx context.Context, tx *solana.Transaction, skipPreflight bool) (solana.Signature, error) {
	sig, err := s.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       skipPreflight,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%w: %v", ErrSubmissionRejected, err)
	}
	return sig, nil
}

// AwaitConfirmation polls the signature status once per second until the
// transaction confirms, fails on-chain, or the budget is exhausted. A
// transaction that never shows up within the budget is a failure; a dropped
// submission must not count as an executed buyback.
func (s *RPCSubmitter) AwaitConfirmation(ctx context.Context, sig solana.Signature) error {
	deadline := time.Now().Add(s.timeout)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrConfirmationTimeout, ctx.Err())
		case <-time.After(s.every):
		}

		out, err := s.client.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			logger.L().Debug().Err(err).Str("signature", sig.String()).Msg("status poll failed")
			continue
		}
		if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
			continue // not yet visible
		}

		st := out.Value[0]
		if st.Err != nil {
			return fmt.Errorf("%w: transaction failed on-chain: %v", ErrSubmissionRejected, st.Err)
		}
		switch st.ConfirmationStatus {
		case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
			return nil
		}
	}

	return fmt.Errorf("%w: %s not confirmed after %s", ErrConfirmationTimeout, sig, s.timeout)
}
