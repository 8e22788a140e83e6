// Package wallet holds the funding account: its signing capability and its
// spendable SOL balance as seen by the RPC node.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// ErrBalanceUnavailable classifies every balance fetch failure. The
// orchestrator aborts the buyback attempt and keeps polling.
var ErrBalanceUnavailable = errors.New("balance unavailable")

// balanceClient is the slice of the RPC client the balance source needs;
// *rpc.Client satisfies it.
type balanceClient interface {
	GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error)
}

// BalanceSource reports the SOL balance of one account.
type BalanceSource struct {
	client  balanceClient
	account solana.PublicKey
}

// NewBalanceSource builds a BalanceSource for the given account against a
// JSON-RPC endpoint.
func NewBalanceSource(rpcURL string, account solana.PublicKey) *BalanceSource {
	return &BalanceSource{client: rpc.New(rpcURL), account: account}
}

// BalanceSOL returns the account balance in SOL at confirmed commitment.
func (b *BalanceSource) BalanceSOL(ctx context.Context) (float64, error) {
	out, err := b.client.GetBalance(ctx, b.account, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBalanceUnavailable, err)
	}
	if out == nil {
		return 0, fmt.Errorf("%w: empty RPC response", ErrBalanceUnavailable)
	}
	return float64(out.Value) / float64(solana.LAMPORTS_PER_SOL), nil
}
