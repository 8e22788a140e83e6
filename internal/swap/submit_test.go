package swap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

type fakeStatusClient struct {
	sendSig solana.Signature
	sendErr error

	// status script: one entry consumed per poll; nil entry means "not yet
	// visible". The last entry is repeated once the script runs out.
	script []*rpc.SignatureStatusesResult
	polls  int
}

func (f *fakeStatusClient) SendTransactionWithOpts(context.Context, *solana.Transaction, rpc.TransactionOpts) (solana.Signature, error) {
	return f.sendSig, f.sendErr
}

func (f *fakeStatusClient) GetSignatureStatuses(_ context.Context, _ bool, _ ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	i := f.polls
	if i >= len(f.script) {
		i = len(f.script) - 1
	}
	f.polls++
	if i < 0 {
		return &rpc.GetSignatureStatusesResult{Value: []*rpc.SignatureStatusesResult{nil}}, nil
	}
	return &rpc.GetSignatureStatusesResult{Value: []*rpc.SignatureStatusesResult{f.script[i]}}, nil
}

func fastSubmitter(c statusClient, timeout time.Duration) *RPCSubmitter {
	return &RPCSubmitter{client: c, timeout: timeout, every: time.Millisecond}
}

func TestAwaitConfirmation_ConfirmedAfterPending(t *testing.T) {
	client := &fakeStatusClient{
		script: []*rpc.SignatureStatusesResult{
			nil, // not visible yet
			{ConfirmationStatus: rpc.ConfirmationStatusProcessed},
			{ConfirmationStatus: rpc.ConfirmationStatusConfirmed},
		},
	}
	sub := fastSubmitter(client, time.Second)

	if err := sub.AwaitConfirmation(context.Background(), solana.Signature{}); err != nil {
		t.Fatalf("AwaitConfirmation: %v", err)
	}
	if client.polls < 3 {
		t.Fatalf("expected at least 3 polls, got %d", client.polls)
	}
}

func TestAwaitConfirmation_Timeout(t *testing.T) {
	client := &fakeStatusClient{script: []*rpc.SignatureStatusesResult{nil}}
	sub := fastSubmitter(client, 20*time.Millisecond)

	err := sub.AwaitConfirmation(context.Background(), solana.Signature{})
	if !errors.Is(err, ErrConfirmationTimeout) {
		t.Fatalf("want ErrConfirmationTimeout, got %v", err)
	}
}

func TestAwaitConfirmation_OnChainFailure(t *testing.T) {
	client := &fakeStatusClient{
		script: []*rpc.SignatureStatusesResult{
			{Err: map[string]any{"InstructionError": []any{}}},
		},
	}
	sub := fastSubmitter(client, time.Second)

	err := sub.AwaitConfirmation(context.Background(), solana.Signature{})
	if !errors.Is(err, ErrSubmissionRejected) {
		t.Fatalf("want ErrSubmissionRejected, got %v", err)
	}
}

func TestSubmit_Rejected(t *testing.T) {
	client := &fakeStatusClient{sendErr: errors.New("Blockhash not found")}
	sub := fastSubmitter(client, time.Second)

	_, err := sub.Submit(context.Background(), &solana.Transaction{}, false)
	if !errors.Is(err, ErrSubmissionRejected) {
		t.Fatalf("want ErrSubmissionRejected, got %v", err)
	}
}
