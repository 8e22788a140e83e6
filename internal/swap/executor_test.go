package swap

import (
	"context"
	"errors"
	"testing"
)

type stubVenue struct {
	name  string
	sig   string
	err   error
	calls int
	spend float64
}

func (v *stubVenue) Name() string { return v.name }
func (v *stubVenue) Buy(_ context.Context, spendSOL float64) (string, error) {
	v.calls++
	v.spend = spendSOL
	return v.sig, v.err
}

func TestExecutor_PrimaryWins(t *testing.T) {
	a := &stubVenue{name: "pumpfun", sig: "sigA"}
	b := &stubVenue{name: "raydium", sig: "sigB"}

	rcpt, err := NewExecutor(a, b).Execute(context.Background(), 0.5)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if rcpt.Venue != "pumpfun" || rcpt.Signature != "sigA" {
		t.Fatalf("unexpected receipt %+v", rcpt)
	}
	if b.calls != 0 {
		t.Fatalf("fallback venue should not be touched")
	}
	if a.spend != 0.5 {
		t.Fatalf("spend forwarded as %v", a.spend)
	}
}

func TestExecutor_FallsThroughOnEachFailureKind(t *testing.T) {
	for _, sentinel := range []error{
		ErrQuoteUnavailable,
		ErrBuildFailure,
		ErrSigningFailure,
		ErrSubmissionRejected,
		ErrConfirmationTimeout,
	} {
		a := &stubVenue{name: "pumpfun", err: sentinel}
		b := &stubVenue{name: "raydium", sig: "sigB"}

		rcpt, err := NewExecutor(a, b).Execute(context.Background(), 1.25)
		if err != nil {
			t.Fatalf("%v: Execute: %v", sentinel, err)
		}
		if rcpt.Venue != "raydium" || rcpt.Signature != "sigB" {
			t.Fatalf("%v: receipt %+v", sentinel, rcpt)
		}
		if a.calls != 1 || b.calls != 1 {
			t.Fatalf("%v: calls a=%d b=%d", sentinel, a.calls, b.calls)
		}
	}
}

func TestExecutor_AllVenuesFail(t *testing.T) {
	a := &stubVenue{name: "pumpfun", err: ErrConfirmationTimeout}
	b := &stubVenue{name: "raydium", err: ErrQuoteUnavailable}

	_, err := NewExecutor(a, b).Execute(context.Background(), 2.0)
	if err == nil {
		t.Fatalf("expected failure")
	}
	// The surfaced error is the last venue's classification.
	if !errors.Is(err, ErrQuoteUnavailable) {
		t.Fatalf("want last venue error, got %v", err)
	}
}

func TestExecutor_NoVenues(t *testing.T) {
	if _, err := NewExecutor().Execute(context.Background(), 1.0); err == nil {
		t.Fatalf("expected failure with empty venue list")
	}
}
