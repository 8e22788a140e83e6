package pricefeed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testMint = "MintAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

func TestJupiter_Current(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		want    float64
		wantErr bool
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   fmt.Sprintf(`{"data":{"%s":{"price":"0.0000012345"}}}`, testMint),
			want:   0.0000012345,
		},
		{
			name:    "unknown mint",
			status:  http.StatusOK,
			body:    `{"data":{}}`,
			wantErr: true,
		},
		{
			name:    "bad price string",
			status:  http.StatusOK,
			body:    fmt.Sprintf(`{"data":{"%s":{"price":"nope"}}}`, testMint),
			wantErr: true,
		},
		{
			name:    "zero price",
			status:  http.StatusOK,
			body:    fmt.Sprintf(`{"data":{"%s":{"price":"0"}}}`, testMint),
			wantErr: true,
		},
		{
			name:    "server error",
			status:  http.StatusBadGateway,
			body:    `oops`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			status:  http.StatusOK,
			body:    `{"data":`,
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("ids"); got != testMint {
					t.Errorf("ids=%q, want %q", got, testMint)
				}
				if got := r.URL.Query().Get("vsToken"); got != WSOLMint {
					t.Errorf("vsToken=%q, want WSOL", got)
				}
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			src := NewJupiter(srv.URL, testMint)
			got, err := src.Current(context.Background())
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got price %v", got)
				}
				if !errors.Is(err, ErrUnavailable) {
					t.Fatalf("error not classified as ErrUnavailable: %v", err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("got %v err=%v, want %v", got, err, tc.want)
			}
		})
	}
}

func TestDexScreener_Current(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		want    float64
		wantErr bool
	}{
		{
			name: "first pair wins",
			body: `{"pairs":[{"priceNative":"0.0000031"},{"priceNative":"9.9"}]}`,
			want: 0.0000031,
		},
		{
			name:    "no pairs",
			body:    `{"pairs":[]}`,
			wantErr: true,
		},
		{
			name:    "bad price",
			body:    `{"pairs":[{"priceNative":""}]}`,
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				wantPath := "/latest/dex/tokens/" + testMint
				if r.URL.Path != wantPath {
					t.Errorf("path=%q, want %q", r.URL.Path, wantPath)
				}
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			src := NewDexScreener(srv.URL, testMint)
			got, err := src.Current(context.Background())
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("got %v err=%v, want %v", got, err, tc.want)
			}
		})
	}
}

type stubSource struct {
	name  string
	price float64
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }
func (s *stubSource) Current(context.Context) (float64, error) {
	s.calls++
	return s.price, s.err
}

func TestChain_FallsThroughInOrder(t *testing.T) {
	primary := &stubSource{name: "primary", err: ErrUnavailable}
	secondary := &stubSource{name: "secondary", price: 1.5}

	chain := NewChain(primary, secondary)
	got, err := chain.Current(context.Background())
	if err != nil || got != 1.5 {
		t.Fatalf("got %v err=%v", got, err)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Fatalf("calls: primary=%d secondary=%d", primary.calls, secondary.calls)
	}
}

func TestChain_PrimaryShortCircuits(t *testing.T) {
	primary := &stubSource{name: "primary", price: 2.0}
	secondary := &stubSource{name: "secondary", price: 9.0}

	chain := NewChain(primary, secondary)
	got, _ := chain.Current(context.Background())
	if got != 2.0 || secondary.calls != 0 {
		t.Fatalf("got %v, secondary calls=%d", got, secondary.calls)
	}
}

func TestChain_AllFail(t *testing.T) {
	chain := NewChain(
		&stubSource{name: "a", err: errors.New("boom")},
		&stubSource{name: "b", err: ErrUnavailable},
	)
	_, err := chain.Current(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}
