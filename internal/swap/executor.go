package swap

import (
	"context"
	"fmt"

	"dipbuyer/internal/logger"
)

// Receipt identifies a settled buyback swap.
type Receipt struct {
	Venue     string
	Signature string
}

// Executor runs the ordered venue list for one spend amount. Any classified
// failure falls through to the next venue; there are no retries within a
// cycle, the next dip observation retriggers instead.
type Executor struct {
	venues []Venue
}

// NewExecutor builds an Executor over the given venue order.
func NewExecutor(venues ...Venue) *Executor {
	return &Executor{venues: venues}
}

// Execute attempts the buy on each venue in order and returns the first
// confirmed receipt. When every venue fails the last error is returned and
// the trigger is abandoned for this cycle.
func (e *Executor) Execute(ctx context.Context, spendSOL float64) (Receipt, error) {
	var lastErr error

	for _, v := range e.venues {
		sig, err := v.Buy(ctx, spendSOL)
		if err == nil {
			return Receipt{Venue: v.Name(), Signature: sig}, nil
		}
		lastErr = err
		logger.L().Warn().Str("venue", v.Name()).Float64("spend_sol", spendSOL).Err(err).
			Msg("venue failed, falling through")
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: no venues configured", ErrQuoteUnavailable)
	}
	return Receipt{}, fmt.Errorf("all venues failed: %w", lastErr)
}
