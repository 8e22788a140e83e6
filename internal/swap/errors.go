package swap

import "errors"

// Failure classification for one venue attempt. The executor falls through
// to the next venue on any of these; after the last venue the orchestrator
// gets the error as-is and abandons the trigger for this cycle.
var (
	// ErrQuoteUnavailable: the venue could not produce a route or payload
	// for the requested notional.
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrBuildFailure: the venue answered but the transaction payload could
	// not be decoded.
	ErrBuildFailure = errors.New("swap build failure")

	// ErrSigningFailure: the signer rejected the decoded transaction.
	ErrSigningFailure = errors.New("signing failure")

	// ErrSubmissionRejected: the RPC node refused the signed transaction.
	ErrSubmissionRejected = errors.New("submission rejected")

	// ErrConfirmationTimeout: the transaction was submitted but did not
	// confirm within the poll budget. Treated as failure, never as
	// assume-success.
	ErrConfirmationTimeout = errors.New("confirmation timeout")
)
