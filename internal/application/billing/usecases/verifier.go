package usecases

import "context"

// VerifyRequest describes a payment claim to check against the external
// verification provider.
type VerifyRequest struct {
	Provider    string
	Reference   string
	AmountCents uint64
	Currency    string
	Receiver    string
}

// VerifyResult is the provider's answer. Metadata carries provider-specific
// details recorded on the ledger entry.
type VerifyResult struct {
	Verified bool
	Metadata map[string]string
}

// PaymentVerifier checks payment claims with an opaque external provider.
type PaymentVerifier interface {
	Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error)
}
