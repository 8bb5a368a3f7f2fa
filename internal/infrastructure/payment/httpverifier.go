package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	billingusecases "krona/internal/application/billing/usecases"
	"krona/internal/shared/config"
	"krona/internal/shared/logger"
)

const (
	defaultRequestTimeout = 15 * time.Second
	// Maximum response body size for the verifier API (64KB)
	maxVerifierResponseSize = 64 << 10
)

type verifyRequestBody struct {
	Provider    string `json:"provider"`
	Reference   string `json:"reference"`
	AmountCents uint64 `json:"amount_cents"`
	Currency    string `json:"currency"`
	Receiver    string `json:"receiver,omitempty"`
}

type verifyResponseBody struct {
	Verified bool              `json:"verified"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Message  string            `json:"message,omitempty"`
}

// HTTPVerifier asks an external verification service whether a payment
// actually arrived. The service answers yes or no; an unreachable service is
// an error, never a silent no.
type HTTPVerifier struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Interface
}

func NewHTTPVerifier(cfg config.BillingConfig, log logger.Interface) *HTTPVerifier {
	timeout := defaultRequestTimeout
	if cfg.VerifierTimeoutSec > 0 {
		timeout = time.Duration(cfg.VerifierTimeoutSec) * time.Second
	}

	return &HTTPVerifier{
		baseURL: cfg.VerifierBaseURL,
		apiKey:  cfg.VerifierAPIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

var _ billingusecases.PaymentVerifier = (*HTTPVerifier)(nil)

func (v *HTTPVerifier) Verify(ctx context.Context, req billingusecases.VerifyRequest) (*billingusecases.VerifyResult, error) {
	payload, err := json.Marshal(verifyRequestBody{
		Provider:    req.Provider,
		Reference:   req.Reference,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Receiver:    req.Receiver,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode verify request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		v.baseURL+"/v1/verify", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build verify request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if v.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+v.apiKey)
	}

	resp, err := v.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("verifier request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxVerifierResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read verifier response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		v.logger.Warnw("verifier returned non-OK status",
			"status", resp.StatusCode, "reference", req.Reference)
		return nil, fmt.Errorf("verifier returned status %d", resp.StatusCode)
	}

	var result verifyResponseBody
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode verifier response: %w", err)
	}

	return &billingusecases.VerifyResult{
		Verified: result.Verified,
		Metadata: result.Metadata,
	}, nil
}
