package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingTransaction(t *testing.T) *Transaction {
	t.Helper()
	tx, err := NewTransaction("btx_test1", "TXN-2026-001", 1, 2, nil, 2990, "USD",
		"pay-ref-1", "bank_transfer", nil, nil, "")
	require.NoError(t, err)
	return tx
}

func TestFormatReference(t *testing.T) {
	assert.Equal(t, "TXN-2026-001", FormatReference(2026, 1))
	assert.Equal(t, "TXN-2026-042", FormatReference(2026, 42))
	assert.Equal(t, "TXN-2026-999", FormatReference(2026, 999))
	// sequence grows past the padding without truncation
	assert.Equal(t, "TXN-2026-1000", FormatReference(2026, 1000))
}

func TestNewTransaction_StartsPending(t *testing.T) {
	tx := newPendingTransaction(t)

	assert.Equal(t, StatusPending, tx.Status())
	assert.False(t, tx.Status().IsTerminal())
	assert.Nil(t, tx.ProcessedAt())
	assert.Nil(t, tx.ProcessedBy())
}

func TestNewTransaction_InvalidPeriod(t *testing.T) {
	start := time.Now()
	end := start.Add(-time.Hour)
	tx, err := NewTransaction("btx_x", "TXN-2026-002", 1, 2, nil, 100, "USD",
		"", "", &start, &end, "")
	assert.Error(t, err)
	assert.Nil(t, tx)
}

func TestTransaction_MarkVerified(t *testing.T) {
	tx := newPendingTransaction(t)
	now := time.Now().UTC()

	require.NoError(t, tx.MarkVerified("admin@krona", now))
	assert.Equal(t, StatusVerified, tx.Status())
	require.NotNil(t, tx.ProcessedAt())
	assert.Equal(t, now, *tx.ProcessedAt())
	require.NotNil(t, tx.ProcessedBy())
	assert.Equal(t, "admin@krona", *tx.ProcessedBy())
}

func TestTransaction_TerminalStatusRejectsUpdates(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name     string
		terminal func(*Transaction) error
	}{
		{"verified", func(tx *Transaction) error { return tx.MarkVerified("a", now) }},
		{"failed", func(tx *Transaction) error { return tx.MarkFailed("a", now) }},
		{"expired", func(tx *Transaction) error { return tx.MarkExpired("a", now) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tx := newPendingTransaction(t)
			require.NoError(t, tc.terminal(tx))

			assert.ErrorIs(t, tx.MarkVerified("b", now), ErrTerminalStatus)
			assert.ErrorIs(t, tx.MarkFailed("b", now), ErrTerminalStatus)
			assert.ErrorIs(t, tx.MarkExpired("b", now), ErrTerminalStatus)
		})
	}
}

func TestTransaction_ReapplySameTerminalStatusRejected(t *testing.T) {
	tx := newPendingTransaction(t)
	now := time.Now().UTC()

	require.NoError(t, tx.MarkVerified("a", now))
	err := tx.MarkVerified("a", now)
	assert.ErrorIs(t, err, ErrTerminalStatus)
}

func TestTransaction_AppendNote(t *testing.T) {
	tx := newPendingTransaction(t)

	tx.AppendNote("first check")
	assert.Equal(t, "first check", tx.Notes())

	tx.AppendNote("second check")
	assert.Equal(t, "first check\nsecond check", tx.Notes())

	tx.AppendNote("")
	assert.Equal(t, "first check\nsecond check", tx.Notes())
}

func TestParseTransactionStatus(t *testing.T) {
	got, err := ParseTransactionStatus("verified")
	require.NoError(t, err)
	assert.Equal(t, StatusVerified, got)

	_, err = ParseTransactionStatus("refunded")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
