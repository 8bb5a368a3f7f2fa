// Package billing holds the billing transaction ledger aggregate. Each
// transaction carries a human-readable reference in the form TXN-<year>-<seq>
// allocated from a year-scoped atomic sequence.
package billing

import (
	"fmt"
	"time"
)

type TransactionStatus string

const (
	StatusPending  TransactionStatus = "pending"
	StatusVerified TransactionStatus = "verified"
	StatusFailed   TransactionStatus = "failed"
	StatusExpired  TransactionStatus = "expired"
)

var ValidStatuses = map[TransactionStatus]bool{
	StatusPending:  true,
	StatusVerified: true,
	StatusFailed:   true,
	StatusExpired:  true,
}

func (s TransactionStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status permits no further updates.
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusVerified || s == StatusFailed || s == StatusExpired
}

func ParseTransactionStatus(value string) (TransactionStatus, error) {
	status := TransactionStatus(value)
	if !ValidStatuses[status] {
		return "", fmt.Errorf("%w: %s", ErrInvalidStatus, value)
	}
	return status, nil
}

// FormatReference builds the ledger reference for a year and sequence value.
// Sequence values are zero-padded to three digits and grow past the padding
// unbounded.
func FormatReference(year int, seq uint64) string {
	return fmt.Sprintf("TXN-%d-%03d", year, seq)
}

type Transaction struct {
	id                 uint
	sid                string
	reference          string
	merchantID         uint
	planID             uint
	subscriptionID     *uint
	amountCents        uint64
	currency           string
	paymentReference   string
	paymentMethod      string
	status             TransactionStatus
	billingPeriodStart *time.Time
	billingPeriodEnd   *time.Time
	processedAt        *time.Time
	processedBy        *string
	notes              string
	createdAt          time.Time
	updatedAt          time.Time
}

func NewTransaction(sid, reference string, merchantID, planID uint,
	subscriptionID *uint, amountCents uint64, currency, paymentReference,
	paymentMethod string, billingPeriodStart, billingPeriodEnd *time.Time,
	notes string) (*Transaction, error) {

	if sid == "" {
		return nil, fmt.Errorf("transaction sid is required")
	}
	if reference == "" {
		return nil, fmt.Errorf("transaction reference is required")
	}
	if merchantID == 0 {
		return nil, fmt.Errorf("merchant ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if currency == "" {
		return nil, fmt.Errorf("currency is required")
	}
	if billingPeriodStart != nil && billingPeriodEnd != nil && billingPeriodEnd.Before(*billingPeriodStart) {
		return nil, fmt.Errorf("billing period end must be after start")
	}

	now := time.Now()
	return &Transaction{
		sid:                sid,
		reference:          reference,
		merchantID:         merchantID,
		planID:             planID,
		subscriptionID:     subscriptionID,
		amountCents:        amountCents,
		currency:           currency,
		paymentReference:   paymentReference,
		paymentMethod:      paymentMethod,
		status:             StatusPending,
		billingPeriodStart: billingPeriodStart,
		billingPeriodEnd:   billingPeriodEnd,
		notes:              notes,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

func ReconstructTransaction(id uint, sid, reference string, merchantID, planID uint,
	subscriptionID *uint, amountCents uint64, currency, paymentReference,
	paymentMethod string, status TransactionStatus,
	billingPeriodStart, billingPeriodEnd, processedAt *time.Time,
	processedBy *string, notes string, createdAt, updatedAt time.Time) (*Transaction, error) {

	if id == 0 {
		return nil, fmt.Errorf("transaction ID cannot be zero")
	}
	if !ValidStatuses[status] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	return &Transaction{
		id:                 id,
		sid:                sid,
		reference:          reference,
		merchantID:         merchantID,
		planID:             planID,
		subscriptionID:     subscriptionID,
		amountCents:        amountCents,
		currency:           currency,
		paymentReference:   paymentReference,
		paymentMethod:      paymentMethod,
		status:             status,
		billingPeriodStart: billingPeriodStart,
		billingPeriodEnd:   billingPeriodEnd,
		processedAt:        processedAt,
		processedBy:        processedBy,
		notes:              notes,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}, nil
}

func (t *Transaction) ID() uint {
	return t.id
}

// SetID assigns the database identity after insertion.
func (t *Transaction) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("transaction ID already set")
	}
	t.id = id
	return nil
}

func (t *Transaction) SID() string {
	return t.sid
}

func (t *Transaction) Reference() string {
	return t.reference
}

func (t *Transaction) MerchantID() uint {
	return t.merchantID
}

func (t *Transaction) PlanID() uint {
	return t.planID
}

func (t *Transaction) SubscriptionID() *uint {
	return t.subscriptionID
}

func (t *Transaction) AmountCents() uint64 {
	return t.amountCents
}

func (t *Transaction) Currency() string {
	return t.currency
}

func (t *Transaction) PaymentReference() string {
	return t.paymentReference
}

func (t *Transaction) PaymentMethod() string {
	return t.paymentMethod
}

func (t *Transaction) Status() TransactionStatus {
	return t.status
}

func (t *Transaction) BillingPeriodStart() *time.Time {
	return t.billingPeriodStart
}

func (t *Transaction) BillingPeriodEnd() *time.Time {
	return t.billingPeriodEnd
}

func (t *Transaction) ProcessedAt() *time.Time {
	return t.processedAt
}

func (t *Transaction) ProcessedBy() *string {
	return t.processedBy
}

func (t *Transaction) Notes() string {
	return t.notes
}

func (t *Transaction) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Transaction) UpdatedAt() time.Time {
	return t.updatedAt
}

// ChangeStatus moves the transaction to a new status. Terminal statuses
// reject every further change, including re-applying the same status.
func (t *Transaction) ChangeStatus(target TransactionStatus, processedBy string, now time.Time) error {
	if !ValidStatuses[target] {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, target)
	}
	if t.status.IsTerminal() {
		return ErrTerminalTransition(t.status.String(), target.String())
	}
	t.status = target
	if target.IsTerminal() {
		t.processedAt = &now
		t.processedBy = &processedBy
	}
	t.updatedAt = now
	return nil
}

// MarkVerified marks the payment as confirmed by the verifier.
func (t *Transaction) MarkVerified(processedBy string, now time.Time) error {
	return t.ChangeStatus(StatusVerified, processedBy, now)
}

// MarkFailed records a definitive verification failure.
func (t *Transaction) MarkFailed(processedBy string, now time.Time) error {
	return t.ChangeStatus(StatusFailed, processedBy, now)
}

// MarkExpired abandons a pending transaction that was never verified.
func (t *Transaction) MarkExpired(processedBy string, now time.Time) error {
	return t.ChangeStatus(StatusExpired, processedBy, now)
}

// AppendNote adds an operator note below any existing notes.
func (t *Transaction) AppendNote(note string) {
	if note == "" {
		return
	}
	if t.notes != "" {
		t.notes += "\n"
	}
	t.notes += note
	t.updatedAt = time.Now()
}

// AttachSubscription links the transaction to the subscription created when
// its payment was verified.
func (t *Transaction) AttachSubscription(subscriptionID uint) {
	t.subscriptionID = &subscriptionID
	t.updatedAt = time.Now()
}
