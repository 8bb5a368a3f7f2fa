package email

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krona/internal/application/notification"
	"krona/internal/shared/config"
	"krona/internal/shared/logger"
	"krona/internal/shared/services/markdown"
)

type recordedMail struct {
	to      string
	subject string
	html    string
	plain   string
}

type fakeSender struct {
	sent []recordedMail
	err  error
}

func (f *fakeSender) Send(to, subject, htmlBody, plainBody string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, recordedMail{to: to, subject: subject, html: htmlBody, plain: plainBody})
	return nil
}

func newTestGateway(t *testing.T, sender Sender, cfg config.NotificationConfig) *Gateway {
	t.Helper()
	log := logger.NewLogger()
	templates, err := LoadTemplates("testdata/missing.yaml", log)
	require.NoError(t, err)
	return NewGateway(sender, templates, markdown.NewService(), cfg, log)
}

func TestGateway_NotifyExpiringSoon(t *testing.T) {
	sender := &fakeSender{}
	gw := newTestGateway(t, sender, config.NotificationConfig{
		AdminEmails: []string{"ops@example.com"},
	})

	err := gw.NotifySubscriptionExpiringSoon(context.Background(), notification.SubscriptionExpiringEvent{
		MerchantSID:  "mch_123",
		MerchantName: "Acme",
		OwnerEmail:   "owner@example.com",
		PlanName:     "Pro",
		EndDate:      time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		DaysLeft:     2,
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "owner@example.com", sender.sent[0].to)
	assert.Equal(t, "ops@example.com", sender.sent[1].to)
	assert.Contains(t, sender.sent[0].subject, "Pro")
	assert.Contains(t, sender.sent[0].subject, "2")
	assert.Contains(t, sender.sent[0].html, "<strong>Pro</strong>")
	assert.Contains(t, sender.sent[0].html, "2026-09-15")
	assert.Contains(t, sender.sent[0].plain, "**Pro**")
}

func TestGateway_NotifyExpired(t *testing.T) {
	sender := &fakeSender{}
	gw := newTestGateway(t, sender, config.NotificationConfig{})

	err := gw.NotifySubscriptionExpired(context.Background(), notification.SubscriptionExpiredEvent{
		MerchantSID:  "mch_123",
		MerchantName: "Acme",
		OwnerEmail:   "owner@example.com",
		PlanName:     "Pro",
		EndDate:      time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "owner@example.com", sender.sent[0].to)
	assert.Contains(t, sender.sent[0].subject, "expired")
}

func TestGateway_SkipsDuplicateAdmin(t *testing.T) {
	sender := &fakeSender{}
	gw := newTestGateway(t, sender, config.NotificationConfig{
		AdminEmails: []string{"owner@example.com"},
	})

	err := gw.NotifySubscriptionExpired(context.Background(), notification.SubscriptionExpiredEvent{
		MerchantName: "Acme",
		OwnerEmail:   "owner@example.com",
		PlanName:     "Pro",
		EndDate:      time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Len(t, sender.sent, 1)
}
