package email

import (
	"context"
	"fmt"

	"krona/internal/application/notification"
	"krona/internal/shared/config"
	"krona/internal/shared/logger"
	"krona/internal/shared/services/markdown"
)

// Sender delivers a single rendered message.
type Sender interface {
	Send(to, subject, htmlBody, plainBody string) error
}

// Gateway sends subscription lifecycle notices over email. Each notice goes
// to the merchant owner and, when configured, to the admin list. Rendering
// happens once per event; delivery failures to individual recipients are
// logged and the remaining recipients still get their copy.
type Gateway struct {
	sender    Sender
	templates *TemplateSet
	markdown  markdown.Service
	cfg       config.NotificationConfig
	logger    logger.Interface
}

func NewGateway(
	sender Sender,
	templates *TemplateSet,
	markdownSvc markdown.Service,
	cfg config.NotificationConfig,
	log logger.Interface,
) *Gateway {
	return &Gateway{
		sender:    sender,
		templates: templates,
		markdown:  markdownSvc,
		cfg:       cfg,
		logger:    log,
	}
}

type noticeData struct {
	MerchantName string
	MerchantSID  string
	PlanName     string
	EndDate      string
	DaysLeft     int
}

func (g *Gateway) NotifySubscriptionExpiringSoon(ctx context.Context, event notification.SubscriptionExpiringEvent) error {
	data := noticeData{
		MerchantName: event.MerchantName,
		MerchantSID:  event.MerchantSID,
		PlanName:     event.PlanName,
		EndDate:      event.EndDate.Format("2006-01-02"),
		DaysLeft:     event.DaysLeft,
	}

	subject, body, err := g.templates.RenderExpiring(data)
	if err != nil {
		return err
	}

	return g.deliver(event.OwnerEmail, subject, body)
}

func (g *Gateway) NotifySubscriptionExpired(ctx context.Context, event notification.SubscriptionExpiredEvent) error {
	data := noticeData{
		MerchantName: event.MerchantName,
		MerchantSID:  event.MerchantSID,
		PlanName:     event.PlanName,
		EndDate:      event.EndDate.Format("2006-01-02"),
	}

	subject, body, err := g.templates.RenderExpired(data)
	if err != nil {
		return err
	}

	return g.deliver(event.OwnerEmail, subject, body)
}

// deliver fans one rendered notice out to the owner and the admin list. An
// owner delivery failure is returned; admin copies are best effort.
func (g *Gateway) deliver(ownerEmail, subject, markdownBody string) error {
	htmlBody, err := g.markdown.ToHTMLSanitized(markdownBody)
	if err != nil {
		return fmt.Errorf("failed to render notification body: %w", err)
	}

	if ownerEmail != "" {
		if err := g.sender.Send(ownerEmail, subject, htmlBody, markdownBody); err != nil {
			return fmt.Errorf("failed to notify owner: %w", err)
		}
	}

	for _, admin := range g.cfg.AdminEmails {
		if admin == "" || admin == ownerEmail {
			continue
		}
		if err := g.sender.Send(admin, subject, htmlBody, markdownBody); err != nil {
			g.logger.Warnw("failed to send admin copy of notification",
				"admin", admin, "error", err)
		}
	}

	return nil
}
