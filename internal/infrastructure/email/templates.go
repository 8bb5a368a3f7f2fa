package email

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"

	"krona/internal/shared/logger"
)

// Template is one notification template. The body is markdown with Go
// template placeholders; it is rendered to HTML before sending.
type Template struct {
	Subject string `yaml:"subject"`
	Body    string `yaml:"body"`
}

type templateFile struct {
	SubscriptionExpiring Template `yaml:"subscription_expiring"`
	SubscriptionExpired  Template `yaml:"subscription_expired"`
}

// TemplateSet holds the parsed notification templates. Missing or unreadable
// template files fall back to built-in defaults so notification delivery
// never depends on deployment artifacts.
type TemplateSet struct {
	expiring *template.Template
	expired  *template.Template
	subjects map[string]string
	logger   logger.Interface
}

const (
	defaultExpiringSubject = "Your {{.PlanName}} subscription expires in {{.DaysLeft}} day(s)"
	defaultExpiringBody    = `Hi {{.MerchantName}},

Your **{{.PlanName}}** subscription ends on **{{.EndDate}}**.

Renew before then to keep your current plan. If the subscription lapses,
your account falls back to the Free plan automatically.`

	defaultExpiredSubject = "Your {{.PlanName}} subscription has expired"
	defaultExpiredBody    = `Hi {{.MerchantName}},

Your **{{.PlanName}}** subscription ended on **{{.EndDate}}**.

Your account is now on the Free plan. You can upgrade again at any time.`
)

// LoadTemplates reads the notification templates from path. A missing file
// is not an error.
func LoadTemplates(path string, log logger.Interface) (*TemplateSet, error) {
	file := templateFile{
		SubscriptionExpiring: Template{Subject: defaultExpiringSubject, Body: defaultExpiringBody},
		SubscriptionExpired:  Template{Subject: defaultExpiredSubject, Body: defaultExpiredBody},
	}

	content, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		log.Warnw("notification templates not found, using built-in defaults", "path", path)
	case err != nil:
		return nil, fmt.Errorf("failed to read notification templates: %w", err)
	default:
		if err := yaml.Unmarshal(content, &file); err != nil {
			return nil, fmt.Errorf("failed to parse notification templates: %w", err)
		}
		log.Infow("notification templates loaded", "path", path)
	}

	expiring, err := template.New("subscription_expiring").Parse(file.SubscriptionExpiring.Body)
	if err != nil {
		return nil, fmt.Errorf("invalid subscription_expiring template: %w", err)
	}
	expired, err := template.New("subscription_expired").Parse(file.SubscriptionExpired.Body)
	if err != nil {
		return nil, fmt.Errorf("invalid subscription_expired template: %w", err)
	}

	return &TemplateSet{
		expiring: expiring,
		expired:  expired,
		subjects: map[string]string{
			"subscription_expiring": file.SubscriptionExpiring.Subject,
			"subscription_expired":  file.SubscriptionExpired.Subject,
		},
		logger: log,
	}, nil
}

// RenderExpiring renders the expiring-soon notice, returning subject and
// markdown body.
func (t *TemplateSet) RenderExpiring(data any) (string, string, error) {
	return t.render("subscription_expiring", t.expiring, data)
}

// RenderExpired renders the expired notice, returning subject and markdown
// body.
func (t *TemplateSet) RenderExpired(data any) (string, string, error) {
	return t.render("subscription_expired", t.expired, data)
}

func (t *TemplateSet) render(name string, tmpl *template.Template, data any) (string, string, error) {
	subjectTmpl, err := template.New(name + "_subject").Parse(t.subjects[name])
	if err != nil {
		return "", "", fmt.Errorf("invalid %s subject: %w", name, err)
	}

	var subject bytes.Buffer
	if err := subjectTmpl.Execute(&subject, data); err != nil {
		return "", "", fmt.Errorf("failed to render %s subject: %w", name, err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("failed to render %s body: %w", name, err)
	}

	return subject.String(), body.String(), nil
}
