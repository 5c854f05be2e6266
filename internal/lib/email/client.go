// Package email provides an email sending client.
//
// It uses Resend (resend-go) as the email provider and loads HTML
// templates from the filesystem to render email bodies.
package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/migherize/go-api-boilerplate/internal/config"
)

// Client wraps the Resend client and a logger.
type Client struct {
	client *resend.Client
	from   string
	logger *zerolog.Logger
}

// NewClient creates an email Client from the integration config.
// The sender defaults to Resend's onboarding address, which only works
// for testing; set INTEGRATION.EMAIL_FROM for real traffic.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	from := cfg.Integration.EmailFrom
	if from == "" {
		from = fmt.Sprintf("%s <onboarding@resend.dev>", cfg.Primary.ProjectName)
	}

	return &Client{
		client: resend.NewClient(cfg.Integration.ResendAPIKey),
		from:   from,
		logger: logger,
	}
}

// SendEmail sends an email with HTML rendered from a template file.
//
// Steps:
//   - Load the template from templates/emails/<name>.html
//   - Execute it with `data` into a buffer
//   - Call the Resend API
func (c *Client) SendEmail(to, subject string, templateName Template, data map[string]string) error {
	body, err := Render(templateName, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}

	if _, err := c.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// Render loads templates/emails/<name>.html and executes it with data.
// Also used by the preview-email command to render templates without
// sending anything.
func Render(templateName Template, data map[string]string) (string, error) {
	tmplPath := fmt.Sprintf("%s/%s.html", "templates/emails", templateName)

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse email template %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", templateName)
	}

	return body.String(), nil
}
