package services

import (
	"fmt"
	"net/url"

	"github.com/resend/resend-go/v2"
)

// MailerService sends transactional email through the Resend API.
type MailerService struct {
	client  *resend.Client
	from    string
	baseURL string
}

// NewMailerService creates the mailer. An empty API key disables it;
// callers should check for nil before use.
func NewMailerService(apiKey, from, baseURL string) *MailerService {
	if apiKey == "" {
		return nil
	}
	return &MailerService{
		client:  resend.NewClient(apiKey),
		from:    from,
		baseURL: baseURL,
	}
}

// SendConfirmation sends the account confirmation email and returns the
// provider-side email ID.
func (m *MailerService) SendConfirmation(email, name string) (string, error) {
	if name == "" {
		name = "there"
	}
	confirmationLink := fmt.Sprintf("%s/auth/confirm?email=%s", m.baseURL, url.QueryEscape(email))

	html := fmt.Sprintf(`
        <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
          <h2 style="color: #007AFF;">Welcome to TaskMasterPro!</h2>
          <p>Hi %s,</p>
          <p>Thank you for signing up for TaskMasterPro! To complete your registration, please click the button below to confirm your email address:</p>
          <div style="text-align: center; margin: 30px 0;">
            <a href="%s"
               style="background-color: #007AFF; color: white; padding: 12px 24px; text-decoration: none; border-radius: 8px; display: inline-block;">
              Confirm Email Address
            </a>
          </div>
          <p>If the button doesn't work, you can copy and paste this link into your browser:</p>
          <p style="word-break: break-all; color: #666;">%s</p>
          <p>This link will expire in 24 hours.</p>
          <p>Best regards,<br>The TaskMasterPro Team</p>
        </div>`, name, confirmationLink, confirmationLink)

	sent, err := m.client.Emails.Send(&resend.SendEmailRequest{
		From:    m.from,
		To:      []string{email},
		Subject: "Confirm your TaskMasterPro account",
		Html:    html,
	})
	if err != nil {
		return "", fmt.Errorf("failed to send confirmation email: %w", err)
	}

	return sent.Id, nil
}
