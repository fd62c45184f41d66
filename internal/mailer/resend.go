package mailer

import (
	"context"
	"fmt"
	"html"

	"github.com/resend/resend-go/v2"
)

// resendMailer sends invitation emails via the Resend API.
type resendMailer struct {
	client *resend.Client
	from   string
}

// NewResendMailer creates a Mailer backed by Resend with the given API key
// and default from address.
func NewResendMailer(apiKey, from string) Mailer {
	return &resendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// SendInvitation emails the invited user their temporary credentials and a
// link to the login page.
func (m *resendMailer) SendInvitation(ctx context.Context, inv Invitation) error {
	body := fmt.Sprintf(
		`<p>Hi %s,</p>
<p>An account has been created for you with the role <strong>%s</strong>.</p>
<p>Sign in at <a href="%s">%s</a> with this temporary password and change it right away:</p>
<p><code>%s</code></p>`,
		html.EscapeString(inv.FullName),
		html.EscapeString(inv.Role),
		inv.LoginURL, inv.LoginURL,
		html.EscapeString(inv.TempPassword),
	)

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{inv.Email},
		Subject: "You have been invited",
		Html:    body,
	}

	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send invitation: %w", err)
	}
	return nil
}
