package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendgridMailer delivers notifications through the SendGrid v3 API.
type SendgridMailer struct {
	key       string
	fromName  string
	fromEmail string
}

var _ Mailer = (*SendgridMailer)(nil)

func NewSendgridMailer(key, fromName, fromEmail string) *SendgridMailer {
	return &SendgridMailer{key: key, fromName: fromName, fromEmail: fromEmail}
}

func (m *SendgridMailer) Send(ctx context.Context, to, subject, body string) error {
	from := sgmail.NewEmail(m.fromName, m.fromEmail)
	msg := sgmail.NewSingleEmailPlainText(from, subject, sgmail.NewEmail("", to), body)
	client := sendgrid.NewSendClient(m.key)
	resp, err := client.SendWithContext(ctx, msg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
