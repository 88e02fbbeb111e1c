package mailer

import (
	"context"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"
)

// Sender entrega un correo ya renderizado. El worker no sabe de Mailgun.
type Sender interface {
	Send(ctx context.Context, toName, toEmail, subject, html string) error
}

type MailgunSender struct {
	mg   mailgun.Mailgun
	from string
}

func NewMailgunSender(domain, apiKey, from string) *MailgunSender {
	return &MailgunSender{
		mg:   mailgun.NewMailgun(domain, apiKey),
		from: from,
	}
}

func (s *MailgunSender) Send(ctx context.Context, toName, toEmail, subject, html string) error {
	to := fmt.Sprintf("%s <%s>", toName, toEmail)
	msg := s.mg.NewMessage(s.from, subject, "", to)
	msg.SetHtml(html)

	_, _, err := s.mg.Send(ctx, msg)
	return err
}
