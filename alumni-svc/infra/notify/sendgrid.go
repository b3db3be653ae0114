package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/dto"
)

type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type SendGridNotifier struct {
	client   mailSender
	from     string
	fromName string
}

func NewSendGridNotifier(apiKey, from, fromName string) *SendGridNotifier {
	return &SendGridNotifier{
		client:   sendgrid.NewSendClient(apiKey),
		from:     from,
		fromName: fromName,
	}
}

func (s *SendGridNotifier) Send(ctx context.Context, n dto.Notification) error {
	message := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.from),
		subject(n, s.fromName),
		mail.NewEmail(n.Name, n.To),
		plainBody(n, s.fromName),
		htmlBody(n, s.fromName),
	)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send email via sendgrid: %w", err)
	}
	if resp != nil && resp.StatusCode >= 400 {
		return fmt.Errorf("send email via sendgrid: status %d", resp.StatusCode)
	}
	return nil
}
