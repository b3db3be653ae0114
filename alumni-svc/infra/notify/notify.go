package notify

import (
	"context"
	"fmt"
	"html"

	"go.uber.org/zap"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/dto"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper/utils"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/interfaces"
)

// Router hands each notification to the notifier registered for its channel.
type Router struct {
	email interfaces.Notifier
	sms   interfaces.Notifier
}

func NewRouter(email, sms interfaces.Notifier) *Router {
	return &Router{email: email, sms: sms}
}

func (r *Router) Send(ctx context.Context, n dto.Notification) error {
	switch n.Channel {
	case dto.ChannelEmail, "":
		if r.email == nil {
			return fmt.Errorf("notify: no email notifier configured")
		}
		return r.email.Send(ctx, n)
	case dto.ChannelSMS:
		if r.sms == nil {
			return fmt.Errorf("notify: no sms notifier configured")
		}
		return r.sms.Send(ctx, n)
	default:
		return fmt.Errorf("notify: unknown channel %q", n.Channel)
	}
}

// LogNotifier writes notifications to the log instead of delivering them.
// Codes and secrets are logged in clear, so it is refused in prod by config.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notify")}
}

func (l *LogNotifier) Send(_ context.Context, n dto.Notification) error {
	to := n.To
	if n.Channel != dto.ChannelSMS {
		to = utils.MaskEmail(n.To)
	}
	l.logger.Info("notification",
		zap.String("channel", string(n.Channel)),
		zap.String("kind", string(n.Kind)),
		zap.String("to", to),
		zap.String("code", n.Code),
		zap.String("secret", n.Secret),
	)
	return nil
}

func subject(n dto.Notification, org string) string {
	switch n.Kind {
	case dto.KindRegistrationSuccess:
		return org + " - Registration complete"
	default:
		return org + " - Verification code"
	}
}

func plainBody(n dto.Notification, org string) string {
	switch n.Kind {
	case dto.KindRegistrationSuccess:
		return fmt.Sprintf("Hi %s, welcome to %s. Your registration is complete. Your generated password is %s.", displayName(n), org, n.Secret)
	default:
		return fmt.Sprintf("Your %s verification code is %s. It expires in %d minutes.", org, n.Code, n.TTLMinutes)
	}
}

func htmlBody(n dto.Notification, org string) string {
	switch n.Kind {
	case dto.KindRegistrationSuccess:
		return fmt.Sprintf(welcomeHTML, html.EscapeString(displayName(n)), html.EscapeString(org), html.EscapeString(n.Secret))
	default:
		return fmt.Sprintf(codeHTML, html.EscapeString(org), n.Code, n.TTLMinutes)
	}
}

func displayName(n dto.Notification) string {
	if n.Name == "" {
		return "there"
	}
	return n.Name
}

const codeHTML = `<p>Your %s verification code is:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px">%s</p>
<p>It expires in %d minutes. If you did not request it, ignore this email.</p>`

const welcomeHTML = `<p>Hi %s,</p>
<p>Welcome to %s. Your registration is complete.</p>
<p>Your generated password is <b>%s</b>.</p>`
