package services

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/mail-svc/internal/dto"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Sender delivers one already-encoded message.
type Sender interface {
	Send(ctx context.Context, from, to string, msg []byte) error
}

type MailService struct {
	sender       Sender
	mailFrom     string
	mailFromName string
	portalURL    string
	logger       *zap.Logger
	now          func() time.Time
}

func NewMailService(sender Sender, mailFrom, mailFromName, portalURL string, logger *zap.Logger) *MailService {
	return &MailService{
		sender:       sender,
		mailFrom:     mailFrom,
		mailFromName: mailFromName,
		portalURL:    portalURL,
		logger:       logger.Named("mail"),
		now:          time.Now,
	}
}

type templateData struct {
	Name       string
	Org        string
	Code       string
	TTLMinutes int
	Login      bool
	Secret     string
	PortalURL  string
}

func (s *MailService) SendOTP(ctx context.Context, ev dto.NotificationEvent) error {
	if ev.Code == "" {
		return errors.New("otp event without code")
	}
	return s.send(ctx, ev, s.mailFromName+" - Verification code", "otp.html", templateData{
		Code:       ev.Code,
		TTLMinutes: ev.TTLMinutes,
		Login:      ev.Purpose == "LOGIN",
	})
}

func (s *MailService) SendWelcome(ctx context.Context, ev dto.NotificationEvent) error {
	if ev.Secret == "" {
		return errors.New("registration event without secret")
	}
	return s.send(ctx, ev, s.mailFromName+" - Registration complete", "welcome.html", templateData{
		Secret: ev.Secret,
	})
}

func (s *MailService) send(ctx context.Context, ev dto.NotificationEvent, subject, tmpl string, data templateData) error {
	to, err := mail.ParseAddress(ev.Email)
	if err != nil {
		return fmt.Errorf("invalid recipient %q: %w", ev.Email, err)
	}

	data.Name = ev.Name
	if strings.TrimSpace(data.Name) == "" {
		data.Name = "there"
	}
	data.Org = s.mailFromName
	data.PortalURL = s.portalURL

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return fmt.Errorf("render %s: %w", tmpl, err)
	}

	msg := s.buildMessage(to.Address, subject, body.String())

	s.logger.Info("sending", zap.String("event_id", ev.EventID), zap.String("template", tmpl))
	if err := s.sender.Send(ctx, s.mailFrom, to.Address, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	s.logger.Info("sent", zap.String("event_id", ev.EventID))
	return nil
}

func (s *MailService) buildMessage(to, subject, htmlBody string) []byte {
	from := (&mail.Address{Name: s.mailFromName, Address: s.mailFrom}).String()

	return []byte(strings.Join([]string{
		"From: " + from,
		"To: " + to,
		"Subject: " + mime.QEncoding.Encode("utf-8", subject),
		"Date: " + s.now().Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n"))
}
