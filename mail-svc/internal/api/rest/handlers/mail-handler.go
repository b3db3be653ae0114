package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/mail-svc/internal/dto"
)

// Mailer is the part of MailService the handler needs.
type Mailer interface {
	SendOTP(ctx context.Context, ev dto.NotificationEvent) error
	SendWelcome(ctx context.Context, ev dto.NotificationEvent) error
}

type MailHandler struct {
	mailer Mailer
	logger *zap.Logger
}

func NewMailHandler(mailer Mailer, logger *zap.Logger) *MailHandler {
	return &MailHandler{mailer: mailer, logger: logger.Named("handler")}
}

func (h *MailHandler) HandleMessage(ctx context.Context, key, value []byte) error {
	var event dto.NotificationEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("invalid event payload: %w", err)
	}

	kind := kindForKey(string(key))
	if kind == "" {
		kind = event.Kind
	}

	switch kind {
	case dto.KindOTP:
		return h.mailer.SendOTP(ctx, event)
	case dto.KindRegistrationSuccess:
		return h.mailer.SendWelcome(ctx, event)
	default:
		h.logger.Warn("skipping unknown event",
			zap.String("key", string(key)),
			zap.String("kind", event.Kind),
			zap.String("event_id", event.EventID),
		)
		return nil
	}
}

func kindForKey(key string) string {
	switch key {
	case dto.KeyOTP:
		return dto.KindOTP
	case dto.KeyRegistrationSuccess:
		return dto.KindRegistrationSuccess
	default:
		return ""
	}
}
