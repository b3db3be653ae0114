package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/dto"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/interfaces"
)

// KafkaNotifier publishes email notifications for mail-svc to deliver.
type KafkaNotifier struct {
	producer interfaces.ProducerHandler
	now      func() time.Time
}

func NewKafkaNotifier(producer interfaces.ProducerHandler) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, now: time.Now}
}

func (k *KafkaNotifier) Send(ctx context.Context, n dto.Notification) error {
	if n.Channel == dto.ChannelSMS {
		return errors.New("notify: kafka notifier only carries email")
	}

	event := dto.NotificationEvent{
		EventID:    uuid.NewString(),
		Kind:       string(n.Kind),
		Email:      n.To,
		Name:       n.Name,
		Code:       n.Code,
		Purpose:    n.Purpose,
		TTLMinutes: n.TTLMinutes,
		Secret:     n.Secret,
		OccurredAt: k.now().UTC().Format(time.RFC3339),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return k.producer.PublishMessage(ctx, []byte(EventKey(n.Kind)), payload)
}

// EventKey is the message key mail-svc dispatches on.
func EventKey(kind dto.NotificationKind) string {
	switch kind {
	case dto.KindRegistrationSuccess:
		return "alumni.registration_success"
	default:
		return "alumni.otp"
	}
}
