package interfaces

import (
	"context"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/dto"
)

type ProducerHandler interface {
	PublishMessage(ctx context.Context, key, value []byte) error
}

// Notifier delivers a one-time code or a credential-bearing message.
// A nil error only means the message was handed off, not that it arrived.
type Notifier interface {
	Send(ctx context.Context, n dto.Notification) error
}

// RateLimiter guards how often codes may be requested for one contact.
type RateLimiter interface {
	Allow(ctx context.Context, contact, purpose string) error
}
