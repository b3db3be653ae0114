package interfaces

import "context"

// ConsumerHandler processes one Kafka message. A returned error is logged and
// the message is not retried.
type ConsumerHandler interface {
	HandleMessage(ctx context.Context, key, value []byte) error
}
