package dto

type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "EMAIL"
	ChannelSMS   NotificationChannel = "SMS"
)

type NotificationKind string

const (
	KindOTP                 NotificationKind = "OTP"
	KindRegistrationSuccess NotificationKind = "REGISTRATION_SUCCESS"
)

// Notification is what the services hand to a Notifier.
type Notification struct {
	Channel NotificationChannel
	Kind    NotificationKind
	To      string
	Name    string
	// Code is set for KindOTP, Secret for KindRegistrationSuccess.
	Code       string
	Purpose    string
	TTLMinutes int
	Secret     string
}

// NotificationEvent is the Kafka payload consumed by mail-svc.
type NotificationEvent struct {
	EventID    string `json:"event_id"`
	Kind       string `json:"kind"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	Code       string `json:"code,omitempty"`
	Purpose    string `json:"purpose,omitempty"`
	TTLMinutes int    `json:"ttl_minutes,omitempty"`
	Secret     string `json:"secret,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
