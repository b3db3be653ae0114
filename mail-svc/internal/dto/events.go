package dto

// Message keys published by alumni-svc.
const (
	KeyOTP                 = "alumni.otp"
	KeyRegistrationSuccess = "alumni.registration_success"
)

// Event kinds, used when a message arrives without a known key.
const (
	KindOTP                 = "OTP"
	KindRegistrationSuccess = "REGISTRATION_SUCCESS"
)

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
