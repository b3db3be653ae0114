package domain

import "time"

type OTPPurpose string

const (
	OTPRegistrationEmail OTPPurpose = "REGISTRATION_EMAIL"
	OTPRegistrationPhone OTPPurpose = "REGISTRATION_PHONE"
	OTPLogin             OTPPurpose = "LOGIN"
)

// RegistrationPurposes are interchangeable when a registration code is looked up.
var RegistrationPurposes = []OTPPurpose{OTPRegistrationEmail, OTPRegistrationPhone}

func (p OTPPurpose) IsRegistration() bool {
	return p == OTPRegistrationEmail || p == OTPRegistrationPhone
}

// LookupPurposes returns the purposes a ValidateCode call for p may consume.
func (p OTPPurpose) LookupPurposes() []OTPPurpose {
	if p.IsRegistration() {
		return RegistrationPurposes
	}
	return []OTPPurpose{p}
}

type OTP struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	AlumniID  uint       `gorm:"not null;index:idx_otps_alumni_lookup,priority:1" json:"alumniId"`
	Code      string     `gorm:"type:varchar(6);not null" json:"-"`
	Purpose   OTPPurpose `gorm:"type:varchar(30);not null;index:idx_otps_alumni_lookup,priority:2" json:"purpose"`
	Used      bool       `gorm:"not null;default:false;index:idx_otps_alumni_lookup,priority:3" json:"used"`
	ExpiresAt time.Time  `gorm:"not null" json:"expiresAt"`
	CreatedAt time.Time  `json:"createdAt"`

	Alumni *Alumni `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (OTP) TableName() string {
	return "otps"
}

func (o *OTP) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
