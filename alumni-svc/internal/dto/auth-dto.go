package dto

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Year accepts either a JSON number or a numeric string ("2019").
// Empty values decode to 0 and are rejected by the "required" tag.
type Year int

func (y *Year) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	if bytes.Equal(raw, []byte("null")) {
		*y = 0
		return nil
	}
	s := strings.TrimSpace(strings.Trim(string(raw), `"`))
	if s == "" {
		*y = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("year must be a whole number, got %s", raw)
	}
	*y = Year(n)
	return nil
}

// RegistrationProfile is the minimum profile needed to request a registration code.
type RegistrationProfile struct {
	FirstName   string `json:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"max=100"`
	JoiningYear Year   `json:"joiningYear" validate:"required,gt=0,lte=9999"`
	PassingYear Year   `json:"passingYear" validate:"required,gt=0,lte=9999"`
	Department  string `json:"department" validate:"required,max=150"`
	College     string `json:"college" validate:"required,max=200"`
	Course      string `json:"course" validate:"required,max=150"`
}

func (p *RegistrationProfile) Normalize() {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Department = strings.TrimSpace(p.Department)
	p.College = strings.TrimSpace(p.College)
	p.Course = strings.TrimSpace(p.Course)
}

type SendOTPRequest struct {
	Email   string `json:"email" validate:"omitempty,email,max=255"`
	Phone   string `json:"phone" validate:"omitempty,max=32"`
	OTPType string `json:"otpType" validate:"omitempty,oneof=EMAIL PHONE"`
	RegistrationProfile
}

func (r *SendOTPRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.OTPType = strings.ToUpper(strings.TrimSpace(r.OTPType))
	r.RegistrationProfile.Normalize()
}

type SendOTPResponse struct {
	AlumniID uint `json:"alumniId"`
}

type RegisterRequest struct {
	AlumniID uint   `json:"alumniId" validate:"required"`
	OTP      string `json:"otp" validate:"required,len=6,numeric"`
	RegistrationProfile

	CurrentCompany string `json:"currentCompany" validate:"max=200"`
	Designation    string `json:"designation" validate:"max=150"`
	City           string `json:"city" validate:"max=100"`
	Country        string `json:"country" validate:"max=100"`
	Bio            string `json:"bio" validate:"max=2000"`
}

func (r *RegisterRequest) Normalize() {
	r.OTP = strings.TrimSpace(r.OTP)
	r.RegistrationProfile.Normalize()
	r.CurrentCompany = strings.TrimSpace(r.CurrentCompany)
	r.Designation = strings.TrimSpace(r.Designation)
	r.City = strings.TrimSpace(r.City)
	r.Country = strings.TrimSpace(r.Country)
	r.Bio = strings.TrimSpace(r.Bio)
}

type SendLoginOTPRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type VerifyLoginOTPRequest struct {
	AlumniID uint   `json:"alumniId" validate:"required"`
	OTP      string `json:"otp" validate:"required,len=6,numeric"`
}

type LoginResponse struct {
	Token string                `json:"token"`
	User  AlumniProfileResponse `json:"user"`
}

// AuthResponse is the decoded access token.
type AuthResponse struct {
	AlumniID uint    `json:"alumniId"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	Iat      float64 `json:"iat"`
	Expiry   float64 `json:"expiry"`
}
