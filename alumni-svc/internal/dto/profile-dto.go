package dto

import (
	"time"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/domain"
)

// UpdateAlumniProfile is a PATCH: nil fields are left untouched.
type UpdateAlumniProfile struct {
	FirstName      *string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName       *string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	JoiningYear    *Year   `json:"joiningYear,omitempty" validate:"omitempty,gt=0,lte=9999"`
	PassingYear    *Year   `json:"passingYear,omitempty" validate:"omitempty,gt=0,lte=9999"`
	Department     *string `json:"department,omitempty" validate:"omitempty,max=150"`
	College        *string `json:"college,omitempty" validate:"omitempty,max=200"`
	Course         *string `json:"course,omitempty" validate:"omitempty,max=150"`
	CurrentCompany *string `json:"currentCompany,omitempty" validate:"omitempty,max=200"`
	Designation    *string `json:"designation,omitempty" validate:"omitempty,max=150"`
	City           *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Country        *string `json:"country,omitempty" validate:"omitempty,max=100"`
	Bio            *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
}

type AlumniProfileResponse struct {
	ID             uint      `json:"id"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	JoiningYear    int       `json:"joiningYear"`
	PassingYear    int       `json:"passingYear"`
	Department     string    `json:"department"`
	College        string    `json:"college"`
	Course         string    `json:"course"`
	CurrentCompany string    `json:"currentCompany,omitempty"`
	Designation    string    `json:"designation,omitempty"`
	City           string    `json:"city,omitempty"`
	Country        string    `json:"country,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	PhotoURL       string    `json:"photoUrl,omitempty"`
	Role           string    `json:"role"`
	Verified       bool      `json:"verified"`
	CreatedAt      time.Time `json:"createdAt"`
}

func NewAlumniProfileResponse(a *domain.Alumni) AlumniProfileResponse {
	return AlumniProfileResponse{
		ID:             a.ID,
		Email:          a.Email,
		Phone:          a.Phone,
		FirstName:      a.FirstName,
		LastName:       a.LastName,
		JoiningYear:    a.JoiningYear,
		PassingYear:    a.PassingYear,
		Department:     a.Department,
		College:        a.College,
		Course:         a.Course,
		CurrentCompany: a.CurrentCompany,
		Designation:    a.Designation,
		City:           a.City,
		Country:        a.Country,
		Bio:            a.Bio,
		PhotoURL:       a.PhotoURL,
		Role:           string(a.Role),
		Verified:       a.Verified,
		CreatedAt:      a.CreatedAt,
	}
}

type EducationRequest struct {
	Institution string `json:"institution" validate:"required,max=200"`
	Degree      string `json:"degree" validate:"required,max=150"`
	Field       string `json:"field" validate:"max=150"`
	StartYear   Year   `json:"startYear" validate:"required,gt=0,lte=9999"`
	EndYear     *Year  `json:"endYear,omitempty" validate:"omitempty,gt=0,lte=9999"`
}

type PhotoUploadResponse struct {
	PhotoURL string `json:"photoUrl"`
}
