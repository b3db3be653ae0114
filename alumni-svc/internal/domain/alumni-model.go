package domain

import "time"

type Alumni struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"type:varchar(255);index" json:"email"`
	Phone        string `gorm:"type:varchar(20);index" json:"phone"`
	PasswordHash string `json:"-"`

	FirstName string `gorm:"type:varchar(100)" json:"firstName"`
	LastName  string `gorm:"type:varchar(100)" json:"lastName"`

	JoiningYear int    `json:"joiningYear"`
	PassingYear int    `gorm:"index" json:"passingYear"`
	Department  string `gorm:"type:varchar(150);index" json:"department"`
	College     string `gorm:"type:varchar(200)" json:"college"`
	Course      string `gorm:"type:varchar(150)" json:"course"`

	CurrentCompany string `gorm:"type:varchar(200)" json:"currentCompany,omitempty"`
	Designation    string `gorm:"type:varchar(150)" json:"designation,omitempty"`
	City           string `gorm:"type:varchar(100)" json:"city,omitempty"`
	Country        string `gorm:"type:varchar(100)" json:"country,omitempty"`
	Bio            string `gorm:"type:text" json:"bio,omitempty"`
	PhotoURL       string `json:"photoUrl,omitempty"`

	Role     Role `gorm:"type:varchar(20);not null;default:BASE_MEMBER" json:"role"`
	Verified bool `gorm:"not null;default:false;index" json:"verified"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Alumni) TableName() string {
	return "alumni"
}

func (a *Alumni) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}
