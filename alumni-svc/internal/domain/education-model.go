package domain

import "time"

type Education struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AlumniID    uint      `gorm:"not null;index" json:"alumniId"`
	Institution string    `gorm:"type:varchar(200);not null" json:"institution"`
	Degree      string    `gorm:"type:varchar(150);not null" json:"degree"`
	Field       string    `gorm:"type:varchar(150)" json:"field,omitempty"`
	StartYear   int       `json:"startYear"`
	EndYear     *int      `json:"endYear,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`

	Alumni *Alumni `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Education) TableName() string {
	return "education"
}
