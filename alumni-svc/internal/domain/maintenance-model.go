package domain

import "time"

// MaintenanceSingletonID is the primary key of the one maintenance row.
const MaintenanceSingletonID uint = 1

type MaintenanceMode struct {
	ID         uint       `gorm:"primaryKey" json:"-"`
	IsEnabled  bool       `gorm:"not null;default:false" json:"isEnabled"`
	Message    string     `gorm:"type:text" json:"message"`
	EnabledBy  *uint      `json:"enabledBy,omitempty"`
	EnabledAt  *time.Time `json:"enabledAt,omitempty"`
	DisabledAt *time.Time `json:"disabledAt,omitempty"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (MaintenanceMode) TableName() string {
	return "maintenance_mode"
}
