package domain

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ActorID   uint      `gorm:"not null;index" json:"actorId"` // super moderator
	Action    string    `gorm:"type:varchar(100);not null" json:"action"`
	Entity    string    `gorm:"type:varchar(100);not null" json:"entity"`
	EntityID  uint      `gorm:"not null;index" json:"entityId"`
	Note      *string   `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

const (
	AuditActionRoleChanged        = "ROLE_CHANGED"
	AuditActionAlumniDeleted      = "ALUMNI_DELETED"
	AuditActionMaintenanceEnabled = "MAINTENANCE_ENABLED"
	AuditActionMaintenanceOff     = "MAINTENANCE_DISABLED"
)
