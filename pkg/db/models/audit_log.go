package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
)

// AuditLog records an immutable moderation or administrative act.
type AuditLog struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Action    enums.AuditAction `gorm:"column:action;type:audit_action;not null"`
	Entity    string            `gorm:"column:entity;not null"`
	EntityID  uuid.UUID         `gorm:"column:entity_id;type:uuid;not null"`
	ActorID   uuid.UUID         `gorm:"column:actor_id;type:uuid;not null"`
	Details   json.RawMessage   `gorm:"column:details;type:jsonb"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}
