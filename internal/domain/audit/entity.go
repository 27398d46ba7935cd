package audit

import (
	"context"
	"time"
)

const (
	ActionUserBlocked       = "USER_BLOCKED"
	ActionUserStatusChanged = "USER_STATUS_CHANGED"
	ActionUserDeleted       = "USER_DELETED"
	ActionRequestDeleted    = "REQUEST_DELETED"

	EntityUser = "user"
)

type AuditLog struct {
	ID         string
	ActorID    *string // nil for system jobs
	Action     string
	EntityType string
	EntityID   string
	Details    map[string]any
	CreatedAt  time.Time
}

type AuditLogRepository interface {
	Create(ctx context.Context, log AuditLog) (AuditLog, error)
	ListByEntity(ctx context.Context, entityType, entityID string) ([]AuditLog, error)
}
