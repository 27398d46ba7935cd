package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
)

type auditLogRepositoryImpl struct {
	db *database.DB
}

func NewAuditLogRepository(db *database.DB) audit.AuditLogRepository {
	return &auditLogRepositoryImpl{db: db}
}

// Create implements audit.AuditLogRepository.
func (r *auditLogRepositoryImpl) Create(ctx context.Context, log audit.AuditLog) (audit.AuditLog, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return audit.AuditLog{}, fmt.Errorf("failed to generate audit log id: %w", err)
	}
	if log.Details == nil {
		log.Details = map[string]any{}
	}

	err = q.QueryRow(ctx, `
		INSERT INTO audit_logs (id, actor_id, action, entity_type, entity_id, details)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, id, log.ActorID, log.Action, log.EntityType, log.EntityID, log.Details).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return audit.AuditLog{}, fmt.Errorf("failed to create audit log: %w", err)
	}
	return log, nil
}

// ListByEntity implements audit.AuditLogRepository.
func (r *auditLogRepositoryImpl) ListByEntity(ctx context.Context, entityType, entityID string) ([]audit.AuditLog, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, actor_id, action, entity_type, entity_id, details, created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
	`, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []audit.AuditLog
	for rows.Next() {
		var log audit.AuditLog
		if err := rows.Scan(&log.ID, &log.ActorID, &log.Action, &log.EntityType, &log.EntityID, &log.Details, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}
