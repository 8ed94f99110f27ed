// Package audit records staff actions. Writes are best effort: a failed audit
// insert is logged and never fails the triggering operation.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"ms-dinein/internal/logger"
	"ms-dinein/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateEntry(ctx context.Context, entry *models.AuditLog) error {
	_, err := d.Bun.NewInsert().Model(entry).Exec(ctx)
	return err
}

func (d *DB) ListEntries(ctx context.Context, orgID string, limit int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := d.Bun.NewSelect().
		Model(&entries).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.AuditLog{}
	}
	return entries, nil
}

type AuditDBLayer interface {
	CreateEntry(ctx context.Context, entry *models.AuditLog) error
	ListEntries(ctx context.Context, orgID string, limit int) ([]models.AuditLog, error)
}

type Recorder struct {
	DB     AuditDBLayer
	Logger *logger.Logger
}

func NewRecorder(db AuditDBLayer, log *logger.Logger) *Recorder {
	return &Recorder{DB: db, Logger: log}
}

// Record writes one audit entry. Errors are swallowed after logging.
func (r *Recorder) Record(ctx context.Context, orgID, action, entity, entityID string, details map[string]interface{}) {
	entry := &models.AuditLog{
		OrganizationID: orgID,
		Action:         action,
		Entity:         entity,
		EntityID:       entityID,
		Details:        details,
		CreatedAt:      time.Now().UTC(),
	}
	if err := r.DB.CreateEntry(ctx, entry); err != nil {
		r.Logger.Warn("AUDIT", fmt.Sprintf("Failed to record %s on %s/%s: %v", action, entity, entityID, err))
	}
}

func (r *Recorder) List(ctx context.Context, orgID string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return r.DB.ListEntries(ctx, orgID, limit)
}
