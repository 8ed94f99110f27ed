package db

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"ms-dinein/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateNotification(ctx context.Context, n *models.Notification) error {
	_, err := d.Bun.NewInsert().Model(n).Exec(ctx)
	return err
}

// ListNotifications returns the newest notifications first.
func (d *DB) ListNotifications(ctx context.Context, orgID string, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := d.Bun.NewSelect().
		Model(&notifications).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

func (d *DB) MarkRead(ctx context.Context, orgID string, id int64, at time.Time) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Notification)(nil)).
		Set("read_at = ?", at).
		Where("id = ?", id).
		Where("organization_id = ?", orgID).
		Where("read_at IS NULL").
		Exec(ctx)
	return err
}

func (d *DB) MarkAllRead(ctx context.Context, orgID string, at time.Time) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Notification)(nil)).
		Set("read_at = ?", at).
		Where("organization_id = ?", orgID).
		Where("read_at IS NULL").
		Exec(ctx)
	return err
}
