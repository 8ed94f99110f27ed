package db

import (
	"context"

	"github.com/uptrace/bun"

	"ms-dinein/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// ListMenu returns the full menu of an organization, grouped for display.
func (d *DB) ListMenu(ctx context.Context, orgID string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := d.Bun.NewSelect().
		Model(&items).
		Where("organization_id = ?", orgID).
		Order("category ASC", "name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	return items, nil
}

func (d *DB) GetItem(ctx context.Context, orgID string, id int64) (*models.MenuItem, error) {
	var item models.MenuItem
	err := d.Bun.NewSelect().
		Model(&item).
		Where("id = ?", id).
		Where("organization_id = ?", orgID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (d *DB) CreateItem(ctx context.Context, item *models.MenuItem) error {
	_, err := d.Bun.NewInsert().Model(item).Exec(ctx)
	return err
}

func (d *DB) UpdateItem(ctx context.Context, item models.MenuItem) error {
	_, err := d.Bun.NewUpdate().
		Model(&item).
		Column("name", "price", "category", "description", "image_url", "is_available", "options").
		Where("id = ?", item.ID).
		Where("organization_id = ?", item.OrganizationID).
		Exec(ctx)
	return err
}

func (d *DB) DeleteItem(ctx context.Context, orgID string, id int64) error {
	_, err := d.Bun.NewDelete().
		Model((*models.MenuItem)(nil)).
		Where("id = ?", id).
		Where("organization_id = ?", orgID).
		Exec(ctx)
	return err
}

func (d *DB) SetAvailability(ctx context.Context, orgID string, id int64, available bool) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.MenuItem)(nil)).
		Set("is_available = ?", available).
		Where("id = ?", id).
		Where("organization_id = ?", orgID).
		Exec(ctx)
	return err
}
