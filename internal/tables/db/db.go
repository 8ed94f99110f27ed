package db

import (
	"context"

	"github.com/uptrace/bun"

	"ms-dinein/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) ListTables(ctx context.Context, orgID string) ([]models.Table, error) {
	var tables []models.Table
	err := d.Bun.NewSelect().
		Model(&tables).
		Where("organization_id = ?", orgID).
		Order("table_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if tables == nil {
		tables = []models.Table{}
	}
	return tables, nil
}

func (d *DB) GetTable(ctx context.Context, orgID, tableID string) (*models.Table, error) {
	var table models.Table
	err := d.Bun.NewSelect().
		Model(&table).
		Where("table_id = ?", tableID).
		Where("organization_id = ?", orgID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (d *DB) CreateTable(ctx context.Context, table *models.Table) error {
	_, err := d.Bun.NewInsert().Model(table).Exec(ctx)
	return err
}

func (d *DB) UpdateTable(ctx context.Context, table models.Table) error {
	_, err := d.Bun.NewUpdate().
		Model(&table).
		Column("table_id", "label").
		Where("id = ?", table.ID).
		Where("organization_id = ?", table.OrganizationID).
		Exec(ctx)
	return err
}

func (d *DB) DeleteTable(ctx context.Context, orgID, id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Table)(nil)).
		Where("id = ?", id).
		Where("organization_id = ?", orgID).
		Exec(ctx)
	return err
}
