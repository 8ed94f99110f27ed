package db

import (
	"context"
	"time"

	"ms-dinein/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- ORDERS ----------------

// CreateOrder inserts a new order and fills in the generated id.
func (d *DB) CreateOrder(ctx context.Context, order *models.Order) error {
	_, err := d.Bun.NewInsert().Model(order).Exec(ctx)
	return err
}

// GetOrderByID fetches one order scoped to an organization.
func (d *DB) GetOrderByID(ctx context.Context, orgID string, id int64) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Where("id = ?", id).
		Where("organization_id = ?", orgID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrdersSince fetches orders created after a cutoff, newest first.
func (d *DB) ListOrdersSince(ctx context.Context, orgID string, since time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Where("organization_id = ?", orgID).
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// UpdateOrder rewrites the editable columns of an order.
func (d *DB) UpdateOrder(ctx context.Context, order models.Order) error {
	_, err := d.Bun.NewUpdate().
		Model(&order).
		Column("name", "order_items", "status", "comment", "disc_amt", "disc_pct").
		Where("id = ?", order.ID).
		Where("organization_id = ?", order.OrganizationID).
		Exec(ctx)
	return err
}

// UpdateStatus transitions one order's status.
func (d *DB) UpdateStatus(ctx context.Context, orgID string, id int64, status string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Order)(nil)).
		Set("status = ?", status).
		Where("id = ?", id).
		Where("organization_id = ?", orgID).
		Exec(ctx)
	return err
}

// MarkPaid transitions a batch of orders to paid in one statement.
func (d *DB) MarkPaid(ctx context.Context, orgID string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := d.Bun.NewUpdate().
		Model((*models.Order)(nil)).
		Set("status = ?", models.StatusPaid).
		Where("id IN (?)", bun.In(ids)).
		Where("organization_id = ?", orgID).
		Exec(ctx)
	return err
}

// ServedOrdersByTable fetches the served orders of one table, the population
// eligible for receipts and payment.
func (d *DB) ServedOrdersByTable(ctx context.Context, orgID, tableID string) ([]models.Order, error) {
	var orders []models.Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Where("organization_id = ?", orgID).
		Where("table_id = ?", tableID).
		Where("status = ?", models.StatusServed).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// ---------------- PAYMENTS ----------------

func (d *DB) CreatePayment(ctx context.Context, payment *models.Payment) error {
	_, err := d.Bun.NewInsert().Model(payment).Exec(ctx)
	return err
}
