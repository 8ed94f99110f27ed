package db

import (
	"context"

	"github.com/uptrace/bun"

	"ms-dinein/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- ORGANIZATIONS ----------------

func (d *DB) GetOrganization(ctx context.Context, orgID string) (*models.Organization, error) {
	var org models.Organization
	err := d.Bun.NewSelect().
		Model(&org).
		Where("id = ?", orgID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (d *DB) GetOrganizationBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	var org models.Organization
	err := d.Bun.NewSelect().
		Model(&org).
		Where("slug = ?", slug).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// GetOrgIDBySlug backs the tenant resolver's cache misses.
func (d *DB) GetOrgIDBySlug(ctx context.Context, slug string) (string, error) {
	var org models.Organization
	err := d.Bun.NewSelect().
		Model(&org).
		Column("id").
		Where("slug = ?", slug).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return "", err
	}
	return org.ID, nil
}

func (d *DB) CreateOrganization(ctx context.Context, org *models.Organization) error {
	_, err := d.Bun.NewInsert().Model(org).Exec(ctx)
	return err
}

// UpdateSettings rewrites the branding and billing columns of an organization.
func (d *DB) UpdateSettings(ctx context.Context, org models.Organization) error {
	_, err := d.Bun.NewUpdate().
		Model(&org).
		Column("name", "logo_url", "receipt_header", "receipt_footer", "tax_rate", "service_rate").
		Where("id = ?", org.ID).
		Exec(ctx)
	return err
}

// ---------------- MEMBERS ----------------

func (d *DB) GetMember(ctx context.Context, orgID, userID string) (*models.OrgMember, error) {
	var member models.OrgMember
	err := d.Bun.NewSelect().
		Model(&member).
		Where("organization_id = ?", orgID).
		Where("user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (d *DB) ListMembers(ctx context.Context, orgID string) ([]models.OrgMember, error) {
	var members []models.OrgMember
	err := d.Bun.NewSelect().
		Model(&members).
		Where("organization_id = ?", orgID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []models.OrgMember{}
	}
	return members, nil
}

// UpsertMember inserts a membership or updates the role of an existing one.
func (d *DB) UpsertMember(ctx context.Context, member *models.OrgMember) error {
	_, err := d.Bun.NewInsert().
		Model(member).
		On("CONFLICT (organization_id, user_id) DO UPDATE").
		Set("role = EXCLUDED.role").
		Exec(ctx)
	return err
}

// ---------------- VENUES ----------------

func (d *DB) ListVenues(ctx context.Context, orgID string) ([]models.Venue, error) {
	var venues []models.Venue
	err := d.Bun.NewSelect().
		Model(&venues).
		Where("organization_id = ?", orgID).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if venues == nil {
		venues = []models.Venue{}
	}
	return venues, nil
}

func (d *DB) CreateVenue(ctx context.Context, venue *models.Venue) error {
	_, err := d.Bun.NewInsert().Model(venue).Exec(ctx)
	return err
}

func (d *DB) DeleteVenue(ctx context.Context, orgID, id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Venue)(nil)).
		Where("id = ?", id).
		Where("organization_id = ?", orgID).
		Exec(ctx)
	return err
}
