// Package org owns tenants: organizations, their venues, memberships and
// branding settings.
package org

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"ms-dinein/internal/logger"
	"ms-dinein/internal/models"
	"ms-dinein/internal/rbac"
)

var ErrInvalid = errors.New("invalid organization request")

type OrgDBLayer interface {
	GetOrganization(ctx context.Context, orgID string) (*models.Organization, error)
	GetOrganizationBySlug(ctx context.Context, slug string) (*models.Organization, error)
	CreateOrganization(ctx context.Context, org *models.Organization) error
	UpdateSettings(ctx context.Context, org models.Organization) error
	GetMember(ctx context.Context, orgID, userID string) (*models.OrgMember, error)
	ListMembers(ctx context.Context, orgID string) ([]models.OrgMember, error)
	UpsertMember(ctx context.Context, member *models.OrgMember) error
	ListVenues(ctx context.Context, orgID string) ([]models.Venue, error)
	CreateVenue(ctx context.Context, venue *models.Venue) error
	DeleteVenue(ctx context.Context, orgID, id string) error
}

// Invalidator drops a stale slug from the tenant cache after settings change.
type Invalidator interface {
	Invalidate(ctx context.Context, slug string) error
}

type OrgService struct {
	DB     OrgDBLayer
	Cache  Invalidator
	Logger *logger.Logger
}

func NewOrgService(db OrgDBLayer, cache Invalidator, log *logger.Logger) *OrgService {
	return &OrgService{DB: db, Cache: cache, Logger: log}
}

// Bootstrap creates or looks up an organization by slug, makes the caller its
// owner and optionally creates a venue. Idempotent: re-running it against an
// existing organization only re-asserts the membership.
func (s *OrgService) Bootstrap(ctx context.Context, userID string, req models.BootstrapRequest) (*models.BootstrapResponse, error) {
	if req.OrgSlug == "" || req.OrgName == "" {
		return nil, fmt.Errorf("%w: orgSlug and orgName are required", ErrInvalid)
	}

	org, err := s.DB.GetOrganizationBySlug(ctx, req.OrgSlug)
	switch {
	case err == nil:
	case errors.Is(err, sql.ErrNoRows):
		org = &models.Organization{
			ID:   uuid.New().String(),
			Slug: req.OrgSlug,
			Name: req.OrgName,
		}
		if err := s.DB.CreateOrganization(ctx, org); err != nil {
			return nil, fmt.Errorf("failed to create organization: %w", err)
		}
		s.Logger.LogDatabase("INSERT", "organizations", fmt.Sprintf("Organization %s (%s) created", org.ID, org.Slug))
	default:
		return nil, err
	}

	member := &models.OrgMember{
		ID:             uuid.New().String(),
		OrganizationID: org.ID,
		UserID:         userID,
		Role:           string(rbac.RoleOwner),
	}
	if err := s.DB.UpsertMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to upsert owner membership: %w", err)
	}

	resp := &models.BootstrapResponse{OrganizationID: org.ID}
	if req.VenueName != "" {
		venue := &models.Venue{
			ID:             uuid.New().String(),
			OrganizationID: org.ID,
			Name:           req.VenueName,
			Slug:           req.VenueSlug,
		}
		if venue.Slug == "" {
			venue.Slug = req.OrgSlug
		}
		if err := s.DB.CreateVenue(ctx, venue); err != nil {
			return nil, fmt.Errorf("failed to create venue: %w", err)
		}
		resp.VenueID = venue.ID
	}

	return resp, nil
}

func (s *OrgService) GetSettings(ctx context.Context, orgID string) (*models.Organization, error) {
	return s.DB.GetOrganization(ctx, orgID)
}

// UpdateSettings rewrites branding and billing fields, then drops the slug
// from the tenant cache so resolvers see fresh data.
func (s *OrgService) UpdateSettings(ctx context.Context, org models.Organization) error {
	if org.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if org.TaxRate < 0 || org.ServiceRate < 0 {
		return fmt.Errorf("%w: rates cannot be negative", ErrInvalid)
	}
	if err := s.DB.UpdateSettings(ctx, org); err != nil {
		return err
	}

	current, err := s.DB.GetOrganization(ctx, org.ID)
	if err == nil && s.Cache != nil {
		if err := s.Cache.Invalidate(ctx, current.Slug); err != nil {
			s.Logger.Warn("CACHE", fmt.Sprintf("Failed to invalidate slug %s: %v", current.Slug, err))
		}
	}
	return nil
}

func (s *OrgService) ListMembers(ctx context.Context, orgID string) ([]models.OrgMember, error) {
	return s.DB.ListMembers(ctx, orgID)
}

func (s *OrgService) ListVenues(ctx context.Context, orgID string) ([]models.Venue, error) {
	return s.DB.ListVenues(ctx, orgID)
}

func (s *OrgService) CreateVenue(ctx context.Context, venue *models.Venue) error {
	if venue.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if venue.ID == "" {
		venue.ID = uuid.New().String()
	}
	return s.DB.CreateVenue(ctx, venue)
}

func (s *OrgService) DeleteVenue(ctx context.Context, orgID, id string) error {
	return s.DB.DeleteVenue(ctx, orgID, id)
}
