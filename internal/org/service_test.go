package org_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ms-dinein/internal/logger"
	"ms-dinein/internal/models"
	"ms-dinein/internal/org"
)

type MockOrgDBLayer struct {
	mock.Mock
}

func (m *MockOrgDBLayer) GetOrganization(ctx context.Context, orgID string) (*models.Organization, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrgDBLayer) GetOrganizationBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrgDBLayer) CreateOrganization(ctx context.Context, o *models.Organization) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrgDBLayer) UpdateSettings(ctx context.Context, o models.Organization) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrgDBLayer) GetMember(ctx context.Context, orgID, userID string) (*models.OrgMember, error) {
	args := m.Called(ctx, orgID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrgMember), args.Error(1)
}

func (m *MockOrgDBLayer) ListMembers(ctx context.Context, orgID string) ([]models.OrgMember, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OrgMember), args.Error(1)
}

func (m *MockOrgDBLayer) UpsertMember(ctx context.Context, member *models.OrgMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockOrgDBLayer) ListVenues(ctx context.Context, orgID string) ([]models.Venue, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Venue), args.Error(1)
}

func (m *MockOrgDBLayer) CreateVenue(ctx context.Context, venue *models.Venue) error {
	args := m.Called(ctx, venue)
	return args.Error(0)
}

func (m *MockOrgDBLayer) DeleteVenue(ctx context.Context, orgID, id string) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func TestBootstrapCreatesOrgAndOwner(t *testing.T) {
	mockDB := new(MockOrgDBLayer)
	svc := org.NewOrgService(mockDB, nil, logger.NewLogger())

	mockDB.On("GetOrganizationBySlug", mock.Anything, "skylight").Return(nil, sql.ErrNoRows)
	mockDB.On("CreateOrganization", mock.Anything, mock.MatchedBy(func(o *models.Organization) bool {
		return o.Slug == "skylight" && o.Name == "Skylight Village" && o.ID != ""
	})).Return(nil)
	mockDB.On("UpsertMember", mock.Anything, mock.MatchedBy(func(m *models.OrgMember) bool {
		return m.UserID == "user-1" && m.Role == "owner"
	})).Return(nil)

	resp, err := svc.Bootstrap(context.Background(), "user-1", models.BootstrapRequest{
		OrgSlug: "skylight",
		OrgName: "Skylight Village",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.OrganizationID)
	assert.Empty(t, resp.VenueID)
	mockDB.AssertExpectations(t)
}

func TestBootstrapExistingOrgOnlyUpsertsMembership(t *testing.T) {
	mockDB := new(MockOrgDBLayer)
	svc := org.NewOrgService(mockDB, nil, logger.NewLogger())

	existing := &models.Organization{ID: "org-1", Slug: "skylight", Name: "Skylight Village"}
	mockDB.On("GetOrganizationBySlug", mock.Anything, "skylight").Return(existing, nil)
	mockDB.On("UpsertMember", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Bootstrap(context.Background(), "user-2", models.BootstrapRequest{
		OrgSlug: "skylight",
		OrgName: "Skylight Village",
	})

	assert.NoError(t, err)
	assert.Equal(t, "org-1", resp.OrganizationID)
	mockDB.AssertNotCalled(t, "CreateOrganization", mock.Anything, mock.Anything)
}

func TestBootstrapCreatesOptionalVenue(t *testing.T) {
	mockDB := new(MockOrgDBLayer)
	svc := org.NewOrgService(mockDB, nil, logger.NewLogger())

	existing := &models.Organization{ID: "org-1", Slug: "skylight"}
	mockDB.On("GetOrganizationBySlug", mock.Anything, "skylight").Return(existing, nil)
	mockDB.On("UpsertMember", mock.Anything, mock.Anything).Return(nil)
	mockDB.On("CreateVenue", mock.Anything, mock.MatchedBy(func(v *models.Venue) bool {
		return v.OrganizationID == "org-1" && v.Name == "Main Hall" && v.Slug == "skylight"
	})).Return(nil)

	resp, err := svc.Bootstrap(context.Background(), "user-1", models.BootstrapRequest{
		OrgSlug:   "skylight",
		OrgName:   "Skylight Village",
		VenueName: "Main Hall",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.VenueID)
}

func TestBootstrapRequiresSlugAndName(t *testing.T) {
	svc := org.NewOrgService(new(MockOrgDBLayer), nil, logger.NewLogger())

	_, err := svc.Bootstrap(context.Background(), "user-1", models.BootstrapRequest{OrgSlug: "skylight"})
	assert.True(t, errors.Is(err, org.ErrInvalid))

	_, err = svc.Bootstrap(context.Background(), "user-1", models.BootstrapRequest{OrgName: "Skylight"})
	assert.True(t, errors.Is(err, org.ErrInvalid))
}

func TestUpdateSettingsInvalidatesSlugCache(t *testing.T) {
	mockDB := new(MockOrgDBLayer)
	mockCache := new(MockInvalidator)
	svc := org.NewOrgService(mockDB, mockCache, logger.NewLogger())

	updated := models.Organization{ID: "org-1", Name: "New Name", TaxRate: 7}
	mockDB.On("UpdateSettings", mock.Anything, updated).Return(nil)
	mockDB.On("GetOrganization", mock.Anything, "org-1").Return(&models.Organization{ID: "org-1", Slug: "skylight"}, nil)
	mockCache.On("Invalidate", mock.Anything, "skylight").Return(nil)

	err := svc.UpdateSettings(context.Background(), updated)

	assert.NoError(t, err)
	mockCache.AssertExpectations(t)
}

func TestUpdateSettingsRejectsNegativeRates(t *testing.T) {
	svc := org.NewOrgService(new(MockOrgDBLayer), nil, logger.NewLogger())

	err := svc.UpdateSettings(context.Background(), models.Organization{ID: "org-1", Name: "X", TaxRate: -1})

	assert.True(t, errors.Is(err, org.ErrInvalid))
}
