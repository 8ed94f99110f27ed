package org_api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ms-dinein/internal/auth"
	"ms-dinein/internal/logger"
	"ms-dinein/internal/models"
	"ms-dinein/internal/org"
	"ms-dinein/internal/org/org_api"
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

func newHandler(mockDB *MockOrgDBLayer) *org_api.Handler {
	return &org_api.Handler{
		OrgService: org.NewOrgService(mockDB, nil, logger.NewLogger()),
		Logger:     logger.NewLogger(),
	}
}

func TestBootstrapTenantUnauthenticated(t *testing.T) {
	h := newHandler(new(MockOrgDBLayer))

	body, _ := json.Marshal(models.BootstrapRequest{OrgSlug: "skylight", OrgName: "Skylight"})
	req := httptest.NewRequest(http.MethodPost, "/api/bootstrap-tenant", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.BootstrapTenant(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBootstrapTenantMissingFields(t *testing.T) {
	h := newHandler(new(MockOrgDBLayer))

	body, _ := json.Marshal(models.BootstrapRequest{OrgSlug: "skylight"})
	req := httptest.NewRequest(http.MethodPost, "/api/bootstrap-tenant", bytes.NewReader(body))
	req = req.WithContext(auth.WithUserID(req.Context(), "user-1"))
	rec := httptest.NewRecorder()

	h.BootstrapTenant(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBootstrapTenantSuccess(t *testing.T) {
	mockDB := new(MockOrgDBLayer)
	h := newHandler(mockDB)

	mockDB.On("GetOrganizationBySlug", mock.Anything, "skylight").Return(nil, sql.ErrNoRows)
	mockDB.On("CreateOrganization", mock.Anything, mock.Anything).Return(nil)
	mockDB.On("UpsertMember", mock.Anything, mock.Anything).Return(nil)

	body, _ := json.Marshal(models.BootstrapRequest{OrgSlug: "skylight", OrgName: "Skylight Village"})
	req := httptest.NewRequest(http.MethodPost, "/api/bootstrap-tenant", bytes.NewReader(body))
	req = req.WithContext(auth.WithUserID(req.Context(), "user-1"))
	rec := httptest.NewRecorder()

	h.BootstrapTenant(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool                     `json:"success"`
		Data    models.BootstrapResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.OrganizationID)
}
