package org_api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-dinein/internal/audit"
	"ms-dinein/internal/auth"
	"ms-dinein/internal/logger"
	"ms-dinein/internal/models"
	"ms-dinein/internal/org"
	"ms-dinein/internal/tenant"
	"ms-dinein/internal/utils"
)

type Handler struct {
	OrgService *org.OrgService
	Audit      *audit.Recorder
	Logger     *logger.Logger
}

// BootstrapTenant provisions an organization for the caller: create-or-lookup
// by slug, owner membership, optional first venue.
func (h *Handler) BootstrapTenant(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		utils.WriteError(w, http.StatusUnauthorized, "No session", "")
		return
	}

	var req models.BootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	resp, err := h.OrgService.Bootstrap(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, org.ErrInvalid) {
			utils.WriteError(w, http.StatusBadRequest, "Could not bootstrap tenant", err.Error())
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "Could not bootstrap tenant", err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Tenant ready", resp))
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())

	settings, err := h.OrgService.GetSettings(r.Context(), orgID)
	if err != nil {
		http.Error(w, "Could not load settings: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Settings", settings))
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())

	var settings models.Organization
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	settings.ID = orgID

	if err := h.OrgService.UpdateSettings(r.Context(), settings); err != nil {
		if errors.Is(err, org.ErrInvalid) {
			http.Error(w, "Could not update settings: "+err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Could not update settings: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if h.Audit != nil {
		h.Audit.Record(r.Context(), orgID, "settings.update", "organization", orgID, map[string]interface{}{
			"user_id": auth.UserID(r.Context()),
		})
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Settings updated", settings))
}

// ListAuditLogs serves the most recent audit entries of the organization.
func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())

	entries, err := h.Audit.List(r.Context(), orgID, 100)
	if err != nil {
		http.Error(w, "Could not list audit logs: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Audit logs", entries))
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())

	members, err := h.OrgService.ListMembers(r.Context(), orgID)
	if err != nil {
		http.Error(w, "Could not list members: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Members", members))
}

func (h *Handler) ListVenues(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())

	venues, err := h.OrgService.ListVenues(r.Context(), orgID)
	if err != nil {
		http.Error(w, "Could not list venues: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Venues", venues))
}

func (h *Handler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())

	var venue models.Venue
	if err := json.NewDecoder(r.Body).Decode(&venue); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	venue.OrganizationID = orgID

	if err := h.OrgService.CreateVenue(r.Context(), &venue); err != nil {
		if errors.Is(err, org.ErrInvalid) {
			http.Error(w, "Could not create venue: "+err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Could not create venue: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Venue created", venue))
}

func (h *Handler) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())

	if err := h.OrgService.DeleteVenue(r.Context(), orgID, chi.URLParam(r, "id")); err != nil {
		http.Error(w, "Could not delete venue: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
