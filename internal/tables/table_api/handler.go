package table_api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-dinein/internal/logger"
	"ms-dinein/internal/models"
	tables "ms-dinein/internal/tables/service"
	"ms-dinein/internal/tables/template"
	"ms-dinein/internal/tenant"
	"ms-dinein/internal/utils"
)

// OrgSource supplies the organization's display name for the printed card.
type OrgSource interface {
	GetOrganization(ctx context.Context, orgID string) (*models.Organization, error)
}

type Handler struct {
	TableService *tables.TableService
	OrgDB        OrgSource
	Logger       *logger.Logger
}

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())

	list, err := h.TableService.ListTables(r.Context(), orgID)
	if err != nil {
		http.Error(w, "Could not list tables: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Tables", list))
}

func (h *Handler) CreateTable(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())

	var table models.Table
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	table.OrganizationID = orgID

	if err := h.TableService.CreateTable(r.Context(), &table); err != nil {
		if errors.Is(err, tables.ErrInvalid) {
			http.Error(w, "Could not create table: "+err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Could not create table: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Table created", table))
}

func (h *Handler) UpdateTable(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())

	var table models.Table
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	table.ID = chi.URLParam(r, "id")
	table.OrganizationID = orgID

	if err := h.TableService.UpdateTable(r.Context(), table); err != nil {
		if errors.Is(err, tables.ErrInvalid) {
			http.Error(w, "Could not update table: "+err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Could not update table: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Table updated", table))
}

func (h *Handler) DeleteTable(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())

	if err := h.TableService.DeleteTable(r.Context(), orgID, chi.URLParam(r, "id")); err != nil {
		http.Error(w, "Could not delete table: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetTableQR serves the QR PNG of a table.
func (h *Handler) GetTableQR(w http.ResponseWriter, r *http.Request) {
	slug := tenant.Slug(r.Context())
	tableID := chi.URLParam(r, "tableID")

	png, err := h.TableService.GenerateQR(slug, tableID)
	if err != nil {
		http.Error(w, "Could not generate QR: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// GetTableCard serves the printable QR card of a table as HTML.
func (h *Handler) GetTableCard(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())
	slug := tenant.Slug(r.Context())
	tableID := chi.URLParam(r, "tableID")

	table, err := h.TableService.GetTable(r.Context(), orgID, tableID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Table not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Could not fetch table: "+err.Error(), http.StatusInternalServerError)
		return
	}

	org, err := h.OrgDB.GetOrganization(r.Context(), orgID)
	if err != nil {
		http.Error(w, "Could not fetch organization: "+err.Error(), http.StatusInternalServerError)
		return
	}

	png, err := h.TableService.GenerateQR(slug, tableID)
	if err != nil {
		http.Error(w, "Could not generate QR: "+err.Error(), http.StatusInternalServerError)
		return
	}

	html, err := template.RenderCard(org.Name, *table, h.TableService.TableURL(slug, tableID), png)
	if err != nil {
		http.Error(w, "Could not render QR card: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html;charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	w.Write(html)
}
