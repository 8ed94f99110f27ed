package menu_api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-dinein/internal/logger"
	menu "ms-dinein/internal/menu/service"
	"ms-dinein/internal/models"
	"ms-dinein/internal/tenant"
	"ms-dinein/internal/utils"
)

type Handler struct {
	MenuService *menu.MenuService
	Logger      *logger.Logger
}

// GetMenu serves the customer-facing menu: available items only.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())

	items, err := h.MenuService.AvailableMenu(r.Context(), orgID)
	if err != nil {
		http.Error(w, "Could not load menu: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Menu", items))
}

// GetFullMenu serves the staff menu including unavailable items.
func (h *Handler) GetFullMenu(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())

	items, err := h.MenuService.ListMenu(r.Context(), orgID)
	if err != nil {
		http.Error(w, "Could not load menu: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Menu", items))
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())

	var item models.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	item.OrganizationID = orgID

	if err := h.MenuService.CreateItem(r.Context(), &item); err != nil {
		if errors.Is(err, menu.ErrInvalid) {
			http.Error(w, "Could not create menu item: "+err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Could not create menu item: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Menu item created", item))
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())
	id, err := itemID(r)
	if err != nil {
		http.Error(w, "Invalid menu item id", http.StatusBadRequest)
		return
	}

	var item models.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	item.ID = id
	item.OrganizationID = orgID

	if err := h.MenuService.UpdateItem(r.Context(), item); err != nil {
		if errors.Is(err, menu.ErrInvalid) {
			http.Error(w, "Could not update menu item: "+err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Could not update menu item: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Menu item updated", item))
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())
	id, err := itemID(r)
	if err != nil {
		http.Error(w, "Invalid menu item id", http.StatusBadRequest)
		return
	}

	if err := h.MenuService.DeleteItem(r.Context(), orgID, id); err != nil {
		http.Error(w, "Could not delete menu item: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())
	id, err := itemID(r)
	if err != nil {
		http.Error(w, "Invalid menu item id", http.StatusBadRequest)
		return
	}

	var req struct {
		IsAvailable bool `json:"is_available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.MenuService.SetAvailability(r.Context(), orgID, id, req.IsAvailable); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Menu item not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Could not update availability: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Availability updated", nil))
}

func itemID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
}
