package order_api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"ms-dinein/internal/audit"
	"ms-dinein/internal/auth"
	"ms-dinein/internal/board"
	"ms-dinein/internal/logger"
	"ms-dinein/internal/models"
	"ms-dinein/internal/order"
	"ms-dinein/internal/order/billing"
	"ms-dinein/internal/receipt"
	"ms-dinein/internal/tenant"
	"ms-dinein/internal/utils"
)

// OrgSource supplies branding for the printable receipt.
type OrgSource interface {
	GetOrganization(ctx context.Context, orgID string) (*models.Organization, error)
}

type Handler struct {
	OrderService *order.OrderService
	Board        *board.Board
	OrgDB        OrgSource
	Audit        *audit.Recorder
	Logger       *logger.Logger
}

func (h *Handler) recordAudit(r *http.Request, action string, orderID int64, details map[string]interface{}) {
	if h.Audit == nil {
		return
	}
	if details == nil {
		details = map[string]interface{}{}
	}
	details["user_id"] = auth.UserID(r.Context())
	h.Audit.Record(r.Context(), tenant.OrgID(r.Context()), action, "order", strconv.FormatInt(orderID, 10), details)
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())

	var req models.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	placed, err := h.OrderService.PlaceOrder(r.Context(), orgID, req)
	if err != nil {
		if isValidation(err) {
			http.Error(w, "Could not place order: "+err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Could not place order: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Order placed", placed))
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())

	orders, err := h.OrderService.ListOrders(r.Context(), orgID)
	if err != nil {
		http.Error(w, "Could not list orders: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Orders", orders))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())
	id, err := orderID(r)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	o, err := h.OrderService.GetOrder(r.Context(), orgID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Could not fetch order: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Order", o))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())
	id, err := orderID(r)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	var req models.StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	o, err := h.OrderService.UpdateStatus(r.Context(), orgID, id, req.Status)
	if err != nil {
		if isValidation(err) {
			http.Error(w, "Could not update status: "+err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Could not update status: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.recordAudit(r, "order.status", id, map[string]interface{}{"status": req.Status})
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Status updated", o))
}

func (h *Handler) EditOrder(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())
	id, err := orderID(r)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	var req models.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	o, err := h.OrderService.EditOrder(r.Context(), orgID, id, req)
	if err != nil {
		if isValidation(err) {
			http.Error(w, "Could not update order: "+err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Could not update order: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.recordAudit(r, "order.edit", id, nil)
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Order updated", o))
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())
	id, err := orderID(r)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	o, err := h.OrderService.CancelOrder(r.Context(), orgID, id)
	if err != nil {
		http.Error(w, "Could not cancel order: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.recordAudit(r, "order.cancel", id, nil)
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Order canceled", o))
}

func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())

	var req models.PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.TableID == "" {
		http.Error(w, "Table id is required", http.StatusBadRequest)
		return
	}

	resp, err := h.OrderService.MarkPaid(r.Context(), orgID, req)
	if err != nil {
		if isValidation(err) {
			http.Error(w, "Could not record payment: "+err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Could not record payment: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.Logger.LogOrder("PAY", 0, fmt.Sprintf("Paid %d order(s) on table %s", len(resp.PaidOrderIDs), req.TableID))
	if h.Audit != nil {
		h.Audit.Record(r.Context(), orgID, "order.pay", "table", req.TableID, map[string]interface{}{
			"user_id":   auth.UserID(r.Context()),
			"order_ids": resp.PaidOrderIDs,
			"amount":    resp.Amount,
		})
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Payment recorded", resp))
}

// GetBoard serves the kitchen board snapshot. A "q" query narrows it by table,
// customer name or item name; "grouped=true" nests it status -> table -> name.
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())

	if err := h.Board.Prime(r.Context(), orgID); err != nil {
		http.Error(w, "Could not load order board: "+err.Error(), http.StatusInternalServerError)
		return
	}

	views := h.Board.Snapshot(orgID, time.Now())

	if q := r.URL.Query().Get("q"); q != "" {
		items, err := h.OrderService.Menu.ListMenu(r.Context(), orgID)
		if err != nil {
			http.Error(w, "Could not load menu for board search: "+err.Error(), http.StatusInternalServerError)
			return
		}
		idx := billing.BuildMenuIndex(items)

		orders := make([]models.Order, len(views))
		for i, v := range views {
			orders[i] = v.Order
		}
		kept := make(map[int64]bool)
		for _, o := range billing.FilterOrders(orders, q, idx) {
			kept[o.ID] = true
		}
		filtered := make([]board.OrderView, 0, len(kept))
		for _, v := range views {
			if kept[v.ID] {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}

	if r.URL.Query().Get("grouped") == "true" {
		orders := make([]models.Order, len(views))
		for i, v := range views {
			orders[i] = v.Order
		}
		utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Order board", billing.GroupByStatusTableName(orders)))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Order board", views))
}

func (h *Handler) ReceiptNames(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())
	tableID := chi.URLParam(r, "tableID")

	names, err := h.OrderService.ReceiptNames(r.Context(), orgID, tableID)
	if err != nil {
		http.Error(w, "Could not list receipt names: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Receipt names", names))
}

// PrintReceipt serves the printable receipt of a table, optionally narrowed to
// one customer name, as HTML sized for the requested paper width.
func (h *Handler) PrintReceipt(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())
	tableID := chi.URLParam(r, "tableID")
	name := r.URL.Query().Get("name")

	rcpt, err := h.OrderService.BuildReceipt(r.Context(), orgID, tableID, name)
	if err != nil {
		http.Error(w, "Could not build receipt: "+err.Error(), http.StatusInternalServerError)
		return
	}

	org, err := h.OrgDB.GetOrganization(r.Context(), orgID)
	if err != nil {
		http.Error(w, "Could not fetch organization: "+err.Error(), http.StatusInternalServerError)
		return
	}

	html, err := receipt.Render(receipt.Document{
		Org:     *org,
		Receipt: *rcpt,
		Paper:   receipt.ParsePaperWidth(r.URL.Query().Get("paper")),
	})
	if err != nil {
		http.Error(w, "Could not render receipt: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.recordAudit(r, "receipt.print", 0, map[string]interface{}{"table_id": tableID, "name": name})

	w.Header().Set("Content-Type", "text/html;charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	w.Write(html)
}

func orderID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
}

func isValidation(err error) bool {
	return errors.Is(err, order.ErrInvalid)
}
